// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zip"
)

// maxLinkTarget bounds a symlink target stored as ZIP entry contents.
const maxLinkTarget = 4096

// zipReader walks a ZIP container through its central directory, which
// gives random access over the in-memory bytes.
type zipReader struct {
	zr *zip.Reader
}

func openZip(data []byte) (*zipReader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	// An insecure-path complaint still yields a usable reader; path safety
	// is enforced per entry during extraction.
	if zr == nil {
		return nil, fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return &zipReader{zr: zr}, nil
}

func (r *zipReader) Format() Format {
	return FormatZip
}

func (r *zipReader) Entries() ([]Entry, error) {
	entries := make([]Entry, 0, len(r.zr.File))
	for _, f := range r.zr.File {
		entries = append(entries, zipEntry(f))
	}
	return entries, nil
}

func (r *zipReader) Walk(fn WalkFunc) error {
	for _, f := range r.zr.File {
		if err := r.visit(f, fn); err != nil {
			return err
		}
	}
	return nil
}

func (r *zipReader) visit(f *zip.File, fn WalkFunc) error {
	e := zipEntry(f)
	if !e.IsRegular() && !e.IsSymlink() {
		return fn(e, nil)
	}

	rc, err := f.Open()
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrFormat, f.Name, err)
	}
	defer rc.Close()

	// ZIP stores a symlink target as the entry contents.
	if e.IsSymlink() {
		target, err := io.ReadAll(io.LimitReader(rc, maxLinkTarget+1))
		if err != nil {
			return fmt.Errorf("%w: read link %s: %w", ErrFormat, f.Name, err)
		}
		if len(target) > maxLinkTarget {
			return fmt.Errorf("%w: link target of %s exceeds %d bytes", ErrFormat, f.Name, maxLinkTarget)
		}
		e.Linkname = string(target)
		return fn(e, nil)
	}

	return fn(e, rc)
}

// zipEntry converts a central directory record. FileHeader.Mode already
// marks names with a trailing slash as directories.
func zipEntry(f *zip.File) Entry {
	return Entry{
		Name: f.Name,
		Mode: f.Mode(),
		Size: int64(f.UncompressedSize64),
	}
}
