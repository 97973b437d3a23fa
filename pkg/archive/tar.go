// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"archive/tar"
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// tarGzReader walks a gzip-compressed tar stream. The stream has no index,
// so every walk decompresses from the start of the in-memory bytes.
type tarGzReader struct {
	data []byte
}

func openTarGz(data []byte) (*tarGzReader, error) {
	r := &tarGzReader{data: data}
	// A full header pass surfaces truncation and checksum errors now rather
	// than halfway through extraction.
	if err := r.scan(func(Entry, *tar.Reader) error { return nil }); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *tarGzReader) Format() Format {
	return FormatTarGz
}

func (r *tarGzReader) Entries() ([]Entry, error) {
	var entries []Entry
	err := r.scan(func(e Entry, _ *tar.Reader) error {
		entries = append(entries, e)
		return nil
	})
	return entries, err
}

func (r *tarGzReader) Walk(fn WalkFunc) error {
	return r.scan(func(e Entry, tr *tar.Reader) error {
		if e.IsRegular() {
			return fn(e, tr)
		}
		return fn(e, nil)
	})
}

// scan iterates tar headers and verifies the gzip trailer once the tar
// stream ends. Errors from visit are returned unchanged.
func (r *tarGzReader) scan(visit func(Entry, *tar.Reader) error) error {
	gz, err := gzip.NewReader(bytes.NewReader(r.data))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFormat, err)
		}
		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		if err := visit(tarEntry(hdr), tr); err != nil {
			return err
		}
	}

	if _, err := io.Copy(io.Discard, gz); err != nil {
		return fmt.Errorf("%w: %w", ErrFormat, err)
	}
	return nil
}

func tarEntry(hdr *tar.Header) Entry {
	return Entry{
		Name:     hdr.Name,
		Mode:     hdr.FileInfo().Mode(),
		Size:     hdr.Size,
		Linkname: hdr.Linkname,
		HardLink: hdr.Typeflag == tar.TypeLink,
	}
}
