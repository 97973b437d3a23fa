// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
)

var (
	// ErrFormat indicates the bytes are not a supported or intact archive.
	ErrFormat = errors.New("unsupported or corrupt archive")

	// ErrPathTraversal indicates an entry resolves outside the destination root.
	ErrPathTraversal = errors.New("archive entry escapes destination")

	// ErrReservedName indicates an entry uses a Windows device name.
	ErrReservedName = errors.New("archive entry uses a reserved device name")
)

// Format identifies an archive container format.
type Format string

const (
	// FormatZip is a PKWARE ZIP container.
	FormatZip Format = "zip"
	// FormatTarGz is a tar stream compressed with gzip.
	FormatTarGz Format = "tar.gz"
)

type (
	// Entry describes a single member of an archive.
	Entry struct {
		// Name is the slash-separated path as stored in the archive.
		Name string
		// Mode carries the type bits and permissions recorded for the entry.
		Mode fs.FileMode
		// Size is the uncompressed size for regular files.
		Size int64
		// Linkname is the target of a symbolic or hard link.
		Linkname string
		// HardLink is set for tar hard links, whose Linkname is archive-relative.
		HardLink bool
	}

	// WalkFunc is called for each entry in container order. For regular
	// files, r yields the decompressed contents and is valid only for the
	// duration of the call; for other entries it is nil.
	WalkFunc func(e Entry, r io.Reader) error

	// Reader provides ordered access to the entries of an in-memory archive.
	Reader interface {
		// Format returns the detected container format.
		Format() Format
		// Entries lists entry metadata without decompressing contents.
		Entries() ([]Entry, error)
		// Walk visits every entry in container order.
		Walk(fn WalkFunc) error
	}
)

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Mode.IsDir()
}

// IsSymlink reports whether the entry is a symbolic link.
func (e Entry) IsSymlink() bool {
	return e.Mode&fs.ModeSymlink != 0
}

// IsRegular reports whether the entry holds file contents.
func (e Entry) IsRegular() bool {
	return e.Mode.IsRegular() && !e.HardLink
}

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	gzipMagic     = []byte{0x1f, 0x8b}
)

// Detect identifies the container format from the leading bytes of data.
func Detect(data []byte) (Format, error) {
	switch {
	case bytes.HasPrefix(data, zipMagic), bytes.HasPrefix(data, zipEmptyMagic):
		return FormatZip, nil
	case bytes.HasPrefix(data, gzipMagic):
		return FormatTarGz, nil
	case len(data) == 0:
		return "", fmt.Errorf("%w: empty input", ErrFormat)
	default:
		return "", fmt.Errorf("%w: unrecognized header", ErrFormat)
	}
}

// Open parses data as an archive. The container structure is validated up
// front so that a malformed archive is reported before anything is written.
func Open(data []byte) (Reader, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatZip:
		return openZip(data)
	case FormatTarGz:
		return openTarGz(data)
	default:
		return nil, fmt.Errorf("%w: %s", ErrFormat, format)
	}
}
