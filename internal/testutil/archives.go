// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"archive/tar"
	"bytes"
	"io/fs"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
)

// ArchiveEntry describes one member of a synthetic archive.
// A Name ending in "/" is a directory. A non-empty Link makes a symlink.
type ArchiveEntry struct {
	Name string
	Body []byte
	Mode fs.FileMode
	Link string
}

// Dir is shorthand for a directory entry.
func Dir(name string) ArchiveEntry {
	if !strings.HasSuffix(name, "/") {
		name += "/"
	}
	return ArchiveEntry{Name: name, Mode: 0o755}
}

// File is shorthand for a regular file entry with mode 0644.
func File(name string, body []byte) ArchiveEntry {
	return ArchiveEntry{Name: name, Body: body, Mode: 0o644}
}

// Executable is shorthand for a regular file entry with mode 0755.
func Executable(name string, body []byte) ArchiveEntry {
	return ArchiveEntry{Name: name, Body: body, Mode: 0o755}
}

// Symlink is shorthand for a symbolic link entry.
func Symlink(name, target string) ArchiveEntry {
	return ArchiveEntry{Name: name, Mode: 0o777, Link: target}
}

// BuildZip returns a ZIP archive holding entries in the given order.
// Names are written verbatim, so hostile names can be used in tests.
func BuildZip(t testing.TB, entries ...ArchiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range entries {
		header := &zip.FileHeader{Name: e.Name, Method: zip.Deflate}
		switch {
		case strings.HasSuffix(e.Name, "/"):
			header.Method = zip.Store
			header.SetMode(fs.ModeDir | e.Mode)
		case e.Link != "":
			header.Method = zip.Store
			header.SetMode(fs.ModeSymlink | e.Mode)
		default:
			header.SetMode(e.Mode)
		}

		w, err := zw.CreateHeader(header)
		if err != nil {
			t.Fatalf("failed to create zip entry %s: %v", e.Name, err)
		}
		body := e.Body
		if e.Link != "" {
			body = []byte(e.Link)
		}
		if _, err := w.Write(body); err != nil {
			t.Fatalf("failed to write zip entry %s: %v", e.Name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

// BuildTarGz returns a gzip-compressed tar archive holding entries in order.
func BuildTarGz(t testing.TB, entries ...ArchiveEntry) []byte {
	t.Helper()

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.Name, Mode: int64(e.Mode.Perm())}
		switch {
		case strings.HasSuffix(e.Name, "/"):
			hdr.Typeflag = tar.TypeDir
		case e.Link != "":
			hdr.Typeflag = tar.TypeSymlink
			hdr.Linkname = e.Link
		default:
			hdr.Typeflag = tar.TypeReg
			hdr.Size = int64(len(e.Body))
		}

		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("failed to write tar header %s: %v", e.Name, err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write(e.Body); err != nil {
				t.Fatalf("failed to write tar entry %s: %v", e.Name, err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("failed to close tar writer: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("failed to close gzip writer: %v", err)
	}
	return buf.Bytes()
}
