// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// PackOptions controls how PackDir lays out the archive.
type PackOptions struct {
	// Prefix is prepended to every entry name (e.g., "jre"). Empty packs the
	// directory contents at the archive root.
	Prefix string
	// Store disables compression, which keeps already-compressed runtimes
	// (modules files, jars) from being deflated twice.
	Store bool
}

// PackDir writes a ZIP archive of src to w. Entry names use forward slashes,
// directories get explicit entries, permission bits are preserved, and
// symbolic links are stored as links.
func PackDir(src string, w io.Writer, opts PackOptions) (err error) {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", src)
	}
	// Entries under a prefix the launcher would refuse are never written.
	if opts.Prefix != "" {
		if _, err := SafeJoin(src, opts.Prefix); err != nil {
			return fmt.Errorf("invalid prefix: %w", err)
		}
	}

	zw := zip.NewWriter(w)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to finish archive: %w", closeErr)
		}
	}()

	method := zip.Deflate
	if opts.Store {
		method = zip.Store
	}

	return filepath.WalkDir(src, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		relPath, err := filepath.Rel(src, path)
		if err != nil {
			return fmt.Errorf("failed to get relative path: %w", err)
		}

		name := filepath.ToSlash(filepath.Join(opts.Prefix, relPath))
		if name == "." {
			return nil
		}

		fileInfo, err := d.Info()
		if err != nil {
			return fmt.Errorf("failed to get file info: %w", err)
		}

		header, err := zip.FileInfoHeader(fileInfo)
		if err != nil {
			return fmt.Errorf("failed to create file header: %w", err)
		}
		header.Name = name

		switch {
		case d.IsDir():
			header.Name += "/"
			header.Method = zip.Store
			_, err = zw.CreateHeader(header)
			return err
		case fileInfo.Mode()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			header.Method = zip.Store
			entry, err := zw.CreateHeader(header)
			if err != nil {
				return err
			}
			_, err = io.WriteString(entry, filepath.ToSlash(target))
			return err
		case fileInfo.Mode().IsRegular():
			header.Method = method
			entry, err := zw.CreateHeader(header)
			if err != nil {
				return fmt.Errorf("failed to create ZIP entry: %w", err)
			}
			return copyFile(entry, path)
		default:
			return nil
		}
	})
}

func copyFile(w io.Writer, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := io.Copy(w, f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
