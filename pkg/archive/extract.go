// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jarstub/jarstub/pkg/platform"
)

const (
	// DefaultDirMode is used for every directory created during extraction.
	DefaultDirMode fs.FileMode = 0o755
	// DefaultFileMode is used when an entry records no permission bits.
	DefaultFileMode fs.FileMode = 0o644
)

// ExtractStats summarizes what Extract wrote.
type ExtractStats struct {
	Dirs    int   // Directory entries ensured.
	Files   int   // Regular files written.
	Links   int   // Symbolic and hard links created.
	Skipped int   // Entries of other types (devices, FIFOs) that were ignored.
	Bytes   int64 // Total bytes written to regular files.
}

// Extract writes every entry of r under dest, in container order.
//
// Directories are created if missing and left alone otherwise. Files have
// their parent directories created on demand and are then truncated and
// rewritten with the entry contents, so extracting the same archive twice
// yields the same tree. Each entry is validated with SafeJoinNoLinks and
// platform.ReservedSegment before anything is written for it; a failing
// entry stops the extraction and earlier entries remain on disk.
//
// Nothing is ever written through a symbolic link. Link targets are checked
// against the filesystem when the link is created and once more after the
// last entry, since a later link can change where an earlier one leads; a
// link that resolves outside dest is removed and reported.
//
// Errors reading the archive wrap ErrFormat. Errors writing to dest are
// returned as the underlying *fs.PathError.
func Extract(r Reader, dest string) (*ExtractStats, error) {
	root, err := filepath.Abs(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination: %w", err)
	}
	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve destination: %w", err)
	}

	stats := &ExtractStats{}
	var links []string
	err = r.Walk(func(e Entry, contents io.Reader) error {
		if segment, reserved := platform.ReservedSegment(e.Name); reserved {
			return fmt.Errorf("%w: %q in %q", ErrReservedName, segment, e.Name)
		}

		target, err := SafeJoinNoLinks(root, e.Name)
		if err != nil {
			return err
		}

		switch {
		case e.IsDir():
			if err := ensureDir(target); err != nil {
				return err
			}
			stats.Dirs++
		case e.IsSymlink():
			if err := writeSymlink(root, realRoot, target, e); err != nil {
				return err
			}
			links = append(links, target)
			stats.Links++
		case e.HardLink:
			if err := writeHardLink(root, target, e); err != nil {
				return err
			}
			stats.Links++
		case e.IsRegular():
			n, err := writeFile(target, e, contents)
			if err != nil {
				return err
			}
			stats.Files++
			stats.Bytes += n
		default:
			stats.Skipped++
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if err := recheckLinks(realRoot, links); err != nil {
		return stats, err
	}
	return stats, nil
}

// recheckLinks re-evaluates every created link against the final tree.
func recheckLinks(realRoot string, links []string) error {
	for _, link := range links {
		// A later entry may have replaced the link.
		if !isSymlink(link) {
			continue
		}
		dest, err := os.Readlink(link)
		if err != nil {
			return err
		}
		ok, err := linkStaysWithin(realRoot, link, dest)
		if err != nil {
			return err
		}
		if !ok {
			_ = os.Remove(link)
			return fmt.Errorf("%w: link %s resolves outside the destination through %q", ErrPathTraversal, link, dest)
		}
	}
	return nil
}

// ensureDir creates path and any missing parents. An existing directory is
// not touched; an existing link in its place is refused.
func ensureDir(path string) error {
	info, err := os.Lstat(path)
	switch {
	case err == nil && info.Mode()&fs.ModeSymlink != 0:
		return fmt.Errorf("%w: %s is a symbolic link", ErrPathTraversal, path)
	case err == nil && info.IsDir():
		return nil
	}
	return os.MkdirAll(path, DefaultDirMode)
}

// writeFile creates or truncates target and copies contents into it verbatim.
func writeFile(target string, e Entry, contents io.Reader) (_ int64, err error) {
	if contents == nil {
		return 0, fmt.Errorf("%w: no contents for %s", ErrFormat, e.Name)
	}

	if err := ensureDir(filepath.Dir(target)); err != nil {
		return 0, err
	}
	// O_TRUNC would follow a link left by an earlier entry.
	if isSymlink(target) {
		if err := removeExisting(target); err != nil {
			return 0, err
		}
	}

	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, fileMode(e))
	if err != nil {
		return 0, err
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	n, err := io.Copy(f, &sourceReader{r: contents, name: e.Name})
	if err != nil {
		return n, err
	}
	return n, nil
}

// writeSymlink recreates a symbolic link whose target must stay inside root
// both lexically and on disk (realRoot is root with its own links resolved).
func writeSymlink(root, realRoot, target string, e Entry) error {
	if e.Linkname == "" {
		return fmt.Errorf("%w: empty link target for %s", ErrFormat, e.Name)
	}

	linkTarget := filepath.FromSlash(e.Linkname)
	lexical := linkTarget
	if !filepath.IsAbs(lexical) {
		lexical = filepath.Join(filepath.Dir(target), linkTarget)
	}
	ok, err := linkStaysWithin(realRoot, target, linkTarget)
	if err != nil {
		return err
	}
	if !ok || !Within(root, lexical) && !Within(realRoot, lexical) {
		return fmt.Errorf("%w: link %q points to %q", ErrPathTraversal, e.Name, e.Linkname)
	}

	if err := ensureDir(filepath.Dir(target)); err != nil {
		return err
	}
	if err := removeExisting(target); err != nil {
		return err
	}
	return os.Symlink(linkTarget, target)
}

// writeHardLink links target to a regular file written by an earlier entry
// of the same archive.
func writeHardLink(root, target string, e Entry) error {
	source, err := SafeJoinNoLinks(root, e.Linkname)
	if err != nil {
		return err
	}
	info, err := os.Lstat(source)
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: hard link %q to non-regular %q", ErrFormat, e.Name, e.Linkname)
	}

	if err := ensureDir(filepath.Dir(target)); err != nil {
		return err
	}
	if err := removeExisting(target); err != nil {
		return err
	}
	return os.Link(source, target)
}

func removeExisting(path string) error {
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// fileMode keeps the recorded permission bits, falling back to
// DefaultFileMode for writers that store none.
func fileMode(e Entry) fs.FileMode {
	perm := e.Mode.Perm()
	if perm == 0 {
		return DefaultFileMode
	}
	return perm
}

// sourceReader tags read failures as archive corruption so callers can
// tell a damaged archive from a full disk.
type sourceReader struct {
	r    io.Reader
	name string
}

func (s *sourceReader) Read(p []byte) (int, error) {
	n, err := s.r.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, fmt.Errorf("%w: read %s: %w", ErrFormat, s.name, err)
	}
	return n, err
}
