// SPDX-License-Identifier: MPL-2.0

// Package staging owns the per-run directory the launcher unpacks into.
package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jarstub/jarstub/pkg/archive"
)

// DefaultPrefix names staging directories when the manifest sets none.
const DefaultPrefix = "jarstub-"

// Dir is a uniquely named directory created for a single launch.
type Dir struct {
	path string
}

// New creates a fresh directory under parent. An empty parent selects
// os.TempDir(); an empty prefix selects DefaultPrefix.
func New(parent, prefix string) (*Dir, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	path, err := os.MkdirTemp(parent, prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}

	// MkdirTemp may hand back a relative path when parent is relative.
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Join(fmt.Errorf("failed to resolve staging directory: %w", err), os.RemoveAll(path))
	}

	return &Dir{path: abs}, nil
}

// Path returns the absolute staging root.
func (d *Dir) Path() string {
	return d.path
}

// Join resolves a slash-separated name inside the staging root.
// Names that would escape the root, lexically or through a symbolic link
// already on disk, are rejected with archive.ErrPathTraversal.
func (d *Dir) Join(name string) (string, error) {
	return archive.SafeJoinNoLinks(d.path, name)
}

// WriteFile writes data verbatim to name inside the staging root, creating
// parent directories as needed.
func (d *Dir) WriteFile(name string, data []byte, perm fs.FileMode) (string, error) {
	target, err := d.Join(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(target), archive.DefaultDirMode); err != nil {
		return "", err
	}
	// A link in the payload's place is replaced, never written through.
	if info, err := os.Lstat(target); err == nil && info.Mode()&fs.ModeSymlink != 0 {
		if err := os.Remove(target); err != nil {
			return "", err
		}
	}
	if err := os.WriteFile(target, data, perm); err != nil {
		return "", err
	}
	return target, nil
}

// Remove deletes the staging directory and everything in it.
// Removing an already removed directory is not an error.
func (d *Dir) Remove() error {
	if d == nil || d.path == "" {
		return nil
	}
	if err := os.RemoveAll(d.path); err != nil {
		return fmt.Errorf("failed to remove staging directory %s: %w", d.path, err)
	}
	return nil
}
