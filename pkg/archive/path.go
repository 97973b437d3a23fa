// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// SafeJoin resolves an archive entry name against root and returns the
// native destination path. Backslashes are treated as separators so that
// archives produced on Windows are judged the way Windows would unpack them.
// Absolute names, drive or UNC prefixes, and names whose canonical form
// climbs above root fail with ErrPathTraversal.
func SafeJoin(root, name string) (string, error) {
	slashed := strings.ReplaceAll(name, "\\", "/")

	if slashed == "" {
		return "", fmt.Errorf("%w: empty entry name", ErrPathTraversal)
	}
	if path.IsAbs(slashed) || filepath.IsAbs(name) || hasVolumePrefix(slashed) {
		return "", fmt.Errorf("%w: %q is absolute", ErrPathTraversal, name)
	}

	cleaned := path.Clean(slashed)
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}

	target := filepath.Join(root, filepath.FromSlash(cleaned))

	// Second opinion from the host's own path rules.
	rel, err := filepath.Rel(root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}

	return target, nil
}

// SafeJoinNoLinks is SafeJoin plus a check against the filesystem: the
// directories between root and the returned path must not be symbolic
// links, so writing to the result cannot land anywhere else. The final
// component itself may be a link; callers replace or reject it.
func SafeJoinNoLinks(root, name string) (string, error) {
	root = filepath.Clean(root)
	target, err := SafeJoin(root, name)
	if err != nil {
		return "", err
	}

	parent := filepath.Dir(target)
	if parent == root {
		return target, nil
	}
	rel, err := filepath.Rel(root, parent)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrPathTraversal, name)
	}

	// SecureJoin resolves existing links as if root were "/", so any
	// difference from the lexical path means a link was crossed.
	resolved, err := securejoin.SecureJoin(root, rel)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrPathTraversal, name, err)
	}
	if resolved != parent {
		return "", fmt.Errorf("%w: %q passes through a symbolic link", ErrPathTraversal, name)
	}
	return target, nil
}

// Within reports whether target lies inside root after cleaning both.
func Within(root, target string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(target))
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

// hasVolumePrefix detects "C:" drive letters on any host.
func hasVolumePrefix(slashed string) bool {
	return len(slashed) >= 2 && slashed[1] == ':' &&
		(slashed[0] >= 'a' && slashed[0] <= 'z' || slashed[0] >= 'A' && slashed[0] <= 'Z')
}

// resolvePhysical evaluates p one component at a time the way the kernel
// does, so ".." after a symbolic link climbs from the link's target.
// Components past the deepest existing prefix are joined lexically.
func resolvePhysical(p string) (string, error) {
	sep := string(filepath.Separator)
	parts := strings.Split(p, sep)
	for i := len(parts); i > 0; i-- {
		prefix := strings.Join(parts[:i], sep)
		if prefix == "" {
			prefix = sep
		}
		resolved, err := filepath.EvalSymlinks(prefix)
		if err == nil {
			return filepath.Join(append([]string{resolved}, parts[i:]...)...), nil
		}
		if !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, syscall.ENOTDIR) {
			return "", err
		}
	}
	return "", fmt.Errorf("cannot resolve %s: %w", p, fs.ErrNotExist)
}

// linkStaysWithin reports whether the symbolic link at link, pointing to
// dest, resolves inside realRoot given the current state of the filesystem.
func linkStaysWithin(realRoot, link, dest string) (bool, error) {
	raw := dest
	if !filepath.IsAbs(raw) {
		raw = filepath.Dir(link) + string(filepath.Separator) + dest
	}
	resolved, err := resolvePhysical(raw)
	if err != nil {
		return false, err
	}
	return Within(realRoot, resolved), nil
}

// isSymlink reports whether path exists and is a symbolic link.
func isSymlink(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode()&fs.ModeSymlink != 0
}
