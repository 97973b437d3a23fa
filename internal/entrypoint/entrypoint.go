// SPDX-License-Identifier: MPL-2.0

package entrypoint

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/jarstub/jarstub/pkg/archive"
	"github.com/jarstub/jarstub/pkg/platform"
)

// ErrNotFound is returned when no candidate path holds an executable entry point.
var ErrNotFound = errors.New("runtime entry point not found")

// binDir is the directory under a runtime home that holds its launchers.
const binDir = "bin"

type (
	// PolicyKind selects how the entry point is searched for.
	PolicyKind string

	// Policy describes where to look for the entry point.
	Policy struct {
		Kind PolicyKind
		// Binary is the executable name. Empty selects DefaultBinary().
		// On Windows ".exe" is appended when no executable suffix is present.
		Binary string
		// Subdir is the runtime home below the staging root for PolicyFixed.
		// Empty means the staging root itself.
		Subdir string
	}

	// NotFoundError lists every path that was considered.
	NotFoundError struct {
		Root       string
		Binary     string
		Candidates []string
	}
)

const (
	// PolicyScan searches immediate subdirectories in lexical order.
	PolicyScan PolicyKind = "scan"
	// PolicyFixed checks exactly one path.
	PolicyFixed PolicyKind = "fixed"
)

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("no %s under %s: no runtime directories", e.Binary, e.Root)
	}
	return fmt.Sprintf("no executable %s under %s (checked %s)", e.Binary, e.Root, strings.Join(e.Candidates, ", "))
}

// Unwrap returns ErrNotFound.
func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// ParsePolicyKind validates a policy name from configuration.
func ParsePolicyKind(s string) (PolicyKind, error) {
	switch kind := PolicyKind(strings.ToLower(strings.TrimSpace(s))); kind {
	case "", PolicyScan:
		return PolicyScan, nil
	case PolicyFixed:
		return PolicyFixed, nil
	default:
		return "", fmt.Errorf("unknown entry point policy %q (expected %q or %q)", s, PolicyScan, PolicyFixed)
	}
}

// DefaultBinary returns the native name of the Java launcher.
func DefaultBinary() string {
	return platform.ExecutableName("java")
}

// Resolve finds the entry point under root according to p.
func Resolve(root string, p Policy) (string, error) {
	binary := p.Binary
	if binary == "" {
		binary = DefaultBinary()
	}
	binary = platform.ExecutableName(binary)

	switch p.Kind {
	case "", PolicyScan:
		return Scan(root, binary)
	case PolicyFixed:
		return Fixed(root, p.Subdir, binary)
	default:
		return "", fmt.Errorf("unknown entry point policy %q", p.Kind)
	}
}

// Scan returns <root>/<dir>/bin/<binary> for the lexically first
// subdirectory where that file exists and is executable. When no
// subdirectory qualifies, <root>/bin/<binary> is tried last so runtimes
// packed without a top-level directory still resolve.
func Scan(root, binary string) (string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", fmt.Errorf("failed to list %s: %w", root, err)
	}

	notFound := &NotFoundError{Root: root, Binary: binary}
	// os.ReadDir sorts by file name.
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		candidate := filepath.Join(root, entry.Name(), binDir, binary)
		if isExecutableFile(candidate) {
			return candidate, nil
		}
		notFound.Candidates = append(notFound.Candidates, candidate)
	}

	candidate := filepath.Join(root, binDir, binary)
	if isExecutableFile(candidate) {
		return candidate, nil
	}
	notFound.Candidates = append(notFound.Candidates, candidate)

	return "", notFound
}

// Fixed returns <root>/<subdir>/bin/<binary> if it exists and is executable.
// A subdir that climbs out of root is treated as not found.
func Fixed(root, subdir, binary string) (string, error) {
	candidate := filepath.Join(root, filepath.FromSlash(subdir), binDir, binary)
	notFound := &NotFoundError{Root: root, Binary: binary, Candidates: []string{candidate}}

	if !archive.Within(root, candidate) || !isExecutableFile(candidate) {
		return "", notFound
	}
	return candidate, nil
}

func isExecutableFile(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return IsExecutable(info)
}

// IsExecutable reports whether info describes a file the host can start.
func IsExecutable(info fs.FileInfo) bool {
	if info == nil || !info.Mode().IsRegular() {
		return false
	}
	return isExecutableMode(info)
}
