// SPDX-License-Identifier: MPL-2.0

package platform

import (
	"runtime"
	"strings"
)

// OS name constants for runtime.GOOS comparisons.
const (
	Windows = "windows"
	Darwin  = "darwin"
	Linux   = "linux"
)

// windowsExecutableSuffixes are the extensions CreateProcess will start directly.
var windowsExecutableSuffixes = []string{".exe", ".com", ".bat", ".cmd"}

// IsWindows reports whether the launcher was built for Windows.
func IsWindows() bool {
	return runtime.GOOS == Windows
}

// ExecutableName returns the native file name of an executable called base.
// On Windows ".exe" is appended unless base already carries an executable suffix.
func ExecutableName(base string) string {
	return executableNameFor(runtime.GOOS, base)
}

// HasWindowsExecutableSuffix reports whether name ends with an extension
// Windows treats as directly executable. The comparison is case-insensitive.
func HasWindowsExecutableSuffix(name string) bool {
	lower := strings.ToLower(name)
	for _, suffix := range windowsExecutableSuffixes {
		if strings.HasSuffix(lower, suffix) {
			return true
		}
	}
	return false
}

// executableNameFor is the GOOS-parameterized form of ExecutableName.
func executableNameFor(goos, base string) string {
	if goos != Windows || base == "" || HasWindowsExecutableSuffix(base) {
		return base
	}
	return base + ".exe"
}
