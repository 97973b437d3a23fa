// SPDX-License-Identifier: MPL-2.0

package platform

import "strings"

// WindowsReservedNames are filenames that cannot be used on Windows.
// These names are reserved by the operating system regardless of file extension.
var WindowsReservedNames = map[string]bool{
	"CON": true, "PRN": true, "AUX": true, "NUL": true,
	"COM1": true, "COM2": true, "COM3": true, "COM4": true,
	"COM5": true, "COM6": true, "COM7": true, "COM8": true, "COM9": true,
	"LPT1": true, "LPT2": true, "LPT3": true, "LPT4": true,
	"LPT5": true, "LPT6": true, "LPT7": true, "LPT8": true, "LPT9": true,
}

// IsWindowsReservedName checks if a filename is a Windows reserved name.
// Everything from the first dot on is ignored ("nul.tar.gz" is still NUL),
// as are trailing spaces, which Windows strips before the lookup.
func IsWindowsReservedName(name string) bool {
	upper := strings.ToUpper(name)
	if idx := strings.Index(upper, "."); idx != -1 {
		upper = upper[:idx]
	}
	upper = strings.TrimRight(upper, " ")
	return WindowsReservedNames[upper]
}

// ReservedSegment scans a slash or backslash separated archive path and
// returns the first segment Windows would refuse to create.
func ReservedSegment(entryPath string) (string, bool) {
	segments := strings.FieldsFunc(entryPath, func(r rune) bool {
		return r == '/' || r == '\\'
	})
	for _, segment := range segments {
		if IsWindowsReservedName(segment) {
			return segment, true
		}
	}
	return "", false
}
