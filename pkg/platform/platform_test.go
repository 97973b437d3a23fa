// SPDX-License-Identifier: MPL-2.0

package platform

import "testing"

func TestIsWindowsReservedName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"CON lowercase", "con", true},
		{"CON mixed case", "Con", true},
		{"NUL", "nul", true},
		{"COM9", "com9", true},
		{"LPT1", "lpt1", true},
		{"CON.txt", "con.txt", true},
		{"double extension", "nul.tar.gz", true},
		{"trailing space", "aux ", true},
		{"normal file", "java.exe", false},
		{"contains reserved", "confile", false},
		{"COM10", "com10", false},
		{"empty string", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := IsWindowsReservedName(tt.input); got != tt.expected {
				t.Errorf("IsWindowsReservedName(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestReservedSegment(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path    string
		segment string
		found   bool
	}{
		{"jre/bin/java.exe", "", false},
		{"jre/con/file.txt", "con", true},
		{"jre\\lib\\PRN.dll", "PRN.dll", true},
		{"aux/", "aux", true},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			t.Parallel()

			segment, found := ReservedSegment(tt.path)
			if found != tt.found || segment != tt.segment {
				t.Errorf("ReservedSegment(%q) = (%q, %v), want (%q, %v)", tt.path, segment, found, tt.segment, tt.found)
			}
		})
	}
}

func TestExecutableNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		goos string
		base string
		want string
	}{
		{Windows, "java", "java.exe"},
		{Windows, "java.exe", "java.exe"},
		{Windows, "run.CMD", "run.CMD"},
		{Linux, "java", "java"},
		{Darwin, "java", "java"},
		{Windows, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.goos+"/"+tt.base, func(t *testing.T) {
			t.Parallel()

			if got := executableNameFor(tt.goos, tt.base); got != tt.want {
				t.Errorf("executableNameFor(%q, %q) = %q, want %q", tt.goos, tt.base, got, tt.want)
			}
		})
	}
}
