// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"strings"
	"testing"
)

const testSchema = `
#Doc: {
	name?:  string & =~"^[a-z]+$"
	count?: int & >=0
	tags?: [...string]
}
`

func TestDecodeMap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		data    string
		wantErr string
		check   func(t *testing.T, m map[string]any)
	}{
		{
			name: "valid document",
			data: `name: "jre"
count: 2
tags: ["a", "b"]`,
			check: func(t *testing.T, m map[string]any) {
				t.Helper()
				if m["name"] != "jre" {
					t.Errorf("name = %v, want jre", m["name"])
				}
				tags, ok := m["tags"].([]any)
				if !ok || len(tags) != 2 {
					t.Errorf("tags = %#v, want two entries", m["tags"])
				}
			},
		},
		{
			name: "empty document",
			data: "",
			check: func(t *testing.T, m map[string]any) {
				t.Helper()
				if len(m) != 0 {
					t.Errorf("map = %v, want empty", m)
				}
			},
		},
		{name: "constraint violation", data: `count: -1`, wantErr: "count"},
		{name: "pattern violation", data: `name: "JRE"`, wantErr: "name"},
		{name: "unknown field", data: `colour: "red"`, wantErr: "colour"},
		{name: "syntax error", data: `name: "jre`, wantErr: "doc.cue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := DecodeMap([]byte(testSchema), []byte(tt.data), "#Doc", WithFilename("doc.cue"))
			if tt.wantErr != "" {
				if err == nil {
					t.Fatalf("DecodeMap() expected error containing %q", tt.wantErr)
				}
				if !strings.Contains(err.Error(), tt.wantErr) {
					t.Errorf("DecodeMap() error = %v, want it to mention %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("DecodeMap() error: %v", err)
			}
			tt.check(t, m)
		})
	}
}

func TestUnify_Limits(t *testing.T) {
	t.Parallel()

	if _, err := Unify([]byte(testSchema), []byte(`name: "abc"`), "#Doc", WithMaxFileSize(4)); err == nil {
		t.Error("Unify() should reject documents over the size limit")
	}

	if _, err := Unify([]byte(testSchema), []byte(`name: "abc"`), "#Missing"); err == nil {
		t.Error("Unify() should fail for a missing definition")
	}

	if _, err := Unify([]byte(testSchema), []byte(`count: int`), "#Doc", WithConcrete(true)); err == nil {
		t.Error("Unify() with WithConcrete should reject non-concrete values")
	}
}
