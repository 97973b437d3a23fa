// SPDX-License-Identifier: MPL-2.0

package archive

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jarstub/jarstub/internal/testutil"
)

func TestPackDir_RoundTrip(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "bin", "java"), []byte("launcher"), 0o755)
	testutil.MustWriteFile(t, filepath.Join(src, "lib", "modules"), bytes.Repeat([]byte("m"), 4096), 0o644)
	testutil.MustMkdirAll(t, filepath.Join(src, "legal"), 0o755)

	for _, store := range []bool{false, true} {
		var buf bytes.Buffer
		if err := PackDir(src, &buf, PackOptions{Prefix: "jre", Store: store}); err != nil {
			t.Fatalf("PackDir(store=%v) error: %v", store, err)
		}

		r := mustOpen(t, buf.Bytes())
		entries, err := r.Entries()
		if err != nil {
			t.Fatalf("Entries() error: %v", err)
		}

		names := make(map[string]Entry, len(entries))
		for _, e := range entries {
			if strings.Contains(e.Name, `\`) {
				t.Errorf("entry %q uses a backslash", e.Name)
			}
			names[e.Name] = e
		}
		for _, want := range []string{"jre/bin/", "jre/bin/java", "jre/lib/", "jre/lib/modules", "jre/legal/"} {
			if _, ok := names[want]; !ok {
				t.Errorf("archive is missing %q (have %v)", want, entries)
			}
		}
		if !names["jre/legal/"].IsDir() {
			t.Error("jre/legal/ should be a directory entry")
		}

		dest := t.TempDir()
		if _, err := Extract(r, dest); err != nil {
			t.Fatalf("Extract() error: %v", err)
		}
		testutil.AssertFileContent(t, filepath.Join(dest, "jre", "bin", "java"), []byte("launcher"))
		testutil.AssertFileContent(t, filepath.Join(dest, "jre", "lib", "modules"), bytes.Repeat([]byte("m"), 4096))

		if runtime.GOOS != "windows" {
			info, err := os.Stat(filepath.Join(dest, "jre", "bin", "java"))
			if err != nil {
				t.Fatalf("stat: %v", err)
			}
			if info.Mode().Perm()&0o100 == 0 {
				t.Errorf("java lost its execute bit: %v", info.Mode())
			}
		}
	}
}

func TestPackDir_NoPrefix(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "release"), []byte("JAVA_VERSION=21"), 0o644)

	var buf bytes.Buffer
	if err := PackDir(src, &buf, PackOptions{}); err != nil {
		t.Fatalf("PackDir() error: %v", err)
	}

	entries, err := mustOpen(t, buf.Bytes()).Entries()
	if err != nil {
		t.Fatalf("Entries() error: %v", err)
	}
	if len(entries) != 1 || entries[0].Name != "release" {
		t.Errorf("Entries() = %+v, want only release", entries)
	}
}

func TestPackDir_RejectsFile(t *testing.T) {
	t.Parallel()

	file := filepath.Join(t.TempDir(), "not-a-dir")
	testutil.MustWriteFile(t, file, []byte("x"), 0o644)

	if err := PackDir(file, &bytes.Buffer{}, PackOptions{}); err == nil {
		t.Error("PackDir() on a regular file should fail")
	}
}

func TestPackDir_RejectsEscapingPrefix(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(src, "release"), []byte("JAVA_VERSION=21"), 0o644)

	for _, prefix := range []string{"../x", "/opt/jre", "jre/../../x", `..\x`} {
		var buf bytes.Buffer
		err := PackDir(src, &buf, PackOptions{Prefix: prefix})
		if !errors.Is(err, ErrPathTraversal) {
			t.Errorf("PackDir(prefix %q) error = %v, want ErrPathTraversal", prefix, err)
		}
		if buf.Len() != 0 {
			t.Errorf("PackDir(prefix %q) wrote %d bytes", prefix, buf.Len())
		}
	}
}
