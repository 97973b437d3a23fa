// SPDX-License-Identifier: MPL-2.0

package staging

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/jarstub/jarstub/internal/testutil"
	"github.com/jarstub/jarstub/pkg/archive"
)

func TestNew_UniquePerCall(t *testing.T) {
	t.Parallel()

	parent := t.TempDir()

	first, err := New(parent, "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	second, err := New(parent, "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if first.Path() == second.Path() {
		t.Fatalf("two staging directories share %s", first.Path())
	}
	for _, d := range []*Dir{first, second} {
		if !filepath.IsAbs(d.Path()) {
			t.Errorf("Path() = %q, want absolute", d.Path())
		}
		if !strings.HasPrefix(filepath.Base(d.Path()), DefaultPrefix) {
			t.Errorf("Path() = %q, want prefix %q", d.Path(), DefaultPrefix)
		}
		info, err := os.Stat(d.Path())
		if err != nil || !info.IsDir() {
			t.Errorf("staging dir %s missing (err: %v)", d.Path(), err)
		}
	}
}

func TestNew_CustomPrefix(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir(), "myapp-")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !strings.HasPrefix(filepath.Base(d.Path()), "myapp-") {
		t.Errorf("Path() = %q, want prefix myapp-", d.Path())
	}
}

func TestNew_MissingParent(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "does", "not", "exist")
	if _, err := New(parent, ""); err == nil {
		t.Fatal("New() under a missing parent should fail")
	}
}

func TestDir_WriteFile(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	payload := []byte("PK\x03\x04 application bytes")
	path, err := d.WriteFile("application.jar", payload, 0o644)
	if err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	if path != filepath.Join(d.Path(), "application.jar") {
		t.Errorf("WriteFile() path = %q", path)
	}
	testutil.AssertFileContent(t, path, payload)

	nested, err := d.WriteFile("app/lib/app.jar", []byte{}, 0o644)
	if err != nil {
		t.Fatalf("WriteFile(nested) error: %v", err)
	}
	testutil.AssertFileContent(t, nested, nil)

	if _, err := d.WriteFile("../escape.jar", payload, 0o644); !errors.Is(err, archive.ErrPathTraversal) {
		t.Errorf("WriteFile(../escape.jar) error = %v, want ErrPathTraversal", err)
	}
	testutil.AssertNotExist(t, filepath.Join(filepath.Dir(d.Path()), "escape.jar"))
}

func TestDir_Remove(t *testing.T) {
	t.Parallel()

	d, err := New(t.TempDir(), "")
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if _, err := d.WriteFile("jre/bin/java", []byte("x"), 0o755); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	if err := d.Remove(); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	testutil.AssertNotExist(t, d.Path())

	if err := d.Remove(); err != nil {
		t.Errorf("second Remove() error: %v", err)
	}

	var nilDir *Dir
	if err := nilDir.Remove(); err != nil {
		t.Errorf("nil Remove() error: %v", err)
	}
}

func TestDir_WriteFile_Links(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on Windows")
	}

	t.Run("link in place of the file is replaced", func(t *testing.T) {
		t.Parallel()

		outside := filepath.Join(t.TempDir(), "victim")
		testutil.MustWriteFile(t, outside, []byte("original"), 0o644)

		dir, err := New(t.TempDir(), "")
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if err := os.Symlink(outside, filepath.Join(dir.Path(), "application.jar")); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		path, err := dir.WriteFile("application.jar", []byte("payload"), 0o644)
		if err != nil {
			t.Fatalf("WriteFile() error: %v", err)
		}
		testutil.AssertFileContent(t, outside, []byte("original"))
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			t.Fatalf("payload is not a regular file: %v, %v", info, err)
		}
		testutil.AssertFileContent(t, path, []byte("payload"))
	})

	t.Run("linked directory is refused", func(t *testing.T) {
		t.Parallel()

		parent := t.TempDir()
		dir, err := New(parent, "")
		if err != nil {
			t.Fatalf("New() error: %v", err)
		}
		if err := os.Symlink("..", filepath.Join(dir.Path(), "up")); err != nil {
			t.Fatalf("symlink: %v", err)
		}

		if _, err := dir.WriteFile("up/application.jar", []byte("payload"), 0o644); !errors.Is(err, archive.ErrPathTraversal) {
			t.Fatalf("WriteFile() error = %v, want ErrPathTraversal", err)
		}
		testutil.AssertNotExist(t, filepath.Join(parent, "application.jar"))
	})
}
