// SPDX-License-Identifier: MPL-2.0

package entrypoint

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/jarstub/jarstub/internal/testutil"
	"github.com/jarstub/jarstub/pkg/platform"
)

// makeRuntime creates <root>/<home>/bin/<binary> as an executable file.
func makeRuntime(t *testing.T, root, home, binary string) string {
	t.Helper()
	path := filepath.Join(root, home, "bin", binary)
	testutil.MustWriteFile(t, path, []byte("launcher"), 0o755)
	return path
}

func TestScan(t *testing.T) {
	t.Parallel()

	java := DefaultBinary()

	t.Run("lexically first qualifying directory wins", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		makeRuntime(t, root, "zulu-21", java)
		want := makeRuntime(t, root, "jdk-21-jre", java)
		makeRuntime(t, root, "temurin-21", java)

		got, err := Scan(root, java)
		if err != nil {
			t.Fatalf("Scan() error: %v", err)
		}
		if got != want {
			t.Errorf("Scan() = %q, want %q", got, want)
		}
	})

	t.Run("skips directories without the binary", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		testutil.MustMkdirAll(t, filepath.Join(root, "aaa-docs"), 0o755)
		testutil.MustWriteFile(t, filepath.Join(root, "aab-lib", "bin", "other"), []byte("x"), 0o755)
		testutil.MustWriteFile(t, filepath.Join(root, "application.jar"), []byte("jar"), 0o644)
		want := makeRuntime(t, root, "jre", java)

		got, err := Scan(root, java)
		if err != nil {
			t.Fatalf("Scan() error: %v", err)
		}
		if got != want {
			t.Errorf("Scan() = %q, want %q", got, want)
		}
	})

	t.Run("falls back to the root bin directory", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		testutil.MustMkdirAll(t, filepath.Join(root, "lib"), 0o755)
		want := makeRuntime(t, root, "", java)

		got, err := Scan(root, java)
		if err != nil {
			t.Fatalf("Scan() error: %v", err)
		}
		if got != want {
			t.Errorf("Scan() = %q, want %q", got, want)
		}
	})

	t.Run("no candidate", func(t *testing.T) {
		t.Parallel()

		root := t.TempDir()
		testutil.MustMkdirAll(t, filepath.Join(root, "a", "bin"), 0o755)
		testutil.MustMkdirAll(t, filepath.Join(root, "b"), 0o755)

		_, err := Scan(root, java)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("Scan() error = %v, want ErrNotFound", err)
		}
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			t.Fatalf("Scan() error = %T, want *NotFoundError", err)
		}
		want := []string{
			filepath.Join(root, "a", "bin", java),
			filepath.Join(root, "b", "bin", java),
			filepath.Join(root, "bin", java),
		}
		if len(notFound.Candidates) != len(want) {
			t.Fatalf("Candidates = %v, want %v", notFound.Candidates, want)
		}
		for i := range want {
			if notFound.Candidates[i] != want[i] {
				t.Errorf("Candidates[%d] = %q, want %q", i, notFound.Candidates[i], want[i])
			}
		}
	})

	t.Run("missing root", func(t *testing.T) {
		t.Parallel()

		if _, err := Scan(filepath.Join(t.TempDir(), "gone"), java); err == nil {
			t.Error("Scan() on a missing root should fail")
		}
	})
}

func TestScan_IgnoresNonExecutable(t *testing.T) {
	t.Parallel()

	if runtime.GOOS == platform.Windows {
		t.Skip("Windows decides executability by extension")
	}

	root := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(root, "a", "bin", "java"), []byte("x"), 0o644)
	want := makeRuntime(t, root, "b", "java")

	got, err := Scan(root, "java")
	if err != nil {
		t.Fatalf("Scan() error: %v", err)
	}
	if got != want {
		t.Errorf("Scan() = %q, want %q", got, want)
	}
}

func TestFixed(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	java := DefaultBinary()
	jre := makeRuntime(t, root, "jre", java)
	top := makeRuntime(t, root, "", "tool.exe")

	tests := []struct {
		name    string
		subdir  string
		binary  string
		want    string
		wantErr bool
	}{
		{name: "jre subdir", subdir: "jre", binary: java, want: jre},
		{name: "staging root", subdir: "", binary: "tool.exe", want: top},
		{name: "wrong subdir", subdir: "jdk", binary: java, wantErr: true},
		{name: "wrong binary", subdir: "jre", binary: "javaw.exe", wantErr: true},
		{name: "escaping subdir", subdir: "../..", binary: java, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := Fixed(root, tt.subdir, tt.binary)
			if tt.wantErr {
				if !errors.Is(err, ErrNotFound) {
					t.Fatalf("Fixed() error = %v, want ErrNotFound", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Fixed() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Fixed() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	want := makeRuntime(t, root, "jre", DefaultBinary())

	policies := []Policy{
		{},
		{Kind: PolicyScan},
		{Kind: PolicyScan, Binary: "java"},
		{Kind: PolicyFixed, Subdir: "jre"},
		{Kind: PolicyFixed, Subdir: "jre", Binary: "java"},
	}
	for _, p := range policies {
		got, err := Resolve(root, p)
		if err != nil {
			t.Errorf("Resolve(%+v) error: %v", p, err)
			continue
		}
		if got != want {
			t.Errorf("Resolve(%+v) = %q, want %q", p, got, want)
		}
	}

	if _, err := Resolve(root, Policy{Kind: "nearest"}); err == nil {
		t.Error("Resolve() with an unknown policy should fail")
	}
}

func TestParsePolicyKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in      string
		want    PolicyKind
		wantErr bool
	}{
		{in: "", want: PolicyScan},
		{in: "scan", want: PolicyScan},
		{in: " Fixed ", want: PolicyFixed},
		{in: "glob", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParsePolicyKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParsePolicyKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParsePolicyKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsExecutable(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if IsExecutable(info) {
		t.Error("a directory is not executable")
	}
	if IsExecutable(nil) {
		t.Error("nil info is not executable")
	}

	exe := filepath.Join(dir, platform.ExecutableName("java"))
	testutil.MustWriteFile(t, exe, []byte("x"), 0o755)
	info, err = os.Stat(exe)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !IsExecutable(info) {
		t.Errorf("%s should be executable", exe)
	}
}
