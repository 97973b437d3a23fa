// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package process

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func shellPath(t *testing.T) string {
	t.Helper()
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}
	return sh
}

func TestExecSpawner_ExitCodeIsReported(t *testing.T) {
	t.Parallel()

	p, err := NewExecSpawner().Spawn(context.Background(), Command{
		Path: shellPath(t),
		Args: []string{"-c", "echo noise; echo more noise >&2; exit 3"},
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if p.Pid() <= 0 {
		t.Errorf("Pid() = %d, want positive", p.Pid())
	}

	code, err := p.Wait()
	if err != nil {
		t.Fatalf("Wait() error: %v", err)
	}
	if code != 3 {
		t.Errorf("Wait() code = %d, want 3", code)
	}
}

func TestExecSpawner_WorkingDirectoryAndSession(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// The session id check needs /proc and is skipped elsewhere.
	script := `pwd > cwd.txt; if [ -r /proc/self/stat ]; then cut -d' ' -f6 /proc/self/stat > sid.txt; fi`

	p, err := NewExecSpawner().Spawn(context.Background(), Command{
		Path: shellPath(t),
		Args: []string{"-c", script},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if code, err := p.Wait(); err != nil || code != 0 {
		t.Fatalf("Wait() = (%d, %v), want (0, nil)", code, err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "cwd.txt"))
	if err != nil {
		t.Fatalf("read cwd.txt: %v", err)
	}
	wantDir, err := filepath.EvalSymlinks(dir)
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	gotDir, err := filepath.EvalSymlinks(strings.TrimSpace(string(got)))
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	if gotDir != wantDir {
		t.Errorf("child cwd = %q, want %q", gotDir, wantDir)
	}

	if sid, err := os.ReadFile(filepath.Join(dir, "sid.txt")); err == nil {
		childSID := strings.TrimSpace(string(sid))
		if self := readSelfSession(t); self != "" && childSID == self {
			t.Errorf("child shares the test's session %s", childSID)
		}
	}
}

func readSelfSession(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		return ""
	}
	fields := strings.Fields(string(data))
	if len(fields) < 6 {
		return ""
	}
	return fields[5]
}

func TestExecSpawner_Detached(t *testing.T) {
	t.Parallel()

	p, err := NewExecSpawner().Spawn(context.Background(), Command{
		Path:   shellPath(t),
		Args:   []string{"-c", "exit 0"},
		Detach: true,
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if code, err := p.Wait(); err != nil || code != 0 {
		t.Errorf("Wait() = (%d, %v), want (0, nil)", code, err)
	}
}

func TestNewSession_SetsSetsid(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("true")
	DefaultConcealer().Conceal(cmd)
	if cmd.SysProcAttr == nil || !cmd.SysProcAttr.Setsid {
		t.Errorf("SysProcAttr = %+v, want Setsid", cmd.SysProcAttr)
	}
}

func TestExecSpawner_StreamsOnNullDevice(t *testing.T) {
	t.Parallel()

	if runtime.GOOS != "linux" {
		t.Skip("fd links need /proc")
	}

	dir := t.TempDir()
	p, err := NewExecSpawner().Spawn(context.Background(), Command{
		Path: shellPath(t),
		Args: []string{"-c", "readlink /proc/self/fd/2 > fd2.txt"},
		Dir:  dir,
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}
	if code, err := p.Wait(); err != nil || code != 0 {
		t.Fatalf("Wait() = (%d, %v), want (0, nil)", code, err)
	}

	got, err := os.ReadFile(filepath.Join(dir, "fd2.txt"))
	if err != nil {
		t.Fatalf("read fd2.txt: %v", err)
	}
	if target := strings.TrimSpace(string(got)); target != os.DevNull {
		t.Errorf("child stderr = %q, want %q", target, os.DevNull)
	}
}

func TestExecSpawner_WaitIgnoresGrandchildren(t *testing.T) {
	t.Parallel()

	p, err := NewExecSpawner().Spawn(context.Background(), Command{
		Path: shellPath(t),
		Args: []string{"-c", "sleep 3 & exit 0"},
	})
	if err != nil {
		t.Fatalf("Spawn() error: %v", err)
	}

	start := time.Now()
	if code, err := p.Wait(); err != nil || code != 0 {
		t.Fatalf("Wait() = (%d, %v), want (0, nil)", code, err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("Wait() took %v, want it to return when the child exits", elapsed)
	}
}
