// SPDX-License-Identifier: MPL-2.0

//go:build windows

package process

import (
	"os/exec"
	"testing"

	"golang.org/x/sys/windows"
)

func TestHiddenWindow_Conceal(t *testing.T) {
	t.Parallel()

	cmd := exec.Command("java.exe")
	DefaultConcealer().Conceal(cmd)

	if cmd.SysProcAttr == nil {
		t.Fatal("SysProcAttr not set")
	}
	if !cmd.SysProcAttr.HideWindow {
		t.Error("HideWindow = false, want true")
	}
	if cmd.SysProcAttr.CreationFlags&windows.CREATE_NO_WINDOW == 0 {
		t.Errorf("CreationFlags = %#x, want CREATE_NO_WINDOW", cmd.SysProcAttr.CreationFlags)
	}
}
