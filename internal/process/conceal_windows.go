// SPDX-License-Identifier: MPL-2.0

//go:build windows

package process

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/windows"
)

// hiddenWindow starts console programs such as java.exe without allocating
// a console window.
type hiddenWindow struct{}

// DefaultConcealer returns the Windows concealer.
func DefaultConcealer() Concealer {
	return hiddenWindow{}
}

func (hiddenWindow) Conceal(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.HideWindow = true
	cmd.SysProcAttr.CreationFlags |= windows.CREATE_NO_WINDOW
}
