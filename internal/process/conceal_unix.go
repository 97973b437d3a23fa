// SPDX-License-Identifier: MPL-2.0

//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

package process

import (
	"os/exec"
	"syscall"
)

// newSession starts the child as a session leader so it has no controlling
// terminal and survives the launcher's terminal closing.
type newSession struct{}

// DefaultConcealer returns the Unix concealer.
func DefaultConcealer() Concealer {
	return newSession{}
}

func (newSession) Conceal(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
}
