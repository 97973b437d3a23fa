// SPDX-License-Identifier: MPL-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

type (
	// Command describes the child to start.
	Command struct {
		// Path is the absolute path of the executable.
		Path string
		// Args excludes the program name.
		Args []string
		// Dir is the working directory. Empty inherits the launcher's.
		Dir string
		// Env replaces the environment when non-nil.
		Env []string
		// Detach starts the child without tying it to ctx, for launches the
		// caller does not wait on.
		Detach bool
	}

	// Process is a started child.
	Process interface {
		// Pid returns the operating system process id.
		Pid() int
		// Wait blocks until the child exits. A non-zero exit status is
		// reported through the code, not as an error.
		Wait() (int, error)
		// Release frees resources for a child that will not be waited on.
		Release() error
	}

	// Spawner starts processes.
	Spawner interface {
		Spawn(ctx context.Context, cmd Command) (Process, error)
	}

	// Concealer adjusts a command so the child shows no console window and
	// is not attached to the launcher's terminal.
	Concealer interface {
		Conceal(cmd *exec.Cmd)
	}

	// SpawnerOption configures an ExecSpawner.
	SpawnerOption func(*ExecSpawner)

	// ExecSpawner starts real processes with os/exec.
	ExecSpawner struct {
		concealer Concealer
	}

	execProcess struct {
		cmd *exec.Cmd
	}
)

// WithConcealer overrides the platform concealer.
func WithConcealer(c Concealer) SpawnerOption {
	return func(s *ExecSpawner) {
		s.concealer = c
	}
}

// NewExecSpawner creates a spawner using DefaultConcealer unless overridden.
func NewExecSpawner(opts ...SpawnerOption) *ExecSpawner {
	s := &ExecSpawner{concealer: DefaultConcealer()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Spawn starts cmd with its standard streams on the null device.
func (s *ExecSpawner) Spawn(ctx context.Context, c Command) (Process, error) {
	if c.Path == "" {
		return nil, errors.New("no executable path")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var cmd *exec.Cmd
	if c.Detach {
		cmd = exec.Command(c.Path, c.Args...)
	} else {
		cmd = exec.CommandContext(ctx, c.Path, c.Args...)
	}
	cmd.Dir = c.Dir
	cmd.Env = c.Env
	// Nil streams are bound to the null device. A pipe would make Wait
	// block on grandchildren holding it and break a detached child on EPIPE.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if s.concealer != nil {
		s.concealer.Conceal(cmd)
	}

	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start %s: %w", c.Path, err)
	}
	return &execProcess{cmd: cmd}, nil
}

func (p *execProcess) Pid() int {
	return p.cmd.Process.Pid
}

func (p *execProcess) Wait() (int, error) {
	return ExitCode(p.cmd.Wait())
}

func (p *execProcess) Release() error {
	return p.cmd.Process.Release()
}

// ExitCode converts the error from exec.Cmd.Wait into an exit status.
// An *exec.ExitError yields its code and a nil error; any other error is
// returned with code -1.
func ExitCode(err error) (int, error) {
	if err == nil {
		return 0, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	return -1, err
}
