// SPDX-License-Identifier: MPL-2.0

// Package processtest provides a recording process.Spawner for tests.
package processtest

import (
	"context"
	"slices"
	"sync"

	"github.com/jarstub/jarstub/internal/process"
)

type (
	// Recorder is a process.Spawner that records commands instead of
	// starting them. The zero value spawns processes that exit with 0.
	Recorder struct {
		// ExitCode is reported by every spawned process.
		ExitCode int
		// SpawnErr, when set, is returned by Spawn.
		SpawnErr error
		// WaitErr, when set, is returned by Wait.
		WaitErr error

		mu        sync.Mutex
		commands  []process.Command
		processes []*Process
	}

	// Process is the fake child handed out by Recorder.
	Process struct {
		code     int
		err      error
		mu       sync.Mutex
		waited   bool
		released bool
	}
)

// Spawn records c and returns a fake process.
func (r *Recorder) Spawn(ctx context.Context, c process.Command) (process.Process, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c.Args = slices.Clone(c.Args)
	r.commands = append(r.commands, c)
	if r.SpawnErr != nil {
		return nil, r.SpawnErr
	}

	p := &Process{code: r.ExitCode, err: r.WaitErr}
	r.processes = append(r.processes, p)
	return p, nil
}

// Commands returns a copy of every command passed to Spawn.
func (r *Recorder) Commands() []process.Command {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.commands)
}

// Processes returns the fakes handed out so far.
func (r *Recorder) Processes() []*Process {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.processes)
}

// Pid returns a fixed fake pid.
func (p *Process) Pid() int { return 4242 }

// Wait marks the process as waited on.
func (p *Process) Wait() (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = true
	if p.err != nil {
		return -1, p.err
	}
	return p.code, nil
}

// Release marks the process as released.
func (p *Process) Release() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.released = true
	return nil
}

// Waited reports whether Wait was called.
func (p *Process) Waited() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.waited
}

// Released reports whether Release was called.
func (p *Process) Released() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.released
}
