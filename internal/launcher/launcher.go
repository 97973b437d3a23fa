// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"

	"github.com/jarstub/jarstub/internal/config"
	"github.com/jarstub/jarstub/internal/entrypoint"
	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/internal/logging"
	"github.com/jarstub/jarstub/internal/process"
	"github.com/jarstub/jarstub/internal/staging"
	"github.com/jarstub/jarstub/pkg/archive"
)

type (
	// Launcher unpacks a runtime and starts an application with it.
	Launcher struct {
		runtimeArchive []byte
		payload        []byte
		cfg            *config.Config
		spawner        process.Spawner
		logger         *log.Logger
		tempDir        string
	}

	// Option configures a Launcher.
	Option func(*Launcher)

	// Result describes how far a run got. It is returned on failure as well.
	Result struct {
		State       State
		StagingDir  string
		Extract     *archive.ExtractStats
		PayloadPath string
		EntryPoint  string
		Args        []string
		Pid         int
		// ExitCode is the child's status when Waited is set. It is never
		// propagated as the launcher's own exit status.
		ExitCode int
		Waited   bool
		// Cleaned reports that the staging directory was removed.
		Cleaned bool
	}
)

// WithConfig replaces config.DefaultConfig().
func WithConfig(cfg *config.Config) Option {
	return func(l *Launcher) { l.cfg = cfg }
}

// WithSpawner replaces the os/exec spawner, mainly for tests.
func WithSpawner(s process.Spawner) Option {
	return func(l *Launcher) { l.spawner = s }
}

// WithLogger sets the diagnostics logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(l *Launcher) { l.logger = logger }
}

// WithTempDir sets the parent of the staging directory. Empty selects
// os.TempDir().
func WithTempDir(dir string) Option {
	return func(l *Launcher) { l.tempDir = dir }
}

// New creates a Launcher for the given runtime archive and application payload.
func New(runtimeArchive, payload []byte, opts ...Option) *Launcher {
	l := &Launcher{
		runtimeArchive: runtimeArchive,
		payload:        payload,
		cfg:            config.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.spawner == nil {
		l.spawner = process.NewExecSpawner()
	}
	if l.logger == nil {
		l.logger = logging.Discard()
	}
	return l
}

// Run executes the launch sequence. On failure the returned error is a
// *PhaseError and the Result reports the last state reached.
func (l *Launcher) Run(ctx context.Context) (res *Result, err error) {
	res = &Result{State: StateStart}
	cfg := l.cfg

	dir, err := staging.New(l.tempDir, cfg.StagingPrefix)
	if err != nil {
		return res, l.fail(res, newPhaseError(StateStart, issue.NewErrorContext().
			WithOperation("create staging directory").
			WithIssue(issue.StagingFailedId).
			WithSuggestion("Check that the temporary directory exists and is writable").
			Wrap(err), ErrIO))
	}
	res.StagingDir = dir.Path()
	l.advance(res, StateStaged, "staging directory created", "dir", res.StagingDir)

	if cfg.Cleanup {
		defer func() {
			// A detached child still needs its files.
			if err == nil && !res.Waited {
				return
			}
			if rmErr := dir.Remove(); rmErr != nil {
				l.logger.Warn("cleanup failed", "dir", res.StagingDir, "err", rmErr)
				return
			}
			res.Cleaned = true
			l.logger.Debug("staging directory removed", "dir", res.StagingDir)
		}()
	}

	if err := l.extract(res); err != nil {
		return res, l.fail(res, err.(*PhaseError))
	}

	if err := l.writePayload(res, dir); err != nil {
		return res, l.fail(res, err.(*PhaseError))
	}

	if err := l.resolve(res); err != nil {
		return res, l.fail(res, err.(*PhaseError))
	}

	if err := l.launch(ctx, res); err != nil {
		return res, l.fail(res, err.(*PhaseError))
	}

	return res, nil
}

func (l *Launcher) extract(res *Result) error {
	r, err := archive.Open(l.runtimeArchive)
	if err != nil {
		return classifyExtract(err, res.StagingDir)
	}
	l.logger.Debug("runtime archive opened", "format", r.Format(), "bytes", len(l.runtimeArchive))

	stats, err := archive.Extract(r, res.StagingDir)
	res.Extract = stats
	if err != nil {
		return classifyExtract(err, res.StagingDir)
	}

	l.advance(res, StateExtracted, "runtime extracted",
		"dirs", stats.Dirs, "files", stats.Files, "links", stats.Links, "bytes", stats.Bytes)
	return nil
}

func (l *Launcher) writePayload(res *Result, dir *staging.Dir) error {
	path, err := dir.WriteFile(l.cfg.PayloadName, l.payload, archive.DefaultFileMode)
	if err != nil {
		return newPhaseError(StateExtracted, issue.NewErrorContext().
			WithOperation("write application payload").
			WithResource(l.cfg.PayloadName).
			WithIssue(issue.PayloadWriteFailedId).
			WithSuggestion("Check free disk space in the temporary directory").
			Wrap(err), ErrIO)
	}

	res.PayloadPath = path
	l.advance(res, StatePayloadWritten, "payload written", "path", path, "bytes", len(l.payload))
	return nil
}

func (l *Launcher) resolve(res *Result) error {
	kind, err := entrypoint.ParsePolicyKind(l.cfg.EntryPoint.Policy)
	if err == nil {
		res.EntryPoint, err = entrypoint.Resolve(res.StagingDir, entrypoint.Policy{
			Kind:   kind,
			Binary: l.cfg.EntryPoint.Binary,
			Subdir: l.cfg.EntryPoint.Subdir,
		})
	}
	if err != nil {
		return newPhaseError(StatePayloadWritten, issue.NewErrorContext().
			WithOperation("resolve runtime entry point").
			WithResource(res.StagingDir).
			WithIssue(issue.EntryPointNotFoundId).
			WithSuggestion("Check the runtime layout with 'jarstub-pack inspect'").
			Wrap(err), ErrEntryPointNotFound)
	}

	l.advance(res, StateEntryPointResolved, "entry point resolved", "path", res.EntryPoint)
	return nil
}

func (l *Launcher) launch(ctx context.Context, res *Result) error {
	res.Args = l.cfg.ExpandArgs(res.PayloadPath)

	p, err := l.spawner.Spawn(ctx, process.Command{
		Path:   res.EntryPoint,
		Args:   res.Args,
		Dir:    res.StagingDir,
		Detach: !l.cfg.Wait,
	})
	if err != nil {
		return newPhaseError(StateEntryPointResolved, launchError(res.EntryPoint, err), ErrLaunch)
	}

	res.Pid = p.Pid()
	l.advance(res, StateLaunched, "runtime started", "pid", res.Pid, "args", res.Args)

	if !l.cfg.Wait {
		if err := p.Release(); err != nil {
			l.logger.Warn("failed to release child", "pid", res.Pid, "err", err)
		}
		return nil
	}

	code, err := p.Wait()
	if err != nil {
		return newPhaseError(StateLaunched, launchError(res.EntryPoint, err), ErrLaunch)
	}
	res.ExitCode = code
	res.Waited = true
	l.advance(res, StateExited, "runtime exited", "code", code)
	return nil
}

func launchError(entryPoint string, err error) *issue.ErrorContext {
	ctx := issue.NewErrorContext().
		WithOperation("launch runtime").
		WithResource(entryPoint).
		WithIssue(issue.LaunchFailedId).
		Wrap(err)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ctx.WithSuggestion("The launch was interrupted; start the application again")
	}
	return ctx.WithSuggestion("Make sure the runtime matches this operating system and architecture")
}

func (l *Launcher) advance(res *Result, state State, msg string, keyvals ...any) {
	res.State = state
	l.logger.Debug(msg, append([]any{"state", state}, keyvals...)...)
}

func (l *Launcher) fail(res *Result, pe *PhaseError) error {
	res.State = pe.State
	l.logger.Error(describe(pe), "err", pe.Err.Cause, "issue", pe.Err.Issue)
	return pe
}
