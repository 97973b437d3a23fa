// SPDX-License-Identifier: MPL-2.0

package launcher

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/pkg/archive"
)

var (
	// ErrIO reports a filesystem failure while staging or writing.
	ErrIO = errors.New("i/o failure")
	// ErrArchiveFormat reports an embedded runtime that cannot be unpacked.
	ErrArchiveFormat = errors.New("malformed runtime archive")
	// ErrPathTraversal reports an archive entry that escapes the staging
	// directory. Errors of this class also match ErrArchiveFormat.
	ErrPathTraversal = errors.New("archive entry escapes staging directory")
	// ErrEntryPointNotFound reports that no runtime executable was found.
	ErrEntryPointNotFound = errors.New("runtime entry point not found")
	// ErrLaunch reports that the runtime process could not be started.
	ErrLaunch = errors.New("failed to launch runtime")
)

// PhaseError is returned by Run. State is the last state reached before the
// failure, so it also names the phase that failed.
type PhaseError struct {
	State State
	// Err carries the operation, resource and remediation hints.
	Err   *issue.ActionableError
	kinds []error
}

func (e *PhaseError) Error() string {
	return e.Err.Error()
}

// Unwrap exposes both the class sentinels and the underlying cause.
func (e *PhaseError) Unwrap() []error {
	return append(slices.Clone(e.kinds), e.Err)
}

// Kind returns the primary sentinel of the error's class.
func (e *PhaseError) Kind() error {
	if len(e.kinds) == 0 {
		return nil
	}
	return e.kinds[0]
}

// Format renders the error with its suggestions, see issue.ActionableError.
func (e *PhaseError) Format(verbose bool) string {
	return e.Err.Format(verbose)
}

func newPhaseError(state State, ctx *issue.ErrorContext, kinds ...error) *PhaseError {
	return &PhaseError{State: state, Err: ctx.Build(), kinds: kinds}
}

// classifyExtract maps an archive.Extract failure to its class.
func classifyExtract(err error, root string) *PhaseError {
	ctx := issue.NewErrorContext().WithOperation("extract runtime").WithResource(root).Wrap(err)

	switch {
	case errors.Is(err, archive.ErrPathTraversal):
		return newPhaseError(StateStaged, ctx.
			WithIssue(issue.PathTraversalId).
			WithSuggestion("Repack the runtime from a plain directory with 'jarstub-pack runtime'"),
			ErrPathTraversal, ErrArchiveFormat)
	case errors.Is(err, archive.ErrReservedName):
		return newPhaseError(StateStaged, ctx.
			WithIssue(issue.ReservedNameId).
			WithSuggestion("Rename the reserved file in the runtime tree and repack it"),
			ErrArchiveFormat)
	case errors.Is(err, archive.ErrFormat):
		return newPhaseError(StateStaged, ctx.
			WithIssue(issue.RuntimeArchiveInvalidId).
			WithSuggestion("Rebuild the runtime payload with 'jarstub-pack runtime'"),
			ErrArchiveFormat)
	default:
		return newPhaseError(StateStaged, ctx.
			WithIssue(issue.StagingFailedId).
			WithSuggestion("Check free disk space in the temporary directory"),
			ErrIO)
	}
}

func describe(err error) string {
	var pe *PhaseError
	if errors.As(err, &pe) {
		if i := issue.Get(pe.Err.Issue); i != nil {
			return fmt.Sprintf("%s (%s)", i.Title(), pe.State)
		}
	}
	return err.Error()
}
