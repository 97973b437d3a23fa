// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jarstub/jarstub/internal/config"
	"github.com/jarstub/jarstub/internal/entrypoint"
	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/internal/staging"
	"github.com/jarstub/jarstub/pkg/archive"
	"github.com/jarstub/jarstub/pkg/platform"
	"github.com/jarstub/jarstub/pkg/types"
)

var errInspectionFailed = errors.New("runtime archive failed inspection")

type (
	inspectOptions struct {
		manifest string
		style    string
		list     bool
	}

	// problem is an entry the launcher would refuse to extract.
	problem struct {
		Entry  string
		Issue  issue.Id
		Detail string
	}

	// inspection is the outcome of checking a runtime archive against a
	// manifest the way the launcher would.
	inspection struct {
		Archive    string
		Format     archive.Format
		Size       int
		Entries    []archive.Entry
		Problems   []problem
		Stats      *archive.ExtractStats
		EntryPoint string
		EntryErr   error
		Config     *config.Config
	}
)

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}

	cmd := &cobra.Command{
		Use:   "inspect <archive>",
		Short: "Check a runtime archive the way the launcher will",
		Long: `Check a runtime archive the way the launcher will.

Every entry is checked for paths that escape the staging directory and for
Windows device names. When none are found the archive is extracted into a
scratch directory and the entry point is resolved with the manifest's policy,
using the lookup rules of the current operating system.

The report is rendered for the terminal, or printed as plain Markdown when
stdout is not a terminal. The command exits with status 1 when the launcher
would fail.

Examples:
  jarstub-pack inspect payload/runtime.zip
  jarstub-pack inspect payload/runtime.zip --manifest payload/launcher.cue --list`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.manifest, "manifest", "m", "", "launcher manifest to resolve the entry point with (default: built-in defaults)")
	cmd.Flags().StringVar(&opts.style, "style", "auto", "glamour style for terminal output")
	cmd.Flags().BoolVarP(&opts.list, "list", "l", false, "list every entry")
	return cmd
}

func runInspect(ctx context.Context, w io.Writer, path string, opts *inspectOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.DefaultConfig()
	if opts.manifest != "" {
		loaded, err := config.NewProvider().Load(ctx, config.LoadOptions{ManifestPath: opts.manifest})
		if err != nil {
			return err
		}
		cfg = loaded
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return issue.WrapWithContext(err, "read runtime archive", path)
	}

	in, err := inspectArchive(path, data, cfg)
	if err != nil {
		return err
	}

	md := in.Markdown(opts.list)
	if isTerminal(w) {
		rendered, err := glamour.Render(md, opts.style)
		if err != nil {
			return fmt.Errorf("failed to render report: %w", err)
		}
		md = rendered
	}
	if _, err := io.WriteString(w, md); err != nil {
		return err
	}

	if !in.OK() {
		return &ExitError{Code: types.ExitFailure, Err: errInspectionFailed}
	}
	return nil
}

// inspectArchive runs the launcher's checks over data without launching
// anything. Only an unreadable archive or scratch failure is an error;
// everything else is reported in the inspection.
func inspectArchive(name string, data []byte, cfg *config.Config) (*inspection, error) {
	r, err := archive.Open(data)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open runtime archive").
			WithResource(name).
			WithIssue(issue.RuntimeArchiveInvalidId).
			WithSuggestion("Rebuild the runtime payload with 'jarstub-pack runtime'").
			Wrap(err).
			BuildError()
	}
	entries, err := r.Entries()
	if err != nil {
		return nil, issue.WrapWithContext(err, "list runtime archive", name)
	}

	scratch, err := staging.New("", "jarstub-inspect-")
	if err != nil {
		return nil, issue.WrapWithContext(err, "create scratch directory", os.TempDir())
	}
	defer func() { _ = scratch.Remove() }()

	in := &inspection{
		Archive: name,
		Format:  r.Format(),
		Size:    len(data),
		Entries: entries,
		Config:  cfg,
	}

	for _, e := range entries {
		if _, err := scratch.Join(e.Name); err != nil {
			in.Problems = append(in.Problems, problem{Entry: e.Name, Issue: issue.PathTraversalId, Detail: "escapes the staging directory"})
			continue
		}
		if segment, ok := platform.ReservedSegment(e.Name); ok {
			in.Problems = append(in.Problems, problem{Entry: e.Name, Issue: issue.ReservedNameId, Detail: fmt.Sprintf("%q is a reserved device name", segment)})
		}
	}
	if len(in.Problems) > 0 {
		return in, nil
	}

	in.Stats, err = archive.Extract(r, scratch.Path())
	switch {
	case errors.Is(err, archive.ErrPathTraversal):
		// Link targets are only checked during extraction.
		in.Problems = append(in.Problems, problem{Issue: issue.PathTraversalId, Detail: err.Error()})
		return in, nil
	case err != nil:
		return nil, issue.WrapWithContext(err, "extract runtime archive", name)
	}

	kind, err := entrypoint.ParsePolicyKind(cfg.EntryPoint.Policy)
	if err == nil {
		var found string
		found, err = entrypoint.Resolve(scratch.Path(), entrypoint.Policy{
			Kind:   kind,
			Binary: cfg.EntryPoint.Binary,
			Subdir: cfg.EntryPoint.Subdir,
		})
		if err == nil {
			rel, relErr := filepath.Rel(scratch.Path(), found)
			if relErr != nil {
				return nil, relErr
			}
			in.EntryPoint = filepath.ToSlash(rel)
		}
	}
	in.EntryErr = err
	return in, nil
}

// OK reports whether the launcher would get as far as spawning the runtime.
func (in *inspection) OK() bool {
	return len(in.Problems) == 0 && in.EntryErr == nil
}

// Markdown renders the report. Issue explanations are appended for every
// kind of failure found.
func (in *inspection) Markdown(listEntries bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# Runtime archive `%s`\n\n", in.Archive)
	sb.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&sb, "| Format | %s |\n", in.Format)
	fmt.Fprintf(&sb, "| Size | %s |\n", formatSize(int64(in.Size)))
	fmt.Fprintf(&sb, "| Entries | %d |\n", len(in.Entries))
	if in.Stats != nil {
		fmt.Fprintf(&sb, "| Unpacked | %d directories, %d files, %d links, %s |\n",
			in.Stats.Dirs, in.Stats.Files, in.Stats.Links, formatSize(in.Stats.Bytes))
	}
	fmt.Fprintf(&sb, "| Policy | %s (`%s`, subdir `%s`) |\n",
		in.Config.EntryPoint.Policy, in.Config.EntryPoint.Binary, in.Config.EntryPoint.Subdir)
	sb.WriteString("\n")

	var ids []issue.Id
	if len(in.Problems) > 0 {
		fmt.Fprintf(&sb, "## Unsafe entries (%d)\n\n", len(in.Problems))
		for _, p := range in.Problems {
			if p.Entry != "" {
				fmt.Fprintf(&sb, "- `%s`: %s\n", p.Entry, p.Detail)
			} else {
				fmt.Fprintf(&sb, "- %s\n", p.Detail)
			}
			if !slices.Contains(ids, p.Issue) {
				ids = append(ids, p.Issue)
			}
		}
		sb.WriteString("\nThe entry point was not resolved because the launcher stops at the first unsafe entry.\n\n")
	} else {
		sb.WriteString("## Entry point\n\n")
		if in.EntryErr != nil {
			fmt.Fprintf(&sb, "Not found: %s\n\n", in.EntryErr)
			ids = append(ids, issue.EntryPointNotFoundId)
		} else {
			fmt.Fprintf(&sb, "`%s`\n\n", in.EntryPoint)
			fmt.Fprintf(&sb, "Command line: `%s`\n\n", strings.Join(
				append([]string{in.EntryPoint}, in.Config.ExpandArgs(in.Config.PayloadName)...), " "))
		}
	}

	if listEntries {
		sb.WriteString("## Entries\n\n")
		for _, e := range in.Entries {
			fmt.Fprintf(&sb, "- `%s` %s\n", e.Name, e.Mode)
		}
		sb.WriteString("\n")
	}

	for _, id := range ids {
		if i := issue.Get(id); i != nil {
			sb.WriteString("---\n\n")
			sb.WriteString(strings.TrimSpace(i.Markdown()))
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
