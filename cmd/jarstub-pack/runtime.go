// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/pkg/archive"
)

type runtimeOptions struct {
	output string
	prefix string
	store  bool
}

func newRuntimeCmd() *cobra.Command {
	opts := &runtimeOptions{}

	cmd := &cobra.Command{
		Use:   "runtime <dir>",
		Short: "Zip a Java runtime directory into the runtime payload",
		Long: `Zip a Java runtime directory into the runtime payload.

Entry names use forward slashes and every directory gets its own entry, so the
launcher recreates the exact tree on any platform. Permission bits are kept;
the executable bit on bin/java matters for unix targets.

Use --prefix to nest the runtime under a directory (the launcher's default
manifest looks for ` + CmdStyle.Render("jre/bin/java") + `). Use --store for runtimes
whose modules file is already compressed.

Examples:
  jarstub-pack runtime ./jdk-21.0.2+13-jre --prefix jre
  jarstub-pack runtime ./jre -o cmd/jarstub/payload/runtime.zip --store`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuntime(cmd.OutOrStdout(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "payload/runtime.zip", "output path for the runtime archive")
	cmd.Flags().StringVar(&opts.prefix, "prefix", "", "directory to nest the runtime under inside the archive")
	cmd.Flags().BoolVar(&opts.store, "store", false, "store entries without compression")
	return cmd
}

func runRuntime(w io.Writer, src string, opts *runtimeOptions) error {
	info, err := os.Stat(src)
	if err == nil && !info.IsDir() {
		err = fmt.Errorf("%s is not a directory", src)
	}
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read runtime directory").
			WithResource(src).
			WithSuggestion("Pass the runtime home, the directory that contains bin/ and lib/").
			Wrap(err).
			BuildError()
	}

	if opts.prefix != "" {
		if _, err := archive.SafeJoin(src, opts.prefix); err != nil {
			return issue.NewErrorContext().
				WithOperation("check runtime prefix").
				WithResource(opts.prefix).
				WithIssue(issue.PathTraversalId).
				WithSuggestion("Use a relative prefix that stays inside the archive, such as 'jre'").
				Wrap(err).
				BuildError()
		}
	}

	err = writeOutput(w, opts.output, func(out io.Writer) error {
		return archive.PackDir(src, out, archive.PackOptions{Prefix: opts.prefix, Store: opts.store})
	})
	if err != nil {
		return issue.WrapWithContext(err, "pack runtime", src)
	}
	if opts.output == "-" {
		return nil
	}

	data, err := os.ReadFile(opts.output)
	if err != nil {
		return err
	}
	r, err := archive.Open(data)
	if err != nil {
		return issue.WrapWithContext(err, "verify runtime archive", opts.output)
	}
	entries, err := r.Entries()
	if err != nil {
		return issue.WrapWithContext(err, "verify runtime archive", opts.output)
	}

	fmt.Fprintf(w, "%s Packed %d entries into %s (%s)\n",
		successIcon, len(entries), CmdStyle.Render(opts.output), formatSize(int64(len(data))))
	if !hasJavaBinary(entries) {
		fmt.Fprintf(w, "%s No bin/java or bin/java.exe found; the launcher will not find an entry point\n", warningIcon)
	}
	return nil
}

// hasJavaBinary reports whether any entry looks like a runtime launcher,
// for either target platform.
func hasJavaBinary(entries []archive.Entry) bool {
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := strings.TrimSuffix(e.Name, "/")
		base := path.Base(name)
		if (base == "java" || base == "java.exe") && path.Base(path.Dir(name)) == "bin" {
			return true
		}
	}
	return false
}
