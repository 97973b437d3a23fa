// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jarstub/jarstub/internal/config"
	"github.com/jarstub/jarstub/internal/issue"
)

type manifestOptions struct {
	output      string
	payloadName string
	binary      string
	policy      string
	subdir      string
	args        []string
	noWait      bool
	cleanup     bool
	logLevel    string
}

func newManifestCmd() *cobra.Command {
	defaults := config.DefaultConfig()
	opts := &manifestOptions{}

	cmd := &cobra.Command{
		Use:   "manifest",
		Short: "Write the launcher manifest",
		Long: `Write a launcher manifest (` + CmdStyle.Render(config.ManifestFileName) + `) built from the defaults and the given flags.

The result is validated against the manifest schema before it is written.
"{payload}" in --arg values is replaced with the payload path at launch.

Examples:
  jarstub-pack manifest
  jarstub-pack manifest --policy fixed --subdir jre --cleanup=false
  jarstub-pack manifest --arg=-Xmx512m --arg=-jar --arg={payload} -o -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runManifest(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "payload/"+config.ManifestFileName, `output path, or "-" for stdout`)
	f.StringVar(&opts.payloadName, "payload-name", defaults.PayloadName, "file name of the application inside the staging directory")
	f.StringVar(&opts.binary, "binary", defaults.EntryPoint.Binary, "runtime executable name")
	f.StringVar(&opts.policy, "policy", defaults.EntryPoint.Policy, `entry point lookup, "scan" or "fixed"`)
	f.StringVar(&opts.subdir, "subdir", defaults.EntryPoint.Subdir, "runtime home for the fixed policy")
	f.StringArrayVar(&opts.args, "arg", defaults.Args, "argument passed to the runtime (repeatable)")
	f.BoolVar(&opts.noWait, "no-wait", false, "return as soon as the runtime has started")
	f.BoolVar(&opts.cleanup, "cleanup", defaults.Cleanup, "remove the staging directory after the runtime exits or the launch fails")
	f.StringVar(&opts.logLevel, "log-level", "", "bake a diagnostics log level into the launcher")
	return cmd
}

func (o *manifestOptions) config() *config.Config {
	cfg := config.DefaultConfig()
	cfg.PayloadName = o.payloadName
	cfg.EntryPoint = config.EntryPointConfig{Binary: o.binary, Policy: o.policy, Subdir: o.subdir}
	cfg.Args = o.args
	cfg.Wait = !o.noWait
	cfg.Cleanup = o.cleanup
	cfg.Log.Level = o.logLevel
	return cfg
}

func runManifest(ctx context.Context, w io.Writer, opts *manifestOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	text := config.GenerateCUE(opts.config())

	// Round-trip through the loader so that a manifest the launcher would
	// reject is never written.
	if _, err := config.NewProvider().Load(ctx, config.LoadOptions{
		Manifest:     []byte(text),
		ManifestName: config.ManifestFileName,
	}); err != nil {
		return err
	}

	err := writeOutput(w, opts.output, func(out io.Writer) error {
		_, err := io.WriteString(out, text)
		return err
	})
	if err != nil {
		return issue.WrapWithContext(err, "write manifest", opts.output)
	}

	if opts.output != "-" {
		fmt.Fprintf(w, "%s Wrote %s\n", successIcon, CmdStyle.Render(opts.output))
	}
	return nil
}
