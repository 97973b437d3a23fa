// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/pkg/archive"
)

func newAppCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "app <jar>",
		Short: "Stage the application jar as the launcher payload",
		Long: `Copy the application jar into the payload directory.

The launcher writes these bytes verbatim next to the runtime and starts them
with "java -jar", so the jar must be runnable on its own (Main-Class set, or a
fat jar).

Examples:
  jarstub-pack app ./build/libs/app-all.jar
  jarstub-pack app ./target/app.jar -o cmd/jarstub/payload/application.jar`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApp(cmd.OutOrStdout(), args[0], output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "payload/application.jar", "output path for the application payload")
	return cmd
}

func runApp(w io.Writer, src, output string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return issue.NewErrorContext().
			WithOperation("read application jar").
			WithResource(src).
			WithSuggestion("Verify the file path is correct").
			Wrap(err).
			BuildError()
	}

	if format, err := archive.Detect(data); err != nil || format != archive.FormatZip {
		fmt.Fprintf(w, "%s %s does not look like a jar; it will be copied anyway\n", warningIcon, src)
	}

	err = writeOutput(w, output, func(out io.Writer) error {
		_, err := out.Write(data)
		return err
	})
	if err != nil {
		return issue.WrapWithContext(err, "write application payload", output)
	}

	if output != "-" {
		fmt.Fprintf(w, "%s Staged %s as %s (%s)\n",
			successIcon, src, CmdStyle.Render(output), formatSize(int64(len(data))))
	}
	return nil
}
