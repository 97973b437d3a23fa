// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/jarstub/jarstub/pkg/types"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// newRootCmd builds a fresh command tree so tests can run commands in parallel.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "jarstub-pack",
		Short: "Prepare payloads for the jarstub launcher",
		Long: TitleStyle.Render("jarstub-pack") + SubtitleStyle.Render(" - prepare payloads for the jarstub launcher") + `

jarstub embeds three files from cmd/jarstub/payload/ at build time: the Java
runtime archive, the application jar and the launcher manifest. This tool
produces and checks them.

` + SubtitleStyle.Render("Typical flow:") + `
  jarstub-pack runtime ./jdk-21-jre --prefix jre -o payload/runtime.zip
  jarstub-pack app ./build/libs/app.jar -o payload/application.jar
  jarstub-pack manifest -o payload/launcher.cue
  jarstub-pack inspect payload/runtime.zip --manifest payload/launcher.cue`,
		SilenceUsage: true,
	}

	root.AddCommand(newRuntimeCmd())
	root.AddCommand(newAppCmd())
	root.AddCommand(newManifestCmd())
	root.AddCommand(newInspectCmd())
	return root
}

// versionString returns a formatted version string for display.
func versionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// execute runs the command line and maps the outcome to an exit code.
func execute(ctx context.Context) types.ExitCode {
	if err := fang.Execute(
		ctx,
		newRootCmd(),
		fang.WithVersion(versionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		return exitCodeFor(err)
	}
	return types.ExitOK
}
