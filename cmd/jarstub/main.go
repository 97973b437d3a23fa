// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"errors"
	"os"

	"github.com/charmbracelet/log"

	"github.com/jarstub/jarstub/internal/config"
	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/internal/launcher"
	"github.com/jarstub/jarstub/internal/logging"
	"github.com/jarstub/jarstub/pkg/types"
)

func main() {
	os.Exit(int(run(context.Background(), runtimeArchive, applicationPayload, launcherManifest)))
}

// run loads the manifest, performs one launch and maps the outcome to the
// process exit status. Extra options are applied after the manifest's.
func run(ctx context.Context, runtimeArchive, payload, manifest []byte, opts ...launcher.Option) types.ExitCode {
	cfg, cfgErr := config.NewProvider().Load(ctx, config.LoadOptions{
		Manifest:     manifest,
		ManifestName: config.ManifestFileName,
	})

	logCfg := config.LogFromEnv()
	if cfgErr == nil {
		logCfg = cfg.Log
	}
	// An unusable log destination leaves diagnostics off; New still
	// returns a discarding sink.
	sink, _ := logging.New(logging.Options{Level: logCfg.Level, File: logCfg.File})
	defer func() { _ = sink.Close() }()
	logger := sink.Logger
	if sink.Enabled() {
		logger.Debug("diagnostics enabled", "file", sink.Path)
	}

	if cfgErr != nil {
		reportError(logger, cfgErr)
		return types.ExitFailure
	}

	l := launcher.New(runtimeArchive, payload,
		append([]launcher.Option{launcher.WithConfig(cfg), launcher.WithLogger(logger)}, opts...)...)

	res, err := l.Run(ctx)
	if err != nil {
		reportError(logger, err)
		return types.ExitFailure
	}

	logger.Info("launch complete", "state", res.State, "pid", res.Pid, "exit_code", res.ExitCode, "waited", res.Waited)
	return types.ExitOK
}

func reportError(logger *log.Logger, err error) {
	var pe *launcher.PhaseError
	if errors.As(err, &pe) {
		logger.Error(pe.Format(true), "issue", issue.IssueOf(err), "state", pe.State, "kind", pe.Kind())
		return
	}
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		logger.Error(ae.Format(true), "issue", issue.IssueOf(err))
		return
	}
	logger.Error(err.Error())
}
