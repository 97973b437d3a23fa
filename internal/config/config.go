// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/jarstub/jarstub/internal/issue"
	"github.com/jarstub/jarstub/pkg/cueutil"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "jarstub"
	// ManifestFileName is the name of the build manifest.
	ManifestFileName = "launcher.cue"
	// EnvPrefix prefixes the diagnostics environment variables.
	EnvPrefix = "JARSTUB"
)

//go:embed manifest_schema.cue
var manifestSchema []byte

// Schema returns the CUE schema manifests are validated against.
func Schema() string {
	return string(manifestSchema)
}

// loadWithOptions builds a fresh Viper instance for every call so that no
// package-level state leaks between loads.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	setDefaults(v)

	// Only diagnostics may come from the environment.
	for _, key := range []string{"log.level", "log.file"} {
		if err := v.BindEnv(key, envName(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	name, data, err := manifestSource(opts)
	if err != nil {
		return nil, err
	}

	if len(data) > 0 {
		if err := loadCUEIntoViper(v, data, name); err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load launcher manifest").
				WithResource(name).
				WithSuggestions(
					"Check that the manifest contains valid CUE syntax",
					"Regenerate a default manifest with 'jarstub-pack manifest'",
				).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate launcher manifest").
			WithResource(name).
			WithSuggestion("Fix the field named in the error, or unset " + envName("log.level")).
			Wrap(err).
			BuildError()
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := DefaultConfig()
	v.SetDefault("payload_name", defaults.PayloadName)
	v.SetDefault("staging_prefix", defaults.StagingPrefix)
	v.SetDefault("entrypoint.binary", defaults.EntryPoint.Binary)
	v.SetDefault("entrypoint.policy", defaults.EntryPoint.Policy)
	v.SetDefault("entrypoint.subdir", defaults.EntryPoint.Subdir)
	v.SetDefault("args", defaults.Args)
	v.SetDefault("wait", defaults.Wait)
	v.SetDefault("cleanup", defaults.Cleanup)
	v.SetDefault("log.level", defaults.Log.Level)
	v.SetDefault("log.file", defaults.Log.File)
}

// manifestSource picks the embedded bytes or, for tooling, a file on disk.
func manifestSource(opts LoadOptions) (string, []byte, error) {
	if opts.ManifestPath == "" {
		name := opts.ManifestName
		if name == "" {
			name = ManifestFileName
		}
		return name, opts.Manifest, nil
	}

	data, err := os.ReadFile(opts.ManifestPath)
	if err != nil {
		return "", nil, issue.NewErrorContext().
			WithOperation("load launcher manifest").
			WithResource(opts.ManifestPath).
			WithSuggestions("Verify the file path is correct", "Check that the file exists and is readable").
			Wrap(err).
			BuildError()
	}
	return opts.ManifestPath, data, nil
}

// loadCUEIntoViper validates a manifest against #Manifest and merges its
// contents into Viper over the defaults.
func loadCUEIntoViper(v *viper.Viper, data []byte, name string) error {
	fields, err := cueutil.DecodeMap(manifestSchema, data, "#Manifest", cueutil.WithFilename(name))
	if err != nil {
		return err
	}

	if err := v.MergeConfigMap(fields); err != nil {
		return fmt.Errorf("failed to merge manifest: %w", err)
	}
	return nil
}

// envName maps "log.level" to "JARSTUB_LOG_LEVEL".
func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// LogFromEnv returns the diagnostics settings found in the environment.
// It is the fallback when the manifest itself cannot be loaded.
func LogFromEnv() LogConfig {
	return LogConfig{
		Level: os.Getenv(envName("log.level")),
		File:  os.Getenv(envName("log.file")),
	}
}
