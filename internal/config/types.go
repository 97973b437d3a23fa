// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

const (
	// PayloadPlaceholder in Args is replaced with the absolute payload path.
	PayloadPlaceholder = "{payload}"

	// DefaultPayloadName is where the application payload is written.
	DefaultPayloadName = "application.jar"

	// PolicyScan and PolicyFixed mirror the entry point policies.
	PolicyScan  = "scan"
	PolicyFixed = "fixed"

	// LogLevelOff disables diagnostics entirely.
	LogLevelOff = "off"
)

// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
var ErrInvalidConfig = errors.New("invalid config")

type (
	// Config is the resolved launcher configuration.
	Config struct {
		// PayloadName is the file name of the application payload.
		PayloadName string `json:"payload_name" mapstructure:"payload_name"`
		// StagingPrefix prefixes the per-run staging directory name.
		StagingPrefix string `json:"staging_prefix" mapstructure:"staging_prefix"`
		// EntryPoint selects the runtime executable.
		EntryPoint EntryPointConfig `json:"entrypoint" mapstructure:"entrypoint"`
		// Args is the argument template passed to the entry point.
		Args []string `json:"args" mapstructure:"args"`
		// Wait blocks until the child exits.
		Wait bool `json:"wait" mapstructure:"wait"`
		// Cleanup removes the staging directory after a waited child exits
		// and on any failure. A detached child keeps its files.
		Cleanup bool `json:"cleanup" mapstructure:"cleanup"`
		// Log configures diagnostics.
		Log LogConfig `json:"log" mapstructure:"log"`
	}

	// EntryPointConfig locates the runtime executable in the staging tree.
	EntryPointConfig struct {
		Binary string `json:"binary" mapstructure:"binary"`
		Policy string `json:"policy" mapstructure:"policy"`
		Subdir string `json:"subdir" mapstructure:"subdir"`
	}

	// LogConfig holds diagnostics settings. An empty Level leaves logging off.
	LogConfig struct {
		Level string `json:"level" mapstructure:"level"`
		File  string `json:"file" mapstructure:"file"`
	}

	// InvalidConfigError reports a field that passed the schema but cannot
	// be used.
	InvalidConfigError struct {
		Field  string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid config: %s: %s", e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig for errors.Is() compatibility.
func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the configuration used when the manifest is empty:
// scan for java, pass "-jar <payload>", wait for the child and remove staging
// once it exits.
func DefaultConfig() *Config {
	return &Config{
		PayloadName:   DefaultPayloadName,
		StagingPrefix: "jarstub-",
		EntryPoint: EntryPointConfig{
			Binary: "java",
			Policy: PolicyScan,
			Subdir: "jre",
		},
		Args:    []string{"-jar", PayloadPlaceholder},
		Wait:    true,
		Cleanup: true,
	}
}

// Validate checks constraints CUE cannot see, including values that came
// from the environment after schema validation.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.PayloadName) == "" {
		return &InvalidConfigError{Field: "payload_name", Reason: "must not be empty"}
	}
	if len(c.Args) == 0 {
		return &InvalidConfigError{Field: "args", Reason: "must contain at least one argument"}
	}
	switch c.EntryPoint.Policy {
	case PolicyScan, PolicyFixed:
	default:
		return &InvalidConfigError{Field: "entrypoint.policy", Reason: fmt.Sprintf("unknown policy %q", c.EntryPoint.Policy)}
	}
	switch strings.ToLower(c.Log.Level) {
	case "", LogLevelOff, "debug", "info", "warn", "error":
	default:
		return &InvalidConfigError{Field: "log.level", Reason: fmt.Sprintf("unknown level %q", c.Log.Level)}
	}
	return nil
}

// ExpandArgs substitutes payloadPath for every PayloadPlaceholder in Args.
// The placeholder may appear inside a larger argument
// (e.g., "-Dapp.jar={payload}").
func (c *Config) ExpandArgs(payloadPath string) []string {
	args := slices.Clone(c.Args)
	for i, arg := range args {
		args[i] = strings.ReplaceAll(arg, PayloadPlaceholder, payloadPath)
	}
	return args
}
