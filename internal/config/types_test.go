// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"reflect"
	"testing"
)

func TestConfig_ExpandArgs(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	cfg.Args = []string{"-Dapp.jar={payload}", "-jar", "{payload}"}

	got := cfg.ExpandArgs("/tmp/jarstub-1/application.jar")
	want := []string{"-Dapp.jar=/tmp/jarstub-1/application.jar", "-jar", "/tmp/jarstub-1/application.jar"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExpandArgs() = %v, want %v", got, want)
	}
	if cfg.Args[2] != PayloadPlaceholder {
		t.Error("ExpandArgs() must not modify the template")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "blank payload", mutate: func(c *Config) { c.PayloadName = " " }, field: "payload_name"},
		{name: "no args", mutate: func(c *Config) { c.Args = nil }, field: "args"},
		{name: "bad policy", mutate: func(c *Config) { c.EntryPoint.Policy = "glob" }, field: "entrypoint.policy"},
		{name: "bad level", mutate: func(c *Config) { c.Log.Level = "loud" }, field: "log.level"},
		{name: "upper case level", mutate: func(c *Config) { c.Log.Level = "DEBUG" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				if err != nil {
					t.Errorf("Validate() error: %v", err)
				}
				return
			}

			var invalid *InvalidConfigError
			if !errors.As(err, &invalid) || invalid.Field != tt.field {
				t.Errorf("Validate() error = %v, want InvalidConfigError on %s", err, tt.field)
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Error("InvalidConfigError should wrap ErrInvalidConfig")
			}
		})
	}
}
