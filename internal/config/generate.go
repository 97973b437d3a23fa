// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"strings"
)

// GenerateCUE renders cfg as a launcher manifest that loads back to cfg.
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// jarstub launcher manifest\n")
	sb.WriteString("// Embedded into the launcher at build time; see 'jarstub-pack manifest --help'.\n\n")

	fmt.Fprintf(&sb, "payload_name:   %q\n", cfg.PayloadName)
	fmt.Fprintf(&sb, "staging_prefix: %q\n", cfg.StagingPrefix)

	sb.WriteString("\nentrypoint: {\n")
	fmt.Fprintf(&sb, "\tbinary: %q\n", cfg.EntryPoint.Binary)
	fmt.Fprintf(&sb, "\tpolicy: %q\n", cfg.EntryPoint.Policy)
	fmt.Fprintf(&sb, "\tsubdir: %q\n", cfg.EntryPoint.Subdir)
	sb.WriteString("}\n")

	sb.WriteString("\nargs: [")
	for i, arg := range cfg.Args {
		if i > 0 {
			sb.WriteString(", ")
		}
		fmt.Fprintf(&sb, "%q", arg)
	}
	sb.WriteString("]\n")

	fmt.Fprintf(&sb, "\nwait:    %v\n", cfg.Wait)
	fmt.Fprintf(&sb, "cleanup: %v\n", cfg.Cleanup)

	if cfg.Log.Level != "" || cfg.Log.File != "" {
		sb.WriteString("\nlog: {\n")
		if cfg.Log.Level != "" {
			fmt.Fprintf(&sb, "\tlevel: %q\n", cfg.Log.Level)
		}
		if cfg.Log.File != "" {
			fmt.Fprintf(&sb, "\tfile: %q\n", cfg.Log.File)
		}
		sb.WriteString("}\n")
	}

	return sb.String()
}
