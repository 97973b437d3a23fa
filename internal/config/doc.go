// SPDX-License-Identifier: MPL-2.0

// Package config handles launcher configuration using Viper with CUE as the file format.
//
// The only configuration source is the build manifest (launcher.cue) compiled
// into the launcher next to its payloads; the end user has nothing to edit.
// The manifest is validated against an embedded CUE schema
// (manifest_schema.cue) and merged over built-in defaults. Diagnostics are the
// one exception: JARSTUB_LOG_LEVEL and JARSTUB_LOG_FILE may be set in the
// environment to capture a log of a failing launch.
package config
