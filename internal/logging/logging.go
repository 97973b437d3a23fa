// SPDX-License-Identifier: MPL-2.0

// Package logging builds the launcher's diagnostics logger.
//
// The launcher has no console, so logging is off unless a level is set.
// When enabled, records go to a size-rotated file: the configured path, or
// jarstub/launcher.log under the XDG state directory.
package logging

import (
	"fmt"
	"io"
	"strings"

	"github.com/adrg/xdg"
	"github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// Prefix tags every record.
	Prefix = "jarstub"
	// DefaultStateFile is the log path relative to the XDG state directory.
	DefaultStateFile = "jarstub/launcher.log"

	maxSizeMB  = 1
	maxBackups = 3
)

type (
	// Options selects the level and destination.
	Options struct {
		// Level is "debug", "info", "warn" or "error". Empty or "off" disables logging.
		Level string
		// File overrides the XDG default path.
		File string
	}

	// Sink is an enabled or disabled logger together with its backing file.
	Sink struct {
		Logger *log.Logger
		// Path is the log file, empty when logging is off.
		Path   string
		closer io.Closer
	}
)

// Discard returns a logger that drops every record.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Prefix: Prefix})
}

// New creates the sink described by opts.
func New(opts Options) (*Sink, error) {
	level := strings.ToLower(strings.TrimSpace(opts.Level))
	if level == "" || level == "off" {
		return &Sink{Logger: Discard()}, nil
	}

	parsed, err := log.ParseLevel(level)
	if err != nil {
		return &Sink{Logger: Discard()}, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	path := opts.File
	if path == "" {
		path, err = xdg.StateFile(DefaultStateFile)
		if err != nil {
			return &Sink{Logger: Discard()}, fmt.Errorf("failed to resolve log file: %w", err)
		}
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
	}

	logger := log.NewWithOptions(file, log.Options{
		Prefix:          Prefix,
		Level:           parsed,
		ReportTimestamp: true,
		Formatter:       log.LogfmtFormatter,
	})

	return &Sink{Logger: logger, Path: path, closer: file}, nil
}

// Enabled reports whether records are written anywhere.
func (s *Sink) Enabled() bool {
	return s.closer != nil
}

// Close flushes and closes the log file.
func (s *Sink) Close() error {
	if s == nil || s.closer == nil {
		return nil
	}
	return s.closer.Close()
}
