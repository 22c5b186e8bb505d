// Package logger wraps charmbracelet/log with the prefixed-logger
// conventions used across the analyzer, navigator, and servers.
package logger

import (
	"os"

	"github.com/charmbracelet/log"
)

// New creates a logger that respects the global log level, timestamped
// for server/CLI output.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(os.Stdout, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a logger with explicit level/caller/timestamp/format,
// used by callers that need to route debug output differently (e.g. the
// IPC server keeps stdout clean for the wire protocol and logs to stderr).
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, formatter log.Formatter) *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       formatter,
	})
}
