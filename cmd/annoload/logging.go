// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"

	"github.com/annoload/annoload/internal/config"
)

// newLogger returns a slog.Logger backed by a charmbracelet/log handler
// writing to w. --verbose forces debug level and timestamps.
func newLogger(w io.Writer, level config.LogLevel, verbose bool) *slog.Logger {
	lvl := level.Slog()
	if verbose {
		lvl = slog.LevelDebug
	}
	handler := log.NewWithOptions(w, log.Options{
		Level:           log.Level(lvl),
		Prefix:          config.AppName,
		ReportTimestamp: verbose,
	})
	return slog.New(handler)
}
