// Package cli implements the codeviz command-line interface.
//
// The commands extract graphs from source files and render them:
//   - graph: Extract a graph as JSON
//   - render: Render one file as SVG, PNG, PDF, DOT, Mermaid or JSON
//   - batch: Render every source file under a directory in parallel
//   - watch: Re-render files when they change
//   - examples: List, show or interactively pick bundled examples
//   - serve: Run the HTTP API
//   - cache: Manage the on-disk result cache
//
// Settings come from the config file and CODEVIZ_* variables (see
// internal/config); flags override both. All commands support --verbose
// (-v) for debug-level logging.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at level, with "15:04:05.00"
// timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs a completion message with the time elapsed since it was
// created, e.g. "Rendered 12 of 12 files (1.234s)".
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for commands that only receive a context.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the attached logger, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
