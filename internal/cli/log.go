// Package cli implements the apiviz command-line interface.
//
// The commands drive the Graphviz renderer and expose the doclet tag
// handling for inspection. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - render: Render a DOT diagram to a PNG and a client-side image map
//   - probe: Report whether the dot renderer is installed
//   - lint: Check DOT files for syntax errors without rendering
//   - tags: List apiviz tags and test host warnings against them
//   - options: Show the host options after -knowntags injection
//   - pick: Choose a diagram interactively and render it
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Renderer
// output is logged at warn level. Loggers are passed through context.Context.
//
// # Configuration
//
// Renderer settings come from flags, then $XDG_CONFIG_HOME/apiviz/config.toml
// (or --config), then GRAPHVIZ_HOME.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress logs how long an operation took once it completes.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Checked 3 diagram(s) took=12ms".
func (p *progress) done(msg string) {
	p.logger.Info(msg, "took", time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger attaches l to ctx for loggerFromContext.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
