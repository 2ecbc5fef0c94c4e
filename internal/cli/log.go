// Package cli implements the cubicleview command-line interface.
//
// Every command reads one Cubicle DOT file (or, for serve, accepts uploads)
// and runs it through the load and layout pipeline. The CLI is built using
// cobra and logs through charmbracelet/log.
//
// # Commands
//
//   - inspect: print the laid out graph as JSON or YAML
//   - path: trace a state back to the initial state
//   - render: draw the graph variants as SVG or PNG
//   - serve: serve viewing sessions over HTTP
//   - explore: browse a graph interactively in the terminal
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces pipeline, cache and view events. The logger is carried in the
// command's context.Context.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/pkg/pipeline"
)

// newLogger writes leveled lines stamped "HH:MM:SS.ms".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// stage times one step of a command against a graph file, so that
// "layout", "render" and friends log uniformly:
//
//	INFO layout done source=model.dot states=1204 took=1.234s
type stage struct {
	logger *log.Logger
	name   string
	source string
	start  time.Time
}

func startStage(l *log.Logger, name, source string) *stage {
	l.Debug(name+" start", "source", source)
	return &stage{logger: l, name: name, source: source, start: time.Now()}
}

// done logs the stage's completion with extra key/value pairs.
func (s *stage) done(keyvals ...any) {
	kv := append([]any{"source", s.source}, keyvals...)
	kv = append(kv, "took", time.Since(s.start).Round(time.Millisecond))
	s.logger.Info(s.name+" done", kv...)
}

// logStats reports the timings of a pipeline run at debug level.
func logStats(l *log.Logger, source string, st pipeline.Stats) {
	l.Debug("pipeline stats",
		"source", source,
		"states", st.NodeCount,
		"edges", st.EdgeCount,
		"parse", st.ParseTime.Round(time.Millisecond),
		"layout", st.LayoutTime.Round(time.Millisecond))
}

type loggerKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// loggerFromContext returns the command logger, or log.Default() when ctx
// did not come from a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
