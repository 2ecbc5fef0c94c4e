package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cubicleview/internal/testgraph"
	"github.com/matzehuels/cubicleview/pkg/pipeline"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestStage(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(&buf, log.DebugLevel)
	st := startStage(l, "layout", "model.dot")
	st.done("states", 7)

	out := buf.String()
	for _, want := range []string{"layout start", "layout done", "source=model.dot", "states=7", "took="} {
		if !strings.Contains(out, want) {
			t.Errorf("stage output missing %q:\n%s", want, out)
		}
	}
}

func TestLogStats(t *testing.T) {
	tests := []struct {
		level   log.Level
		wantLog bool
	}{
		{log.InfoLevel, false},
		{log.DebugLevel, true},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		logStats(newLogger(&buf, tt.level), "model.dot", pipeline.Stats{NodeCount: 8, EdgeCount: 7})
		if got := strings.Contains(buf.String(), "states=8"); got != tt.wantLog {
			t.Errorf("level %v: output = %q", tt.level, buf.String())
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("loggerFromContext without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	l := newLogger(&buf, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), l)); got != l {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestSetLogLevelInstallsHooks(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)
	t.Cleanup(func() { c.SetLogLevel(LogInfo) })

	r, err := c.newRunner(context.Background(), true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Load(context.Background(), "sample", []byte(testgraph.Sample)); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"parse start", "parse done"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("debug output missing %q:\n%s", want, buf.String())
		}
	}
}
