package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/sankey/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info", LogInfo, func(l *log.Logger) { l.Info("rendered", "nodes", 9) }, true},
		{"debug at info", LogInfo, func(l *log.Logger) { l.Debug("cache hit") }, false},
		{"debug at debug", LogDebug, func(l *log.Logger) { l.Debug("cache hit") }, true},
		{"warn at info", LogInfo, func(l *log.Logger) { l.Warn("cache disabled") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("wrote output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestNewLoggerTimestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, LogInfo).Info("rendered")
	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("output %q does not start with an HH:MM:SS.cc timestamp", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, LogInfo)).done("Rendered budget.png")

	out := buf.String()
	if !strings.Contains(out, "Rendered budget.png (") || !strings.Contains(out, "s)") {
		t.Errorf("done() output = %q, want message followed by elapsed time", out)
	}
}

func TestLoggerFromContext(t *testing.T) {
	custom := newLogger(&bytes.Buffer{}, LogInfo)
	tests := []struct {
		name string
		ctx  context.Context
		want *log.Logger
	}{
		{"default", context.Background(), log.Default()},
		{"attached", withLogger(context.Background(), custom), custom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := loggerFromContext(tt.ctx); got != tt.want {
				t.Errorf("loggerFromContext() = %p, want %p", got, tt.want)
			}
		})
	}
}

func TestRootCommandAttachesLogger(t *testing.T) {
	c := New(&bytes.Buffer{}, LogInfo)
	t.Cleanup(observability.Reset)

	var got *log.Logger
	root := c.RootCommand()
	root.AddCommand(&cobra.Command{
		Use: "whoami",
		RunE: func(cmd *cobra.Command, args []string) error {
			got = loggerFromContext(cmd.Context())
			return nil
		},
	})
	root.SetArgs([]string{"whoami"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	if got != c.Logger {
		t.Error("subcommands should see the CLI logger in their context")
	}
}

func TestSetLogLevel(t *testing.T) {
	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	t.Cleanup(observability.Reset)

	c.Logger.Debug("hidden")
	if buf.Len() != 0 {
		t.Fatalf("debug output at info level: %q", buf.String())
	}
	c.SetLogLevel(LogDebug)
	c.Logger.Debug("layout computed")
	if !strings.Contains(buf.String(), "layout computed") {
		t.Errorf("output %q missing debug message after SetLogLevel", buf.String())
	}
}
