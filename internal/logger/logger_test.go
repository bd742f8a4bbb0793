package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
)

func newTestConsoleLogger(t *testing.T) (*ConsoleLogger, *bytes.Buffer) {
	t.Helper()

	noColor := color.NoColor
	color.NoColor = true
	t.Cleanup(func() { color.NoColor = noColor })

	var buf bytes.Buffer
	return NewConsoleLoggerWithWriter(&buf), &buf
}

func TestConsoleLogger_LevelGating(t *testing.T) {
	tests := []struct {
		name    string
		level   LogLevel
		want    []string
		notWant []string
	}{
		{
			name:  "debug shows everything",
			level: LogLevelDebug,
			want:  []string{"debug: d", "info: i", "warning: w", "error: e"},
		},
		{
			name:    "info hides debug",
			level:   LogLevelInfo,
			want:    []string{"info: i", "warning: w", "error: e"},
			notWant: []string{"debug: d"},
		},
		{
			name:    "error only",
			level:   LogLevelError,
			want:    []string{"error: e"},
			notWant: []string{"debug: d", "info: i", "warning: w"},
		},
		{
			name:    "silent",
			level:   LogLevelSilent,
			notWant: []string{"debug: d", "info: i", "warning: w", "error: e"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			l, buf := newTestConsoleLogger(t)
			l.SetLogLevel(test.level)

			l.Debugf("%s", "d")
			l.Infof("%s", "i")
			l.Warn("w")
			l.Errorf("%s", "e")

			out := buf.String()
			for _, w := range test.want {
				if !strings.Contains(out, w) {
					t.Errorf("expected output to contain %q, got %q", w, out)
				}
			}
			for _, w := range test.notWant {
				if strings.Contains(out, w) {
					t.Errorf("expected output not to contain %q, got %q", w, out)
				}
			}
		})
	}
}

func TestMultiLogger_GetLogLevel(t *testing.T) {
	a, _ := newTestConsoleLogger(t)
	b, _ := newTestConsoleLogger(t)
	a.SetLogLevel(LogLevelWarn)
	b.SetLogLevel(LogLevelDebug)

	m := NewMultiLogger(a, b)
	if m.GetLogLevel() != LogLevelDebug {
		t.Errorf("expected most verbose level, got %v", m.GetLogLevel())
	}
}

func TestMultiLogger_FansOut(t *testing.T) {
	a, bufA := newTestConsoleLogger(t)
	b, bufB := newTestConsoleLogger(t)

	m := NewMultiLogger(a, b)
	m.Warnf("disk %s", "full")

	for _, buf := range []*bytes.Buffer{bufA, bufB} {
		if !strings.Contains(buf.String(), "warning: disk full") {
			t.Errorf("expected warning in every logger, got %q", buf.String())
		}
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()).(NoOpLogger); !ok {
		t.Errorf("expected no-op logger from empty context")
	}

	l, _ := newTestConsoleLogger(t)
	ctx := WithLogger(context.Background(), l)

	if FromContext(ctx) != Logger(l) {
		t.Errorf("expected stored logger to be returned")
	}
}
