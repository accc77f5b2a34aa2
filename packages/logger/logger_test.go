package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "warn", Environment: "prod", Writer: &buf})

	log.Info("hidden")
	log.Warn("shown", slog.String("component", "test"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "shown", entry["msg"])
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "test", entry["component"])
}

func TestNew_DevText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Level: "debug", Environment: "dev", Writer: &buf, NoColor: true})

	log.Debug("dev line", slog.String("component", "test"))

	out := buf.String()
	assert.Contains(t, out, "dev line")
	assert.Contains(t, out, "component=test")
	assert.NotContains(t, out, "\x1b[")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestContextLogger(t *testing.T) {
	assert.Same(t, slog.Default(), FromContext(context.Background()))

	log := Discard()
	ctx := ContextWithLogger(context.Background(), log)
	assert.Same(t, log, FromContext(ctx))
}
