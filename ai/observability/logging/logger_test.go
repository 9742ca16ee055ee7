package logging

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
		{" INFO ", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"verbose", slog.LevelWarn},
		{"", slog.LevelWarn},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in, slog.LevelWarn))
		})
	}
}

func TestNewLogger_ProdIsJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{Mode: "prod"})

	logger.Debug("hidden")
	logger.Info("catalog loaded", "records", 3)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "catalog loaded", entry["msg"])
	assert.Equal(t, float64(3), entry["records"])
}

func TestNewLogger_DevIsTextAndVerbose(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{Mode: "dev"})

	logger.Debug("classifier cache hit", "key", "route:abc")
	out := buf.String()
	assert.Contains(t, out, "level=DEBUG")
	assert.Contains(t, out, "key=route:abc")
}

func TestNewLogger_ExplicitLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{Mode: "dev", Level: "error"})

	logger.Warn("dropped")
	assert.Empty(t, buf.String())
}

func TestContext(t *testing.T) {
	assert.Equal(t, slog.Default(), FromContext(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&buf, Options{}).With("request_id", "r-1")
	ctx := ToContext(context.Background(), logger)

	FromContext(ctx).Info("hello")
	assert.Contains(t, buf.String(), "request_id=r-1")
}
