package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	logger.Debug("debug msg", "k", "v1")
	logger.Info("info msg", "k", "v2")
	logger.Warn("warn msg", "k", "v3")
	logger.Error("error msg", "k", "v4")

	out := buf.String()
	require.Contains(t, out, "debug msg")
	require.Contains(t, out, "k=v1")
	require.Contains(t, out, "level=INFO")
	require.Contains(t, out, "level=WARN")
	require.Contains(t, out, "level=ERROR")
	require.Contains(t, out, "k=v4")
}

func TestNewSlogDefault(t *testing.T) {
	logger := NewSlogDefault()
	require.NotNil(t, logger)
}
