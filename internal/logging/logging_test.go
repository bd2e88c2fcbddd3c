package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warn"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("anything"))
}

func TestNewHandlerFormats(t *testing.T) {
	var buf bytes.Buffer
	slog.New(newHandler(&buf, "info", "text")).Info("hello", "file", "a.jpg")
	assert.Contains(t, buf.String(), "file=a.jpg")

	buf.Reset()
	slog.New(newHandler(&buf, "info", "json")).Info("hello", "file", "a.jpg")
	assert.Contains(t, buf.String(), `"file":"a.jpg"`)
}

func TestNewWritesLogFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "photofolio.log")
	logger, cleanup, err := New("info", "json", path)
	require.NoError(t, err)

	logger.Info("extraction complete", "processed", 3)
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "extraction complete")
}
