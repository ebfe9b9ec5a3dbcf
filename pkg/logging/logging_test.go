package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
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
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}

	assert.True(t, ValidLevel("Warn"))
	assert.False(t, ValidLevel("verbose"))
}

// TestSlogLogger tests that fields, errors and levels reach the handler
func TestSlogLogger(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})
	logger := NewSlogLogger(slog.New(handler))
	ctx := context.Background()

	logger.Debug(ctx, "hidden", nil)
	logger.Info(ctx, "Creating new directory 'replica/a' in replica", Fields{"action": "create_directory"})
	logger.WithFields(Fields{"run_id": "abc"}).Error(ctx, "failed", errors.New("boom"), nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, "Creating new directory 'replica/a' in replica", first["msg"])
	assert.Equal(t, "create_directory", first["action"])

	var second map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	assert.Equal(t, "ERROR", second["level"])
	assert.Equal(t, "boom", second["error"])
	assert.Equal(t, "abc", second["run_id"])
}

// TestMultiHandler tests fan-out with per-handler levels
func TestMultiHandler(t *testing.T) {
	var debugBuf, errorBuf bytes.Buffer
	multi := NewMultiHandler(
		slog.NewTextHandler(&debugBuf, &slog.HandlerOptions{Level: slog.LevelDebug}),
		slog.NewTextHandler(&errorBuf, &slog.HandlerOptions{Level: slog.LevelError}),
	)
	logger := slog.New(multi).With("component", "test")

	logger.Debug("details")
	logger.Error("broken")

	assert.Contains(t, debugBuf.String(), "details")
	assert.Contains(t, debugBuf.String(), "broken")
	assert.Contains(t, debugBuf.String(), "component=test")
	assert.NotContains(t, errorBuf.String(), "details")
	assert.Contains(t, errorBuf.String(), "broken")

	assert.False(t, NewMultiHandler().Enabled(context.Background(), slog.LevelError))
}

// TestRotatingWriter tests size-based rotation and backup pruning
func TestRotatingWriter(t *testing.T) {
	t.Run("CreatesDirectory", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nested", "dir", "sync.log")
		w, err := NewRotatingWriter(path, 0, 0)
		require.NoError(t, err)
		defer w.Close()

		_, err = w.Write([]byte("line\n"))
		require.NoError(t, err)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "line\n", string(data))
	})

	t.Run("Appends", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sync.log")
		require.NoError(t, os.WriteFile(path, []byte("old\n"), 0644))

		w, err := NewRotatingWriter(path, 0, 0)
		require.NoError(t, err)
		_, err = w.Write([]byte("new\n"))
		require.NoError(t, err)
		require.NoError(t, w.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "old\nnew\n", string(data))
	})

	t.Run("Rotates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sync.log")
		w, err := NewRotatingWriter(path, 10, 2)
		require.NoError(t, err)
		defer w.Close()

		for i := 0; i < 5; i++ {
			_, err := w.Write([]byte(fmt.Sprintf("record-%02d\n", i)))
			require.NoError(t, err)
		}

		current, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, "record-04\n", string(current))

		newest, err := os.ReadFile(path + ".1")
		require.NoError(t, err)
		assert.Equal(t, "record-03\n", string(newest))

		oldest, err := os.ReadFile(path + ".2")
		require.NoError(t, err)
		assert.Equal(t, "record-02\n", string(oldest))

		_, err = os.Stat(path + ".3")
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("WriteAfterClose", func(t *testing.T) {
		w, err := NewRotatingWriter(filepath.Join(t.TempDir(), "sync.log"), 0, 0)
		require.NoError(t, err)
		require.NoError(t, w.Close())
		require.NoError(t, w.Close())

		_, err = w.Write([]byte("late"))
		assert.ErrorIs(t, err, os.ErrClosed)
	})
}

// TestNew tests logger construction from options
func TestNew(t *testing.T) {
	t.Run("ConsoleAndJSONFile", func(t *testing.T) {
		var console bytes.Buffer
		path := filepath.Join(t.TempDir(), "sync.log")

		logger, err := New(Options{
			Level:      slog.LevelInfo,
			Console:    &console,
			FilePath:   path,
			FileFormat: FormatJSON,
		})
		require.NoError(t, err)

		logger.Info(context.Background(), "Synchronization execution started", nil)
		require.NoError(t, logger.Close())

		assert.Contains(t, console.String(), "Synchronization execution started")
		assert.NotContains(t, console.String(), "\x1b[", "colour must be off for non-terminals")

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var record map[string]any
		require.NoError(t, json.Unmarshal(data, &record))
		assert.Equal(t, "Synchronization execution started", record["msg"])
	})

	t.Run("TextFileOnly", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "sync.log")
		logger, err := New(Options{Level: slog.LevelDebug, FilePath: path})
		require.NoError(t, err)

		logger.Debug(context.Background(), "visiting", Fields{"path": "a.txt"})
		require.NoError(t, logger.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `msg=visiting`)
		assert.Contains(t, string(data), `path=a.txt`)
	})

	t.Run("UnknownFormat", func(t *testing.T) {
		_, err := New(Options{FilePath: filepath.Join(t.TempDir(), "x.log"), FileFormat: "xml"})
		assert.Error(t, err)
	})

	t.Run("NoOutputs", func(t *testing.T) {
		logger, err := New(Options{})
		require.NoError(t, err)
		logger.Info(context.Background(), "dropped", nil)
		assert.NoError(t, logger.Close())
	})
}

func TestNullLogger(t *testing.T) {
	var logger Logger = NewNullLogger()
	logger.Info(context.Background(), "ignored", Fields{"k": "v"})
	assert.Same(t, logger, logger.WithFields(Fields{"a": 1}))
	assert.NoError(t, logger.Close())
}
