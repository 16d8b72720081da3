package infrastructure

import (
	"bufio"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opcvcli/internal/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestCreateLoggerWritesJSONToFile(t *testing.T) {
	t.Cleanup(ResetLoggerForTesting)

	logPath := filepath.Join(t.TempDir(), "logs", "test.log")
	logger, err := createLogger(config.LoggingConfig{
		Level:    "info",
		Output:   "file",
		FilePath: logPath,
	})
	require.NoError(t, err)

	ctx := WithRunID(context.Background(), "run-123")
	logger.InfoContext(ctx, "hello", slog.Int("rows", 42))
	require.NoError(t, CloseLogFile())

	f, err := os.Open(logPath)
	require.NoError(t, err)
	defer f.Close()

	scanner := bufio.NewScanner(f)
	require.True(t, scanner.Scan(), "expected at least one log line")

	var record map[string]any
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &record))
	assert.Equal(t, "hello", record["msg"])
	assert.Equal(t, float64(42), record["rows"])
	assert.Equal(t, "run-123", record["run_id"])
}

func TestRunIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRunID(ctx))

	ctx = WithRunID(ctx, "abc")
	assert.Equal(t, "abc", GetRunID(ctx))

	// EnsureRunID keeps an existing ID
	assert.Equal(t, "abc", GetRunID(EnsureRunID(ctx)))

	// and generates one when absent
	generated := GetRunID(EnsureRunID(context.Background()))
	assert.NotEmpty(t, generated)
}

func TestGenerateRunIDUnique(t *testing.T) {
	assert.NotEqual(t, GenerateRunID(), GenerateRunID())
}

func TestLoggerWithContext(t *testing.T) {
	t.Cleanup(ResetLoggerForTesting)

	// Uninitialized: falls back to the default logger
	assert.NotNil(t, GetLogger())
	assert.NotNil(t, LoggerWithContext(context.Background()))
	assert.NotNil(t, LoggerWithContext(WithRunID(context.Background(), "run-9")))
}
