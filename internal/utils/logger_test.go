package utils

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bee-counter/internal/config"
)

func TestNewLoggerLevels(t *testing.T) {
	logger, err := NewLogger(&config.LoggingConfig{Level: "warn", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, err = NewLogger(&config.LoggingConfig{Level: "loud", Output: "stdout"})
	assert.Error(t, err)
}

func TestNewLoggerFileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "bee.log")
	logger, err := NewLogger(&config.LoggingConfig{Level: "info", Format: "json", Output: path, MaxSize: 1})
	require.NoError(t, err)

	logger.Info("hello")
	require.NoError(t, CloseLogger(logger))
	assert.FileExists(t, path)
}

func TestSessionLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	session := NewSessionLogger(zap.New(core), "s-1", "COM3", 115200)

	session.LogConnection("open", true, nil)
	session.LogSessionEnd("read_fault", 3, 0, errors.New("unplugged"))

	entries := logs.AllUntimed()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "s-1", entries[0].ContextMap()["session_id"])
	assert.Equal(t, "COM3", entries[0].ContextMap()["port"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "read_fault", entries[1].ContextMap()["reason"])
}

func TestServiceLoggerAPIRequestLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sl := NewServiceLogger(zap.New(core), "http-server")

	sl.LogAPIRequest("GET", "/health", "test", "127.0.0.1", 200, 0)
	sl.LogAPIRequest("PUT", "/api/v1/reader/config", "test", "127.0.0.1", 409, 0)
	sl.LogAPIRequest("POST", "/api/v1/reader/start", "test", "127.0.0.1", 502, 0)

	entries := logs.AllUntimed()
	require.Len(t, entries, 3)
	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
