package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "COM3", cfg.Serial.Port)
	assert.Equal(t, 115200, cfg.Serial.BaudRate)
	assert.Equal(t, 10*time.Millisecond, cfg.Serial.PollInterval)
	assert.Zero(t, cfg.Serial.ReadTimeout)
	assert.Equal(t, 16, cfg.Broadcast.SubscriberBuffer)
	assert.Equal(t, "0.0.0.0:8085", cfg.GetServerAddr())
	assert.True(t, cfg.IsDebugEnabled())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
serial:
  port: /dev/ttyACM0
  baud_rate: 9600
  poll_interval: 5ms
app:
  environment: production
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyACM0", cfg.Serial.Port)
	assert.Equal(t, 9600, cfg.Serial.BaudRate)
	assert.Equal(t, 5*time.Millisecond, cfg.Serial.PollInterval)
	assert.True(t, cfg.IsProduction())
}

func TestLoadEnvironmentOverride(t *testing.T) {
	t.Setenv("BEE_COUNTER_SERIAL_PORT", "/dev/ttyUSB3")
	path := writeConfig(t, "serial:\n  port: COM9\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Serial.Port)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"poll interval too long", "serial:\n  poll_interval: 50ms\n"},
		{"poll interval zero", "serial:\n  poll_interval: 0s\n"},
		{"read timeout above interval", "serial:\n  read_timeout: 15ms\n"},
		{"bad level", "logging:\n  level: chatty\n"},
		{"bad environment", "app:\n  environment: moon\n"},
		{"bad buffer", "broadcast:\n  subscriber_buffer: 0\n"},
		{"tls without files", "server:\n  tls:\n    enabled: true\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			assert.Error(t, err)
		})
	}
}
