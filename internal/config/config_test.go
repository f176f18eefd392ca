package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PARLEY_SESSIONS_DIR", "/tmp/parley-sessions")
	t.Setenv("PARLEY_SETTINGS", "/tmp/settings.yaml")
	t.Setenv("PARLEY_TELEMETRY", "true")
	t.Setenv("PARLEY_OTLP_ENDPOINT", "http://localhost:4318")

	cfg := Load()

	assert.Equal(t, "/tmp/parley-sessions", cfg.SessionsDir)
	assert.Equal(t, "/tmp/settings.yaml", cfg.SettingsPath)
	assert.True(t, cfg.TelemetryEnabled)
	assert.Equal(t, "http://localhost:4318", cfg.OTLPEndpoint)
}

func TestLoadDefaultsSessionsDir(t *testing.T) {
	t.Setenv("PARLEY_SESSIONS_DIR", "")

	cfg := Load()

	assert.NotEmpty(t, cfg.SessionsDir)
	require.NoError(t, cfg.Validate())
}

func TestLoadIgnoresInvalidTelemetryFlag(t *testing.T) {
	t.Setenv("PARLEY_TELEMETRY", "definitely")

	cfg := Load()

	assert.False(t, cfg.TelemetryEnabled)
}

func TestValidateRejectsEmptySessionsDir(t *testing.T) {
	cfg := Config{}
	assert.Error(t, cfg.Validate())
}

func TestLoadSettingsDefaults(t *testing.T) {
	settings, err := LoadSettings("")

	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), settings)
	assert.Equal(t, "gpt-4.1", settings.Model)
	assert.True(t, settings.EnableVision)
}

func TestLoadSettingsFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.yaml")
	snapshot := "model: gpt-4o\nenable_vision: false\nmax_tool_output_bytes: 1024\n"
	require.NoError(t, os.WriteFile(path, []byte(snapshot), 0o644))

	settings, err := LoadSettings(path)

	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", settings.Model)
	assert.False(t, settings.EnableVision)
	assert.Equal(t, 1024, settings.MaxToolOutputBytes)
	// Omitted keys keep their defaults.
	assert.True(t, settings.EnableTools)
}

func TestLoadSettingsMissingFile(t *testing.T) {
	_, err := LoadSettings(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
