// Package config provides configuration for the parley conversation core.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds process-level configuration, loaded from environment
// variables.
type Config struct {
	// SessionsDir is the storage root for session documents.
	SessionsDir string

	// SettingsPath optionally points at a YAML settings snapshot.
	SettingsPath string

	// Telemetry config
	TelemetryEnabled bool
	OTLPEndpoint     string
}

// Load loads configuration from environment variables.
func Load() Config {
	cfg := Config{
		SessionsDir:  os.Getenv("PARLEY_SESSIONS_DIR"),
		SettingsPath: os.Getenv("PARLEY_SETTINGS"),
		OTLPEndpoint: os.Getenv("PARLEY_OTLP_ENDPOINT"),
	}

	if v := os.Getenv("PARLEY_TELEMETRY"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.TelemetryEnabled = b
		}
	}

	if cfg.SessionsDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			cfg.SessionsDir = filepath.Join(home, ".parley", "sessions")
		} else {
			cfg.SessionsDir = "sessions"
		}
	}

	return cfg
}

// Validate checks the required configuration.
func (c Config) Validate() error {
	if c.SessionsDir == "" {
		return fmt.Errorf("sessions directory is not configured")
	}
	return nil
}

// Settings is the read-only snapshot the host application supplies: model
// name and feature toggles. The core never mutates it.
type Settings struct {
	Model              string `yaml:"model"`
	EnableVision       bool   `yaml:"enable_vision"`
	EnableTools        bool   `yaml:"enable_tools"`
	MaxToolOutputBytes int    `yaml:"max_tool_output_bytes"`
}

// DefaultSettings returns the settings used when no snapshot is provided.
func DefaultSettings() Settings {
	return Settings{
		Model:              "gpt-4.1",
		EnableVision:       true,
		EnableTools:        true,
		MaxToolOutputBytes: 32 * 1024,
	}
}

// LoadSettings reads a YAML settings snapshot. A missing path returns the
// defaults.
func LoadSettings(path string) (Settings, error) {
	settings := DefaultSettings()
	if path == "" {
		return settings, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings snapshot: %w", err)
	}
	if err := yaml.Unmarshal(b, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings snapshot: %w", err)
	}
	return settings, nil
}
