package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config stores persistent isetool settings.
type Config struct {
	// PreferenceFile overrides the ISE preference file location.
	PreferenceFile string `yaml:"preference_file,omitempty"`
	// LogLevel is one of debug, info, warn or error.
	LogLevel string `yaml:"log_level,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{LogLevel: "warn"}
}

// DefaultPath returns the path to the config file
func DefaultPath() (string, error) {
	var configDir string
	// Use platform-appropriate config directory
	switch {
	case os.Getenv("APPDATA") != "":
		// Windows: use %APPDATA%\isetool
		configDir = filepath.Join(os.Getenv("APPDATA"), "isetool")
	case os.Getenv("XDG_CONFIG_HOME") != "":
		configDir = filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "isetool")
	default:
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		// Linux/macOS: use ~/.config/isetool
		configDir = filepath.Join(homeDir, ".config", "isetool")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// Load reads the configuration at path. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path, creating its directory.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Level converts LogLevel to a slog level.
func (c *Config) Level() (slog.Level, error) {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("config: unknown log level %q", c.LogLevel)
	}
}
