// Package config loads and saves the user configuration file.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/ShotaTanemura/TermiGroove/internal/tempo"
)

// Config is the persisted user configuration.
type Config struct {
	DefaultBPM  uint16 `json:"defaultBpm,omitempty"`
	DefaultBars uint16 `json:"defaultBars,omitempty"`
	// StartDir is where the file browser opens; empty means the home directory.
	StartDir string `json:"startDir,omitempty"`
	// MasterVolume is in beep volume units: 0 is unity gain, negative is quieter.
	MasterVolume float64 `json:"masterVolume"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		DefaultBPM:  120,
		DefaultBars: 16,
	}
}

// Dir returns the config directory path.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "termigroove"), nil
}

// Path returns the full path to config.json.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config file, falling back to defaults when it is missing or
// unreadable. Loaded values are clamped to the valid tempo ranges.
func Load() *Config {
	cfg := DefaultConfig()

	path, err := Path()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig()
	}

	cfg.DefaultBPM = tempo.ClampBPM(cfg.DefaultBPM)
	cfg.DefaultBars = tempo.ClampBars(cfg.DefaultBars)
	return cfg
}

// Save writes the config file, creating the directory if needed.
func (c *Config) Save() error {
	dir, err := Dir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	path, err := Path()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
