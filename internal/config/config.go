package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Tag is a preference rule: when Match occurs in a filename
// (case-insensitive) the file's preference score increases by Score.
// Preference decides which of several same-keyed source files is canonical.
type Tag struct {
	Match string `json:"match"`
	Score int    `json:"score"`
}

// Config holds the user-tunable settings for episync.
type Config struct {
	Tags             []Tag `json:"tags"`
	EnableLogging    bool  `json:"enable_logging"`
	LogRetentionDays int   `json:"log_retention_days"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Tags: []Tag{
			{Match: "4k", Score: 30},
			{Match: "1080p", Score: 20},
			{Match: "720p", Score: 10},
		},
		EnableLogging:    true,
		LogRetentionDays: 30,
	}
}

// Path returns the location of the config file.
func Path() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".episync", "config.json"), nil
}

// Load reads the configuration from disk. A missing file yields the
// defaults; a malformed file is an error. Fields absent from the file keep
// their default values, so a partial config does not silently disable
// logging.
func Load() (*Config, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if cfg.LogRetentionDays == 0 {
		cfg.LogRetentionDays = Default().LogRetentionDays
	}
	return cfg, nil
}

// Save writes the configuration to disk, creating the directory if needed.
func (cfg *Config) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
