// Package config handles configuration loading and validation for taskboard.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
)

// Config holds the application configuration.
type Config struct {
	Store    StoreConfig    `yaml:"store"`
	Workload WorkloadConfig `yaml:"workload"`
	Presets  PresetConfig   `yaml:"presets"`
	Watch    bool           `yaml:"watch"`
	DataDir  string         `yaml:"-"` // set by caller, not from config file
}

// StoreConfig selects and configures the task backing store.
type StoreConfig struct {
	// Driver is one of memory, file, sqlite.
	Driver string `yaml:"driver"`
	// BoardFile is the JSON board path for the file driver; also the save
	// target for the memory driver.
	BoardFile string `yaml:"board_file"`
	// Database is the SQLite path for the sqlite driver.
	Database string `yaml:"database"`
}

// WorkloadConfig tunes the heavy-workload highlight.
type WorkloadConfig struct {
	InProgressKeywords []string `yaml:"in_progress_keywords"`
	HighlightThreshold int      `yaml:"highlight_threshold"`
}

// PresetConfig configures where filter presets persist.
type PresetConfig struct {
	// File is the preset blob path. Empty means in-memory only.
	File string `yaml:"file"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Store: StoreConfig{Driver: DriverMemory},
		Watch: true,
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided
// dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	if c.Store.Driver == "" {
		c.Store.Driver = DriverMemory
	}
	if c.Store.BoardFile == "" && c.DataDir != "" {
		c.Store.BoardFile = filepath.Join(c.DataDir, "board.json")
	}
	if c.Store.Database == "" && c.DataDir != "" {
		c.Store.Database = filepath.Join(c.DataDir, "taskboard.db")
	}
	if c.Presets.File == "" && c.DataDir != "" {
		c.Presets.File = filepath.Join(c.DataDir, "presets.json")
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("store.driver must be one of memory, file, sqlite; got %q", c.Store.Driver)
	}

	if c.Store.Driver == DriverFile && c.Store.BoardFile == "" {
		return fmt.Errorf("store.board_file is required for the file driver")
	}
	if c.Store.Driver == DriverSQLite && c.Store.Database == "" {
		return fmt.Errorf("store.database is required for the sqlite driver")
	}

	if c.Workload.HighlightThreshold < 0 {
		return fmt.Errorf("workload.highlight_threshold cannot be negative")
	}

	return nil
}
