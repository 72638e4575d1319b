// Package config handles the application configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "sqlite-viewer"

// Config represents the application configuration.
type Config struct {
	// StoreFile is the JSON file holding saved databases.
	StoreFile string `yaml:"store_file"`

	// DataDir holds the history database and the log file.
	DataDir string `yaml:"data_dir"`

	// RowLimit is how many rows are loaded when a table is opened.
	RowLimit int `yaml:"row_limit"`

	// PageSize fixes the rows per page. 0 fits the page to the terminal.
	PageSize int `yaml:"page_size"`

	// ReadOnly opens every database read-only.
	ReadOnly bool `yaml:"read_only"`

	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`

	path string
}

// HistoryConfig controls the query history.
type HistoryConfig struct {
	Enabled    bool `yaml:"enabled"`
	MaxEntries int  `yaml:"max_entries"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
	// File overrides the log file used in full-screen mode.
	File string `yaml:"file"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	dir := defaultDir()
	return &Config{
		StoreFile: filepath.Join(dir, "db_config.json"),
		DataDir:   dir,
		RowLimit:  1000,
		PageSize:  0,
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 1000,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultPath returns where the config file is looked for when no path is
// given.
func DefaultPath() string {
	return filepath.Join(defaultDir(), "config.yaml")
}

func defaultDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, appName)
	}
	return "." + appName
}

// Load reads and parses a configuration file.
func Load(path string) (*Config, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	cfg.path = absPath

	cfg.expand()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads path, falling back to defaults when the file does not
// exist. An empty path means DefaultPath.
func LoadOrDefault(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	cfg, err := Load(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}

// Path returns the path to the config file, or "" for built-in defaults.
func (c *Config) Path() string {
	return c.path
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.RowLimit < 0 {
		return fmt.Errorf("row_limit must not be negative, got %d", c.RowLimit)
	}
	if c.PageSize < 0 {
		return fmt.Errorf("page_size must not be negative, got %d", c.PageSize)
	}
	if c.History.MaxEntries < 0 {
		return fmt.Errorf("history.max_entries must not be negative, got %d", c.History.MaxEntries)
	}
	if c.StoreFile == "" {
		return errors.New("store_file must not be empty")
	}
	return nil
}

// LogFile returns the log file used in full-screen mode.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, appName+".log")
}

// expand resolves environment variables and "~" in path settings.
func (c *Config) expand() {
	c.StoreFile = expandPath(c.StoreFile)
	c.DataDir = expandPath(c.DataDir)
	c.Log.File = expandPath(c.Log.File)
}

func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
