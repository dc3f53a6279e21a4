package app

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
)

// DefaultSelectorsFile is looked up in the project directory when no
// selectors file is configured.
const DefaultSelectorsFile = "selectors.yml"

var (
	logLevels  = []string{"debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	ProjectDir string // hcl manifest files
	// SelectorsPath is optional. When empty the default selectors file in
	// ProjectDir is used if it exists.
	SelectorsPath string

	LogFormat   string
	LogLevel    string
	WorkerCount int
}

// NewConfig validates cfg and returns a copy.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ProjectDir == "" {
		return nil, errors.New("ProjectDir is a required configuration field and cannot be empty")
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("invalid log-level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.LogLevel)
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if !slices.Contains(logFormats, cfg.LogFormat) {
		return nil, fmt.Errorf("invalid log-format %q: must be 'text' or 'json'", cfg.LogFormat)
	}
	if cfg.WorkerCount < 0 {
		return nil, fmt.Errorf("invalid workers %d: must not be negative", cfg.WorkerCount)
	}
	return &cfg, nil
}

// selectorsFile returns the selectors file to load and whether it was
// configured explicitly.
func (c *Config) selectorsFile() (string, bool) {
	if c.SelectorsPath != "" {
		return c.SelectorsPath, true
	}
	return filepath.Join(c.ProjectDir, DefaultSelectorsFile), false
}
