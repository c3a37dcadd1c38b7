// Package config handles configuration for casesheet.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the home directory.
const FileName = "config.yaml"

// Config represents casesheet's config.yaml.
type Config struct {
	// Local UI address
	Listen string `yaml:"listen" validate:"required,hostname_port"`

	Store  StoreConfig  `yaml:"store"`
	Report ReportConfig `yaml:"report"`

	// Diagnostic log file; empty means <home>/casesheet.log
	LogFile string `yaml:"logFile"`
}

// StoreConfig selects the key-value store backend.
type StoreConfig struct {
	Backend string `yaml:"backend" validate:"omitempty,oneof=file badger memory"`
	Path    string `yaml:"path"` // File (file) or directory (badger); empty means inside home
}

// ReportConfig controls the exported HTML report.
type ReportConfig struct {
	Title    string `yaml:"title"`
	FileName string `yaml:"fileName" validate:"omitempty,endswith=.html"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Listen: "127.0.0.1:8765",
		Store: StoreConfig{
			Backend: "file",
		},
		Report: ReportConfig{
			Title:    "Test Execution Report",
			FileName: "TestExecutionReport.html",
		},
	}
}

// Load loads configuration from a file, on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- user-provided config file
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return cfg, nil
}

// LoadFromDir loads config.yaml from dir, or the defaults if it is absent.
func LoadFromDir(dir string) (*Config, error) {
	configPath := filepath.Join(dir, FileName)
	if _, err := os.Stat(configPath); err == nil {
		return Load(configPath)
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	return Default(), nil
}

var validate = validator.New()

// Validate checks field constraints.
func (c *Config) Validate() error {
	return validate.Struct(c)
}

// StorePath returns the configured store location, defaulting to a path
// inside home that matches the backend.
func (c *Config) StorePath(home string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	if c.Store.Backend == "badger" {
		return filepath.Join(home, "store")
	}
	return filepath.Join(home, "store.json")
}

// LogPath returns the configured log file, defaulting to <home>/casesheet.log.
func (c *Config) LogPath(home string) string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return filepath.Join(home, "casesheet.log")
}
