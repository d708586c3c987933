// ABOUTME: Rolodex configuration stored at XDG paths
// ABOUTME: Layers defaults, the JSON config file, a .env file, and environment variables
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/caarlos0/env/v11"
	"github.com/charmbracelet/log"
	"github.com/harperreed/rolodex/db"
	"github.com/harperreed/rolodex/phone"
	"github.com/joho/godotenv"
)

// Config holds user settings. Environment variables win over the file.
type Config struct {
	DBPath        string `json:"db_path,omitempty" env:"ROLODEX_DB_PATH"`
	DefaultRegion string `json:"default_region" env:"ROLODEX_DEFAULT_REGION"`
	FoldUnmapped  bool   `json:"fold_unmapped" env:"ROLODEX_FOLD_UNMAPPED"`
	LogLevel      string `json:"log_level" env:"ROLODEX_LOG_LEVEL"`
}

// Dir returns XDG-compliant directory for rolodex configuration.
func Dir() string {
	return filepath.Join(xdg.ConfigHome, "rolodex")
}

// Path returns XDG-compliant path for the config file.
func Path() string {
	return filepath.Join(Dir(), "config.json")
}

func Defaults() *Config {
	return &Config{
		DefaultRegion: phone.DefaultRegion,
		FoldUnmapped:  true,
		LogLevel:      "info",
	}
}

// Load reads the config file at path (Path() when empty), then a .env file
// in the working directory, then the environment. Missing files are fine.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}

	cfg := Defaults()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the region and log level.
func (c *Config) Validate() error {
	region := strings.TrimSpace(c.DefaultRegion)
	if len(region) != 2 {
		return fmt.Errorf("invalid default region %q: want a two-letter country code", c.DefaultRegion)
	}
	c.DefaultRegion = strings.ToUpper(region)

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}

	return nil
}

// DatabasePath resolves the configured path, falling back to the XDG default.
func (c *Config) DatabasePath() string {
	if c.DBPath != "" {
		return c.DBPath
	}
	return db.DefaultPath()
}

// ApplyLogging sets the global logger level.
func (c *Config) ApplyLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// Save writes the config to path (Path() when empty) with restricted permissions.
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
