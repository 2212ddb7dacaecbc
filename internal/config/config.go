// Package config handles reading and writing the gearcalc configuration file (~/.gearcalc/config.toml).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/scbrown/gearcalc/internal/gear"
	"github.com/scbrown/gearcalc/internal/logging"
)

// DefaultOutput is where export writes the JSON catalog when no path is given.
const DefaultOutput = "gear_trains.json"

// Config holds gearcalc configuration settings.
type Config struct {
	DBPath        string   `toml:"db_path,omitempty" json:"db_path,omitempty"`
	Gears         []string `toml:"gears,omitempty" json:"gears,omitempty"`
	MinGears      int      `toml:"min_gears,omitempty" json:"min_gears,omitempty"`
	MaxGears      int      `toml:"max_gears,omitempty" json:"max_gears,omitempty"`
	DefaultFormat string   `toml:"default_format,omitempty" json:"default_format,omitempty"`
	StoreMode     string   `toml:"store_mode,omitempty" json:"store_mode,omitempty"`
	RemoteURL     string   `toml:"remote_url,omitempty" json:"remote_url,omitempty"`
	Output        string   `toml:"output,omitempty" json:"output,omitempty"`
	LogLevel      string   `toml:"log_level,omitempty" json:"log_level,omitempty"`
}

// validKeys lists the allowed configuration keys.
var validKeys = map[string]bool{
	"db_path":        true,
	"gears":          true,
	"min_gears":      true,
	"max_gears":      true,
	"default_format": true,
	"store_mode":     true,
	"remote_url":     true,
	"output":         true,
	"log_level":      true,
}

// ValidKeys returns the sorted list of valid configuration keys.
func ValidKeys() []string {
	return []string{"db_path", "default_format", "gears", "log_level", "max_gears", "min_gears", "output", "remote_url", "store_mode"}
}

// Path returns the default config file path (~/.gearcalc/config.toml).
func Path() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", ".gearcalc", "config.toml")
	}
	return filepath.Join(home, ".gearcalc", "config.toml")
}

// LoadFrom reads the config from a specific path. Returns an empty Config if
// the file does not exist. Supports both TOML and JSON formats (detected by
// file extension; defaults to TOML).
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(data, &cfg)
	} else {
		err = toml.Unmarshal(data, &cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// SaveTo writes the config to a specific path, creating parent directories as needed.
// Writes TOML format regardless of file extension.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Get returns the string value of a configuration key.
func (c *Config) Get(key string) (string, error) {
	if !validKeys[key] {
		return "", fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		return c.DBPath, nil
	case "gears":
		return strings.Join(c.Gears, ","), nil
	case "min_gears":
		return formatInt(c.MinGears), nil
	case "max_gears":
		return formatInt(c.MaxGears), nil
	case "default_format":
		return c.DefaultFormat, nil
	case "store_mode":
		return c.StoreMode, nil
	case "remote_url":
		return c.RemoteURL, nil
	case "output":
		return c.Output, nil
	case "log_level":
		return c.LogLevel, nil
	default:
		return "", fmt.Errorf("unknown config key %q", key)
	}
}

// Set assigns a value to a configuration key.
func (c *Config) Set(key, value string) error {
	if !validKeys[key] {
		return fmt.Errorf("unknown config key %q (valid keys: %s)", key, strings.Join(ValidKeys(), ", "))
	}
	switch key {
	case "db_path":
		c.DBPath = value
	case "gears":
		if value == "" {
			c.Gears = nil
			return nil
		}
		parts := strings.Split(value, ",")
		cat, err := gear.ParseCatalog(parts)
		if err != nil {
			return fmt.Errorf("gears: %w", err)
		}
		c.Gears = cat.Strings()
	case "min_gears", "max_gears":
		n, err := parseGearCount(key, value)
		if err != nil {
			return err
		}
		if key == "min_gears" {
			c.MinGears = n
		} else {
			c.MaxGears = n
		}
	case "default_format":
		if value != "" && value != "text" && value != "json" {
			return fmt.Errorf("default_format must be \"text\" or \"json\", got %q", value)
		}
		c.DefaultFormat = value
	case "store_mode":
		if value != "" && value != "local" && value != "remote" {
			return fmt.Errorf("store_mode must be \"local\" or \"remote\", got %q", value)
		}
		c.StoreMode = value
	case "remote_url":
		c.RemoteURL = value
	case "output":
		c.Output = value
	case "log_level":
		if _, err := logging.ParseLevel(value); err != nil {
			return err
		}
		c.LogLevel = value
	}
	return nil
}

func formatInt(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

// parseGearCount parses a train length setting. Empty resets to the default.
func parseGearCount(key, value string) (int, error) {
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %q", key, value)
	}
	if n < 2 || n%2 != 0 {
		return 0, fmt.Errorf("%s must be an even number of at least 2, got %d", key, n)
	}
	return n, nil
}
