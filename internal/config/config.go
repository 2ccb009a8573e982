// Package config loads the terminal configuration from layered sources:
// built-in defaults, an optional YAML file, then PARKING_* environment
// variables. Later layers override earlier ones.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, first match wins
var DefaultConfigPaths = []string{
	"parking-terminal.yaml",
	"parking-terminal.yml",
}

// envPrefix namespaces the environment overrides, e.g. PARKING_BACKEND_URL
const envPrefix = "PARKING_"

// Config is the full terminal configuration
type Config struct {
	Backend  BackendConfig  `koanf:"backend"`
	Location LocationConfig `koanf:"location"`
	UI       UIConfig       `koanf:"ui"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// BackendConfig points the terminal at the availability backend
type BackendConfig struct {
	URL     string        `koanf:"url"`
	Timeout time.Duration `koanf:"timeout"`
}

// LocationConfig controls how the terminal's position is resolved
type LocationConfig struct {
	// Mode is "ip" for IP geolocation or "static" for fixed coordinates
	Mode            string        `koanf:"mode"`
	Latitude        float64       `koanf:"latitude"`
	Longitude       float64       `koanf:"longitude"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// UIConfig holds display preferences
type UIConfig struct {
	Theme           string        `koanf:"theme"`
	RefreshInterval time.Duration `koanf:"refresh_interval"`
}

// LoggingConfig controls the diagnostic log
type LoggingConfig struct {
	Level string `koanf:"level"`
	Path  string `koanf:"path"`
}

func defaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			URL:     "http://localhost:8000",
			Timeout: 15 * time.Second,
		},
		Location: LocationConfig{
			Mode:            "ip",
			RefreshInterval: 5 * time.Minute,
		},
		UI: UIConfig{
			Theme:           "system",
			RefreshInterval: 30 * time.Second,
		},
		Logging: LoggingConfig{
			Level: "info",
			Path:  "data/parking-terminal.log",
		},
	}
}

// Load builds the configuration. path overrides the default config file
// search when non-empty; a missing explicit path is an error, a missing
// default path is not.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("loading defaults: %w", err)
	}

	explicit := path != ""
	if !explicit {
		path = findConfigFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if explicit || !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("loading config file %s: %w", path, err)
			}
		}
	}

	// PARKING_BACKEND_URL -> backend.url
	envProvider := env.Provider(envPrefix, ".", func(key string) string {
		key = strings.TrimPrefix(key, envPrefix)
		key = strings.ToLower(key)
		return strings.Replace(key, "_", ".", 1)
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling configuration: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

func (c *Config) validate() error {
	if c.Backend.URL == "" {
		return fmt.Errorf("backend.url must not be empty")
	}
	if c.Backend.Timeout <= 0 {
		return fmt.Errorf("backend.timeout must be positive, got %v", c.Backend.Timeout)
	}
	switch c.Location.Mode {
	case "ip", "static":
	default:
		return fmt.Errorf("location.mode must be ip or static, got %q", c.Location.Mode)
	}
	switch c.UI.Theme {
	case "light", "dark", "system":
	default:
		return fmt.Errorf("ui.theme must be light, dark or system, got %q", c.UI.Theme)
	}
	return nil
}
