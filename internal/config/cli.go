package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const cliConfigName = ".findmyspace.yaml"

// CLI is the fmsctl configuration file.
type CLI struct {
	Server     string `yaml:"server"`
	Token      string `yaml:"token,omitempty"`
	UserID     int64  `yaml:"user_id,omitempty"`
	CachePath  string `yaml:"cache_path"`
	Geocoder   string `yaml:"geocoder"`
	UserAgent  string `yaml:"user_agent"`
	CanvasSize int    `yaml:"canvas_size"`
	SlotSize   int    `yaml:"slot_size"`
}

// DefaultCLIPath returns ~/.findmyspace.yaml.
func DefaultCLIPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, cliConfigName), nil
}

func DefaultCLI(path string) *CLI {
	return &CLI{
		Server:     "http://localhost:8080",
		CachePath:  filepath.Join(filepath.Dir(path), ".findmyspace-cache.db"),
		Geocoder:   "https://nominatim.openstreetmap.org",
		UserAgent:  "fmsctl",
		CanvasSize: 600,
		SlotSize:   40,
	}
}

// LoadCLI reads path. A missing file yields the defaults.
func LoadCLI(path string) (*CLI, error) {
	cfg := DefaultCLI(path)
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.CanvasSize <= cfg.SlotSize || cfg.SlotSize <= 0 {
		return nil, fmt.Errorf("%s: canvas_size must be larger than slot_size", path)
	}
	return cfg, nil
}

// Save writes the configuration with owner-only permissions since it holds the session token.
func (c *CLI) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
