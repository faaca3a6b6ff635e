// Package config loads coach settings from ~/.coach/config.yaml with
// environment overrides. Missing files fall back to usable defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Defaults.
const (
	DefaultServiceURL = "http://localhost:8000"
	DefaultAddr       = ":8000"
)

// Config holds client and server settings.
type Config struct {
	// ServiceURL is where the TUI reaches the plan service.
	ServiceURL string `yaml:"service_url"`
	// DataDir holds the SQLite database and the cached session token.
	DataDir string `yaml:"data_dir"`

	Server ServerConfig `yaml:"server"`
}

// ServerConfig configures `coach serve`.
type ServerConfig struct {
	Addr  string `yaml:"addr"`
	Model string `yaml:"model"` // Gemini model name; empty means the planner default
}

// Dir returns the coach home directory (~/.coach).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, ".coach"), nil
}

// Load reads dir/config.yaml, applies defaults, then env overrides. A
// missing file is not an error.
func Load(dir string) (*Config, error) {
	cfg := &Config{
		ServiceURL: DefaultServiceURL,
		DataDir:    dir,
		Server:     ServerConfig{Addr: DefaultAddr},
	}

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	if err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config.yaml: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if cfg.ServiceURL == "" {
		cfg.ServiceURL = DefaultServiceURL
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dir
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = DefaultAddr
	}

	if v := os.Getenv("COACH_SERVICE_URL"); v != "" {
		cfg.ServiceURL = v
	}
	if v := os.Getenv("COACH_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	return cfg, nil
}

// GeminiAPIKey reads the model API key from the environment. It is never
// stored in the config file.
func GeminiAPIKey() string {
	return os.Getenv("GEMINI_API_KEY")
}
