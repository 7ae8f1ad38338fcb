/*
Package config handles loading, saving, and validating toolscout-mcp
configuration.

Configuration is stored in ~/.toolscout-mcp.json:

  {
    "servers": {
      "serverName": {
        "command": "npx",
        "args": ["-y", "@package/name"],
        "env": {"KEY": "value"},
        "source": "manual"
      }
    },
    "settings": {
      "threshold": 0.3,
      "limit": 10,
      "disableSynonyms": false,
      "timeoutSeconds": 30
    }
  }

The servers map drives catalog discovery; the settings block provides the
default search options used by the serve and search commands.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Default search settings, applied when the settings block omits a value.
const (
	DefaultThreshold      = 0.3
	DefaultLimit          = 10
	DefaultTimeoutSeconds = 30
)

// Config is the root configuration structure.
type Config struct {
	// Servers maps server names (camelCase) to their configurations.
	Servers map[string]*ServerConfig `json:"servers"`

	// Settings contains global search options.
	Settings *Settings `json:"settings,omitempty"`
}

// ServerConfig describes how to spawn one MCP server for discovery.
type ServerConfig struct {
	// Command is the executable to run (e.g., "npx", "/path/to/binary").
	Command string `json:"command"`

	// Args are the command-line arguments.
	Args []string `json:"args,omitempty"`

	// Env contains environment variables for the server.
	Env map[string]string `json:"env,omitempty"`

	// Source indicates how this config was added (e.g., "manual").
	Source string `json:"source,omitempty"`
}

// Settings contains the default search options.
type Settings struct {
	// Threshold is the minimum inclusive relevance score for results.
	Threshold float64 `json:"threshold,omitempty"`

	// Limit is the maximum number of search results.
	Limit int `json:"limit,omitempty"`

	// DisableSynonyms turns off query expansion. Expansion is on by
	// default, so the zero value keeps it enabled.
	DisableSynonyms bool `json:"disableSynonyms,omitempty"`

	// TimeoutSeconds is the default timeout for MCP discovery operations.
	TimeoutSeconds int `json:"timeoutSeconds,omitempty"`
}

// NewConfig creates an empty configuration with default settings.
func NewConfig() *Config {
	return &Config{
		Servers: make(map[string]*ServerConfig),
		Settings: &Settings{
			Threshold:      DefaultThreshold,
			Limit:          DefaultLimit,
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
	}
}

// Threshold returns the configured score threshold or the default.
func (c *Config) Threshold() float64 {
	if c.Settings == nil || c.Settings.Threshold <= 0 {
		return DefaultThreshold
	}
	return c.Settings.Threshold
}

// Limit returns the configured result limit or the default.
func (c *Config) Limit() int {
	if c.Settings == nil || c.Settings.Limit <= 0 {
		return DefaultLimit
	}
	return c.Settings.Limit
}

// SynonymsEnabled reports whether query expansion should run.
func (c *Config) SynonymsEnabled() bool {
	return c.Settings == nil || !c.Settings.DisableSynonyms
}

// GetDefaultConfigPath returns the path to ~/.toolscout-mcp.json.
func GetDefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".toolscout-mcp.json"), nil
}

// Load reads the configuration from the default path.
func Load() (*Config, error) {
	configPath, err := GetDefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFrom(configPath)
}

// LoadOrCreate loads the configuration, falling back to an empty default
// config when the file does not exist yet.
func LoadOrCreate() (*Config, error) {
	cfg, err := Load()
	if err != nil {
		if _, ok := err.(*ConfigNotFoundError); ok {
			return NewConfig(), nil
		}
		return nil, err
	}
	return cfg, nil
}
