// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package mcpserver

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/H0llyW00dzZ/mcp-pattern-server/src/dispatch"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/logger"
	"github.com/H0llyW00dzZ/mcp-pattern-server/src/search"
	"gopkg.in/yaml.v3"
)

// Environment variables read by loadConfig.
const (
	EnvConfigFile = "MCP_PATTERN_CONFIG_FILE"
	EnvLogLevel   = "PATTERN_LOG_LEVEL"
)

// Log formats accepted in logging.format.
const (
	LogFormatText   = "text"
	LogFormatJSON   = "json"
	LogFormatSilent = "silent"
)

// configFormat represents supported configuration file formats.
type configFormat int

const (
	// configFormatJSON represents JSON configuration format (.json)
	configFormatJSON configFormat = iota
	// configFormatYAML represents YAML configuration format (.yaml, .yml)
	configFormatYAML
)

// Config represents the pattern server configuration.
//
// The configuration can be loaded from a JSON or YAML file given by --config
// or the MCP_PATTERN_CONFIG_FILE environment variable, with defaults applied
// for any missing values. Supported file extensions: .json, .yaml, .yml
type Config struct {
	// Server identifies this server profile to MCP clients.
	Server struct {
		// Name: Server name reported during initialization
		Name string `json:"name" yaml:"name"`
		// Scheme: URI scheme of pattern resources
		Scheme string `json:"scheme" yaml:"scheme"`
	} `json:"server" yaml:"server"`

	// Catalog selects where patterns are loaded from.
	Catalog struct {
		// Directory: Load from this directory instead of the embedded catalog
		Directory string `json:"directory,omitempty" yaml:"directory,omitempty"`
		// Groups: Resource groups to load, in order; empty loads every group
		Groups []string `json:"groups,omitempty" yaml:"groups,omitempty"`
		// Manifest: Manifest path relative to the catalog root
		Manifest string `json:"manifest,omitempty" yaml:"manifest,omitempty"`
	} `json:"catalog" yaml:"catalog"`

	// Search tunes search_patterns.
	Search struct {
		// DefaultLimit: Results returned when the caller gives no limit
		DefaultLimit int `json:"defaultLimit" yaml:"defaultLimit"`
		// CacheSize: Cached queries; zero disables the cache
		CacheSize int `json:"cacheSize" yaml:"cacheSize"`
	} `json:"search" yaml:"search"`

	// Logging configures diagnostics written to stderr.
	Logging struct {
		// Level: debug, info, warn or error
		Level string `json:"level" yaml:"level"`
		// Format: text, json or silent
		Format string `json:"format" yaml:"format"`
	} `json:"logging" yaml:"logging"`
}

// defaultConfig returns a Config with every default applied.
func defaultConfig() *Config {
	config := &Config{}
	config.Server.Name = dispatch.DefaultServerName
	config.Server.Scheme = dispatch.DefaultScheme
	config.Search.DefaultLimit = dispatch.DefaultSearchLimit
	config.Search.CacheSize = search.DefaultCacheSize
	config.Logging.Level = logger.LevelInfo.String()
	config.Logging.Format = LogFormatText
	return config
}

// detectConfigFormat determines the configuration file format based on file
// extension, case-insensitively.
func detectConfigFormat(configPath string) configFormat {
	ext := strings.ToLower(filepath.Ext(configPath))
	switch ext {
	case ".yaml", ".yml":
		return configFormatYAML
	default:
		return configFormatJSON
	}
}

// unmarshalConfig unmarshals configuration data based on the specified format.
func unmarshalConfig(data []byte, config *Config, format configFormat) error {
	switch format {
	case configFormatYAML:
		if err := yaml.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse YAML config file: %w", err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return fmt.Errorf("failed to parse JSON config file: %w", err)
		}
	}
	return nil
}

// loadConfig loads the server configuration from a JSON or YAML file or
// applies defaults.
//
// Parameters:
//   - configPath: Path to the configuration file (optional, can be empty)
//     Supported formats: .json, .yaml, .yml
//
// Returns:
//   - A pointer to the loaded Config struct with defaults applied
//   - An error if the configuration file cannot be read or parsed, or holds
//     an invalid value
//
// Configuration Priority:
//  1. Default values are set
//  2. MCP_PATTERN_CONFIG_FILE environment variable is checked if configPath is empty
//  3. Config file values override defaults (if file exists and is valid)
//  4. PATTERN_LOG_LEVEL overrides logging.level
func loadConfig(configPath string) (*Config, error) {
	config := defaultConfig()

	if configPath == "" {
		configPath = os.Getenv(EnvConfigFile)
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := unmarshalConfig(data, config, detectConfigFormat(configPath)); err != nil {
			return nil, err
		}

		// Zero values from a partial file fall back to defaults.
		if config.Server.Name == "" {
			config.Server.Name = dispatch.DefaultServerName
		}
		if config.Server.Scheme == "" {
			config.Server.Scheme = dispatch.DefaultScheme
		}
		if config.Search.DefaultLimit <= 0 {
			config.Search.DefaultLimit = dispatch.DefaultSearchLimit
		}
		if config.Search.CacheSize < 0 {
			config.Search.CacheSize = 0
		}
		if config.Logging.Format == "" {
			config.Logging.Format = LogFormatText
		}
		if config.Logging.Level == "" {
			config.Logging.Level = logger.LevelInfo.String()
		}
	}

	if level := os.Getenv(EnvLogLevel); level != "" {
		config.Logging.Level = level
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// validate rejects values that would otherwise fail later with a less
// helpful error.
func (c *Config) validate() error {
	if _, err := logger.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid logging.level: %w", err)
	}
	switch c.Logging.Format {
	case LogFormatText, LogFormatJSON, LogFormatSilent:
	default:
		return fmt.Errorf("invalid logging.format %q (expected text, json or silent)", c.Logging.Format)
	}
	return nil
}
