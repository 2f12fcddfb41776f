// Package config loads geosect settings from an optional TOML file.
//
// The file lives at ~/.config/geosect/config.toml and can be relocated with
// the GEOSECT_CONFIG environment variable. A missing file is not an error;
// every setting has a working default and CLI flags override file values.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/geosect/geosect/pkg/errors"
)

// EnvConfigPath overrides the config file location.
const EnvConfigPath = "GEOSECT_CONFIG"

// Config is the full settings file.
type Config struct {
	Oracle OracleConfig `toml:"oracle"`
	Cache  CacheConfig  `toml:"cache"`
	Store  StoreConfig  `toml:"store"`
	Render RenderConfig `toml:"render"`
}

// OracleConfig configures the extraction oracle.
type OracleConfig struct {
	// APIKeyEnv names the environment variable holding the API key.
	APIKeyEnv string `toml:"api_key_env"`

	// Model is the vision model identifier.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint.
	BaseURL string `toml:"base_url"`

	// RequestsPerMinute caps the client-side call rate.
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// CacheConfig selects and configures the cache backend.
type CacheConfig struct {
	// Backend is "file", "redis", or "none". Defaults to "file".
	Backend string `toml:"backend"`

	// Dir overrides the file cache directory.
	Dir string `toml:"dir"`

	// RedisAddr is the host:port for the redis backend.
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// StoreConfig configures run persistence.
type StoreConfig struct {
	// MongoURI enables the Mongo run store when set.
	MongoURI string `toml:"mongo_uri"`

	// Database defaults to "geosect".
	Database string `toml:"database"`
}

// RenderConfig holds rendering defaults.
type RenderConfig struct {
	// Title is the default chart title.
	Title string `toml:"title"`

	// Formats is the default output format list.
	Formats []string `toml:"formats"`
}

// Default returns the built-in settings used when no file is present.
func Default() Config {
	return Config{
		Oracle: OracleConfig{
			APIKeyEnv: "OPENAI_API_KEY",
		},
		Cache: CacheConfig{
			Backend: "file",
		},
	}
}

// Path returns the config file location, honoring GEOSECT_CONFIG.
func Path() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "geosect", "config.toml")
}

// Load reads the config file at Path. A missing file yields the defaults.
func Load() (Config, error) {
	return LoadFile(Path())
}

// LoadFile reads a specific config file. A missing or empty path yields the
// defaults; a malformed file is an error.
func LoadFile(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parsing %s", path)
	}
	return cfg, nil
}

// APIKey resolves the oracle API key from the configured environment
// variable.
func (c OracleConfig) APIKey() string {
	env := c.APIKeyEnv
	if env == "" {
		env = "OPENAI_API_KEY"
	}
	return os.Getenv(env)
}
