// Package config loads runtime configuration for formflow front ends from a
// YAML file and FORMFLOW_* environment variables.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds everything a formflow front end needs to talk to the backend.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Session SessionConfig `mapstructure:"session"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// APIConfig holds backend connection settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig holds credential handling settings.
type SessionConfig struct {
	// Token is the bearer credential presented on authenticated endpoints.
	// Usually supplied via FORMFLOW_SESSION_TOKEN rather than the file.
	Token string `mapstructure:"token"`

	// ExpiryLeeway widens the token expiry check to absorb clock skew.
	ExpiryLeeway time.Duration `mapstructure:"expiry_leeway"`
}

// LoggerConfig holds logging settings.
type LoggerConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file, environment variables, and
// defaults, in ascending precedence of default < file < environment. An empty
// path skips the file and relies on environment and defaults alone.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FORMFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("session.expiry_leeway", 30*time.Second)
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	}

	// AutomaticEnv resolves keys lazily, so each key the struct expects is
	// bound explicitly before unmarshalling.
	for _, key := range []string{
		"api.base_url", "api.timeout",
		"session.token", "session.expiry_leeway",
		"logger.level", "logger.format",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("config: bind %s: %w", key, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values for contradictions.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("config: api.base_url is required (set FORMFLOW_API_BASE_URL or the config file)")
	}
	if c.API.Timeout <= 0 {
		return fmt.Errorf("config: api.timeout must be positive, got %s", c.API.Timeout)
	}
	switch c.Logger.Format {
	case "console", "json":
	default:
		return fmt.Errorf("config: logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
