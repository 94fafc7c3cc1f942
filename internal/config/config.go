// Package config loads the server configuration from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config is the top-level server configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `mapstructure:"listen_addr" yaml:"listen_addr"`

	// DBPath is the SQLite database file path.
	DBPath string `mapstructure:"db_path" yaml:"db_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `mapstructure:"log_format" yaml:"log_format"`

	// RequestTimeout bounds each request's store work.
	RequestTimeout time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`

	// TokenTTL is the session token lifetime.
	TokenTTL time.Duration `mapstructure:"token_ttl" yaml:"token_ttl"`

	// TokenSecret signs session tokens. When blank, a secret is loaded
	// from (or generated into) the system keyring at startup.
	TokenSecret string `mapstructure:"token_secret" yaml:"token_secret"`

	// BcryptCost is the cost for newly hashed passwords.
	BcryptCost int `mapstructure:"bcrypt_cost" yaml:"bcrypt_cost"`
}

// DefaultConfigPath returns the default path for the configuration
// file, located at ~/.config/taskhub/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "taskhub", "config.yaml")
}

// defaultConfig returns a sensible default configuration.
func defaultConfig() *Config {
	return &Config{
		ListenAddr:     ":8080",
		DBPath:         filepath.Join(".", "taskhub.db"),
		LogLevel:       "info",
		LogFormat:      "text",
		RequestTimeout: 10 * time.Second,
		TokenTTL:       7 * 24 * time.Hour,
		BcryptCost:     12,
	}
}

// Load reads configuration from the given YAML file path using Viper.
// If the file does not exist, it returns a default configuration.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	// Set defaults so missing keys resolve to sensible values.
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("db_path", "taskhub.db")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("request_timeout", "10s")
	v.SetDefault("token_ttl", "168h")
	v.SetDefault("bcrypt_cost", 12)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); ok {
			return defaultConfig(), nil
		}
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return defaultConfig(), nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	cfg := defaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, nil
}
