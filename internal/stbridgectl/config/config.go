// Package config provides configuration management for the stbridge CLI
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds the CLI configuration
type Config struct {
	// Server is the stbridged API URL
	Server string `mapstructure:"server"`
}

// defaultConfigPath returns the default config file path
func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".stbridgectl/config.yaml"
	}
	return filepath.Join(home, ".stbridgectl/config.yaml")
}

// Load reads the CLI configuration from the given path, falling back
// to STBRIDGECTL_CONFIG and the default location. A missing file is
// not an error; defaults and environment variables still apply.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv("STBRIDGECTL_CONFIG")
	}
	if path == "" {
		path = defaultConfigPath()
	}

	v := viper.New()
	v.SetDefault("server", "http://localhost:8080")

	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.SetEnvPrefix("STBRIDGECTL")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, fmt.Errorf("error reading config: %w", err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return &config, nil
}
