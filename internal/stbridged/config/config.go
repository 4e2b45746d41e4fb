// Package config handles loading and validation of the daemon
// configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete daemon configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Broker    BrokerConfig    `yaml:"broker"`
	Metadata  MetadataConfig  `yaml:"metadata"`
	Household HouseholdConfig `yaml:"household"`
	RateLimit RateLimitConfig `yaml:"rateLimit"`
}

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// BrokerConfig holds the MQTT broker connection settings
type BrokerConfig struct {
	URL                string `yaml:"url"`
	Username           string `yaml:"username"`
	Password           string `yaml:"password"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

// MetadataConfig holds the listing service settings
type MetadataConfig struct {
	BaseURL  string        `yaml:"baseUrl"`
	Timeout  time.Duration `yaml:"timeout"`
	CacheTTL time.Duration `yaml:"cacheTtl"`
}

// HouseholdConfig identifies the household and its boxes
type HouseholdConfig struct {
	ID           string      `yaml:"id"`
	ClientID     string      `yaml:"clientId"`
	FriendlyName string      `yaml:"friendlyName"`
	Boxes        []BoxConfig `yaml:"boxes"`
}

// BoxConfig identifies one set-top box to track
type BoxConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// RateLimitConfig holds the API rate limiting settings
type RateLimitConfig struct {
	Enabled   bool   `yaml:"enabled"`
	RedisAddr string `yaml:"redisAddr"`
	RedisDB   int    `yaml:"redisDb"`
}

// Load reads configuration from the given path, applies environment
// variable overrides and defaults, and validates the result.
func Load(path string) (*Config, error) {
	config := defaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	config.applyEnv()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return config, nil
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Metadata: MetadataConfig{
			Timeout:  10 * time.Second,
			CacheTTL: 15 * time.Minute,
		},
		Household: HouseholdConfig{
			FriendlyName: "stbridge",
		},
		RateLimit: RateLimitConfig{
			RedisAddr: "localhost:6379",
		},
	}
}

// applyEnv overrides file values with STBRIDGE_* environment variables
func (c *Config) applyEnv() {
	if v := os.Getenv("STBRIDGE_SERVER_HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("STBRIDGE_SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("STBRIDGE_BROKER_URL"); v != "" {
		c.Broker.URL = v
	}
	if v := os.Getenv("STBRIDGE_BROKER_USERNAME"); v != "" {
		c.Broker.Username = v
	}
	if v := os.Getenv("STBRIDGE_BROKER_PASSWORD"); v != "" {
		c.Broker.Password = v
	}
	if v := os.Getenv("STBRIDGE_METADATA_URL"); v != "" {
		c.Metadata.BaseURL = v
	}
	if v := os.Getenv("STBRIDGE_HOUSEHOLD_ID"); v != "" {
		c.Household.ID = v
	}
	if v := os.Getenv("STBRIDGE_CLIENT_ID"); v != "" {
		c.Household.ClientID = v
	}
	if v := os.Getenv("STBRIDGE_REDIS_ADDR"); v != "" {
		c.RateLimit.RedisAddr = v
	}
}

// Validate checks that the configuration is complete enough to start
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Broker.URL == "" {
		return fmt.Errorf("broker.url is required")
	}
	if c.Metadata.BaseURL == "" {
		return fmt.Errorf("metadata.baseUrl is required")
	}
	if c.Household.ID == "" {
		return fmt.Errorf("household.id is required")
	}
	if len(c.Household.Boxes) == 0 {
		return fmt.Errorf("household.boxes must list at least one box")
	}
	for i, box := range c.Household.Boxes {
		if box.ID == "" {
			return fmt.Errorf("household.boxes[%d].id is required", i)
		}
	}
	if c.RateLimit.Enabled && c.RateLimit.RedisAddr == "" {
		return fmt.Errorf("rateLimit.redisAddr is required when rate limiting is enabled")
	}
	return nil
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
