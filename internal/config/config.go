package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultBaseURL is used when no backend address is configured.
const DefaultBaseURL = "https://pharmacy-backend-production-b2b3.up.railway.app"

// Config defines client configuration.
type Config struct {
	API   APIConfig   `yaml:"api"`
	Store StoreConfig `yaml:"store"`
	Log   LogConfig   `yaml:"log"`
}

type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StoreConfig struct {
	Path string `yaml:"path"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		API: APIConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 15 * time.Second,
		},
		Store: StoreConfig{
			Path: "rxdash.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("RXDASH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if baseURL := os.Getenv("RXDASH_API_BASE_URL"); baseURL != "" {
		cfg.API.BaseURL = baseURL
	}
	if timeoutStr := os.Getenv("RXDASH_API_TIMEOUT"); timeoutStr != "" {
		timeout, err := time.ParseDuration(timeoutStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid RXDASH_API_TIMEOUT: %w", err)
		}
		cfg.API.Timeout = timeout
	}
	if storePath := os.Getenv("RXDASH_STORE_PATH"); storePath != "" {
		cfg.Store.Path = storePath
	}
	if level := os.Getenv("RXDASH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	cfg.API.BaseURL = NormalizeBaseURL(cfg.API.BaseURL)

	return cfg, nil
}

// NormalizeBaseURL strips trailing slashes and a trailing /api suffix so that
// endpoint paths (which all begin with /api) can be appended verbatim.
func NormalizeBaseURL(raw string) string {
	u := strings.TrimSpace(raw)
	if u == "" {
		return DefaultBaseURL
	}
	u = strings.TrimRight(u, "/")
	u = strings.TrimSuffix(u, "/api")
	u = strings.TrimRight(u, "/")
	if u == "" {
		return DefaultBaseURL
	}
	return u
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
