// Package config provides configuration loading and structs for the jobtailor server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug     bool            `yaml:"debug"`
	Server    ServerConfig    `yaml:"server"`
	Storage   StorageConfig   `yaml:"storage"`
	Adapter   AdapterConfig   `yaml:"adapter"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Analytics AnalyticsConfig `yaml:"analytics"`
}

// ServerConfig holds HTTP server settings. APIKeysEnv names the
// environment variable holding the comma-separated accepted API keys; an
// empty resolved set disables authentication for local use.
type ServerConfig struct {
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	APIKeysEnv string `yaml:"api_keys_env"`
}

// APIKeys resolves the accepted client keys from the environment, after
// loading a .env file when one is present.
func (s *ServerConfig) APIKeys() []string {
	_ = godotenv.Load()
	var keys []string
	for _, k := range strings.Split(os.Getenv(s.APIKeysEnv), ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	return keys
}

// StorageConfig holds the database path.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// AdapterConfig holds settings for the external extraction/generation
// capability. The API key itself never lives in the config file; APIKeyEnv
// names the environment variable that carries it.
type AdapterConfig struct {
	Endpoint       string        `yaml:"endpoint"`
	APIKeyEnv      string        `yaml:"api_key_env"`
	Model          string        `yaml:"model"`
	Timeout        time.Duration `yaml:"timeout"`
	MaxRetries     int           `yaml:"max_retries"`
	RetryBackoff   time.Duration `yaml:"retry_backoff"`
	MaxInputBytes  int           `yaml:"max_input_bytes"`
	ExtractionTemp float32       `yaml:"extraction_temperature"`
	GenerationTemp float32       `yaml:"generation_temperature"`
}

// APIKey resolves the adapter credential from the environment, after
// loading a .env file when one is present.
func (a *AdapterConfig) APIKey() string {
	_ = godotenv.Load()
	return strings.TrimSpace(os.Getenv(a.APIKeyEnv))
}

// RateLimitConfig holds the per-caller request quota.
type RateLimitConfig struct {
	Window time.Duration `yaml:"window"`
	Quota  int           `yaml:"quota"`
}

// AnalyticsConfig holds default aggregation settings.
type AnalyticsConfig struct {
	DefaultWindowDays int `yaml:"default_window_days"`
	RecentLimit       int `yaml:"recent_limit"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
