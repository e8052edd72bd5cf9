package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.APIKeysEnv == "" {
		cfg.Server.APIKeysEnv = "JOBTAILOR_API_KEYS"
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/jobtailor/data/jobtailor.db"
	}
	if cfg.Adapter.APIKeyEnv == "" {
		cfg.Adapter.APIKeyEnv = "GEMINI_API_KEY"
	}
	if cfg.Adapter.Model == "" {
		cfg.Adapter.Model = "gemini-2.0-flash"
	}
	if cfg.Adapter.Timeout == 0 {
		cfg.Adapter.Timeout = 30 * time.Second
	}
	if cfg.Adapter.MaxRetries == 0 {
		cfg.Adapter.MaxRetries = 3
	}
	if cfg.Adapter.RetryBackoff == 0 {
		cfg.Adapter.RetryBackoff = 500 * time.Millisecond
	}
	if cfg.Adapter.MaxInputBytes == 0 {
		cfg.Adapter.MaxInputBytes = 64 * 1024
	}
	if cfg.Adapter.ExtractionTemp == 0 {
		cfg.Adapter.ExtractionTemp = 0.1
	}
	if cfg.Adapter.GenerationTemp == 0 {
		cfg.Adapter.GenerationTemp = 0.8
	}
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = time.Minute
	}
	if cfg.RateLimit.Quota == 0 {
		cfg.RateLimit.Quota = 30
	}
	if cfg.Analytics.DefaultWindowDays == 0 {
		cfg.Analytics.DefaultWindowDays = 30
	}
	if cfg.Analytics.RecentLimit == 0 {
		cfg.Analytics.RecentLimit = 20
	}
}
