// Package config loads application configuration from environment variables.
// All variables use the IEP_ prefix.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Cache         CacheConfig
	AI            AIConfig
	Session       SessionConfig
	Log           LogConfig
	CriteriaPath  string
	AllowListPath string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port int
	Host string
}

// DatabaseConfig holds PostgreSQL connection settings. An empty URL means
// no database is used.
type DatabaseConfig struct {
	URL      string
	MaxConns int
	MinConns int
}

// CacheConfig holds Redis connection settings. An empty URL means no cache
// is used.
type CacheConfig struct {
	URL string
}

// AIConfig holds configuration for the collaborator providers.
type AIConfig struct {
	Google GoogleConfig
	OpenAI OpenAIConfig
}

// GoogleConfig holds Google Gemini provider settings.
type GoogleConfig struct {
	APIKey string
}

// OpenAIConfig holds OpenAI-compatible provider settings.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
}

// SessionConfig holds session-store settings.
type SessionConfig struct {
	Store      string // "memory", "redis", or "postgres"
	TTLMinutes int    // redis store only
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with IEP_ prefix.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: envInt("IEP_SERVER_PORT", 8080),
			Host: envStr("IEP_SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			URL:      envStr("IEP_DATABASE_URL", ""),
			MaxConns: envInt("IEP_DATABASE_MAX_CONNS", 25),
			MinConns: envInt("IEP_DATABASE_MIN_CONNS", 5),
		},
		Cache: CacheConfig{
			URL: envStr("IEP_CACHE_URL", ""),
		},
		AI: AIConfig{
			Google: GoogleConfig{
				APIKey: envStr("IEP_AI_GOOGLE_API_KEY", ""),
			},
			OpenAI: OpenAIConfig{
				APIKey:  envStr("IEP_AI_OPENAI_API_KEY", ""),
				BaseURL: envStr("IEP_AI_OPENAI_BASE_URL", ""),
			},
		},
		Session: SessionConfig{
			Store:      envStr("IEP_SESSION_STORE", "memory"),
			TTLMinutes: envInt("IEP_SESSION_TTL_MINUTES", 240),
		},
		Log: LogConfig{
			Level:  envStr("IEP_LOG_LEVEL", "info"),
			Format: envStr("IEP_LOG_FORMAT", "json"),
		},
		CriteriaPath:  envStr("IEP_CRITERIA_PATH", "./data"),
		AllowListPath: envStr("IEP_ALLOWLIST_PATH", "./allowlist.yaml"),
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.CriteriaPath == "" {
		return fmt.Errorf("IEP_CRITERIA_PATH is required")
	}
	if c.AllowListPath == "" {
		return fmt.Errorf("IEP_ALLOWLIST_PATH is required")
	}

	if !c.HasAIProvider() {
		return fmt.Errorf("at least one AI provider must be configured")
	}

	switch c.Session.Store {
	case "memory":
	case "redis":
		if c.Cache.URL == "" {
			return fmt.Errorf("IEP_CACHE_URL is required for the redis session store")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("IEP_DATABASE_URL is required for the postgres session store")
		}
	default:
		return fmt.Errorf("IEP_SESSION_STORE must be 'memory', 'redis', or 'postgres', got %q", c.Session.Store)
	}

	return nil
}

// HasAIProvider returns true if at least one AI provider is configured.
func (c *Config) HasAIProvider() bool {
	return c.AI.Google.APIKey != "" || c.AI.OpenAI.APIKey != ""
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
