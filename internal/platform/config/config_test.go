package config

import (
	"os"
	"testing"
)

// clearEnv unsets all IEP_ environment variables for a clean test.
func clearEnv(t *testing.T) {
	t.Helper()
	envVars := []string{
		"IEP_SERVER_PORT",
		"IEP_SERVER_HOST",
		"IEP_DATABASE_URL",
		"IEP_DATABASE_MAX_CONNS",
		"IEP_DATABASE_MIN_CONNS",
		"IEP_CACHE_URL",
		"IEP_AI_GOOGLE_API_KEY",
		"IEP_AI_OPENAI_API_KEY",
		"IEP_AI_OPENAI_BASE_URL",
		"IEP_SESSION_STORE",
		"IEP_SESSION_TTL_MINUTES",
		"IEP_LOG_LEVEL",
		"IEP_LOG_FORMAT",
		"IEP_CRITERIA_PATH",
		"IEP_ALLOWLIST_PATH",
	}
	for _, v := range envVars {
		_ = os.Unsetenv(v)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Session.Store != "memory" {
		t.Errorf("Session.Store = %q, want memory", cfg.Session.Store)
	}
	if cfg.Session.TTLMinutes != 240 {
		t.Errorf("Session.TTLMinutes = %d, want 240", cfg.Session.TTLMinutes)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v, want info/json", cfg.Log)
	}
	if cfg.CriteriaPath != "./data" {
		t.Errorf("CriteriaPath = %q, want ./data", cfg.CriteriaPath)
	}
	if cfg.AllowListPath != "./allowlist.yaml" {
		t.Errorf("AllowListPath = %q, want ./allowlist.yaml", cfg.AllowListPath)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("IEP_SERVER_PORT", "9090")
	t.Setenv("IEP_AI_GOOGLE_API_KEY", "test-key")
	t.Setenv("IEP_SESSION_STORE", "redis")
	t.Setenv("IEP_CACHE_URL", "redis://localhost:6379")
	t.Setenv("IEP_CRITERIA_PATH", "/srv/iep/data")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.AI.Google.APIKey != "test-key" {
		t.Errorf("AI.Google.APIKey = %q", cfg.AI.Google.APIKey)
	}
	if cfg.Session.Store != "redis" {
		t.Errorf("Session.Store = %q, want redis", cfg.Session.Store)
	}
	if cfg.CriteriaPath != "/srv/iep/data" {
		t.Errorf("CriteriaPath = %q", cfg.CriteriaPath)
	}
}

func TestLoad_InvalidIntFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("IEP_SERVER_PORT", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid with google key",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "no provider",
			mutate:  func(c *Config) { c.AI.Google.APIKey = "" },
			wantErr: true,
		},
		{
			name: "openai key alone is enough",
			mutate: func(c *Config) {
				c.AI.Google.APIKey = ""
				c.AI.OpenAI.APIKey = "sk-test"
			},
			wantErr: false,
		},
		{
			name:    "missing criteria path",
			mutate:  func(c *Config) { c.CriteriaPath = "" },
			wantErr: true,
		},
		{
			name:    "missing allowlist path",
			mutate:  func(c *Config) { c.AllowListPath = "" },
			wantErr: true,
		},
		{
			name:    "redis store without cache url",
			mutate:  func(c *Config) { c.Session.Store = "redis" },
			wantErr: true,
		},
		{
			name: "redis store with cache url",
			mutate: func(c *Config) {
				c.Session.Store = "redis"
				c.Cache.URL = "redis://localhost:6379"
			},
			wantErr: false,
		},
		{
			name:    "postgres store without database url",
			mutate:  func(c *Config) { c.Session.Store = "postgres" },
			wantErr: true,
		},
		{
			name:    "unknown store",
			mutate:  func(c *Config) { c.Session.Store = "etcd" },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("IEP_AI_GOOGLE_API_KEY", "test-key")

			cfg, err := Load()
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
