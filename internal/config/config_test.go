package config

import (
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("LISTEN_PORT", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Env != EnvDevelopment {
		t.Errorf("expected development env, got %s", cfg.Env)
	}
	if cfg.ListenPort != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.ListenPort)
	}
	if cfg.GeminiModel != "gemini-2.0-flash" {
		t.Errorf("expected default model, got %s", cfg.GeminiModel)
	}
	if cfg.SessionTTL != time.Hour {
		t.Errorf("expected 1h session ttl, got %s", cfg.SessionTTL)
	}
	if cfg.CookieSecure {
		t.Error("expected insecure cookies in development")
	}
	if cfg.RateLimitEnabled {
		t.Error("expected rate limiting disabled by default")
	}
}

func TestLoadConfig_TestingUsesTestDatabase(t *testing.T) {
	t.Setenv("APP_ENV", "testing")
	t.Setenv("DATABASE_URL", "postgres://main")
	t.Setenv("TEST_DATABASE_URL", "sqlite://file::memory:")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := cfg.DatabaseTarget(); got != "sqlite://file::memory:" {
		t.Errorf("expected test database url, got %s", got)
	}
}

func TestLoadConfig_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SECRET_KEY", "")
	t.Setenv("DATABASE_URL", "postgres://prod")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when SECRET_KEY is left at its default in production")
	}

	t.Setenv("SECRET_KEY", "s3cr3t")
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.CookieSecure {
		t.Error("expected secure cookies in production")
	}
}

func TestLoadConfig_CORSOriginsList(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.test" {
		t.Errorf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"dev ok", Config{Env: EnvDevelopment, DatabaseURL: "x", SecretKey: "k"}, false},
		{"unknown env", Config{Env: "staging", DatabaseURL: "x", SecretKey: "k"}, true},
		{"testing without test db", Config{Env: EnvTesting, DatabaseURL: "x", SecretKey: "k"}, true},
		{"rate limit zero", Config{Env: EnvDevelopment, DatabaseURL: "x", SecretKey: "k", RateLimitEnabled: true}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
