package config

import (
	"errors"
	"os"
	"reflect"
	"testing"
	"time"
)

var configKeys = []string{
	"TOKEN_API", "PORT", "GIN_MODE", "LOG_LEVEL", "LOG_JSON",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSLMODE", "DB_MAX_OPEN_CONNS",
	"SESSION_HOURS", "ESTIMATE_RATE_PER_MINUTE", "ESTIMATE_BURST", "PROJECT_CACHE_TTL_SECONDS",
	"ADMIN_USERNAME", "ADMIN_PASSWORD", "WS_ALLOWED_ORIGINS",
}

// clearEnv garante que nenhum .env local interfira no teste
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configKeys {
		k := k
		old, had := os.LookupEnv(k)
		// valor vazio impede que godotenv sobrescreva a variável
		os.Setenv(k, "")
		t.Cleanup(func() {
			if had {
				os.Setenv(k, old)
			} else {
				os.Unsetenv(k)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("TOKEN_API", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Port != "8080" || cfg.GinMode != "debug" || cfg.LogLevel != "info" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.LogJSON {
		t.Errorf("LOG_JSON should default to false")
	}
	if cfg.SessionDuration != 24*time.Hour {
		t.Errorf("SessionDuration: got %v", cfg.SessionDuration)
	}
	if cfg.EstimateRatePerMinute != 120 || cfg.EstimateBurst != 20 {
		t.Errorf("rate limit defaults: got %d/%d", cfg.EstimateRatePerMinute, cfg.EstimateBurst)
	}
	if cfg.ProjectCacheTTL != 5*time.Minute {
		t.Errorf("ProjectCacheTTL: got %v", cfg.ProjectCacheTTL)
	}
	if cfg.DB.Host != "localhost" || cfg.DB.Port != "5432" || cfg.DB.MaxOpenConns != 25 {
		t.Errorf("db defaults: got %+v", cfg.DB)
	}
	if len(cfg.WSAllowedOrigins) != 0 {
		t.Errorf("WSAllowedOrigins should default to empty, got %v", cfg.WSAllowedOrigins)
	}
}

func TestLoadRequiresToken(t *testing.T) {
	clearEnv(t)

	_, err := Load()
	if !errors.Is(err, ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("TOKEN_API", "secret")
	os.Setenv("PORT", "9090")
	os.Setenv("LOG_JSON", "true")
	os.Setenv("SESSION_HOURS", "2")
	os.Setenv("ESTIMATE_RATE_PER_MINUTE", "30")
	os.Setenv("PROJECT_CACHE_TTL_SECONDS", "10")
	os.Setenv("ADMIN_USERNAME", "admin")
	os.Setenv("ADMIN_PASSWORD", "changeme123")
	os.Setenv("WS_ALLOWED_ORIGINS", " https://app.example.com, ,http://localhost:3000 ")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Port != "9090" || !cfg.LogJSON {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.SessionDuration != 2*time.Hour || cfg.ProjectCacheTTL != 10*time.Second {
		t.Errorf("durations: %v %v", cfg.SessionDuration, cfg.ProjectCacheTTL)
	}
	if cfg.EstimateRatePerMinute != 30 {
		t.Errorf("EstimateRatePerMinute: got %d", cfg.EstimateRatePerMinute)
	}
	if cfg.AdminUsername != "admin" {
		t.Errorf("AdminUsername: got %q", cfg.AdminUsername)
	}
	want := []string{"https://app.example.com", "http://localhost:3000"}
	if !reflect.DeepEqual(cfg.WSAllowedOrigins, want) {
		t.Errorf("WSAllowedOrigins: got %v", cfg.WSAllowedOrigins)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"SESSION_HOURS":             "abc",
		"ESTIMATE_BURST":            "-1",
		"PROJECT_CACHE_TTL_SECONDS": "0",
		"LOG_JSON":                  "maybe",
		"ADMIN_USERNAME":            "admin",
	}

	for key, value := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			os.Setenv("TOKEN_API", "secret")
			os.Setenv(key, value)

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%q", key, value)
			}
		})
	}
}
