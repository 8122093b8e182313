package database

import (
	"strings"
	"testing"
	"time"

	"github.com/cleberrangel/houseforge-api/internal/config"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{Host: "localhost", Port: "5432", User: "test", DBName: "test"}.withDefaults()

	if cfg.MaxOpenConns != 25 {
		t.Errorf("MaxOpenConns: got %d, want 25", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns != 12 {
		t.Errorf("MaxIdleConns: got %d, want 12", cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime != 5*time.Minute || cfg.ConnMaxIdleTime != 2*time.Minute {
		t.Errorf("lifetimes: got %v / %v", cfg.ConnMaxLifetime, cfg.ConnMaxIdleTime)
	}
	if cfg.SSLMode != "disable" {
		t.Errorf("SSLMode: got %q", cfg.SSLMode)
	}
}

func TestConfigIdleNeverExceedsOpen(t *testing.T) {
	cfg := Config{MaxOpenConns: 4, MaxIdleConns: 10}.withDefaults()
	if cfg.MaxIdleConns > cfg.MaxOpenConns {
		t.Errorf("MaxIdleConns (%d) exceeds MaxOpenConns (%d)", cfg.MaxIdleConns, cfg.MaxOpenConns)
	}

	cfg = Config{MaxOpenConns: 1}.withDefaults()
	if cfg.MaxIdleConns != 1 {
		t.Errorf("MaxIdleConns with a single connection: got %d", cfg.MaxIdleConns)
	}
}

func TestFromAppConfig(t *testing.T) {
	cfg := FromAppConfig(config.DBConfig{
		Host: "db", Port: "6543", User: "house", Password: "pw", Name: "forge", SSLMode: "require", MaxOpenConns: 7,
	})

	dsn := cfg.DSN()
	for _, part := range []string{"host=db", "port=6543", "user=house", "password=pw", "dbname=forge", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN %q missing %q", dsn, part)
		}
	}
	if cfg.MaxOpenConns != 7 {
		t.Errorf("MaxOpenConns: got %d", cfg.MaxOpenConns)
	}
}
