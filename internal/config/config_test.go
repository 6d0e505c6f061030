package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "dev")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("BACKEND_BASE_URL", "http://backend.local/api/")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")

	cfg := Load()
	if cfg.BackendBaseURL != "http://backend.local/api" {
		t.Errorf("BackendBaseURL = %q, want trailing slash trimmed", cfg.BackendBaseURL)
	}
	if cfg.SessionTTL != 30*time.Minute {
		t.Errorf("SessionTTL = %v, want 30m", cfg.SessionTTL)
	}
	if cfg.BookingTempTTL != 10*time.Minute {
		t.Errorf("BookingTempTTL = %v, want default 10m", cfg.BookingTempTTL)
	}
	if cfg.SessionCookie != "cinema_sid" {
		t.Errorf("SessionCookie = %q", cfg.SessionCookie)
	}
	if cfg.AMQPURL != "amqp://u:p@mq:5672/" {
		t.Errorf("AMQPURL = %q, want AMQP_URL fallback", cfg.AMQPURL)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false for APP_ENV=dev")
	}
}

func TestEnvHelpers(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  bool
	}{
		{"yes", "yes", true},
		{"off", "off", false},
		{"garbage keeps default", "maybe", true},
		{"empty keeps default", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("X_BOOL", tt.value)
			if got := envBool("X_BOOL", true); got != tt.want {
				t.Errorf("envBool(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}

	t.Setenv("X_DUR", "not-a-duration")
	if got := envDur("X_DUR", 3*time.Second); got != 3*time.Second {
		t.Errorf("envDur fallback = %v", got)
	}
}

func TestLoadRateLimitConfig(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		check   func(t *testing.T, cfg RateLimitConfig)
		wantErr bool
	}{
		{
			name: "defaults",
			check: func(t *testing.T, cfg RateLimitConfig) {
				if cfg.Burst != 60 || cfg.Refill != time.Second || cfg.Idle != 10*time.Minute {
					t.Errorf("sizes = %+v", cfg)
				}
				if strings.Join(cfg.KeyBy, ",") != "ip,session,route" {
					t.Errorf("KeyBy = %v", cfg.KeyBy)
				}
				if !cfg.Exempted("/healthz") || cfg.Exempted("/api/movies") {
					t.Errorf("Exempt = %v", cfg.Exempt)
				}
			},
		},
		{
			name: "idle outlives a full refill",
			env:  map[string]string{"RATE_LIMIT_BURST": "0", "RATE_LIMIT_REFILL_EVERY": "10s", "RATE_LIMIT_IDLE_TTL": "1s"},
			check: func(t *testing.T, cfg RateLimitConfig) {
				if cfg.Burst != 1 || cfg.Idle != 10*time.Second {
					t.Errorf("Burst = %d, Idle = %v", cfg.Burst, cfg.Idle)
				}
			},
		},
		{
			name: "key attributes are normalised",
			env:  map[string]string{"RATE_LIMIT_KEY_BY": " User , ROUTE ", "RATE_LIMIT_EXEMPT": "/healthz,/api/payments/vnpay-return"},
			check: func(t *testing.T, cfg RateLimitConfig) {
				if strings.Join(cfg.KeyBy, ",") != "user,route" {
					t.Errorf("KeyBy = %v", cfg.KeyBy)
				}
				if !cfg.Exempted("/api/payments/vnpay-return") {
					t.Errorf("Exempt = %v", cfg.Exempt)
				}
			},
		},
		{
			name:    "unknown attribute",
			env:     map[string]string{"RATE_LIMIT_KEY_BY": "ip,sesion"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadRateLimitConfig()
			if tt.wantErr {
				if err == nil {
					t.Fatalf("err = nil, cfg = %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestLoadCacheConfigDefaults(t *testing.T) {
	cfg := LoadCacheConfig()
	if !cfg.Enabled || cfg.TTL != time.Minute || cfg.Prefix != "tc" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadEnvFile(t *testing.T) {
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), true); err != nil {
		t.Fatalf("optional missing file: %v", err)
	}
	if err := LoadEnvFile(filepath.Join(t.TempDir(), "missing.env"), false); err == nil {
		t.Fatal("required missing file should fail")
	}

	path := filepath.Join(t.TempDir(), "app.env")
	if err := os.WriteFile(path, []byte("CINEMA_TEST_FROM_FILE=loaded\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CINEMA_TEST_FROM_FILE", "")
	os.Unsetenv("CINEMA_TEST_FROM_FILE")
	if err := LoadEnvFile(path, false); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("CINEMA_TEST_FROM_FILE"); got != "loaded" {
		t.Errorf("env from file = %q", got)
	}
}
