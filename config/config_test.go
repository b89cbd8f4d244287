package config

import (
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET_KEY", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr)
	}
	if cfg.StoreBackend != "file" {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if !cfg.Headless {
		t.Error("Headless should default to true")
	}
	if cfg.ScrapeCacheTTL != time.Hour {
		t.Errorf("ScrapeCacheTTL = %v", cfg.ScrapeCacheTTL)
	}
	if cfg.MaxLoadMore != 5 || cfg.LoadMoreRetries != 2 {
		t.Errorf("pagination limits = %d/%d", cfg.MaxLoadMore, cfg.LoadMoreRetries)
	}
	if cfg.AdminPasswordHash != "" {
		t.Error("admin API should stay disabled without a password")
	}
}

func TestLoadInvalidBackend(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	if _, err := Load(); err == nil {
		t.Error("expected error for unsupported STORE_BACKEND")
	}
}

func TestLoadAdminPassword(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET_KEY", "s3cret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte("hunter2")); err != nil {
		t.Errorf("stored hash does not match the password: %v", err)
	}
	if string(cfg.JWTSecret) != "s3cret" {
		t.Errorf("JWTSecret = %q", cfg.JWTSecret)
	}
}

func TestLoadAdminRequiresJWTSecret(t *testing.T) {
	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_PASSWORD_HASH", "")
	t.Setenv("JWT_SECRET_KEY", "")

	if _, err := Load(); err == nil {
		t.Error("expected error when admin is enabled without JWT_SECRET_KEY")
	}
}

func TestDetectBaseURL(t *testing.T) {
	t.Setenv("SHARE_BASE_URL", "")
	t.Setenv("RAILWAY_PUBLIC_DOMAIN", "")
	t.Setenv("RAILWAY_STATIC_URL", "")
	if got := detectBaseURL(); got != "http://localhost:8080" {
		t.Errorf("default base = %q", got)
	}

	t.Setenv("RAILWAY_PUBLIC_DOMAIN", "smio.up.railway.app")
	if got := detectBaseURL(); got != "https://smio.up.railway.app" {
		t.Errorf("railway base = %q", got)
	}

	t.Setenv("SHARE_BASE_URL", "https://smio.example/")
	if got := detectBaseURL(); got != "https://smio.example" {
		t.Errorf("explicit base = %q, want trailing slash trimmed", got)
	}
}

func TestParseHeadless(t *testing.T) {
	tests := []struct {
		value   string
		want    bool
		wantErr bool
	}{
		{"", true, false},
		{"true", true, false},
		{"false", false, false},
		{"1", true, false},
		{"0", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := parseHeadless(tt.value)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseHeadless(%q) = (%v, %v), want (%v, err=%v)", tt.value, got, err, tt.want, tt.wantErr)
		}
	}
}
