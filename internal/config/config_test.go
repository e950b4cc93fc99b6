package config

import (
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/farmcash")
	t.Setenv("SUPABASE_URL", "https://project.supabase.co/")
	t.Setenv("SUPABASE_ANON_KEY", "anon")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_PORT", "")
	t.Setenv("APP_URL", "")
	t.Setenv("REFERRAL_STORE", "")
	t.Setenv("REFERRAL_CODE_ATTEMPTS", "")
	t.Setenv("HTTP_TIMEOUT_SECONDS", "")

	cfg := Load()
	if cfg.AppPort != "8080" || cfg.AppURL != "http://localhost:8080" {
		t.Fatalf("port/url = %q %q", cfg.AppPort, cfg.AppURL)
	}
	if cfg.SupabaseURL != "https://project.supabase.co" {
		t.Fatalf("trailing slash not trimmed: %q", cfg.SupabaseURL)
	}
	if cfg.ReferralStore != ReferralStoreCookie || cfg.ReferralCodeAttempts != 5 {
		t.Fatalf("referral settings = %q %d", cfg.ReferralStore, cfg.ReferralCodeAttempts)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Fatalf("timeout = %v", cfg.HTTPTimeout)
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("APP_URL", "https://farmcash.app/")
	t.Setenv("REFERRAL_STORE", "REDIS")
	t.Setenv("REFERRAL_CODE_ATTEMPTS", "8")
	t.Setenv("ALLOWED_ORIGINS", "https://farmcash.app, https://www.farmcash.app ,")
	t.Setenv("SIGNUP_RATE_LIMIT", "nope")
	t.Setenv("REDIS_DB", "2")

	cfg := Load()
	if cfg.AppURL != "https://farmcash.app" {
		t.Fatalf("app url = %q", cfg.AppURL)
	}
	if cfg.ReferralStore != ReferralStoreRedis || cfg.ReferralCodeAttempts != 8 {
		t.Fatalf("referral settings = %q %d", cfg.ReferralStore, cfg.ReferralCodeAttempts)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://www.farmcash.app" {
		t.Fatalf("origins = %v", cfg.AllowedOrigins)
	}
	if cfg.SignupRateLimit != 5 {
		t.Fatalf("invalid value should fall back, got %d", cfg.SignupRateLimit)
	}
	if cfg.RedisDB != 2 {
		t.Fatalf("redis db = %d", cfg.RedisDB)
	}
}
