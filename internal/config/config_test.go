package config

import (
	"testing"
	"time"
)

// TestLoad_Defaults tests defaults when nothing is set
func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "DEFAULT_STOREFRONT", "STOREFRONT_BRAND", "GEOLOCATE_TIMEOUT",
		"STOREFRONT_STORE_TYPE", "PRIMARY_PROVIDER_URL", "SECONDARY_PROVIDER_URL",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	if cfg.Port != "3000" {
		t.Errorf("expected port 3000, got %s", cfg.Port)
	}
	if cfg.DefaultStorefront != "www.amazon.com" {
		t.Errorf("expected default storefront www.amazon.com, got %s", cfg.DefaultStorefront)
	}
	if cfg.StorefrontBrand != "amazon" {
		t.Errorf("expected brand amazon, got %s", cfg.StorefrontBrand)
	}
	if cfg.GeolocateTimeout != 3*time.Second {
		t.Errorf("expected 3s timeout, got %s", cfg.GeolocateTimeout)
	}
	if cfg.StoreType != "builtin" {
		t.Errorf("expected builtin store, got %s", cfg.StoreType)
	}
	if cfg.PrimaryProviderURL != "https://ipapi.co" {
		t.Errorf("unexpected primary provider URL: %s", cfg.PrimaryProviderURL)
	}
}

// TestLoad_Overrides tests environment overrides
func TestLoad_Overrides(t *testing.T) {
	t.Setenv("DEFAULT_STOREFRONT", "www.amazon.co.uk")
	t.Setenv("GEOLOCATE_TIMEOUT", "750ms")
	t.Setenv("RATE_LIMIT", "25")
	t.Setenv("LOG_PRETTY", "false")

	cfg := Load()

	if cfg.DefaultStorefront != "www.amazon.co.uk" {
		t.Errorf("expected www.amazon.co.uk, got %s", cfg.DefaultStorefront)
	}
	if cfg.GeolocateTimeout != 750*time.Millisecond {
		t.Errorf("expected 750ms, got %s", cfg.GeolocateTimeout)
	}
	if cfg.RateLimit != 25 {
		t.Errorf("expected 25, got %d", cfg.RateLimit)
	}
	if cfg.LogPretty {
		t.Error("expected LogPretty false")
	}
}

// TestGetEnvAsDuration tests duration parsing rules
func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		expected time.Duration
	}{
		{"unset", "", 2 * time.Second},
		{"go duration", "1500ms", 1500 * time.Millisecond},
		{"bare seconds", "5", 5 * time.Second},
		{"zero seconds", "0", 2 * time.Second},
		{"negative duration", "-1s", 2 * time.Second},
		{"garbage", "soon", 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvAsDuration("TEST_DURATION", 2*time.Second); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

// TestGetEnvAsInt_Invalid tests fallback on bad integers
func TestGetEnvAsInt_Invalid(t *testing.T) {
	t.Setenv("TEST_INT", "ten")
	if got := getEnvAsInt("TEST_INT", 7); got != 7 {
		t.Errorf("expected 7, got %d", got)
	}
}
