package config

import (
	"testing"
	"time"
)

func TestLoadCacheConfigDefaults(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("CACHE_METHODS", "")
	t.Setenv("CACHE_TTL", "")

	cfg := LoadCacheConfig()
	if !cfg.Enabled {
		t.Fatal("cache should default to enabled")
	}
	if !cfg.Methods["GET"] {
		t.Fatal("GET should be cacheable by default")
	}
	if cfg.Methods["POST"] {
		t.Fatal("POST must never default to cacheable")
	}
	if cfg.TTL <= 0 {
		t.Fatalf("TTL = %v", cfg.TTL)
	}
}

func TestLoadCacheConfigOverrides(t *testing.T) {
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("CACHE_METHODS", "get,head")
	t.Setenv("CACHE_TTL", "45s")

	cfg := LoadCacheConfig()
	if cfg.Enabled {
		t.Fatal("CACHE_ENABLED=false ignored")
	}
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] {
		t.Fatalf("methods = %v", cfg.Methods)
	}
	if cfg.TTL != 45*time.Second {
		t.Fatalf("TTL = %v, want 45s", cfg.TTL)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("RATE_LIMIT_LIMIT", "0")
	t.Setenv("RATE_LIMIT_WINDOW", "0s")

	cfg := LoadRateLimitConfig()
	if cfg.Limit <= 0 {
		t.Fatalf("limit = %d, must clamp above zero", cfg.Limit)
	}
	if cfg.Window <= 0 {
		t.Fatalf("window = %v, must clamp above zero", cfg.Window)
	}
}
