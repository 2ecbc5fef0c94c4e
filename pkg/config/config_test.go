package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[view]
threshold = 50
width = 640

[layout.small]
width = 20
height = 30

[cache]
backend = "none"
ttl = "1h"

[watch]
debounce = "50ms"
`)
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if cfg.View.Threshold != 50 || cfg.View.Width != 640 {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.View.Height != Default().View.Height {
		t.Errorf("unset view.height = %d, want default", cfg.View.Height)
	}
	if cfg.Layout.Small != (layout.Size{Width: 20, Height: 30}) || cfg.Layout.Large != layout.DefaultPolicy.Large {
		t.Errorf("layout = %+v", cfg.Layout)
	}
	if cfg.Cache.Backend != CacheNone || cfg.Cache.TTL != time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Watch.Debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero width", func(c *Config) { c.View.Width = 0 }},
		{"negative padding", func(c *Config) { c.View.Padding = -1 }},
		{"zero node size", func(c *Config) { c.Layout.Large.Height = 0 }},
		{"unknown backend", func(c *Config) { c.Cache.Backend = "memcached" }},
		{"redis without url", func(c *Config) { c.Cache.Backend = CacheRedis }},
		{"zero hover interval", func(c *Config) { c.View.HoverInterval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !cverrors.Is(err, cverrors.ErrCodeInvalidConfig) {
				t.Errorf("Validate() = %v, want INVALID_CONFIG", err)
			}
		})
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CUBICLEVIEW_VIEW_THRESHOLD":  "10",
		"CUBICLEVIEW_VIEW_PADDING":    "12.5",
		"CUBICLEVIEW_CACHE_BACKEND":   "redis",
		"CUBICLEVIEW_CACHE_REDIS_URL": "redis://localhost:6379/0",
		"CUBICLEVIEW_WATCH_DEBOUNCE":  "1s",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.applyEnv(lookup); err != nil {
		t.Fatalf("applyEnv() error: %v", err)
	}
	if cfg.View.Threshold != 10 || cfg.View.Padding != 12.5 {
		t.Errorf("view = %+v", cfg.View)
	}
	if cfg.Cache.Backend != CacheRedis || cfg.Cache.RedisURL != "redis://localhost:6379/0" {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Watch.Debounce != time.Second {
		t.Errorf("debounce = %v", cfg.Watch.Debounce)
	}

	env = map[string]string{"CUBICLEVIEW_VIEW_WIDTH": "wide"}
	if err := cfg.applyEnv(lookup); !cverrors.Is(err, cverrors.ErrCodeInvalidConfig) {
		t.Errorf("applyEnv(bad int) = %v, want INVALID_CONFIG", err)
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("[server]\naddr = \":9000\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CUBICLEVIEW_VIEW_HEIGHT", "480")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" || cfg.View.Height != 480 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadMissing(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	if _, err := Load(""); err != nil {
		t.Errorf("Load() without a default file = %v", err)
	}
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if !cverrors.Is(err, cverrors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	cfg := Default()
	if dir, _ := cfg.CacheDir(); dir != filepath.Join("/tmp/xdg", "cubicleview") {
		t.Errorf("CacheDir() = %q", dir)
	}
	cfg.Cache.Dir = "/var/cache/cv"
	if dir, _ := cfg.CacheDir(); dir != "/var/cache/cv" {
		t.Errorf("CacheDir() = %q", dir)
	}
}
