// Package config loads cubicleview settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/cubicleview/config.toml
//  3. CUBICLEVIEW_* environment variables, after an optional .env file in
//     the working directory has been loaded into the environment
//
// A missing default file is not an error; a missing explicit file is.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	cverrors "github.com/matzehuels/cubicleview/pkg/errors"
	"github.com/matzehuels/cubicleview/pkg/layout"
)

const (
	appName = "cubicleview"

	// EnvPrefix prefixes every environment override.
	EnvPrefix = "CUBICLEVIEW_"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config holds every setting.
type Config struct {
	View   View          `toml:"view"`
	Layout layout.Policy `toml:"layout"`
	Cache  Cache         `toml:"cache"`
	Server Server        `toml:"server"`
	Watch  Watch         `toml:"watch"`
}

// View configures the split views.
type View struct {
	// Threshold is the node count above which graphs are drawn sideways.
	Threshold int     `toml:"threshold"`
	Padding   float64 `toml:"padding"`
	// Width and Height are the size of the whole window in pixels.
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// HoverInterval is the redraw period while a hover overlay is shown.
	HoverInterval time.Duration `toml:"hover_interval"`
}

// Cache configures the layout cache.
type Cache struct {
	Backend  string        `toml:"backend"`
	Dir      string        `toml:"dir"`
	TTL      time.Duration `toml:"ttl"`
	RedisURL string        `toml:"redis_url"`
}

// Server configures the HTTP viewer.
type Server struct {
	Addr string `toml:"addr"`
}

// Watch configures file watching.
type Watch struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		View: View{
			Threshold:     200,
			Padding:       100,
			Width:         1280,
			Height:        800,
			HoverInterval: 100 * time.Millisecond,
		},
		Layout: layout.DefaultPolicy,
		Cache: Cache{
			Backend: CacheFile,
			TTL:     7 * 24 * time.Hour,
		},
		Server: Server{Addr: "localhost:8080"},
		Watch:  Watch{Debounce: 200 * time.Millisecond},
	}
}

// Load reads settings from path, or from the default location when path is
// empty, then applies environment overrides.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			missing := errors.Is(err, fs.ErrNotExist)
			switch {
			case missing && !explicit:
			case missing:
				return cfg, cverrors.Wrap(cverrors.ErrCodeFileNotFound, err, "config file %s not found", path)
			default:
				return cfg, cverrors.Wrap(cverrors.ErrCodeInvalidConfig, err, "cannot read config %s", path)
			}
		}
	}

	// Variables already set win over .env entries.
	_ = godotenv.Load()
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Parse reads settings from TOML text on top of the defaults.
func Parse(data string) (Config, error) {
	cfg := Default()
	if _, err := toml.Decode(data, &cfg); err != nil {
		return cfg, cverrors.Wrap(cverrors.ErrCodeInvalidConfig, err, "cannot parse config")
	}
	return cfg, cfg.Validate()
}

// DefaultPath returns the config file location following the XDG standard
// (~/.config/cubicleview/config.toml).
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// CacheDir returns the file cache directory: the configured one, else
// $XDG_CACHE_HOME/cubicleview or ~/.cache/cubicleview.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// Validate rejects settings the viewer cannot work with.
func (c Config) Validate() error {
	var problems []string
	if c.View.Threshold < 0 {
		problems = append(problems, "view.threshold must not be negative")
	}
	if c.View.Padding < 0 {
		problems = append(problems, "view.padding must not be negative")
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		problems = append(problems, "view.width and view.height must be positive")
	}
	if c.View.HoverInterval <= 0 {
		problems = append(problems, "view.hover_interval must be positive")
	}
	for name, s := range map[string]layout.Size{"layout.small": c.Layout.Small, "layout.large": c.Layout.Large} {
		if s.Width <= 0 || s.Height <= 0 {
			problems = append(problems, name+" must have a positive width and height")
		}
	}
	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if c.Cache.RedisURL == "" {
			problems = append(problems, "cache.redis_url is required for the redis backend")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown cache.backend %q (must be file, redis or none)", c.Cache.Backend))
	}
	if c.Watch.Debounce < 0 {
		problems = append(problems, "watch.debounce must not be negative")
	}
	if len(problems) > 0 {
		return cverrors.New(cverrors.ErrCodeInvalidConfig, "invalid config: %s", strings.Join(problems, "; "))
	}
	return nil
}

type lookupFunc func(key string) (string, bool)

// applyEnv overrides fields from CUBICLEVIEW_* variables.
func (c *Config) applyEnv(lookup lookupFunc) error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := lookup(EnvPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := lookup(EnvPrefix + key); ok {
			n, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	float := func(key string, dst *float64) {
		if v, ok := lookup(EnvPrefix + key); ok {
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = f
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := lookup(EnvPrefix + key); ok {
			d, err := time.ParseDuration(strings.TrimSpace(v))
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}

	num("VIEW_THRESHOLD", &c.View.Threshold)
	float("VIEW_PADDING", &c.View.Padding)
	num("VIEW_WIDTH", &c.View.Width)
	num("VIEW_HEIGHT", &c.View.Height)
	dur("VIEW_HOVER_INTERVAL", &c.View.HoverInterval)
	num("LAYOUT_THRESHOLD", &c.Layout.Threshold)
	str("CACHE_BACKEND", &c.Cache.Backend)
	str("CACHE_DIR", &c.Cache.Dir)
	dur("CACHE_TTL", &c.Cache.TTL)
	str("CACHE_REDIS_URL", &c.Cache.RedisURL)
	str("SERVER_ADDR", &c.Server.Addr)
	dur("WATCH_DEBOUNCE", &c.Watch.Debounce)

	if len(errs) > 0 {
		return cverrors.Wrap(cverrors.ErrCodeInvalidConfig, errors.Join(errs...), "invalid environment override")
	}
	return nil
}
