// Package config loads tubetrend settings from a TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables, then command-line flags (applied by the caller).
package config

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/matzehuels/tubetrend/pkg/cache"
	errs "github.com/matzehuels/tubetrend/pkg/errors"
)

const appName = "tubetrend"

// Environment variables read by [Load].
const (
	EnvAPIKey    = "YOUTUBE_API_KEY"
	EnvRegion    = "TUBETREND_REGION"
	EnvCache     = "TUBETREND_CACHE"
	EnvRedisAddr = "TUBETREND_REDIS_ADDR"
)

// Cache backends.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Config is the full set of settings.
type Config struct {
	APIKey    string  `toml:"api_key"`
	Region    string  `toml:"region"`
	Limit     int     `toml:"limit"` // default page size; 0 leaves it to each command
	RateLimit float64 `toml:"rate_limit"`

	Cache CacheConfig `toml:"cache"`
	Redis RedisConfig `toml:"redis"`
	Serve ServeConfig `toml:"serve"`
}

// CacheConfig selects the response cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
}

// RedisConfig is used when Cache.Backend is "redis".
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Prefix   string `toml:"prefix"`
}

// ServeConfig configures the HTTP facade.
type ServeConfig struct {
	Addr              string `toml:"addr"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Region: "US",
		Cache:  CacheConfig{Backend: BackendFile},
		Redis:  RedisConfig{Addr: "localhost:6379"},
		Serve:  ServeConfig{Addr: ":8080", RequestsPerMinute: 60},
	}
}

// Load reads the config file at path (DefaultPath when empty), then applies
// environment overrides and validates the result. A missing default file is
// not an error; a missing explicit file is.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, errs.Wrap(errs.ErrCodeInvalidConfig, err, "read config %s", path)
			}
		}
	}

	cfg.applyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup(EnvAPIKey); ok && v != "" {
		c.APIKey = v
	}
	if v, ok := lookup(EnvRegion); ok && v != "" {
		c.Region = v
	}
	if v, ok := lookup(EnvCache); ok && v != "" {
		c.Cache.Backend = v
	}
	if v, ok := lookup(EnvRedisAddr); ok && v != "" {
		c.Redis.Addr = v
	}
}

// Validate normalizes and checks the settings. The API key is not required
// here; commands that call the API check it themselves.
func (c *Config) Validate() error {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Region = strings.ToUpper(strings.TrimSpace(c.Region))
	c.Cache.Backend = strings.ToLower(strings.TrimSpace(c.Cache.Backend))

	if err := errs.ValidateRegion(c.Region); err != nil {
		return errs.Wrap(errs.ErrCodeInvalidConfig, err, "region")
	}
	if c.Limit < 0 || c.Limit > errs.MaxResults {
		return errs.New(errs.ErrCodeInvalidConfig, "limit must be between 0 and %d, got %d", errs.MaxResults, c.Limit)
	}
	if c.RateLimit < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "rate_limit cannot be negative")
	}
	switch c.Cache.Backend {
	case BackendMemory, BackendFile, BackendNone:
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errs.New(errs.ErrCodeInvalidConfig, "redis backend needs redis.addr")
		}
	default:
		return errs.New(errs.ErrCodeInvalidConfig, "unknown cache backend %q (must be memory, file, redis, or none)", c.Cache.Backend)
	}
	if c.Serve.RequestsPerMinute < 0 {
		return errs.New(errs.ErrCodeInvalidConfig, "serve.requests_per_minute cannot be negative")
	}
	return nil
}

// OpenCache builds the configured cache backend. The file backend falls back
// to CacheDir when Cache.Dir is empty.
func (c Config) OpenCache(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	switch c.Cache.Backend {
	case BackendNone:
		return cache.NewNullCache(), nil
	case BackendMemory:
		return cache.NewMemoryCache(), nil
	case BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     c.Redis.Addr,
			Password: c.Redis.Password,
			DB:       c.Redis.DB,
			Prefix:   c.Redis.Prefix,
		}, logger)
	default:
		dir := c.Cache.Dir
		if dir == "" {
			var err error
			if dir, err = CacheDir(); err != nil {
				return nil, err
			}
		}
		return cache.NewFileCache(dir)
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/tubetrend/config.toml, or the empty
// string when no config directory can be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, appName, "config.toml")
}

// CacheDir returns the cache directory using XDG standard (~/.cache/tubetrend/).
func CacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// ParseLimit parses a limit flag or query value; empty means 0 (default).
func ParseLimit(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errs.New(errs.ErrCodeInvalidInput, "limit must be a number: %q", s)
	}
	return n, nil
}
