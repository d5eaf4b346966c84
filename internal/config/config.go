// Package config loads codeviz settings.
//
// Settings are layered: built-in defaults, then the TOML file
// ($XDG_CONFIG_HOME/codeviz/config.toml unless a path is given), then
// CODEVIZ_* environment variables. Command-line flags are applied last by
// the caller.
//
//	[limits]
//	max_bytes = 2097152
//	max_line_bytes = 65536
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "24h"
//
//	[server]
//	addr = ":8080"
//	mongo_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/codeviz/pkg/cache"
	"github.com/matzehuels/codeviz/pkg/extract"
	"github.com/matzehuels/codeviz/pkg/pipeline"
	"github.com/matzehuels/codeviz/pkg/source"
	"github.com/matzehuels/codeviz/pkg/source/watch"
	"github.com/matzehuels/codeviz/pkg/store"
)

const appName = "codeviz"

// Cache backends.
const (
	BackendFile   = "file"
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Backends lists the accepted cache backends.
var Backends = []string{BackendFile, BackendMemory, BackendRedis, BackendNone}

// Config holds all settings.
type Config struct {
	Limits LimitsConfig `toml:"limits"`
	Cache  CacheConfig  `toml:"cache"`
	Server ServerConfig `toml:"server"`
	Render RenderConfig `toml:"render"`
	Watch  WatchConfig  `toml:"watch"`
}

type LimitsConfig struct {
	MaxBytes     int64 `toml:"max_bytes"`
	MaxLineBytes int   `toml:"max_line_bytes"`
}

type CacheConfig struct {
	// Backend is empty by default: the CLI then uses "file" and the
	// server "memory".
	Backend   string        `toml:"backend"`
	Dir       string        `toml:"dir"`
	RedisAddr string        `toml:"redis_addr"`
	Prefix    string        `toml:"prefix"`
	Entries   int           `toml:"entries"`
	TTL       time.Duration `toml:"ttl"`
}

type ServerConfig struct {
	Addr          string        `toml:"addr"`
	Timeout       time.Duration `toml:"timeout"`
	MongoURI      string        `toml:"mongo_uri"`
	MongoDatabase string        `toml:"mongo_database"`
}

type RenderConfig struct {
	Formats  []string `toml:"formats"`
	Detailed bool     `toml:"detailed"`
	Scale    float64  `toml:"scale"`
}

type WatchConfig struct {
	Debounce time.Duration `toml:"debounce"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Limits: LimitsConfig{
			MaxBytes:     source.DefaultMaxBytes,
			MaxLineBytes: extract.DefaultMaxLineBytes,
		},
		Cache: CacheConfig{
			Entries: cache.DefaultMemoryEntries,
			TTL:     cache.TTLGraph,
		},
		Server: ServerConfig{
			Addr:          ":8080",
			Timeout:       30 * time.Second,
			MongoDatabase: store.DefaultMongoDatabase,
		},
		Render: RenderConfig{
			Formats: []string{pipeline.DefaultFormat},
			Scale:   pipeline.DefaultScale,
		},
		Watch: WatchConfig{Debounce: watch.DefaultDebounce},
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Load builds the configuration. With an empty path the default location is
// used and a missing file is not an error; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	if err := loadFile(path, cfg); err != nil {
		if !explicit && os.IsNotExist(err) {
			err = nil
		} else {
			return nil, fmt.Errorf("config %s: %w", path, err)
		}
	}

	if err := applyEnvironment(cfg, os.Getenv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// applyEnvironment overlays CODEVIZ_* variables read through getenv.
func applyEnvironment(cfg *Config, getenv func(string) string) error {
	var errs []string
	setInt64 := func(key string, dst *int64) {
		if v := getenv(key); v != "" {
			n, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = n
		}
	}
	setInt := func(key string, dst *int) {
		if v := getenv(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = n
		}
	}
	setDuration := func(key string, dst *time.Duration) {
		if v := getenv(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, key)
				return
			}
			*dst = d
		}
	}
	setString := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}

	setInt64("CODEVIZ_MAX_BYTES", &cfg.Limits.MaxBytes)
	setInt("CODEVIZ_MAX_LINE_BYTES", &cfg.Limits.MaxLineBytes)
	setString("CODEVIZ_CACHE_BACKEND", &cfg.Cache.Backend)
	setString("CODEVIZ_CACHE_DIR", &cfg.Cache.Dir)
	setString("CODEVIZ_REDIS_ADDR", &cfg.Cache.RedisAddr)
	setString("CODEVIZ_CACHE_PREFIX", &cfg.Cache.Prefix)
	setDuration("CODEVIZ_CACHE_TTL", &cfg.Cache.TTL)
	setString("CODEVIZ_ADDR", &cfg.Server.Addr)
	setDuration("CODEVIZ_SERVER_TIMEOUT", &cfg.Server.Timeout)
	setString("CODEVIZ_MONGO_URI", &cfg.Server.MongoURI)
	setString("CODEVIZ_MONGO_DATABASE", &cfg.Server.MongoDatabase)
	setDuration("CODEVIZ_WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	if v := getenv("CODEVIZ_FORMATS"); v != "" {
		cfg.Render.Formats = strings.Split(v, ",")
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid environment: %s", strings.Join(errs, ", "))
	}
	return nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate() error {
	if c.Cache.Backend != "" && !slices.Contains(Backends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q (must be one of: %s)",
			c.Cache.Backend, strings.Join(Backends, ", "))
	}
	if c.Cache.Backend == BackendRedis && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required for the redis backend")
	}
	if err := pipeline.ValidateFormats(c.Render.Formats); err != nil {
		return fmt.Errorf("render.formats: %w", err)
	}
	return nil
}

// CacheDir returns the file cache directory: cache.dir when set, otherwise
// $XDG_CACHE_HOME/codeviz (~/.cache/codeviz).
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
