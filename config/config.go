// Package config loads settings from defaults, an optional TOML file, a
// .env file and the process environment, in that order of precedence
// (later sources win).
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	Server    ServerConfig    `toml:"server"`
	Share     ShareConfig     `toml:"share"`
	Cache     CacheConfig     `toml:"cache"`
	RateLimit RateLimitConfig `toml:"rate_limit"`
	Log       LogConfig       `toml:"log"`
	OpenAIKey string          `toml:"openai_api_key"`
}

type ServerConfig struct {
	Addr            string        `toml:"addr"`
	ReadTimeout     time.Duration `toml:"read_timeout"`
	WriteTimeout    time.Duration `toml:"write_timeout"`
	IdleTimeout     time.Duration `toml:"idle_timeout"`
	ShutdownTimeout time.Duration `toml:"shutdown_timeout"`
}

// ShareConfig is the public page share links point to.
type ShareConfig struct {
	Origin string `toml:"origin"`
	Path   string `toml:"path"`
}

type CacheConfig struct {
	RedisAddr string        `toml:"redis_addr"`
	TTL       time.Duration `toml:"ttl"`
}

type RateLimitConfig struct {
	Capacity int           `toml:"capacity"`
	Window   time.Duration `toml:"window"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Share: ShareConfig{
			Origin: "http://localhost:8080",
			Path:   "/",
		},
		Cache: CacheConfig{
			TTL: time.Hour,
		},
		RateLimit: RateLimitConfig{
			Capacity: 60,
			Window:   time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load builds the configuration. An empty path skips the TOML file; a
// missing .env is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("reading .env: %w", err)
	}

	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, cfg.Validate()
}

type lookupFunc func(key string) (string, bool)

func applyEnv(cfg *Config, lookup lookupFunc) error {
	if v, ok := lookup("RBF_ADDR"); ok {
		cfg.Server.Addr = v
	}
	if v, ok := lookup("RBF_PUBLIC_ORIGIN"); ok {
		cfg.Share.Origin = strings.TrimSuffix(v, "/")
	}
	if v, ok := lookup("RBF_PUBLIC_PATH"); ok {
		cfg.Share.Path = v
	}
	if v, ok := lookup("RBF_REDIS_ADDR"); ok {
		cfg.Cache.RedisAddr = v
	}
	if v, ok := lookup("RBF_LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("OPENAI_API_KEY"); ok {
		cfg.OpenAIKey = v
	}

	if v, ok := lookup("RBF_RATE_LIMIT"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RBF_RATE_LIMIT: %w", err)
		}
		cfg.RateLimit.Capacity = n
	}
	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"RBF_RATE_WINDOW", &cfg.RateLimit.Window},
		{"RBF_CACHE_TTL", &cfg.Cache.TTL},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return errors.New("server address must not be empty")
	}
	if c.RateLimit.Capacity <= 0 {
		return fmt.Errorf("rate limit capacity must be positive, got %d", c.RateLimit.Capacity)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rate limit window must be positive, got %s", c.RateLimit.Window)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache ttl must not be negative, got %s", c.Cache.TTL)
	}
	if _, err := ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// ParseLevel maps debug|info|warn|error onto slog levels.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}
