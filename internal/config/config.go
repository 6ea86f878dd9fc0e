package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

const (
	CacheSimple = "simple"
	CacheRedis  = "redis"
)

type Config struct {
	AppEnv    string `env:"APP_ENV" default:"development"`
	Port      string `env:"PORT" default:"8080"`
	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	// Pages lists the page modules to load, in order.
	Pages []string `env:"DASH_PAGES" default:"page-1 page-2 complex-page multipage"`

	GapminderURL  string        `env:"GAPMINDER_URL" default:"https://raw.githubusercontent.com/plotly/datasets/master/gapminderDataFiveYear.csv"`
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" default:"30s"`
	FetchAttempts int           `env:"FETCH_ATTEMPTS" default:"3"`

	CacheType             string        `env:"CACHE_TYPE" default:"simple"`
	CacheDefaultTimeout   time.Duration `env:"CACHE_DEFAULT_TIMEOUT" default:"60s"`
	CacheEvictionInterval time.Duration `env:"CACHE_EVICTION_INTERVAL" default:"1m"`
	RedisURL              string        `env:"REDIS_URL"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if len(cfg.Pages) == 0 {
		return errors.New("DASH_PAGES must name at least one page")
	}
	if !slices.Contains([]string{"text", "json"}, cfg.LogFormat) {
		return fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}
	switch cfg.CacheType {
	case CacheSimple:
	case CacheRedis:
		if cfg.RedisURL == "" {
			return errors.New("REDIS_URL is required when CACHE_TYPE is redis")
		}
	default:
		return fmt.Errorf("CACHE_TYPE must be %s or %s, got %q", CacheSimple, CacheRedis, cfg.CacheType)
	}
	if cfg.FetchAttempts < 1 {
		return errors.New("FETCH_ATTEMPTS must be at least 1")
	}
	if cfg.CacheDefaultTimeout <= 0 || cfg.CacheEvictionInterval <= 0 {
		return errors.New("CACHE_DEFAULT_TIMEOUT and CACHE_EVICTION_INTERVAL must be positive")
	}
	return nil
}
