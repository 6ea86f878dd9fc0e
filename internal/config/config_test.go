package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, []string{"page-1", "page-2", "complex-page", "multipage"}, cfg.Pages)
	assert.Equal(t, CacheSimple, cfg.CacheType)
	assert.Equal(t, 60*time.Second, cfg.CacheDefaultTimeout)
	assert.Equal(t, time.Minute, cfg.CacheEvictionInterval)
	assert.Equal(t, 3, cfg.FetchAttempts)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Contains(t, cfg.GapminderURL, "gapminderDataFiveYear.csv")
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DASH_PAGES", "complex-page multipage")
	t.Setenv("CACHE_TYPE", "redis")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	t.Setenv("CACHE_DEFAULT_TIMEOUT", "5m")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, []string{"complex-page", "multipage"}, cfg.Pages)
	assert.Equal(t, CacheRedis, cfg.CacheType)
	assert.Equal(t, "redis://localhost:6379/0", cfg.RedisURL)
	assert.Equal(t, 5*time.Minute, cfg.CacheDefaultTimeout)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{"redis without url", map[string]string{"CACHE_TYPE": "redis"}, "REDIS_URL is required when CACHE_TYPE is redis"},
		{"unknown cache", map[string]string{"CACHE_TYPE": "memcached"}, `CACHE_TYPE must be simple or redis, got "memcached"`},
		{"bad log format", map[string]string{"LOG_FORMAT": "xml"}, `LOG_FORMAT must be text or json, got "xml"`},
		{"no fetch attempts", map[string]string{"FETCH_ATTEMPTS": "0"}, "FETCH_ATTEMPTS must be at least 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Equal(t, tt.wantErr, err.Error())
		})
	}
}
