package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("METRICS_CSV_PATH", "")
	t.Setenv("CACHE_ENABLED", "")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/hospital_trends.csv", cfg.Data.MetricsPath)
	assert.True(t, cfg.Data.WriteBack)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.ListenAddr())
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
}

func TestLoad_MetricsAndCacheOverrides(t *testing.T) {
	t.Setenv("METRICS_CSV_PATH", "/srv/data/trends.csv")
	t.Setenv("METRICS_WRITE_BACK", "false")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("SERVER_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/data/trends.csv", cfg.Data.MetricsPath)
	assert.False(t, cfg.Data.WriteBack)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 60, cfg.Cache.TTLSeconds)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestLoad_InvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "not-a-port")
	t.Setenv("TYPESENSE_ENABLED", "maybe")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.False(t, cfg.Typesense.Enabled)
}

func TestLoad_RejectsNonPositiveTTL(t *testing.T) {
	t.Setenv("CACHE_TTL_SECONDS", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_TypesenseConfig(t *testing.T) {
	t.Setenv("TYPESENSE_URL", "http://test-typesense:8108")
	t.Setenv("TYPESENSE_API_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://test-typesense:8108", cfg.Typesense.URL)
	assert.Equal(t, "test-key", cfg.Typesense.APIKey)
}

func TestLoad_AllowedOrigins(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://ops.example.org, ,https://dash.example.org")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"https://ops.example.org", "https://dash.example.org"}, cfg.Server.AllowedOrigins)

	t.Setenv("ALLOWED_ORIGINS", " , ")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
}
