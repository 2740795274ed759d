package config_test

import (
	"testing"
	"time"

	"storefront/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SESSION_STORE", "")
	t.Setenv("API_BASE_URL", "")
	t.Setenv("NOTICE_TTL", "")
	t.Setenv("SESSION_IDLE_TTL", "")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.SessionStoreMemory, cfg.SessionStore)
	assert.Equal(t, "http://localhost:8081/api/v1", cfg.APIBaseURL)
	assert.Equal(t, 4*time.Second, cfg.NoticeTTL)
	assert.Equal(t, 30*time.Minute, cfg.IdleTTL)
}

func TestLoad_RedisRequiresAddr(t *testing.T) {
	t.Setenv("SESSION_STORE", "redis")
	t.Setenv("REDIS_ADDR", "")

	_, err := config.Load()
	assert.ErrorContains(t, err, "REDIS_ADDR is required")
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("API_TIMEOUT", "soon")

	_, err := config.Load()
	assert.ErrorContains(t, err, "API_TIMEOUT must be duration")
}

func TestLoad_TrimsBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com/api/v1/")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "https://shop.example.com/api/v1", cfg.APIBaseURL)
}

func TestLoad_IdleTTLCanBeDisabled(t *testing.T) {
	t.Setenv("SESSION_IDLE_TTL", "0s")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Zero(t, cfg.IdleTTL)
}
