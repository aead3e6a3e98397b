package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, "./data/shopchat.db", cfg.Storage.Path)
	assert.Equal(t, 0, cfg.LogLevel)
}

func TestNewConfig_FromEnv(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("STORAGE_PATH", "/tmp/client.db")
	t.Setenv("LOG_LEVEL", "-4")

	cfg, err := NewConfig()
	require.NoError(t, err)

	assert.Equal(t, "https://shop.example.com", cfg.API.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.API.Timeout)
	assert.Equal(t, "/tmp/client.db", cfg.Storage.Path)
	assert.Equal(t, -4, cfg.LogLevel)
}

func TestNewConfig_InvalidTimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "not-a-duration")

	_, err := NewConfig()
	require.Error(t, err)
}
