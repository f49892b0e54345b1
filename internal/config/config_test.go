package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, DefaultPort, cfg.Port)
	assert.Equal(t, DefaultHTTPTimeoutSeconds, cfg.HTTPTimeoutSeconds)
	assert.Equal(t, DefaultCapacityCacheSize, cfg.CapacityCacheSize)
	assert.Equal(t, DefaultCapacityCacheTTLSeconds, cfg.CapacityCacheTTLSeconds)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://warehouse.internal:9000")
	t.Setenv("PORT", "7001")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://warehouse.internal:9000", cfg.APIBaseURL)
	assert.Equal(t, 7001, cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadRejectsMalformedInt(t *testing.T) {
	t.Setenv("PORT", "not-a-number")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
}

func TestLoadRejectsEmptyBaseURL(t *testing.T) {
	t.Setenv("API_BASE_URL", "")

	_, err := Load()
	require.Error(t, err)
}
