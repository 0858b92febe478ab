package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.RunAddr)
	assert.Equal(t, "http://localhost:8080", cfg.ShortURLBase)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Empty(t, cfg.DatabaseDSN)
	assert.Equal(t, "migrations", cfg.MigrationsDir)
	assert.Equal(t, "http://localhost:3000", cfg.CORSOrigin)
	assert.Equal(t, "shortlinks_auth", cfg.AuthCookieName)
	assert.Equal(t, 5*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, 7, cfg.ShortKeyLength)
}

func TestNewEnvironmentWins(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", "localhost:9090")
	t.Setenv("BASE_URL", "https://sho.rt")
	t.Setenv("AUTH_TOKEN_TTL", "30m")
	t.Setenv("SHORT_KEY_LENGTH", "12")

	cfg, err := New(WithDisableFlagsParsing(true))
	require.NoError(t, err)

	assert.Equal(t, "localhost:9090", cfg.RunAddr)
	assert.Equal(t, "https://sho.rt", cfg.ShortURLBase)
	assert.Equal(t, 30*time.Minute, cfg.AuthTokenTTL)
	assert.Equal(t, 12, cfg.ShortKeyLength)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	testCases := []struct {
		name     string
		envName  string
		envValue string
	}{
		{"bad log level", "LOG_LEVEL", "loudest"},
		{"bad base URL", "BASE_URL", "not a URL"},
		{"non-positive key length", "SHORT_KEY_LENGTH", "0"},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			t.Setenv(testCase.envName, testCase.envValue)

			_, err := New(WithDisableFlagsParsing(true))
			assert.Error(t, err)
		})
	}
}
