package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsDesarrollo(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 8000, cfg.Port)
	// An unconfigured dev run must never sign sessions with an empty key.
	assert.NotEmpty(t, cfg.SessionSecret)
}

func TestLoad_ProduccionSinSessionSecretFalla(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_SECRET")
}

func TestLoad_ProduccionConSessionSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "prod-secret-32-chars-minimum!!!!")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "prod-secret-32-chars-minimum!!!!", cfg.SessionSecret)
}
