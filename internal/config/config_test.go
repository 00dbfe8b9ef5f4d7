package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "rate-my-study-spot", cfg.MongoDatabase)
	assert.Equal(t, "spots", cfg.SpotCollection)
	assert.Equal(t, "users", cfg.UserCollection)
	assert.Equal(t, 10*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	require.Len(t, cfg.JWTConfigs, 1)
	assert.Equal(t, "rate-my-study-spot-auth", cfg.JWTConfigs[0].Issuer)
	assert.Equal(t, []byte("test-secret"), cfg.JWTConfigs[0].Secret)
	assert.NotNil(t, cfg.ServerLog)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "current")
	t.Setenv("AUTH_JWT_SECRET_PREVIOUS", "previous")
	t.Setenv("AUTH_JWT_ISSUER", "campus-auth")
	t.Setenv("AUTH_JWT_AUDIENCE", "study-spot-api")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "30s")
	t.Setenv("API_ALLOWED_ORIGINS", "https://a.example.edu, https://b.example.edu ,")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "study-spot-api", cfg.JWTAudience)
	assert.Equal(t, []string{"https://a.example.edu", "https://b.example.edu"}, cfg.AllowedOrigins)

	require.Len(t, cfg.JWTConfigs, 2)
	assert.Equal(t, "campus-auth", cfg.JWTConfigs[0].Issuer)
	assert.Equal(t, []byte("current"), cfg.JWTConfigs[0].Secret)
	assert.Equal(t, []byte("previous"), cfg.JWTConfigs[1].Secret)
}

func TestLoadIgnoresInvalidTimeout(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "test-secret")
	t.Setenv("MONGO_CONNECT_TIMEOUT", "not-a-duration")

	cfg := Load()
	assert.Equal(t, 10*time.Second, cfg.Timeout)
}
