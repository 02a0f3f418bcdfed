package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "http://localhost:9000", cfg.MedusaBaseURL)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 168, cfg.SessionTTL)
	assert.Equal(t, 24, cfg.JWTExpiryHours)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"*"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, 10, cfg.RateLimitRPS)
	assert.False(t, cfg.OTELEnabled)
	assert.Equal(t, 1.0, cfg.OTELSampleRate)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "9999")
	t.Setenv("MEDUSA_BASE_URL", "https://commerce.example.com")
	t.Setenv("SESSION_TTL_HOURS", "24")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.HTTPPort)
	assert.Equal(t, "https://commerce.example.com", cfg.MedusaBaseURL)
	assert.Equal(t, 24, cfg.SessionTTL)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("STOREFRONT_HTTP_PORT", "70000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid HTTP port")
}

func TestLoad_InvalidBaseURL(t *testing.T) {
	t.Setenv("MEDUSA_BASE_URL", "localhost:9000")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MEDUSA_BASE_URL")
}

func TestLoad_InvalidSessionTTL(t *testing.T) {
	t.Setenv("SESSION_TTL_HOURS", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SESSION_TTL_HOURS")
}

func TestLoad_DefaultJWTSecretRejectedOutsideDevelopment(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestLoad_CustomJWTSecretAcceptedInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "a-real-secret")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
}

func TestLoad_InvalidOTELSampleRate(t *testing.T) {
	t.Setenv("OTEL_SAMPLE_RATE", "1.5")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OTEL_SAMPLE_RATE")
}
