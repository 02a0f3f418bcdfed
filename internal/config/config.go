package config

import (
	"fmt"
	"strings"

	pkgconfig "github.com/omarcisse97/codebycisse-commerce-client-sub000/pkg/config"
)

// Config holds all configuration for the storefront session service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Commerce backend
	MedusaBaseURL        string `env:"MEDUSA_BASE_URL" envDefault:"http://localhost:9000"`
	MedusaPublishableKey string `env:"MEDUSA_PUBLISHABLE_KEY" envDefault:""`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Session state TTL in hours (default: 7 days)
	SessionTTL int `env:"SESSION_TTL_HOURS" envDefault:"168"`

	// JWT session tokens
	JWTSecret      string `env:"JWT_SECRET" envDefault:"your-secret-key-change-in-production"`
	JWTExpiryHours int    `env:"JWT_EXPIRY_HOURS" envDefault:"24"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Rate limiting for auth endpoints
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" envDefault:"20"`

	// Pprof access
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if !strings.HasPrefix(c.MedusaBaseURL, "http://") && !strings.HasPrefix(c.MedusaBaseURL, "https://") {
		return fmt.Errorf("MEDUSA_BASE_URL must be an http(s) URL, got %q", c.MedusaBaseURL)
	}
	if c.SessionTTL < 1 {
		return fmt.Errorf("SESSION_TTL_HOURS must be at least 1, got %d", c.SessionTTL)
	}
	if c.JWTExpiryHours < 1 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be at least 1, got %d", c.JWTExpiryHours)
	}
	if c.Environment != "development" && c.JWTSecret == "your-secret-key-change-in-production" {
		return fmt.Errorf("JWT_SECRET must be changed from default value in %s environment", c.Environment)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}
