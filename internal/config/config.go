// Package config holds the storefront service configuration, loaded from
// environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/sareehouse/storefront/pkg/config"
)

// Config is the full service configuration.
type Config struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	HTTPPort    int    `env:"HTTP_PORT" envDefault:"8084"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// CatalogAPIURL is the root of the remote catalog REST API,
	// e.g. "https://catalog.example.com/api".
	CatalogAPIURL     string        `env:"CATALOG_API_URL,required"`
	CatalogTimeout    time.Duration `env:"CATALOG_TIMEOUT" envDefault:"30s"`
	CatalogMaxRetries int           `env:"CATALOG_MAX_RETRIES" envDefault:"3"`

	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"60s"`
	SuccessWindow time.Duration `env:"MUTATION_SUCCESS_WINDOW" envDefault:"2s"`

	// RedisAddr empty means the in-memory store is used; wishlist and
	// session state then do not survive a restart.
	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// KafkaBrokers empty disables mutation event publishing.
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	KafkaTopic   string   `env:"KAFKA_TOPIC" envDefault:"catalog-events"`

	JWTSecret string        `env:"JWT_SECRET,required"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"24h"`

	// AdminAPIKey is the fallback shared secret for catalog deployments
	// whose login response does not issue one.
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	LoginRateLimit int `env:"LOGIN_RATE_LIMIT" envDefault:"5"`
	LoginRateBurst int `env:"LOGIN_RATE_BURST" envDefault:"10"`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`

	TracingEnabled    bool    `env:"TRACING_ENABLED" envDefault:"false"`
	TracingEndpoint   string  `env:"TRACING_ENDPOINT" envDefault:"localhost:4318"`
	TracingSampleRate float64 `env:"TRACING_SAMPLE_RATE" envDefault:"1.0"`

	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"15s"`
}

// Load reads the configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("HTTP_PORT must be in (0, 65535], got %d", c.HTTPPort)
	}
	if len(c.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 bytes")
	}
	if c.CacheTTL <= 0 {
		return fmt.Errorf("CACHE_TTL must be positive")
	}
	if c.LoginRateLimit <= 0 || c.LoginRateBurst <= 0 {
		return fmt.Errorf("login rate limit and burst must be positive")
	}
	return nil
}
