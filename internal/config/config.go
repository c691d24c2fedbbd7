// Package config holds the cart service configuration.
package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/utafrali/storefront/pkg/config"
	"github.com/utafrali/storefront/pkg/database"
	"github.com/utafrali/storefront/pkg/tracing"
)

// Cart store backends.
const (
	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// Catalog backends.
const (
	CatalogMemory   = "memory"
	CatalogPostgres = "postgres"
	CatalogHTTP     = "http"
)

// ServiceName tags logs, traces and metrics.
const ServiceName = "cart-service"

// Config holds all configuration for the cart service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"CART_HTTP_PORT" envDefault:"8003"`

	// Cart storage
	Store                 string `env:"CART_STORE" envDefault:"redis"`
	CartTTLHours          int    `env:"CART_TTL_HOURS" envDefault:"168"`
	EnforceQuantityBounds bool   `env:"CART_ENFORCE_QUANTITY_BOUNDS" envDefault:"false"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Catalog
	CatalogBackend string `env:"CATALOG_BACKEND" envDefault:"memory"`
	CatalogURL     string `env:"CATALOG_URL" envDefault:"http://localhost:8001"`

	// PostgreSQL, used by the postgres catalog backend
	PostgresHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort     int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser     string `env:"POSTGRES_USER" envDefault:"storefront"`
	PostgresPassword string `env:"POSTGRES_PASSWORD" envDefault:""`
	PostgresSSLMode  string `env:"POSTGRES_SSLMODE" envDefault:"disable"`
	CatalogDBName    string `env:"CATALOG_DB_NAME" envDefault:"storefront_catalog"`

	// Kafka
	KafkaBrokers  []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`
	EventsEnabled bool     `env:"EVENTS_ENABLED" envDefault:"false"`

	// Auth. An empty secret treats every request as a guest.
	JWTSecret string `env:"JWT_SECRET" envDefault:""`

	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`
	PprofAllowedCIDRs  []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"127.0.0.1/32,::1/128" envSeparator:","`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load cart config: %w", err)
	}
	return cfg, nil
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	switch c.Store {
	case StoreRedis, StoreMemory:
	default:
		return fmt.Errorf("CART_STORE must be %q or %q, got %q", StoreRedis, StoreMemory, c.Store)
	}
	if c.CartTTLHours < 1 {
		return fmt.Errorf("CART_TTL_HOURS must be positive, got %d", c.CartTTLHours)
	}
	switch c.CatalogBackend {
	case CatalogMemory, CatalogPostgres:
	case CatalogHTTP:
		if c.CatalogURL == "" {
			return fmt.Errorf("CATALOG_URL is required for the http catalog backend")
		}
	default:
		return fmt.Errorf("CATALOG_BACKEND must be memory, postgres or http, got %q", c.CatalogBackend)
	}
	if c.EventsEnabled && len(c.KafkaBrokers) == 0 {
		return fmt.Errorf("KAFKA_BROKERS is required when EVENTS_ENABLED is set")
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %g", c.OTELSampleRate)
	}
	return nil
}

// CartTTL is the idle lifetime of a stored cart.
func (c *Config) CartTTL() time.Duration {
	return time.Duration(c.CartTTLHours) * time.Hour
}

// Postgres returns the catalog database settings.
func (c *Config) Postgres() database.PostgresConfig {
	pg := database.DefaultPostgresConfig()
	pg.Host = c.PostgresHost
	pg.Port = c.PostgresPort
	pg.User = c.PostgresUser
	pg.Password = c.PostgresPassword
	pg.DBName = c.CatalogDBName
	pg.SSLMode = c.PostgresSSLMode
	return pg
}

// Redis returns the cart store settings.
func (c *Config) Redis() database.RedisConfig {
	return database.RedisConfig{Addr: c.RedisAddr, Password: c.RedisPass, DB: c.RedisDB}
}

// Tracing returns the OpenTelemetry settings.
func (c *Config) Tracing() tracing.Config {
	t := tracing.DefaultConfig(ServiceName)
	t.Environment = c.Environment
	t.Enabled = c.OTELEnabled
	t.OTLPEndpoint = c.OTELEndpoint
	t.SampleRate = c.OTELSampleRate
	return t
}
