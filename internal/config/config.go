package config

import (
	"fmt"
	"time"

	pkgconfig "github.com/vuongng2212/DHKTPM18ATT-Nhom03-Watchify-sub001/pkg/config"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Catalog backend
	BackendURL     string        `env:"BACKEND_URL" envDefault:"http://localhost:8081"`
	BackendTimeout time.Duration `env:"BACKEND_TIMEOUT" envDefault:"30s"`

	// Session store (redis or memory)
	SessionStore string        `env:"SESSION_STORE" envDefault:"memory"`
	RedisAddr    string        `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisDB      int           `env:"REDIS_DB" envDefault:"0"`
	SessionTTL   time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Chat relay
	ChatDebounceWindow time.Duration `env:"CHAT_DEBOUNCE_WINDOW" envDefault:"300ms"`

	// Analytics events; empty brokers disable publishing
	KafkaBrokers []string `env:"KAFKA_BROKERS" envSeparator:","`

	// Rate limiting (requests per second per client IP, 0 disables)
	RateLimitRPS int `env:"RATE_LIMIT_RPS" envDefault:"0"`

	// CORS
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"*" envSeparator:","`

	// Tracing
	TracingEnabled bool    `env:"TRACING_ENABLED" envDefault:"false"`
	OTLPEndpoint   string  `env:"OTLP_ENDPOINT" envDefault:"localhost:4318"`
	TraceSampleRate float64 `env:"TRACE_SAMPLE_RATE" envDefault:"1.0"`
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
	if c.BackendURL == "" {
		return fmt.Errorf("backend URL is required")
	}
	if c.SessionStore != "memory" && c.SessionStore != "redis" {
		return fmt.Errorf("unknown session store %q", c.SessionStore)
	}
	if c.TraceSampleRate < 0 || c.TraceSampleRate > 1 {
		return fmt.Errorf("trace sample rate must be within [0, 1], got %v", c.TraceSampleRate)
	}
	return nil
}
