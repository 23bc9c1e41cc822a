// Package config loads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Prefix is prepended to every variable name, as in ADMINGEN_PORT.
const Prefix = "ADMINGEN"

// Config groups are embedded so each variable is named Prefix_<tag>.
type Config struct {
	AppConfig
	HTTPConfig
	DatabaseConfig
	RedisConfig
	RateLimitConfig
	OutputConfig
}

type AppConfig struct {
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Port int `envconfig:"PORT" default:"8080"`

	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	// Only enable it behind a proxy that overwrites those headers.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`
}

func (c HTTPConfig) ListenAddr() string {
	return fmt.Sprintf(":%d", c.Port)
}

type DatabaseConfig struct {
	DatabaseURL string `envconfig:"DATABASE_URL" default:"file:admingen.db"`
}

// RedisConfig enables the shared artifact cache when Addr is set.
type RedisConfig struct {
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
	CacheTTL      time.Duration `envconfig:"CACHE_TTL" default:"1h"`
}

func (c RedisConfig) RedisEnabled() bool { return c.RedisAddr != "" }

type RateLimitConfig struct {
	RateLimitRPS   float64 `envconfig:"RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int     `envconfig:"RATE_LIMIT_BURST" default:"10"`
}

type OutputConfig struct {
	OutDir string `envconfig:"OUT_DIR" default:"."`
}

// Load reads an optional .env file, then the environment.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv reads the environment only.
func FromEnv() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process env config: %w", err)
	}
	if cfg.RateLimitRPS <= 0 || cfg.RateLimitBurst <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got rps=%v burst=%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	return &cfg, nil
}
