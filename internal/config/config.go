// Package config loads server configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the full server configuration. DatabaseURL empty selects the
// in-memory store; RedisAddr empty disables cross-instance notifications.
type Config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	LockTimeout   time.Duration `env:"LOCK_TIMEOUT" envDefault:"3s"`
}

// Load reads .env when present, then parses the environment.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
