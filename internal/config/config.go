package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	DatabasePath    string        `env:"DATABASE_PATH" envDefault:"./data/family-chores.db"`
	SessionSecret   string        `env:"SESSION_SECRET"`
	ChildSessionTTL time.Duration `env:"CHILD_SESSION_TTL" envDefault:"12h"`
	Port            string        `env:"PORT" envDefault:"8080"`
}

func Load() (Config, error) {
	var config Config
	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	if config.SessionSecret == "" {
		return Config{}, fmt.Errorf("SESSION_SECRET is required")
	}

	return config, nil
}
