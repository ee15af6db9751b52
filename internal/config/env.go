package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Env holds process-level settings read from the environment. Secrets
// (session secret, OAuth credentials, OpenAI key) are read where used.
type Env struct {
	ConfigPath string `env:"TOWERFLIP_CONFIG" envDefault:"./towerflip_config.yaml"`
	DBPath     string `env:"TOWERFLIP_DB" envDefault:"./data/towerflip.db"`
}

// ParseEnv loads process configuration from environment variables.
func ParseEnv() (*Env, error) {
	var e Env
	if err := env.Parse(&e); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &e, nil
}
