package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Precision is the environment view of the numeric settings.
type Precision struct {
	Float string `env:"PINN_FLOAT" envDefault:"float32"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// LoadFromEnv reads PINN_FLOAT and applies it as the global precision.
func LoadFromEnv() error {
	var p Precision
	if err := ParseEnv(&p); err != nil {
		return err
	}
	return SetDefaultFloat(p.Float)
}
