package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config contains client configuration parameters.
type Config struct {
	LogLevel int     `env:"LOG_LEVEL" envDefault:"0"`
	API      API     `envPrefix:"API_"`
	Storage  Storage `envPrefix:"STORAGE_"`
}

// API contains backend endpoint parameters.
type API struct {
	BaseURL string        `env:"BASE_URL" envDefault:"http://localhost:8000"`
	Timeout time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

// Storage contains local durable storage parameters.
type Storage struct {
	Path string `env:"PATH" envDefault:"./data/shopchat.db"`
}

// NewConfig loads configuration from environment variables.
func NewConfig() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &cfg, nil
}
