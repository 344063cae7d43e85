package config

import (
	"flag"
	"fmt"
	"net/url"

	"github.com/caarlos0/env/v8"
)

type Config struct {
	Address             string `env:"RUN_ADDRESS"`
	DatabaseURI         string `env:"DATABASE_URI"`
	PaymentAPIAddress   string `env:"PAYMENT_API_ADDRESS"`
	PaymentClientID     string `env:"PAYMENT_CLIENT_ID"`
	PaymentClientSecret string `env:"PAYMENT_CLIENT_SECRET"`
}

func NewConfig() (Config, error) {
	config := Config{}

	config.parseFlags()

	if err := env.Parse(&config); err != nil {
		return Config{}, err
	}

	if err := config.validateConfig(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func (c *Config) parseFlags() {
	flag.StringVar(&c.Address, "a", c.Address, "Service address")
	flag.StringVar(&c.DatabaseURI, "d", c.DatabaseURI, "Database URI")
	flag.StringVar(&c.PaymentAPIAddress, "p", c.PaymentAPIAddress, "Payment API address")

	flag.Parse()
}

func (c *Config) validateConfig() error {
	for _, URI := range []string{c.Address, c.PaymentAPIAddress} {
		_, err := url.ParseRequestURI(URI)
		if err != nil {
			return err
		}
	}

	return nil
}

// SweepConfig configures the cancel-expired-orders batch entry point.
type SweepConfig struct {
	DatabaseURI string `env:"DATABASE_URI"`
	Hours       int
	DryRun      bool
}

func NewSweepConfig() (SweepConfig, error) {
	config := SweepConfig{}

	flag.StringVar(&config.DatabaseURI, "d", config.DatabaseURI, "Database URI")
	flag.IntVar(&config.Hours, "hours", 24, "Cancel orders awaiting payment for more than this many hours")
	flag.BoolVar(&config.DryRun, "dry-run", false, "Report matching orders without cancelling them")

	flag.Parse()

	if err := env.Parse(&config); err != nil {
		return SweepConfig{}, err
	}

	if config.Hours <= 0 {
		return SweepConfig{}, fmt.Errorf("hours must be positive, got %d", config.Hours)
	}

	return config, nil
}
