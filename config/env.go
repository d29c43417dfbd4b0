package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Env holds overrides read from the environment.
type Env struct {
	WalletURL   string        `envconfig:"WALLET_URL"`
	Timeout     time.Duration `envconfig:"WALLET_TIMEOUT" default:"10s"`
	Logger      bool          `envconfig:"WALLET_LOGGER"`
	ConfigPath  string        `envconfig:"WALLET_CONFIG"`
	MetricsAddr string        `envconfig:"WALLET_METRICS_ADDR"`
}

// FromEnv reads Env from the process environment.
func FromEnv() (Env, error) {
	var env Env
	if err := envconfig.Process("", &env); err != nil {
		return Env{}, fmt.Errorf("failed to process environment: %w", err)
	}
	if env.ConfigPath == "" {
		env.ConfigPath = DefaultPath()
	}
	if env.Timeout <= 0 {
		return Env{}, fmt.Errorf("WALLET_TIMEOUT must be positive, got %s", env.Timeout)
	}
	return env, nil
}

// Resolve merges the file config with the environment. An empty endpoint
// list gets the defaults first; WALLET_URL then wins over the active endpoint
// and is added to the list if missing.
func Resolve(cfg Config, env Env) Config {
	if env.Logger {
		cfg.Logger = true
	}
	if len(cfg.Endpoints) == 0 {
		cfg.Endpoints = DefaultConfig().Endpoints
	}
	if env.WalletURL != "" {
		cfg.Use(env.WalletURL, "Environment")
	}
	return cfg
}
