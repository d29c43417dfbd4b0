package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// FileName is the config file created in the user's home directory.
const FileName = ".charm-wallet-connect.json"

// Config represents the application configuration
type Config struct {
	Endpoints []Endpoint `json:"endpoints"`
	Logger    bool       `json:"logger"`
}

// Endpoint is a wallet JSON-RPC endpoint the app can connect to
type Endpoint struct {
	Name   string `json:"name"`
	URL    string `json:"url"`
	Active bool   `json:"active"`
}

// DefaultPath returns the config path in the user's home directory
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, FileName)
}

// Load reads the config from the specified path
func Load(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}

	return cfg
}

// Save writes the config to the specified path
func Save(path string, cfg Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns a new configuration with sensible defaults
func DefaultConfig() Config {
	return Config{
		Endpoints: []Endpoint{
			{
				Name:   "Frame",
				URL:    "http://127.0.0.1:1248",
				Active: true,
			},
			{
				Name: "Local node",
				URL:  "http://127.0.0.1:8545",
			},
		},
		Logger: false,
	}
}

// LoadOrCreate loads config from path, or creates a default one if not found
func LoadOrCreate(path string) Config {
	data, err := os.ReadFile(path)
	if err != nil {
		cfg := DefaultConfig()
		_ = Save(path, cfg)
		return cfg
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig()
	}

	return cfg
}

// Active returns the active endpoint, falling back to the first one
func (c Config) Active() (Endpoint, bool) {
	for _, e := range c.Endpoints {
		if e.Active {
			return e, true
		}
	}
	if len(c.Endpoints) > 0 {
		return c.Endpoints[0], true
	}
	return Endpoint{}, false
}

// Activate marks the endpoint with url as the only active one
func (c *Config) Activate(url string) bool {
	found := false
	for i := range c.Endpoints {
		c.Endpoints[i].Active = c.Endpoints[i].URL == url
		if c.Endpoints[i].Active {
			found = true
		}
	}
	return found
}

// Use makes url the active endpoint, adding it under name if it is not
// listed yet.
func (c *Config) Use(url, name string) {
	if c.Activate(url) {
		return
	}
	c.Endpoints = append(c.Endpoints, Endpoint{Name: name, URL: url, Active: true})
}
