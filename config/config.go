package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the client needs to talk to the platform.
type Config struct {
	// BackendURL is the platform origin, e.g. https://food.example.com.
	// The HTTP API lives under {BackendURL}/api, the notification channel
	// under {BackendURL}/ws with the scheme switched to ws/wss.
	BackendURL string `yaml:"backend_url"`

	// StateDB is the sqlite file holding the persisted auth token.
	StateDB string `yaml:"state_db"`

	// LocationInterval is how often the driver panel reports a position fix.
	LocationInterval time.Duration `yaml:"-"`

	// RawLocationInterval is the yaml form of LocationInterval ("15s", "1m").
	RawLocationInterval string `yaml:"location_interval"`
}

// Load reads an optional YAML file and applies environment overrides.
// A missing file is not an error; environment variables always win.
func Load(path string) (*Config, error) {
	cfg := &Config{
		BackendURL:       "http://localhost:8080",
		StateDB:          "food_delivery_client.db",
		LocationInterval: 15 * time.Second,
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.BackendURL = getEnv("BACKEND_URL", cfg.BackendURL)
	cfg.StateDB = getEnv("STATE_DB", cfg.StateDB)
	if v := getEnv("LOCATION_INTERVAL", cfg.RawLocationInterval); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("parse location_interval: %w", err)
		}
		cfg.LocationInterval = d
	}

	cfg.BackendURL = strings.TrimRight(cfg.BackendURL, "/")
	return cfg, nil
}

// APIBase returns the root of the HTTP API.
func (c *Config) APIBase() string {
	return c.BackendURL + "/api"
}

// WebSocketURL builds the notification channel address for a user. The
// scheme mirrors the HTTP base: https becomes wss, http becomes ws.
func (c *Config) WebSocketURL(role, userID string) string {
	base := c.BackendURL
	switch {
	case strings.HasPrefix(base, "https://"):
		base = "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		base = "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base + "/ws/" + role + "_" + userID
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
