package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
	assert.Equal(t, "http://localhost:8080/api", cfg.APIBase())
	assert.Equal(t, 15*time.Second, cfg.LocationInterval)
}

func TestLoadFileAndEnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "client.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"backend_url: https://food.example.com/\nlocation_interval: 5s\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://food.example.com", cfg.BackendURL)
	assert.Equal(t, 5*time.Second, cfg.LocationInterval)

	t.Setenv("BACKEND_URL", "http://override.example.com")
	t.Setenv("LOCATION_INTERVAL", "1m")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://override.example.com", cfg.BackendURL)
	assert.Equal(t, time.Minute, cfg.LocationInterval)
}

func TestLoadMissingFileIsFine(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.BackendURL)
}

func TestWebSocketURLMirrorsScheme(t *testing.T) {
	cfg := &Config{BackendURL: "http://food.example.com"}
	assert.Equal(t, "ws://food.example.com/ws/driver_u1", cfg.WebSocketURL("driver", "u1"))

	cfg.BackendURL = "https://food.example.com"
	assert.Equal(t, "wss://food.example.com/ws/customer_u2", cfg.WebSocketURL("customer", "u2"))
}
