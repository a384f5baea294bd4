package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("TDC_CONFIG_DIR", t.TempDir())
	t.Setenv("TDC_JWT_SECRET", "from-env")
	t.Setenv("TDC_API_KEY", "key-from-env")

	v, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "key-from-env", cfg.API.Key)
	assert.Equal(t, "x-api-key", cfg.API.Header)
	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiration)
	assert.True(t, cfg.Reservation.AtomicCapacity)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "log", cfg.Notify.Driver)
	assert.Equal(t, ":8080", cfg.GetServerAddress())
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `
server:
  port: "9090"
database:
  driver: memory
jwt:
  secret: file-secret
  expiration: 2h
api:
  key: file-key
reservation:
  atomic_capacity: false
community:
  links:
    discord: https://discord.gg/abc
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o600))
	t.Setenv("TDC_CONFIG_DIR", dir)

	v, err := LoadConfig()
	require.NoError(t, err)
	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "memory", cfg.Database.Driver)
	assert.Equal(t, 2*time.Hour, cfg.JWT.Expiration)
	assert.False(t, cfg.Reservation.AtomicCapacity)
	assert.Equal(t, "https://discord.gg/abc", cfg.Community.Links["discord"])
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Database: DatabaseConfig{Driver: "memory"},
			JWT:      JWTConfig{Secret: "s", Expiration: time.Hour},
			API:      APIConfig{Key: "k", Header: "x-api-key"},
			Notify:   NotifyConfig{Driver: "none"},
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty secret", func(c *Config) { c.JWT.Secret = "" }},
		{"zero expiration", func(c *Config) { c.JWT.Expiration = 0 }},
		{"empty api key", func(c *Config) { c.API.Key = "" }},
		{"empty api header", func(c *Config) { c.API.Header = "" }},
		{"unknown database", func(c *Config) { c.Database.Driver = "mongo" }},
		{"unknown notifier", func(c *Config) { c.Notify.Driver = "smtp" }},
	}

	base := valid()
	require.NoError(t, base.Validate())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
}
