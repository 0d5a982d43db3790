package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ConfigYAML(t *testing.T) {
	path := filepath.Join("..", "..", "config.yaml")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Database.Host)
	assert.NotZero(t, cfg.RabbitMQ.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: sqlite
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "restaurant.db", cfg.Database.SQLitePath)
	assert.False(t, cfg.RabbitMQ.Enabled)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
database:
  driver: postgres
  host: db
  database: restaurant
`)
	t.Setenv("DATABASE_HOST", "override-host")
	t.Setenv("SERVER_PORT", "8081")
	t.Setenv("RABBITMQ_ENABLED", "false")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "override-host", cfg.Database.Host)
	assert.Equal(t, 8081, cfg.Server.Port)
	assert.Equal(t, ":8081", cfg.Addr())
}

func TestLoad_InvalidEnv(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")
	t.Setenv("SERVER_PORT", "not-a-number")

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"sqlite ok", func(c *Config) { c.Database.Driver = DriverSQLite }, false},
		{"postgres missing host", func(c *Config) { c.Database.Database = "x" }, true},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mysql" }, true},
		{"rabbit enabled without host", func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.RabbitMQ.Enabled = true
		}, true},
		{"bad port", func(c *Config) {
			c.Database.Driver = DriverSQLite
			c.Server.Port = 0
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestURLs(t *testing.T) {
	cfg := defaults()
	cfg.Database.User = "u"
	cfg.Database.Password = "p"
	cfg.Database.Host = "h"
	cfg.Database.Database = "d"
	cfg.RabbitMQ.User = "guest"
	cfg.RabbitMQ.Password = "guest"
	cfg.RabbitMQ.Host = "mq"

	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.DatabaseURL())
	assert.Equal(t, "amqp://guest:guest@mq:5672/", cfg.RabbitMQURL())
}
