package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the restaurant service
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig holds database connection configuration
type DatabaseConfig struct {
	Driver     string `yaml:"driver"`
	Host       string `yaml:"host"`
	Port       int    `yaml:"port"`
	User       string `yaml:"user"`
	Password   string `yaml:"password"`
	Database   string `yaml:"database"`
	SQLitePath string `yaml:"sqlite_path"`
}

// RabbitMQConfig holds RabbitMQ connection configuration
type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            3000,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:     DriverPostgres,
			Port:       5432,
			SQLitePath: "restaurant.db",
		},
		RabbitMQ: RabbitMQConfig{
			Port: 5672,
		},
	}
}

// Load reads configuration from a YAML file, then applies a .env file
// next to the working directory (if any) and environment overrides
func Load(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	cfg := defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) applyEnv() error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	setInt := func(key string, dst *int) error {
		v, ok := os.LookupEnv(key)
		if !ok {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid %s value: %w", key, err)
		}
		*dst = n
		return nil
	}

	setString("DATABASE_DRIVER", &c.Database.Driver)
	setString("DATABASE_HOST", &c.Database.Host)
	setString("DATABASE_USER", &c.Database.User)
	setString("DATABASE_PASSWORD", &c.Database.Password)
	setString("DATABASE_NAME", &c.Database.Database)
	setString("SQLITE_PATH", &c.Database.SQLitePath)
	setString("RABBITMQ_HOST", &c.RabbitMQ.Host)
	setString("RABBITMQ_USER", &c.RabbitMQ.User)
	setString("RABBITMQ_PASSWORD", &c.RabbitMQ.Password)

	if err := setInt("DATABASE_PORT", &c.Database.Port); err != nil {
		return err
	}
	if err := setInt("RABBITMQ_PORT", &c.RabbitMQ.Port); err != nil {
		return err
	}
	if err := setInt("SERVER_PORT", &c.Server.Port); err != nil {
		return err
	}

	if v, ok := os.LookupEnv("RABBITMQ_ENABLED"); ok {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid RABBITMQ_ENABLED value: %w", err)
		}
		c.RabbitMQ.Enabled = enabled
	}

	return nil
}

// Validate checks that required values are present for the selected drivers
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" {
			return errors.New("database.host is required")
		}
		if c.Database.Database == "" {
			return errors.New("database.database is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return errors.New("database.sqlite_path is required")
		}
	default:
		return fmt.Errorf("unknown database driver: %q", c.Database.Driver)
	}

	if c.RabbitMQ.Enabled && c.RabbitMQ.Host == "" {
		return errors.New("rabbitmq.host is required when rabbitmq is enabled")
	}

	return nil
}

// DatabaseURL returns a PostgreSQL connection URL
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User, c.Database.Password, c.Database.Host, c.Database.Port, c.Database.Database)
}

// RabbitMQURL returns an AMQP connection URL
func (c *Config) RabbitMQURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/",
		c.RabbitMQ.User, c.RabbitMQ.Password, c.RabbitMQ.Host, c.RabbitMQ.Port)
}

// Addr returns the HTTP listen address
func (c *Config) Addr() string {
	return fmt.Sprintf(":%d", c.Server.Port)
}
