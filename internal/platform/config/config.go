// Package config loads process-wide configuration from environment variables.
// Components receive values from here at startup instead of reading the
// environment ambiently.
package config

import (
	"errors"
	"fmt"
	"os"
)

// Config holds all runtime configuration for the server process.
type Config struct {
	// Port is the HTTP listen port (default "8080").
	Port string

	// JWTSecret signs and verifies bearer tokens. It must be set; the
	// process refuses to start without it.
	JWTSecret string

	// RunMigrations enables GORM AutoMigrate at startup.
	RunMigrations bool

	DB    DBConfig
	Redis RedisConfig
}

// DBConfig holds MySQL connection settings.
type DBConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string

	// Instance is a Cloud SQL unix socket name. When set, it takes
	// precedence over Host/Port.
	Instance string
}

// DSN returns the MySQL DSN for GORM.
func (c DBConfig) DSN() string {
	if c.Instance != "" {
		return fmt.Sprintf("%s:%s@unix(/cloudsql/%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			c.User, c.Password, c.Instance, c.Name)
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
		c.User, c.Password, c.Host, c.Port, c.Name)
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Host     string
	Port     string
	Password string
}

// Addr returns the host:port address for the Redis client.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Enabled reports whether a Redis host is configured at all.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

// Load reads configuration from environment variables.
// It fails when JWT_SECRET is missing so that a misconfigured process never
// serves requests with an empty signing secret.
func Load() (*Config, error) {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		return nil, errors.New("JWT_SECRET is not set")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	return &Config{
		Port:          port,
		JWTSecret:     secret,
		RunMigrations: os.Getenv("RUN_MIGRATIONS") == "true",
		DB: DBConfig{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     os.Getenv("DB_HOST"),
			Port:     os.Getenv("DB_PORT"),
			Name:     os.Getenv("DB_NAME"),
			Instance: os.Getenv("INSTANCE_CONNECTION_NAME"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     os.Getenv("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
	}, nil
}
