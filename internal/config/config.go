package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
)

// Config holds the application configuration
type Config struct {
	// HTTP server port
	Port string

	// UseFixtures selects the static fixture dataset instead of Postgres.
	// The selection is fixed for the process lifetime.
	UseFixtures bool

	// Postgres configuration
	PostgresHost     string
	PostgresPort     int
	PostgresDatabase string
	PostgresUser     string
	PostgresPassword string
	PostgresSSLMode  string
}

// LoadFromEnv loads configuration from environment variables. Missing
// Postgres settings are a hard error unless fixtures are enabled: the
// process fails fast instead of running against a placeholder backend.
func LoadFromEnv() (*Config, error) {
	config := &Config{}

	config.Port = os.Getenv("PORT")
	if config.Port == "" {
		config.Port = "8080"
	}

	// Use fixture dataset (default: false)
	config.UseFixtures = os.Getenv("USE_FIXTURES") == "true"

	// Postgres configuration (required if not using fixtures)
	if !config.UseFixtures {
		config.PostgresHost = os.Getenv("POSTGRES_HOST")
		if config.PostgresHost == "" {
			return nil, fmt.Errorf("POSTGRES_HOST is required when USE_FIXTURES is not set")
		}

		portStr := os.Getenv("POSTGRES_PORT")
		if portStr == "" {
			config.PostgresPort = 5432
		} else {
			port, err := strconv.Atoi(portStr)
			if err != nil {
				return nil, fmt.Errorf("invalid POSTGRES_PORT: %w", err)
			}
			config.PostgresPort = port
		}

		config.PostgresDatabase = os.Getenv("POSTGRES_DATABASE")
		if config.PostgresDatabase == "" {
			config.PostgresDatabase = "maktaba"
		}

		config.PostgresUser = os.Getenv("POSTGRES_USER")
		if config.PostgresUser == "" {
			config.PostgresUser = "postgres"
		}

		config.PostgresPassword = os.Getenv("POSTGRES_PASSWORD")
		// Password is optional, can be empty

		config.PostgresSSLMode = os.Getenv("POSTGRES_SSLMODE")
		if config.PostgresSSLMode == "" {
			config.PostgresSSLMode = "disable"
		}
	}

	return config, nil
}

// PostgresDSN renders the connection string for the configured backend.
func (c *Config) PostgresDSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDatabase,
	}
	q := u.Query()
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}
