package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/BaGreal2/movieweb/internal/db"
	"github.com/joho/godotenv"
)

// Backends accepted in DATA_BACKEND.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendJSON     = "json"
)

// DatabaseConfig selects and locates the store.
type DatabaseConfig struct {
	Backend      string
	DatabasePath string
	DatabaseURL  string
	JSONDataFile string
}

type Config struct {
	DatabaseConfig

	Port           string
	OMDbAPIKey     string
	OMDbURL        string
	OMDbRatePerSec float64
	JWTSecret      string
}

// LoadEnv reads a .env file from the working directory when there is one.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found, relying on system environment variables")
	}
}

// LoadDatabase reads only the store settings from the environment.
func LoadDatabase() (DatabaseConfig, error) {
	d := readDatabase()
	if err := d.validate(); err != nil {
		return DatabaseConfig{}, err
	}
	return d, nil
}

func readDatabase() DatabaseConfig {
	return DatabaseConfig{
		Backend:      getEnvOrDefault("DATA_BACKEND", BackendSQLite),
		DatabasePath: getEnvOrDefault("DATABASE_PATH", "data/database_file.db"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JSONDataFile: getEnvOrDefault("JSON_DATA_FILE", "data/users_data.json"),
	}
}

// SQL returns the dialect and DSN of a relational backend.
func (d DatabaseConfig) SQL() (db.Dialect, string, error) {
	switch d.Backend {
	case BackendSQLite:
		return db.SQLite, d.DatabasePath, nil
	case BackendPostgres:
		return db.Postgres, d.DatabaseURL, nil
	default:
		return "", "", fmt.Errorf("backend %q is not a SQL database", d.Backend)
	}
}

func (d DatabaseConfig) validate() error {
	switch d.Backend {
	case BackendSQLite, BackendJSON:
		return nil
	case BackendPostgres:
		if d.DatabaseURL == "" {
			return errors.New("DATABASE_URL not set for postgres backend")
		}
		return nil
	default:
		return fmt.Errorf("unknown DATA_BACKEND %q", d.Backend)
	}
}

// Load builds the server configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseConfig: readDatabase(),
		Port:           getEnvOrDefault("PORT", "8080"),
		OMDbAPIKey:     os.Getenv("OMDB_API_KEY"),
		OMDbURL:        getEnvOrDefault("OMDB_URL", "https://www.omdbapi.com/"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
	}

	rate, err := strconv.ParseFloat(getEnvOrDefault("OMDB_RATE_PER_SEC", "5"), 64)
	if err != nil || rate < 0 {
		return nil, fmt.Errorf("invalid OMDB_RATE_PER_SEC %q", os.Getenv("OMDB_RATE_PER_SEC"))
	}
	cfg.OMDbRatePerSec = rate

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET not set"))
	}
	if c.OMDbAPIKey == "" {
		errs = append(errs, errors.New("OMDB_API_KEY not set"))
	}
	if err := c.DatabaseConfig.validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
