package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported record store backends
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string   `yaml:"port" env:"SERVER_PORT"`
		Mode           string   `yaml:"mode" env:"SERVER_MODE"`
		StaticPath     string   `yaml:"static_path" env:"SERVER_STATIC_PATH"`
		AllowedOrigins []string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
	} `yaml:"server"`

	Database struct {
		Driver            string `yaml:"driver" env:"DB_DRIVER"`
		Host              string `yaml:"host" env:"DB_HOST"`
		Port              string `yaml:"port" env:"DB_PORT"`
		User              string `yaml:"user" env:"DB_USER"`
		Password          string `yaml:"password" env:"DB_PASSWORD"`
		DBName            string `yaml:"dbname" env:"DB_NAME"`
		SSLMode           string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns      int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns      int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime   string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsPath    string `yaml:"migrations_path" env:"DB_MIGRATIONS_PATH"`
		MongoURI          string `yaml:"mongo_uri" env:"MONGODB_URI"`
		MongoDatabase     string `yaml:"mongo_database" env:"MONGODB_DATABASE"`
		MongoTransactions bool   `yaml:"mongo_transactions" env:"MONGODB_TRANSACTIONS"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables, in that order of precedence
// from lowest to highest.
func LoadConfig(configPath string) (*Config, error) {
	// Load default config with sane defaults
	config := &Config{}
	setDefaults(config)

	// Try to read config file if it exists
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// .env is optional; variables already set in the environment win
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "5000"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = []string{"*"}

	// Database defaults
	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "student_course_management"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsPath = "migrations"
	config.Database.MongoURI = "mongodb://localhost:27017"
	config.Database.MongoDatabase = "student_course_management"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnv(config)
}

// validateConfig reports every problem found, not only the first
func validateConfig(config *Config) error {
	var errs []error

	if config.Server.Port == "" {
		errs = append(errs, errors.New("server port is required"))
	}

	drivers := []string{DriverPostgres, DriverMongo, DriverMemory}
	switch db := config.Database; db.Driver {
	case DriverPostgres:
		if db.Host == "" {
			errs = append(errs, errors.New("database host is required"))
		}
		if _, err := time.ParseDuration(db.ConnMaxLifetime); err != nil {
			errs = append(errs, fmt.Errorf("invalid database conn_max_lifetime: %w", err))
		}
	case DriverMongo:
		if db.MongoURI == "" {
			errs = append(errs, errors.New("mongo uri is required"))
		}
		if db.MongoDatabase == "" {
			errs = append(errs, errors.New("mongo database name is required"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q (want one of %s)", db.Driver, strings.Join(drivers, ", ")))
	}

	return errors.Join(errs...)
}

// GetPostgresConnectionString returns the pgx connection URL, with credentials escaped
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Mode == "production" || c.Server.Mode == "release"
}
