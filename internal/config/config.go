package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port            string `yaml:"port" env:"SERVER_PORT"`
		Mode            string `yaml:"mode" env:"SERVER_MODE"`
		ReadTimeout     string `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT"`
		WriteTimeout    string `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT"`
		IdleTimeout     string `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT"`
		ShutdownTimeout string `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MinConns        int    `yaml:"min_conns" env:"DB_MIN_CONNS"`
		MaxConns        int    `yaml:"max_conns" env:"DB_MAX_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MigrationsDir   string `yaml:"migrations_dir" env:"DB_MIGRATIONS_DIR"`
	} `yaml:"database"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	// Membership holds the student↔group association policy.
	Membership struct {
		SingleGroupPerStudent bool `yaml:"single_group_per_student" env:"MEMBERSHIP_SINGLE_GROUP_PER_STUDENT"`
	} `yaml:"membership"`

	// Seed controls the demonstration data generator.
	Seed struct {
		OnStartup  bool    `yaml:"on_startup" env:"SEED_ON_STARTUP"`
		Groups     int     `yaml:"groups" env:"SEED_GROUPS"`
		Students   int     `yaml:"students" env:"SEED_STUDENTS"`
		FirstNames int     `yaml:"first_names" env:"SEED_FIRST_NAMES"`
		LastNames  int     `yaml:"last_names" env:"SEED_LAST_NAMES"`
		MinCourses int     `yaml:"min_courses" env:"SEED_MIN_COURSES"`
		MaxCourses int     `yaml:"max_courses" env:"SEED_MAX_COURSES"`
		GroupRatio float64 `yaml:"group_ratio" env:"SEED_GROUP_RATIO"`
		RandomSeed int64   `yaml:"random_seed" env:"SEED_RANDOM_SEED"`
	} `yaml:"seed"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	// A missing file is fine, defaults and env still apply
	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

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
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.ReadTimeout = "10s"
	config.Server.WriteTimeout = "10s"
	config.Server.IdleTimeout = "120s"
	config.Server.ShutdownTimeout = "10s"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "enrollment"
	config.Database.SSLMode = "disable"
	config.Database.MinConns = 2
	config.Database.MaxConns = 20
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MigrationsDir = "migrations"

	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Membership.SingleGroupPerStudent = true

	config.Seed.OnStartup = false
	config.Seed.Groups = 10
	config.Seed.Students = 200
	config.Seed.FirstNames = 20
	config.Seed.LastNames = 20
	config.Seed.MinCourses = 1
	config.Seed.MaxCourses = 3
	config.Seed.GroupRatio = 0.8
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.Database.DBName == "" {
		return fmt.Errorf("database name is required")
	}

	if config.Database.MaxConns <= 0 {
		return fmt.Errorf("database max_conns must be positive")
	}

	if config.Database.MinConns < 0 || config.Database.MinConns > config.Database.MaxConns {
		return fmt.Errorf("database min_conns must be between 0 and max_conns")
	}

	durations := map[string]string{
		"server read_timeout":        config.Server.ReadTimeout,
		"server write_timeout":       config.Server.WriteTimeout,
		"server idle_timeout":        config.Server.IdleTimeout,
		"server shutdown_timeout":    config.Server.ShutdownTimeout,
		"database conn_max_lifetime": config.Database.ConnMaxLifetime,
	}
	for name, value := range durations {
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("invalid %s format: %w", name, err)
		}
	}

	switch strings.ToLower(config.Logging.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("logging format must be json or text, got %q", config.Logging.Format)
	}

	if config.Seed.Groups < 0 || config.Seed.Students < 0 {
		return fmt.Errorf("seed counts cannot be negative")
	}

	if config.Seed.FirstNames <= 0 || config.Seed.LastNames <= 0 {
		return fmt.Errorf("seed name pools must be positive")
	}

	if config.Seed.MinCourses < 0 || config.Seed.MinCourses > config.Seed.MaxCourses {
		return fmt.Errorf("seed min_courses must be between 0 and max_courses")
	}

	if config.Seed.GroupRatio < 0 || config.Seed.GroupRatio > 1 {
		return fmt.Errorf("seed group_ratio must be within [0, 1]")
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
