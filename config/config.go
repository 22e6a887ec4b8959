package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultServerPort          = "8080"
	defaultMismatchLogCapacity = 1000
	defaultMatchingRateLimit   = 60
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort     string
	ServerHost     string
	AllowedOrigins []string

	// Database configuration
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	MigrationsDir string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Dietary matching
	MismatchLogCapacity int
	// MatchingRateLimit is the number of test-matching requests allowed per user per hour.
	MatchingRateLimit int
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	// Load configuration based on environment
	switch env {
	case CI:
		loadCIConfig(cfg)
	case Development, Test:
		loadDevConfig(cfg)
	case Production:
		loadProdConfig(cfg)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}

	if err := loadTuning(cfg); err != nil {
		return nil, err
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadCIConfig loads configuration for CI environment using only environment variables
func loadCIConfig(cfg *Config) {
	cfg.ServerPort = envOr("SERVER_PORT", defaultServerPort)
	cfg.ServerHost = os.Getenv("SERVER_HOST")
	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = os.Getenv("DB_PORT")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = os.Getenv("DB_SSL_MODE")
	cfg.RedisHost = os.Getenv("REDIS_HOST")
	cfg.RedisPort = os.Getenv("REDIS_PORT")

	// GitHub Actions secrets arrive as environment variables
	cfg.DBPassword = os.Getenv("TEST_DB_PASSWORD")
	cfg.JWTSecret = os.Getenv("TEST_JWT_SECRET")
	cfg.RedisPassword = os.Getenv("TEST_REDIS_PASSWORD")
	cfg.RedisURL = os.Getenv("TEST_REDIS_URL")
	cfg.RedisDB = 0
}

// loadDevConfig prefers environment variables and falls back to Docker secrets
func loadDevConfig(cfg *Config) {
	cfg.ServerPort = envOrSecret("SERVER_PORT", "server_port", defaultServerPort)
	cfg.ServerHost = envOrSecret("SERVER_HOST", "server_host", "")
	cfg.DBHost = envOrSecret("DB_HOST", "db_host", "localhost")
	cfg.DBPort = envOrSecret("DB_PORT", "db_port", "5432")
	cfg.DBUser = envOrSecret("DB_USER", "db_user", "postgres")
	cfg.DBPassword = envOrSecret("DB_PASSWORD", "db_password", "")
	cfg.DBName = envOrSecret("DB_NAME", "db_name", "bytebasket")
	cfg.DBSSLMode = envOrSecret("DB_SSL_MODE", "db_ssl_mode", "disable")
	cfg.RedisHost = envOrSecret("REDIS_HOST", "redis_host", "")
	cfg.RedisPort = envOrSecret("REDIS_PORT", "redis_port", "6379")
	cfg.RedisPassword = envOrSecret("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisURL = envOrSecret("REDIS_URL", "redis_url", "")
	cfg.RedisDB = 0
	cfg.JWTSecret = envOrSecret("JWT_SECRET", "jwt_secret", "")
}

// loadProdConfig loads sensitive values from Docker secrets only
func loadProdConfig(cfg *Config) {
	cfg.ServerPort = envOrSecret("SERVER_PORT", "server_port", defaultServerPort)
	cfg.ServerHost = envOrSecret("SERVER_HOST", "server_host", "")
	cfg.DBHost = readSecret("db_host")
	cfg.DBPort = readSecret("db_port")
	cfg.DBUser = readSecret("db_user")
	cfg.DBPassword = readSecret("db_password")
	cfg.DBName = readSecret("db_name")
	cfg.DBSSLMode = readSecret("db_ssl_mode")
	cfg.RedisHost = readSecret("redis_host")
	cfg.RedisPort = readSecret("redis_port")
	cfg.RedisPassword = readSecret("redis_password")
	cfg.RedisDB = 0
	cfg.JWTSecret = readSecret("jwt_secret")
	cfg.RedisURL = readSecret("redis_url")
}

// loadTuning reads the non-secret knobs shared by every environment.
func loadTuning(cfg *Config) error {
	cfg.MigrationsDir = envOr("MIGRATIONS_DIR", "migrations")

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	}

	var err error
	if cfg.MismatchLogCapacity, err = envInt("MISMATCH_LOG_CAPACITY", defaultMismatchLogCapacity); err != nil {
		return err
	}
	if cfg.MatchingRateLimit, err = envInt("MATCHING_RATE_LIMIT", defaultMatchingRateLimit); err != nil {
		return err
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrSecret(key, secret, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, ValidationError{Field: key, Message: fmt.Sprintf("must be an integer, got %q", v)}
	}
	return n, nil
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}
