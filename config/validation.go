package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// requiredFields lists the settings each environment cannot start without.
var requiredFields = map[Environment][]string{
	Development: {"DB_HOST", "DB_NAME", "JWT_SECRET"},
	Test:        {"DB_HOST", "DB_NAME", "JWT_SECRET"},
	CI:          {"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "JWT_SECRET"},
	Production:  {"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "JWT_SECRET"},
}

func fieldValue(cfg *Config, field string) string {
	switch field {
	case "DB_HOST":
		return cfg.DBHost
	case "DB_PORT":
		return cfg.DBPort
	case "DB_USER":
		return cfg.DBUser
	case "DB_PASSWORD":
		return cfg.DBPassword
	case "DB_NAME":
		return cfg.DBName
	case "DB_SSL_MODE":
		return cfg.DBSSLMode
	case "JWT_SECRET":
		return cfg.JWTSecret
	}
	return ""
}

// ValidateConfig checks if the configuration meets the requirements for the current environment
func ValidateConfig(cfg *Config) error {
	env := GetEnvironment()

	var errs []string
	for _, field := range requiredFields[env] {
		if fieldValue(cfg, field) == "" {
			errs = append(errs, ValidationError{Field: field, Message: "is required"}.Error())
		}
	}

	if cfg.MismatchLogCapacity <= 0 {
		errs = append(errs, ValidationError{Field: "MISMATCH_LOG_CAPACITY", Message: "must be positive"}.Error())
	}
	if cfg.MatchingRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "MATCHING_RATE_LIMIT", Message: "must not be negative"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
	}

	return nil
}
