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

// ValidationErrors aggregates every problem found in a Config.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// ValidateConfig checks if the configuration is usable for the given environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors
	fail := func(field, msg string) {
		errs = append(errs, ValidationError{Field: field, Message: msg})
	}

	if cfg.ServerPort == "" {
		fail("SERVER_PORT", "is required")
	}

	switch cfg.DBDriver {
	case "postgres":
		for field, v := range map[string]string{
			"DB_HOST":     cfg.DBHost,
			"DB_PORT":     cfg.DBPort,
			"DB_USER":     cfg.DBUser,
			"DB_PASSWORD": cfg.DBPassword,
			"DB_NAME":     cfg.DBName,
		} {
			if v == "" {
				fail(field, "is required for the postgres driver")
			}
		}
	case "sqlite":
		if cfg.SQLitePath == "" {
			fail("SQLITE_PATH", "is required for the sqlite driver")
		}
	default:
		fail("DB_DRIVER", fmt.Sprintf("unsupported driver %q", cfg.DBDriver))
	}

	switch cfg.CacheBackend {
	case "memory":
	case "redis":
		if !cfg.RedisEnabled() {
			fail("REDIS_URL", "REDIS_URL or REDIS_HOST is required for the redis cache backend")
		}
	default:
		fail("CACHE_BACKEND", fmt.Sprintf("unsupported backend %q", cfg.CacheBackend))
	}

	if cfg.JWTSecret == "" {
		fail("JWT_SECRET", "is required")
	}
	if len(cfg.SpoonacularAPIKeys) == 0 {
		fail("SPOONACULAR_API_KEYS", "at least one API key is required")
	}
	if cfg.UpstreamTimeout <= 0 {
		fail("UPSTREAM_TIMEOUT", "must be positive")
	}
	if cfg.CacheTTL <= 0 {
		fail("CACHE_TTL", "must be positive")
	}
	if cfg.RateLimitPerMinute < 0 {
		fail("RATE_LIMIT_PER_MINUTE", "must not be negative")
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
