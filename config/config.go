package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultSpoonacularBaseURL = "https://api.spoonacular.com"
	DefaultUpstreamTimeout    = 8 * time.Second
	DefaultCacheTTL           = time.Hour
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration. DBDriver is either "postgres" or "sqlite".
	DBDriver   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	SQLitePath string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// JWT configuration
	JWTSecret string

	// Upstream recipe API. Keys are tried in the order given.
	SpoonacularAPIKeys []string
	SpoonacularBaseURL string
	UpstreamTimeout    time.Duration
	CoalesceRequests   bool

	// Response cache. CacheBackend is either "memory" or "redis".
	CacheBackend string
	CacheTTL     time.Duration

	// Requests per minute per client on upstream-backed endpoints; 0 disables.
	RateLimitPerMinute int

	LogLevel string
}

// RedisEnabled reports whether any Redis connection settings were supplied.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{Environment: env}

	var err error
	switch env {
	case CI:
		err = load(cfg, fromEnv, ciDefaults)
	case Development, Test:
		err = load(cfg, envThenSecret, devDefaults)
	case Production:
		err = load(cfg, secretThenEnv, nil)
	default:
		return nil, fmt.Errorf("unknown environment: %s", env)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// lookup resolves a setting given its environment variable and secret file names.
type lookup func(envVar, secret string) string

func fromEnv(envVar, _ string) string {
	return os.Getenv(envVar)
}

func envThenSecret(envVar, secret string) string {
	if v := os.Getenv(envVar); v != "" {
		return v
	}
	return readSecret(secret)
}

func secretThenEnv(envVar, secret string) string {
	if v := readSecret(secret); v != "" {
		return v
	}
	return os.Getenv(envVar)
}

var devDefaults = map[string]string{
	"SERVER_PORT":       "8080",
	"SERVER_HOST":       "localhost",
	"DB_DRIVER":         "sqlite",
	"SQLITE_PATH":       "recipes.db",
	"JWT_SECRET":        "development-secret",
	"CACHE_BACKEND":     "memory",
	"LOG_LEVEL":         "debug",
	"COALESCE_REQUESTS": "true",
	"DB_SSL_MODE":       "disable",
}

var ciDefaults = map[string]string{
	"DB_DRIVER":         "sqlite",
	"SQLITE_PATH":       ":memory:",
	"CACHE_BACKEND":     "memory",
	"COALESCE_REQUESTS": "true",
	"DB_SSL_MODE":       "disable",
}

func load(cfg *Config, get lookup, defaults map[string]string) error {
	value := func(envVar, secret string) string {
		if v := strings.TrimSpace(get(envVar, secret)); v != "" {
			return v
		}
		return defaults[envVar]
	}

	cfg.ServerPort = value("SERVER_PORT", "server_port")
	cfg.ServerHost = value("SERVER_HOST", "server_host")

	cfg.DBDriver = strings.ToLower(value("DB_DRIVER", "db_driver"))
	if cfg.DBDriver == "" {
		cfg.DBDriver = "postgres"
	}
	cfg.DBHost = value("DB_HOST", "db_host")
	cfg.DBPort = value("DB_PORT", "db_port")
	cfg.DBUser = value("DB_USER", "db_user")
	cfg.DBPassword = value("DB_PASSWORD", "db_password")
	cfg.DBName = value("DB_NAME", "db_name")
	cfg.DBSSLMode = value("DB_SSL_MODE", "db_ssl_mode")
	cfg.SQLitePath = value("SQLITE_PATH", "sqlite_path")

	cfg.RedisHost = value("REDIS_HOST", "redis_host")
	cfg.RedisPort = value("REDIS_PORT", "redis_port")
	cfg.RedisPassword = value("REDIS_PASSWORD", "redis_password")
	cfg.RedisURL = value("REDIS_URL", "redis_url")
	if raw := value("REDIS_DB", "redis_db"); raw != "" {
		db, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid REDIS_DB %q: %w", raw, err)
		}
		cfg.RedisDB = db
	}

	cfg.JWTSecret = value("JWT_SECRET", "jwt_secret")

	cfg.SpoonacularAPIKeys = splitKeys(value("SPOONACULAR_API_KEYS", "spoonacular_api_keys"))
	cfg.SpoonacularBaseURL = value("SPOONACULAR_BASE_URL", "spoonacular_base_url")
	if cfg.SpoonacularBaseURL == "" {
		cfg.SpoonacularBaseURL = DefaultSpoonacularBaseURL
	}
	cfg.SpoonacularBaseURL = strings.TrimRight(cfg.SpoonacularBaseURL, "/")

	var err error
	if cfg.UpstreamTimeout, err = parseDuration(value("UPSTREAM_TIMEOUT", "upstream_timeout"), DefaultUpstreamTimeout); err != nil {
		return fmt.Errorf("invalid UPSTREAM_TIMEOUT: %w", err)
	}
	if cfg.CacheTTL, err = parseDuration(value("CACHE_TTL", "cache_ttl"), DefaultCacheTTL); err != nil {
		return fmt.Errorf("invalid CACHE_TTL: %w", err)
	}
	if raw := value("COALESCE_REQUESTS", "coalesce_requests"); raw != "" {
		if cfg.CoalesceRequests, err = strconv.ParseBool(raw); err != nil {
			return fmt.Errorf("invalid COALESCE_REQUESTS %q: %w", raw, err)
		}
	}

	cfg.CacheBackend = strings.ToLower(value("CACHE_BACKEND", "cache_backend"))
	if cfg.CacheBackend == "" {
		cfg.CacheBackend = "redis"
	}

	if raw := value("RATE_LIMIT_PER_MINUTE", "rate_limit_per_minute"); raw != "" {
		if cfg.RateLimitPerMinute, err = strconv.Atoi(raw); err != nil {
			return fmt.Errorf("invalid RATE_LIMIT_PER_MINUTE %q: %w", raw, err)
		}
	}

	cfg.LogLevel = value("LOG_LEVEL", "log_level")
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return nil
}

// splitKeys parses a comma or newline separated key list, dropping blanks and
// duplicates while keeping the original priority order.
func splitKeys(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	seen := make(map[string]struct{}, len(fields))
	keys := make([]string, 0, len(fields))
	for _, f := range fields {
		k := strings.TrimSpace(f)
		if k == "" {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func parseDuration(raw string, fallback time.Duration) (time.Duration, error) {
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	return time.ParseDuration(raw)
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	data, err := os.ReadFile(filepath.Join(secretsDir, name))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(data))
}
