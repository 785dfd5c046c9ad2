package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Backend names the goal/credential store that is active for the process lifetime.
type Backend string

const (
	// BackendSQLite is the embedded file-backed relational store.
	BackendSQLite Backend = "sqlite"
	// BackendSQL is a networked relational database reached through DATABASE_URL.
	BackendSQL Backend = "sql"
	// BackendDynamoDB is the hosted table service.
	BackendDynamoDB Backend = "dynamodb"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort string
	LogLevel   string
	StaticDir  string

	Backend           Backend
	DatabaseURL       string
	SQLitePath        string
	DynamoRegion      string
	DynamoTablePrefix string
	DynamoEndpoint    string

	RedisAddr string
	RedisDB   int
	RedisPass string
	CacheTTL  time.Duration

	JWTSecret   string
	RequireAuth bool

	AIBaseURL string
	AIModel   string
	AIAPIKey  string
	AITimeout time.Duration

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "3001"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		StaticDir:  os.Getenv("STATIC_DIR"),

		DatabaseURL:       os.Getenv("DATABASE_URL"),
		SQLitePath:        getEnv("SQLITE_PATH", "goals.db"),
		DynamoRegion:      os.Getenv("DYNAMODB_REGION"),
		DynamoTablePrefix: os.Getenv("DYNAMODB_TABLE_PREFIX"),
		DynamoEndpoint:    os.Getenv("DYNAMODB_ENDPOINT"),

		RedisAddr: os.Getenv("REDIS_ADDR"),
		RedisDB:   getEnvInt("REDIS_DB", 0),
		RedisPass: os.Getenv("REDIS_PASSWORD"),
		CacheTTL:  getEnvDuration("CACHE_TTL", 5*time.Minute),

		JWTSecret:   getEnv("JWT_SECRET", "change-me"),
		RequireAuth: getEnvBool("REQUIRE_AUTH", false),

		AIBaseURL: getEnv("AI_BASE_URL", "https://generativelanguage.googleapis.com"),
		AIModel:   getEnv("AI_MODEL", "gemini-2.0-flash"),
		AIAPIKey:  os.Getenv("AI_API_KEY"),
		AITimeout: getEnvDuration("AI_TIMEOUT", 30*time.Second),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}

	backend, err := selectBackend(os.Getenv("STORAGE_BACKEND"), cfg)
	if err != nil {
		return nil, err
	}
	cfg.Backend = backend
	return cfg, nil
}

// selectBackend resolves the store once. An explicit name wins; otherwise a
// connection string picks the networked database, a region/prefix pair picks
// the hosted table service, and nothing at all picks the local file.
func selectBackend(explicit string, cfg *Config) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(explicit))) {
	case "":
	case BackendSQLite:
		return BackendSQLite, nil
	case BackendSQL:
		if cfg.DatabaseURL == "" {
			return "", fmt.Errorf("config: STORAGE_BACKEND=sql requires DATABASE_URL")
		}
		return BackendSQL, nil
	case BackendDynamoDB:
		if cfg.DynamoRegion == "" || cfg.DynamoTablePrefix == "" {
			return "", fmt.Errorf("config: STORAGE_BACKEND=dynamodb requires DYNAMODB_REGION and DYNAMODB_TABLE_PREFIX")
		}
		return BackendDynamoDB, nil
	default:
		return "", fmt.Errorf("config: unknown STORAGE_BACKEND %q", explicit)
	}

	switch {
	case cfg.DatabaseURL != "":
		return BackendSQL, nil
	case cfg.DynamoRegion != "" && cfg.DynamoTablePrefix != "":
		return BackendDynamoDB, nil
	default:
		return BackendSQLite, nil
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.ParseBool(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
