package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App        AppConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Logger     LoggerConfig
	Auth       AuthConfig
	Queue      QueueConfig
	Validation ValidationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines gateway authentication parameters.
type AuthConfig struct {
	JWTSecret             string
	AccessTokenTTLMinutes int
	GatewayKeyHash        string
	BcryptCost            int
}

// QueueConfig bounds per-guild operation execution.
type QueueConfig struct {
	OperationTimeoutSeconds int
}

// ValidationConfig tunes the orchestrator's cache and bypass store.
type ValidationConfig struct {
	CacheTTLSeconds  int
	CacheMaxEntries  int
	CacheEvictBatch  int
	BypassTTLMinutes int
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "anarchy-staffing-service"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:             getEnv("AUTH_JWT_SECRET", "dev-secret"),
			AccessTokenTTLMinutes: getEnvAsInt("AUTH_ACCESS_TOKEN_TTL_MINUTES", 60),
			GatewayKeyHash:        os.Getenv("AUTH_GATEWAY_KEY_HASH"),
			BcryptCost:            getEnvAsInt("AUTH_BCRYPT_COST", 12),
		},
		Queue: QueueConfig{
			OperationTimeoutSeconds: getEnvAsInt("QUEUE_OPERATION_TIMEOUT_SECONDS", 30),
		},
		Validation: ValidationConfig{
			CacheTTLSeconds:  getEnvAsInt("VALIDATION_CACHE_TTL_SECONDS", 5),
			CacheMaxEntries:  getEnvAsInt("VALIDATION_CACHE_MAX_ENTRIES", 100),
			CacheEvictBatch:  getEnvAsInt("VALIDATION_CACHE_EVICT_BATCH", 20),
			BypassTTLMinutes: getEnvAsInt("BYPASS_TTL_MINUTES", 5),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// OperationTimeout returns the per-operation ceiling for the queue.
func (q QueueConfig) OperationTimeout() time.Duration {
	if q.OperationTimeoutSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(q.OperationTimeoutSeconds) * time.Second
}

// CacheTTL returns the validation result cache TTL.
func (v ValidationConfig) CacheTTL() time.Duration {
	if v.CacheTTLSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(v.CacheTTLSeconds) * time.Second
}

// BypassTTL returns how long a pending bypass stays confirmable.
func (v ValidationConfig) BypassTTL() time.Duration {
	if v.BypassTTLMinutes <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(v.BypassTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
