package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Env     string
	Storage StorageConfig
	Server  ServerConfig
	Cache   CacheConfig
	Events  EventsConfig
	Board   BoardConfig
	Feed    FeedConfig
}

// StorageConfig holds storage-related configuration
type StorageConfig struct {
	Type        string // "memory", "dynamodb", "mongodb", "postgresql"
	Region      string // For AWS DynamoDB
	TablePrefix string
	Endpoint    string // Custom endpoint for local testing
	MongoDBURI  string
	MongoDBName string
	PostgresURI string
	Timeout     time.Duration
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port           int
	AdminKey       string
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// CacheConfig selects Redis when RedisAddr is set, otherwise an in-process cache
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTL           time.Duration
}

// EventsConfig selects NATS when URL is set, otherwise events are dropped
type EventsConfig struct {
	NATSURL     string
	ConnTimeout time.Duration
}

// BoardConfig holds job board business settings
type BoardConfig struct {
	DefaultFeatureDays int
	OnboardingCurrency string
}

// FeedConfig holds partner job feed import configuration.
// Import is disabled when URL is empty.
type FeedConfig struct {
	URL        string
	EmployerID string
	Interval   time.Duration
	Timeout    time.Duration
	RetryCount int
}

// Load loads configuration from environment variables with defaults.
// A .env file in the working directory is read first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Env: getEnv("APP_ENV", "production"),
		Storage: StorageConfig{
			Type:        getEnv("STORAGE_TYPE", "memory"),
			Region:      getEnv("AWS_REGION", "us-west-2"),
			TablePrefix: getEnv("TABLE_PREFIX", "cwf_"),
			Endpoint:    getEnv("DYNAMODB_ENDPOINT", ""), // For local DynamoDB
			MongoDBURI:  getEnv("MONGODB_URI", ""),
			MongoDBName: getEnv("MONGODB_DATABASE", "ceylon_work_force"),
			PostgresURI: getEnv("POSTGRES_URI", ""),
			Timeout:     getEnvDuration("STORAGE_TIMEOUT", 10*time.Second),
		},
		Server: ServerConfig{
			Port:           getEnvInt("SERVER_PORT", 8080),
			AdminKey:       getEnv("ADMIN_KEY", ""),
			RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
			AllowedOrigins: getEnvList("ALLOWED_ORIGINS", nil),
		},
		Cache: CacheConfig{
			RedisAddr:     getEnv("REDIS_ADDR", ""),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTL:           getEnvDuration("CACHE_TTL", 5*time.Minute),
		},
		Events: EventsConfig{
			NATSURL:     getEnv("NATS_URL", ""),
			ConnTimeout: getEnvDuration("NATS_CONN_TIMEOUT", 10*time.Second),
		},
		Board: BoardConfig{
			DefaultFeatureDays: getEnvInt("DEFAULT_FEATURE_DAYS", 30),
			OnboardingCurrency: getEnv("ONBOARDING_CURRENCY", "LKR"),
		},
		Feed: FeedConfig{
			URL:        getEnv("FEED_URL", ""),
			EmployerID: getEnv("FEED_EMPLOYER_ID", ""),
			Interval:   getEnvDuration("FEED_INTERVAL", 15*time.Minute),
			Timeout:    getEnvDuration("FEED_TIMEOUT", 30*time.Second),
			RetryCount: getEnvInt("FEED_RETRY_COUNT", 3),
		},
	}

	if cfg.Feed.URL != "" && cfg.Feed.EmployerID == "" {
		return nil, errors.New("FEED_EMPLOYER_ID is required when FEED_URL is set")
	}
	if cfg.Feed.URL != "" && cfg.Feed.Interval <= 0 {
		return nil, errors.New("FEED_INTERVAL must be positive when FEED_URL is set")
	}

	return cfg, nil
}

// Development reports whether the service runs with development defaults
func (c *Config) Development() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
