// Package config loads runtime settings from the environment (and an optional .env file).
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Storage backends accepted by KV_BACKEND.
const (
	BackendMemory   = "memory"
	BackendDynamoDB = "dynamodb"
	BackendRedis    = "redis"
	BackendLevelDB  = "leveldb"
	BackendBadger   = "badger"
)

// DefaultBasePath matches the path prefix the invitation UI was deployed against.
const DefaultBasePath = "/make-server-ad8f2b21"

// StoreConfig selects and configures the key-value backend.
type StoreConfig struct {
	Backend       string
	DynamoDBTable string
	RedisURL      string
	LevelDBPath   string
	BadgerPath    string
}

// Config is the full runtime configuration of the API.
type Config struct {
	Addr             string
	RunLocal         bool
	BasePath         string
	AuthToken        string
	Store            StoreConfig
	QueueURL         string
	MetricsNamespace string
	LogLevel         string
	Environment      string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Addr:      os.Getenv(EnvAddr),
		RunLocal:  os.Getenv(EnvRunLocal) == "true",
		BasePath:  getEnv(EnvBasePath, DefaultBasePath),
		AuthToken: os.Getenv(EnvAuthToken),
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv(EnvKVBackend, BackendMemory)),
			DynamoDBTable: os.Getenv(EnvDynamoDBTable),
			RedisURL:      os.Getenv(EnvRedisURL),
			LevelDBPath:   os.Getenv(EnvLevelDBPath),
			BadgerPath:    os.Getenv(EnvBadgerPath),
		},
		QueueURL:         os.Getenv(EnvResponsesQueueURL),
		MetricsNamespace: os.Getenv(EnvMetricsNamespace),
		LogLevel:         getEnv(EnvLogLevel, "info"),
		Environment:      getEnv(EnvGoEnvironment, "development"),
	}
	if cfg.Addr == "" {
		cfg.Addr = ":" + getEnv(EnvPort, "8080")
	}
	cfg.BasePath = "/" + strings.Trim(cfg.BasePath, "/")
	if cfg.BasePath == "/" {
		cfg.BasePath = ""
	}

	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the selected backend has what it needs.
func (c StoreConfig) Validate() error {
	switch c.Backend {
	case BackendMemory:
		return nil
	case BackendDynamoDB:
		if c.DynamoDBTable == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvDynamoDBTable, c.Backend)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvRedisURL, c.Backend)
		}
	case BackendLevelDB:
		if c.LevelDBPath == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvLevelDBPath, c.Backend)
		}
	case BackendBadger:
		if c.BadgerPath == "" {
			return fmt.Errorf("%s is required for the %s backend", EnvBadgerPath, c.Backend)
		}
	default:
		return fmt.Errorf("unknown %s %q", EnvKVBackend, c.Backend)
	}
	return nil
}

// Production reports whether GO_ENV is "production".
func (c *Config) Production() bool {
	return c.Environment == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
