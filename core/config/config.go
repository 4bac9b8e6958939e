package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel       OTelConfig
	ArangoDB   ArangoDBConfig
	Events     EventsConfig
	Auth       AuthConfig
	Catalog    CatalogConfig
	LocalStore LocalStoreConfig
	Env        string
	Port       string
	// RequestTimeout bounds store operations started by HTTP handlers.
	// Zero means wait until the store answers definitively.
	RequestTimeout time.Duration
}

type OTelConfig struct {
	Endpoint       string
	ServiceName    string
	ServiceVersion string
}

type ArangoDBConfig struct {
	URL      string
	Username string
	Password string
	Database string
}

type EventsConfig struct {
	RedisURL      string
	RedisStream   string
	RedisGroup    string
	RedisDLQ      string
	RedisConsumer string
}

// AuthConfig holds the single accepted credential pair. This is a login stub,
// not a security boundary.
type AuthConfig struct {
	Username    string
	Password    string
	DisplayName string
}

// CatalogConfig carries the factory catalog. Factories is a JSON array of
// {id,name,location} objects; empty means use the built-in default list.
type CatalogConfig struct {
	Factories string
}

// LocalStoreConfig configures the on-device issue store used by embedded
// deployments that run without a server.
type LocalStoreConfig struct {
	Dir string
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeWorker ServiceType = "worker"
)

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.worker for the background worker
//
// Falls back to .env if service-specific file doesn't exist.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("TRACKER_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:            getEnv("TRACKER_ENV", "development"),
		Port:           getEnv("PORT", "3000"),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 0),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "tracker"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		ArangoDB: ArangoDBConfig{
			URL:      getEnv("ARANGO_URL", "http://localhost:8529"),
			Username: getEnv("ARANGO_USERNAME", "root"),
			Password: getEnv("ARANGO_PASSWORD", ""),
			Database: getEnv("ARANGO_DATABASE", "factory_app"),
		},
		Events: EventsConfig{
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379/0"),
			RedisStream:   getEnv("REDIS_STREAM", "issue_events"),
			RedisGroup:    getEnv("REDIS_CONSUMER_GROUP", "issue_events_group"),
			RedisDLQ:      getEnv("REDIS_DLQ_STREAM", "issue_events_dlq"),
			RedisConsumer: getEnv("REDIS_CONSUMER_NAME", string(serviceType)),
		},
		Auth: AuthConfig{
			Username:    getEnv("AUTH_USERNAME", "admin"),
			Password:    getEnv("AUTH_PASSWORD", "1234"),
			DisplayName: getEnv("AUTH_DISPLAY_NAME", "Administrator"),
		},
		Catalog: CatalogConfig{
			Factories: getEnv("FACTORIES", ""),
		},
		LocalStore: LocalStoreConfig{
			Dir: getEnv("LOCAL_STORE_DIR", ""),
		},
	}

	if cfg.ArangoDB.URL == "" || cfg.ArangoDB.Database == "" {
		return Config{}, fmt.Errorf("ARANGO_URL and ARANGO_DATABASE are required")
	}

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c EventsConfig) Enabled() bool {
	return c.RedisURL != ""
}

func (c LocalStoreConfig) Enabled() bool {
	return c.Dir != ""
}

// ParseFactories decodes the configured catalog. An empty value yields nil so
// the caller can fall back to the default list.
func (c CatalogConfig) ParseFactories() ([]FactoryEntry, error) {
	if c.Factories == "" {
		return nil, nil
	}
	var entries []FactoryEntry
	if err := json.Unmarshal([]byte(c.Factories), &entries); err != nil {
		return nil, fmt.Errorf("parsing FACTORIES: %w", err)
	}
	return entries, nil
}

type FactoryEntry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
