package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Identity  IdentityConfig
	Documents DocumentConfig
	Session   SessionConfig
	Events    EventConfig
	Tracing   TracingConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
	HTTPTimeout time.Duration
}

type IdentityConfig struct {
	Provider  string // "http" or "memory"
	BaseURL   string
	JWTSecret string
	TokenTTL  time.Duration
}

type DocumentConfig struct {
	Store      string // "postgres" or "memory"
	Connection string
}

type SessionConfig struct {
	Store    string // "file" or "redis"
	FilePath string
	RedisURL string
	DeviceID string
}

type EventConfig struct {
	NatsEnabled bool
	NatsURL     string
}

type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	connection := getEnv("DB_CONNECTION_STRING", "")
	documentStore := "memory"
	if connection != "" {
		documentStore = "postgres"
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "notesync.log"),
			HTTPTimeout: time.Duration(getEnvAsInt("HTTP_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Identity: IdentityConfig{
			Provider:  getEnv("IDENTITY_PROVIDER", "memory"),
			BaseURL:   getEnv("IDENTITY_BASE_URL", "http://localhost:3000"),
			JWTSecret: getEnv("JWT_SECRET", "notesync-dev-secret"),
			TokenTTL:  time.Duration(getEnvAsInt("TOKEN_TTL_HOURS", 24*7)) * time.Hour,
		},
		Documents: DocumentConfig{
			Store:      getEnv("DOCUMENT_STORE", documentStore),
			Connection: connection,
		},
		Session: SessionConfig{
			Store:    getEnv("SESSION_STORE", "file"),
			FilePath: getEnv("SESSION_FILE", defaultSessionFile()),
			RedisURL: getEnv("REDIS_URL", "redis://localhost:6379"),
			DeviceID: getEnv("DEVICE_ID", defaultDeviceID()),
		},
		Events: EventConfig{
			NatsEnabled: getEnvAsBool("NATS_ENABLED", false),
			NatsURL:     getEnv("NATS_URL", "nats://localhost:4222"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvAsBool("OTEL_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".notesync-session.yaml"
	}
	return filepath.Join(dir, "notesync", "session.yaml")
}

func defaultDeviceID() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "default"
	}
	return host
}
