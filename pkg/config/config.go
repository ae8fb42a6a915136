package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig
	Data      DataConfig
	Cache     CacheConfig
	Redis     RedisConfig
	Typesense TypesenseConfig
	Database  DatabaseConfig
	OTEL      OTELConfig
	Log       LogConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host           string
	Port           int
	AllowedOrigins []string
	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int
}

// DataConfig points at the metrics table source
type DataConfig struct {
	MetricsPath string
	// WriteBack persists the location backfill to the source file
	WriteBack bool
}

// CacheConfig controls the analytics result cache
type CacheConfig struct {
	Enabled    bool
	TTLSeconds int
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// TypesenseConfig holds Typesense configuration
type TypesenseConfig struct {
	URL     string
	APIKey  string
	Enabled bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// LogConfig holds logger configuration
type LogConfig struct {
	Env   string
	Level string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host:                   getEnv("SERVER_HOST", "0.0.0.0"),
			Port:                   getEnvAsInt("SERVER_PORT", 8080),
			AllowedOrigins:         getEnvAsList("ALLOWED_ORIGINS", []string{"*"}),
			ShutdownTimeoutSeconds: getEnvAsInt("SERVER_SHUTDOWN_TIMEOUT_SECONDS", 15),
		},
		Data: DataConfig{
			MetricsPath: getEnv("METRICS_CSV_PATH", "data/hospital_trends.csv"),
			WriteBack:   getEnvAsBool("METRICS_WRITE_BACK", true),
		},
		Cache: CacheConfig{
			Enabled:    getEnvAsBool("CACHE_ENABLED", false),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Typesense: TypesenseConfig{
			URL:     getEnv("TYPESENSE_URL", "http://localhost:8108"),
			APIKey:  getEnv("TYPESENSE_API_KEY", "xyz"),
			Enabled: getEnvAsBool("TYPESENSE_ENABLED", false),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "hospital_metrics"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "healthcare-decision-support"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
		Log: LogConfig{
			Env:   getEnv("ENV", "production"),
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if cfg.Data.MetricsPath == "" {
		return nil, fmt.Errorf("METRICS_CSV_PATH must not be empty")
	}
	if cfg.Cache.TTLSeconds <= 0 {
		return nil, fmt.Errorf("CACHE_TTL_SECONDS must be positive, got %d", cfg.Cache.TTLSeconds)
	}

	return cfg, nil
}

// ListenAddr returns the HTTP listen address
func (c *ServerConfig) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *RedisConfig) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
