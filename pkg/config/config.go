package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig
	Database    DatabaseConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	JWT         JWTConfig
	Log         LogConfig
	Metrics     MetricsConfig
	Tracing     TracingConfig
	Reservation ReservationConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxIdleConns    int
	MaxOpenConns    int
	ConnMaxLifetime time.Duration
	LogLevel        string
}

// RedisConfig holds the stock status cache configuration.
// An empty Addr disables the cache entirely.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	StatusTTL time.Duration
}

// KafkaConfig holds outbox relay configuration.
// Empty Brokers disables the relay.
type KafkaConfig struct {
	Brokers        string
	Topic          string
	RelayInterval  time.Duration
	RelayBatchSize int
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	SigningKey      string
	ExpirationHours int
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string
}

// MetricsConfig holds metrics-related configuration
type MetricsConfig struct {
	Prefix string
}

// TracingConfig holds OpenTelemetry tracing configuration
type TracingConfig struct {
	Enabled     bool
	Endpoint    string
	ServiceName string
}

// ReservationConfig holds stock reservation behavior configuration
type ReservationConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

// Load loads the application configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if it exists
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8086"),
			Env:  getEnv("APP_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", "postgres"),
			Name:            getEnv("DB_NAME", "warehouse_db"),
			SSLMode:         getEnv("DB_SSL_MODE", "disable"),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 100),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", 1*time.Hour),
			LogLevel:        getEnv("DB_LOG_LEVEL", "info"),
		},
		Redis: RedisConfig{
			Addr:      getEnv("REDIS_ADDR", ""),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvAsInt("REDIS_DB", 0),
			StatusTTL: getEnvAsDuration("REDIS_STATUS_TTL", 5*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:        getEnv("KAFKA_BROKERS", ""),
			Topic:          getEnv("KAFKA_TOPIC", "warehouse.events"),
			RelayInterval:  getEnvAsDuration("OUTBOX_RELAY_INTERVAL", 2*time.Second),
			RelayBatchSize: getEnvAsInt("OUTBOX_RELAY_BATCH_SIZE", 100),
		},
		JWT: JWTConfig{
			SigningKey:      getEnv("JWT_SIGNING_KEY", "warehouseservicesecretkey"),
			ExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Metrics: MetricsConfig{
			Prefix: getEnv("METRICS_PREFIX", "warehouse"),
		},
		Tracing: TracingConfig{
			Enabled:     getEnvAsBool("ENABLE_TRACING", false),
			Endpoint:    getEnv("OTLP_ENDPOINT", "localhost:4318"),
			ServiceName: getEnv("TRACING_SERVICE_NAME", "warehouse-service"),
		},
		Reservation: ReservationConfig{
			TTL:           getEnvAsDuration("RESERVATION_TTL", 30*time.Minute),
			SweepInterval: getEnvAsDuration("RESERVATION_SWEEP_INTERVAL", 1*time.Minute),
		},
	}, nil
}

// Helper functions to get environment variables with defaults
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
