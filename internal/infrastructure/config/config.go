package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds PostgreSQL connection settings. MaxConns and
// MinConns override the pool's engine defaults when set.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int
	MinConns int
}

// KafkaConfig holds broker addresses and the event topic.
type KafkaConfig struct {
	Brokers    []string
	EventTopic string
}

// EngineConfig drives the lifecycle scheduler.
type EngineConfig struct {
	Interval time.Duration
	RunOnce  bool
}

// Config is the process configuration, loaded from the environment.
type Config struct {
	MetricsPort   int
	DB            DatabaseConfig
	Kafka         KafkaConfig
	Engine        EngineConfig
	LogLevel      string
	LogFormat     string
	MigrationsDir string
	ServiceName   string
}

// Validate panics on configuration the process cannot start without.
func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
}

// Load reads configuration from the environment with development defaults.
func Load() Config {
	return Config{
		MetricsPort: getEnvInt("METRICS_PORT", 9090),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "microfinex"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "microfinex_loans"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 0),
			MinConns: getEnvInt("DB_MIN_CONNS", 0),
		},
		Kafka: KafkaConfig{
			Brokers:    strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			EventTopic: getEnv("KAFKA_EVENT_TOPIC", "loans.events"),
		},
		Engine: EngineConfig{
			Interval: getEnvDuration("ENGINE_INTERVAL", 24*time.Hour),
			RunOnce:  getEnvBool("ENGINE_RUN_ONCE", false),
		},
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LogFormat:     getEnv("LOG_FORMAT", "json"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "file://internal/infrastructure/postgres/migrations"),
		ServiceName:   "loan-engine",
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
