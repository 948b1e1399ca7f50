package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	Dify       DifyConfig
	Assessment AssessmentConfig
	OTEL       OTELConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string
	Port int
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

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// DifyConfig holds the conversational assessment service configuration
type DifyConfig struct {
	APIKey      string
	BaseURL     string
	DefaultUser string
	Timeout     time.Duration
}

// AssessmentConfig holds the scoring constants of the assessment engine.
// The multipliers and thresholds are heuristics carried over from the
// original instrument configuration, not derived from a clinical model,
// so they stay configurable.
type AssessmentConfig struct {
	MoodWeight              int
	AnxietyWeight           int
	TraumaWeight            int
	RiskEscalationMinPoints int
	RiskHighPoints          int
	SnapshotTTL             time.Duration
}

// OTELConfig holds OpenTelemetry configuration
type OTELConfig struct {
	ServiceName    string
	ServiceVersion string
	Endpoint       string
	Enabled        bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "mental_health_assessment"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvAsInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Dify: DifyConfig{
			APIKey:      getEnv("DIFY_API_KEY", ""),
			BaseURL:     getEnv("DIFY_API_BASE_URL", "https://api.dify.ai/v1"),
			DefaultUser: getEnv("DIFY_DEFAULT_USER", "default_user"),
			Timeout:     getEnvAsDuration("DIFY_TIMEOUT", 30*time.Second),
		},
		Assessment: AssessmentConfig{
			MoodWeight:              getEnvAsInt("ASSESSMENT_MOOD_WEIGHT", 8),
			AnxietyWeight:           getEnvAsInt("ASSESSMENT_ANXIETY_WEIGHT", 6),
			TraumaWeight:            getEnvAsInt("ASSESSMENT_TRAUMA_WEIGHT", 7),
			RiskEscalationMinPoints: getEnvAsInt("RISK_ESCALATION_MIN_POINTS", 1),
			RiskHighPoints:          getEnvAsInt("RISK_HIGH_POINTS", 3),
			SnapshotTTL:             getEnvAsDuration("SNAPSHOT_TTL", 24*time.Hour),
		},
		OTEL: OTELConfig{
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "mental-health-assessment"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
			Endpoint:       getEnv("OTEL_ENDPOINT", ""),
			Enabled:        getEnvAsBool("OTEL_ENABLED", false),
		},
	}, nil
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

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
