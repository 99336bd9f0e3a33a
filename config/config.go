package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// PubNub configuration
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string

	// Hold configuration
	HoldDuration    time.Duration
	MaxHoldQuantity int

	// Reclaimer configuration
	ReclaimInterval  time.Duration
	ReclaimBatchSize int

	// Rate limiting
	HoldRateLimit  int
	HoldRateWindow time.Duration

	// Payment gateway
	PaymentProvider string
	PaymentBaseURL  string
	PaymentAPIKey   string

	// Availability cache
	AvailabilityTTL time.Duration

	// Monitoring
	EnableMetrics bool
	MetricsPort   string
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),

		// Holds
		HoldDuration:    getEnvAsDuration("HOLD_DURATION", "15m"),
		MaxHoldQuantity: getEnvAsInt("MAX_HOLD_QUANTITY", 10),

		// Reclaimer
		ReclaimInterval:  getEnvAsDuration("RECLAIM_INTERVAL", "30s"),
		ReclaimBatchSize: getEnvAsInt("RECLAIM_BATCH_SIZE", 100),

		// Rate limiting
		HoldRateLimit:  getEnvAsInt("HOLD_RATE_LIMIT", 30),
		HoldRateWindow: getEnvAsDuration("HOLD_RATE_WINDOW", "1m"),

		// Payment gateway
		PaymentProvider: getEnv("PAYMENT_PROVIDER", "sandbox"),
		PaymentBaseURL:  getEnv("PAYMENT_BASE_URL", ""),
		PaymentAPIKey:   getEnv("PAYMENT_API_KEY", ""),

		// Availability cache
		AvailabilityTTL: getEnvAsDuration("AVAILABILITY_TTL", "5s"),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
		MetricsPort:   getEnv("METRICS_PORT", "9090"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	// If parsing fails, try to parse default value
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
