package config

import (
	"os"
	"strconv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort int

	PostgresHost string
	PostgresPort int
	PostgresUser string
	PostgresPass string
	PostgresDB   string

	KafkaBrokers     string
	PaymentTopic     string
	OrderEventsTopic string
	KafkaGroupID     string

	// Shared secret for the internal payment-callback route. The payment
	// gateway is authenticated before it reaches this service.
	InternalToken string
}

func Load() Config {
	return Config{
		AppEnv:   getEnv("APP_ENV", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		HTTPPort: getEnvInt("HTTP_PORT", 8080),

		PostgresHost: getEnv("POSTGRES_HOST", ""),
		PostgresPort: getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser: getEnv("POSTGRES_USER", "ordercore"),
		PostgresPass: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:   getEnv("POSTGRES_DB", "ordercore_db"),

		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		PaymentTopic:     getEnv("KAFKA_PAYMENT_TOPIC", "payment-confirmations"),
		OrderEventsTopic: getEnv("KAFKA_ORDER_EVENTS_TOPIC", "order-events"),
		KafkaGroupID:     getEnv("KAFKA_GROUP_ID", "ordercore"),

		InternalToken: getEnv("INTERNAL_TOKEN", ""),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)

	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
