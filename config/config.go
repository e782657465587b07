package config

import (
	"os"
	"strconv"
	"time"
)

type MercadoPagoConfig struct {
	BaseURL             string
	AccessToken         string
	WebhookSecret       string
	Currency            string
	StatementDescriptor string
}

type ResendConfig struct {
	BaseURL     string
	APIKey      string
	FromAddress string
}

type Config struct {
	// Server configuration
	Port        string
	Environment string

	// Public base URL used to build payment callback URLs and file links
	WebBaseURL string

	// Redis configuration
	RedisURL      string
	RedisPassword string
	RedisDB       int

	// Payment gateway
	MercadoPago MercadoPagoConfig

	// Outbound email
	Resend ResendConfig

	// PubNub configuration (realtime payment notifications)
	PubNubPublishKey   string
	PubNubSubscribeKey string
	PubNubSecretKey    string
	PubNubUUID         string

	// Timeout configuration
	GatewayTimeout time.Duration
	MailTimeout    time.Duration

	// Upload limits
	MaxAvatarSize int64

	// Monitoring
	EnableMetrics bool
}

func LoadConfig() *Config {
	return &Config{
		// Server
		Port:        getEnv("PORT", "8090"),
		Environment: getEnv("ENVIRONMENT", "development"),

		WebBaseURL: getEnv("WEB_BASE_URL", "http://localhost:3000"),

		// Redis
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		MercadoPago: MercadoPagoConfig{
			BaseURL:             getEnv("MERCADO_PAGO_BASE_URL", "https://api.mercadopago.com"),
			AccessToken:         getEnv("MERCADO_PAGO_ACCESS_TOKEN", ""),
			WebhookSecret:       getEnv("MERCADO_PAGO_WEBHOOK_SECRET", ""),
			Currency:            getEnv("MERCADO_PAGO_CURRENCY", "ARS"),
			StatementDescriptor: getEnv("MERCADO_PAGO_STATEMENT", "Event Tickets"),
		},

		Resend: ResendConfig{
			BaseURL:     getEnv("RESEND_BASE_URL", "https://api.resend.com"),
			APIKey:      getEnv("RESEND_API_KEY", ""),
			FromAddress: getEnv("RESEND_FROM", "Merch <hola@payperapp.io>"),
		},

		// PubNub
		PubNubPublishKey:   getEnv("PUBNUB_PUBLISH_KEY", ""),
		PubNubSubscribeKey: getEnv("PUBNUB_SUBSCRIBE_KEY", ""),
		PubNubSecretKey:    getEnv("PUBNUB_SECRET_KEY", ""),
		PubNubUUID:         getEnv("PUBNUB_UUID", "storefront-server"),

		// Timeouts
		GatewayTimeout: getEnvAsDuration("GATEWAY_TIMEOUT", "10s"),
		MailTimeout:    getEnvAsDuration("MAIL_TIMEOUT", "10s"),

		// Uploads
		MaxAvatarSize: getEnvAsInt64("MAX_AVATAR_SIZE", 5*1024*1024),

		// Monitoring
		EnableMetrics: getEnvAsBool("ENABLE_METRICS", true),
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

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
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
