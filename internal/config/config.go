package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// WhatsApp Cloud API credentials for outbound notifications.
	WhatsAppToken         string
	WhatsAppPhoneNumberID string
	WhatsAppBaseURL       string
	WhatsAppSendTimeout   time.Duration

	BusinessName    string
	BusinessPhone   string
	BusinessAddress string

	AdminJWTSecret string

	// Follow-up and reminder dispatch (invoked by the worker, never self-scheduled).
	FollowUpDelayHours int
	MaxFollowUps       int
	WorkerPollInterval time.Duration
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		WhatsAppToken:         getEnv("WHATSAPP_TOKEN", ""),
		WhatsAppPhoneNumberID: getEnv("WHATSAPP_PHONE_NUMBER_ID", ""),
		WhatsAppBaseURL:       getEnv("WHATSAPP_BASE_URL", "https://graph.facebook.com/v18.0"),
		WhatsAppSendTimeout:   getEnvAsDuration("WHATSAPP_SEND_TIMEOUT", 10*time.Second),

		BusinessName:    getEnv("BUSINESS_NAME", "The Wellness London"),
		BusinessPhone:   getEnv("BUSINESS_PHONE", "+44 20 7123 4567"),
		BusinessAddress: getEnv("BUSINESS_ADDRESS", "London, UK"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		FollowUpDelayHours: getEnvAsInt("FOLLOW_UP_DELAY_HOURS", 24),
		MaxFollowUps:       getEnvAsInt("MAX_FOLLOW_UPS", 3),
		WorkerPollInterval: getEnvAsDuration("WORKER_POLL_INTERVAL", time.Minute),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
