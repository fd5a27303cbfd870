// Package config reads service configuration from environment variables.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Salon opening hours. Minutes are minute-of-day in the salon's local
	// timezone. The closed weekday is time.Weekday numbering (0 = Sunday).
	OpenMinutes   int
	CloseMinutes  int
	SlotMinutes   int
	ClosedWeekday int
	Timezone      string

	// Availability engine
	BlackoutFetchTimeout time.Duration

	// Loyalty
	LoyaltyWindowMonths   int
	LoyaltyDiscountPct    int
	BirthdayDiscountPct   int
	LoyaltyGrantWindowTTL time.Duration

	// DynamoDB table names
	BookingsTable   string
	BlackoutsTable  string
	TreatmentsTable string
	CustomersTable  string

	// AWS
	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	// Redis
	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	// Email
	EmailProvider     string
	SendGridAPIKey    string
	SendGridFromEmail string
	SendGridFromName  string
	SESFromEmail      string
	SESFromName       string

	// Admin endpoints
	AdminJWTSecret string

	CORSAllowedOrigins string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		OpenMinutes:   getEnvAsInt("SALON_OPEN_MINUTES", 9*60),
		CloseMinutes:  getEnvAsInt("SALON_CLOSE_MINUTES", 18*60),
		SlotMinutes:   getEnvAsInt("SALON_SLOT_MINUTES", 30),
		ClosedWeekday: getEnvAsInt("SALON_CLOSED_WEEKDAY", 0),
		Timezone:      getEnv("SALON_TIMEZONE", "Europe/Berlin"),

		BlackoutFetchTimeout: getEnvAsDuration("BLACKOUT_FETCH_TIMEOUT", 2*time.Second),

		LoyaltyWindowMonths:   getEnvAsInt("LOYALTY_WINDOW_MONTHS", 6),
		LoyaltyDiscountPct:    getEnvAsInt("LOYALTY_DISCOUNT_PCT", 20),
		BirthdayDiscountPct:   getEnvAsInt("BIRTHDAY_DISCOUNT_PCT", 10),
		LoyaltyGrantWindowTTL: getEnvAsDuration("LOYALTY_GRANT_WINDOW_TTL", 15*time.Minute),

		BookingsTable:   getEnv("BOOKINGS_TABLE", "salon_bookings"),
		BlackoutsTable:  getEnv("BLACKOUTS_TABLE", "salon_blackouts"),
		TreatmentsTable: getEnv("TREATMENTS_TABLE", "salon_treatments"),
		CustomersTable:  getEnv("CUSTOMERS_TABLE", "salon_customers"),

		AWSRegion:           getEnv("AWS_REGION", "eu-central-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		RedisAddr:     getEnv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		EmailProvider:     getEnv("EMAIL_PROVIDER", "sendgrid"),
		SendGridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendGridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendGridFromName:  getEnv("SENDGRID_FROM_NAME", "Haarwerk Salon"),
		SESFromEmail:      getEnv("SES_FROM_EMAIL", ""),
		SESFromName:       getEnv("SES_FROM_NAME", "Haarwerk Salon"),

		AdminJWTSecret: getEnv("ADMIN_JWT_SECRET", ""),

		CORSAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", ""),
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
