package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Sessions
	SessionCookieName string
	SessionExpiry     time.Duration

	// Stripe
	StripeSecretKey     string
	StripeWebhookSecret string

	// Newsletter unsubscribe tokens (HS256)
	NewsletterTokenSecret string
	NewsletterTokenTTL    time.Duration

	// Bootstrap super admin (seeded only when no users exist)
	AdminUsername string
	AdminPassword string

	// Server
	Port        string
	CORSOrigins string
	Environment string
}

func Load() *Config {
	// .env is optional; real deployments inject the environment directly.
	_ = godotenv.Load()

	return &Config{
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "foundation_db"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		SessionCookieName: getEnv("SESSION_COOKIE_NAME", "hl_session"),
		SessionExpiry:     parseDuration(getEnv("SESSION_EXPIRY", "24h"), 24*time.Hour),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		NewsletterTokenSecret: getEnv("NEWSLETTER_TOKEN_SECRET", ""),
		NewsletterTokenTTL:    parseDuration(getEnv("NEWSLETTER_TOKEN_TTL", "720h"), 720*time.Hour),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: getEnv("CORS_ORIGINS", "*"),
		Environment: getEnv("APP_ENV", "development"),
	}
}

func (c *Config) DSN() string {
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}
