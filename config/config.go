package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port             string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresHost     string
	PostgresPort     string
	PostgresSSLMode  string
	PostgresTimeZone string
	// PrivilegedDSN is a separate connection string for the elevated role
	// allowed to write balances and the ledger. It is legitimately absent
	// in some environments; settlement then falls back to the client path.
	PrivilegedDSN         string
	StripeSecretKey       string
	StripeWebhookKey      string
	Currency              string
	PublicBaseURL         string
	FrontendURL           string
	SettlementSNSTopicARN string
	SMTPHost              string
	SMTPPort              string
	SMTPUser              string
	SMTPPass              string
}

func LoadConfig() (*Config, error) {
	// Local development reads from .env; deployed environments set real
	// environment variables and have no .env file.
	_ = godotenv.Load()

	cfg := &Config{
		Port:                  getEnv("PORT", "8091"),
		PostgresUser:          os.Getenv("POSTGRES_USER"),
		PostgresPassword:      os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:            os.Getenv("POSTGRES_DB"),
		PostgresHost:          os.Getenv("POSTGRES_HOST"),
		PostgresPort:          getEnv("POSTGRES_PORT", "5432"),
		PostgresSSLMode:       getEnv("POSTGRES_SSLMODE", "disable"),
		PostgresTimeZone:      getEnv("POSTGRES_TIMEZONE", "UTC"),
		PrivilegedDSN:         os.Getenv("POSTGRES_PRIVILEGED_DSN"),
		StripeSecretKey:       os.Getenv("STRIPE_API_KEY"),
		StripeWebhookKey:      os.Getenv("STRIPE_WEBHOOK_SECRET"),
		Currency:              getEnv("CURRENCY", "usd"),
		PublicBaseURL:         getEnv("PUBLIC_BASE_URL", "http://localhost:8091"),
		FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:3000"),
		SettlementSNSTopicARN: os.Getenv("SETTLEMENT_SNS_TOPIC_ARN"),
		SMTPHost:              os.Getenv("SMTP_HOST"),
		SMTPPort:              getEnv("SMTP_PORT", "587"),
		SMTPUser:              os.Getenv("SMTP_USER"),
		SMTPPass:              os.Getenv("SMTP_PASS"),
	}

	if cfg.PostgresUser == "" || cfg.PostgresPassword == "" || cfg.PostgresDB == "" || cfg.PostgresHost == "" {
		return nil, fmt.Errorf("database config incomplete")
	}
	if cfg.StripeSecretKey == "" {
		return nil, fmt.Errorf("STRIPE_API_KEY not set")
	}

	return cfg, nil
}

// DSN builds the regular (non-privileged) postgres connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
		c.PostgresHost, c.PostgresUser, c.PostgresPassword, c.PostgresDB,
		c.PostgresPort, c.PostgresSSLMode, c.PostgresTimeZone,
	)
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
