package config

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	WebhookURL    string
	WebhookSecret string
	BankName      string
	BankCode      string
	Env           string
}

// LoadConfig reads .env and returns a Config. Missing .env is fine in
// production, where everything comes from the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on system env variables")
	}

	return &Config{
		Port:          getEnv("PORT", "3000"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		WebhookURL:    getEnv("WEBHOOK_URL", ""),
		WebhookSecret: getEnv("WEBHOOK_SECRET", ""),
		BankName:      getEnv("BANK_NAME", "Bank Service"),
		BankCode:      getEnv("BANK_CODE", "711"),
		Env:           getEnv("ENV", "development"),
	}
}

// BankInfo is the bank identification shown on pix key lookups.
func (c *Config) BankInfo() string {
	return c.BankCode + " - " + c.BankName
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
