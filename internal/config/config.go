package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application.
type Config struct {
	Port        string
	Env         string
	DatabaseURL string // PostgreSQL; SQLite is used when empty
	SQLitePath  string
	RedisURL    string

	// Discord
	WebhookURL       string // channel webhook for summary posts and reminders
	DiscordPublicKey string // hex-encoded key verifying interaction requests
	FormBaseURL      string // public base URL the slash command links to

	// Reminders
	ReminderTimes []string // "HH:MM" local times
	ReminderText  string

	// Rate limiting
	RateLimitWhitelist []string // IPs or CIDRs exempt from rate limiting
	AutoBlockEnabled   bool     // Enable auto-blocking after repeated violations
}

// Load reads configuration from environment variables.
// In development, it loads from .env file if present.
// In production, it panics on missing required variables.
func Load() *Config {
	// Load .env file if it exists (for development)
	_ = godotenv.Load()

	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		Env:              getEnv("ENV", "development"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		SQLitePath:       os.Getenv("SQLITE_PATH"),
		RedisURL:         os.Getenv("REDIS_URL"),
		WebhookURL:       os.Getenv("WEBHOOK_DAILY"),
		DiscordPublicKey: os.Getenv("DISCORD_PUBLIC_KEY"),
		FormBaseURL:      getEnv("FORM_BASE_URL", "http://localhost:8080"),
		ReminderText:     getEnv("REMINDER_TEXT", "Reminder: Kindly update your everyday tasks by 10 pm!"),
		AutoBlockEnabled: getEnv("AUTO_BLOCK_ENABLED", "false") == "true",
	}

	cfg.ReminderTimes = splitList(getEnv("REMINDER_TIMES", "07:30,21:00"))
	cfg.RateLimitWhitelist = splitList(os.Getenv("RATE_LIMIT_WHITELIST"))

	// In production, the bot cannot function without these
	if cfg.Env == "production" {
		if cfg.WebhookURL == "" {
			panic("WEBHOOK_DAILY is required in production")
		}
		if cfg.DiscordPublicKey == "" {
			panic("DISCORD_PUBLIC_KEY is required in production")
		}
	}

	return cfg
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, entry := range strings.Split(value, ",") {
		entry = strings.TrimSpace(entry)
		if entry != "" {
			out = append(out, entry)
		}
	}
	return out
}
