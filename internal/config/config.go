package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken    string
	OperatorID  int64
	DatabaseURL string
	SQLitePath  string
	Mode        string
	Port        string
	LogPath     string
	Production  bool
}

const (
	ModePolling = "polling"
	ModeWebhook = "webhook"
)

// Load reads configuration from the environment, with .env as a fallback.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:    os.Getenv("BOT_TOKEN"),
		OperatorID:  parseOperatorID(os.Getenv("ADMIN_ID")),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		SQLitePath:  getenv("DB_PATH", "clinic.db"),
		Mode:        getenv("MODE", ModePolling),
		Port:        getenv("PORT", "8080"),
		LogPath:     getenv("LOG_PATH", "logs/clinicbot.log"),
		Production:  os.Getenv("APP_ENV") == "production",
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}
	if cfg.Mode != ModePolling && cfg.Mode != ModeWebhook {
		return nil, fmt.Errorf("MODE must be %q or %q, got %q", ModePolling, ModeWebhook, cfg.Mode)
	}
	return cfg, nil
}

// parseOperatorID returns 0 for anything that is not a plain positive number.
// Zero disables the operator console entirely: it matches no Telegram user.
func parseOperatorID(raw string) int64 {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0
	}
	return id
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
