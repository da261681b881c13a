package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             int
	APIKey           string
	LogLevel         string
	AnthropicAPIKey  string
	AnthropicModel   string
	DelegateTimeoutS int
	CallbackURL      string
	NatsURL          string
	NatsToken        string
	DatabaseURL      string
}

func Load() Config {
	return Config{
		Port:             envInt("HONEYPOT_PORT", 8000),
		APIKey:           envStr("HONEYPOT_API_KEY", "sk_test_123456789"),
		LogLevel:         envStr("LOG_LEVEL", "info"),
		AnthropicAPIKey:  envStr("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   envStr("HONEYPOT_MODEL", "claude-sonnet-4-20250514"),
		DelegateTimeoutS: envInt("HONEYPOT_AI_TIMEOUT_SECONDS", 15),
		CallbackURL:      envStr("CALLBACK_URL", "https://hackathon.guvi.in/api/updateHoneyPotFinalResult"),
		NatsURL:          envStr("NATS_URL", ""),
		NatsToken:        envStr("NATS_TOKEN", ""),
		DatabaseURL:      envStr("DATABASE_URL", ""),
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
