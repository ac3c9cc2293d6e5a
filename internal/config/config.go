package config

import (
	"os"
	"strconv"
)

// OpenAIConfig holds settings for the hosted language-model API.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	TimeoutSec int
}

// DatabaseConfig holds connection settings for the optional history store.
// An empty URL means history persistence is disabled.
type DatabaseConfig struct {
	URL                string
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	AppHost         string
	Port            string
	OpenAI          OpenAIConfig
	Database        DatabaseConfig
	MaxContextChars int
	SessionTTLMin   int
	HistoryEnabled  bool
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// Real environment variables take precedence over the .env file.
func Load() *AppConfig {
	dbURL := getEnv("DATABASE_URL", "")
	return &AppConfig{
		AppHost: getEnv("APP_HOST", "localhost:8080"),
		Port:    getEnv("PORT", "8080"), // default only for non-sensitive value
		OpenAI: OpenAIConfig{
			APIKey:     getEnv("OPENAI_API_KEY", ""),
			BaseURL:    getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
			Model:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			TimeoutSec: getEnvInt("OPENAI_TIMEOUT_SEC", 120),
		},
		Database: DatabaseConfig{
			URL:                dbURL,
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MaxContextChars: getEnvInt("PROMPT_MAX_CONTEXT_CHARS", 24000),
		SessionTTLMin:   getEnvInt("SESSION_TTL_MIN", 120),
		HistoryEnabled:  dbURL != "",
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
