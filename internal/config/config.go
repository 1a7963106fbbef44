package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App     AppConfig
	Store   StoreConfig
	Pattern PatternConfig
}

type AppConfig struct {
	Environment string
	LogFilePath string
}

type StoreConfig struct {
	// Backend selects the ConversationContext store: "memory" | "redis"
	Backend       string
	RedisURL      string
	SessionTTL    time.Duration
	PurgeInterval time.Duration
}

type PatternConfig struct {
	// TablePath optionally overrides the built-in pattern tables with a
	// YAML file. Empty means use the embedded defaults.
	TablePath string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, usage system environment")
	}

	return &Config{
		App: AppConfig{
			Environment: getEnv("GO_ENV", "development"),
			LogFilePath: getEnv("LOG_FILE_PATH", "logs/dialogue.log"),
		},
		Store: StoreConfig{
			Backend:       getEnv("CONTEXT_STORE", "memory"),
			RedisURL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			SessionTTL:    time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 60)) * time.Minute,
			PurgeInterval: time.Duration(getEnvAsInt("SESSION_PURGE_MINUTES", 10)) * time.Minute,
		},
		Pattern: PatternConfig{
			TablePath: getEnv("PATTERN_TABLE_PATH", ""),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}
