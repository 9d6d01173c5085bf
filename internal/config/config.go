package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

const defaultBannedWordsURL = "http://www.bannedwordlist.com/lists/swearWords.txt"

type Config struct {
	GroqAPIKey     string
	GeminiAPIKey   string
	DatabaseURL    string
	HTTPPort       string
	BannedWordsURL string
	SessionTTLSecs int
	LogLevel       string
}

var AppConfig Config

func LoadConfig() {
	err := godotenv.Load() // Load .env file if it exists
	if err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	AppConfig = Config{
		GroqAPIKey:     getEnv("GROQ_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		DatabaseURL:    getEnv("DATABASE_URL", "yoga_assistant.db"),
		HTTPPort:       getEnv("HTTP_PORT", "8080"),
		BannedWordsURL: getEnv("BANNED_WORDS_URL", defaultBannedWordsURL),
		SessionTTLSecs: getEnvAsInt("SESSION_TTL", 3600),
		LogLevel:       getEnv("LOG_LEVEL", "INFO"),
	}

	// Provider keys are optional on purpose: chat and pose analysis degrade
	// to user-visible error messages when a key is missing.
	if AppConfig.GroqAPIKey == "" {
		log.Println("Warning: GROQ_API_KEY not set, chat will answer with a configuration error")
	}
	if AppConfig.GeminiAPIKey == "" {
		log.Println("Warning: GEMINI_API_KEY not set, pose analysis will be unavailable")
	}
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
