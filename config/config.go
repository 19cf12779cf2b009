package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

var (
	PORT        string
	DB_URL      string
	JWT_SECRET  string
	APP_URL     string
	CORS_ORIGIN string

	STRIPE_SECRET_KEY        string
	STRIPE_PRICE_ID          string
	STRIPE_LIFETIME_PRICE_ID string
	STRIPE_WEBHOOK_SECRET    string

	COINBASE_COMMERCE_API_KEY      string
	COINBASE_WEBHOOK_SHARED_SECRET string

	OPENAI_API_KEY string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	JWT_SECRET = mustEnv("JWT_SECRET")
	APP_URL = mustEnv("APP_URL")
	CORS_ORIGIN = getEnv("CORS_ORIGIN", "")

	STRIPE_SECRET_KEY = mustEnv("STRIPE_SECRET_KEY")
	STRIPE_PRICE_ID = mustEnv("STRIPE_PRICE_ID")
	STRIPE_LIFETIME_PRICE_ID = mustEnv("STRIPE_LIFETIME_PRICE_ID")
	STRIPE_WEBHOOK_SECRET = mustEnv("STRIPE_WEBHOOK_SECRET")

	COINBASE_COMMERCE_API_KEY = mustEnv("COINBASE_COMMERCE_API_KEY")
	COINBASE_WEBHOOK_SHARED_SECRET = mustEnv("COINBASE_WEBHOOK_SHARED_SECRET")

	OPENAI_API_KEY = mustEnv("OPENAI_API_KEY")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
