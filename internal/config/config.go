package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort      string
	AppEnv       string
	RemoteAPIURL string
	QueueDBPath  string
}

func LoadConfig() *Config {
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:      getEnv("APP_PORT", "8080"),
		AppEnv:       os.Getenv("APP_ENV"),
		RemoteAPIURL: os.Getenv("REMOTE_API_URL"),
		QueueDBPath:  getEnv("QUEUE_DB_PATH", "orders.db"),
	}

	if cfg.RemoteAPIURL == "" {
		log.Fatal("REMOTE_API_URL is not set")
	}

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
