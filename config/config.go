package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config carries everything read from the environment at boot. JWT_SECRET is
// deliberately not held here; token signing and verification read it from the
// environment where they run.
type Config struct {
	Port string
	DSN  string
}

// Load reads .env (if present) and assembles the runtime configuration.
func Load() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port: getEnv("PORT", "8080"),
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DSN = url
		return cfg
	}

	cfg.DSN = fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_USER", "postgres"),
		os.Getenv("DB_PASSWORD"),
		getEnv("DB_NAME", "storefront"),
		getEnv("DB_PORT", "5432"),
	)
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
