package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds runtime settings read from the environment.
type Config struct {
	Port      string
	JWTSecret string

	// DatabaseURL enables the Postgres-backed points ledger when set.
	// Without it balances live in memory.
	DatabaseURL string

	// RedisAddr enables asynq email tasks when set.
	RedisAddr string

	// CampusEmailDomain restricts signups when non-empty.
	CampusEmailDomain string

	WelcomePoints    int64
	SaleRewardPoints int64
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	cfg := Config{
		Port:              getEnv("PORT", "8080"),
		JWTSecret:         getEnv("JWT_SECRET", "supersecret"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		CampusEmailDomain: getEnv("CAMPUS_EMAIL_DOMAIN", "kiit.ac.in"),
		WelcomePoints:     getEnvInt64("WELCOME_POINTS", 500),
		SaleRewardPoints:  getEnvInt64("SALE_REWARD_POINTS", 50),
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		log.Printf("invalid %s=%q, using default %d", key, v, fallback)
		return fallback
	}
	return n
}
