package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort      string
	MongoURI        string
	MongoDatabase   string
	RedisAddr       string
	RedisDB         int
	RedisPass       string
	JWTSecret       string
	IdentityTimeout time.Duration
	StoreTimeout    time.Duration
	SwaggerHost     string
	SeedFile        string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort:      getEnv("SERVER_PORT", "5000"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase:   getEnv("MONGO_DB", "CarShop"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getEnvInt("REDIS_DB", 0),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		JWTSecret:       getEnv("JWT_SECRET", "change-me"),
		IdentityTimeout: getEnvDuration("IDENTITY_TIMEOUT", 5*time.Second),
		StoreTimeout:    getEnvDuration("STORE_TIMEOUT", 10*time.Second),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),
		SeedFile:        getEnv("SEED_FILE", "seed/products.json"),
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
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			return parsed
		}
	}
	return def
}
