package config

import (
	"errors"
	"os"
	"time"
)

// Config junta todo lo que la API lee del entorno.
// Casi todo es opcional para que `go run ./cmd/api` levante en modo dev
// (repos in-memory, auth por header X-Debug-User-ID, sin redis).
type Config struct {
	ServerPort string

	// Si viene vacío, se usan repos in-memory.
	DatabaseDSN string

	// Si viene vacío, no hay cache de places ni fanout entre instancias.
	RedisURL string

	// Si viene vacío, el middleware queda en modo dev (sin verifier).
	JWTSecret string
	JWTExpiry time.Duration

	// Buscador de lugares cercanos. Sin base URL el endpoint responde 503.
	PlacesBaseURL string
	PlacesAPIKey  string
}

func Load() (*Config, error) {
	expiryStr := getEnv("JWT_EXPIRY", "24h")
	expiry, err := time.ParseDuration(expiryStr)
	if err != nil {
		return nil, errors.New("invalid JWT_EXPIRY format")
	}

	cfg := &Config{
		ServerPort:    getEnv("PORT", "8080"),
		DatabaseDSN:   os.Getenv("DB_DSN"),
		RedisURL:      os.Getenv("REDIS_URL"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiry:     expiry,
		PlacesBaseURL: os.Getenv("PLACES_BASE_URL"),
		PlacesAPIKey:  os.Getenv("PLACES_API_KEY"),
	}

	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
