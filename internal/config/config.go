package config

import (
	"crypto/rsa"
	"os"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

type Config struct {
	JWTPublicKey   *rsa.PublicKey
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	RabbitMQURL    string
	EmailQueueName string
	AllowedOrigins []string
	Port           string

	// StaleDays is the representation staleness threshold in days: pending
	// requests whose start date is older count as overdue, and submissions
	// that arrive already past it trigger the late-submission alert.
	StaleDays int
}

func Load() *Config {
	publicKeyPath := os.Getenv("PUBLIC_KEY_PATH")
	if publicKeyPath == "" {
		publicKeyPath = "/etc/certs/public.pem"
	}
	publicKey, err := loadPublicKey(publicKeyPath)
	if err != nil {
		panic("Failed to load public key: " + err.Error())
	}

	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	origins := []string{"*"}
	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		origins = strings.Split(v, ",")
	}

	return &Config{
		JWTPublicKey:   publicKey,
		DatabaseURL:    dbURL,
		RedisAddress:   envOrDefault("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:    rabbitURL,
		EmailQueueName: envOrDefault("EMAIL_QUEUE_NAME", "member-emails"),
		AllowedOrigins: origins,
		Port:           port,
		StaleDays:      envOrDefaultInt("REPRESENTATION_STALE_DAYS", 5),
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envOrDefaultInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}

func loadPublicKey(path string) (*rsa.PublicKey, error) {
	keyData, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	publicKey, err := jwt.ParseRSAPublicKeyFromPEM(keyData)
	if err != nil {
		return nil, err
	}
	return publicKey, nil
}
