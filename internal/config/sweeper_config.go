package config

import (
	"os"
	"time"
)

// SweeperConfig holds configuration for the overdue-representation sweeper.
// This is a minimal config that only includes what the sweeper needs.
type SweeperConfig struct {
	DatabaseURL    string
	RedisAddress   string
	RedisPassword  string
	RabbitMQURL    string
	EmailQueueName string
	HealthPort     string
	SweepInterval  time.Duration
	StaleDays      int
}

func LoadSweeperConfig() *SweeperConfig {
	dbURL := os.Getenv("DB_CONNECTION_STRING")
	if dbURL == "" {
		panic("DB_CONNECTION_STRING environment variable is required")
	}

	rabbitURL := os.Getenv("RABBITMQ_URL")
	if rabbitURL == "" {
		panic("RABBITMQ_URL environment variable is required")
	}

	interval := 15 * time.Minute
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			interval = d
		}
	}

	healthPort := os.Getenv("HEALTH_PORT")
	if healthPort == "" {
		healthPort = "8081"
	}

	return &SweeperConfig{
		DatabaseURL:    dbURL,
		RedisAddress:   envOrDefault("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		RabbitMQURL:    rabbitURL,
		EmailQueueName: envOrDefault("EMAIL_QUEUE_NAME", "member-emails"),
		HealthPort:     healthPort,
		SweepInterval:  interval,
		StaleDays:      envOrDefaultInt("REPRESENTATION_STALE_DAYS", 5),
	}
}
