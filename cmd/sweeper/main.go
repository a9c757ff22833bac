package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/messaging"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/notification"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/repository"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/sweeper"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/config"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/services"
)

func main() {
	log.Println("Starting overdue-representation sweeper...")

	cfg := config.LoadSweeperConfig()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("sweeper: failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EmailQueueName)
	if err != nil {
		log.Fatalf("sweeper: failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()

	representationRepo := repository.NewRepresentationRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	auditLog := repository.NewAuditLog(db)
	notifier := notification.NewDispatcher(redisClient, broker)

	representationService := services.NewRepresentationService(representationRepo, memberRepo, notifier, auditLog, cfg.StaleDays)

	worker := sweeper.New(representationService, notifier, cfg.SweepInterval)

	// Start health check HTTP server
	healthMux := http.NewServeMux()
	healthMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK

		if !worker.IsHealthy() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "overdue-sweeper",
		})
	})
	healthMux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		status := "UP"
		httpStatus := http.StatusOK

		if !worker.IsReady() {
			status = "DOWN"
			httpStatus = http.StatusServiceUnavailable
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(httpStatus)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"status":    status,
			"component": "overdue-sweeper",
		})
	})

	go func() {
		log.Printf("sweeper: health endpoint on :%s", cfg.HealthPort)
		if err := http.ListenAndServe(":"+cfg.HealthPort, healthMux); err != nil {
			log.Printf("sweeper: health server error: %v", err)
		}
	}()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("sweeper: received shutdown signal")
		cancel()
	}()

	if err := worker.Start(ctx); err != nil && err != context.Canceled {
		log.Fatalf("sweeper: stopped with error: %v", err)
	}
	log.Println("sweeper: stopped")
}
