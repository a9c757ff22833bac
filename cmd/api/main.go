package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/handler"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/idgen"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/messaging"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/middleware"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/notification"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/adapters/repository"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/config"
	"github.com/tomi-sarpola-nortal/n-medi-hub/review-service/internal/core/services"
)

const (
	roleStaff  = "CHAMBER_STAFF"
	roleMember = "MEMBER"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       0,
	})

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	log.Println("Connected to Redis successfully")

	broker, err := messaging.NewRabbitMQBroker(cfg.RabbitMQURL, cfg.EmailQueueName)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer broker.Close()

	memberRepo := repository.NewMemberRepository(db)
	representationRepo := repository.NewRepresentationRepository(db)
	auditLog := repository.NewAuditLog(db)
	dentistIDs := idgen.NewDentistIDGenerator(db)
	notifier := notification.NewDispatcher(redisClient, broker)

	reviewService := services.NewReviewService(memberRepo, notifier, auditLog, dentistIDs)
	representationService := services.NewRepresentationService(representationRepo, memberRepo, notifier, auditLog, cfg.StaleDays)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTPublicKey)

	reviewHandler := handler.NewReviewHandler(reviewService)
	representationHandler := handler.NewRepresentationHandler(representationService)
	healthHandler := handler.NewHealthHandler(db, redisClient)

	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.HandleFunc("/health", healthHandler.Health)
	mux.HandleFunc("/health/ready", healthHandler.Ready)
	mux.HandleFunc("/health/live", healthHandler.Live)
	mux.Handle("/metrics", promhttp.Handler())

	// Review endpoints - chamber staff only
	mux.Handle("POST /members/{id}/review",
		authMiddleware.RequireRole([]string{roleStaff}, http.HandlerFunc(reviewHandler.Review)),
	)
	mux.Handle("GET /members/{id}/changes",
		authMiddleware.RequireRole([]string{roleStaff}, http.HandlerFunc(reviewHandler.PendingChanges)),
	)

	// Representation endpoints
	mux.Handle("POST /representations",
		authMiddleware.RequireRole([]string{roleStaff, roleMember}, http.HandlerFunc(representationHandler.Create)),
	)
	mux.Handle("POST /representations/{id}/status",
		authMiddleware.RequireRole([]string{roleStaff, roleMember}, http.HandlerFunc(representationHandler.SetStatus)),
	)
	mux.Handle("GET /members/{id}/confirmed-hours",
		authMiddleware.RequireRole([]string{roleStaff, roleMember}, http.HandlerFunc(representationHandler.ConfirmedHours)),
	)
	mux.Handle("GET /representations/overdue",
		authMiddleware.RequireRole([]string{roleStaff}, http.HandlerFunc(representationHandler.Overdue)),
	)

	corsWrapped := middleware.CORSMiddleware(cfg.AllowedOrigins)(mux)

	log.Printf("Starting server on :%s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, corsWrapped); err != nil {
		log.Fatalf("Could not start server: %s\n", err)
	}
}
