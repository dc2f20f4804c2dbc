package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/vitaljournal/journal-service/internal/adapters/handler"
	"github.com/vitaljournal/journal-service/internal/adapters/middleware"
	"github.com/vitaljournal/journal-service/internal/adapters/repository"
	"github.com/vitaljournal/journal-service/internal/adapters/websocket"
	"github.com/vitaljournal/journal-service/internal/config"
	"github.com/vitaljournal/journal-service/internal/core/services"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database with retry logic
	db, err := config.ConnectDatabase(cfg.DatabaseURL, 5, 2*time.Second)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := config.InitDatabase(db); err != nil {
		log.Fatalf("Failed to initialize database schema: %v", err)
	}

	// Initialize RabbitMQ publisher for emergency alerts
	rabbitMQPublisher, err := repository.NewRabbitMQPublisher(cfg.RabbitMQURL, cfg.AlertQueueName)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ publisher: %v", err)
	}
	defer rabbitMQPublisher.Close()

	// Initialize repositories
	sqlRepo := repository.NewSQLRepository(db)

	// WebSocket hub delivers emergency alerts to connected clients
	hub := websocket.NewHub()
	go hub.Run()
	alertBroadcaster := websocket.NewAlertBroadcaster(hub)

	// Initialize services
	recordService := services.NewRecordService(sqlRepo, sqlRepo, rabbitMQPublisher, alertBroadcaster)
	profileService := services.NewProfileService(sqlRepo)
	hospitalService := services.NewHospitalService(sqlRepo)

	// Initialize RabbitMQ consumer for hospital directory updates.
	// The consumer runs alongside the HTTP server and ingests facility
	// lists pushed by external directory feeds.
	hospitalConsumer, err := repository.NewHospitalConsumer(cfg.RabbitMQURL, cfg.DirectoryQueueName, hospitalService)
	if err != nil {
		log.Fatalf("Failed to initialize RabbitMQ hospital consumer: %v", err)
	}
	defer hospitalConsumer.Close()

	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()
	go func() {
		if err := hospitalConsumer.StartConsuming(consumerCtx); err != nil {
			log.Printf("Hospital consumer error: %v", err)
		}
	}()
	log.Println("Hospital consumer started in background, listening for directory updates")

	// Initialize handlers
	recordHandler := handler.NewRecordHandler(recordService)
	profileHandler := handler.NewProfileHandler(profileService)
	hospitalHandler := handler.NewHospitalHandler(hospitalService)
	healthHandler := handler.NewHealthHandler(db)
	wsHandler := handler.NewWebSocketHandler(hub)

	handler.RegisterJournalMetrics()

	// Setup HTTP router
	mux := http.NewServeMux()

	// Health endpoints (OpenShift compatible)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /health/ready", healthHandler.Ready)
	mux.HandleFunc("GET /health/live", healthHandler.Live)

	// Profile endpoints
	mux.HandleFunc("PUT /profile", profileHandler.SaveProfile)
	mux.HandleFunc("GET /profile", profileHandler.GetProfile)

	// Check-in endpoints
	mux.HandleFunc("POST /records", recordHandler.CreateRecord)
	mux.HandleFunc("GET /records", recordHandler.GetRecords)
	mux.HandleFunc("GET /records/{record_id}", recordHandler.GetRecordByID)
	mux.HandleFunc("DELETE /records/{record_id}", recordHandler.DeleteRecord)
	mux.HandleFunc("GET /records/{record_id}/suggestion", recordHandler.GetSuggestion)
	mux.HandleFunc("GET /assessment", recordHandler.GetAssessment)

	// Hospital directory endpoints
	mux.HandleFunc("POST /hospitals", hospitalHandler.IngestHospitals)
	mux.HandleFunc("GET /hospitals", hospitalHandler.ListHospitals)
	mux.HandleFunc("GET /hospitals/nearest", hospitalHandler.FindNearest)
	mux.HandleFunc("PUT /location", hospitalHandler.SetLocation)

	// Live alert stream
	mux.HandleFunc("GET /ws", wsHandler.HandleWebSocket)

	// Wrap mux with metrics middleware to track all HTTP requests
	loggedRouter := middleware.MetricsMiddleware(mux)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      loggedRouter,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Starting Journal Service on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Cancel consumer context first to stop processing new messages
	consumerCancel()
	log.Println("Hospital consumer stopped")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
