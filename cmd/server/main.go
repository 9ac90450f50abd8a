package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"statline/internal/config"
	"statline/internal/db"
	"statline/internal/gemini"
	"statline/internal/metrics"
	"statline/internal/server"
)

func main() {
	// .env is optional; real deployments set env vars directly.
	_ = godotenv.Load()

	ctx := context.Background()
	cfg := config.Load()

	if cfg.GeminiAPIKey == "" {
		log.Fatal("GEMINI_API_KEY is required")
	}

	// Initialize database
	database, err := db.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Migrations completed successfully")

	// Metrics collector reads telemetry counts on scrape
	metrics.Init(database)

	// Knowledge service client
	ai := gemini.New(
		cfg.GeminiBaseURL,
		cfg.GeminiModel,
		cfg.GeminiAPIKey,
		time.Duration(cfg.GeminiTimeoutSec)*time.Second,
		cfg.GeminiMaxRetries,
	)

	srv := server.New(cfg)
	srv.RegisterRoutes(database, ai)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("Server started on %s (model %s)", cfg.ServerAddr, ai.ModelName())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := srv.Shutdown(); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}
	log.Println("Server exited")
}
