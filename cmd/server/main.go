package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/jpelletier/card-binder/internal/api"
	"github.com/jpelletier/card-binder/internal/database"
	"github.com/jpelletier/card-binder/internal/metrics"
	"github.com/jpelletier/card-binder/internal/services"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	// Database path
	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./card_binder.db"
	}

	// Initialize database
	if err := database.Initialize(dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Initialize eBay service for image discovery and listing search
	ebayToken := os.Getenv("EBAY_OAUTH_TOKEN")
	if ebayToken == "" {
		log.Println("EBAY_OAUTH_TOKEN not set: image discovery and eBay search disabled")
	}
	ebayDailyLimit := 0
	if limitStr := os.Getenv("EBAY_DAILY_LIMIT"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			ebayDailyLimit = limit
		}
	}
	ebayService := services.NewEbayService(ebayToken, ebayDailyLimit)

	// Initialize image discovery and the backfill worker
	imageService := services.NewImageService(ebayService, database.GetDB())
	imageWorker := services.NewImageWorker(imageService, ebayService)

	// Create a cancellable context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Start image worker in background with panic recovery
	go func() {
		for {
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.Printf("PANIC in image worker: %v - restarting in 30 seconds", r)
					}
				}()
				imageWorker.Start(ctx)
			}()

			select {
			case <-ctx.Done():
				return // Graceful shutdown
			case <-time.After(30 * time.Second):
				log.Println("Image worker restarting after panic recovery...")
			}
		}
	}()

	// Prime the collection gauges before the first scrape
	metrics.UpdateCollectionMetrics(database.GetDB())

	// Setup router
	router := api.SetupRouter(ebayService, imageService, imageWorker)

	// Get port from environment
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Create HTTP server for graceful shutdown
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Cancel the context to stop the image worker
	cancel()

	// Give outstanding requests a deadline to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
