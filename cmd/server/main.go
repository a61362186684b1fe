package main

import (
	"context"
	"log"

	"github.com/anonto42/threads-service/backend/internal/router"
	"github.com/anonto42/threads-service/backend/pkg/config"
	"github.com/anonto42/threads-service/backend/pkg/storage"
	"github.com/labstack/echo/v4"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize databases: %v", err)
	}
	defer db.CloseDB() // Ensure database connections are closed when main exits

	// Initialize Firebase storage
	ctx := context.Background()
	uploader, err := storage.InitStorage(ctx, cfg.FirebaseCredentialsPath, cfg.StorageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize storage: %v", err)
	}

	// Create Echo instance
	e := echo.New()

	// Setup global middleware
	router.SetupMiddleware(e, cfg, db.Redis)

	// Setup routes and dependencies
	router.SetupRoutes(e, cfg, db.Mongo, uploader)

	// Start server
	e.Logger.Fatal(e.Start(":" + cfg.Port))
}
