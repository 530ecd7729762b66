package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ledgercore/accounting-server/internal/api"
	"github.com/ledgercore/accounting-server/internal/config"
	"github.com/ledgercore/accounting-server/internal/migrate"
	"github.com/ledgercore/accounting-server/internal/repository"
	"github.com/ledgercore/accounting-server/internal/service"
	"github.com/ledgercore/accounting-server/internal/utils"
)

func main() {
	// Load configuration
	cfg := config.LoadConfig()
	logger := utils.NewLogger()

	// Set up database connection
	db, err := config.SetupDatabase(cfg)
	if err != nil {
		log.Fatalf("Failed to set up database: %v", err)
	}
	defer db.Close()

	// Advance the schema. A failed migration is fatal: the failing step is
	// rolled back and the process must not serve against a half-migrated
	// store.
	applied, err := migrate.ApplyPending(context.Background(), db, migrate.Registered())
	if err != nil {
		log.Fatalf("Schema migration failed, refusing to start: %v", err)
	}
	for _, m := range applied {
		logger.Info("applied migration %03d_%s", m.Seq, m.Name)
	}

	// Create repository
	repo := repository.NewSQLiteRepository(db)

	// Create service
	svc := service.NewDefaultService(repo)

	// Create API handler
	handler := api.NewHandler(svc, logger)

	// Set up Gin router
	router := gin.Default()
	router.Use(api.RequestIDMiddleware())
	router.Use(api.RequestLoggerMiddleware(logger))

	// Set up routes
	handler.SetupRoutes(router)

	// Start server
	serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
	log.Printf("Starting server on %s", serverAddr)
	if err := http.ListenAndServe(serverAddr, router); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
