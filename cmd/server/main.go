package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wadjakorntonsri/moodsync/pkg/adapters/handler"
	"github.com/wadjakorntonsri/moodsync/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/core/services"
	"github.com/wadjakorntonsri/moodsync/pkg/httpserver"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.IsProduction()})
	slog.SetDefault(log)

	// Initialize Repository
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer repo.Close()

	// Initialize Services
	catalog, err := services.NewCatalogService()
	if err != nil {
		log.Error("Failed to load catalog", "error", err)
		os.Exit(1)
	}

	// Initialize Router
	mux := handler.NewRouter(cfg, log, handler.Services{
		Collections: services.NewCollectionService(repo),
		Contacts:    services.NewContactService(repo),
		Catalog:     catalog,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Run(ctx, log, httpserver.New(":"+cfg.Port, mux)); err != nil {
		log.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
