package handler

import (
	"net/http"

	"github.com/wadjakorntonsri/moodsync/pkg/adapters/handler"
	"github.com/wadjakorntonsri/moodsync/pkg/adapters/repository/sqlite"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/core/services"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

var mux http.Handler

func init() {
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, JSON: true})

	// Note: On Vercel, db.sqlite is ephemeral unless DATABASE_URL points at Turso
	repo, err := sqlite.NewSQLiteRepository(cfg.DatabaseURL)
	if err != nil {
		panic(err)
	}
	catalog, err := services.NewCatalogService()
	if err != nil {
		panic(err)
	}

	mux = handler.NewRouter(cfg, log, handler.Services{
		Collections: services.NewCollectionService(repo),
		Contacts:    services.NewContactService(repo),
		Catalog:     catalog,
	})
}

// Handler is the entrypoint for Vercel
func Handler(w http.ResponseWriter, r *http.Request) {
	mux.ServeHTTP(w, r)
}
