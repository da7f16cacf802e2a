package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/wadjakorntonsri/moodsync/pkg/adapters/handler"
	"github.com/wadjakorntonsri/moodsync/pkg/adapters/trainingdata"
	"github.com/wadjakorntonsri/moodsync/pkg/classifier"
	"github.com/wadjakorntonsri/moodsync/pkg/config"
	"github.com/wadjakorntonsri/moodsync/pkg/core/services"
	"github.com/wadjakorntonsri/moodsync/pkg/httpserver"
	"github.com/wadjakorntonsri/moodsync/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Level: cfg.LogLevel, JSON: cfg.IsProduction()}).With("service", "classifier")
	slog.SetDefault(log)

	if cfg.TrainingDataURL == "" {
		log.Warn("TRAINING_DATA_URL is not set, /train will use the built-in rows")
	}
	svc := services.NewClassifierService(trainingdata.NewClient(cfg.TrainingDataURL), classifier.Epochs)
	mux := handler.NewClassifierRouter(cfg, log, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := httpserver.Run(ctx, log, httpserver.New(":"+cfg.ClassifierPort, mux)); err != nil {
		log.Error("Classifier stopped with error", "error", err)
		os.Exit(1)
	}
}
