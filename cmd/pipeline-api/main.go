package main

import (
	"log/slog"
	"os"

	"orders-revenue-pipeline/internal/api"
	"orders-revenue-pipeline/internal/api/handler"
	"orders-revenue-pipeline/internal/config"
	"orders-revenue-pipeline/internal/logging"
	"orders-revenue-pipeline/internal/store"
	"orders-revenue-pipeline/pkg/router"
	"orders-revenue-pipeline/pkg/utils"

	_ "orders-revenue-pipeline/docs"
)

// @title Orders Revenue Pipeline API
// @version 1.0
// @description Trigger and inspect daily revenue pipeline runs.
// @BasePath /api/v1
func main() {
	cfg := config.Load()
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	if err := store.InitDB(cfg.DBPath); err != nil {
		slog.Error("failed to open run database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	handler.Setup(cfg.InputDir, utils.NewOutputManager(cfg.OutputBaseDir))

	r := router.New()
	api.RegisterRoutes(r)

	r.Start(cfg.Addr())
}
