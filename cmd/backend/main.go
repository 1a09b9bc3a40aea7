// Package main provides the entry point for the TinyLink URL shortener service.
//
//	@title			TinyLink API
//	@version		1.0.0
//	@description	A minimalistic URL shortener service.
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:8080
//	@BasePath	/
package main

import (
	"TinyLink-Backend/internal/analytics"
	"TinyLink-Backend/internal/config"
	"TinyLink-Backend/internal/database"
	httpHandler "TinyLink-Backend/internal/handler/http"
	"TinyLink-Backend/internal/repository/sqlstore"
	"TinyLink-Backend/internal/service"
	"TinyLink-Backend/pkg/logger"
	"context"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	_ "TinyLink-Backend/docs" // swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting TinyLink backend", zap.String("env", cfg.Env))

	// Database
	db, err := database.NewConnection(&cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := database.Close(db, log); err != nil {
			log.Error("failed to close database connection", zap.Error(err))
		}
	}()

	if cfg.Database.AutoMigrate {
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	// Storage and services
	storage := sqlstore.New(db, log)
	registry := service.NewLinkRegistry(storage, &cfg.ShortLink, log)
	qrService := service.NewQRService()

	// Async click recorder
	clickProcessor := analytics.NewProcessor(storage, log, analytics.FromAppConfig(&cfg.Analytics))
	if err := clickProcessor.Start(); err != nil {
		log.Fatal("failed to start click processor", zap.Error(err))
	}

	// HTTP server
	apiServer := httpHandler.NewServer(storage, registry, qrService, clickProcessor, log, &cfg.ShortLink)

	httpServer := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	go func() {
		log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down TinyLink backend...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTPServer.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Drain queued clicks before closing the database.
	if err := clickProcessor.Stop(); err != nil {
		log.Error("failed to stop click processor", zap.Error(err))
	}
}
