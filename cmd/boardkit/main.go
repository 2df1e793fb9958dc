// Package main is the entry point for the Boardkit server.
// It wires configuration, logging, the SQLite handles, the kanban store and
// service, and the HTTP API, and owns their init/teardown lifecycle.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/boardkit/boardkit/internal/common/config"
	"github.com/boardkit/boardkit/internal/common/logger"
	"github.com/boardkit/boardkit/internal/db"
	"github.com/boardkit/boardkit/internal/kanban/handlers"
	"github.com/boardkit/boardkit/internal/kanban/service"
	"github.com/boardkit/boardkit/internal/kanban/store"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize logger
	log, err := logger.NewLogger(logger.LoggingConfig{
		Level:      cfg.Logging.Level,
		Format:     cfg.Logging.Format,
		OutputPath: cfg.Logging.OutputPath,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	logger.SetDefault(log)

	log.Info("Starting Boardkit...", zap.String("database", cfg.Database.Path))

	// 3. Open the shared SQLite handles: one writer, one reader pool.
	writer, err := db.OpenSQLite(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	defer func() { _ = writer.Close() }()

	reader, err := db.OpenSQLiteReader(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to open read-only database", zap.Error(err))
	}
	defer func() { _ = reader.Close() }()

	// 4. Construct the store (runs migrations) and the service.
	kanbanStore, err := store.NewWithDB(writer, reader, log)
	if err != nil {
		log.Fatal("Failed to initialize store", zap.Error(err))
	}
	kanbanService := service.New(kanbanStore, log)

	// 5. HTTP API
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(handlers.RequestLogger(log))

	handlers.RegisterBoardRoutes(router, kanbanService, log)
	handlers.RegisterColumnRoutes(router, kanbanService, log)
	handlers.RegisterCardRoutes(router, kanbanService, log)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 6. Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Server shutdown failed", zap.Error(err))
	}
	log.Info("Boardkit stopped")
}
