package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Lixing-Zhang/catalog-manager/internal/config"
	"github.com/Lixing-Zhang/catalog-manager/internal/handlers"
	"github.com/Lixing-Zhang/catalog-manager/internal/repository"
	"github.com/Lixing-Zhang/catalog-manager/internal/service"
	"github.com/Lixing-Zhang/catalog-manager/pkg/logger"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize structured logger
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	log.Info("starting catalog api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"environment", cfg.Environment,
		"log_level", cfg.LogLevel,
	)

	// Connect to the record store
	stores, err := repository.Open(context.Background(), cfg.Store, log)
	if err != nil {
		log.Error("failed to open record store", "error", err)
		os.Exit(1)
	}
	log.Info("record store ready", "backend", stores.Backend)

	// Initialize services
	productService := service.NewProductService(stores.Products)
	categoryService := service.NewCategoryService(stores.Categories)

	router := handlers.NewRouter(handlers.RouterConfig{
		Products:       productService,
		Categories:     categoryService,
		Store:          stores,
		StoreBackend:   stores.Backend,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		RequestTimeout: time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Development:    cfg.IsDevelopment(),
		Logger:         log,
	})

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("server listening", "address", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if err := stores.Close(ctx); err != nil {
		log.Error("failed to close record store", "error", err)
	}

	log.Info("server stopped gracefully")
}
