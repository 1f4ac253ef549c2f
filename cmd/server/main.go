package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/listmatic/backend/config"
	httpDelivery "github.com/listmatic/backend/internal/delivery/http"
	"github.com/listmatic/backend/internal/infrastructure/catalog"
	"github.com/listmatic/backend/internal/infrastructure/corrections"
	"github.com/listmatic/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting ListMatic Matcher v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Corrections: %s (%s)", cfg.Corrections.Type, cfg.Corrections.Path)

	// Initialize infrastructure dependencies
	store, err := corrections.New(cfg.Corrections.Type, cfg.Corrections.Path)
	if err != nil {
		log.Fatalf("Failed to open correction store: %v", err)
	}
	defer func() {
		if err := corrections.Close(store); err != nil {
			log.Printf("Error closing correction store: %v", err)
		}
	}()

	// Initialize usecase layer
	session := usecase.NewMatcherSession(store, usecase.SessionConfig{
		Threshold:          cfg.Matcher.Threshold,
		EnableDebugLogging: cfg.Matcher.EnableDebugLogging,
	})

	if cfg.Catalog.Path != "" {
		records, err := catalog.LoadFile(cfg.Catalog.Path)
		if err != nil {
			log.Printf("WARNING: master catalog not loaded: %v", err)
		} else {
			session.LoadCatalog(records)
		}
	} else {
		log.Printf("No catalog path configured - upload one to /api/v1/catalog before matching")
	}

	log.Printf("Matcher: threshold=%d, divisor=%v, margin=%v%%, debug=%v",
		cfg.Matcher.Threshold,
		cfg.Matcher.Divisor,
		cfg.Matcher.ProfitMargin,
		cfg.Matcher.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(session, store, httpDelivery.RunDefaults{
		Divisor:      cfg.Matcher.Divisor,
		ProfitMargin: cfg.Matcher.ProfitMargin,
		Threshold:    cfg.Matcher.Threshold,
	})

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Printf("[Shutdown] Received %s, shutting down...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server stopped: %v", err)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
