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

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/spicehaven/storefront/internal/config"
	"github.com/spicehaven/storefront/internal/gateway"
	"github.com/spicehaven/storefront/internal/handlers"
	"github.com/spicehaven/storefront/internal/middleware"
	"github.com/spicehaven/storefront/internal/repository"
	"github.com/spicehaven/storefront/internal/service"
	"github.com/spicehaven/storefront/pkg/logger"
	"github.com/spicehaven/storefront/web"
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

	log.Info("starting storefront api server",
		"port", cfg.Server.Port,
		"host", cfg.Server.Host,
		"store", cfg.Store,
		"log_level", cfg.LogLevel,
	)

	// Select the product backend and token verifier. Production runs
	// against the hosted gateway; memory mode serves dev and tests.
	var (
		productRepo repository.ProductRepository
		verifier    middleware.TokenVerifier
	)
	switch cfg.Store {
	case config.StoreGateway:
		client := gateway.NewClient(cfg.Gateway.URL, cfg.Gateway.AnonKey, cfg.Gateway.ServiceKey)
		productRepo = client
		verifier = client
	case config.StoreMemory:
		log.Warn("using in-memory store; products will not survive a restart")
		productRepo = repository.NewInMemoryProductRepository()
		verifier = gateway.NewStaticVerifier(cfg.Auth.DevTokens)
	}

	// Initialize services
	productService := service.NewProductService(productRepo)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(log)
	productHandler := handlers.NewProductHandler(productService, log)

	// Create router
	r := chi.NewRouter()

	// Apply middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))

	// CORS configuration: the list endpoint is intentionally public and
	// the admin client sends bearer tokens cross-origin.
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Register health check endpoint
	r.Get("/health", healthHandler.ServeHTTP)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Public catalog endpoint
		r.Get("/products", productHandler.ListProducts)

		// Mutating endpoints re-verify the bearer token on every call
		r.Group(func(r chi.Router) {
			r.Use(middleware.BearerAuth(verifier, log))
			r.Post("/products", productHandler.CreateProduct)
			r.Post("/products/delete", productHandler.DeleteProduct)
		})
	})

	// Static storefront page
	r.Handle("/*", web.Handler())

	// Create HTTP server
	addr := fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
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

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
