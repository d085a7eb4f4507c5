package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"derinfoods/internal/config"
	"derinfoods/internal/database"
	"derinfoods/internal/handler"
	"derinfoods/internal/middleware"
	"derinfoods/internal/notify"
	"derinfoods/internal/payment"
	"derinfoods/internal/repository"
	"derinfoods/internal/router"
	"derinfoods/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting derinfoods API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply schema migrations
	if err := repository.Migrate(ctx, pool); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	notificationRepo := repository.NewNotificationRepository(pool, logger)

	// Initialize payment processor client
	paymentClient := payment.NewClient(cfg.Payment.BaseURL, cfg.Payment.SecretKey, cfg.Payment.Timeout, logger)

	// Initialize the admin notification channel
	notifier := notify.NewNotifier(notificationRepo, logger)

	// Initialize authenticator
	authenticator := middleware.NewJWTAuthenticator(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, notifier, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, notifier, cfg.Shipping, logger)
	paymentService := service.NewPaymentService(orderRepo, paymentClient, cfg.Payment.SecretKey, notifier, logger)
	userService := service.NewUserService(userRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health:       handler.NewHealthHandler(pool, logger),
		Product:      handler.NewProductHandler(productService, logger),
		Order:        handler.NewOrderHandler(orderService, logger),
		Payment:      handler.NewPaymentHandler(paymentService, logger),
		User:         handler.NewUserHandler(userService, authenticator, logger),
		Notification: handler.NewNotificationHandler(notificationService, logger),
	}

	// Initialize router
	mux := router.New(handlers, authenticator, cfg.CORS.AllowedOrigins, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
