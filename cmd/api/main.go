package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jerseylab-api/internal/cache"
	"jerseylab-api/internal/config"
	"jerseylab-api/internal/database"
	"jerseylab-api/internal/handler"
	"jerseylab-api/internal/notify"
	"jerseylab-api/internal/payment"
	"jerseylab-api/internal/repository"
	"jerseylab-api/internal/router"
	"jerseylab-api/internal/service"
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
	logger.Info().Msg("starting jerseylab API server")

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
	if err := database.Migrate(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	catalogRepo := repository.NewCatalogRepository(pool, logger)
	promoRepo := repository.NewPromoRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	inquiryRepo := repository.NewInquiryRepository(pool, logger)
	adminRepo := repository.NewAdminRepository(pool, logger)

	// Initialize payment provider
	stripeProvider := payment.NewStripeProvider(
		cfg.Stripe.SecretKey,
		cfg.Stripe.WebhookSecret,
		cfg.Stripe.Timeout,
		logger,
	)

	// Initialize notifications
	var notifier notify.Notifier
	if cfg.SMTP.Enabled {
		notifier = notify.NewSMTPNotifier(cfg.SMTP)
	} else {
		notifier = &notify.LogNotifier{Logger: logger}
		logger.Info().Msg("SMTP disabled, email notifications will be logged only")
	}
	dispatcher := notify.NewAsyncDispatcher(notifier, adminRepo, 30*time.Second, logger)

	// Initialize services
	categoryCache := cache.New(cfg.Cache.CategoryTTL)
	catalogService := service.NewCatalogService(catalogRepo, categoryCache, logger)
	promoService := service.NewPromoService(promoRepo, logger)
	checkoutService := service.NewCheckoutService(orderRepo, promoRepo, catalogRepo, stripeProvider, dispatcher, logger)
	inquiryService := service.NewInquiryService(inquiryRepo, dispatcher, logger)
	adminService := service.NewAdminService(adminRepo, notifier, cfg.Auth, logger)

	// Initialize HTTP handlers
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	webhookHandler := handler.NewWebhookHandler(stripeProvider, checkoutService, logger)
	promoHandler := handler.NewPromoHandler(promoService, logger)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)
	inquiryHandler := handler.NewInquiryHandler(inquiryService, logger)
	adminHandler := handler.NewAdminHandler(adminService, logger)

	// Initialize router
	mux := router.New(
		checkoutHandler,
		webhookHandler,
		promoHandler,
		catalogHandler,
		inquiryHandler,
		adminHandler,
		cfg,
		logger,
	)

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
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		// Let in-flight notification deliveries finish
		dispatcher.Wait()

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
