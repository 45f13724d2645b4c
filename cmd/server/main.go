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

	"github.com/swiftcab/service-booking/internal/application"
	"github.com/swiftcab/service-booking/internal/config"
	bookingDomain "github.com/swiftcab/service-booking/internal/domain/booking"
	bookingEvents "github.com/swiftcab/service-booking/internal/events"
	"github.com/swiftcab/service-booking/internal/handler"
	"github.com/swiftcab/service-booking/internal/kafka"
	"github.com/swiftcab/service-booking/internal/logger"
	"github.com/swiftcab/service-booking/internal/middleware"
	"github.com/swiftcab/service-booking/internal/postgrest"
	"github.com/swiftcab/service-booking/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
		zap.String("store_url", cfg.Store.URL),
	)

	// Connect to the hosted booking store
	storeClient := postgrest.New(
		cfg.Store.URL,
		cfg.Store.APIKey,
		postgrest.WithTimeout(cfg.Store.Timeout),
	)

	// Initialize repositories
	var bookingRepo bookingDomain.BookingRepository = repository.NewRestBookingRepository(storeClient)
	taxiRepo := repository.NewRestTaxiRepository(storeClient)

	// Wrap the booking repository with the local fallback when configured
	if cfg.Fallback.Enabled() {
		db, err := repository.OpenLocalStore(cfg.Fallback.Path)
		if err != nil {
			log.Fatal("failed to open local fallback store", zap.Error(err))
		}
		localRepo := repository.NewLocalBookingRepository(db)
		bookingRepo = repository.NewFallbackBookingRepository(bookingRepo, localRepo, log)
		log.Info("local fallback store enabled", zap.String("path", cfg.Fallback.Path))
	}

	// Initialize Kafka producer when brokers are configured
	var publisher application.EventPublisher
	if cfg.Kafka.Enabled() {
		producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
		defer func() { _ = producer.Close() }()
		publisher = producer
	}

	// Initialize fare strategy
	fareStrategy := bookingDomain.NewStandardFareStrategy()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		fareStrategy,
		publisher,
		log,
	)
	taxiService := application.NewTaxiService(taxiRepo, log)

	// Initialize and start the dispatch event consumer in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Kafka.Enabled() {
		groupID := cfg.Kafka.GroupPrefix + "booking-service"
		dispatchConsumer := bookingEvents.NewDispatchEventConsumer(
			cfg.Kafka.Brokers,
			groupID,
			bookingService,
			log,
		)
		defer func() { _ = dispatchConsumer.Close() }()

		go func() {
			log.Info("starting dispatch event consumer", zap.String("group_id", groupID))
			if err := dispatchConsumer.Start(ctx); err != nil && err != context.Canceled {
				log.Error("dispatch event consumer error", zap.Error(err))
			}
		}()
	}

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	taxiHandler := handler.NewTaxiHandler(taxiService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.CORS.AllowedOrigins))
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := handler.NewHealthHandler(storeClient, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup)
	taxiHandler.RegisterRoutes(&router.RouterGroup)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-booking...")

	// Cancel the consumer context
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
