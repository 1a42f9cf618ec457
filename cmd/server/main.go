package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	api "farmrent-backend/internal/api/grpc"
	"farmrent-backend/internal/api/grpc/interceptor"
	httpapi "farmrent-backend/internal/api/http"
	"farmrent-backend/internal/app"
	"farmrent-backend/internal/config"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/security"
	"farmrent-backend/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.example.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before configuration")
	flag.Parse()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Fatalf("Failed to load %s: %v", *envFile, err)
	}

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting FarmRent booking backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "grpc_address", cfg.GetServerAddress(), "http_address", cfg.GetHTTPAddress())
	logger.Info("Booking configuration", "store", cfg.Booking.Store, "lock", cfg.Booking.Lock)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize persistence
	backend, err := app.OpenBackend(ctx, cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer backend.Close()

	locker, closeLocker, err := app.NewLocker(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize equipment lock", "error", err)
		log.Fatalf("Failed to initialize equipment lock: %v", err)
	}
	defer closeLocker()

	// Outbox delivery
	dispatcher, closeDispatcher := app.NewDispatcher(cfg, backend)
	defer closeDispatcher()
	relay := app.NewRelay(cfg, backend, dispatcher)
	go relay.Run(ctx, cfg.RelayInterval())

	// Initialize Services
	bookingSvc := service.NewBookingService(backend.Store, locker, service.WithNotifier(relay))
	noteSvc := service.NewNotificationService(backend.Notifications)

	// Initialize Security
	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	authInterceptor := interceptor.NewAuthInterceptor(tokenManager)

	// Set up gRPC server
	lis, err := net.Listen("tcp", cfg.GetServerAddress())
	if err != nil {
		logger.Error("Failed to listen", "error", err, "address", cfg.GetServerAddress())
		log.Fatalf("Failed to listen: %v", err)
	}

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(interceptor.Logging(), authInterceptor.Unary()),
	)

	// Register services
	api.RegisterBookingServiceServer(s, api.NewBookingHandler(bookingSvc))
	api.RegisterNotificationServiceServer(s, api.NewNotificationHandler(noteSvc))

	healthSrv := health.NewServer()
	healthpb.RegisterHealthServer(s, healthSrv)
	healthSrv.SetServingStatus(api.BookingServiceName, healthpb.HealthCheckResponse_SERVING)

	// HTTP server for QR codes, health and metrics
	httpSrv := &http.Server{
		Addr:              cfg.GetHTTPAddress(),
		Handler:           httpapi.NewRouter(bookingSvc, tokenManager, backend),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("HTTP server listening", "address", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			stop()
		}
	}()

	go func() {
		logger.Info("gRPC server listening", "address", cfg.GetServerAddress())
		if err := s.Serve(lis); err != nil {
			logger.Error("Failed to serve gRPC", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	// Graceful shutdown
	logger.Info("Shutting down...")
	healthSrv.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown error", "error", err)
	}
	s.GracefulStop()

	// Deliver whatever the last requests enqueued.
	if _, err := relay.Flush(shutdownCtx); err != nil {
		logger.Warn("Final outbox flush failed", "error", err)
	}
	logger.Info("Server stopped. Goodbye!")
}
