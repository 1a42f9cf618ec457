package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"farmrent-backend/internal/app"
	"farmrent-backend/internal/config"
	"farmrent-backend/internal/jobs"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/scheduler"

	"github.com/joho/godotenv"
)

func main() {
	// Parse command-line flags
	configPath := flag.String("config", "config/config.example.yaml", "Path to configuration file")
	envFile := flag.String("env-file", ".env", "Optional dotenv file loaded before configuration")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'pickup-reminders', 'relay-outbox', 'all-daily')")
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
	logger.Info("Starting FarmRent cronjob runner...", "log_level", cfg.Log.Level, "store", cfg.Booking.Store)

	if cfg.Booking.Store == "memory" {
		logger.Warn("The cron runner shares nothing with the server when using the memory store")
	}

	backend, err := app.OpenBackend(context.Background(), cfg)
	if err != nil {
		logger.Error("Failed to open store", "error", err)
		log.Fatalf("Failed to open store: %v", err)
	}
	defer backend.Close()

	dispatcher, closeDispatcher := app.NewDispatcher(cfg, backend)
	defer closeDispatcher()
	relay := app.NewRelay(cfg, backend, dispatcher)

	// Initialize Job Runner
	jobRunner := jobs.NewJobRunner(backend.Store, relay, cfg)

	// Check if running a single job
	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		if !runJobOnce(jobRunner, *runOnce) {
			os.Exit(1)
		}
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	// Initialize Scheduler
	cronScheduler, err := scheduler.NewScheduler(jobRunner)
	if err != nil {
		logger.Error("Failed to register jobs", "error", err)
		log.Fatalf("Failed to register jobs: %v", err)
	}

	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.", "jobs", cronScheduler.Entries())

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	// Graceful shutdown
	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped. Goodbye!")
}

// runJobOnce runs a specific job once. It reports false for an unknown name.
func runJobOnce(jobRunner *jobs.JobRunner, jobName string) bool {
	switch jobName {
	case "pickup-reminders":
		jobRunner.SendPickupReminders()
	case "return-due-reminders":
		jobRunner.SendReturnDueReminders()
	case "relay-outbox":
		jobRunner.RelayOutbox()
	case "all-daily":
		jobRunner.RunAllDailyJobs()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - pickup-reminders\n")
		fmt.Printf("  - return-due-reminders\n")
		fmt.Printf("  - relay-outbox\n")
		fmt.Printf("  - all-daily\n")
		return false
	}
	return true
}
