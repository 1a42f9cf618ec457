package jobs

import (
	"context"
	"time"

	"farmrent-backend/internal/config"
	"farmrent-backend/internal/logger"
	"farmrent-backend/internal/repository"
)

// Relay is the part of notify.Relay the jobs drive.
type Relay interface {
	Notify()
	Flush(ctx context.Context) (int, error)
}

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	store  repository.Store
	relay  Relay
	config *config.Config
	now    func() time.Time
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(store repository.Store, relay Relay, cfg *config.Config) *JobRunner {
	return &JobRunner{
		store:  store,
		relay:  relay,
		config: cfg,
		now:    time.Now,
	}
}

func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func(ctx context.Context)) {
	log := logger.WithService("cronjob").With("job", jobName)
	defer func() {
		if r := recover(); r != nil {
			log.Error("Job panicked", "panic", r)
		}
	}()

	ctx := logger.WithContext(context.Background(), "job", jobName)
	start := time.Now()
	log.Info("Starting job")
	jobFunc(ctx)
	log.Info("Job completed", "duration", time.Since(start))
}

// RunAllDailyJobs runs all daily jobs (for manual execution)
func (jr *JobRunner) RunAllDailyJobs() {
	jr.SendPickupReminders()
	jr.SendReturnDueReminders()
	jr.RelayOutbox()
}
