package bookings

import (
	"context"
	"sync"
	"time"

	"homestay/pkg/logger"
)

// JobProcessor runs the scheduled booking maintenance jobs
type JobProcessor struct {
	service Service
	config  *JobConfig
	log     *logger.Logger
	done    chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

// JobConfig contains configuration for background jobs
type JobConfig struct {
	CompletionInterval time.Duration
	ReconcileInterval  time.Duration
}

// DefaultJobConfig returns default job configuration
func DefaultJobConfig() *JobConfig {
	return &JobConfig{
		CompletionInterval: 15 * time.Minute, // Close stays whose checkout passed
		ReconcileInterval:  24 * time.Hour,   // Heal counter drift daily
	}
}

// NewJobProcessor creates a new job processor
func NewJobProcessor(service Service, config *JobConfig) *JobProcessor {
	defaults := DefaultJobConfig()
	if config == nil {
		config = defaults
	}
	cfg := *config
	// Tickers panic on non-positive intervals
	if cfg.CompletionInterval <= 0 {
		cfg.CompletionInterval = defaults.CompletionInterval
	}
	if cfg.ReconcileInterval <= 0 {
		cfg.ReconcileInterval = defaults.ReconcileInterval
	}

	return &JobProcessor{
		service: service,
		config:  &cfg,
		log:     logger.GetDefault().WithComponent("booking-jobs"),
		done:    make(chan struct{}),
	}
}

// Start starts all background jobs
func (jp *JobProcessor) Start(ctx context.Context) {
	jp.wg.Add(2)
	go jp.run(ctx, "completion", jp.config.CompletionInterval, jp.completePastStays)
	go jp.run(ctx, "reconcile", jp.config.ReconcileInterval, jp.reconcileCounters)

	jp.log.Info("Booking background jobs started",
		"completion_interval", jp.config.CompletionInterval.String(),
		"reconcile_interval", jp.config.ReconcileInterval.String(),
	)
}

// Stop stops all background jobs and waits for a running pass to finish
func (jp *JobProcessor) Stop() {
	jp.once.Do(func() {
		close(jp.done)
	})
	jp.wg.Wait()
	jp.log.Info("Booking background jobs stopped")
}

func (jp *JobProcessor) run(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	defer jp.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on startup
	job(ctx)

	for {
		select {
		case <-ticker.C:
			job(ctx)
		case <-jp.done:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (jp *JobProcessor) completePastStays(ctx context.Context) {
	completed, err := jp.service.CompletePastStays(ctx)
	if err != nil {
		jp.log.ErrorWithContext(ctx, "Failed to complete past stays", err, map[string]interface{}{"completed": completed})
		return
	}
	if completed > 0 {
		jp.log.InfoContext(ctx, "Completed past stays", "count", completed)
	}
}

func (jp *JobProcessor) reconcileCounters(ctx context.Context) {
	result, err := jp.service.ReconcileCounters(ctx)
	if err != nil {
		jp.log.ErrorWithContext(ctx, "Failed to reconcile booking counters", err, nil)
		return
	}
	if result.HotelsUpdated > 0 || result.UsersUpdated > 0 {
		jp.log.WarnContext(ctx, "Booking counters drifted and were corrected",
			"hotels", result.HotelsUpdated, "users", result.UsersUpdated)
	}
}
