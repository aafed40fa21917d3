package bookings

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingService struct {
	Service
	completions atomic.Int32
	reconciles  atomic.Int32
}

func (s *countingService) CompletePastStays(ctx context.Context) (int, error) {
	s.completions.Add(1)
	return 1, nil
}

func (s *countingService) ReconcileCounters(ctx context.Context) (*ReconcileResult, error) {
	s.reconciles.Add(1)
	return &ReconcileResult{}, nil
}

func TestJobProcessor_RunsOnStartAndStops(t *testing.T) {
	svc := &countingService{}
	jp := NewJobProcessor(svc, &JobConfig{
		CompletionInterval: 10 * time.Millisecond,
		ReconcileInterval:  time.Hour,
	})

	jp.Start(context.Background())
	assert.Eventually(t, func() bool {
		return svc.completions.Load() >= 2
	}, time.Second, 5*time.Millisecond)
	jp.Stop()

	assert.Equal(t, int32(1), svc.reconciles.Load())
	// Stop is idempotent
	jp.Stop()
}

func TestNewJobProcessor_NonPositiveIntervalsFallBack(t *testing.T) {
	defaults := DefaultJobConfig()

	jp := NewJobProcessor(&countingService{}, &JobConfig{
		CompletionInterval: 0,
		ReconcileInterval:  -time.Minute,
	})
	assert.Equal(t, defaults.CompletionInterval, jp.config.CompletionInterval)
	assert.Equal(t, defaults.ReconcileInterval, jp.config.ReconcileInterval)

	assert.NotPanics(t, func() {
		jp.Start(context.Background())
		jp.Stop()
	})
}
