// Package reaper runs the Directory's periodic maintenance (expired upload
// sessions, orphaned bucket chunks) as job-queue jobs rather than a bare
// ticker loop, so the same worker pool, recovery, and logging middleware the
// teacher's file processing pipeline uses also covers this service's
// background work.
package reaper

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/directory"
	"github.com/AntonioVentilii/vault-core/internal/logger"
	"github.com/AntonioVentilii/vault-core/internal/metrics"
	"github.com/abdul-hamid-achik/job-queue/pkg/broker"
	"github.com/abdul-hamid-achik/job-queue/pkg/job"
	"github.com/abdul-hamid-achik/job-queue/pkg/worker"
)

// JobType names the single recurring job this package enqueues.
const JobType = "directory_sweep"

// Enqueuer abstracts broker.Enqueue so tests can substitute a fake.
type Enqueuer interface {
	Enqueue(ctx context.Context, j *job.Job) error
}

// StartScheduler enqueues one JobType job per interval until ctx is
// canceled. It is the producer half; RegisterHandler below is the consumer
// half run by the worker pool.
func StartScheduler(ctx context.Context, enqueuer Enqueuer, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log := logger.FromContext(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j, err := job.New(JobType, struct{}{})
			if err != nil {
				log.Error("reaper: failed to build sweep job", "error", err)
				continue
			}
			if err := enqueuer.Enqueue(ctx, j); err != nil {
				log.Error("reaper: failed to enqueue sweep job", "error", err)
				continue
			}
			metrics.RecordJobEnqueued(JobType)
		}
	}
}

// Handler returns the job-queue handler that performs one sweep.
func Handler(svc *directory.Service) func(context.Context, *job.Job) error {
	return func(ctx context.Context, j *job.Job) error {
		log := logger.FromContext(ctx).With("job_id", j.ID, "job_type", JobType)
		start := time.Now()

		reaped, reclaimed := svc.GarbageCollect(ctx)

		log.Info("sweep complete", "reaped", reaped, "reclaimed", reclaimed, "duration_ms", time.Since(start).Milliseconds())
		metrics.RecordJobProcessed(JobType, "success", time.Since(start).Seconds())
		return nil
	}
}

// RegisterHandler wires Handler into a job-queue registry under JobType.
func RegisterHandler(registry *worker.Registry, svc *directory.Service) error {
	if err := registry.Register(JobType, Handler(svc)); err != nil {
		return fmt.Errorf("reaper: failed to register handler: %w", err)
	}
	return nil
}
