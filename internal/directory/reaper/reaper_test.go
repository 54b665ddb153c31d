package reaper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/AntonioVentilii/vault-core/internal/directory"
	"github.com/AntonioVentilii/vault-core/internal/payment"
	"github.com/AntonioVentilii/vault-core/internal/principal"
	"github.com/abdul-hamid-achik/job-queue/pkg/job"
	"github.com/abdul-hamid-achik/job-queue/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopDeducter struct{}

func (noopDeducter) Deduct(context.Context, payment.FundingKind, uint64) error { return nil }

type fakeEnqueuer struct {
	mu   sync.Mutex
	jobs []*job.Job
}

func (e *fakeEnqueuer) Enqueue(_ context.Context, j *job.Job) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.jobs = append(e.jobs, j)
	return nil
}

func (e *fakeEnqueuer) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.jobs)
}

func TestStartSchedulerEnqueuesOnEveryTick(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	ctx, cancel := context.WithTimeout(context.Background(), 35*time.Millisecond)
	defer cancel()

	StartScheduler(ctx, enqueuer, 10*time.Millisecond)

	assert.GreaterOrEqual(t, enqueuer.count(), 2)
	for _, j := range enqueuer.jobs {
		assert.Equal(t, JobType, j.Type)
	}
}

func TestStartSchedulerStopsOnCancel(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		StartScheduler(ctx, enqueuer, time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("StartScheduler did not return after context cancellation")
	}
}

func newTestDirectoryService() *directory.Service {
	store := directory.NewStore(0)
	guard := payment.NewGuard(noopDeducter{})
	return directory.NewService(store, principal.Principal{0xff}, make([]byte, 32), principal.NewSet(), guard, nil, nil)
}

func TestHandlerRunsSweepWithoutError(t *testing.T) {
	svc := newTestDirectoryService()
	handler := Handler(svc)

	j, err := job.New(JobType, struct{}{})
	require.NoError(t, err)

	err = handler(context.Background(), j)
	assert.NoError(t, err)
}

func TestRegisterHandlerWiresJobType(t *testing.T) {
	svc := newTestDirectoryService()
	registry := worker.NewRegistry()

	require.NoError(t, RegisterHandler(registry, svc))
}
