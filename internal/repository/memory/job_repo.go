// Package memory provides process-local implementations of the repository ports.
package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

type jobRepo struct {
	mu    sync.RWMutex
	jobs  map[uuid.UUID]*domain.Job
	order []uuid.UUID
}

// NewJobRepo creates an in-memory JobRepository. Jobs are never evicted.
func NewJobRepo() port.JobRepository {
	return &jobRepo{jobs: make(map[uuid.UUID]*domain.Job)}
}

func (r *jobRepo) Put(_ context.Context, job *domain.Job) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[job.ID]; !ok {
		r.order = append(r.order, job.ID)
	}
	r.jobs[job.ID] = cloneJob(job)
	return nil
}

func (r *jobRepo) Get(_ context.Context, id uuid.UUID) (*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, domain.ErrJobNotFound
	}
	return cloneJob(job), nil
}

func (r *jobRepo) List(_ context.Context) ([]*domain.Job, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*domain.Job, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneJob(r.jobs[id]))
	}
	return out, nil
}

// cloneJob copies the record so callers never share mutable state with the store.
// Result, Verification and Notification are immutable once written and are shared.
func cloneJob(j *domain.Job) *domain.Job {
	c := *j
	return &c
}
