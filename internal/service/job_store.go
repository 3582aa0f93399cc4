package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

// JobStore owns the job lifecycle: jobs are created in processing and make
// exactly one transition, to done or to error.
type JobStore interface {
	Create(ctx context.Context, job *domain.Job) error
	Complete(ctx context.Context, id uuid.UUID, c domain.Completion) (*domain.Job, error)
	Fail(ctx context.Context, id uuid.UUID, message string) (*domain.Job, error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	List(ctx context.Context) ([]*domain.Job, error)
}

type jobStore struct {
	repo port.JobRepository
	now  func() time.Time

	// mu serializes read-check-write transitions within this process.
	mu sync.Mutex
}

// NewJobStore creates a JobStore over the given repository.
func NewJobStore(repo port.JobRepository) JobStore {
	return &jobStore{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *jobStore) Create(ctx context.Context, job *domain.Job) error {
	if job.ID == uuid.Nil {
		job.ID = uuid.New()
	}
	if !domain.ValidJobSources[job.Source] {
		return fmt.Errorf("jobStore.Create: unknown source %q", job.Source)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.repo.Get(ctx, job.ID); err == nil {
		return domain.ErrJobAlreadyExists
	} else if !errors.Is(err, domain.ErrJobNotFound) {
		return fmt.Errorf("jobStore.Create: %w", err)
	}

	now := s.now()
	job.Status = domain.JobStatusProcessing
	job.Result, job.Verification, job.Notification = nil, nil, nil
	job.Error = ""
	job.CreatedAt = now
	job.ProcessedAt = now

	if err := s.repo.Put(ctx, job); err != nil {
		return fmt.Errorf("jobStore.Create: %w", err)
	}
	return nil
}

func (s *jobStore) Complete(ctx context.Context, id uuid.UUID, c domain.Completion) (*domain.Job, error) {
	return s.transition(ctx, id, func(job *domain.Job) {
		job.Status = domain.JobStatusDone
		job.Result = c.Result
		job.Verification = c.Verification
		job.Notification = c.Notification
		job.PageCount = c.PageCount
		job.ArchiveKey = c.ArchiveKey
	})
}

func (s *jobStore) Fail(ctx context.Context, id uuid.UUID, message string) (*domain.Job, error) {
	return s.transition(ctx, id, func(job *domain.Job) {
		job.Status = domain.JobStatusError
		job.Error = message
	})
}

func (s *jobStore) transition(ctx context.Context, id uuid.UUID, apply func(*domain.Job)) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return nil, domain.ErrJobAlreadyTerminal
	}

	apply(job)
	job.ProcessedAt = s.now()
	if err := s.repo.Put(ctx, job); err != nil {
		return nil, fmt.Errorf("jobStore.transition: %w", err)
	}
	return job, nil
}

func (s *jobStore) Get(ctx context.Context, id uuid.UUID) (*domain.Job, error) {
	return s.repo.Get(ctx, id)
}

func (s *jobStore) List(ctx context.Context) ([]*domain.Job, error) {
	return s.repo.List(ctx)
}

// CountDone returns the number of jobs that completed successfully.
func CountDone(jobs []*domain.Job) int {
	n := 0
	for _, job := range jobs {
		if job.Status == domain.JobStatusDone {
			n++
		}
	}
	return n
}
