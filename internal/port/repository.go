package port

import (
	"context"

	"github.com/google/uuid"

	"invoicegate/internal/domain"
)

// JobRepository stores job records keyed by id. Put is an atomic upsert of a single record.
type JobRepository interface {
	Put(ctx context.Context, job *domain.Job) error
	Get(ctx context.Context, id uuid.UUID) (*domain.Job, error)
	// List returns every job in creation order.
	List(ctx context.Context) ([]*domain.Job, error)
}

// CheckHistoryRepository stores mailbox sweep records, keeping only the most recent ones.
type CheckHistoryRepository interface {
	// Append adds an entry and evicts the oldest entries beyond the cap in one critical section.
	Append(ctx context.Context, entry *domain.CheckHistoryEntry) error
	// Recent returns up to n of the newest entries, oldest first.
	Recent(ctx context.Context, n int) ([]*domain.CheckHistoryEntry, error)
	Count(ctx context.Context) (int, error)
	// Last returns the newest entry or nil when there is none.
	Last(ctx context.Context) (*domain.CheckHistoryEntry, error)
}

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}
