package memory

import (
	"context"
	"sync"

	"invoicegate/internal/domain"
	"invoicegate/internal/port"
)

type checkHistoryRepo struct {
	mu      sync.Mutex
	limit   int
	entries []*domain.CheckHistoryEntry
}

// NewCheckHistoryRepo creates an in-memory CheckHistoryRepository retaining at most limit entries.
// A non-positive limit falls back to domain.MaxCheckHistory.
func NewCheckHistoryRepo(limit int) port.CheckHistoryRepository {
	if limit <= 0 {
		limit = domain.MaxCheckHistory
	}
	return &checkHistoryRepo{limit: limit}
}

func (r *checkHistoryRepo) Append(_ context.Context, entry *domain.CheckHistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.entries = append(r.entries, entry)
	if over := len(r.entries) - r.limit; over > 0 {
		kept := make([]*domain.CheckHistoryEntry, r.limit)
		copy(kept, r.entries[over:])
		r.entries = kept
	}
	return nil
}

func (r *checkHistoryRepo) Recent(_ context.Context, n int) ([]*domain.CheckHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if n <= 0 || n > len(r.entries) {
		n = len(r.entries)
	}
	out := make([]*domain.CheckHistoryEntry, n)
	copy(out, r.entries[len(r.entries)-n:])
	return out, nil
}

func (r *checkHistoryRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries), nil
}

func (r *checkHistoryRepo) Last(_ context.Context) (*domain.CheckHistoryEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.entries) == 0 {
		return nil, nil
	}
	return r.entries[len(r.entries)-1], nil
}
