package memory_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoicegate/internal/domain"
	"invoicegate/internal/repository/memory"
)

func TestCheckHistoryRepo_CapsAtLimitFIFO(t *testing.T) {
	repo := memory.NewCheckHistoryRepo(domain.MaxCheckHistory)
	ctx := context.Background()

	ids := make([]uuid.UUID, 0, 101)
	for i := 0; i < 101; i++ {
		e := &domain.CheckHistoryEntry{ID: uuid.New(), InvoicesFound: i}
		ids = append(ids, e.ID)
		require.NoError(t, repo.Append(ctx, e))
	}

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 100, count)

	all, err := repo.Recent(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 100)
	assert.Equal(t, ids[1], all[0].ID)
	assert.Equal(t, ids[100], all[99].ID)
	for _, e := range all {
		assert.NotEqual(t, ids[0], e.ID)
	}
}

func TestCheckHistoryRepo_RecentAndLast(t *testing.T) {
	repo := memory.NewCheckHistoryRepo(0)
	ctx := context.Background()

	last, err := repo.Last(ctx)
	require.NoError(t, err)
	assert.Nil(t, last)

	for i := 0; i < 30; i++ {
		require.NoError(t, repo.Append(ctx, &domain.CheckHistoryEntry{InvoicesFound: i}))
	}

	recent, err := repo.Recent(ctx, 20)
	require.NoError(t, err)
	require.Len(t, recent, 20)
	assert.Equal(t, 10, recent[0].InvoicesFound)
	assert.Equal(t, 29, recent[19].InvoicesFound)

	last, err = repo.Last(ctx)
	require.NoError(t, err)
	assert.Equal(t, 29, last.InvoicesFound)
}

func TestCheckHistoryRepo_ConcurrentAppends(t *testing.T) {
	repo := memory.NewCheckHistoryRepo(10)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Append(ctx, &domain.CheckHistoryEntry{ID: uuid.New()})
		}()
	}
	wg.Wait()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 10, count)
}
