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

func TestJobRepo_PutGet(t *testing.T) {
	repo := memory.NewJobRepo()
	ctx := context.Background()
	job := &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing, Filename: "a.pdf"}

	require.NoError(t, repo.Put(ctx, job))

	got, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", got.Filename)

	got.Filename = "mutated.pdf"
	again, err := repo.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, "a.pdf", again.Filename)
}

func TestJobRepo_GetMissing(t *testing.T) {
	_, err := memory.NewJobRepo().Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, domain.ErrJobNotFound)
}

func TestJobRepo_ListKeepsCreationOrderAcrossUpdates(t *testing.T) {
	repo := memory.NewJobRepo()
	ctx := context.Background()
	first := &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing}
	second := &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing}
	require.NoError(t, repo.Put(ctx, first))
	require.NoError(t, repo.Put(ctx, second))

	first.Status = domain.JobStatusDone
	require.NoError(t, repo.Put(ctx, first))

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, first.ID, jobs[0].ID)
	assert.Equal(t, domain.JobStatusDone, jobs[0].Status)
	assert.Equal(t, second.ID, jobs[1].ID)
}

func TestJobRepo_ConcurrentWriters(t *testing.T) {
	repo := memory.NewJobRepo()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = repo.Put(ctx, &domain.Job{ID: uuid.New(), Status: domain.JobStatusProcessing})
		}()
	}
	wg.Wait()

	jobs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, jobs, 50)
}
