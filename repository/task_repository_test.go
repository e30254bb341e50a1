package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"minebot/models"
	"minebot/repository/testutil"
)

func TestTaskRepository_UpsertAndGet(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	userRepo := NewUserRepository(testDB.DB)
	repo := NewTaskRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1001, "miner")
	require.NoError(t, err)

	task := &models.RunningTask{
		UserID:    1001,
		TaskID:    "job-1",
		Running:   true,
		StartedAt: time.Now().UTC(),
	}
	require.NoError(t, repo.Upsert(ctx, task))

	fetched, err := repo.GetByUserID(ctx, 1001)
	require.NoError(t, err)
	require.NotNil(t, fetched)
	assert.Equal(t, "job-1", fetched.TaskID)
	assert.True(t, fetched.Running)

	// The primary key enforces at most one record per user; a second upsert
	// replaces the first.
	task.TaskID = "job-2"
	require.NoError(t, repo.Upsert(ctx, task))

	fetched, err = repo.GetByUserID(ctx, 1001)
	require.NoError(t, err)
	assert.Equal(t, "job-2", fetched.TaskID)

	all, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTaskRepository_DeleteIsIdempotent(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	userRepo := NewUserRepository(testDB.DB)
	repo := NewTaskRepository(testDB.DB)
	ctx := context.Background()

	_, err := userRepo.Create(ctx, 1001, "miner")
	require.NoError(t, err)
	require.NoError(t, repo.Upsert(ctx, &models.RunningTask{
		UserID: 1001, TaskID: "job-1", Running: true, StartedAt: time.Now().UTC(),
	}))

	require.NoError(t, repo.Delete(ctx, 1001))

	task, err := repo.GetByUserID(ctx, 1001)
	require.NoError(t, err)
	assert.Nil(t, task)

	// Deleting an absent record is not an error
	require.NoError(t, repo.Delete(ctx, 1001))
}

func TestTaskRepository_GetMissing(t *testing.T) {
	testDB := testutil.SetupTestDatabase(t)
	repo := NewTaskRepository(testDB.DB)
	ctx := context.Background()

	task, err := repo.GetByUserID(ctx, 404)
	require.NoError(t, err)
	assert.Nil(t, task)
}
