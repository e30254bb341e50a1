package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"minebot/events"
	"minebot/models"
)

func newTestMiningService(users *MockUserRepository, tasks *MockTaskRepository, sched *MockScheduler) MiningService {
	bus := events.NewBus()
	engine := NewEngine(users, tasks, new(MockNotifier), bus, fastEngineConfig())
	return NewMiningService(users, tasks, sched, engine, bus)
}

func TestMiningService_Start_Fresh(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	mockTasks.On("GetByUserID", ctx, int64(42)).Return(nil, nil).Once()
	mockUsers.On("ResetProfitEarned", ctx, int64(42)).Return(nil).Once()
	mockSched.On("Submit", mock.AnythingOfType("service.JobFunc")).Return("job-1").Once()
	mockTasks.On("Upsert", ctx, mock.MatchedBy(func(task *models.RunningTask) bool {
		return task.UserID == 42 && task.TaskID == "job-1" && task.Running
	})).Return(nil).Once()

	task, err := svc.Start(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "job-1", task.TaskID)
	assert.True(t, task.Running)
	assert.WithinDuration(t, time.Now().UTC(), task.StartedAt, time.Minute)

	mockUsers.AssertExpectations(t)
	mockTasks.AssertExpectations(t)
	mockSched.AssertExpectations(t)
}

func TestMiningService_Start_Idempotent(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	existing := &models.RunningTask{UserID: 42, TaskID: "job-1", Running: true}
	mockTasks.On("GetByUserID", ctx, int64(42)).Return(existing, nil).Once()
	mockSched.On("Status", "job-1").Return(JobStatusRunning).Once()

	task, err := svc.Start(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, existing, task)

	// No second job, no counter reset, no record rewrite
	mockSched.AssertNotCalled(t, "Submit", mock.Anything)
	mockUsers.AssertNotCalled(t, "ResetProfitEarned", mock.Anything, mock.Anything)
	mockTasks.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
}

func TestMiningService_Start_ReapsStaleRecord(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	stale := &models.RunningTask{UserID: 42, TaskID: "dead-job", Running: true}
	mockTasks.On("GetByUserID", ctx, int64(42)).Return(stale, nil).Once()
	mockSched.On("Status", "dead-job").Return(JobStatusAbsent).Once()
	mockTasks.On("Delete", ctx, int64(42)).Return(nil).Once()

	mockUsers.On("ResetProfitEarned", ctx, int64(42)).Return(nil).Once()
	mockSched.On("Submit", mock.AnythingOfType("service.JobFunc")).Return("job-2").Once()
	mockTasks.On("Upsert", ctx, mock.MatchedBy(func(task *models.RunningTask) bool {
		return task.TaskID == "job-2"
	})).Return(nil).Once()

	task, err := svc.Start(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "job-2", task.TaskID)

	mockTasks.AssertExpectations(t)
	mockSched.AssertExpectations(t)
}

func TestMiningService_Start_RecordWriteFailureCancelsJob(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	mockTasks.On("GetByUserID", ctx, int64(42)).Return(nil, nil).Once()
	mockUsers.On("ResetProfitEarned", ctx, int64(42)).Return(nil).Once()
	mockSched.On("Submit", mock.AnythingOfType("service.JobFunc")).Return("job-1").Once()
	mockTasks.On("Upsert", ctx, mock.Anything).Return(assert.AnError).Once()
	mockSched.On("Cancel", "job-1", true).Return(nil).Once()

	_, err := svc.Start(ctx, 42)
	require.Error(t, err)

	mockSched.AssertExpectations(t)
}

func TestMiningService_Stop_Active(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	active := &models.RunningTask{UserID: 42, TaskID: "job-1", Running: true}
	mockTasks.On("GetByUserID", ctx, int64(42)).Return(active, nil).Once()
	mockTasks.On("Delete", ctx, int64(42)).Return(nil).Once()
	mockSched.On("Cancel", "job-1", true).Return(nil).Once()

	task, err := svc.Stop(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "job-1", task.TaskID)

	mockTasks.AssertExpectations(t)
	mockSched.AssertExpectations(t)
}

func TestMiningService_Stop_NoActiveTask(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	mockTasks.On("GetByUserID", ctx, int64(42)).Return(nil, nil).Once()

	_, err := svc.Stop(ctx, 42)
	assert.ErrorIs(t, err, ErrNoActiveTask)

	// A no-op stop must not touch the store or the scheduler
	mockTasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	mockSched.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything)
}

func TestMiningService_Stop_CancellationFailureStillSucceeds(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	active := &models.RunningTask{UserID: 42, TaskID: "job-1", Running: true}
	mockTasks.On("GetByUserID", ctx, int64(42)).Return(active, nil).Once()
	mockTasks.On("Delete", ctx, int64(42)).Return(nil).Once()
	mockSched.On("Cancel", "job-1", true).Return(ErrJobNotFound).Once()

	task, err := svc.Stop(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "job-1", task.TaskID)
}

func TestMiningService_Active(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	mockTasks.On("GetByUserID", ctx, int64(1)).Return(nil, nil).Once()
	task, err := svc.Active(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, task)

	running := &models.RunningTask{UserID: 2, TaskID: "job-9", Running: true}
	mockTasks.On("GetByUserID", ctx, int64(2)).Return(running, nil).Once()
	task, err = svc.Active(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, running, task)
}

func TestMiningService_SweepStale(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockSched := new(MockScheduler)
	svc := newTestMiningService(mockUsers, mockTasks, mockSched)

	records := []*models.RunningTask{
		{UserID: 1, TaskID: "live-job", Running: true},
		{UserID: 2, TaskID: "dead-job", Running: true},
	}
	mockTasks.On("GetAll", ctx).Return(records, nil).Once()
	mockSched.On("Status", "live-job").Return(JobStatusRunning).Once()
	mockSched.On("Status", "dead-job").Return(JobStatusAbsent).Once()
	mockTasks.On("Delete", ctx, int64(2)).Return(nil).Once()

	swept, err := svc.SweepStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, swept)

	mockTasks.AssertExpectations(t)
	mockTasks.AssertNotCalled(t, "Delete", ctx, int64(1))
}
