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

// fastEngineConfig removes all pacing so loop behavior can be asserted
// without waiting on timers.
func fastEngineConfig() EngineConfig {
	return EngineConfig{
		MinPayout:     0.0002,
		MaxPayout:     0.0045,
		DrawUpper:     100000,
		HitWindowLow:  50000,
		HitWindowHigh: 100000,
	}
}

// scriptedInts returns the given values in order, then the last one forever
func scriptedInts(vals ...int) func() int {
	i := 0
	return func() int {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func scriptedFloats(vals ...float64) func() float64 {
	i := 0
	return func() float64 {
		v := vals[i]
		if i < len(vals)-1 {
			i++
		}
		return v
	}
}

func TestEngine_CapTermination(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), fastEngineConfig())
	// Three consecutive hits, each checked against fresh user state
	engine.draw = scriptedInts(60000)
	engine.payout = scriptedFloats(0.004, 0.004, 0.003)

	snapshot := func(profit float64) *models.User {
		return &models.User{UserID: 42, Earning: profit, ProfitEarned: profit, ProfitCap: 0.01}
	}

	// The engine re-reads state on every non-hit iteration; the fourth read
	// sees the cap exhausted.
	mockUsers.On("GetByID", mock.Anything, int64(42)).Return(snapshot(0), nil).Once()
	mockUsers.On("GetByID", mock.Anything, int64(42)).Return(snapshot(0.004), nil).Once()
	mockUsers.On("GetByID", mock.Anything, int64(42)).Return(snapshot(0.008), nil).Once()
	mockUsers.On("GetByID", mock.Anything, int64(42)).Return(snapshot(0.011), nil).Once()

	mockUsers.On("AddEarning", mock.Anything, int64(42), 0.004).Return(nil).Twice()
	mockUsers.On("AddEarning", mock.Anything, int64(42), 0.003).Return(nil).Once()

	// One notification per hit plus the cap notice
	mockNotifier.On("Send", int64(42), mock.AnythingOfType("string")).Return(nil).Times(4)

	// Cap termination clears the record like an explicit stop would
	mockTasks.On("Delete", mock.Anything, int64(42)).Return(nil).Once()

	err := engine.Run(ctx, 42)
	require.NoError(t, err)

	mockUsers.AssertExpectations(t)
	mockTasks.AssertExpectations(t)
	mockNotifier.AssertExpectations(t)
}

func TestEngine_UncappedNeverTerminates(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	cfg := fastEngineConfig()
	cfg.PollDelay = time.Millisecond

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), cfg)
	engine.draw = scriptedInts(0) // never a hit

	// ProfitEarned far beyond any plausible cap, but ProfitCap is zero
	user := &models.User{UserID: 7, ProfitEarned: 999, ProfitCap: 0}
	mockUsers.On("GetByID", mock.Anything, int64(7)).Return(user, nil)

	done := make(chan error, 1)
	go func() {
		done <- engine.Run(ctx, 7)
	}()

	select {
	case err := <-done:
		t.Fatalf("run terminated without cap or cancel: %v", err)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not honor cancellation")
	}

	// Cancellation must not touch the task record; the lifecycle owns it
	mockTasks.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestEngine_CancelDuringWarmup(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	cfg := fastEngineConfig()
	cfg.WarmupDelay = time.Hour

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), cfg)

	done := make(chan error, 1)
	go func() {
		done <- engine.Run(ctx, 7)
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("run did not honor cancellation during warmup")
	}

	mockUsers.AssertNotCalled(t, "AddEarning", mock.Anything, mock.Anything, mock.Anything)
}

func TestEngine_StoreFailureAborts(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), fastEngineConfig())
	engine.draw = scriptedInts(60000)
	engine.payout = scriptedFloats(0.001)

	user := &models.User{UserID: 9, ProfitCap: 0}
	mockUsers.On("GetByID", mock.Anything, int64(9)).Return(user, nil).Once()
	mockUsers.On("AddEarning", mock.Anything, int64(9), 0.001).Return(assert.AnError).Once()

	// A failed credit must end the run and clear the record
	mockTasks.On("Delete", mock.Anything, int64(9)).Return(nil).Once()

	err := engine.Run(ctx, 9)
	require.Error(t, err)
	assert.ErrorIs(t, err, assert.AnError)

	mockTasks.AssertExpectations(t)
	mockNotifier.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestEngine_UserDeletedMidRun(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), fastEngineConfig())
	engine.draw = scriptedInts(0)

	mockUsers.On("GetByID", mock.Anything, int64(5)).Return(nil, nil).Once()
	mockTasks.On("Delete", mock.Anything, int64(5)).Return(nil).Once()

	err := engine.Run(ctx, 5)
	require.NoError(t, err)

	mockTasks.AssertExpectations(t)
}

func TestEngine_NotificationFailureIsNotFatal(t *testing.T) {
	ctx := context.Background()

	mockUsers := new(MockUserRepository)
	mockTasks := new(MockTaskRepository)
	mockNotifier := new(MockNotifier)

	engine := NewEngine(mockUsers, mockTasks, mockNotifier, events.NewBus(), fastEngineConfig())
	engine.draw = scriptedInts(60000)
	engine.payout = scriptedFloats(0.002)

	// First read clears the cap check, hit credits, notification fails,
	// second read terminates on cap so the test ends.
	mockUsers.On("GetByID", mock.Anything, int64(3)).
		Return(&models.User{UserID: 3, ProfitCap: 0.001}, nil).Once()
	mockUsers.On("GetByID", mock.Anything, int64(3)).
		Return(&models.User{UserID: 3, ProfitEarned: 0.002, ProfitCap: 0.001}, nil).Once()

	mockUsers.On("AddEarning", mock.Anything, int64(3), 0.002).Return(nil).Once()
	mockNotifier.On("Send", int64(3), mock.AnythingOfType("string")).Return(assert.AnError)
	mockTasks.On("Delete", mock.Anything, int64(3)).Return(nil).Once()

	err := engine.Run(ctx, 3)
	require.NoError(t, err)

	mockUsers.AssertExpectations(t)
}
