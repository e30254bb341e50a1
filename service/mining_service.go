package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"minebot/events"
	"minebot/models"
)

// miningService implements the MiningService interface. It owns the
// at-most-one-active-task-per-user invariant: a per-user mutex serializes
// start/stop so concurrent calls cannot race past the existence check, and
// the running_tasks primary key backs it up at the store.
type miningService struct {
	users  UserRepository
	tasks  TaskRepository
	sched  Scheduler
	engine *Engine
	bus    *events.Bus

	mu        sync.Mutex
	userLocks map[int64]*sync.Mutex
}

// NewMiningService creates a new mining lifecycle service
func NewMiningService(users UserRepository, tasks TaskRepository, sched Scheduler, engine *Engine, bus *events.Bus) MiningService {
	return &miningService{
		users:     users,
		tasks:     tasks,
		sched:     sched,
		engine:    engine,
		bus:       bus,
		userLocks: make(map[int64]*sync.Mutex),
	}
}

func (s *miningService) lockUser(userID int64) func() {
	s.mu.Lock()
	l, ok := s.userLocks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.userLocks[userID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Start launches a mining job for the user. A second start without an
// intervening stop returns the existing task unchanged and submits nothing.
func (s *miningService) Start(ctx context.Context, userID int64) (*models.RunningTask, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	task, err := s.tasks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing task: %w", err)
	}

	if task != nil && task.Running {
		if s.sched.Status(task.TaskID) != JobStatusAbsent {
			log.WithFields(log.Fields{
				"userID": userID,
				"taskID": task.TaskID,
			}).Debug("Duplicate start ignored, task already active")
			return task, nil
		}
		// Record survived a dead process; reap it and start fresh
		log.WithFields(log.Fields{
			"userID": userID,
			"taskID": task.TaskID,
		}).Warn("Reaping stale task record with no live job")
		if err := s.tasks.Delete(ctx, userID); err != nil {
			return nil, fmt.Errorf("failed to reap stale task record: %w", err)
		}
	}

	// Each run accrues against a clean per-run counter
	if err := s.users.ResetProfitEarned(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to reset profit counter: %w", err)
	}

	taskID := s.sched.Submit(func(jobCtx context.Context) {
		if err := s.engine.Run(jobCtx, userID); err != nil && jobCtx.Err() == nil {
			log.WithFields(log.Fields{
				"userID": userID,
				"error":  err,
			}).Error("Mining run ended with error")
		}
	})

	task = &models.RunningTask{
		UserID:    userID,
		TaskID:    taskID,
		Running:   true,
		StartedAt: time.Now().UTC(),
	}
	if err := s.tasks.Upsert(ctx, task); err != nil {
		// Never leave an untracked miner running
		if cerr := s.sched.Cancel(taskID, true); cerr != nil {
			log.WithFields(log.Fields{
				"userID": userID,
				"taskID": taskID,
				"error":  cerr,
			}).Warn("Failed to cancel job after record write failure")
		}
		return nil, fmt.Errorf("failed to record running task: %w", err)
	}

	s.bus.Emit(ctx, events.TaskStartedEvent{UserID: userID, TaskID: taskID})
	log.WithFields(log.Fields{
		"userID": userID,
		"taskID": taskID,
	}).Info("Mining task started")

	return task, nil
}

// Stop cancels the user's active task. The local record is removed even if
// the scheduler cannot confirm termination: local state is what decides
// whether a new task may start.
func (s *miningService) Stop(ctx context.Context, userID int64) (*models.RunningTask, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	task, err := s.tasks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up task: %w", err)
	}
	if task == nil || !task.Running {
		return nil, ErrNoActiveTask
	}

	if err := s.tasks.Delete(ctx, userID); err != nil {
		return nil, fmt.Errorf("failed to delete task record: %w", err)
	}

	if err := s.sched.Cancel(task.TaskID, true); err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"taskID": task.TaskID,
			"error":  err,
		}).Warn("Scheduler could not confirm cancellation, record cleared anyway")
	}

	s.bus.Emit(ctx, events.TaskStoppedEvent{UserID: userID, TaskID: task.TaskID})
	log.WithFields(log.Fields{
		"userID": userID,
		"taskID": task.TaskID,
	}).Info("Mining task stopped")

	return task, nil
}

// Active returns the user's active task, treating a present-but-inactive
// record as no task.
func (s *miningService) Active(ctx context.Context, userID int64) (*models.RunningTask, error) {
	task, err := s.tasks.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up task: %w", err)
	}
	if task == nil || !task.Running {
		return nil, nil
	}
	return task, nil
}

// SweepStale removes task records whose jobs no longer exist. Run once at
// boot so records orphaned by a crash never block a new start.
func (s *miningService) SweepStale(ctx context.Context) (int, error) {
	tasks, err := s.tasks.GetAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list task records: %w", err)
	}

	swept := 0
	for _, task := range tasks {
		if s.sched.Status(task.TaskID) != JobStatusAbsent {
			continue
		}
		unlock := s.lockUser(task.UserID)
		if err := s.tasks.Delete(ctx, task.UserID); err != nil {
			unlock()
			return swept, fmt.Errorf("failed to sweep task for user %d: %w", task.UserID, err)
		}
		unlock()
		swept++
		log.WithFields(log.Fields{
			"userID": task.UserID,
			"taskID": task.TaskID,
		}).Info("Swept stale task record")
	}

	return swept, nil
}
