package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// job tracks one submitted background job
type job struct {
	cancel  context.CancelFunc
	running bool
}

// LocalScheduler runs submitted jobs as goroutines under per-job contexts.
// Cancel works by cancelling the job's context; the job body is expected to
// watch its context and return promptly.
type LocalScheduler struct {
	mu   sync.Mutex
	jobs map[string]*job
	base context.Context
	wg   sync.WaitGroup
}

// NewLocalScheduler creates a scheduler whose jobs are all bounded by the
// given base context; cancelling it stops every job.
func NewLocalScheduler(base context.Context) *LocalScheduler {
	return &LocalScheduler{
		jobs: make(map[string]*job),
		base: base,
	}
}

// Submit queues a job and returns its handle
func (s *LocalScheduler) Submit(fn JobFunc) string {
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(s.base)

	s.mu.Lock()
	s.jobs[id] = &job{cancel: cancel}
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()

		s.mu.Lock()
		j, ok := s.jobs[id]
		if !ok {
			// Cancelled before it ever ran
			s.mu.Unlock()
			return
		}
		j.running = true
		s.mu.Unlock()

		defer func() {
			if r := recover(); r != nil {
				log.WithFields(log.Fields{
					"jobID": id,
					"panic": r,
				}).Error("Background job panicked")
			}
			s.mu.Lock()
			delete(s.jobs, id)
			s.mu.Unlock()
		}()

		fn(ctx)
	}()

	return id
}

// Cancel requests termination of a job. A pending job is removed before it
// starts; a running job has its context cancelled only when force is set.
func (s *LocalScheduler) Cancel(id string, force bool) error {
	s.mu.Lock()
	j, ok := s.jobs[id]
	if !ok {
		s.mu.Unlock()
		return ErrJobNotFound
	}

	if j.running && !force {
		s.mu.Unlock()
		log.WithField("jobID", id).Warn("Job already running, not cancelled without force")
		return nil
	}

	if !j.running {
		// Revoke before start; the goroutine will see the missing entry
		delete(s.jobs, id)
	}
	s.mu.Unlock()

	j.cancel()
	return nil
}

// Status reports the current state of a job
func (s *LocalScheduler) Status(id string) JobStatus {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return JobStatusAbsent
	}
	if j.running {
		return JobStatusRunning
	}
	return JobStatusPending
}

// Wait blocks until every submitted job has returned, for shutdown
func (s *LocalScheduler) Wait() {
	s.wg.Wait()
}
