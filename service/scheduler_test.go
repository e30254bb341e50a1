package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalScheduler_SubmitAndStatus(t *testing.T) {
	sched := NewLocalScheduler(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})

	id := sched.Submit(func(ctx context.Context) {
		close(started)
		<-release
	})
	require.NotEmpty(t, id)

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job never started")
	}
	assert.Equal(t, JobStatusRunning, sched.Status(id))

	close(release)
	sched.Wait()
	assert.Equal(t, JobStatusAbsent, sched.Status(id))
}

func TestLocalScheduler_ForceCancelRunningJob(t *testing.T) {
	sched := NewLocalScheduler(context.Background())

	started := make(chan struct{})
	id := sched.Submit(func(ctx context.Context) {
		close(started)
		<-ctx.Done()
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job never started")
	}

	require.NoError(t, sched.Cancel(id, true))
	sched.Wait()
	assert.Equal(t, JobStatusAbsent, sched.Status(id))
}

func TestLocalScheduler_CancelWithoutForceLeavesRunningJob(t *testing.T) {
	sched := NewLocalScheduler(context.Background())

	started := make(chan struct{})
	release := make(chan struct{})
	id := sched.Submit(func(ctx context.Context) {
		close(started)
		select {
		case <-ctx.Done():
		case <-release:
		}
	})

	select {
	case <-started:
	case <-time.After(time.Second):
		t.Fatal("job never started")
	}

	// Best-effort cancel is a logged no-op for a running job
	require.NoError(t, sched.Cancel(id, false))
	assert.Equal(t, JobStatusRunning, sched.Status(id))

	close(release)
	sched.Wait()
}

func TestLocalScheduler_CancelUnknownJob(t *testing.T) {
	sched := NewLocalScheduler(context.Background())
	assert.ErrorIs(t, sched.Cancel("no-such-job", true), ErrJobNotFound)
}

func TestLocalScheduler_BaseContextStopsAllJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sched := NewLocalScheduler(ctx)

	started := make(chan struct{}, 2)
	for i := 0; i < 2; i++ {
		sched.Submit(func(jobCtx context.Context) {
			started <- struct{}{}
			<-jobCtx.Done()
		})
	}
	for i := 0; i < 2; i++ {
		select {
		case <-started:
		case <-time.After(time.Second):
			t.Fatal("jobs never started")
		}
	}

	cancel()

	done := make(chan struct{})
	go func() {
		sched.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("jobs did not stop with base context")
	}
}

func TestLocalScheduler_JobPanicIsContained(t *testing.T) {
	sched := NewLocalScheduler(context.Background())

	id := sched.Submit(func(ctx context.Context) {
		panic("boom")
	})

	sched.Wait()
	assert.Equal(t, JobStatusAbsent, sched.Status(id))
}
