package events

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBus_EmitReachesSubscribers(t *testing.T) {
	bus := NewBus()

	var count atomic.Int32
	bus.Subscribe(EventTypeEarningMined, func(ctx context.Context, event Event) {
		count.Add(1)
	})
	bus.Subscribe(EventTypeEarningMined, func(ctx context.Context, event Event) {
		count.Add(1)
	})

	bus.Emit(context.Background(), EarningMinedEvent{UserID: 1, Amount: 0.001})

	assert.Eventually(t, func() bool {
		return count.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestBus_HandlerPanicDoesNotPropagate(t *testing.T) {
	bus := NewBus()

	done := make(chan struct{})
	bus.Subscribe(EventTypeTaskStarted, func(ctx context.Context, event Event) {
		defer close(done)
		panic("handler failure")
	})

	bus.Emit(context.Background(), TaskStartedEvent{UserID: 1, TaskID: "job-1"})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler never ran")
	}
}

func TestTransactionalBus_FlushAfterCommit(t *testing.T) {
	real := NewBus()

	var count atomic.Int32
	real.Subscribe(EventTypeWithdrawal, func(ctx context.Context, event Event) {
		count.Add(1)
	})

	tb := NewTransactionalBus(real)
	tb.Publish(WithdrawalEvent{UserID: 1, Amount: 0.01})
	tb.Publish(WithdrawalEvent{UserID: 2, Amount: 0.02})

	// Nothing leaves the stash before flush
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, count.Load())

	tb.Flush(context.Background())
	assert.Eventually(t, func() bool {
		return count.Load() == 2
	}, time.Second, 10*time.Millisecond)
}

func TestTransactionalBus_DiscardDropsPending(t *testing.T) {
	real := NewBus()

	var count atomic.Int32
	real.Subscribe(EventTypeWithdrawal, func(ctx context.Context, event Event) {
		count.Add(1)
	})

	tb := NewTransactionalBus(real)
	tb.Publish(WithdrawalEvent{UserID: 1, Amount: 0.01})
	tb.Discard()
	tb.Flush(context.Background())

	time.Sleep(50 * time.Millisecond)
	assert.Zero(t, count.Load())
}
