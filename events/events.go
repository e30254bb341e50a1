package events

import (
	"context"
	"sync"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeUserCreated     EventType = "user_created"
	EventTypeTaskStarted     EventType = "task_started"
	EventTypeTaskStopped     EventType = "task_stopped"
	EventTypeEarningMined    EventType = "earning_mined"
	EventTypeCapReached      EventType = "cap_reached"
	EventTypeBalanceAdjusted EventType = "balance_adjusted"
	EventTypeWithdrawal      EventType = "withdrawal"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// UserCreatedEvent represents a new user connecting for the first time
type UserCreatedEvent struct {
	UserID int64
	Name   string
}

func (e UserCreatedEvent) Type() EventType {
	return EventTypeUserCreated
}

// TaskStartedEvent represents a mining job submission
type TaskStartedEvent struct {
	UserID int64
	TaskID string
}

func (e TaskStartedEvent) Type() EventType {
	return EventTypeTaskStarted
}

// TaskStoppedEvent represents a mining job being stopped, either on request
// or by the engine reaching the user's profit cap
type TaskStoppedEvent struct {
	UserID     int64
	TaskID     string
	CapReached bool
}

func (e TaskStoppedEvent) Type() EventType {
	return EventTypeTaskStopped
}

// EarningMinedEvent represents a simulated mining payout
type EarningMinedEvent struct {
	UserID int64
	Amount float64
}

func (e EarningMinedEvent) Type() EventType {
	return EventTypeEarningMined
}

// CapReachedEvent represents a run exhausting the user's profit cap
type CapReachedEvent struct {
	UserID       int64
	ProfitEarned float64
	ProfitCap    float64
}

func (e CapReachedEvent) Type() EventType {
	return EventTypeCapReached
}

// BalanceAdjustedEvent represents an administrative balance change
type BalanceAdjustedEvent struct {
	UserID     int64
	Delta      float64
	NewEarning float64
}

func (e BalanceAdjustedEvent) Type() EventType {
	return EventTypeBalanceAdjusted
}

// WithdrawalEvent represents a completed withdrawal to a user's wallet
type WithdrawalEvent struct {
	UserID int64
	Amount float64
	Fee    float64
	TxHash string
}

func (e WithdrawalEvent) Type() EventType {
	return EventTypeWithdrawal
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and emits
// them on the real bus only after the database commit succeeds.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits pending events; called after a successful commit
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events; called after rollback
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
