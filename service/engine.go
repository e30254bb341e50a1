package service

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	log "github.com/sirupsen/logrus"

	"minebot/events"
	"minebot/models"
)

// EngineConfig carries all tuning for the accrual loop. Nothing in the
// engine is a literal; the values are injected at construction.
type EngineConfig struct {
	// Payout bounds in ETH for a single mining event
	MinPayout float64
	MaxPayout float64

	// Draw range [0, DrawUpper] and the hit window within it. A draw d is a
	// mining event when HitWindowLow < d < HitWindowHigh.
	DrawUpper     int
	HitWindowLow  int
	HitWindowHigh int

	// WarmupDelay runs once before the loop; SettleDelay and CooldownDelay
	// follow each mining event; PollDelay paces non-event iterations.
	WarmupDelay   time.Duration
	SettleDelay   time.Duration
	CooldownDelay time.Duration
	PollDelay     time.Duration
}

// Engine is the body of a user's background mining job. It keeps no state
// between iterations beyond the draw counter: every termination decision is
// made against freshly read user state, so a process restart cannot leave it
// acting on stale balances.
type Engine struct {
	users    UserRepository
	tasks    TaskRepository
	notifier Notifier
	bus      *events.Bus
	cfg      EngineConfig

	// overridable for deterministic tests
	draw   func() int
	payout func() float64
}

// NewEngine creates an accrual engine
func NewEngine(users UserRepository, tasks TaskRepository, notifier Notifier, bus *events.Bus, cfg EngineConfig) *Engine {
	return &Engine{
		users:    users,
		tasks:    tasks,
		notifier: notifier,
		bus:      bus,
		cfg:      cfg,
		draw: func() int {
			return rand.Intn(cfg.DrawUpper + 1)
		},
		payout: func() float64 {
			return cfg.MinPayout + rand.Float64()*(cfg.MaxPayout-cfg.MinPayout)
		},
	}
}

// Run executes one mining run for the user. It returns when the profit cap
// is reached (after clearing the task record), when the context is cancelled
// by an explicit stop, or when the ledger store fails.
func (e *Engine) Run(ctx context.Context, userID int64) error {
	logger := log.WithField("userID", userID)
	logger.Info("Mining run starting")

	if !sleep(ctx, e.cfg.WarmupDelay) {
		logger.Info("Mining run cancelled during warmup")
		return ctx.Err()
	}

	tries := 0
	for {
		select {
		case <-ctx.Done():
			logger.Info("Mining run cancelled")
			return ctx.Err()
		default:
		}

		if tries > e.cfg.HitWindowLow && tries < e.cfg.HitWindowHigh {
			amount := e.payout()
			if err := e.users.AddEarning(ctx, userID, amount); err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.abort(userID, logger, err)
				return fmt.Errorf("failed to credit mining payout: %w", err)
			}

			if err := e.notifier.Send(userID, minedMessage(amount)); err != nil {
				logger.WithError(err).Warn("Failed to deliver mining notification")
			}
			e.bus.Emit(ctx, events.EarningMinedEvent{UserID: userID, Amount: amount})
			logger.WithField("amount", amount).Info("Mining event credited")

			if !sleep(ctx, e.cfg.SettleDelay) {
				return ctx.Err()
			}
			// One forced zero draw after a hit before random draws resume
			tries = 0
			if !sleep(ctx, e.cfg.CooldownDelay) {
				return ctx.Err()
			}
			continue
		}

		user, err := e.users.GetByID(ctx, userID)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.abort(userID, logger, err)
			return fmt.Errorf("failed to read user state: %w", err)
		}
		if user == nil {
			// User deleted mid-run; nothing left to accrue against
			e.abort(userID, logger, ErrUserNotFound)
			return nil
		}
		if user.CapReached() {
			e.finishCapped(ctx, user, logger)
			return nil
		}

		if !sleep(ctx, e.cfg.PollDelay) {
			return ctx.Err()
		}
		tries = e.draw()
	}
}

// finishCapped performs the same cleanup an explicit stop does, so the user
// is immediately free to start a new run.
func (e *Engine) finishCapped(ctx context.Context, user *models.User, logger *log.Entry) {
	if err := e.tasks.Delete(ctx, user.UserID); err != nil {
		logger.WithError(err).Error("Failed to clear task record after cap termination")
	}

	if err := e.notifier.Send(user.UserID, capReachedMessage(user)); err != nil {
		logger.WithError(err).Warn("Failed to deliver cap notification")
	}
	e.bus.Emit(ctx, events.CapReachedEvent{
		UserID:       user.UserID,
		ProfitEarned: user.ProfitEarned,
		ProfitCap:    user.ProfitCap,
	})

	logger.WithFields(log.Fields{
		"profitEarned": user.ProfitEarned,
		"profitCap":    user.ProfitCap,
	}).Info("Profit cap reached, mining run finished")
}

// abort handles a fatal run failure: log, clear the task record with a
// fresh context, and let the job end.
func (e *Engine) abort(userID int64, logger *log.Entry, cause error) {
	logger.WithError(cause).Error("Mining run aborting")

	cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := e.tasks.Delete(cleanupCtx, userID); err != nil {
		logger.WithError(err).Error("Failed to clear task record after abort")
	}
}

// sleep pauses for d, returning false if the context was cancelled first
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func minedMessage(amount float64) string {
	return fmt.Sprintf("MINED !!!\n---------------\nYOU HAVE SUCCESSFULLY\nMINED %.6f eth", amount)
}

func capReachedMessage(user *models.User) string {
	return fmt.Sprintf("Mining stopped: your profit cap of %.6f eth has been reached (%.6f eth earned this run).\nUse /mine to begin a new run.", user.ProfitCap, user.ProfitEarned)
}
