package cmd

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"minebot/bot"
	"minebot/chain"
	"minebot/config"
	"minebot/database"
	"minebot/events"
	"minebot/repository"
	"minebot/service"
)

// notifierRelay breaks the construction cycle between the engine (which
// needs a Notifier) and the bot (which is built after the services). Sends
// before the bot is bound are dropped; the engine's warmup delay makes that
// window irrelevant in practice.
type notifierRelay struct {
	mu    sync.RWMutex
	inner service.Notifier
}

func (r *notifierRelay) bind(n service.Notifier) {
	r.mu.Lock()
	r.inner = n
	r.mu.Unlock()
}

func (r *notifierRelay) Send(userID int64, text string) error {
	r.mu.RLock()
	n := r.inner
	r.mu.RUnlock()
	if n == nil {
		return fmt.Errorf("notifier not bound yet")
	}
	return n.Send(userID, text)
}

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Info("Starting mining bot...")

	cfg := config.Get()

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	eventBus := events.NewBus()
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Direct (non-transactional) repositories for the engine and lifecycle
	// manager; their writes are single statements.
	userRepo := repository.NewUserRepository(db)
	taskRepo := repository.NewTaskRepository(db)

	chainClient := chain.NewSimulatedClient("mainnet")
	notifier := &notifierRelay{}

	scheduler := service.NewLocalScheduler(ctx)
	engine := service.NewEngine(userRepo, taskRepo, notifier, eventBus, service.EngineConfig{
		MinPayout:     cfg.MinPayout,
		MaxPayout:     cfg.MaxPayout,
		DrawUpper:     cfg.DrawUpper,
		HitWindowLow:  cfg.HitWindowLow,
		HitWindowHigh: cfg.HitWindowHigh,
		WarmupDelay:   cfg.WarmupDelay,
		SettleDelay:   cfg.SettleDelay,
		CooldownDelay: cfg.CooldownDelay,
		PollDelay:     cfg.PollDelay,
	})

	log.Info("Initializing services...")
	miningService := service.NewMiningService(userRepo, taskRepo, scheduler, engine, eventBus)
	userService := service.NewUserService(uowFactory, chainClient)
	subscriptionService := service.NewSubscriptionService(uowFactory, chainClient)
	withdrawService := service.NewWithdrawService(uowFactory, chainClient, cfg.WithdrawMinEarning, cfg.WithdrawFeeRate)
	teamService := service.NewTeamService(uowFactory)
	companyService := service.NewCompanyService(uowFactory, chainClient)

	// Task records orphaned by the previous process must not block starts
	swept, err := miningService.SweepStale(ctx)
	if err != nil {
		return fmt.Errorf("failed to sweep stale tasks: %w", err)
	}
	if swept > 0 {
		log.WithField("count", swept).Info("Swept stale task records at boot")
	}

	log.Info("Initializing Telegram bot...")
	botConfig := bot.Config{
		Token:    cfg.TelegramToken,
		AdminIDs: cfg.AdminIDs,
	}
	tgBot, err := bot.New(botConfig, miningService, userService, subscriptionService, withdrawService, teamService, companyService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Telegram bot: %w", err)
	}
	notifier.bind(tgBot)

	log.WithField("environment", cfg.Environment).Info("Bot is running")
	tgBot.Run(ctx)

	// Cleanup resources
	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	done := make(chan struct{})
	go func() {
		scheduler.Wait()
		close(done)
	}()
	select {
	case <-done:
		log.Info("All mining jobs stopped")
	case <-shutdownCtx.Done():
		log.Warn("Shutdown timeout exceeded waiting for mining jobs")
	}

	log.Info("Closing database connection...")
	db.Close()

	return nil
}
