package bot

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"minebot/events"
	"minebot/service"
)

// Config holds bot configuration
type Config struct {
	Token    string
	AdminIDs []int64
}

type Bot struct {
	config              Config
	api                 *tgbotapi.BotAPI
	miningService       service.MiningService
	userService         service.UserService
	subscriptionService service.SubscriptionService
	withdrawService     service.WithdrawService
	teamService         service.TeamService
	companyService      service.CompanyService
	eventBus            *events.Bus
}

func New(config Config, miningService service.MiningService, userService service.UserService, subscriptionService service.SubscriptionService, withdrawService service.WithdrawService, teamService service.TeamService, companyService service.CompanyService, eventBus *events.Bus) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(config.Token)
	if err != nil {
		return nil, fmt.Errorf("error creating telegram session: %w", err)
	}

	bot := &Bot{
		config:              config,
		api:                 api,
		miningService:       miningService,
		userService:         userService,
		subscriptionService: subscriptionService,
		withdrawService:     withdrawService,
		teamService:         teamService,
		companyService:      companyService,
		eventBus:            eventBus,
	}

	// Mined payouts can push a balance over the withdrawal threshold, so
	// refresh eligibility whenever one lands.
	eventBus.Subscribe(events.EventTypeEarningMined, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.EarningMinedEvent); ok {
			if _, err := bot.withdrawService.RefreshEligibility(ctx, e.UserID); err != nil {
				log.Errorf("Failed to refresh withdrawal eligibility for user %d: %v", e.UserID, err)
			}
		}
	})

	log.WithField("username", api.Self.UserName).Info("Telegram session authorized")

	return bot, nil
}

// Run consumes the update stream until the context is cancelled
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil {
				continue
			}
			if update.Message.IsCommand() {
				b.handleCommand(ctx, update.Message)
			} else {
				b.reply(update.Message.Chat.ID, "Use /help for the list of commands")
			}
		}
	}
}

// Send implements service.Notifier. User IDs double as private chat IDs.
func (b *Bot) Send(userID int64, text string) error {
	msg := tgbotapi.NewMessage(userID, text)
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send message to user %d: %w", userID, err)
	}
	return nil
}

func (b *Bot) reply(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Errorf("Failed to send reply to chat %d: %v", chatID, err)
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	for _, id := range b.config.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
