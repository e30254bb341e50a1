package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"minebot/service"
)

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	log.WithFields(log.Fields{
		"userID":  msg.From.ID,
		"command": msg.Command(),
	}).Debug("Handling command")

	switch msg.Command() {
	case "start", "connect":
		b.handleConnect(ctx, msg)
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "about":
		b.reply(msg.Chat.ID, aboutText)
	case "services":
		b.reply(msg.Chat.ID, servicesText)
	case "faq":
		b.reply(msg.Chat.ID, faqText)
	case "terms":
		b.reply(msg.Chat.ID, termsText)
	case "accept":
		b.handleTerms(ctx, msg, true)
	case "decline":
		b.handleTerms(ctx, msg, false)
	case "account":
		b.handleAccount(ctx, msg)
	case "plans":
		b.handlePlans(ctx, msg)
	case "subscribe":
		b.handleSubscribe(ctx, msg)
	case "mine":
		b.handleStartMining(ctx, msg)
	case "stop":
		b.handleStopMining(ctx, msg)
	case "withdraw":
		b.handleWithdraw(ctx, msg)
	case "history":
		b.handleHistory(ctx, msg)
	case "teams":
		b.handleTeams(ctx, msg)
	default:
		if b.isAdmin(msg.From.ID) && b.handleAdminCommand(ctx, msg) {
			return
		}
		b.reply(msg.Chat.ID, "Unknown command. Use /help for the list of commands")
	}
}

func (b *Bot) handleConnect(ctx context.Context, msg *tgbotapi.Message) {
	name := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	if name == "" {
		name = msg.From.UserName
	}

	user, err := b.userService.Connect(ctx, msg.From.ID, name)
	if err != nil {
		log.Errorf("Failed to connect user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to set up your account right now. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, connectedMessage(user))
}

func (b *Bot) handleTerms(ctx context.Context, msg *tgbotapi.Message, accepted bool) {
	if err := b.userService.SetTerms(ctx, msg.From.ID, accepted); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "Connect first with /start")
			return
		}
		log.Errorf("Failed to set terms for user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to record your response. Please try again.")
		return
	}

	if accepted {
		b.reply(msg.Chat.ID, "Terms accepted. You can now /subscribe to a plan and start mining with /mine")
	} else {
		b.reply(msg.Chat.ID, "Terms declined. Mining and withdrawals stay disabled until you /accept")
	}
}

func (b *Bot) handleAccount(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.userService.GetUser(ctx, msg.From.ID)
	if err != nil {
		log.Errorf("Failed to get user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to load your account. Please try again.")
		return
	}
	if user == nil {
		b.reply(msg.Chat.ID, "Connect first with /start")
		return
	}

	task, err := b.miningService.Active(ctx, msg.From.ID)
	if err != nil {
		log.Errorf("Failed to check active task for user %d: %v", msg.From.ID, err)
	}

	b.reply(msg.Chat.ID, formatAccount(user, task != nil))
}

func (b *Bot) handlePlans(ctx context.Context, msg *tgbotapi.Message) {
	plans, err := b.subscriptionService.ListPlans(ctx)
	if err != nil {
		log.Errorf("Failed to list plans: %v", err)
		b.reply(msg.Chat.ID, "Unable to load plans. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, formatPlans(plans))
}

func (b *Bot) handleSubscribe(ctx context.Context, msg *tgbotapi.Message) {
	planID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Format: /subscribe <plan id>. See /plans for available plans")
		return
	}

	sub, err := b.subscriptionService.Subscribe(ctx, msg.From.ID, planID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			b.reply(msg.Chat.ID, "Connect first with /start")
		case errors.Is(err, service.ErrCompanyNotConfigured):
			b.reply(msg.Chat.ID, "Subscriptions are temporarily unavailable. Please try again later.")
		default:
			log.Errorf("Failed to subscribe user %d to plan %d: %v", msg.From.ID, planID, err)
			b.reply(msg.Chat.ID, "Unable to process your subscription. Please try again.")
		}
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Subscription active until %s. Start mining with /mine",
		sub.ExpiresOn.Format("02 Jan 2006")))
}

func (b *Bot) handleStartMining(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.userService.GetUser(ctx, msg.From.ID)
	if err != nil {
		log.Errorf("Failed to get user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to start mining. Please try again.")
		return
	}
	if user == nil {
		b.reply(msg.Chat.ID, "Connect first with /start")
		return
	}
	if !user.AcceptedTerms {
		b.reply(msg.Chat.ID, "You must accept the terms first. See /terms")
		return
	}

	canMine, err := b.subscriptionService.CanMine(ctx, msg.From.ID)
	if err != nil {
		log.Errorf("Failed to check subscription for user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to start mining. Please try again.")
		return
	}
	if !canMine {
		b.reply(msg.Chat.ID, "You need an active subscription to mine. See /plans")
		return
	}

	task, err := b.miningService.Start(ctx, msg.From.ID)
	if err != nil {
		log.Errorf("Failed to start mining for user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to start mining. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Mining started.\nTask: %s\nStop anytime with /stop", task.TaskID))
}

func (b *Bot) handleStopMining(ctx context.Context, msg *tgbotapi.Message) {
	task, err := b.miningService.Stop(ctx, msg.From.ID)
	if err != nil {
		if errors.Is(err, service.ErrNoActiveTask) {
			b.reply(msg.Chat.ID, "You have no active mining task")
			return
		}
		log.Errorf("Failed to stop mining for user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to stop mining. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Mining stopped.\nTask: %s", task.TaskID))
}

func (b *Bot) handleWithdraw(ctx context.Context, msg *tgbotapi.Message) {
	var amount float64
	args := strings.TrimSpace(msg.CommandArguments())
	if args != "" {
		parsed, err := strconv.ParseFloat(args, 64)
		if err != nil || parsed <= 0 {
			b.reply(msg.Chat.ID, "Format: /withdraw [amount]. Omit the amount to withdraw your full balance")
			return
		}
		amount = parsed
	}

	txn, err := b.withdrawService.Withdraw(ctx, msg.From.ID, amount)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			b.reply(msg.Chat.ID, "Connect first with /start")
		case errors.Is(err, service.ErrTermsNotAccepted):
			b.reply(msg.Chat.ID, "You must accept the terms first. See /terms")
		case errors.Is(err, service.ErrWithdrawBelowMinimum):
			b.reply(msg.Chat.ID, "Your balance is below the withdrawal minimum. Keep mining!")
		case errors.Is(err, service.ErrInsufficientBalance):
			b.reply(msg.Chat.ID, "Insufficient balance for this withdrawal")
		default:
			log.Errorf("Failed withdrawal for user %d: %v", msg.From.ID, err)
			b.reply(msg.Chat.ID, "Withdrawal failed. Please try again.")
		}
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Withdrawal of %.6f eth submitted.\nTx: %s", txn.Amount, txn.TxHash))
}

func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	txns, err := b.withdrawService.History(ctx, msg.From.ID, 10)
	if err != nil {
		log.Errorf("Failed to load history for user %d: %v", msg.From.ID, err)
		b.reply(msg.Chat.ID, "Unable to load your history. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, formatHistory(txns))
}

func (b *Bot) handleTeams(ctx context.Context, msg *tgbotapi.Message) {
	teams, err := b.teamService.ListTeams(ctx)
	if err != nil {
		log.Errorf("Failed to list teams: %v", err)
		b.reply(msg.Chat.ID, "Unable to load the team. Please try again.")
		return
	}

	b.reply(msg.Chat.ID, formatTeams(teams))
}
