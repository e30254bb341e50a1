package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	log "github.com/sirupsen/logrus"

	"minebot/models"
	"minebot/service"
)

// handleAdminCommand dispatches admin-only commands. Returns false when the
// command is not an admin command so the caller can fall through.
func (b *Bot) handleAdminCommand(ctx context.Context, msg *tgbotapi.Message) bool {
	switch msg.Command() {
	case "users":
		b.handleListUsers(ctx, msg)
	case "addteam":
		b.handleAddTeam(ctx, msg)
	case "delteam":
		b.handleDelTeam(ctx, msg)
	case "addplan":
		b.handleAddPlan(ctx, msg)
	case "delplan":
		b.handleDelPlan(ctx, msg)
	case "company":
		b.handleCompany(ctx, msg)
	case "setcompany":
		b.handleSetCompany(ctx, msg)
	case "adjust":
		b.handleAdjust(ctx, msg)
	case "setcap":
		b.handleSetCap(ctx, msg)
	case "verify":
		b.handleVerify(ctx, msg)
	case "message":
		b.handleMessage(ctx, msg)
	case "deluser":
		b.handleDelUser(ctx, msg)
	default:
		return false
	}
	return true
}

func (b *Bot) handleListUsers(ctx context.Context, msg *tgbotapi.Message) {
	users, err := b.userService.GetAllUsers(ctx)
	if err != nil {
		log.Errorf("Failed to list users: %v", err)
		b.reply(msg.Chat.ID, "Unable to load users")
		return
	}

	b.reply(msg.Chat.ID, formatUsers(users))
}

func (b *Bot) handleAddTeam(ctx context.Context, msg *tgbotapi.Message) {
	// Format: /addteam Name | Country | email
	parts := strings.Split(msg.CommandArguments(), "|")
	if len(parts) < 2 {
		b.reply(msg.Chat.ID, "Format: /addteam Name | Country | email(optional)")
		return
	}

	team := &models.Team{
		Name:    strings.TrimSpace(parts[0]),
		Country: strings.TrimSpace(parts[1]),
	}
	if len(parts) > 2 {
		email := strings.TrimSpace(parts[2])
		if email != "" {
			team.Email = &email
		}
	}

	created, err := b.teamService.AddTeam(ctx, team)
	if err != nil {
		log.Errorf("Failed to add team: %v", err)
		b.reply(msg.Chat.ID, "Unable to add team member")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Added %s (ID %d)", created.Name, created.ID))
}

func (b *Bot) handleDelTeam(ctx context.Context, msg *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Format: /delteam <id>")
		return
	}

	if err := b.teamService.RemoveTeam(ctx, id); err != nil {
		log.Errorf("Failed to remove team %d: %v", id, err)
		b.reply(msg.Chat.ID, "Unable to remove team member")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Removed team member %d", id))
}

func (b *Bot) handleAddPlan(ctx context.Context, msg *tgbotapi.Message) {
	// Format: /addplan Name | amount | days | tokens
	parts := strings.Split(msg.CommandArguments(), "|")
	if len(parts) != 4 {
		b.reply(msg.Chat.ID, "Format: /addplan Name | amount | duration days | token count")
		return
	}

	amount, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil || amount <= 0 {
		b.reply(msg.Chat.ID, "Invalid amount")
		return
	}
	days, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil || days <= 0 {
		b.reply(msg.Chat.ID, "Invalid duration")
		return
	}
	tokens, err := strconv.Atoi(strings.TrimSpace(parts[3]))
	if err != nil || tokens <= 0 {
		b.reply(msg.Chat.ID, "Invalid token count")
		return
	}

	plan := &models.SubscriptionPlan{
		Name:         strings.TrimSpace(parts[0]),
		Amount:       amount,
		DurationDays: days,
		TokenCount:   tokens,
	}

	created, err := b.subscriptionService.CreatePlan(ctx, plan)
	if err != nil {
		log.Errorf("Failed to create plan: %v", err)
		b.reply(msg.Chat.ID, "Unable to create plan")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Created plan %s (ID %d)", created.Name, created.ID))
}

func (b *Bot) handleDelPlan(ctx context.Context, msg *tgbotapi.Message) {
	id, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Format: /delplan <id>")
		return
	}

	if err := b.subscriptionService.DeletePlan(ctx, id); err != nil {
		log.Errorf("Failed to delete plan %d: %v", id, err)
		b.reply(msg.Chat.ID, "Unable to delete plan")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Deleted plan %d", id))
}

func (b *Bot) handleCompany(ctx context.Context, msg *tgbotapi.Message) {
	info, err := b.companyService.GetCompany(ctx)
	if err != nil {
		log.Errorf("Failed to get company info: %v", err)
		b.reply(msg.Chat.ID, "Unable to load company info")
		return
	}
	if info == nil {
		b.reply(msg.Chat.ID, "Company wallet not configured. Use /setcompany")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Deposit wallet: %s\nNetwork: %s", info.DepositWallet, info.Network))
}

func (b *Bot) handleSetCompany(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 3 {
		b.reply(msg.Chat.ID, "Format: /setcompany <deposit wallet> <private key> <network>")
		return
	}

	info := &models.CompanyInfo{
		DepositWallet: fields[0],
		PrivateKey:    fields[1],
		Network:       fields[2],
	}

	if err := b.companyService.SetCompany(ctx, info); err != nil {
		log.Errorf("Failed to set company info: %v", err)
		b.reply(msg.Chat.ID, "Unable to store company info: "+err.Error())
		return
	}

	b.reply(msg.Chat.ID, "Company wallet configured")
}

func (b *Bot) handleAdjust(ctx context.Context, msg *tgbotapi.Message) {
	var userID int64
	var delta float64
	if _, err := fmt.Sscanf(msg.CommandArguments(), "%d %f", &userID, &delta); err != nil {
		b.reply(msg.Chat.ID, "Format: /adjust <user id> <delta>")
		return
	}

	if err := b.userService.AdjustBalance(ctx, userID, delta); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "Unknown user")
			return
		}
		log.Errorf("Failed to adjust balance for user %d: %v", userID, err)
		b.reply(msg.Chat.ID, "Unable to adjust balance: "+err.Error())
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Adjusted user %d balance by %.6f", userID, delta))
}

func (b *Bot) handleSetCap(ctx context.Context, msg *tgbotapi.Message) {
	var userID int64
	var cap float64
	if _, err := fmt.Sscanf(msg.CommandArguments(), "%d %f", &userID, &cap); err != nil {
		b.reply(msg.Chat.ID, "Format: /setcap <user id> <cap>. Zero removes the cap")
		return
	}

	if err := b.userService.SetProfitCap(ctx, userID, cap); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "Unknown user")
			return
		}
		log.Errorf("Failed to set profit cap for user %d: %v", userID, err)
		b.reply(msg.Chat.ID, "Unable to set profit cap")
		return
	}

	if cap == 0 {
		b.reply(msg.Chat.ID, fmt.Sprintf("Removed profit cap for user %d", userID))
	} else {
		b.reply(msg.Chat.ID, fmt.Sprintf("Set profit cap %.6f for user %d", cap, userID))
	}
}

func (b *Bot) handleVerify(ctx context.Context, msg *tgbotapi.Message) {
	fields := strings.Fields(msg.CommandArguments())
	if len(fields) != 2 {
		b.reply(msg.Chat.ID, "Format: /verify <user id> granted|denied")
		return
	}

	userID, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid user id")
		return
	}

	var v models.Verification
	switch fields[1] {
	case "granted":
		v = models.VerificationGranted
	case "denied":
		v = models.VerificationDenied
	default:
		b.reply(msg.Chat.ID, "Verification must be granted or denied")
		return
	}

	if err := b.userService.SetVerified(ctx, userID, v); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "Unknown user")
			return
		}
		log.Errorf("Failed to set verification for user %d: %v", userID, err)
		b.reply(msg.Chat.ID, "Unable to update verification")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("User %d verification %s", userID, v))
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	args := strings.SplitN(strings.TrimSpace(msg.CommandArguments()), " ", 2)
	if len(args) != 2 {
		b.reply(msg.Chat.ID, "Format: /message <user id> <text>")
		return
	}

	userID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Invalid user id")
		return
	}

	if err := b.Send(userID, args[1]); err != nil {
		log.Errorf("Failed to message user %d: %v", userID, err)
		b.reply(msg.Chat.ID, "Unable to deliver message")
		return
	}

	b.reply(msg.Chat.ID, "Message delivered")
}

func (b *Bot) handleDelUser(ctx context.Context, msg *tgbotapi.Message) {
	userID, err := strconv.ParseInt(strings.TrimSpace(msg.CommandArguments()), 10, 64)
	if err != nil {
		b.reply(msg.Chat.ID, "Format: /deluser <user id>")
		return
	}

	// Stop any running task first so the engine goroutine doesn't keep
	// crediting a deleted account.
	if _, err := b.miningService.Stop(ctx, userID); err != nil && !errors.Is(err, service.ErrNoActiveTask) {
		log.Errorf("Failed to stop task while deleting user %d: %v", userID, err)
	}

	if err := b.userService.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			b.reply(msg.Chat.ID, "Unknown user")
			return
		}
		log.Errorf("Failed to delete user %d: %v", userID, err)
		b.reply(msg.Chat.ID, "Unable to delete user")
		return
	}

	b.reply(msg.Chat.ID, fmt.Sprintf("Deleted user %d", userID))
}
