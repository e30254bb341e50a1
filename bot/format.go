package bot

import (
	"fmt"
	"strings"

	"minebot/models"
)

const helpText = `Available commands:
/start - connect your account
/account - view your balance and status
/terms - read the terms of service
/accept - accept the terms
/decline - decline the terms
/plans - list subscription plans
/subscribe <id> - subscribe to a plan
/mine - start mining
/stop - stop mining
/withdraw [amount] - withdraw mined eth
/history - your recent transfers
/teams - meet the team
/about /services /faq - learn more`

const aboutText = `We operate managed cloud mining rigs. Connect your account, pick a plan and your rig starts working for you. Payouts land directly in your in-app balance.`

const servicesText = `Services:
- Cloud eth mining on managed rigs
- Instant in-app payout notifications
- Withdrawals to your personal wallet`

const faqText = `FAQ:
Q: How do payouts work?
A: Your rig mines continuously. Each successful round is credited to your balance and you get a notification.

Q: When can I withdraw?
A: As soon as your balance passes the withdrawal minimum. A small platform fee applies.

Q: How do I stop?
A: /stop ends your mining session at any time.`

const termsText = `Terms of service:
1. Mining proceeds are simulated payouts credited to your in-app balance.
2. Subscriptions are non-refundable once activated.
3. A platform fee applies to every withdrawal.
4. Accounts engaged in abuse may be suspended.

Reply /accept to agree or /decline to refuse.`

func connectedMessage(user *models.User) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Welcome, %s!\n", user.Name))
	if user.EthAddress != nil {
		sb.WriteString(fmt.Sprintf("Your wallet: %s\n", *user.EthAddress))
	}
	sb.WriteString("\nRead the /terms, pick a plan with /plans, then /mine to get started.")
	return sb.String()
}

func formatAccount(user *models.User, mining bool) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Account %d\n", user.UserID))
	sb.WriteString(fmt.Sprintf("Name: %s\n", user.Name))
	sb.WriteString(fmt.Sprintf("Balance: %.6f eth\n", user.Earning))
	if user.Capped() {
		sb.WriteString(fmt.Sprintf("Run profit: %.6f / %.6f eth\n", user.ProfitEarned, user.ProfitCap))
	} else {
		sb.WriteString(fmt.Sprintf("Run profit: %.6f eth\n", user.ProfitEarned))
	}
	if user.EthAddress != nil {
		sb.WriteString(fmt.Sprintf("Wallet: %s\n", *user.EthAddress))
	}
	sb.WriteString(fmt.Sprintf("Terms accepted: %v\n", user.AcceptedTerms))
	sb.WriteString(fmt.Sprintf("Verification: %s\n", user.Verified))
	if mining {
		sb.WriteString("Mining: active")
	} else {
		sb.WriteString("Mining: idle")
	}
	return sb.String()
}

func formatPlans(plans []*models.SubscriptionPlan) string {
	if len(plans) == 0 {
		return "No plans available yet"
	}

	var sb strings.Builder
	sb.WriteString("Subscription plans:\n")
	for _, p := range plans {
		sb.WriteString(fmt.Sprintf("%d. %s - %.6f eth for %d days (%d tokens)\n",
			p.ID, p.Name, p.Amount, p.DurationDays, p.TokenCount))
	}
	sb.WriteString("\nSubscribe with /subscribe <id>")
	return sb.String()
}

func formatTeams(teams []*models.Team) string {
	if len(teams) == 0 {
		return "Team profiles coming soon"
	}

	var sb strings.Builder
	sb.WriteString("Our team:\n")
	for _, t := range teams {
		sb.WriteString(fmt.Sprintf("%s (%s)", t.Name, t.Country))
		if t.Email != nil {
			sb.WriteString(" - " + *t.Email)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

func formatHistory(txns []*models.Transaction) string {
	if len(txns) == 0 {
		return "No transfers yet"
	}

	var sb strings.Builder
	sb.WriteString("Recent transfers:\n")
	for _, txn := range txns {
		sb.WriteString(fmt.Sprintf("%s  %.6f eth  %s\n",
			txn.CreatedAt.Format("02 Jan 15:04"), txn.Amount, txn.Status))
	}
	return sb.String()
}

func formatUsers(users []*models.User) string {
	if len(users) == 0 {
		return "No users registered"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d users:\n", len(users)))
	for _, u := range users {
		sb.WriteString(fmt.Sprintf("%d %s - %.6f eth (terms: %v, verified: %s)\n",
			u.UserID, u.Name, u.Earning, u.AcceptedTerms, u.Verified))
	}
	return sb.String()
}
