package models

import (
	"time"
)

// Verification is the tri-state admin verification flag on a user
type Verification string

const (
	VerificationUnset   Verification = "unset"
	VerificationGranted Verification = "granted"
	VerificationDenied  Verification = "denied"
)

// User represents a Telegram user with a mining balance.
//
// Earning is the cumulative balance in ETH. ProfitEarned accumulates payouts
// for the current mining run and is reset to zero whenever a new run starts.
// ProfitCap of zero means the user is uncapped.
type User struct {
	UserID        int64        `db:"user_id"`
	Name          string       `db:"name"`
	Earning       float64      `db:"earning"`
	ProfitEarned  float64      `db:"profit_earned"`
	ProfitCap     float64      `db:"profit_cap"`
	EthAddress    *string      `db:"eth_address"`
	IsAdmin       bool         `db:"is_admin"`
	AcceptedTerms bool         `db:"accepted_terms"`
	CanWithdraw   bool         `db:"can_withdraw"`
	Verified      Verification `db:"verified"`
	CreatedAt     time.Time    `db:"created_at"`
	UpdatedAt     time.Time    `db:"updated_at"`
}

// Capped reports whether the user has an active profit cap
func (u *User) Capped() bool {
	return u.ProfitCap > 0
}

// CapReached reports whether the current run has exhausted the profit cap
func (u *User) CapReached() bool {
	return u.Capped() && u.ProfitEarned >= u.ProfitCap
}
