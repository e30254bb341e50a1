package models

import (
	"time"
)

// SubscriptionPlan is an admin-managed mining plan
type SubscriptionPlan struct {
	ID           int64   `db:"id"`
	Name         string  `db:"name"`
	Amount       float64 `db:"amount"`
	DurationDays int     `db:"duration_days"`
	TokenCount   int     `db:"token_count"`
}

// SubscribedPlan records a user's current subscription; one per user
type SubscribedPlan struct {
	UserID       int64     `db:"user_id"`
	PlanID       int64     `db:"plan_id"`
	SubscribedOn time.Time `db:"subscribed_on"`
	ExpiresOn    time.Time `db:"expires_on"`
}

// Expired reports whether the subscription has lapsed as of now
func (s *SubscribedPlan) Expired(now time.Time) bool {
	return now.After(s.ExpiresOn)
}
