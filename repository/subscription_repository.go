package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// SubscriptionRepository implements the service.SubscriptionRepository interface
type SubscriptionRepository struct {
	q queryable
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *database.DB) *SubscriptionRepository {
	return &SubscriptionRepository{q: db.Pool}
}

// newSubscriptionRepositoryWithTx creates a new subscription repository with a transaction
func newSubscriptionRepositoryWithTx(tx queryable) *SubscriptionRepository {
	return &SubscriptionRepository{q: tx}
}

// GetByUserID retrieves a user's subscription, nil if absent
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.SubscribedPlan, error) {
	query := `
		SELECT user_id, plan_id, subscribed_on, expires_on
		FROM subscribed_plans
		WHERE user_id = $1
	`

	var sub models.SubscribedPlan
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&sub.UserID,
		&sub.PlanID,
		&sub.SubscribedOn,
		&sub.ExpiresOn,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get subscription for user %d: %w", userID, err)
	}

	return &sub, nil
}

// Upsert stores or replaces a user's subscription
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.SubscribedPlan) error {
	query := `
		INSERT INTO subscribed_plans (user_id, plan_id, subscribed_on, expires_on)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET plan_id = EXCLUDED.plan_id, subscribed_on = EXCLUDED.subscribed_on, expires_on = EXCLUDED.expires_on
	`

	if _, err := r.q.Exec(ctx, query, sub.UserID, sub.PlanID, sub.SubscribedOn, sub.ExpiresOn); err != nil {
		return fmt.Errorf("failed to upsert subscription for user %d: %w", sub.UserID, err)
	}

	return nil
}

// Delete removes a user's subscription
func (r *SubscriptionRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM subscribed_plans WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete subscription for user %d: %w", userID, err)
	}
	return nil
}
