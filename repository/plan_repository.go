package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// PlanRepository implements the service.PlanRepository interface
type PlanRepository struct {
	q queryable
}

// NewPlanRepository creates a new subscription plan repository
func NewPlanRepository(db *database.DB) *PlanRepository {
	return &PlanRepository{q: db.Pool}
}

// newPlanRepositoryWithTx creates a new plan repository with a transaction
func newPlanRepositoryWithTx(tx queryable) *PlanRepository {
	return &PlanRepository{q: tx}
}

// GetAll returns all subscription plans
func (r *PlanRepository) GetAll(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	query := `SELECT id, name, amount, duration_days, token_count FROM subscription_plans ORDER BY amount`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.SubscriptionPlan
	for rows.Next() {
		var plan models.SubscriptionPlan
		if err := rows.Scan(&plan.ID, &plan.Name, &plan.Amount, &plan.DurationDays, &plan.TokenCount); err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, &plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate plans: %w", err)
	}

	return plans, nil
}

// GetByID retrieves a plan, nil if absent
func (r *PlanRepository) GetByID(ctx context.Context, id int64) (*models.SubscriptionPlan, error) {
	query := `SELECT id, name, amount, duration_days, token_count FROM subscription_plans WHERE id = $1`

	var plan models.SubscriptionPlan
	err := r.q.QueryRow(ctx, query, id).Scan(&plan.ID, &plan.Name, &plan.Amount, &plan.DurationDays, &plan.TokenCount)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan %d: %w", id, err)
	}

	return &plan, nil
}

// Create stores a new subscription plan
func (r *PlanRepository) Create(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	query := `
		INSERT INTO subscription_plans (name, amount, duration_days, token_count)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	if err := r.q.QueryRow(ctx, query, plan.Name, plan.Amount, plan.DurationDays, plan.TokenCount).Scan(&plan.ID); err != nil {
		return nil, fmt.Errorf("failed to create plan: %w", err)
	}

	return plan, nil
}

// Delete removes a subscription plan
func (r *PlanRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM subscription_plans WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete plan %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("plan %d not found", id)
	}
	return nil
}
