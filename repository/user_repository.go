package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `
	user_id, name, earning, profit_earned, profit_cap, eth_address,
	is_admin, accepted_terms, can_withdraw, verified, created_at, updated_at
`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Name,
		&user.Earning,
		&user.ProfitEarned,
		&user.ProfitCap,
		&user.EthAddress,
		&user.IsAdmin,
		&user.AcceptedTerms,
		&user.CanWithdraw,
		&user.Verified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their Telegram ID
func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, userID))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", userID, err)
	}

	return user, nil
}

// Create creates a new user record
func (r *UserRepository) Create(ctx context.Context, userID int64, name string) (*models.User, error) {
	query := `
		INSERT INTO users (user_id, name)
		VALUES ($1, $2)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, userID, name))
	if err != nil {
		return nil, fmt.Errorf("failed to create user %d: %w", userID, err)
	}

	return user, nil
}

// GetAll returns all users, newest first
func (r *UserRepository) GetAll(ctx context.Context) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at DESC`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get all users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}

// AddEarning atomically credits both earning and profit_earned. The single
// UPDATE keeps the accrual loop's credit safe even without cross-process
// locking.
func (r *UserRepository) AddEarning(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET earning = earning + $1, profit_earned = profit_earned + $1, updated_at = NOW()
		WHERE user_id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to add earning for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}

// AdjustEarning applies an administrative delta to earning only
func (r *UserRepository) AdjustEarning(ctx context.Context, userID int64, delta float64) error {
	query := `
		UPDATE users
		SET earning = earning + $1, updated_at = NOW()
		WHERE user_id = $2 AND earning + $1 >= 0
	`

	result, err := r.q.Exec(ctx, query, delta, userID)
	if err != nil {
		return fmt.Errorf("failed to adjust earning for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %d not found", userID)
		}
		return fmt.Errorf("adjustment would drive earning negative: have %v, delta %v", user.Earning, delta)
	}

	return nil
}

// DeductEarning debits earning, failing on insufficient balance
func (r *UserRepository) DeductEarning(ctx context.Context, userID int64, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE users
		SET earning = earning - $1, updated_at = NOW()
		WHERE user_id = $2 AND earning >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("failed to deduct earning for user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		user, err := r.GetByID(ctx, userID)
		if err != nil {
			return fmt.Errorf("failed to check user: %w", err)
		}
		if user == nil {
			return fmt.Errorf("user %d not found", userID)
		}
		return fmt.Errorf("insufficient balance: have %v, need %v", user.Earning, amount)
	}

	return nil
}

// ResetProfitEarned zeroes profit_earned ahead of a new mining run
func (r *UserRepository) ResetProfitEarned(ctx context.Context, userID int64) error {
	return r.setColumn(ctx, userID, "profit_earned", 0.0)
}

// SetProfitCap sets the per-user profit ceiling; zero removes the cap
func (r *UserRepository) SetProfitCap(ctx context.Context, userID int64, cap float64) error {
	if cap < 0 {
		return fmt.Errorf("profit cap must not be negative")
	}
	return r.setColumn(ctx, userID, "profit_cap", cap)
}

// SetEthAddress records the user's provisioned wallet address
func (r *UserRepository) SetEthAddress(ctx context.Context, userID int64, address string) error {
	return r.setColumn(ctx, userID, "eth_address", address)
}

// SetAcceptedTerms flips the terms flag
func (r *UserRepository) SetAcceptedTerms(ctx context.Context, userID int64, accepted bool) error {
	return r.setColumn(ctx, userID, "accepted_terms", accepted)
}

// SetCanWithdraw flips the withdrawal eligibility flag
func (r *UserRepository) SetCanWithdraw(ctx context.Context, userID int64, canWithdraw bool) error {
	return r.setColumn(ctx, userID, "can_withdraw", canWithdraw)
}

// SetVerified updates the tri-state verification flag
func (r *UserRepository) SetVerified(ctx context.Context, userID int64, v models.Verification) error {
	return r.setColumn(ctx, userID, "verified", string(v))
}

// Delete removes a user; dependent rows cascade
func (r *UserRepository) Delete(ctx context.Context, userID int64) error {
	result, err := r.q.Exec(ctx, `DELETE FROM users WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("failed to delete user %d: %w", userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

func (r *UserRepository) setColumn(ctx context.Context, userID int64, column string, value any) error {
	// column is always a compile-time constant from this file
	query := fmt.Sprintf(`UPDATE users SET %s = $1, updated_at = NOW() WHERE user_id = $2`, column)

	result, err := r.q.Exec(ctx, query, value, userID)
	if err != nil {
		return fmt.Errorf("failed to update %s for user %d: %w", column, userID, err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("user %d not found", userID)
	}

	return nil
}
