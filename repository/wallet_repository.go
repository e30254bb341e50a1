package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// WalletRepository implements the service.WalletRepository interface
type WalletRepository struct {
	q queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository with a transaction
func newWalletRepositoryWithTx(tx queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetByUserID retrieves a user's wallet, nil if absent
func (r *WalletRepository) GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error) {
	query := `
		SELECT user_id, address, private_key, pass_phrase
		FROM wallets
		WHERE user_id = $1
	`

	var wallet models.Wallet
	err := r.q.QueryRow(ctx, query, userID).Scan(
		&wallet.UserID,
		&wallet.Address,
		&wallet.PrivateKey,
		&wallet.PassPhrase,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet for user %d: %w", userID, err)
	}

	return &wallet, nil
}

// Create stores a user's wallet
func (r *WalletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	query := `
		INSERT INTO wallets (user_id, address, private_key, pass_phrase)
		VALUES ($1, $2, $3, $4)
	`

	if _, err := r.q.Exec(ctx, query, wallet.UserID, wallet.Address, wallet.PrivateKey, wallet.PassPhrase); err != nil {
		return fmt.Errorf("failed to create wallet for user %d: %w", wallet.UserID, err)
	}

	return nil
}

// Delete removes a user's wallet
func (r *WalletRepository) Delete(ctx context.Context, userID int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM wallets WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("failed to delete wallet for user %d: %w", userID, err)
	}
	return nil
}
