package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"minebot/database"
	"minebot/models"
)

// CompanyRepository implements the service.CompanyRepository interface.
// The company table holds a single row.
type CompanyRepository struct {
	q queryable
}

// NewCompanyRepository creates a new company repository
func NewCompanyRepository(db *database.DB) *CompanyRepository {
	return &CompanyRepository{q: db.Pool}
}

// newCompanyRepositoryWithTx creates a new company repository with a transaction
func newCompanyRepositoryWithTx(tx queryable) *CompanyRepository {
	return &CompanyRepository{q: tx}
}

// Get retrieves the company wallet configuration, nil when unset
func (r *CompanyRepository) Get(ctx context.Context) (*models.CompanyInfo, error) {
	query := `SELECT deposit_wallet, private_key, pass_phrase, network FROM company WHERE id = 1`

	var info models.CompanyInfo
	err := r.q.QueryRow(ctx, query).Scan(
		&info.DepositWallet,
		&info.PrivateKey,
		&info.PassPhrase,
		&info.Network,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get company info: %w", err)
	}

	return &info, nil
}

// Upsert stores or replaces the company wallet configuration
func (r *CompanyRepository) Upsert(ctx context.Context, info *models.CompanyInfo) error {
	query := `
		INSERT INTO company (id, deposit_wallet, private_key, pass_phrase, network)
		VALUES (1, $1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET deposit_wallet = EXCLUDED.deposit_wallet, private_key = EXCLUDED.private_key,
		    pass_phrase = EXCLUDED.pass_phrase, network = EXCLUDED.network
	`

	if _, err := r.q.Exec(ctx, query, info.DepositWallet, info.PrivateKey, info.PassPhrase, info.Network); err != nil {
		return fmt.Errorf("failed to upsert company info: %w", err)
	}

	return nil
}
