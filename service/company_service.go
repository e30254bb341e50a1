package service

import (
	"context"
	"fmt"

	"minebot/models"
)

// companyService implements the CompanyService interface
type companyService struct {
	uowFactory UnitOfWorkFactory
	chain      ChainClient
}

// NewCompanyService creates a new company service
func NewCompanyService(uowFactory UnitOfWorkFactory, chain ChainClient) CompanyService {
	return &companyService{
		uowFactory: uowFactory,
		chain:      chain,
	}
}

// GetCompany returns the company wallet configuration, nil when unset
func (s *companyService) GetCompany(ctx context.Context) (*models.CompanyInfo, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.CompanyRepository().Get(ctx)
}

// SetCompany stores the company wallet configuration
func (s *companyService) SetCompany(ctx context.Context, info *models.CompanyInfo) error {
	if !s.chain.ValidateAddress(info.DepositWallet) {
		return fmt.Errorf("invalid deposit wallet address %q", info.DepositWallet)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.CompanyRepository().Upsert(ctx, info); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
