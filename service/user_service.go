package service

import (
	"context"
	"fmt"

	"minebot/events"
	"minebot/models"
)

// userService implements the UserService interface
type userService struct {
	uowFactory UnitOfWorkFactory
	chain      ChainClient
}

// NewUserService creates a new user service
func NewUserService(uowFactory UnitOfWorkFactory, chain ChainClient) UserService {
	return &userService{
		uowFactory: uowFactory,
		chain:      chain,
	}
}

// Connect retrieves an existing user or creates one, provisioning a wallet
// for new accounts.
func (s *userService) Connect(ctx context.Context, userID int64, name string) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback() // No-op if already committed

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if user != nil {
		return user, nil
	}

	user, err = uow.UserRepository().Create(ctx, userID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	address, privateKey, err := s.chain.CreateWallet(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to provision wallet: %w", err)
	}

	wallet := &models.Wallet{
		UserID:     userID,
		Address:    address,
		PrivateKey: privateKey,
	}
	if err := uow.WalletRepository().Create(ctx, wallet); err != nil {
		return nil, fmt.Errorf("failed to store wallet: %w", err)
	}
	if err := uow.UserRepository().SetEthAddress(ctx, userID, address); err != nil {
		return nil, fmt.Errorf("failed to record wallet address: %w", err)
	}

	uow.EventBus().Publish(events.UserCreatedEvent{UserID: userID, Name: name})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	user.EthAddress = &address
	return user, nil
}

// GetUser retrieves a user, nil if unknown
func (s *userService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetByID(ctx, userID)
}

// GetAllUsers lists every registered user
func (s *userService) GetAllUsers(ctx context.Context) ([]*models.User, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.UserRepository().GetAll(ctx)
}

// SetTerms records the user's response to the terms of service
func (s *userService) SetTerms(ctx context.Context, userID int64, accepted bool) error {
	return s.withUser(ctx, userID, func(uow UnitOfWork, user *models.User) error {
		return uow.UserRepository().SetAcceptedTerms(ctx, userID, accepted)
	})
}

// AdjustBalance applies an admin credit or debit to a user's earning
func (s *userService) AdjustBalance(ctx context.Context, userID int64, delta float64) error {
	return s.withUser(ctx, userID, func(uow UnitOfWork, user *models.User) error {
		if err := uow.UserRepository().AdjustEarning(ctx, userID, delta); err != nil {
			return err
		}
		uow.EventBus().Publish(events.BalanceAdjustedEvent{
			UserID:     userID,
			Delta:      delta,
			NewEarning: user.Earning + delta,
		})
		return nil
	})
}

// SetProfitCap sets the user's per-run profit ceiling
func (s *userService) SetProfitCap(ctx context.Context, userID int64, cap float64) error {
	return s.withUser(ctx, userID, func(uow UnitOfWork, user *models.User) error {
		return uow.UserRepository().SetProfitCap(ctx, userID, cap)
	})
}

// SetVerified grants or denies verification
func (s *userService) SetVerified(ctx context.Context, userID int64, v models.Verification) error {
	return s.withUser(ctx, userID, func(uow UnitOfWork, user *models.User) error {
		return uow.UserRepository().SetVerified(ctx, userID, v)
	})
}

// DeleteUser removes a user; wallet, tasks and subscriptions cascade
func (s *userService) DeleteUser(ctx context.Context, userID int64) error {
	return s.withUser(ctx, userID, func(uow UnitOfWork, user *models.User) error {
		return uow.UserRepository().Delete(ctx, userID)
	})
}

// withUser runs fn in a unit of work after confirming the user exists
func (s *userService) withUser(ctx context.Context, userID int64, fn func(uow UnitOfWork, user *models.User) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return ErrUserNotFound
	}

	if err := fn(uow, user); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
