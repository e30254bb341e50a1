package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"minebot/models"
)

// subscriptionService implements the SubscriptionService interface
type subscriptionService struct {
	uowFactory UnitOfWorkFactory
	chain      ChainClient
}

// NewSubscriptionService creates a new subscription service
func NewSubscriptionService(uowFactory UnitOfWorkFactory, chain ChainClient) SubscriptionService {
	return &subscriptionService{
		uowFactory: uowFactory,
		chain:      chain,
	}
}

func (s *subscriptionService) ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.PlanRepository().GetAll(ctx)
}

func (s *subscriptionService) CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	created, err := uow.PlanRepository().Create(ctx, plan)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return created, nil
}

func (s *subscriptionService) DeletePlan(ctx context.Context, planID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.PlanRepository().Delete(ctx, planID); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Subscribe pays for the plan from the company wallet, records the transfer
// and stores the subscription with its expiry. A failed payment leaves no
// subscription behind.
func (s *subscriptionService) Subscribe(ctx context.Context, userID, planID int64) (*models.SubscribedPlan, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	plan, err := uow.PlanRepository().GetByID(ctx, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	if plan == nil {
		return nil, fmt.Errorf("plan %d not found", planID)
	}

	company, err := uow.CompanyRepository().Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get company info: %w", err)
	}
	if company == nil {
		return nil, ErrCompanyNotConfigured
	}

	txHash, err := s.chain.Send(ctx, company.PrivateKey, company.DepositWallet, plan.Amount)
	if err != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"planID": planID,
			"error":  err,
		}).Error("Subscription payment failed")
		return nil, fmt.Errorf("subscription payment failed: %w", err)
	}

	txn := &models.Transaction{
		UserID: userID,
		Amount: plan.Amount,
		Status: models.TransactionStatusSuccess,
		TxHash: txHash,
	}
	if err := uow.TransactionRepository().Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record subscription payment: %w", err)
	}

	now := time.Now()
	sub := &models.SubscribedPlan{
		UserID:       userID,
		PlanID:       planID,
		SubscribedOn: now,
		ExpiresOn:    now.AddDate(0, 0, plan.DurationDays),
	}
	if err := uow.SubscriptionRepository().Upsert(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to store subscription: %w", err)
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID":    userID,
		"planID":    planID,
		"expiresOn": sub.ExpiresOn,
	}).Info("User subscribed to plan")

	return sub, nil
}

// CanMine reports whether the user holds an unexpired subscription
func (s *subscriptionService) CanMine(ctx context.Context, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	sub, err := uow.SubscriptionRepository().GetByUserID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get subscription: %w", err)
	}
	if sub == nil {
		return false, nil
	}

	return !sub.Expired(time.Now()), nil
}
