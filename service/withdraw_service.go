package service

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"

	"minebot/events"
	"minebot/models"
)

// withdrawService implements the WithdrawService interface
type withdrawService struct {
	uowFactory UnitOfWorkFactory
	chain      ChainClient
	minEarning float64
	feeRate    float64
}

// NewWithdrawService creates a new withdrawal service
func NewWithdrawService(uowFactory UnitOfWorkFactory, chain ChainClient, minEarning, feeRate float64) WithdrawService {
	return &withdrawService{
		uowFactory: uowFactory,
		chain:      chain,
		minEarning: minEarning,
		feeRate:    feeRate,
	}
}

// Withdraw sends amount (or the full balance when amount is zero) to the
// user's wallet, less the platform fee. Failed transfers are still appended
// to the transaction log, but leave the balance untouched.
func (s *withdrawService) Withdraw(ctx context.Context, userID int64, amount float64) (*models.Transaction, error) {
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
	if !user.AcceptedTerms {
		return nil, ErrTermsNotAccepted
	}
	if user.EthAddress == nil {
		return nil, fmt.Errorf("user %d has no wallet address", userID)
	}

	if amount == 0 {
		amount = user.Earning
	}
	if amount <= 0 || amount > user.Earning {
		return nil, ErrInsufficientBalance
	}
	if user.Earning < s.minEarning {
		return nil, ErrWithdrawBelowMinimum
	}

	wallet, err := uow.WalletRepository().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	if wallet == nil {
		return nil, fmt.Errorf("user %d has no wallet", userID)
	}

	fee := amount * s.feeRate
	net := amount - fee

	txHash, sendErr := s.chain.Send(ctx, wallet.PrivateKey, *user.EthAddress, net)
	if sendErr != nil {
		log.WithFields(log.Fields{
			"userID": userID,
			"amount": amount,
			"error":  sendErr,
		}).Error("Withdrawal transfer failed")

		txn := &models.Transaction{
			UserID: userID,
			Amount: amount,
			Status: models.TransactionStatusFailed,
		}
		if err := uow.TransactionRepository().Create(ctx, txn); err != nil {
			return nil, fmt.Errorf("failed to record failed withdrawal: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return nil, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return txn, fmt.Errorf("withdrawal transfer failed: %w", sendErr)
	}

	if err := uow.UserRepository().DeductEarning(ctx, userID, amount); err != nil {
		return nil, fmt.Errorf("failed to deduct earning: %w", err)
	}

	txn := &models.Transaction{
		UserID: userID,
		Amount: amount,
		Status: models.TransactionStatusSuccess,
		TxHash: txHash,
	}
	if err := uow.TransactionRepository().Create(ctx, txn); err != nil {
		return nil, fmt.Errorf("failed to record withdrawal: %w", err)
	}

	remaining := user.Earning - amount
	if remaining < s.minEarning && user.CanWithdraw {
		if err := uow.UserRepository().SetCanWithdraw(ctx, userID, false); err != nil {
			return nil, fmt.Errorf("failed to update withdrawal eligibility: %w", err)
		}
	}

	uow.EventBus().Publish(events.WithdrawalEvent{
		UserID: userID,
		Amount: amount,
		Fee:    fee,
		TxHash: txHash,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.WithFields(log.Fields{
		"userID": userID,
		"amount": amount,
		"fee":    fee,
		"txHash": txHash,
	}).Info("Withdrawal completed")

	return txn, nil
}

// History returns the user's most recent transfers, newest first
func (s *withdrawService) History(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.TransactionRepository().GetByUser(ctx, userID, limit)
}

// RefreshEligibility updates the user's can_withdraw flag from their current
// earning and reports the result.
func (s *withdrawService) RefreshEligibility(ctx context.Context, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return false, ErrUserNotFound
	}

	eligible := user.Earning >= s.minEarning
	if eligible == user.CanWithdraw {
		return eligible, nil
	}

	if err := uow.UserRepository().SetCanWithdraw(ctx, userID, eligible); err != nil {
		return false, fmt.Errorf("failed to update withdrawal eligibility: %w", err)
	}
	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return eligible, nil
}
