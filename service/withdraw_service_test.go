package service

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"minebot/models"
)

func strPtr(s string) *string { return &s }

func withdrawFixture() (*MockUnitOfWork, *MockUnitOfWorkFactory, *MockUserRepository, *MockWalletRepository, *MockTransactionRepository, *MockChainClient, WithdrawService) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockUserRepo := new(MockUserRepository)
	mockWalletRepo := new(MockWalletRepository)
	mockTxnRepo := new(MockTransactionRepository)
	mockChain := new(MockChainClient)

	mockUoW.SetRepositories(mockUserRepo, nil, mockTxnRepo, mockWalletRepo, nil, nil, nil, nil, nil)

	svc := NewWithdrawService(mockFactory, mockChain, 0.003, 0.05)
	return mockUoW, mockFactory, mockUserRepo, mockWalletRepo, mockTxnRepo, mockChain, svc
}

func TestWithdrawService_FullBalanceWithFee(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, mockWalletRepo, mockTxnRepo, mockChain, svc := withdrawFixture()

	user := &models.User{
		UserID:        5,
		Earning:       0.01,
		AcceptedTerms: true,
		CanWithdraw:   true,
		EthAddress:    strPtr("0xdest"),
	}
	wallet := &models.Wallet{UserID: 5, Address: "0xdest", PrivateKey: "key"}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockWalletRepo.On("GetByUserID", ctx, int64(5)).Return(wallet, nil)

	// 5% fee comes off the transferred amount
	mockChain.On("Send", ctx, "key", "0xdest", mock.MatchedBy(func(net float64) bool {
		return math.Abs(net-0.0095) < 1e-9
	})).Return("0xhash", nil)

	mockUserRepo.On("DeductEarning", ctx, int64(5), 0.01).Return(nil)
	mockTxnRepo.On("Create", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.UserID == 5 && txn.Amount == 0.01 &&
			txn.Status == models.TransactionStatusSuccess && txn.TxHash == "0xhash"
	})).Return(nil)
	// Balance drops below the threshold, eligibility flips off
	mockUserRepo.On("SetCanWithdraw", ctx, int64(5), false).Return(nil)

	txn, err := svc.Withdraw(ctx, 5, 0)
	require.NoError(t, err)
	assert.Equal(t, "0xhash", txn.TxHash)

	mockUserRepo.AssertExpectations(t)
	mockTxnRepo.AssertExpectations(t)
	mockChain.AssertExpectations(t)
}

func TestWithdrawService_BelowMinimum(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, _, mockChain, svc := withdrawFixture()

	user := &models.User{
		UserID:        5,
		Earning:       0.001,
		AcceptedTerms: true,
		EthAddress:    strPtr("0xdest"),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)

	_, err := svc.Withdraw(ctx, 5, 0)
	assert.ErrorIs(t, err, ErrWithdrawBelowMinimum)

	mockChain.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestWithdrawService_TermsNotAccepted(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, _, _, svc := withdrawFixture()

	user := &models.User{UserID: 5, Earning: 0.01, AcceptedTerms: false}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)

	_, err := svc.Withdraw(ctx, 5, 0)
	assert.ErrorIs(t, err, ErrTermsNotAccepted)
}

func TestWithdrawService_AmountAboveBalance(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, _, _, svc := withdrawFixture()

	user := &models.User{
		UserID:        5,
		Earning:       0.01,
		AcceptedTerms: true,
		EthAddress:    strPtr("0xdest"),
	}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)

	_, err := svc.Withdraw(ctx, 5, 0.5)
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestWithdrawService_TransferFailureKeepsBalance(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, mockWalletRepo, mockTxnRepo, mockChain, svc := withdrawFixture()

	user := &models.User{
		UserID:        5,
		Earning:       0.01,
		AcceptedTerms: true,
		EthAddress:    strPtr("0xdest"),
	}
	wallet := &models.Wallet{UserID: 5, Address: "0xdest", PrivateKey: "key"}

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockWalletRepo.On("GetByUserID", ctx, int64(5)).Return(wallet, nil)
	mockChain.On("Send", ctx, "key", "0xdest", mock.Anything).Return("", assert.AnError)

	// The failure is still logged to the transaction history
	mockTxnRepo.On("Create", ctx, mock.MatchedBy(func(txn *models.Transaction) bool {
		return txn.Status == models.TransactionStatusFailed
	})).Return(nil)

	_, err := svc.Withdraw(ctx, 5, 0)
	require.Error(t, err)

	mockUserRepo.AssertNotCalled(t, "DeductEarning", mock.Anything, mock.Anything, mock.Anything)
	mockTxnRepo.AssertExpectations(t)
}

func TestWithdrawService_RefreshEligibility(t *testing.T) {
	ctx := context.Background()
	mockUoW, mockFactory, mockUserRepo, _, _, _, svc := withdrawFixture()

	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	// Over threshold but flag not yet set
	user := &models.User{UserID: 5, Earning: 0.01, CanWithdraw: false}
	mockUserRepo.On("GetByID", ctx, int64(5)).Return(user, nil)
	mockUserRepo.On("SetCanWithdraw", ctx, int64(5), true).Return(nil)

	eligible, err := svc.RefreshEligibility(ctx, 5)
	require.NoError(t, err)
	assert.True(t, eligible)

	mockUserRepo.AssertExpectations(t)
}
