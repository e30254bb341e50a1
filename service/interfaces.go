package service

import (
	"context"

	"minebot/events"
	"minebot/models"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their Telegram ID, nil if absent
	GetByID(ctx context.Context, userID int64) (*models.User, error)

	// Create creates a new user record
	Create(ctx context.Context, userID int64, name string) (*models.User, error)

	// GetAll returns all users, newest first
	GetAll(ctx context.Context) ([]*models.User, error)

	// AddEarning atomically credits both earning and profit_earned
	AddEarning(ctx context.Context, userID int64, amount float64) error

	// AdjustEarning applies an administrative delta to earning only.
	// Fails rather than driving earning negative.
	AdjustEarning(ctx context.Context, userID int64, delta float64) error

	// DeductEarning debits earning, failing on insufficient balance
	DeductEarning(ctx context.Context, userID int64, amount float64) error

	// ResetProfitEarned zeroes profit_earned ahead of a new mining run
	ResetProfitEarned(ctx context.Context, userID int64) error

	// SetProfitCap sets the per-user profit ceiling; zero removes the cap
	SetProfitCap(ctx context.Context, userID int64, cap float64) error

	// SetEthAddress records the user's provisioned wallet address
	SetEthAddress(ctx context.Context, userID int64, address string) error

	// SetAcceptedTerms flips the terms flag
	SetAcceptedTerms(ctx context.Context, userID int64, accepted bool) error

	// SetCanWithdraw flips the withdrawal eligibility flag
	SetCanWithdraw(ctx context.Context, userID int64, canWithdraw bool) error

	// SetVerified updates the tri-state verification flag
	SetVerified(ctx context.Context, userID int64, v models.Verification) error

	// Delete removes a user and their dependent records
	Delete(ctx context.Context, userID int64) error
}

// TaskRepository defines the interface for running task records
type TaskRepository interface {
	// GetByUserID retrieves a user's task record, nil if absent
	GetByUserID(ctx context.Context, userID int64) (*models.RunningTask, error)

	// Upsert stores or replaces a user's task record
	Upsert(ctx context.Context, task *models.RunningTask) error

	// Delete removes a user's task record; no error when absent
	Delete(ctx context.Context, userID int64) error

	// GetAll returns every task record, used by the boot sweep
	GetAll(ctx context.Context) ([]*models.RunningTask, error)
}

// TransactionRepository defines the interface for the append-only transfer log
type TransactionRepository interface {
	// Create appends a transaction record
	Create(ctx context.Context, txn *models.Transaction) error

	// GetByUser returns a user's most recent transactions
	GetByUser(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// WalletRepository defines the interface for user wallet storage
type WalletRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.Wallet, error)
	Create(ctx context.Context, wallet *models.Wallet) error
	Delete(ctx context.Context, userID int64) error
}

// TeamRepository defines the interface for team profile storage
type TeamRepository interface {
	GetAll(ctx context.Context) ([]*models.Team, error)
	GetByID(ctx context.Context, id int64) (*models.Team, error)
	Create(ctx context.Context, team *models.Team) (*models.Team, error)
	Delete(ctx context.Context, id int64) error
}

// PlanRepository defines the interface for subscription plan storage
type PlanRepository interface {
	GetAll(ctx context.Context) ([]*models.SubscriptionPlan, error)
	GetByID(ctx context.Context, id int64) (*models.SubscriptionPlan, error)
	Create(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	Delete(ctx context.Context, id int64) error
}

// SubscriptionRepository defines the interface for user subscriptions
type SubscriptionRepository interface {
	GetByUserID(ctx context.Context, userID int64) (*models.SubscribedPlan, error)
	Upsert(ctx context.Context, sub *models.SubscribedPlan) error
	Delete(ctx context.Context, userID int64) error
}

// CompanyRepository defines the interface for the company wallet row
type CompanyRepository interface {
	Get(ctx context.Context) (*models.CompanyInfo, error)
	Upsert(ctx context.Context, info *models.CompanyInfo) error
}

// JobStatus reports where a submitted job is in its lifecycle
type JobStatus string

const (
	JobStatusPending JobStatus = "pending"
	JobStatusRunning JobStatus = "running"
	JobStatusAbsent  JobStatus = "absent"
)

// JobFunc is the body of a background job. It must return promptly once the
// supplied context is cancelled.
type JobFunc func(ctx context.Context)

// Scheduler defines the interface for the background work queue
type Scheduler interface {
	// Submit queues a job and returns its opaque handle
	Submit(fn JobFunc) string

	// Cancel requests termination of a job. force requests termination even
	// if the job is already running; cancellation is best-effort either way.
	Cancel(id string, force bool) error

	// Status reports the current state of a job
	Status(id string) JobStatus
}

// Notifier delivers a text message to a user's chat. Failures are logged by
// callers, never treated as fatal.
type Notifier interface {
	Send(userID int64, text string) error
}

// ChainClient defines the interface to the payment collaborator
type ChainClient interface {
	// CreateWallet generates a fresh wallet
	CreateWallet(ctx context.Context) (address, privateKey string, err error)

	// Send submits a transfer and returns the transaction hash
	Send(ctx context.Context, privateKey, toAddress string, amount float64) (string, error)

	// ValidateAddress checks an address for well-formedness
	ValidateAddress(address string) bool
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// MiningService defines the task lifecycle operations
type MiningService interface {
	// Start launches a mining job for the user, or returns the already
	// active task unchanged (idempotent)
	Start(ctx context.Context, userID int64) (*models.RunningTask, error)

	// Stop cancels the user's active task and returns its record.
	// Returns ErrNoActiveTask when nothing is running.
	Stop(ctx context.Context, userID int64) (*models.RunningTask, error)

	// Active returns the user's active task, nil when none
	Active(ctx context.Context, userID int64) (*models.RunningTask, error)

	// SweepStale removes task records whose jobs no longer exist, so a
	// process restart never leaves users unable to start mining
	SweepStale(ctx context.Context) (int, error)
}

// UserService defines user account operations
type UserService interface {
	// Connect retrieves an existing user or creates one with a fresh wallet
	Connect(ctx context.Context, userID int64, name string) (*models.User, error)

	// GetUser retrieves a user, nil if unknown
	GetUser(ctx context.Context, userID int64) (*models.User, error)

	// GetAllUsers lists every registered user
	GetAllUsers(ctx context.Context) ([]*models.User, error)

	// SetTerms records the user's response to the terms of service
	SetTerms(ctx context.Context, userID int64, accepted bool) error

	// AdjustBalance applies an admin credit or debit to a user's earning
	AdjustBalance(ctx context.Context, userID int64, delta float64) error

	// SetProfitCap sets the user's per-run profit ceiling
	SetProfitCap(ctx context.Context, userID int64, cap float64) error

	// SetVerified grants or denies verification
	SetVerified(ctx context.Context, userID int64, v models.Verification) error

	// DeleteUser removes a user and their wallet
	DeleteUser(ctx context.Context, userID int64) error
}

// SubscriptionService defines plan management and subscribing
type SubscriptionService interface {
	ListPlans(ctx context.Context) ([]*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, plan *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, planID int64) error

	// Subscribe pays for the plan from the company wallet and records the
	// subscription with its expiry
	Subscribe(ctx context.Context, userID, planID int64) (*models.SubscribedPlan, error)

	// CanMine reports whether the user holds an unexpired subscription
	CanMine(ctx context.Context, userID int64) (bool, error)
}

// WithdrawService defines withdrawal of mined earnings
type WithdrawService interface {
	// Withdraw sends the requested amount (or the full balance when amount
	// is zero) to the user's wallet, less the platform fee
	Withdraw(ctx context.Context, userID int64, amount float64) (*models.Transaction, error)

	// RefreshEligibility updates the user's can_withdraw flag from their
	// current earning
	RefreshEligibility(ctx context.Context, userID int64) (bool, error)

	// History returns the user's most recent transfers, newest first
	History(ctx context.Context, userID int64, limit int) ([]*models.Transaction, error)
}

// TeamService defines admin management of team profiles
type TeamService interface {
	ListTeams(ctx context.Context) ([]*models.Team, error)
	AddTeam(ctx context.Context, team *models.Team) (*models.Team, error)
	RemoveTeam(ctx context.Context, id int64) error
}

// CompanyService defines company wallet configuration
type CompanyService interface {
	GetCompany(ctx context.Context) (*models.CompanyInfo, error)
	SetCompany(ctx context.Context, info *models.CompanyInfo) error
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	TaskRepository() TaskRepository
	TransactionRepository() TransactionRepository
	WalletRepository() WalletRepository
	TeamRepository() TeamRepository
	PlanRepository() PlanRepository
	SubscriptionRepository() SubscriptionRepository
	CompanyRepository() CompanyRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
