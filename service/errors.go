package service

import (
	"errors"
)

var (
	// ErrNoActiveTask is returned by Stop when the user has nothing running
	ErrNoActiveTask = errors.New("no active mining task")

	// ErrUserNotFound is returned when an operation targets an unknown user
	ErrUserNotFound = errors.New("user not found")

	// ErrTermsNotAccepted gates mining and withdrawal behind the terms flag
	ErrTermsNotAccepted = errors.New("terms of service not accepted")

	// ErrWithdrawBelowMinimum is returned when earnings are under the
	// withdrawal threshold
	ErrWithdrawBelowMinimum = errors.New("earning below withdrawal minimum")

	// ErrInsufficientBalance is returned on debits exceeding earning
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCompanyNotConfigured is returned when a payment flow runs before
	// the company wallet has been set up
	ErrCompanyNotConfigured = errors.New("company wallet not configured")

	// ErrJobNotFound is returned by the scheduler for unknown job handles
	ErrJobNotFound = errors.New("job not found")
)
