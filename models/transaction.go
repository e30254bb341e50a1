package models

import (
	"time"
)

// TransactionStatus represents the outcome of a chain transfer
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusFailed  TransactionStatus = "failed"
)

// Transaction is an append-only record of a transfer made on behalf of a
// user (withdrawal or subscription payment).
type Transaction struct {
	ID        int64             `db:"id"`
	UserID    int64             `db:"user_id"`
	Amount    float64           `db:"amount"`
	Status    TransactionStatus `db:"status"`
	TxHash    string            `db:"tx_hash"`
	CreatedAt time.Time         `db:"created_at"`
}
