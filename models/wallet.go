package models

// Wallet is the chain wallet provisioned for a user on connect
type Wallet struct {
	UserID     int64   `db:"user_id"`
	Address    string  `db:"address"`
	PrivateKey string  `db:"private_key"`
	PassPhrase *string `db:"pass_phrase"`
}
