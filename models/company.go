package models

// CompanyInfo holds the platform's deposit wallet configuration.
// A single row; subscription payments are made from this wallet.
type CompanyInfo struct {
	DepositWallet string  `db:"deposit_wallet"`
	PrivateKey    string  `db:"private_key"`
	PassPhrase    *string `db:"pass_phrase"`
	Network       string  `db:"network"`
}
