package model

import "time"

// TransactionStatus is the confirmation state of a recent transaction.
type TransactionStatus string

const (
	TransactionStatusConfirmed TransactionStatus = "confirmed"
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// TransactionInfo is one entry of the recent-transaction history.
type TransactionInfo struct {
	Signature string            `json:"signature"`
	Slot      uint64            `json:"slot"`
	Timestamp time.Time         `json:"timestamp"`
	Status    TransactionStatus `json:"status"`
}

// TokenBalance is one SPL token holding of an account.
type TokenBalance struct {
	Mint     string `json:"mint"`
	Amount   string `json:"amount"` // UI units, decimal string
	Decimals int    `json:"decimals"`
}
