package domain

import "time"

type TxType string

const (
	TxMint     TxType = "mint"
	TxTransfer TxType = "transfer"
	TxExchange TxType = "exchange"
)

type TxStatus string

const (
	TxPending   TxStatus = "pending"
	TxConfirmed TxStatus = "confirmed"
	TxFailed    TxStatus = "failed"
)

// Transaction is an append-only ledger entry. Confirmed entries are never
// mutated; a user's balance is an aggregation over them.
type Transaction struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"index"`
	Type             TxType
	Amount           float64
	FromAddress      string
	ToAddress        string
	BlockchainTxHash string
	SubmissionID     string
	Status           TxStatus
	CreatedAt        time.Time
}

// TransactionWithUser is a ledger entry joined with the owning user's public
// identity, shaped for the officer dashboard.
type TransactionWithUser struct {
	ID               string    `json:"id"`
	Type             TxType    `json:"type"`
	Amount           float64   `json:"amount"`
	ToAddress        string    `json:"to_address,omitempty"`
	BlockchainTxHash string    `json:"blockchain_tx_hash"`
	Status           TxStatus  `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UserName         string    `json:"user_name,omitempty"`
	UserEmail        string    `json:"user_email,omitempty"`
	WalletAddress    string    `json:"wallet_address,omitempty"`
}
