package service

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/greenloop/wastecoin/internal/chain"
	"github.com/greenloop/wastecoin/internal/custody"
	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/pkg/mq"
)

type ChainMeta struct {
	Symbol  string
	Network string
	ChainID int64
}

type WalletSvc struct {
	wallets *repository.WalletRepo
	txs     *repository.TransactionRepo
	vault   *custody.Vault
	gw      chain.Gateway
	pub     *mq.Publisher
	meta    ChainMeta
}

func NewWalletSvc(wallets *repository.WalletRepo, txs *repository.TransactionRepo, vault *custody.Vault, gw chain.Gateway, pub *mq.Publisher, meta ChainMeta) *WalletSvc {
	return &WalletSvc{wallets: wallets, txs: txs, vault: vault, gw: gw, pub: pub, meta: meta}
}

type BalanceView struct {
	WalletAddress string  `json:"walletAddress"`
	Balance       float64 `json:"balance"`
	Symbol        string  `json:"symbol"`
}

// Balance is the ledger aggregation over confirmed transactions; it holds
// whether or not a real chain backs the gateway.
func (s *WalletSvc) Balance(ctx context.Context, userID, walletAddress string) (*BalanceView, error) {
	sum, err := s.txs.ConfirmedBalance(ctx, userID, walletAddress)
	if err != nil {
		return nil, err
	}
	return &BalanceView{WalletAddress: walletAddress, Balance: sum, Symbol: s.meta.Symbol}, nil
}

type WalletInfo struct {
	WalletAddress      string     `json:"walletAddress"`
	ChainBalance       string     `json:"chainBalance"`
	Symbol             string     `json:"symbol"`
	Network            string     `json:"network"`
	ChainID            int64      `json:"chainId"`
	Custodial          bool       `json:"custodial"`
	KeyStoredEncrypted bool       `json:"keyStoredEncrypted"`
	CreatedAt          *time.Time `json:"createdAt,omitempty"`
}

func (s *WalletSvc) Info(ctx context.Context, userID, walletAddress string) (*WalletInfo, error) {
	info := &WalletInfo{
		WalletAddress: walletAddress,
		ChainBalance:  "0",
		Symbol:        s.meta.Symbol,
		Network:       s.meta.Network,
		ChainID:       s.meta.ChainID,
		Custodial:     true,
	}
	// contract may not be reachable or deployed; the info view degrades to 0
	if bal, err := s.gw.Balance(ctx, walletAddress); err == nil {
		info.ChainBalance = bal
	}
	if w, err := s.wallets.ByUserID(ctx, userID); err == nil {
		info.KeyStoredEncrypted = w.EncryptedPrivateKey != ""
		info.CreatedAt = &w.CreatedAt
	}
	return info, nil
}

type TransferResult struct {
	TxHash string  `json:"txHash"`
	From   string  `json:"from"`
	To     string  `json:"to"`
	Amount float64 `json:"amount"`
	Symbol string  `json:"symbol"`
}

// Transfer decrypts the caller's custodial key, signs the chain transfer with
// it and appends the ledger entry. The plaintext key is discarded as soon as
// the gateway call returns.
func (s *WalletSvc) Transfer(ctx context.Context, userID, toAddress string, amount float64) (*TransferResult, error) {
	if toAddress == "" || amount == 0 {
		return nil, domain.Invalid("to_address and amount are required")
	}
	if !common.IsHexAddress(toAddress) {
		return nil, domain.ErrInvalidAddress
	}
	if amount <= 0 {
		return nil, domain.Invalid("amount must be a positive number")
	}

	w, err := s.wallets.ByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	key, err := s.vault.Decrypt(w.EncryptedPrivateKey, w.EncryptionIV)
	if err != nil {
		return nil, err
	}
	receipt, err := s.gw.Transfer(ctx, key, toAddress, amount)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		UserID:           userID,
		Type:             domain.TxTransfer,
		Amount:           amount,
		FromAddress:      w.Address,
		ToAddress:        toAddress,
		BlockchainTxHash: receipt.TxHash,
		Status:           domain.TxConfirmed,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "coins.transferred", map[string]any{
		"user_id": userID, "from": w.Address, "to": toAddress,
		"amount": amount, "tx_hash": receipt.TxHash,
	})
	return &TransferResult{
		TxHash: receipt.TxHash,
		From:   w.Address,
		To:     toAddress,
		Amount: amount,
		Symbol: s.meta.Symbol,
	}, nil
}

func (s *WalletSvc) History(ctx context.Context, userID string) ([]domain.Transaction, error) {
	return s.txs.ByUserID(ctx, userID, 50)
}
