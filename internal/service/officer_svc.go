package service

import (
	"context"
	"time"

	"github.com/greenloop/wastecoin/internal/chain"
	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/pkg/mq"
)

type OfficerSvc struct {
	users *repository.UserRepo
	txs   *repository.TransactionRepo
	pub   *mq.Publisher
}

func NewOfficerSvc(users *repository.UserRepo, txs *repository.TransactionRepo, pub *mq.Publisher) *OfficerSvc {
	return &OfficerSvc{users: users, txs: txs, pub: pub}
}

type CreditResult struct {
	TransactionID string  `json:"id"`
	Amount        float64 `json:"amount"`
	UserEmail     string  `json:"user"`
	WalletAddress string  `json:"walletAddress"`
}

// AddCoins credits a user directly in the ledger without touching the chain.
// The entry carries a fabricated hash so it stays distinguishable from
// chain-backed mints.
func (s *OfficerSvc) AddCoins(ctx context.Context, userID string, amount float64) (*CreditResult, error) {
	if userID == "" || amount == 0 {
		return nil, domain.Invalid("user_id and amount are required")
	}
	if amount <= 0 {
		return nil, domain.Invalid("amount must be greater than 0")
	}
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	tx := &domain.Transaction{
		UserID:           u.ID,
		Type:             domain.TxMint,
		Amount:           amount,
		ToAddress:        u.WalletAddress,
		BlockchainTxHash: chain.PseudoHash(),
		Status:           domain.TxConfirmed,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "coins.minted", map[string]any{
		"user_id": u.ID, "to": u.WalletAddress, "amount": amount, "tx_hash": tx.BlockchainTxHash,
	})
	return &CreditResult{
		TransactionID: tx.ID,
		Amount:        amount,
		UserEmail:     u.Email,
		WalletAddress: u.WalletAddress,
	}, nil
}

func (s *OfficerSvc) Roster(ctx context.Context) ([]domain.PublicUser, error) {
	return s.users.ListByRole(ctx, domain.RoleUser)
}

type Dashboard struct {
	Transactions     []domain.TransactionWithUser `json:"transactions"`
	Count            int                          `json:"count"`
	TotalDistributed float64                      `json:"totalDistributed"`
}

func (s *OfficerSvc) RecentActivity(ctx context.Context) (*Dashboard, error) {
	recent, err := s.txs.Recent(ctx, 20)
	if err != nil {
		return nil, err
	}
	total, err := s.txs.TotalDistributed(ctx)
	if err != nil {
		return nil, err
	}
	return &Dashboard{Transactions: recent, Count: len(recent), TotalDistributed: total}, nil
}
