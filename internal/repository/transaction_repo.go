package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/wastecoin/internal/domain"
)

type TransactionRepo struct{ db *gorm.DB }

func NewTransactionRepo(db *gorm.DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.Transaction{})
}

// Create appends to the ledger. There is deliberately no update method.
func (r *TransactionRepo) Create(ctx context.Context, t *domain.Transaction) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepo) ByUserID(ctx context.Context, userID string, limit int) ([]domain.Transaction, error) {
	var out []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ConfirmedBalance sums confirmed entries for one user. Outgoing transfers
// (the user's own wallet as from_address) count negative; mints and inbound
// entries count positive.
func (r *TransactionRepo) ConfirmedBalance(ctx context.Context, userID, walletAddress string) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("COALESCE(SUM(CASE WHEN type = ? AND from_address = ? THEN -amount ELSE amount END), 0)",
			domain.TxTransfer, walletAddress).
		Where("user_id = ? AND status = ?", userID, domain.TxConfirmed).
		Scan(&total).Error
	return total, err
}

// TotalDistributed sums every confirmed credit in the ledger.
func (r *TransactionRepo) TotalDistributed(ctx context.Context) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).
		Model(&domain.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("status = ?", domain.TxConfirmed).
		Scan(&total).Error
	return total, err
}

// Recent returns the newest entries across all users joined with the owner's
// public identity, for the officer dashboard.
func (r *TransactionRepo) Recent(ctx context.Context, limit int) ([]domain.TransactionWithUser, error) {
	var out []domain.TransactionWithUser
	err := r.db.WithContext(ctx).
		Table("transactions").
		Select(`transactions.id, transactions.type, transactions.amount, transactions.to_address,
			transactions.blockchain_tx_hash, transactions.status, transactions.created_at,
			users.name AS user_name, users.email AS user_email, users.wallet_address`).
		Joins("LEFT JOIN users ON users.id = transactions.user_id").
		Order("transactions.created_at DESC").
		Limit(limit).
		Scan(&out).Error
	return out, err
}
