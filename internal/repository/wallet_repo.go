package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/greenloop/wastecoin/internal/domain"
)

type WalletRepo struct{ db *gorm.DB }

func NewWalletRepo(db *gorm.DB) *WalletRepo {
	return &WalletRepo{db: db}
}

func (r *WalletRepo) ByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	var w domain.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&w).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &w, nil
}
