package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/wastecoin/internal/domain"
)

type UserRepo struct{ db *gorm.DB }

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.User{}, &domain.Wallet{})
}

// CreateWithWallet persists the user and their custodial wallet as one unit:
// either both rows land or registration fails.
func (r *UserRepo) CreateWithWallet(ctx context.Context, u *domain.User, w *domain.Wallet) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if u.ID == "" {
			u.ID = uuid.NewString()
		}
		if err := tx.Create(u).Error; err != nil {
			return err
		}
		if w.ID == "" {
			w.ID = uuid.NewString()
		}
		w.UserID = u.ID
		return tx.Create(w).Error
	})
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}

// ListByRole returns the public projection only; password hashes and key
// material never leave the repository.
func (r *UserRepo) ListByRole(ctx context.Context, role domain.Role) ([]domain.PublicUser, error) {
	var users []domain.User
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("created_at DESC").
		Find(&users).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.PublicUser, 0, len(users))
	for i := range users {
		out = append(out, users[i].Public())
	}
	return out, nil
}
