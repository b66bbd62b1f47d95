package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/greenloop/wastecoin/internal/domain"
)

type WasteRepo struct{ db *gorm.DB }

func NewWasteRepo(db *gorm.DB) *WasteRepo {
	return &WasteRepo{db: db}
}

func (r *WasteRepo) Migrate() error {
	return r.db.AutoMigrate(&domain.WasteSubmission{})
}

func (r *WasteRepo) Create(ctx context.Context, s *domain.WasteSubmission) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *WasteRepo) ByID(ctx context.Context, id string) (*domain.WasteSubmission, error) {
	var s domain.WasteSubmission
	if err := r.db.WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Pending lists the review queue joined with each submitter's public identity,
// newest first.
func (r *WasteRepo) Pending(ctx context.Context) ([]domain.PendingSubmission, error) {
	var out []domain.PendingSubmission
	err := r.db.WithContext(ctx).
		Table("waste_submissions").
		Select(`waste_submissions.id, waste_submissions.waste_type, waste_submissions.weight_kg,
			waste_submissions.description, waste_submissions.image_url, waste_submissions.created_at,
			users.email AS user_email, users.wallet_address`).
		Joins("JOIN users ON users.id = waste_submissions.user_id").
		Where("waste_submissions.status = ?", domain.SubmissionPending).
		Order("waste_submissions.created_at DESC").
		Scan(&out).Error
	return out, err
}

// DecideOnce flips a pending submission to its terminal state. The status
// guard in the WHERE clause makes the transition single-winner under
// concurrent attempts: exactly one caller sees decided=true.
func (r *WasteRepo) DecideOnce(ctx context.Context, id string, d domain.Decision) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.WasteSubmission{}).
		Where("id = ? AND status = ?", id, domain.SubmissionPending).
		Updates(map[string]any{
			"status":             d.Status,
			"coin_amount":        d.CoinAmount,
			"reviewed_by":        d.ReviewedBy,
			"reviewed_at":        d.ReviewedAt,
			"blockchain_tx_hash": d.TxHash,
			"updated_at":         time.Now().UTC(),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}
