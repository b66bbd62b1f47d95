package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/greenloop/wastecoin/internal/chain"
	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/pkg/mq"
)

type WasteSvc struct {
	subs  *repository.WasteRepo
	users *repository.UserRepo
	txs   *repository.TransactionRepo
	gw    chain.Gateway
	pub   *mq.Publisher
}

func NewWasteSvc(subs *repository.WasteRepo, users *repository.UserRepo, txs *repository.TransactionRepo, gw chain.Gateway, pub *mq.Publisher) *WasteSvc {
	return &WasteSvc{subs: subs, users: users, txs: txs, gw: gw, pub: pub}
}

func (s *WasteSvc) Submit(ctx context.Context, userID string, wasteType domain.WasteType, weightKg float64, description, imageURL string) (*domain.WasteSubmission, error) {
	if wasteType == "" || weightKg == 0 {
		return nil, domain.Invalid("waste type and weight are required")
	}
	if !wasteType.Valid() {
		return nil, domain.Invalid("unknown waste type")
	}
	if weightKg <= 0 {
		return nil, domain.Invalid("weight must be greater than 0")
	}

	now := time.Now().UTC()
	sub := &domain.WasteSubmission{
		UserID:      userID,
		WasteType:   wasteType,
		WeightKg:    weightKg,
		Description: description,
		ImageURL:    imageURL,
		Status:      domain.SubmissionPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.subs.Create(ctx, sub); err != nil {
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "waste.submitted", map[string]any{
		"submission_id": sub.ID, "user_id": userID,
		"waste_type": wasteType, "weight_kg": weightKg,
	})
	return sub, nil
}

func (s *WasteSvc) Pending(ctx context.Context) ([]domain.PendingSubmission, error) {
	return s.subs.Pending(ctx)
}

// Approve runs the reward workflow: validate, mint, flip the submission to its
// terminal state, append the ledger entry. Minting happens before the status
// flip, so an approved submission always has a corresponding credit attempt.
// If the flip or the ledger write fails after a successful mint, the gap is
// logged and surfaced; reconciliation is manual.
func (s *WasteSvc) Approve(ctx context.Context, reviewerID, submissionID string, coinAmount float64) (*chain.Receipt, error) {
	if submissionID == "" || coinAmount == 0 {
		return nil, domain.Invalid("submission_id and coin_amount are required")
	}
	if coinAmount <= 0 {
		return nil, domain.Invalid("coin amount must be greater than 0")
	}

	sub, err := s.subs.ByID(ctx, submissionID)
	if err != nil {
		return nil, err
	}
	if sub.Decided() {
		return nil, domain.ErrAlreadyProcessed
	}
	submitter, err := s.users.ByID(ctx, sub.UserID)
	if err != nil {
		return nil, err
	}

	receipt, err := s.gw.Mint(ctx, submitter.WalletAddress, coinAmount, fmt.Sprintf("waste submission %s", submissionID))
	if err != nil {
		return nil, err
	}

	decided, err := s.subs.DecideOnce(ctx, submissionID, domain.Approval(coinAmount, reviewerID, receipt.TxHash))
	if err != nil {
		log.Printf("[waste] minted %s for submission %s but status update failed: %v", receipt.TxHash, submissionID, err)
		return nil, err
	}
	if !decided {
		// a concurrent decision won between our pending check and the update
		log.Printf("[waste] minted %s for already-decided submission %s", receipt.TxHash, submissionID)
		return nil, domain.ErrAlreadyProcessed
	}

	tx := &domain.Transaction{
		UserID:           sub.UserID,
		Type:             domain.TxMint,
		Amount:           coinAmount,
		ToAddress:        submitter.WalletAddress,
		BlockchainTxHash: receipt.TxHash,
		SubmissionID:     submissionID,
		Status:           domain.TxConfirmed,
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.txs.Create(ctx, tx); err != nil {
		log.Printf("[waste] minted %s for submission %s but ledger write failed: %v", receipt.TxHash, submissionID, err)
		return nil, err
	}

	_ = s.pub.PublishJSON(ctx, "waste.approved", map[string]any{
		"submission_id": submissionID, "user_id": sub.UserID,
		"coin_amount": coinAmount, "reviewed_by": reviewerID,
	})
	_ = s.pub.PublishJSON(ctx, "coins.minted", map[string]any{
		"user_id": sub.UserID, "to": submitter.WalletAddress,
		"amount": coinAmount, "tx_hash": receipt.TxHash,
	})
	return receipt, nil
}

func (s *WasteSvc) Reject(ctx context.Context, reviewerID, submissionID string) error {
	if submissionID == "" {
		return domain.Invalid("submission_id is required")
	}
	sub, err := s.subs.ByID(ctx, submissionID)
	if err != nil {
		return err
	}
	if sub.Decided() {
		return domain.ErrAlreadyProcessed
	}
	decided, err := s.subs.DecideOnce(ctx, submissionID, domain.Rejection(reviewerID))
	if err != nil {
		return err
	}
	if !decided {
		return domain.ErrAlreadyProcessed
	}
	_ = s.pub.PublishJSON(ctx, "waste.rejected", map[string]any{
		"submission_id": submissionID, "user_id": sub.UserID, "reviewed_by": reviewerID,
	})
	return nil
}
