package domain

import "time"

type WasteType string

const (
	WastePlastic    WasteType = "plastic"
	WastePaper      WasteType = "paper"
	WasteMetal      WasteType = "metal"
	WasteGlass      WasteType = "glass"
	WasteOrganic    WasteType = "organic"
	WasteElectronic WasteType = "electronic"
)

func (t WasteType) Valid() bool {
	switch t {
	case WastePlastic, WastePaper, WasteMetal, WasteGlass, WasteOrganic, WasteElectronic:
		return true
	}
	return false
}

type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

type WasteSubmission struct {
	ID               string `gorm:"primaryKey"`
	UserID           string `gorm:"index"`
	WasteType        WasteType
	WeightKg         float64
	Description      string
	ImageURL         string
	Status           SubmissionStatus
	CoinAmount       float64
	ReviewedBy       string
	ReviewedAt       *time.Time
	BlockchainTxHash string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (s *WasteSubmission) Decided() bool {
	return s.Status != SubmissionPending
}

// Decision is the complete review outcome written in a single transition.
// Review metadata can only reach storage through a Decision, so a decided
// submission always carries its reviewer and timestamp.
type Decision struct {
	Status     SubmissionStatus
	CoinAmount float64
	ReviewedBy string
	ReviewedAt time.Time
	TxHash     string
}

func Approval(coin float64, reviewer, txHash string) Decision {
	return Decision{
		Status:     SubmissionApproved,
		CoinAmount: coin,
		ReviewedBy: reviewer,
		ReviewedAt: time.Now().UTC(),
		TxHash:     txHash,
	}
}

func Rejection(reviewer string) Decision {
	return Decision{
		Status:     SubmissionRejected,
		ReviewedBy: reviewer,
		ReviewedAt: time.Now().UTC(),
	}
}

// PendingSubmission is a pending record joined with the submitter's public
// identity, shaped for the officer review queue.
type PendingSubmission struct {
	ID            string    `json:"id"`
	WasteType     WasteType `json:"waste_type"`
	WeightKg      float64   `json:"weight_kg"`
	Description   string    `json:"description,omitempty"`
	ImageURL      string    `json:"image_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UserEmail     string    `json:"user_email"`
	WalletAddress string    `json:"wallet_address"`
}
