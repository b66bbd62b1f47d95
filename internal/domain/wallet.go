package domain

import "time"

// Wallet holds the custodial key material for one user. The private key is
// stored encrypted only; the address is fixed at generation time and never
// re-derived from the stored ciphertext.
type Wallet struct {
	ID                  string `gorm:"primaryKey"`
	UserID              string `gorm:"uniqueIndex"`
	Address             string
	EncryptedPrivateKey string
	EncryptionIV        string
	CreatedAt           time.Time
}
