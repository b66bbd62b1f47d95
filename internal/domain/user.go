package domain

import "time"

type Role string

const (
	RoleUser    Role = "user"
	RoleOfficer Role = "officer"
)

func (r Role) Valid() bool {
	return r == RoleUser || r == RoleOfficer
}

type User struct {
	ID            string `gorm:"primaryKey"`
	Name          string
	Email         string `gorm:"uniqueIndex"`
	PasswordHash  string
	Role          Role
	WalletAddress string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// PublicUser is the projection exposed to other users and officer views.
// It never carries the password hash or any key material.
type PublicUser struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	WalletAddress string    `json:"walletAddress"`
	CreatedAt     time.Time `json:"createdAt"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		WalletAddress: u.WalletAddress,
		CreatedAt:     u.CreatedAt,
	}
}
