package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/greenloop/wastecoin/internal/custody"
	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/pkg/auth"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthSvc struct {
	users   *repository.UserRepo
	wallets *repository.WalletRepo
	vault   *custody.Vault
	tokens  *auth.Manager
}

func NewAuthSvc(users *repository.UserRepo, wallets *repository.WalletRepo, vault *custody.Vault, tokens *auth.Manager) *AuthSvc {
	return &AuthSvc{users: users, wallets: wallets, vault: vault, tokens: tokens}
}

// Register creates the user and their custodial wallet in one unit and returns
// a signed session token. The plaintext private key lives only inside this
// call: generated, encrypted, dropped.
func (s *AuthSvc) Register(ctx context.Context, email, password, name string, role domain.Role) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.Invalid("email and password are required")
	}
	if len(password) < 6 {
		return nil, "", domain.Invalid("password must be at least 6 characters")
	}
	if !emailPattern.MatchString(email) {
		return nil, "", domain.Invalid("invalid email format")
	}
	if role == "" {
		role = domain.RoleUser
	}
	if !role.Valid() {
		return nil, "", domain.Invalid("role must be user or officer")
	}

	if _, err := s.users.ByEmail(ctx, email); err == nil {
		return nil, "", domain.ErrEmailTaken
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	address, privateKey, err := custody.GenerateWallet()
	if err != nil {
		return nil, "", err
	}
	encrypted, iv, err := s.vault.Encrypt(privateKey)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		Name:          name,
		Email:         email,
		PasswordHash:  string(hash),
		Role:          role,
		WalletAddress: address,
	}
	w := &domain.Wallet{
		Address:             address,
		EncryptedPrivateKey: encrypted,
		EncryptionIV:        iv,
		CreatedAt:           time.Now().UTC(),
	}
	if err := s.users.CreateWithWallet(ctx, u, w); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(u.ID, string(u.Role), u.Email, u.WalletAddress)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// Login collapses unknown-email and wrong-password into the same error.
func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.User, string, error) {
	if email == "" || password == "" {
		return nil, "", domain.Invalid("email and password are required")
	}
	u, err := s.users.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return nil, "", domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(u.ID, string(u.Role), u.Email, u.WalletAddress)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}

// ExportKey re-checks the password, then decrypts the stored private key. The
// only place outside transfer signing where plaintext key material surfaces.
func (s *AuthSvc) ExportKey(ctx context.Context, userID, password string) (address, privateKey string, err error) {
	if password == "" {
		return "", "", domain.Invalid("password is required to export private key")
	}
	u, err := s.users.ByID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		return "", "", domain.ErrInvalidCredentials
	}
	w, err := s.wallets.ByUserID(ctx, userID)
	if err != nil {
		return "", "", err
	}
	key, err := s.vault.Decrypt(w.EncryptedPrivateKey, w.EncryptionIV)
	if err != nil {
		return "", "", err
	}
	return w.Address, key, nil
}
