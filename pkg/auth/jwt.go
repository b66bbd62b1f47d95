package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
)

type Claims struct {
	Sub    string `json:"sub"`
	Role   string `json:"role"`
	Email  string `json:"email"`
	Wallet string `json:"wallet_address"`
	jwt.RegisteredClaims
}

// Manager signs and validates bearer tokens. The secret and TTL are injected
// at construction so tests can run with distinct secrets.
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(secret string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), ttl: ttl}
}

func (m *Manager) Issue(sub, role, email, wallet string) (string, error) {
	claims := Claims{Sub: sub, Role: role, Email: email, Wallet: wallet, RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.ttl))}}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

func (m *Manager) ParseValidate(tokenStr string) (*Claims, error) {
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, errors.New("invalid token")
	}
	return c, nil
}

// Allowed is the role-gating predicate evaluated before handler dispatch.
func Allowed(role string, want ...string) bool {
	for _, w := range want {
		if role == w {
			return true
		}
	}
	return false
}
