package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyProcessed   = errors.New("submission already processed")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWalletNotFound     = errors.New("wallet not found")
	ErrDecryption         = errors.New("failed to decrypt key material")
	ErrInvalidAddress     = errors.New("invalid destination address")
	ErrInsufficientFunds  = errors.New("insufficient token balance or gas")
	ErrChainUnavailable   = errors.New("blockchain network unavailable")
)

// ValidationError carries a caller-facing message for malformed input.
// Boundary code rejects these before any persistence or chain call.
type ValidationError struct {
	Msg string
}

func (e ValidationError) Error() string { return e.Msg }

func Invalid(msg string) error { return ValidationError{Msg: msg} }

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}
