package chain

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/greenloop/wastecoin/internal/domain"
)

// LedgerGateway is the offline deployment mode: credits exist only in the
// transaction ledger. Receipts carry fabricated hashes so downstream records
// keep the same shape as chain-backed ones.
type LedgerGateway struct{}

func NewLedgerGateway() *LedgerGateway { return &LedgerGateway{} }

func (g *LedgerGateway) Balance(ctx context.Context, address string) (string, error) {
	return "0", nil
}

func (g *LedgerGateway) Mint(ctx context.Context, to string, amount float64, reason string) (*Receipt, error) {
	if !common.IsHexAddress(to) {
		return nil, domain.ErrInvalidAddress
	}
	return &Receipt{TxHash: PseudoHash()}, nil
}

func (g *LedgerGateway) Transfer(ctx context.Context, signerKey, to string, amount float64) (*Receipt, error) {
	if !common.IsHexAddress(to) {
		return nil, domain.ErrInvalidAddress
	}
	return &Receipt{TxHash: PseudoHash()}, nil
}
