package chain

import (
	"context"
	"fmt"
	"math/rand"
	"time"
)

type Receipt struct {
	TxHash string
}

// Gateway abstracts the token contract on the remote network. The ledger-only
// implementation never touches a chain; balances computed from the transaction
// ledger are correct under either implementation.
type Gateway interface {
	Balance(ctx context.Context, address string) (string, error)
	Mint(ctx context.Context, to string, amount float64, reason string) (*Receipt, error)
	Transfer(ctx context.Context, signerKey, to string, amount float64) (*Receipt, error)
}

// PseudoHash fabricates a ledger-internal transaction hash for credits that
// never reach a chain.
func PseudoHash() string {
	return fmt.Sprintf("DB-%d-%s", time.Now().UnixMilli(), randSuffix(9))
}

const base36 = "0123456789abcdefghijklmnopqrstuvwxyz"

func randSuffix(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = base36[rand.Intn(len(base36))]
	}
	return string(b)
}
