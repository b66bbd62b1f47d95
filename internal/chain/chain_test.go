package chain

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/greenloop/wastecoin/internal/domain"
)

const goodAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

func TestPseudoHash(t *testing.T) {
	h1 := PseudoHash()
	h2 := PseudoHash()
	if !strings.HasPrefix(h1, "DB-") {
		t.Fatalf("unexpected hash shape %q", h1)
	}
	if h1 == h2 {
		t.Fatal("pseudo hashes collided")
	}
}

func TestLedgerGatewayMint(t *testing.T) {
	g := NewLedgerGateway()
	r, err := g.Mint(context.Background(), goodAddress, 50, "reward")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(r.TxHash, "DB-") {
		t.Fatalf("unexpected receipt hash %q", r.TxHash)
	}
}

func TestLedgerGatewayRejectsBadAddress(t *testing.T) {
	g := NewLedgerGateway()
	if _, err := g.Mint(context.Background(), "not-an-address", 1, ""); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("mint: got %v", err)
	}
	if _, err := g.Transfer(context.Background(), "0xkey", "0x123", 1); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("transfer: got %v", err)
	}
}

func TestBaseUnitConversion(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{1, "1000000000000000000"},
		{1.5, "1500000000000000000"},
		{0.000000000000000001, "1"},
		{50, "50000000000000000000"},
	}
	for _, c := range cases {
		if got := ToBaseUnit(c.amount).String(); got != c.want {
			t.Errorf("ToBaseUnit(%v) = %s, want %s", c.amount, got, c.want)
		}
	}

	v, _ := new(big.Int).SetString("1500000000000000000", 10)
	if got := FromBaseUnit(v); got != "1.5" {
		t.Errorf("FromBaseUnit = %s, want 1.5", got)
	}
}

func TestClassify(t *testing.T) {
	if got := classify(context.DeadlineExceeded); !errors.Is(got, domain.ErrChainUnavailable) {
		t.Errorf("deadline: got %v", got)
	}
	if got := classify(errors.New("insufficient funds for gas * price + value")); !errors.Is(got, domain.ErrInsufficientFunds) {
		t.Errorf("funds: got %v", got)
	}
	other := errors.New("execution reverted")
	if got := classify(other); got != other {
		t.Errorf("passthrough: got %v", got)
	}
}
