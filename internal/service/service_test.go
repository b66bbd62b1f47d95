package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"

	"github.com/greenloop/wastecoin/internal/chain"
	"github.com/greenloop/wastecoin/internal/custody"
	"github.com/greenloop/wastecoin/internal/domain"
	"github.com/greenloop/wastecoin/internal/repository"
	"github.com/greenloop/wastecoin/pkg/auth"
)

const destAddress = "0x8ba1f109551bD432803012645Ac136ddd64DBA72"

var addressShape = regexp.MustCompile(`^0x[0-9a-fA-F]{40}$`)

// stubGateway records mint calls; optionally fails them.
type stubGateway struct {
	mints    int
	failMint error
}

func (g *stubGateway) Balance(ctx context.Context, address string) (string, error) {
	return "0", nil
}

func (g *stubGateway) Mint(ctx context.Context, to string, amount float64, reason string) (*chain.Receipt, error) {
	if g.failMint != nil {
		return nil, g.failMint
	}
	g.mints++
	return &chain.Receipt{TxHash: chain.PseudoHash()}, nil
}

func (g *stubGateway) Transfer(ctx context.Context, signerKey, to string, amount float64) (*chain.Receipt, error) {
	return &chain.Receipt{TxHash: chain.PseudoHash()}, nil
}

type fixture struct {
	auth    *AuthSvc
	wallet  *WalletSvc
	waste   *WasteSvc
	officer *OfficerSvc
	txs     *repository.TransactionRepo
	wastes  *repository.WasteRepo
	gw      *stubGateway
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dsn := fmt.Sprintf("file:svc_%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	users := repository.NewUserRepo(gdb)
	wallets := repository.NewWalletRepo(gdb)
	wastes := repository.NewWasteRepo(gdb)
	txs := repository.NewTransactionRepo(gdb)
	for _, m := range []interface{ Migrate() error }{users, wastes, txs} {
		if err := m.Migrate(); err != nil {
			t.Fatal(err)
		}
	}

	vault := custody.NewVault("test-secret")
	tokens := auth.NewManager("test-jwt-secret", time.Hour)
	gw := &stubGateway{}
	meta := ChainMeta{Symbol: "WST", Network: "sepolia", ChainID: 11155111}
	return &fixture{
		auth:    NewAuthSvc(users, wallets, vault, tokens),
		wallet:  NewWalletSvc(wallets, txs, vault, gw, nil, meta),
		waste:   NewWasteSvc(wastes, users, txs, gw, nil),
		officer: NewOfficerSvc(users, txs, nil),
		txs:     txs,
		wastes:  wastes,
		gw:      gw,
	}
}

func TestRegisterThenLogin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, token, err := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" {
		t.Fatal("no token issued")
	}
	if !addressShape.MatchString(u.WalletAddress) {
		t.Fatalf("bad wallet address %q", u.WalletAddress)
	}
	if u.Role != domain.RoleUser {
		t.Fatalf("default role = %q", u.Role)
	}

	u2, token2, err := f.auth.Login(ctx, "alice@example.com", "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if token2 == "" {
		t.Fatal("no token on login")
	}
	if u2.WalletAddress != u.WalletAddress {
		t.Fatal("wallet address changed between register and login")
	}
}

func TestRegisterValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		email, password string
	}{
		{"", "secret1"},
		{"alice@example.com", ""},
		{"alice@example.com", "short"},
		{"not-an-email", "secret1"},
		{"no spaces@x.co", "secret1"},
	}
	for _, c := range cases {
		if _, _, err := f.auth.Register(ctx, c.email, c.password, "", ""); !domain.IsValidation(err) {
			t.Errorf("Register(%q, %q): got %v, want validation error", c.email, c.password, err)
		}
	}

	if _, _, err := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", ""); err != nil {
		t.Fatal(err)
	}
	if _, _, err := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", ""); !errors.Is(err, domain.ErrEmailTaken) {
		t.Fatalf("duplicate email: got %v", err)
	}
}

func TestLoginCollapsesUnknownAndWrongPassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, _, err := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", ""); err != nil {
		t.Fatal(err)
	}

	_, _, errUnknown := f.auth.Login(ctx, "nobody@example.com", "secret1")
	_, _, errWrong := f.auth.Login(ctx, "alice@example.com", "wrong-password")
	if !errors.Is(errUnknown, domain.ErrInvalidCredentials) || !errors.Is(errWrong, domain.ErrInvalidCredentials) {
		t.Fatalf("got %v / %v, want identical invalid-credentials", errUnknown, errWrong)
	}
}

func TestApproveWorkflow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, err := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	if err != nil {
		t.Fatal(err)
	}
	officer, _, err := f.auth.Register(ctx, "officer@example.com", "secret2", "Bob", domain.RoleOfficer)
	if err != nil {
		t.Fatal(err)
	}

	sub, err := f.waste.Submit(ctx, alice.ID, domain.WastePlastic, 2.5, "bottles", "")
	if err != nil {
		t.Fatal(err)
	}

	receipt, err := f.waste.Approve(ctx, officer.ID, sub.ID, 50)
	if err != nil {
		t.Fatal(err)
	}
	if receipt.TxHash == "" {
		t.Fatal("no receipt hash")
	}

	got, err := f.wastes.ByID(ctx, sub.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != domain.SubmissionApproved || got.ReviewedBy != officer.ID || got.BlockchainTxHash != receipt.TxHash {
		t.Fatalf("submission not decided correctly: %+v", got)
	}

	history, err := f.wallet.History(ctx, alice.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || history[0].Type != domain.TxMint || history[0].Amount != 50 || history[0].SubmissionID != sub.ID {
		t.Fatalf("mint entry wrong: %+v", history)
	}

	bal, err := f.wallet.Balance(ctx, alice.ID, alice.WalletAddress)
	if err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 50 {
		t.Fatalf("balance = %v, want 50", bal.Balance)
	}
}

func TestApproveTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	officer, _, _ := f.auth.Register(ctx, "officer@example.com", "secret2", "Bob", domain.RoleOfficer)
	sub, err := f.waste.Submit(ctx, alice.ID, domain.WastePaper, 1, "", "")
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.waste.Approve(ctx, officer.ID, sub.ID, 50); err != nil {
		t.Fatal(err)
	}
	if _, err := f.waste.Approve(ctx, officer.ID, sub.ID, 50); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("second approve: got %v", err)
	}
	if err := f.waste.Reject(ctx, officer.ID, sub.ID); !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("reject after approve: got %v", err)
	}

	// exactly one mint and one ledger entry despite the repeats
	if f.gw.mints != 1 {
		t.Fatalf("mint calls = %d, want 1", f.gw.mints)
	}
	history, _ := f.wallet.History(ctx, alice.ID)
	if len(history) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(history))
	}
	bal, _ := f.wallet.Balance(ctx, alice.ID, alice.WalletAddress)
	if bal.Balance != 50 {
		t.Fatalf("balance = %v, want 50", bal.Balance)
	}
}

func TestApproveValidatesBeforeSideEffects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	officer, _, _ := f.auth.Register(ctx, "officer@example.com", "secret2", "Bob", domain.RoleOfficer)
	sub, _ := f.waste.Submit(ctx, alice.ID, domain.WasteMetal, 1, "", "")

	if _, err := f.waste.Approve(ctx, officer.ID, sub.ID, 0); !domain.IsValidation(err) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := f.waste.Approve(ctx, officer.ID, sub.ID, -5); !domain.IsValidation(err) {
		t.Fatalf("negative amount: got %v", err)
	}
	if _, err := f.waste.Approve(ctx, officer.ID, "missing-id", 50); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing submission: got %v", err)
	}
	if f.gw.mints != 0 {
		t.Fatalf("mint called %d times before validation passed", f.gw.mints)
	}

	got, _ := f.wastes.ByID(ctx, sub.ID)
	if got.Decided() {
		t.Fatal("submission decided by failed approvals")
	}
}

func TestMintFailureLeavesSubmissionPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	officer, _, _ := f.auth.Register(ctx, "officer@example.com", "secret2", "Bob", domain.RoleOfficer)
	sub, _ := f.waste.Submit(ctx, alice.ID, domain.WasteOrganic, 3, "", "")

	f.gw.failMint = domain.ErrChainUnavailable
	if _, err := f.waste.Approve(ctx, officer.ID, sub.ID, 50); !errors.Is(err, domain.ErrChainUnavailable) {
		t.Fatalf("got %v", err)
	}

	got, _ := f.wastes.ByID(ctx, sub.ID)
	if got.Decided() {
		t.Fatal("submission decided despite mint failure")
	}
	history, _ := f.wallet.History(ctx, alice.ID)
	if len(history) != 0 {
		t.Fatal("ledger entry written despite mint failure")
	}
}

func TestSubmitValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")

	if _, err := f.waste.Submit(ctx, alice.ID, domain.WastePlastic, 0, "", ""); !domain.IsValidation(err) {
		t.Fatalf("zero weight: got %v", err)
	}
	if _, err := f.waste.Submit(ctx, alice.ID, domain.WastePlastic, -1, "", ""); !domain.IsValidation(err) {
		t.Fatalf("negative weight: got %v", err)
	}
	if _, err := f.waste.Submit(ctx, alice.ID, "uranium", 1, "", ""); !domain.IsValidation(err) {
		t.Fatalf("unknown type: got %v", err)
	}

	pending, _ := f.waste.Pending(ctx)
	if len(pending) != 0 {
		t.Fatal("invalid submissions persisted")
	}
}

func TestBalanceInvariantAfterMintAndTransfer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	if _, err := f.officer.AddCoins(ctx, alice.ID, 50); err != nil {
		t.Fatal(err)
	}

	res, err := f.wallet.Transfer(ctx, alice.ID, destAddress, 20)
	if err != nil {
		t.Fatal(err)
	}
	if res.From != alice.WalletAddress || res.To != destAddress || res.Amount != 20 {
		t.Fatalf("transfer result wrong: %+v", res)
	}

	bal, err := f.wallet.Balance(ctx, alice.ID, alice.WalletAddress)
	if err != nil {
		t.Fatal(err)
	}
	if bal.Balance != 30 {
		t.Fatalf("balance = %v, want 30", bal.Balance)
	}
}

func TestTransferValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")

	if _, err := f.wallet.Transfer(ctx, alice.ID, "not-an-address", 5); !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("bad address: got %v", err)
	}
	if _, err := f.wallet.Transfer(ctx, alice.ID, destAddress, -5); !domain.IsValidation(err) {
		t.Fatalf("negative amount: got %v", err)
	}
	history, _ := f.wallet.History(ctx, alice.ID)
	if len(history) != 0 {
		t.Fatal("invalid transfers recorded")
	}
}

func TestAddCoinsValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")

	if _, err := f.officer.AddCoins(ctx, alice.ID, 0); !domain.IsValidation(err) {
		t.Fatalf("zero amount: got %v", err)
	}
	if _, err := f.officer.AddCoins(ctx, "missing", 10); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("missing user: got %v", err)
	}

	res, err := f.officer.AddCoins(ctx, alice.ID, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(res.WalletAddress, "0x") || res.UserEmail != "alice@example.com" {
		t.Fatalf("credit result wrong: %+v", res)
	}
}

func TestExportKey(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")

	if _, _, err := f.auth.ExportKey(ctx, alice.ID, "wrong-password"); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("wrong password: got %v", err)
	}
	if _, _, err := f.auth.ExportKey(ctx, alice.ID, ""); !domain.IsValidation(err) {
		t.Fatalf("missing password: got %v", err)
	}

	address, keyHex, err := f.auth.ExportKey(ctx, alice.ID, "secret1")
	if err != nil {
		t.Fatal(err)
	}
	if address != alice.WalletAddress {
		t.Fatalf("exported address %s != %s", address, alice.WalletAddress)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(keyHex, "0x"))
	if err != nil {
		t.Fatalf("exported key does not parse: %v", err)
	}
	if got := crypto.PubkeyToAddress(key.PublicKey).Hex(); got != alice.WalletAddress {
		t.Fatalf("exported key derives %s, wallet is %s", got, alice.WalletAddress)
	}
}

func TestRosterAndRecentActivity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	alice, _, _ := f.auth.Register(ctx, "alice@example.com", "secret1", "Alice", "")
	f.auth.Register(ctx, "officer@example.com", "secret2", "Bob", domain.RoleOfficer)
	f.officer.AddCoins(ctx, alice.ID, 25)

	roster, err := f.officer.Roster(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(roster) != 1 || roster[0].Email != "alice@example.com" {
		t.Fatalf("roster wrong: %+v", roster)
	}

	dash, err := f.officer.RecentActivity(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if dash.Count != 1 || dash.TotalDistributed != 25 {
		t.Fatalf("dashboard wrong: %+v", dash)
	}
}
