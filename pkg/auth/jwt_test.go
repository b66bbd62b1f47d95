package auth

import (
	"testing"
	"time"
)

func TestIssueParseRoundTrip(t *testing.T) {
	m := NewManager("secret-a", time.Hour)
	tok, err := m.Issue("user-1", "user", "alice@example.com", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	claims, err := m.ParseValidate(tok)
	if err != nil {
		t.Fatal(err)
	}
	if claims.Sub != "user-1" || claims.Role != "user" || claims.Email != "alice@example.com" || claims.Wallet != "0xabc" {
		t.Fatalf("claims mismatch: %+v", claims)
	}
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := NewManager("secret-a", time.Hour).Issue("user-1", "user", "a@b.co", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-b", time.Hour).ParseValidate(tok); err == nil {
		t.Fatal("token signed with another secret validated")
	}
}

func TestParseExpired(t *testing.T) {
	tok, err := NewManager("secret-a", -time.Minute).Issue("user-1", "user", "a@b.co", "0xabc")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewManager("secret-a", time.Hour).ParseValidate(tok); err == nil {
		t.Fatal("expired token validated")
	}
}

func TestParseGarbage(t *testing.T) {
	if _, err := NewManager("secret-a", time.Hour).ParseValidate("not.a.token"); err == nil {
		t.Fatal("garbage token validated")
	}
}

func TestAllowed(t *testing.T) {
	cases := []struct {
		role string
		want []string
		ok   bool
	}{
		{"officer", []string{"officer"}, true},
		{"user", []string{"officer"}, false},
		{"user", []string{"user", "officer"}, true},
		{"", []string{"officer"}, false},
		{"officer", nil, false},
	}
	for _, c := range cases {
		if got := Allowed(c.role, c.want...); got != c.ok {
			t.Errorf("Allowed(%q, %v) = %v, want %v", c.role, c.want, got, c.ok)
		}
	}
}
