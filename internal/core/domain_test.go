package core

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestAccountTypeLabel(t *testing.T) {
	cases := []struct {
		in  AccountType
		out string
	}{
		{Checking, "Checking Account"},
		{Cash, "Cash"},
		{Wallet, "Wallet"},
		{AccountType(9), "Unknown"},
	}
	for _, tc := range cases {
		if got := tc.in.Label(); got != tc.out {
			t.Fatalf("Label(%d) = %q, want %q", tc.in, got, tc.out)
		}
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{Name: "Savings", Type: Checking}
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := (Account{Name: "  ", Type: Cash}).Validate(); !errors.Is(err, ErrEmptyAccountName) {
		t.Fatalf("expected ErrEmptyAccountName, got %v", err)
	}
	if err := (Account{Name: "x", Type: AccountType(7)}).Validate(); !errors.Is(err, ErrInvalidAccountType) {
		t.Fatalf("expected ErrInvalidAccountType, got %v", err)
	}
	if err := (Account{Name: strings.Repeat("n", 101), Type: Wallet}).Validate(); err == nil {
		t.Fatal("expected error for long name")
	}
}

func TestTransactionValidate(t *testing.T) {
	tx := Transaction{Amount: -500, Date: time.Now()}
	if err := tx.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := (Transaction{Amount: 100}).Validate(); !errors.Is(err, ErrZeroDate) {
		t.Fatalf("expected ErrZeroDate, got %v", err)
	}
}

func TestUserInitials(t *testing.T) {
	cases := []struct {
		user User
		out  string
	}{
		{User{Username: "carol"}, "C"},
		{User{Username: "carol", DisplayName: "Carol Jones"}, "CJ"},
		{User{Username: "carol", DisplayName: "carol"}, "C"},
		{User{}, ""},
	}
	for _, tc := range cases {
		if got := tc.user.Initials(); got != tc.out {
			t.Fatalf("Initials(%+v) = %q, want %q", tc.user, got, tc.out)
		}
	}
}
