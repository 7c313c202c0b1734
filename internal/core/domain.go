package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Checking AccountType = 0
	Cash     AccountType = 1
	Wallet   AccountType = 2
)

type (
	// AccountType is fixed for the lifetime of an account.
	AccountType int

	Account struct {
		ID          string      `json:"id"`
		UserID      string      `json:"user_id"`
		Name        string      `json:"name"`
		Description string      `json:"description,omitempty"`
		Type        AccountType `json:"type"`
		CreatedAt   time.Time   `json:"created_at"`
	}

	// Transaction is a signed movement in minor units. Positive amounts are
	// credits, negative amounts are debits. Date is the ordering key.
	Transaction struct {
		ID          string    `json:"id"`
		AccountID   string    `json:"account_id"`
		Amount      int64     `json:"amount"`
		Description string    `json:"description,omitempty"`
		Date        time.Time `json:"date"`
	}

	// AccountWithBalance pairs an account with its server-computed balance.
	// The balance is never derived client-side from a transaction list.
	AccountWithBalance struct {
		Account
		Balance int64
	}

	// FeedEntry decorates a transaction with its owning account for merged
	// cross-account views. It has no identity of its own and is rebuilt on
	// every aggregation pass.
	FeedEntry struct {
		Transaction
		Account Account
	}

	User struct {
		ID          string `json:"id"`
		Username    string `json:"username"`
		DisplayName string `json:"display_name,omitempty"`
		Token       string `json:"token"`
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyAccountName   = errors.New("empty account name")
	ErrInvalidAccountType = errors.New("invalid account type")
	ErrZeroDate           = errors.New("date cannot be zero")
)

func (t AccountType) IsValid() bool {
	switch t {
	case Checking, Cash, Wallet:
		return true
	default:
		return false
	}
}

// Label returns the display name for the account type.
func (t AccountType) Label() string {
	switch t {
	case Checking:
		return "Checking Account"
	case Cash:
		return "Cash"
	case Wallet:
		return "Wallet"
	default:
		return "Unknown"
	}
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyAccountName
	}
	if len(a.Name) > 100 {
		return errors.New("account name too long (max 100 characters)")
	}
	if !a.Type.IsValid() {
		return ErrInvalidAccountType
	}
	return nil
}

func (t Transaction) Validate() error {
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	return nil
}

// Initials derives the avatar initials shown for a user.
func (u User) Initials() string {
	if name := strings.TrimSpace(u.DisplayName); name != "" {
		parts := strings.Fields(name)
		if len(parts) >= 2 {
			return strings.ToUpper(firstRune(parts[0]) + firstRune(parts[1]))
		}
		return strings.ToUpper(firstRune(name))
	}
	if u.Username == "" {
		return ""
	}
	return strings.ToUpper(firstRune(u.Username))
}

func firstRune(s string) string {
	for _, r := range s {
		return string(r)
	}
	return ""
}
