// Package api defines the contract with the remote bujet service: the data
// it serves, the credentials every call carries, and the error taxonomy its
// failures are classified into.
package api

import (
	"context"
	"errors"
	"time"

	"bujet/internal/core"
)

// Credentials identify the calling user. They are threaded explicitly into
// every call; no ambient session state is kept anywhere in the client.
type Credentials struct {
	UserID string
	Token  string
}

// ListQuery bounds and positions a transaction listing.
//
// At most one of Before/After may be set. Before selects the Limit newest
// transactions strictly older than the bound; After selects the Limit oldest
// transactions strictly newer than the bound. Either way the result is
// returned newest first. An empty cursor yields the most recent Limit
// transactions.
type ListQuery struct {
	Limit  int
	Before *time.Time
	After  *time.Time
}

var ErrBothCursors = errors.New("before and after cursors are mutually exclusive")

func (q ListQuery) Validate() error {
	if q.Limit <= 0 {
		return errors.New("limit must be positive")
	}
	if q.Before != nil && q.After != nil {
		return ErrBothCursors
	}
	return nil
}

// Ports consumed by the client core.
type (
	AccountLister interface {
		ListAccounts(ctx context.Context, creds Credentials) ([]core.Account, error)
	}

	AccountReader interface {
		GetAccount(ctx context.Context, creds Credentials, accountID string) (core.Account, error)
	}

	AccountWriter interface {
		CreateAccount(ctx context.Context, creds Credentials, account core.Account) (core.Account, error)
		UpdateAccount(ctx context.Context, creds Credentials, account core.Account) (core.Account, error)
		DeleteAccount(ctx context.Context, creds Credentials, accountID string) error
	}

	// BalanceReader returns an account's balance in minor units. Balances
	// are computed server-side; the client only reads them.
	BalanceReader interface {
		GetBalance(ctx context.Context, creds Credentials, accountID string) (int64, error)
	}

	TransactionLister interface {
		ListTransactions(ctx context.Context, creds Credentials, accountID string, query ListQuery) ([]core.Transaction, error)
	}

	TransactionCounter interface {
		CountTransactions(ctx context.Context, creds Credentials, accountID string) (int, error)
	}

	TransactionWriter interface {
		CreateTransaction(ctx context.Context, creds Credentials, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, creds Credentials, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, creds Credentials, accountID, transactionID string) error
	}

	UserAuthenticator interface {
		SignUp(ctx context.Context, username, displayName, password string) (core.User, error)
		SignIn(ctx context.Context, username, password string) (core.User, error)
	}
)
