// Package memory implements the api ports in process memory. It backs tests
// and the memory data backend of the CLI, and mimics the remote service's
// cursor and error semantics closely enough to swap in for the real thing.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"bujet/internal/api"
	"bujet/internal/core"
)

type Store struct {
	mu        sync.Mutex
	users     map[string]core.User // keyed by user ID
	passwords map[string]string    // username -> password
	accounts  map[string]core.Account
	txns      map[string][]core.Transaction // keyed by account ID, newest first

	// Injected failures, per account. A nil map entry means the call
	// succeeds.
	accountsErr error
	balanceErr  map[string]error
	listErr     map[string]error
	countErr    map[string]error
}

// Ensure interface conformance
var (
	_ api.AccountLister      = (*Store)(nil)
	_ api.AccountReader      = (*Store)(nil)
	_ api.AccountWriter      = (*Store)(nil)
	_ api.BalanceReader      = (*Store)(nil)
	_ api.TransactionLister  = (*Store)(nil)
	_ api.TransactionCounter = (*Store)(nil)
	_ api.TransactionWriter  = (*Store)(nil)
	_ api.UserAuthenticator  = (*Store)(nil)
)

func New() *Store {
	return &Store{
		users:      make(map[string]core.User),
		passwords:  make(map[string]string),
		accounts:   make(map[string]core.Account),
		txns:       make(map[string][]core.Transaction),
		balanceErr: make(map[string]error),
		listErr:    make(map[string]error),
		countErr:   make(map[string]error),
	}
}

// FailAccounts makes ListAccounts return err until cleared with nil.
func (s *Store) FailAccounts(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountsErr = err
}

// FailBalance makes GetBalance for the account return err until cleared.
func (s *Store) FailBalance(accountID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.balanceErr, accountID)
		return
	}
	s.balanceErr[accountID] = err
}

// FailTransactions makes ListTransactions for the account return err until
// cleared.
func (s *Store) FailTransactions(accountID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.listErr, accountID)
		return
	}
	s.listErr[accountID] = err
}

// FailCount makes CountTransactions for the account return err until cleared.
func (s *Store) FailCount(accountID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.countErr, accountID)
		return
	}
	s.countErr[accountID] = err
}

func (s *Store) authorize(creds api.Credentials) error {
	if creds.UserID == "" || creds.Token == "" {
		return api.NewError(api.KindUnauthorized, "invalid user credentials")
	}
	if user, ok := s.users[creds.UserID]; ok && user.Token != creds.Token {
		return api.NewError(api.KindUnauthorized, "invalid user credentials")
	}
	return nil
}

func (s *Store) SignUp(_ context.Context, username, displayName, password string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.passwords[username]; taken {
		return core.User{}, api.NewError(api.KindNetwork, "username already taken")
	}
	user := core.User{
		ID:          uuid.NewString(),
		Username:    username,
		DisplayName: displayName,
		Token:       uuid.NewString(),
	}
	s.users[user.ID] = user
	s.passwords[username] = password
	return user, nil
}

func (s *Store) SignIn(_ context.Context, username, password string) (core.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.passwords[username]
	if !ok || stored != password {
		return core.User{}, api.NewError(api.KindUnauthorized, "invalid username or password")
	}
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return core.User{}, api.NewError(api.KindUnauthorized, "invalid username or password")
}

func (s *Store) ListAccounts(_ context.Context, creds api.Credentials) ([]core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return nil, err
	}
	if s.accountsErr != nil {
		return nil, s.accountsErr
	}

	var accounts []core.Account
	for _, account := range s.accounts {
		if account.UserID == creds.UserID {
			accounts = append(accounts, account)
		}
	}
	sort.Slice(accounts, func(i, j int) bool {
		if !accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
		}
		return accounts[i].ID < accounts[j].ID
	})
	return accounts, nil
}

func (s *Store) GetAccount(_ context.Context, creds api.Credentials, accountID string) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return core.Account{}, err
	}
	account, ok := s.accounts[accountID]
	if !ok || account.UserID != creds.UserID {
		return core.Account{}, api.NewError(api.KindNotFound, "account not found")
	}
	return account, nil
}

func (s *Store) CreateAccount(_ context.Context, creds api.Credentials, account core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return core.Account{}, err
	}
	if err := account.Validate(); err != nil {
		return core.Account{}, err
	}

	account.ID = uuid.NewString()
	account.UserID = creds.UserID
	account.CreatedAt = time.Now().UTC()
	s.accounts[account.ID] = account
	return account, nil
}

func (s *Store) UpdateAccount(_ context.Context, creds api.Credentials, account core.Account) (core.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return core.Account{}, err
	}
	existing, ok := s.accounts[account.ID]
	if !ok || existing.UserID != creds.UserID {
		return core.Account{}, api.NewError(api.KindNotFound, "account not found")
	}

	// Only name and description are mutable; type is fixed for life.
	existing.Name = account.Name
	existing.Description = account.Description
	if err := existing.Validate(); err != nil {
		return core.Account{}, err
	}
	s.accounts[existing.ID] = existing
	return existing, nil
}

func (s *Store) DeleteAccount(_ context.Context, creds api.Credentials, accountID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return err
	}
	account, ok := s.accounts[accountID]
	if !ok || account.UserID != creds.UserID {
		return api.NewError(api.KindNotFound, "account not found")
	}
	delete(s.accounts, accountID)
	delete(s.txns, accountID)
	return nil
}

func (s *Store) GetBalance(_ context.Context, creds api.Credentials, accountID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return 0, err
	}
	if err := s.balanceErr[accountID]; err != nil {
		return 0, err
	}
	if _, ok := s.accounts[accountID]; !ok {
		return 0, api.NewError(api.KindNotFound, "account not found")
	}

	var balance int64
	for _, tx := range s.txns[accountID] {
		balance += tx.Amount
	}
	return balance, nil
}

// ListTransactions honors the backward-cursor contract: Before selects the
// Limit newest transactions older than the bound, After the Limit oldest
// transactions newer than the bound. Results are newest first either way.
func (s *Store) ListTransactions(_ context.Context, creds api.Credentials, accountID string, query api.ListQuery) ([]core.Transaction, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return nil, err
	}
	if err := s.listErr[accountID]; err != nil {
		return nil, err
	}
	if _, ok := s.accounts[accountID]; !ok {
		return nil, api.NewError(api.KindNotFound, "account not found")
	}

	all := s.txns[accountID]
	filtered := make([]core.Transaction, 0, len(all))
	for _, tx := range all {
		switch {
		case query.Before != nil && !tx.Date.Before(*query.Before):
			continue
		case query.After != nil && !tx.Date.After(*query.After):
			continue
		}
		filtered = append(filtered, tx)
	}

	if query.After != nil && len(filtered) > query.Limit {
		// Backward paging: keep the oldest Limit matches.
		filtered = filtered[len(filtered)-query.Limit:]
	} else if len(filtered) > query.Limit {
		filtered = filtered[:query.Limit]
	}

	out := make([]core.Transaction, len(filtered))
	copy(out, filtered)
	return out, nil
}

func (s *Store) CountTransactions(_ context.Context, creds api.Credentials, accountID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return 0, err
	}
	if err := s.countErr[accountID]; err != nil {
		return 0, err
	}
	if _, ok := s.accounts[accountID]; !ok {
		return 0, api.NewError(api.KindNotFound, "account not found")
	}
	return len(s.txns[accountID]), nil
}

func (s *Store) CreateTransaction(_ context.Context, creds api.Credentials, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return core.Transaction{}, err
	}
	if _, ok := s.accounts[tx.AccountID]; !ok {
		return core.Transaction{}, api.NewError(api.KindNotFound, "account not found")
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	tx.ID = uuid.NewString()
	s.txns[tx.AccountID] = append(s.txns[tx.AccountID], tx)
	s.resort(tx.AccountID)
	return tx, nil
}

func (s *Store) UpdateTransaction(_ context.Context, creds api.Credentials, tx core.Transaction) (core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return core.Transaction{}, err
	}
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, err
	}

	list := s.txns[tx.AccountID]
	for i, existing := range list {
		if existing.ID == tx.ID {
			list[i].Amount = tx.Amount
			list[i].Description = tx.Description
			list[i].Date = tx.Date
			updated := list[i]
			s.resort(tx.AccountID)
			return updated, nil
		}
	}
	return core.Transaction{}, api.NewError(api.KindNotFound, "transaction not found")
}

func (s *Store) DeleteTransaction(_ context.Context, creds api.Credentials, accountID, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.authorize(creds); err != nil {
		return err
	}
	list := s.txns[accountID]
	for i, existing := range list {
		if existing.ID == transactionID {
			s.txns[accountID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return api.NewError(api.KindNotFound, "transaction not found")
}

// resort keeps an account's transactions newest first, ties broken by ID so
// repeated listings are stable.
func (s *Store) resort(accountID string) {
	list := s.txns[accountID]
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.After(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
}
