// Package aggregate builds the dashboard view: every account's balance, a
// total across accounts, and a merged feed of recent transactions.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"bujet/internal/api"
	"bujet/internal/core"
	"bujet/internal/log"
)

// Backend is the slice of the api surface the aggregator consumes.
type Backend interface {
	api.AccountLister
	api.BalanceReader
	api.TransactionLister
}

// ErrAggregationFailed wraps the account-listing failure that prevented the
// snapshot from being built at all. Per-account fetch failures never surface
// here; they degrade to zero contributions.
var ErrAggregationFailed = errors.New("aggregation failed")

// Result is a snapshot across all of a user's accounts.
type Result struct {
	// TotalBalance is the sum of fetched balances, in minor units.
	// Accounts whose balance fetch failed contribute zero.
	TotalBalance int64

	// Accounts holds every account with its balance, in listing order.
	Accounts []core.AccountWithBalance

	// Feed holds the most recent transactions across accounts, newest
	// first, capped at the configured feed limit.
	Feed []core.FeedEntry
}

type Config struct {
	// RecentPerAccount bounds the transactions fetched per account before
	// merging.
	RecentPerAccount int

	// FeedLimit caps the merged feed length.
	FeedLimit int

	// Concurrency bounds the number of accounts fetched in parallel.
	Concurrency int
}

type Aggregator struct {
	backend Backend
	cfg     Config
	logger  *log.Logger
}

func New(backend Backend, cfg Config, logger *log.Logger) *Aggregator {
	if cfg.RecentPerAccount < 1 {
		cfg.RecentPerAccount = 10
	}
	if cfg.FeedLimit < 1 {
		cfg.FeedLimit = 10
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 4
	}
	return &Aggregator{
		backend: backend,
		cfg:     cfg,
		logger:  logger.WithComponent(log.ComponentAggregator),
	}
}

// accountSlot collects one account's fetch results. Balance and recent
// transactions fail independently; a failed fetch leaves the zero value in
// place.
type accountSlot struct {
	account core.Account
	balance int64
	recent  []core.Transaction
}

// Aggregate fetches balances and recent transactions for every account and
// merges them into a dashboard snapshot. Only a failure to list the accounts
// themselves aborts the run.
func (a *Aggregator) Aggregate(ctx context.Context, creds api.Credentials) (Result, error) {
	accounts, err := a.backend.ListAccounts(ctx, creds)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %w", ErrAggregationFailed, err)
	}

	// Each task writes only its own slot, so no locking is needed.
	slots := make([]accountSlot, len(accounts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Concurrency)
	for i, account := range accounts {
		g.Go(func() error {
			balance, err := a.backend.GetBalance(gctx, creds, account.ID)
			if err != nil {
				a.logger.WarnContext(gctx, "Balance fetch failed, counting as zero",
					log.FieldAccountID, account.ID,
					log.FieldError, err)
				balance = 0
			}

			recent, err := a.backend.ListTransactions(gctx, creds, account.ID, api.ListQuery{
				Limit: a.cfg.RecentPerAccount,
			})
			if err != nil {
				a.logger.WarnContext(gctx, "Recent transactions fetch failed, skipping account in feed",
					log.FieldAccountID, account.ID,
					log.FieldError, err)
				recent = nil
			}

			slots[i] = accountSlot{account: account, balance: balance, recent: recent}
			return nil
		})
	}
	// Tasks swallow their own failures, so Wait only reflects completion.
	_ = g.Wait()

	result := Result{
		Accounts: make([]core.AccountWithBalance, 0, len(accounts)),
	}
	var feed []core.FeedEntry
	for _, slot := range slots {
		result.TotalBalance += slot.balance
		result.Accounts = append(result.Accounts, core.AccountWithBalance{
			Account: slot.account,
			Balance: slot.balance,
		})
		for _, tx := range slot.recent {
			feed = append(feed, core.FeedEntry{Transaction: tx, Account: slot.account})
		}
	}
	result.Feed = mergeFeed(feed, a.cfg.FeedLimit)

	a.logger.InfoContext(ctx, "Aggregated accounts",
		log.FieldCount, len(accounts),
		log.FieldBalance, result.TotalBalance,
		log.FieldFeedEntries, len(result.Feed))
	return result, nil
}

// mergeFeed orders entries newest first, breaking date ties by transaction
// ID so the ordering is stable across runs, and truncates to limit.
func mergeFeed(entries []core.FeedEntry, limit int) []core.FeedEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.After(entries[j].Date)
		}
		return entries[i].ID < entries[j].ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
