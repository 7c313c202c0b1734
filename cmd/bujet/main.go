// Command bujet renders a dashboard across all accounts, or pages through a
// single account's transactions.
//
// Usage:
//
//	bujet                    print the dashboard
//	bujet <account-id>       list the account's transactions page by page
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"bujet/internal/aggregate"
	"bujet/internal/api"
	"bujet/internal/backend"
	"bujet/internal/cache"
	"bujet/internal/cli"
	"bujet/internal/config"
	"bujet/internal/core"
	"bujet/internal/log"
	"bujet/internal/pagestore"
)

func main() {
	cli.LoadEnvFile()

	cfg := config.Load()
	logger := cli.SetupLogger(cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	result := cli.InitBackend(ctx, logger, cfg)
	if result.Cleanup != nil {
		defer func() {
			if err := result.Cleanup(); err != nil {
				logger.Warn("Backend cleanup failed", log.FieldError, err)
			}
		}()
	}

	creds, err := cli.ResolveCredentials(ctx, result, cfg)
	if err != nil {
		logger.Error("Failed to resolve credentials", log.FieldError, err)
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		if err := listTransactions(ctx, result.Backend, creds, cfg, os.Args[1], logger); err != nil {
			logger.Error("Failed to list transactions", log.FieldError, err, log.FieldAccountID, os.Args[1])
			os.Exit(1)
		}
		return
	}

	if err := printDashboard(ctx, result.Backend, creds, cfg, logger); err != nil {
		logger.Error("Failed to build dashboard", log.FieldError, err)
		os.Exit(1)
	}
}

func printDashboard(ctx context.Context, b backend.Backend, creds api.Credentials, cfg *config.Config, logger *log.Logger) error {
	agg := aggregate.New(b, aggregate.Config{
		RecentPerAccount: cfg.RecentPerAccount,
		FeedLimit:        cfg.FeedLimit,
		Concurrency:      cfg.AggregateConcurrency,
	}, logger)

	snapshot, err := agg.Aggregate(ctx, creds)
	if err != nil {
		return err
	}

	fmt.Printf("Total balance: %s\n\n", core.FormatCurrency(snapshot.TotalBalance))
	for _, account := range snapshot.Accounts {
		fmt.Printf("  %-24s %-18s %12s\n", account.Name, account.Type.Label(), core.FormatCurrency(account.Balance))
	}

	if len(snapshot.Feed) > 0 {
		fmt.Println("\nRecent activity:")
		for _, entry := range snapshot.Feed {
			fmt.Printf("  %s  %-24s %-24s %12s\n",
				entry.Date.Format("2006-01-02"),
				entry.Account.Name,
				entry.Description,
				core.FormatCurrency(entry.Amount))
		}
	}
	return nil
}

func listTransactions(ctx context.Context, b backend.Backend, creds api.Credentials, cfg *config.Config, accountID string, logger *log.Logger) error {
	account, err := b.GetAccount(ctx, creds, accountID)
	if err != nil {
		return err
	}

	counts := cache.New[int](16, cfg.CountCacheTTL)
	store := pagestore.New(b, creds, accountID, cfg.PageLimit,
		pagestore.WithCountCache(counts),
		pagestore.WithLogger(logger))
	defer store.Close()

	if err := store.Load(ctx); err != nil {
		return err
	}

	fmt.Printf("%s (%s)\n", account.Name, account.Type.Label())
	for {
		first, last := store.Range()
		fmt.Printf("\nPage %d of %d (%d-%d of %d)\n", store.CurrentPage(), store.TotalPages(), first, last, store.Count())
		for _, tx := range store.Page() {
			fmt.Printf("  %s  %-32s %12s\n",
				tx.Date.Format("2006-01-02"),
				tx.Description,
				core.FormatCurrency(tx.Amount))
		}

		if store.CurrentPage() >= store.TotalPages() {
			return nil
		}
		if err := store.Next(ctx); err != nil {
			return err
		}
	}
}
