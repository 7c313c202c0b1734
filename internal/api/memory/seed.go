package memory

import (
	"context"
	"fmt"
	"time"

	"bujet/internal/api"
	"bujet/internal/core"
)

// Seeded returns a store preloaded with a demo user, three accounts and a
// spread of transactions, together with the demo user's credentials. Used by
// the memory data backend so the CLI has something to show.
func Seeded() (*Store, api.Credentials) {
	ctx := context.Background()
	store := New()

	user, err := store.SignUp(ctx, "demo", "Demo User", "demo")
	if err != nil {
		panic(fmt.Sprintf("seed user: %v", err))
	}
	creds := api.Credentials{UserID: user.ID, Token: user.Token}

	accounts := []core.Account{
		{Name: "Everyday Checking", Description: "Salary and bills", Type: core.Checking},
		{Name: "Cash", Type: core.Cash},
		{Name: "Travel Wallet", Description: "Trip spending money", Type: core.Wallet},
	}

	now := time.Now().UTC().Truncate(time.Minute)
	for i, account := range accounts {
		created, err := store.CreateAccount(ctx, creds, account)
		if err != nil {
			panic(fmt.Sprintf("seed account: %v", err))
		}

		// A salary credit followed by a trail of debits, one every 36 hours.
		if _, err := store.CreateTransaction(ctx, creds, core.Transaction{
			AccountID:   created.ID,
			Amount:      250_000 * int64(i+1),
			Description: "Opening deposit",
			Date:        now.AddDate(0, -2, 0),
		}); err != nil {
			panic(fmt.Sprintf("seed transaction: %v", err))
		}
		for j := 0; j < 12; j++ {
			_, err := store.CreateTransaction(ctx, creds, core.Transaction{
				AccountID:   created.ID,
				Amount:      -int64(350 + 173*j + 991*i),
				Description: fmt.Sprintf("Purchase #%d", j+1),
				Date:        now.Add(-time.Duration(j*36+i*5) * time.Hour),
			})
			if err != nil {
				panic(fmt.Sprintf("seed transaction: %v", err))
			}
		}
	}

	return store, creds
}
