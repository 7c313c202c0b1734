package aggregate

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bujet/internal/api"
	"bujet/internal/api/memory"
	"bujet/internal/core"
	"bujet/internal/log"
)

func testLogger() *log.Logger {
	return log.New(log.Config{Level: slog.LevelError, Component: log.ComponentAggregator})
}

func setupAccounts(t *testing.T) (*memory.Store, api.Credentials, []core.Account) {
	t.Helper()
	ctx := context.Background()

	backend := memory.New()
	user, err := backend.SignUp(ctx, "tester", "Tester", "secret")
	require.NoError(t, err)
	creds := api.Credentials{UserID: user.ID, Token: user.Token}

	var accounts []core.Account
	for _, name := range []string{"Alpha", "Bravo", "Charlie"} {
		account, err := backend.CreateAccount(ctx, creds, core.Account{
			Name: name, Type: core.Checking,
		})
		require.NoError(t, err)
		accounts = append(accounts, account)
	}
	return backend, creds, accounts
}

func addTransaction(t *testing.T, backend *memory.Store, creds api.Credentials, accountID string, amount int64, at time.Time) core.Transaction {
	t.Helper()
	tx, err := backend.CreateTransaction(context.Background(), creds, core.Transaction{
		AccountID:   accountID,
		Amount:      amount,
		Description: "entry",
		Date:        at,
	})
	require.NoError(t, err)
	return tx
}

func TestAggregateSumsBalances(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	addTransaction(t, backend, creds, accounts[0].ID, 10_00, day)
	addTransaction(t, backend, creds, accounts[1].ID, 25_50, day)
	addTransaction(t, backend, creds, accounts[2].ID, -5_25, day)

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	assert.Equal(t, int64(30_25), result.TotalBalance)
	require.Len(t, result.Accounts, 3)
	assert.Equal(t, "Alpha", result.Accounts[0].Name)
	assert.Equal(t, int64(10_00), result.Accounts[0].Balance)
	assert.Equal(t, int64(-5_25), result.Accounts[2].Balance)
}

func TestAggregateDegradedBalanceCountsAsZero(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	addTransaction(t, backend, creds, accounts[0].ID, 100_00, day)
	addTransaction(t, backend, creds, accounts[1].ID, 50_00, day)
	addTransaction(t, backend, creds, accounts[2].ID, 25_00, day)

	backend.FailBalance(accounts[1].ID, api.NewError(api.KindNetwork, "connection reset"))

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	// A + 0 + C; the failed account still appears, with a zero balance.
	assert.Equal(t, int64(125_00), result.TotalBalance)
	require.Len(t, result.Accounts, 3)
	assert.Equal(t, int64(0), result.Accounts[1].Balance)
}

func TestAggregateDegradedFeedSkipsAccount(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)
	day := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	addTransaction(t, backend, creds, accounts[0].ID, -1_00, day)
	addTransaction(t, backend, creds, accounts[1].ID, -2_00, day.Add(time.Minute))

	backend.FailTransactions(accounts[1].ID, api.NewError(api.KindNetwork, "connection reset"))

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	// The failing account's balance still counts; only its feed entries drop.
	assert.Equal(t, int64(-3_00), result.TotalBalance)
	require.Len(t, result.Feed, 1)
	assert.Equal(t, accounts[0].ID, result.Feed[0].Account.ID)
}

func TestAggregateFeedOrderedNewestFirst(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)

	addTransaction(t, backend, creds, accounts[0].ID, -1_00,
		time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	addTransaction(t, backend, creds, accounts[1].ID, -2_00,
		time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	addTransaction(t, backend, creds, accounts[0].ID, -3_00,
		time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC))

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	require.Len(t, result.Feed, 3)
	assert.Equal(t, int64(-1_00), result.Feed[0].Amount)
	assert.Equal(t, int64(-3_00), result.Feed[1].Amount)
	assert.Equal(t, int64(-2_00), result.Feed[2].Amount)
	assert.Equal(t, "Alpha", result.Feed[0].Account.Name)
	assert.Equal(t, "Bravo", result.Feed[2].Account.Name)
}

func TestAggregateFeedTruncatedToLimit(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 8; i++ {
		addTransaction(t, backend, creds, accounts[i%3].ID, -1_00,
			base.Add(time.Duration(i)*time.Hour))
	}

	agg := New(backend, Config{FeedLimit: 5}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	require.Len(t, result.Feed, 5)
	for i := 1; i < len(result.Feed); i++ {
		assert.False(t, result.Feed[i].Date.After(result.Feed[i-1].Date),
			"feed not newest first at index %d", i)
	}
	// The newest entry survives truncation.
	assert.Equal(t, base.Add(7*time.Hour), result.Feed[0].Date)
}

func TestAggregateFeedTieBrokenByTransactionID(t *testing.T) {
	backend, creds, accounts := setupAccounts(t)
	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	first := addTransaction(t, backend, creds, accounts[0].ID, -1_00, at)
	second := addTransaction(t, backend, creds, accounts[1].ID, -2_00, at)
	lowID, highID := first.ID, second.ID
	if lowID > highID {
		lowID, highID = highID, lowID
	}

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(context.Background(), creds)
	require.NoError(t, err)

	require.Len(t, result.Feed, 2)
	assert.Equal(t, lowID, result.Feed[0].ID)
	assert.Equal(t, highID, result.Feed[1].ID)
}

func TestAggregateListFailureAborts(t *testing.T) {
	backend, creds, _ := setupAccounts(t)
	backend.FailAccounts(api.NewError(api.KindNetwork, "connection reset"))

	agg := New(backend, Config{}, testLogger())
	_, err := agg.Aggregate(context.Background(), creds)
	require.ErrorIs(t, err, ErrAggregationFailed)
	assert.True(t, api.IsNetwork(err))
}

func TestAggregateNoAccounts(t *testing.T) {
	ctx := context.Background()
	backend := memory.New()
	user, err := backend.SignUp(ctx, "lonely", "Lonely", "secret")
	require.NoError(t, err)
	creds := api.Credentials{UserID: user.ID, Token: user.Token}

	agg := New(backend, Config{}, testLogger())
	result, err := agg.Aggregate(ctx, creds)
	require.NoError(t, err)
	assert.Zero(t, result.TotalBalance)
	assert.Empty(t, result.Accounts)
	assert.Empty(t, result.Feed)
}
