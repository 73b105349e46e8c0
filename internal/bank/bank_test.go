package bank_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teller/internal/bank"
)

func TestNew_SeedsAccounts(t *testing.T) {
	b, err := bank.New(bank.Options{
		Name:  "Indian Bank",
		Seeds: bank.DemoSeeds(0),
	})
	require.NoError(t, err)

	acct, err := b.Ledger.Authenticate(context.Background(), "1001", "pass123")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), acct.Balance)

	acct, err = b.Ledger.Authenticate(context.Background(), "1002", "hello")
	require.NoError(t, err)
	assert.Equal(t, int64(1_000_000), acct.Balance)
}

func TestNew_WritesSeedLogLines(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "transactions.txt")

	_, err := bank.New(bank.Options{
		Name:    "Global Bank",
		LogFile: logFile,
		Seeds:   bank.DemoSeeds(1),
	})
	require.NoError(t, err)

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)

	want := "Account 2001: New account created. Balance: 2,500.00\n" +
		"Account 2002: New account created. Balance: 7,500.00\n"
	assert.Equal(t, want, string(data))
}

func TestNew_DuplicateSeedFails(t *testing.T) {
	_, err := bank.New(bank.Options{
		Name: "Indian Bank",
		Seeds: []bank.Seed{
			{ID: "1001", Password: "a", Balance: 100},
			{ID: "1001", Password: "b", Balance: 200},
		},
	})
	assert.Error(t, err)
}

func TestDemoSeeds(t *testing.T) {
	assert.Len(t, bank.DemoSeeds(0), 2)
	assert.Len(t, bank.DemoSeeds(1), 2)
	assert.Empty(t, bank.DemoSeeds(2))
}

func TestSet_Get(t *testing.T) {
	a, err := bank.New(bank.Options{Name: "Indian Bank"})
	require.NoError(t, err)
	b, err := bank.New(bank.Options{Name: "Global Bank"})
	require.NoError(t, err)

	set := bank.NewSet(a, b)
	assert.Len(t, set.All(), 2)

	got, ok := set.Get("Global Bank")
	require.True(t, ok)
	assert.Equal(t, "Global Bank", got.Name)

	_, ok = set.Get("Missing Bank")
	assert.False(t, ok)
}
