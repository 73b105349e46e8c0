package recorder_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/teller/internal/recorder"
)

func TestFile_Append(t *testing.T) {
	path := filepath.Join(t.TempDir(), "transactions.txt")
	rec := recorder.NewFile(path)

	require.NoError(t, rec.Append("1001", "Deposited 100.00", 510_000))
	require.NoError(t, rec.Append("1001", "Withdrew 50.00", 505_000))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	want := "Account 1001: Deposited 100.00. Balance: 5,100.00\n" +
		"Account 1001: Withdrew 50.00. Balance: 5,050.00\n"
	assert.Equal(t, want, string(data))
}

func TestFile_AppendCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.txt")
	rec := recorder.NewFile(path)

	require.NoError(t, rec.Append("2001", "New account created", 0))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Account 2001: New account created. Balance: 0.00\n", string(data))
}

func TestFile_AppendBadPath(t *testing.T) {
	rec := recorder.NewFile(filepath.Join(t.TempDir(), "missing", "transactions.txt"))

	assert.Error(t, rec.Append("1001", "Deposited 1.00", 100))
}

func TestDiscard(t *testing.T) {
	assert.NoError(t, recorder.Discard{}.Append("1001", "Deposited 1.00", 100))
}
