package transfer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teller/internal/ledger"
	"github.com/MrJamesThe3rd/teller/internal/ledger/store"
	"github.com/MrJamesThe3rd/teller/internal/recorder"
	"github.com/MrJamesThe3rd/teller/internal/transfer"
)

// newBank builds a real ledger with two seeded accounts and a coordinator
// with a deterministic code source.
func newBank(t *testing.T, ttl time.Duration, opts ...transfer.Option) (*ledger.Service, *transfer.Service) {
	t.Helper()

	svc := ledger.NewService(store.New(), recorder.Discard{})

	_, err := svc.CreateAccount(context.Background(), "A1", ledger.PlainSecret("pw"), 500_000)
	require.NoError(t, err)
	_, err = svc.CreateAccount(context.Background(), "A2", ledger.PlainSecret("pw"), 1_000_000)
	require.NoError(t, err)

	return svc, transfer.NewService(svc, ttl, opts...)
}

func fixedCode(t *testing.T, code int) transfer.Option {
	t.Helper()

	ctrl := gomock.NewController(t)
	cs := transfer.NewMockCodeSource(ctrl)
	cs.EXPECT().Code().Return(code).AnyTimes()

	return transfer.WithCodeSource(cs)
}

func TestService_Initiate_Validation(t *testing.T) {
	type args struct {
		source string
		dest   string
		amount int64
	}

	type testCase struct {
		name    string
		args    args
		wantErr error
	}

	tests := []testCase{
		{
			name:    "SelfTransfer",
			args:    args{source: "A1", dest: "A1", amount: 10_000},
			wantErr: transfer.ErrSelfTransfer,
		},
		{
			name:    "ZeroAmount",
			args:    args{source: "A1", dest: "A2", amount: 0},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:    "NegativeAmount",
			args:    args{source: "A1", dest: "A2", amount: -100},
			wantErr: ledger.ErrInvalidAmount,
		},
		{
			name:    "UnknownSource",
			args:    args{source: "ghost", dest: "A2", amount: 10_000},
			wantErr: ledger.ErrUnknownAccount,
		},
		{
			name:    "UnknownDestination",
			args:    args{source: "A1", dest: "ghost", amount: 10_000},
			wantErr: ledger.ErrUnknownAccount,
		},
		{
			name:    "InsufficientFunds",
			args:    args{source: "A1", dest: "A2", amount: 500_001},
			wantErr: ledger.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, coordinator := newBank(t, 0)

			_, err := coordinator.Initiate(context.Background(), tt.args.source, tt.args.dest, tt.args.amount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Initiate_SelfTransferIgnoresBalance(t *testing.T) {
	// Source and destination are compared before anything else, so a
	// self-transfer fails the same way whatever the balance.
	_, coordinator := newBank(t, 0)

	_, err := coordinator.Initiate(context.Background(), "A1", "A1", 10_000_000)
	assert.ErrorIs(t, err, transfer.ErrSelfTransfer)
}

func TestService_Initiate_CodeRange(t *testing.T) {
	_, coordinator := newBank(t, 0)

	for range 50 {
		p, err := coordinator.Initiate(context.Background(), "A1", "A2", 100)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Code, 1000)
		assert.LessOrEqual(t, p.Code, 9999)
		coordinator.Abandon(p)
	}
}

func TestService_VerifyCommits(t *testing.T) {
	bank, coordinator := newBank(t, 0, fixedCode(t, 4242))

	p, err := coordinator.Initiate(context.Background(), "A1", "A2", 200_000)
	require.NoError(t, err)
	assert.Equal(t, 4242, p.Code)

	committed, err := coordinator.Verify(context.Background(), p, 4242)
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), committed.SourceBalance)
	assert.Equal(t, int64(1_200_000), committed.DestBalance)

	srcBalance, err := bank.Balance(context.Background(), "A1")
	require.NoError(t, err)
	dstBalance, err := bank.Balance(context.Background(), "A2")
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), srcBalance)
	assert.Equal(t, int64(1_200_000), dstBalance)

	// The pending transfer is single use.
	_, err = coordinator.Verify(context.Background(), p, 4242)
	assert.ErrorIs(t, err, transfer.ErrExpiredChallenge)
}

func TestService_VerifyCodeMismatch(t *testing.T) {
	bank, coordinator := newBank(t, 0, fixedCode(t, 4242))

	p, err := coordinator.Initiate(context.Background(), "A1", "A2", 200_000)
	require.NoError(t, err)

	_, err = coordinator.Verify(context.Background(), p, 1111)
	assert.ErrorIs(t, err, transfer.ErrCodeMismatch)

	// Neither balance moved.
	srcBalance, err := bank.Balance(context.Background(), "A1")
	require.NoError(t, err)
	dstBalance, err := bank.Balance(context.Background(), "A2")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), srcBalance)
	assert.Equal(t, int64(1_000_000), dstBalance)

	// A mismatch consumes the challenge; a retry with the right code is
	// refused too.
	_, err = coordinator.Verify(context.Background(), p, 4242)
	assert.ErrorIs(t, err, transfer.ErrExpiredChallenge)
}

func TestService_VerifyExpiredCode(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	bank, coordinator := newBank(t, 2*time.Minute, fixedCode(t, 4242), transfer.WithClock(clock))

	p, err := coordinator.Initiate(context.Background(), "A1", "A2", 200_000)
	require.NoError(t, err)

	now = now.Add(3 * time.Minute)

	_, err = coordinator.Verify(context.Background(), p, 4242)
	assert.ErrorIs(t, err, transfer.ErrExpiredChallenge)

	srcBalance, err := bank.Balance(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), srcBalance)
}

func TestService_Abandon(t *testing.T) {
	bank, coordinator := newBank(t, 0, fixedCode(t, 4242))

	p, err := coordinator.Initiate(context.Background(), "A1", "A2", 200_000)
	require.NoError(t, err)

	coordinator.Abandon(p)

	_, err = coordinator.Verify(context.Background(), p, 4242)
	assert.ErrorIs(t, err, transfer.ErrExpiredChallenge)

	srcBalance, err := bank.Balance(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, int64(500_000), srcBalance)
}

func TestService_TotalBalanceInvariant(t *testing.T) {
	bank, coordinator := newBank(t, 0, fixedCode(t, 4242))

	for range 5 {
		p, err := coordinator.Initiate(context.Background(), "A1", "A2", 10_000)
		require.NoError(t, err)

		_, err = coordinator.Verify(context.Background(), p, 4242)
		require.NoError(t, err)
	}

	srcBalance, err := bank.Balance(context.Background(), "A1")
	require.NoError(t, err)
	dstBalance, err := bank.Balance(context.Background(), "A2")
	require.NoError(t, err)
	assert.Equal(t, int64(1_500_000), srcBalance+dstBalance)
}

func TestService_Initiate_LedgerErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockLedger := transfer.NewMockLedger(ctrl)
	coordinator := transfer.NewService(mockLedger, 0)

	mockLedger.EXPECT().
		Balance(gomock.Any(), "A1").
		Return(int64(0), ledger.ErrUnknownAccount)

	_, err := coordinator.Initiate(context.Background(), "A1", "A2", 100)
	assert.ErrorIs(t, err, ledger.ErrUnknownAccount)
}

func TestService_Get(t *testing.T) {
	_, coordinator := newBank(t, 0, fixedCode(t, 4242))

	p, err := coordinator.Initiate(context.Background(), "A1", "A2", 100)
	require.NoError(t, err)

	got, ok := coordinator.Get(p.ID)
	require.True(t, ok)
	assert.Equal(t, p, got)

	_, err = coordinator.Verify(context.Background(), p, 4242)
	require.NoError(t, err)

	_, ok = coordinator.Get(p.ID)
	assert.False(t, ok)
}
