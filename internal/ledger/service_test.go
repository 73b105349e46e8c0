package ledger_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/teller/internal/ledger"
)

func TestService_Deposit(t *testing.T) {
	type args struct {
		id     string
		amount int64
	}

	type testCase struct {
		name        string
		args        args
		setupMock   func(repo *ledger.MockRepository, rec *ledger.MockRecorder)
		wantBalance int64
		wantErr     error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{id: "1001", amount: 10_000},
			setupMock: func(repo *ledger.MockRepository, rec *ledger.MockRecorder) {
				repo.EXPECT().
					AdjustBalance(gomock.Any(), "1001", int64(10_000)).
					Return(int64(510_000), nil)
				rec.EXPECT().
					Append("1001", "Deposited 100.00", int64(510_000)).
					Return(nil)
			},
			wantBalance: 510_000,
		},
		{
			name:      "ZeroAmount",
			args:      args{id: "1001", amount: 0},
			setupMock: func(*ledger.MockRepository, *ledger.MockRecorder) {},
			wantErr:   ledger.ErrInvalidAmount,
		},
		{
			name:      "NegativeAmount",
			args:      args{id: "1001", amount: -500},
			setupMock: func(*ledger.MockRepository, *ledger.MockRecorder) {},
			wantErr:   ledger.ErrInvalidAmount,
		},
		{
			name: "UnknownAccount",
			args: args{id: "ghost", amount: 10_000},
			setupMock: func(repo *ledger.MockRepository, rec *ledger.MockRecorder) {
				repo.EXPECT().
					AdjustBalance(gomock.Any(), "ghost", int64(10_000)).
					Return(int64(0), ledger.ErrUnknownAccount)
			},
			wantErr: ledger.ErrUnknownAccount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			rec := ledger.NewMockRecorder(ctrl)
			tt.setupMock(repo, rec)

			svc := ledger.NewService(repo, rec)
			balance, err := svc.Deposit(context.Background(), tt.args.id, tt.args.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantBalance, balance)
		})
	}
}

func TestService_Deposit_RecorderFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	rec := ledger.NewMockRecorder(ctrl)
	svc := ledger.NewService(repo, rec)

	repo.EXPECT().
		AdjustBalance(gomock.Any(), "1001", int64(10_000)).
		Return(int64(510_000), nil)
	rec.EXPECT().
		Append("1001", "Deposited 100.00", int64(510_000)).
		Return(errors.New("disk full"))

	balance, err := svc.Deposit(context.Background(), "1001", 10_000)

	// The deposit stands; the log failure is only a warning.
	assert.Equal(t, int64(510_000), balance)
	assert.ErrorIs(t, err, ledger.ErrRecorderWrite)
}

func TestService_Withdraw(t *testing.T) {
	type testCase struct {
		name      string
		amount    int64
		setupMock func(repo *ledger.MockRepository, rec *ledger.MockRecorder)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "Success",
			amount: 5_000,
			setupMock: func(repo *ledger.MockRepository, rec *ledger.MockRecorder) {
				repo.EXPECT().
					AdjustBalance(gomock.Any(), "1001", int64(-5_000)).
					Return(int64(495_000), nil)
				rec.EXPECT().
					Append("1001", "Withdrew 50.00", int64(495_000)).
					Return(nil)
			},
		},
		{
			name:      "NegativeAmount",
			amount:    -5,
			setupMock: func(*ledger.MockRepository, *ledger.MockRecorder) {},
			wantErr:   ledger.ErrInvalidAmount,
		},
		{
			name:   "InsufficientFunds",
			amount: 600_000,
			setupMock: func(repo *ledger.MockRepository, rec *ledger.MockRecorder) {
				repo.EXPECT().
					AdjustBalance(gomock.Any(), "1001", int64(-600_000)).
					Return(int64(0), ledger.ErrInsufficientFunds)
			},
			wantErr: ledger.ErrInsufficientFunds,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := ledger.NewMockRepository(ctrl)
			rec := ledger.NewMockRecorder(ctrl)
			tt.setupMock(repo, rec)

			svc := ledger.NewService(repo, rec)
			_, err := svc.Withdraw(context.Background(), "1001", tt.amount)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}

func TestService_Authenticate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	rec := ledger.NewMockRecorder(ctrl)
	svc := ledger.NewService(repo, rec)

	acct := &ledger.Account{ID: "1001", Secret: ledger.PlainSecret("pass123"), Balance: 500_000}

	repo.EXPECT().GetAccount(gomock.Any(), "1001").Return(acct, nil)
	got, err := svc.Authenticate(context.Background(), "1001", "pass123")
	require.NoError(t, err)
	assert.Equal(t, "1001", got.ID)

	// Wrong password and unknown id produce the same error.
	repo.EXPECT().GetAccount(gomock.Any(), "1001").Return(acct, nil)
	_, err = svc.Authenticate(context.Background(), "1001", "wrong")
	assert.ErrorIs(t, err, ledger.ErrInvalidCredentials)

	repo.EXPECT().GetAccount(gomock.Any(), "ghost").Return(nil, ledger.ErrUnknownAccount)
	_, err = svc.Authenticate(context.Background(), "ghost", "pass123")
	assert.ErrorIs(t, err, ledger.ErrInvalidCredentials)
}

func TestService_CreateAccount(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	rec := ledger.NewMockRecorder(ctrl)
	svc := ledger.NewService(repo, rec)

	repo.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, acct *ledger.Account) error {
			assert.Equal(t, "3001", acct.ID)
			assert.Equal(t, int64(0), acct.Balance)
			return nil
		})
	rec.EXPECT().Append("3001", "New account created", int64(0)).Return(nil)

	acct, err := svc.CreateAccount(context.Background(), "3001", ledger.PlainSecret("pw"), 0)
	require.NoError(t, err)
	assert.Equal(t, "3001", acct.ID)

	// Duplicate ids are refused by the repository.
	repo.EXPECT().
		CreateAccount(gomock.Any(), gomock.Any()).
		Return(ledger.ErrDuplicateAccount)

	_, err = svc.CreateAccount(context.Background(), "3001", ledger.PlainSecret("pw"), 0)
	assert.ErrorIs(t, err, ledger.ErrDuplicateAccount)

	// Negative opening balances never reach the repository.
	_, err = svc.CreateAccount(context.Background(), "3002", ledger.PlainSecret("pw"), -100)
	assert.ErrorIs(t, err, ledger.ErrInvalidAmount)
}

func TestService_Transfer(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := ledger.NewMockRepository(ctrl)
	rec := ledger.NewMockRecorder(ctrl)
	svc := ledger.NewService(repo, rec)

	repo.EXPECT().
		MoveFunds(gomock.Any(), "1001", "1002", int64(200_000)).
		Return(ledger.MoveResult{SourceBalance: 300_000, DestBalance: 1_200_000}, nil)
	rec.EXPECT().Append("1001", "Transferred 2,000.00 to 1002", int64(300_000)).Return(nil)
	rec.EXPECT().Append("1002", "Received 2,000.00 from 1001", int64(1_200_000)).Return(nil)

	result, err := svc.Transfer(context.Background(), "1001", "1002", 200_000)
	require.NoError(t, err)
	assert.Equal(t, int64(300_000), result.SourceBalance)
	assert.Equal(t, int64(1_200_000), result.DestBalance)
}

func TestSecret_Verify(t *testing.T) {
	assert.True(t, ledger.PlainSecret("pass123").Verify("pass123"))
	assert.False(t, ledger.PlainSecret("pass123").Verify("PASS123"))

	hashed, err := ledger.NewHashedSecret("hello", 4)
	require.NoError(t, err)
	assert.True(t, hashed.Verify("hello"))
	assert.False(t, hashed.Verify("world"))
}
