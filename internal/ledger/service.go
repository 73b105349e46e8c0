package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/MrJamesThe3rd/teller/internal/money"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=ledger
type Repository interface {
	CreateAccount(ctx context.Context, acct *Account) error
	GetAccount(ctx context.Context, id string) (*Account, error)
	AdjustBalance(ctx context.Context, id string, delta int64) (int64, error)
	MoveFunds(ctx context.Context, sourceID, destID string, amount int64) (MoveResult, error)
}

// MoveResult holds both post-move balances of a two-sided funds move.
type MoveResult struct {
	SourceBalance int64
	DestBalance   int64
}

// Recorder appends one human-readable line per balance mutation.
type Recorder interface {
	Append(accountID, description string, balance int64) error
}

// Service owns all account records and is the only component that mutates
// balances. Every successful mutation is appended to the recorder; a recorder
// failure never rolls the mutation back.
type Service struct {
	repo     Repository
	recorder Recorder
}

func NewService(repo Repository, rec Recorder) *Service {
	return &Service{repo: repo, recorder: rec}
}

// CreateAccount registers a new account. Opening balances below zero are
// rejected; zero is the default for interactively created accounts.
func (s *Service) CreateAccount(ctx context.Context, id string, secret Secret, openingBalance int64) (*Account, error) {
	if openingBalance < 0 {
		return nil, ErrInvalidAmount
	}

	acct := &Account{ID: id, Secret: secret, Balance: openingBalance}
	if err := s.repo.CreateAccount(ctx, acct); err != nil {
		return nil, err
	}

	if err := s.record(id, "New account created", openingBalance); err != nil {
		return acct, err
	}

	return acct, nil
}

// Authenticate checks the candidate password for the given account id.
// An unknown id and a wrong password produce the same ErrInvalidCredentials,
// so a caller cannot probe which ids exist.
func (s *Service) Authenticate(ctx context.Context, id, candidate string) (*Account, error) {
	acct, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUnknownAccount) {
			return nil, ErrInvalidCredentials
		}

		return nil, fmt.Errorf("looking up account: %w", err)
	}

	if !acct.Secret.Verify(candidate) {
		return nil, ErrInvalidCredentials
	}

	return acct, nil
}

// Balance returns the current balance for the account.
func (s *Service) Balance(ctx context.Context, id string) (int64, error) {
	acct, err := s.repo.GetAccount(ctx, id)
	if err != nil {
		return 0, err
	}

	return acct.Balance, nil
}

// Deposit credits amount to the account and returns the new balance.
func (s *Service) Deposit(ctx context.Context, id string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.repo.AdjustBalance(ctx, id, amount)
	if err != nil {
		return 0, err
	}

	desc := fmt.Sprintf("Deposited %s", money.Format(amount))

	return balance, s.record(id, desc, balance)
}

// Withdraw debits amount from the account and returns the new balance.
// The balance never goes below zero.
func (s *Service) Withdraw(ctx context.Context, id string, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}

	balance, err := s.repo.AdjustBalance(ctx, id, -amount)
	if err != nil {
		return 0, err
	}

	desc := fmt.Sprintf("Withdrew %s", money.Format(amount))

	return balance, s.record(id, desc, balance)
}

// Transfer moves amount between two accounts as a single unit: no caller can
// observe the debit without the credit. Both sides get a recorder line.
func (s *Service) Transfer(ctx context.Context, sourceID, destID string, amount int64) (MoveResult, error) {
	if amount <= 0 {
		return MoveResult{}, ErrInvalidAmount
	}

	result, err := s.repo.MoveFunds(ctx, sourceID, destID, amount)
	if err != nil {
		return MoveResult{}, err
	}

	srcDesc := fmt.Sprintf("Transferred %s to %s", money.Format(amount), destID)
	dstDesc := fmt.Sprintf("Received %s from %s", money.Format(amount), sourceID)

	err = errors.Join(
		s.record(sourceID, srcDesc, result.SourceBalance),
		s.record(destID, dstDesc, result.DestBalance),
	)

	return result, err
}

// record appends a recorder line. Failures are reported as ErrRecorderWrite
// but the caller's balance change has already been applied and stands.
func (s *Service) record(id, description string, balance int64) error {
	if err := s.recorder.Append(id, description, balance); err != nil {
		slog.Warn("transaction log write failed", "account", id, "error", err)
		return errors.Join(ErrRecorderWrite, err)
	}

	return nil
}
