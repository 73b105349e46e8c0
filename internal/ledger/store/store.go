// Package store is the in-memory account repository. Mutations on a given
// account are serialized by a per-account lock; the two-account funds move
// takes both locks in lexicographic id order so crossing transfers cannot
// deadlock.
package store

import (
	"context"
	"sync"

	"github.com/MrJamesThe3rd/teller/internal/ledger"
)

type Store struct {
	mu    sync.RWMutex // guards the map itself
	accts map[string]*entry
}

type entry struct {
	mu   sync.Mutex // serializes mutations on this account
	acct ledger.Account
}

func New() *Store {
	return &Store{accts: make(map[string]*entry)}
}

func (s *Store) CreateAccount(_ context.Context, acct *ledger.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.accts[acct.ID]; ok {
		return ledger.ErrDuplicateAccount
	}

	s.accts[acct.ID] = &entry{acct: *acct}

	return nil
}

// GetAccount returns a snapshot copy so callers cannot mutate ledger state
// behind the lock.
func (s *Store) GetAccount(_ context.Context, id string) (*ledger.Account, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	cp := e.acct

	return &cp, nil
}

// AdjustBalance applies delta to the account balance. A negative delta that
// would take the balance below zero fails with ErrInsufficientFunds and
// leaves the balance untouched.
func (s *Store) AdjustBalance(_ context.Context, id string, delta int64) (int64, error) {
	e, err := s.entry(id)
	if err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.acct.Balance+delta < 0 {
		return 0, ledger.ErrInsufficientFunds
	}

	e.acct.Balance += delta

	return e.acct.Balance, nil
}

// MoveFunds debits sourceID and credits destID under both account locks, so
// no reader can observe the debit without the credit.
func (s *Store) MoveFunds(_ context.Context, sourceID, destID string, amount int64) (ledger.MoveResult, error) {
	src, err := s.entry(sourceID)
	if err != nil {
		return ledger.MoveResult{}, err
	}

	dst, err := s.entry(destID)
	if err != nil {
		return ledger.MoveResult{}, err
	}

	first, second := src, dst
	if destID < sourceID {
		first, second = dst, src
	}

	first.mu.Lock()
	defer first.mu.Unlock()
	if second != first {
		second.mu.Lock()
		defer second.mu.Unlock()
	}

	if src.acct.Balance < amount {
		return ledger.MoveResult{}, ledger.ErrInsufficientFunds
	}

	src.acct.Balance -= amount
	dst.acct.Balance += amount

	return ledger.MoveResult{
		SourceBalance: src.acct.Balance,
		DestBalance:   dst.acct.Balance,
	}, nil
}

func (s *Store) entry(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.accts[id]
	if !ok {
		return nil, ledger.ErrUnknownAccount
	}

	return e, nil
}
