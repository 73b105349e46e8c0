// Package transfer coordinates challenge-gated transfers between two ledger
// accounts: issue a one-time code, compare the operator's answer, and commit
// both balance changes as a single unit.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/teller/internal/ledger"
)

//go:generate mockgen -source=service.go -destination=service_mock.go -package=transfer
type Ledger interface {
	Balance(ctx context.Context, id string) (int64, error)
	Transfer(ctx context.Context, sourceID, destID string, amount int64) (ledger.MoveResult, error)
}

// CodeSource produces challenge codes. The default draws from math/rand,
// which is fine for a simulator where the code is printed instead of sent
// over SMS; it is not a security-grade generator.
type CodeSource interface {
	Code() int
}

type randSource struct{}

func (randSource) Code() int { return 1000 + rand.IntN(9000) }

// Pending is one outstanding transfer awaiting its code. It is single use:
// the first Verify consumes it whatever the outcome, and it never survives a
// process restart.
type Pending struct {
	ID       uuid.UUID
	SourceID string
	DestID   string
	Amount   int64
	Code     int
	IssuedAt time.Time
}

// Committed is the result of a verified transfer.
type Committed struct {
	SourceID      string
	DestID        string
	Amount        int64
	SourceBalance int64
	DestBalance   int64
}

// Service is the transfer coordinator. codeTTL bounds how long an issued
// code stays valid; zero disables expiry.
type Service struct {
	ledger  Ledger
	codes   CodeSource
	codeTTL time.Duration
	now     func() time.Time

	mu      sync.Mutex
	pending map[uuid.UUID]*Pending
}

type Option func(*Service)

// WithCodeSource substitutes the challenge code generator. Tests inject a
// deterministic source here.
func WithCodeSource(cs CodeSource) Option {
	return func(s *Service) { s.codes = cs }
}

// WithClock substitutes the time source used for code expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(l Ledger, codeTTL time.Duration, opts ...Option) *Service {
	s := &Service{
		ledger:  l,
		codes:   randSource{},
		codeTTL: codeTTL,
		now:     time.Now,
		pending: make(map[uuid.UUID]*Pending),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Initiate validates the transfer and issues a challenge code. The balance
// check happens at issuance; the commit re-checks it, so a withdrawal racing
// the prompt cannot drive the source balance negative.
func (s *Service) Initiate(ctx context.Context, sourceID, destID string, amount int64) (*Pending, error) {
	if sourceID == destID {
		return nil, ErrSelfTransfer
	}

	if amount <= 0 {
		return nil, ledger.ErrInvalidAmount
	}

	sourceBalance, err := s.ledger.Balance(ctx, sourceID)
	if err != nil {
		return nil, fmt.Errorf("checking source account: %w", err)
	}

	if _, err := s.ledger.Balance(ctx, destID); err != nil {
		return nil, fmt.Errorf("checking destination account: %w", err)
	}

	if amount > sourceBalance {
		return nil, ledger.ErrInsufficientFunds
	}

	p := &Pending{
		ID:       uuid.New(),
		SourceID: sourceID,
		DestID:   destID,
		Amount:   amount,
		Code:     s.codes.Code(),
		IssuedAt: s.now(),
	}

	s.mu.Lock()
	s.pending[p.ID] = p
	s.mu.Unlock()

	return p, nil
}

// Verify consumes the pending transfer. On a code match both balances move
// together; on any failure neither balance changes. A second Verify on the
// same pending transfer fails with ErrExpiredChallenge.
func (s *Service) Verify(ctx context.Context, p *Pending, candidate int) (*Committed, error) {
	if err := s.consume(p); err != nil {
		return nil, err
	}

	if candidate != p.Code {
		return nil, ErrCodeMismatch
	}

	// A recorder write failure travels alongside the committed result; the
	// balances have already moved and the caller decides how loudly to warn.
	result, err := s.ledger.Transfer(ctx, p.SourceID, p.DestID, p.Amount)
	if err != nil && !errors.Is(err, ledger.ErrRecorderWrite) {
		return nil, err
	}

	return &Committed{
		SourceID:      p.SourceID,
		DestID:        p.DestID,
		Amount:        p.Amount,
		SourceBalance: result.SourceBalance,
		DestBalance:   result.DestBalance,
	}, err
}

// Abandon discards a pending transfer without touching any balance. Used
// when the operator backs out at the code prompt.
func (s *Service) Abandon(p *Pending) {
	s.mu.Lock()
	delete(s.pending, p.ID)
	s.mu.Unlock()
}

// Get returns an outstanding pending transfer by id.
func (s *Service) Get(id uuid.UUID) (*Pending, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.pending[id]

	return p, ok
}

// consume removes p from the outstanding set exactly once and checks the
// code window. Expired codes are consumed too.
func (s *Service) consume(p *Pending) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.pending[p.ID]; !ok {
		return ErrExpiredChallenge
	}

	delete(s.pending, p.ID)

	if s.codeTTL > 0 && s.now().Sub(p.IssuedAt) > s.codeTTL {
		return ErrExpiredChallenge
	}

	return nil
}
