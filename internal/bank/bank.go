// Package bank ties one named bank together: its ledger, its transfer
// coordinator, and its transaction log. The single-bank and multi-bank
// program shapes are the same code path with different counts.
package bank

import (
	"context"
	"fmt"
	"time"

	"github.com/MrJamesThe3rd/teller/internal/ledger"
	"github.com/MrJamesThe3rd/teller/internal/ledger/store"
	"github.com/MrJamesThe3rd/teller/internal/recorder"
	"github.com/MrJamesThe3rd/teller/internal/transfer"
)

type Bank struct {
	Name      string
	Ledger    *ledger.Service
	Transfers *transfer.Service
}

// Options configures one bank. TransferOpts is where tests plug in a
// deterministic code source.
type Options struct {
	Name         string
	LogFile      string
	CodeTTL      time.Duration
	Seeds        []Seed
	TransferOpts []transfer.Option
}

// Seed is a pre-provisioned demo account.
type Seed struct {
	ID       string
	Password string
	Balance  int64
}

func New(opts Options) (*Bank, error) {
	var rec ledger.Recorder = recorder.Discard{}
	if opts.LogFile != "" {
		rec = recorder.NewFile(opts.LogFile)
	}

	svc := ledger.NewService(store.New(), rec)

	b := &Bank{
		Name:      opts.Name,
		Ledger:    svc,
		Transfers: transfer.NewService(svc, opts.CodeTTL, opts.TransferOpts...),
	}

	for _, seed := range opts.Seeds {
		_, err := svc.CreateAccount(context.Background(), seed.ID, ledger.PlainSecret(seed.Password), seed.Balance)
		if err != nil {
			return nil, fmt.Errorf("seeding account %s at %s: %w", seed.ID, opts.Name, err)
		}
	}

	return b, nil
}

// DemoSeeds returns the demo accounts for the nth configured bank. Only the
// first two banks ship seeds; later banks start empty.
func DemoSeeds(n int) []Seed {
	switch n {
	case 0:
		return []Seed{
			{ID: "1001", Password: "pass123", Balance: 500_000},
			{ID: "1002", Password: "hello", Balance: 1_000_000},
		}
	case 1:
		return []Seed{
			{ID: "2001", Password: "secret", Balance: 250_000},
			{ID: "2002", Password: "world", Balance: 750_000},
		}
	}

	return nil
}

// Set is an ordered collection of banks with name lookup.
type Set struct {
	banks  []*Bank
	byName map[string]*Bank
}

func NewSet(banks ...*Bank) *Set {
	s := &Set{banks: banks, byName: make(map[string]*Bank, len(banks))}
	for _, b := range banks {
		s.byName[b.Name] = b
	}

	return s
}

func (s *Set) All() []*Bank { return s.banks }

func (s *Set) Get(name string) (*Bank, bool) {
	b, ok := s.byName[name]
	return b, ok
}
