package view

import (
	"context"
	"time"

	"github.com/MrJamesThe3rd/teller/internal/money"
)

const opTimeout = 5 * time.Second

// FormatAmount renders cents for display, e.g. 500000 -> "5,000.00".
func FormatAmount(cents int64) string {
	return money.Format(cents)
}

// OpCtx returns a context with a standard timeout for ledger operations.
func OpCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), opTimeout)
}
