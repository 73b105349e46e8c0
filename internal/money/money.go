// Package money handles monetary amounts as int64 minor units (cents).
// Balances are never held as binary floating point; decimal strings are
// converted exactly at the input boundary and formatted only for display.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// Parse converts a decimal amount string like "1234.56" into cents.
// Sub-cent precision is rejected rather than rounded.
func Parse(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", s, err)
	}

	cents := d.Mul(decimal.NewFromInt(100))
	if !cents.IsInteger() {
		return 0, fmt.Errorf("amount %q has sub-cent precision", s)
	}

	return cents.IntPart(), nil
}

// Format renders cents as a grouped decimal string, e.g. 1234567 -> "12,345.67".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}

	return sign + printer.Sprintf("%d.%02d", cents/100, cents%100)
}
