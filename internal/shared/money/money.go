// Package money formats and parses currency amounts. Amounts travel as
// decimal strings with exactly two fraction digits.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const Scale = 2

// Round rounds half away from zero to two fraction digits.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Scale)
}

func Format(d decimal.Decimal) string {
	return d.StringFixed(Scale)
}

// Parse accepts at most two fraction digits so Format(Parse(s)) never drops
// precision.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	if d.Exponent() < -Scale && !d.Equal(d.Round(Scale)) {
		return decimal.Zero, fmt.Errorf("invalid amount %q: more than %d fraction digits", s, Scale)
	}
	return d.Round(Scale), nil
}

// ParseNonNegative is Parse plus a sign check.
func ParseNonNegative(s string) (decimal.Decimal, error) {
	d, err := Parse(s)
	if err != nil {
		return decimal.Zero, err
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid amount %q: must not be negative", s)
	}
	return d, nil
}
