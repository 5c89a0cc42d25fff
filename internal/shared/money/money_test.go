package money_test

import (
	"testing"

	"hris-payroll/internal/shared/money"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "6500000.00", money.Format(decimal.NewFromInt(6500000)))
	assert.Equal(t, "682500.00", money.Format(decimal.RequireFromString("682500")))
	assert.Equal(t, "0.10", money.Format(decimal.RequireFromString("0.1")))
}

func TestRound_HalfAwayFromZero(t *testing.T) {
	assert.Equal(t, "1.01", money.Format(money.Round(decimal.RequireFromString("1.005"))))
	assert.Equal(t, "-1.01", money.Format(money.Round(decimal.RequireFromString("-1.005"))))
	assert.Equal(t, "2.00", money.Format(money.Round(decimal.RequireFromString("1.995"))))
}

func TestParse_RoundTrip(t *testing.T) {
	for _, s := range []string{"0.00", "1.50", "6500000.00", "5817500.00", "123456789012.99"} {
		d, err := money.Parse(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, money.Format(d))
	}

	for _, raw := range []string{"0", "0.1", "42", "99.9"} {
		d, err := money.Parse(raw)
		require.NoError(t, err, raw)

		again, err := money.Parse(money.Format(d))
		require.NoError(t, err)
		assert.True(t, d.Equal(again), raw)
	}
}

func TestParse_Rejects(t *testing.T) {
	for _, s := range []string{"", "abc", "1.005", "1,50"} {
		_, err := money.Parse(s)
		assert.Error(t, err, s)
	}

	_, err := money.ParseNonNegative("-1.00")
	assert.Error(t, err)
}
