package money_test

import (
	"math"
	"testing"

	"github.com/amirasaad/banksim/pkg/money"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		text     string
		currency money.Code
		units    int64
		expected string
		wantErr  error
	}{
		{"whole number", "200", money.BRL, 20000, "200.00 BRL", nil},
		{"two decimals", "99.90", money.BRL, 9990, "99.90 BRL", nil},
		{"surrounding spaces", "  12.5 ", money.USD, 1250, "12.50 USD", nil},
		{"negative", "-5", money.BRL, -500, "-5.00 BRL", nil},
		{"zero", "0", money.BRL, 0, "0.00 BRL", nil},
		{"JPY without cents", "1000", money.JPY, 1000, "1000 JPY", nil},
		{"default currency", "1", "", 100, "1.00 BRL", nil},
		{"too many decimals", "10.001", money.BRL, 0, "", money.ErrInvalidAmount},
		{"JPY with cents", "10.5", money.JPY, 0, "", money.ErrInvalidAmount},
		{"not a number", "abc", money.BRL, 0, "", money.ErrInvalidAmount},
		{"empty", "", money.BRL, 0, "", money.ErrInvalidAmount},
		{"out of range", "1e30", money.BRL, 0, "", money.ErrInvalidAmount},
		{"invalid currency", "1", money.Code("REAL"), 0, "", money.ErrInvalidCurrency},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := money.Parse(tt.text, tt.currency)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.units, m.Amount())
			assert.Equal(t, tt.expected, m.String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	t.Parallel()
	brl100 := money.MustParse("100", money.BRL)
	brl50 := money.MustParse("50.25", money.BRL)
	usd100 := money.MustParse("100", money.USD)

	t.Run("Add same currency", func(t *testing.T) {
		result, err := brl100.Add(brl50)
		require.NoError(t, err)
		assert.Equal(t, "150.25", result.Format())
	})

	t.Run("Subtract can go negative", func(t *testing.T) {
		result, err := brl50.Subtract(brl100)
		require.NoError(t, err)
		assert.True(t, result.IsNegative())
		assert.Equal(t, "-49.75 BRL", result.String())
	})

	t.Run("mismatched currencies", func(t *testing.T) {
		_, err := brl100.Add(usd100)
		assert.ErrorIs(t, err, money.ErrMismatchedCurrencies)
		_, err = brl100.Subtract(usd100)
		assert.ErrorIs(t, err, money.ErrMismatchedCurrencies)
		_, err = brl100.GreaterThan(usd100)
		assert.ErrorIs(t, err, money.ErrMismatchedCurrencies)
	})

	t.Run("comparisons", func(t *testing.T) {
		gt, err := brl100.GreaterThan(brl50)
		require.NoError(t, err)
		assert.True(t, gt)
		assert.True(t, brl100.Equals(money.MustParse("100.00", money.BRL)))
		assert.False(t, brl100.Equals(usd100))
		assert.True(t, money.Zero(money.BRL).IsZero())
		assert.True(t, brl50.IsPositive())
	})
}

func TestNewFromSmallestUnit(t *testing.T) {
	t.Parallel()
	m, err := money.NewFromSmallestUnit(12345, money.EUR)
	require.NoError(t, err)
	assert.Equal(t, "123.45", m.Decimal().StringFixed(2))

	_, err = money.NewFromSmallestUnit(1, money.Code("eu"))
	assert.ErrorIs(t, err, money.ErrInvalidCurrency)
}

func TestMustParse_Panics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { money.MustParse("x", money.BRL) })
}

func TestMoney_Overflow(t *testing.T) {
	t.Parallel()
	maxBRL, err := money.NewFromSmallestUnit(math.MaxInt64, money.BRL)
	require.NoError(t, err)
	minBRL, err := money.NewFromSmallestUnit(math.MinInt64, money.BRL)
	require.NoError(t, err)
	cent := money.MustParse("0.01", money.BRL)

	_, err = maxBRL.Add(cent)
	assert.ErrorIs(t, err, money.ErrOverflow)
	_, err = minBRL.Add(money.MustParse("-0.01", money.BRL))
	assert.ErrorIs(t, err, money.ErrOverflow)
	_, err = minBRL.Subtract(cent)
	assert.ErrorIs(t, err, money.ErrOverflow)
	_, err = maxBRL.Subtract(money.MustParse("-0.01", money.BRL))
	assert.ErrorIs(t, err, money.ErrOverflow)

	sum, err := maxBRL.Add(money.MustParse("-0.01", money.BRL))
	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64-1), sum.Amount())
	diff, err := minBRL.Subtract(minBRL)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())
}
