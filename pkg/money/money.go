// Package money provides functionality for handling monetary values.
//
// It is a value object that represents a monetary value in a specific currency.
// Invariants:
//   - Amount is always stored in the smallest currency unit (e.g., cents for BRL).
//   - Currency code must be valid ISO 4217 (3 uppercase letters).
//   - All arithmetic operations require matching currencies.
package money

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount represents a monetary amount as an integer in the
// smallest currency unit (e.g., centavos for BRL).
type Amount = int64

// ToCurrency converts a Code to a Currency with default decimals
func (c Code) ToCurrency() Currency {
	switch c {
	case JPY:
		return Currency{Code: c, Decimals: 0}
	default:
		return Currency{Code: c, Decimals: 2}
	}
}

// IsValid checks if the currency code is valid
func (c Code) IsValid() bool {
	if len(c) != 3 {
		return false
	}
	return c[0] >= 'A' && c[0] <= 'Z' &&
		c[1] >= 'A' && c[1] <= 'Z' &&
		c[2] >= 'A' && c[2] <= 'Z'
}

// String returns the string representation of the currency code.
func (c Code) String() string {
	return string(c)
}

// Currency represents a monetary unit with its standard decimal places
type Currency struct {
	Code     Code // 3-letter ISO 4217 code (e.g., "BRL")
	Decimals int  // Number of decimal places (0-8)
}

// IsValid checks if the currency is valid.
func (c Currency) IsValid() bool {
	if c.Decimals < 0 || c.Decimals > 8 {
		return false
	}
	return c.Code.IsValid()
}

// DefaultCode is the currency used when none is configured.
var DefaultCode = BRL

// Money represents a monetary value in a specific currency.
type Money struct {
	amount   Amount
	currency Currency
}

func currencyOf(code Code) (Currency, error) {
	if code == "" {
		code = DefaultCode
	}
	c := code.ToCurrency()
	if !c.IsValid() {
		return Currency{}, fmt.Errorf("%w: %q", ErrInvalidCurrency, code)
	}
	return c, nil
}

// Parse reads a decimal amount typed by a user (e.g. "200", "99.90", "-5")
// into Money. The text must not carry more decimal places than the currency
// allows.
func Parse(text string, code Code) (Money, error) {
	c, err := currencyOf(code)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidAmount, text)
	}
	places := int32(c.Decimals)
	if !d.Round(places).Equal(d) {
		return Money{}, fmt.Errorf("%w: %q has more than %d decimal places", ErrInvalidAmount, text, c.Decimals)
	}
	units := d.Shift(places)
	if units.GreaterThan(decimal.NewFromInt(math.MaxInt64)) || units.LessThan(decimal.NewFromInt(math.MinInt64)) {
		return Money{}, fmt.Errorf("%w: %q is out of range", ErrInvalidAmount, text)
	}
	return Money{amount: units.IntPart(), currency: c}, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(text string, code Code) Money {
	m, err := Parse(text, code)
	if err != nil {
		panic(fmt.Sprintf("money.MustParse(%q, %v): %v", text, code, err))
	}
	return m
}

// NewFromSmallestUnit creates a new Money object from the smallest currency unit.
func NewFromSmallestUnit(amount int64, code Code) (Money, error) {
	c, err := currencyOf(code)
	if err != nil {
		return Money{}, err
	}
	return Money{amount: amount, currency: c}, nil
}

// Zero creates a Money object with zero amount in the specified currency.
func Zero(code Code) Money {
	c, err := currencyOf(code)
	if err != nil {
		c = DefaultCode.ToCurrency()
	}
	return Money{currency: c}
}

// Amount returns the amount of the Money object in the smallest currency unit.
func (m Money) Amount() Amount {
	return m.amount
}

// Decimal returns the amount in the main currency unit as an exact decimal.
func (m Money) Decimal() decimal.Decimal {
	return decimal.New(m.amount, -int32(m.currency.Decimals))
}

// Currency returns the currency of the Money object.
func (m Money) Currency() Currency {
	return m.currency
}

// CurrencyCode returns the currency code of the Money object.
func (m Money) CurrencyCode() Code {
	return m.currency.Code
}

// IsSameCurrency checks if both values share a currency.
func (m Money) IsSameCurrency(other Money) bool {
	return m.currency == other.currency
}

// Add returns a new Money object with the sum of amounts.
// Invariants enforced:
//   - Currencies must match.
//   - The sum must fit in an int64, otherwise ErrOverflow.
func (m Money) Add(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, fmt.Errorf(
			"%w: cannot add %s and %s",
			ErrMismatchedCurrencies,
			m.currency.Code,
			other.currency.Code,
		)
	}
	sum := m.amount + other.amount
	if (other.amount > 0 && sum < m.amount) || (other.amount < 0 && sum > m.amount) {
		return Money{}, fmt.Errorf("%w: %s + %s", ErrOverflow, m, other)
	}
	return Money{amount: sum, currency: m.currency}, nil
}

// Subtract returns a new Money object with the difference of amounts.
// The result can be negative if the subtrahend is larger than the minuend.
// A result outside the int64 range returns ErrOverflow.
func (m Money) Subtract(other Money) (Money, error) {
	if !m.IsSameCurrency(other) {
		return Money{}, fmt.Errorf(
			"%w: cannot subtract %s and %s",
			ErrMismatchedCurrencies,
			m.currency.Code,
			other.currency.Code,
		)
	}
	diff := m.amount - other.amount
	if (other.amount > 0 && diff > m.amount) || (other.amount < 0 && diff < m.amount) {
		return Money{}, fmt.Errorf("%w: %s - %s", ErrOverflow, m, other)
	}
	return Money{amount: diff, currency: m.currency}, nil
}

// GreaterThan checks if the current Money object is greater than another Money object.
func (m Money) GreaterThan(other Money) (bool, error) {
	if !m.IsSameCurrency(other) {
		return false, fmt.Errorf(
			"%w: cannot compare %s and %s",
			ErrMismatchedCurrencies,
			m.currency.Code,
			other.currency.Code,
		)
	}
	return m.amount > other.amount, nil
}

// Equals reports whether both values have the same currency and amount.
func (m Money) Equals(other Money) bool {
	return m.currency == other.currency && m.amount == other.amount
}

// IsPositive returns true if the amount is greater than zero.
func (m Money) IsPositive() bool {
	return m.amount > 0
}

// IsNegative returns true if the amount is less than zero.
func (m Money) IsNegative() bool {
	return m.amount < 0
}

// IsZero returns true if the amount is zero.
func (m Money) IsZero() bool {
	return m.amount == 0
}

// Format renders the amount with the currency's decimal places and no code,
// e.g. "200.00".
func (m Money) Format() string {
	return m.Decimal().StringFixed(int32(m.currency.Decimals))
}

// String returns a string representation of the Money object, e.g. "200.00 BRL".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Format(), m.currency.Code)
}
