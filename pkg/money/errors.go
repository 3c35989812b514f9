package money

import "errors"

// Common money package errors
var (
	// ErrInvalidAmount is returned when an amount cannot be parsed or has
	// more decimal places than the currency allows.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrInvalidCurrency is returned for a malformed currency code.
	ErrInvalidCurrency = errors.New("invalid currency code")

	// ErrMismatchedCurrencies is returned when performing operations on money with
	// different currencies
	ErrMismatchedCurrencies = errors.New("mismatched currencies")

	// ErrOverflow is returned when a result does not fit in the smallest-unit range.
	ErrOverflow = errors.New("amount overflow")
)
