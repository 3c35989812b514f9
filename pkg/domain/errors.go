// Package domain maps domain errors to the error kinds reported to callers.
package domain

import (
	"errors"

	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/amirasaad/banksim/pkg/domain/customer"
	"github.com/amirasaad/banksim/pkg/money"
)

// ErrorKind classifies a failed operation.
type ErrorKind string

const (
	KindNone              ErrorKind = ""
	KindInvalidAmount     ErrorKind = "InvalidAmount"
	KindInsufficientFunds ErrorKind = "InsufficientFunds"
	KindLimitExceeded     ErrorKind = "LimitExceeded"
	KindDailyLimitReached ErrorKind = "DailyLimitReached"
	KindCustomerNotFound  ErrorKind = "CustomerNotFound"
	KindDuplicateCustomer ErrorKind = "DuplicateCustomer"
	KindAccountMissing    ErrorKind = "AccountMissing"
	KindInvalidInput      ErrorKind = "InvalidInput"
	KindInternal          ErrorKind = "Internal"
)

// KindOf maps err, possibly wrapped, to its kind. A nil error has KindNone.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, account.ErrInvalidAmount), errors.Is(err, money.ErrInvalidAmount):
		return KindInvalidAmount
	case errors.Is(err, account.ErrInsufficientFunds):
		return KindInsufficientFunds
	case errors.Is(err, account.ErrLimitExceeded):
		return KindLimitExceeded
	case errors.Is(err, account.ErrDailyLimitReached):
		return KindDailyLimitReached
	case errors.Is(err, customer.ErrNotFound):
		return KindCustomerNotFound
	case errors.Is(err, customer.ErrDuplicate):
		return KindDuplicateCustomer
	case errors.Is(err, customer.ErrAccountMissing):
		return KindAccountMissing
	case errors.Is(err, customer.ErrInvalidCustomer), errors.Is(err, money.ErrInvalidCurrency):
		return KindInvalidInput
	default:
		return KindInternal
	}
}

// Result is the outcome of one operation as shown to a user: success, or
// a kind plus a human readable message.
type Result struct {
	OK      bool
	Kind    ErrorKind
	Message string
}

// NewResult builds a Result from the error returned by an operation.
func NewResult(err error) Result {
	if err == nil {
		return Result{OK: true}
	}
	return Result{Kind: KindOf(err), Message: err.Error()}
}
