package account

import "errors"

var (
	// ErrInvalidAmount is returned when a deposit or withdrawal amount is not positive.
	ErrInvalidAmount = errors.New("transaction amount must be positive")

	// ErrInsufficientFunds is returned when a withdrawal exceeds the balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrLimitExceeded is returned when a checking withdrawal exceeds the per-withdrawal limit.
	ErrLimitExceeded = errors.New("withdrawal exceeds account limit")

	// ErrDailyLimitReached is returned when a checking account has used up its withdrawals.
	ErrDailyLimitReached = errors.New("withdrawal count limit reached")

	// ErrUnknownTransaction is returned when applying a transaction with no known kind.
	ErrUnknownTransaction = errors.New("unknown transaction kind")

	// ErrInvalidAccount is returned by the builder when required fields are missing or invalid.
	ErrInvalidAccount = errors.New("invalid account")
)
