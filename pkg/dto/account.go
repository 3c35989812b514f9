package dto

import "github.com/amirasaad/banksim/pkg/money"

// AccountRead is a read-only view of an account for listings.
type AccountRead struct {
	Number         int
	Branch         string
	Type           string // "checking" or "account"
	CustomerID     string
	HolderName     string
	Balance        money.Money
	Limit          *money.Money // nil for plain accounts
	MaxWithdrawals int
	Withdrawals    int // withdrawals counted in the current window
}
