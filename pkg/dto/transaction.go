package dto

import (
	"time"

	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/amirasaad/banksim/pkg/money"
	"github.com/google/uuid"
)

// TransactionRead is one line of a statement.
type TransactionRead struct {
	ID        uuid.UUID
	Kind      account.Kind
	Amount    money.Money
	Timestamp time.Time
}

// Statement lists the applied transactions of an account in order.
type Statement struct {
	CustomerID    string
	HolderName    string
	AccountNumber int
	Branch        string
	Entries       []TransactionRead
	Balance       money.Money
}

// Receipt is returned by a successful deposit or withdrawal.
type Receipt struct {
	CustomerID    string
	AccountNumber int
	Transaction   TransactionRead
	Balance       money.Money
	Overdrawn     bool
}
