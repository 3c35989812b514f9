// Package events defines the domain events emitted by the bank service.
package events

import (
	"time"

	"github.com/amirasaad/banksim/pkg/domain"
	"github.com/amirasaad/banksim/pkg/money"
	"github.com/google/uuid"
)

// Meta is embedded in every event.
type Meta struct {
	ID         uuid.UUID
	OccurredAt time.Time
}

// NewMeta stamps a new event id and time.
func NewMeta(at time.Time) Meta {
	return Meta{ID: uuid.New(), OccurredAt: at}
}

// CustomerRegistered is emitted after a customer was added to the registry.
type CustomerRegistered struct {
	Meta
	CustomerID string
	Name       string
}

// AccountOpened is emitted after a checking account was opened.
type AccountOpened struct {
	Meta
	CustomerID     string
	Number         int
	Branch         string
	Limit          money.Money
	MaxWithdrawals int
}

// DepositApplied is emitted after a deposit changed a balance.
type DepositApplied struct {
	Meta
	CustomerID    string
	AccountNumber int
	Amount        money.Money
	Balance       money.Money
}

// WithdrawalApplied is emitted after a withdrawal changed a balance.
type WithdrawalApplied struct {
	Meta
	CustomerID    string
	AccountNumber int
	Amount        money.Money
	Balance       money.Money
}

// AccountOverdrawn is emitted when a withdrawal larger than the balance was
// let through by the overdraft policy. It follows the WithdrawalApplied event.
type AccountOverdrawn struct {
	Meta
	CustomerID    string
	AccountNumber int
	Amount        money.Money
	Balance       money.Money
}

// TransactionRejected is emitted when a deposit or withdrawal failed.
// AccountNumber is zero when the failure happened before an account was selected.
type TransactionRejected struct {
	Meta
	CustomerID    string
	AccountNumber int
	Operation     string
	Kind          domain.ErrorKind
	Reason        string
}

func (CustomerRegistered) Type() string  { return EventTypeCustomerRegistered.String() }
func (AccountOpened) Type() string       { return EventTypeAccountOpened.String() }
func (DepositApplied) Type() string      { return EventTypeDepositApplied.String() }
func (WithdrawalApplied) Type() string   { return EventTypeWithdrawalApplied.String() }
func (AccountOverdrawn) Type() string    { return EventTypeAccountOverdrawn.String() }
func (TransactionRejected) Type() string { return EventTypeTransactionRejected.String() }
