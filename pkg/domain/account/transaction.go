package account

import (
	"fmt"

	"github.com/amirasaad/banksim/pkg/money"
)

// Transaction is a requested deposit or withdrawal of a fixed amount. It is
// built per request, applied once and then either recorded in the account
// history or discarded.
type Transaction struct {
	kind   Kind
	amount money.Money
}

// NewDeposit returns a deposit transaction.
func NewDeposit(amount money.Money) Transaction {
	return Transaction{kind: KindDeposit, amount: amount}
}

// NewWithdrawal returns a withdrawal transaction.
func NewWithdrawal(amount money.Money) Transaction {
	return Transaction{kind: KindWithdrawal, amount: amount}
}

// Kind returns the transaction kind.
func (t Transaction) Kind() Kind { return t.kind }

// Amount returns the requested amount.
func (t Transaction) Amount() money.Money { return t.amount }

// Apply runs the transaction against target. The history entry is appended
// only when the account accepted the balance change.
func (t Transaction) Apply(target Target) (Outcome, error) {
	var (
		out Outcome
		err error
	)
	switch t.kind {
	case KindDeposit:
		out, err = target.Deposit(t.amount)
	case KindWithdrawal:
		out, err = target.Withdraw(t.amount)
	default:
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownTransaction, t.kind)
	}
	if err != nil {
		return Outcome{}, err
	}
	out.Entry = target.History().add(t.kind, t.amount, target.now())
	return out, nil
}
