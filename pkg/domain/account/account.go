package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/banksim/pkg/money"
)

// DefaultBranch is the branch code attached to every account unless configured otherwise.
const DefaultBranch = "7777"

// OverdraftPolicy decides what a plain account does when a withdrawal exceeds its balance.
type OverdraftPolicy string

const (
	// OverdraftBlock rejects the withdrawal with ErrInsufficientFunds.
	OverdraftBlock OverdraftPolicy = "block"
	// OverdraftAllow debits anyway and flags the Outcome as overdrawn.
	OverdraftAllow OverdraftPolicy = "allow"
)

// IsValid reports whether p is a known policy.
func (p OverdraftPolicy) IsValid() bool {
	return p == OverdraftBlock || p == OverdraftAllow
}

// Outcome describes a balance change that was applied.
type Outcome struct {
	Balance money.Money // balance after the change
	// Overdrawn is set when the withdrawal was larger than the balance and
	// the overdraft policy let it through.
	Overdrawn bool
	// Entry is the history entry written by Transaction.Apply.
	Entry Entry
}

// Target is an account a Transaction can be applied to. It is implemented by
// *Account and *Checking.
type Target interface {
	Number() int
	Branch() string
	CustomerID() string
	Balance() money.Money
	History() *History
	Type() string
	Deposit(amount money.Money) (Outcome, error)
	Withdraw(amount money.Money) (Outcome, error)
	now() time.Time
}

// Account holds a balance for one customer.
//
// Invariants:
//   - Number is positive and unique within a bank.
//   - The account refers to its customer by id only; the customer owns the list of accounts.
//   - The balance only goes negative under OverdraftAllow.
type Account struct {
	number     int
	branch     string
	customerID string
	balance    money.Money
	history    History
	overdraft  OverdraftPolicy
	clock      func() time.Time
}

// Number returns the account number.
func (a *Account) Number() int { return a.number }

// Branch returns the branch code.
func (a *Account) Branch() string { return a.branch }

// CustomerID returns the id of the owning customer.
func (a *Account) CustomerID() string { return a.customerID }

// Balance returns the current balance.
func (a *Account) Balance() money.Money { return a.balance }

// History returns the account's transaction log.
func (a *Account) History() *History { return &a.history }

// Type names the account type for listings.
func (a *Account) Type() string { return "account" }

func (a *Account) now() time.Time { return a.clock() }

// Deposit adds a positive amount to the balance.
func (a *Account) Deposit(amount money.Money) (Outcome, error) {
	if !amount.IsPositive() {
		return Outcome{}, ErrInvalidAmount
	}
	bal, err := a.balance.Add(amount)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	a.balance = bal
	return Outcome{Balance: bal}, nil
}

// Withdraw removes a positive amount from the balance. When the amount is
// larger than the balance the overdraft policy decides between rejecting
// with ErrInsufficientFunds and debiting into a negative balance.
func (a *Account) Withdraw(amount money.Money) (Outcome, error) {
	if !amount.IsPositive() {
		return Outcome{}, ErrInvalidAmount
	}
	overdrawn, err := amount.GreaterThan(a.balance)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if overdrawn && a.overdraft != OverdraftAllow {
		return Outcome{}, ErrInsufficientFunds
	}
	bal, err := a.balance.Subtract(amount)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	a.balance = bal
	return Outcome{Balance: bal, Overdrawn: overdrawn}, nil
}

// Builder provides a fluent API for constructing Account and Checking instances.
type Builder struct {
	number         int
	customerID     string
	branch         string
	currency       money.Code
	overdraft      OverdraftPolicy
	clock          func() time.Time
	limit          *money.Money
	maxWithdrawals int
	window         Window
}

// New starts building the account with the given number for the given customer.
func New(number int, customerID string) *Builder {
	return &Builder{
		number:         number,
		customerID:     customerID,
		branch:         DefaultBranch,
		currency:       money.DefaultCode,
		overdraft:      OverdraftBlock,
		clock:          time.Now,
		maxWithdrawals: DefaultMaxWithdrawals,
		window:         WindowLifetime,
	}
}

// WithBranch overrides the branch code.
func (b *Builder) WithBranch(branch string) *Builder {
	b.branch = branch
	return b
}

// WithCurrency sets the currency of the balance.
func (b *Builder) WithCurrency(code money.Code) *Builder {
	b.currency = code
	return b
}

// WithOverdraftPolicy sets what happens on withdrawals larger than the balance.
func (b *Builder) WithOverdraftPolicy(p OverdraftPolicy) *Builder {
	b.overdraft = p
	return b
}

// WithClock sets the time source used for history timestamps.
func (b *Builder) WithClock(clock func() time.Time) *Builder {
	b.clock = clock
	return b
}

// WithLimit sets the per-withdrawal limit of a checking account.
func (b *Builder) WithLimit(limit money.Money) *Builder {
	b.limit = &limit
	return b
}

// WithMaxWithdrawals sets how many withdrawals a checking account allows per window.
func (b *Builder) WithMaxWithdrawals(n int) *Builder {
	b.maxWithdrawals = n
	return b
}

// WithWindow sets the period the withdrawal count applies to.
func (b *Builder) WithWindow(w Window) *Builder {
	b.window = w
	return b
}

// Build validates the collected fields and returns a plain account with a zero balance.
func (b *Builder) Build() (*Account, error) {
	if b.number <= 0 {
		return nil, fmt.Errorf("%w: number must be positive, got %d", ErrInvalidAccount, b.number)
	}
	if b.customerID == "" {
		return nil, fmt.Errorf("%w: customer id is required", ErrInvalidAccount)
	}
	if b.branch == "" {
		return nil, fmt.Errorf("%w: branch is required", ErrInvalidAccount)
	}
	if !b.overdraft.IsValid() {
		return nil, fmt.Errorf("%w: unknown overdraft policy %q", ErrInvalidAccount, b.overdraft)
	}
	if b.clock == nil {
		b.clock = time.Now
	}
	zero, err := money.NewFromSmallestUnit(0, b.currency)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidAccount, err)
	}
	return &Account{
		number:     b.number,
		branch:     b.branch,
		customerID: b.customerID,
		balance:    zero,
		overdraft:  b.overdraft,
		clock:      b.clock,
	}, nil
}
