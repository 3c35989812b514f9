package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/banksim/pkg/money"
)

// Checking account defaults.
const (
	DefaultLimit          = "500"
	DefaultMaxWithdrawals = 3
)

// Window is the period a checking account's withdrawal count applies to.
type Window string

const (
	// WindowLifetime counts every withdrawal ever recorded, so the cap never resets.
	WindowLifetime Window = "lifetime"
	// WindowCalendarDay counts only withdrawals recorded on the current local day.
	WindowCalendarDay Window = "calendar_day"
)

// IsValid reports whether w is a known window.
func (w Window) IsValid() bool {
	return w == WindowLifetime || w == WindowCalendarDay
}

// Checking is an account with a per-withdrawal limit and a cap on the number
// of withdrawals.
type Checking struct {
	*Account
	limit          money.Money
	maxWithdrawals int
	window         Window
}

// Limit returns the per-withdrawal limit.
func (c *Checking) Limit() money.Money { return c.limit }

// MaxWithdrawals returns the withdrawal cap.
func (c *Checking) MaxWithdrawals() int { return c.maxWithdrawals }

// Window returns the period the withdrawal cap applies to.
func (c *Checking) Window() Window { return c.window }

// Type names the account type for listings.
func (c *Checking) Type() string { return "checking" }

// Withdrawals returns how many withdrawals count against the cap right now.
func (c *Checking) Withdrawals() int {
	if c.window == WindowCalendarDay {
		now := c.now()
		midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		return c.history.CountSince(KindWithdrawal, midnight)
	}
	return c.history.Count(KindWithdrawal)
}

// Withdraw checks the limit first, then the withdrawal cap, and only then
// hands over to Account.Withdraw.
func (c *Checking) Withdraw(amount money.Money) (Outcome, error) {
	over, err := amount.GreaterThan(c.limit)
	if err != nil {
		return Outcome{}, fmt.Errorf("%w: %w", ErrInvalidAmount, err)
	}
	if over {
		return Outcome{}, fmt.Errorf("%w: %s > %s", ErrLimitExceeded, amount, c.limit)
	}
	if n := c.Withdrawals(); n >= c.maxWithdrawals {
		return Outcome{}, fmt.Errorf("%w: %d of %d used", ErrDailyLimitReached, n, c.maxWithdrawals)
	}
	return c.Account.Withdraw(amount)
}

// BuildChecking validates the collected fields and returns a checking account
// with a zero balance.
func (b *Builder) BuildChecking() (*Checking, error) {
	base, err := b.Build()
	if err != nil {
		return nil, err
	}
	limit := money.MustParse(DefaultLimit, base.balance.CurrencyCode())
	if b.limit != nil {
		limit = *b.limit
	}
	if !limit.IsSameCurrency(base.balance) {
		return nil, fmt.Errorf("%w: limit currency %s differs from account currency %s",
			ErrInvalidAccount, limit.CurrencyCode(), base.balance.CurrencyCode())
	}
	if limit.IsNegative() {
		return nil, fmt.Errorf("%w: limit must not be negative", ErrInvalidAccount)
	}
	if b.maxWithdrawals < 0 {
		return nil, fmt.Errorf("%w: max withdrawals must not be negative", ErrInvalidAccount)
	}
	if !b.window.IsValid() {
		return nil, fmt.Errorf("%w: unknown withdrawal window %q", ErrInvalidAccount, b.window)
	}
	return &Checking{
		Account:        base,
		limit:          limit,
		maxWithdrawals: b.maxWithdrawals,
		window:         b.window,
	}, nil
}
