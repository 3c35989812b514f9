package config

import (
	"fmt"

	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/amirasaad/banksim/pkg/money"
)

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"4"`
	Format     string `envconfig:"FORMAT" default:"text" validate:"oneof=text json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[banksim]"`
}

// Bank holds the rules applied to newly opened accounts.
type Bank struct {
	Branch           string `envconfig:"BRANCH" default:"7777" validate:"required,max=10"`
	Currency         string `envconfig:"CURRENCY" default:"BRL" validate:"len=3,uppercase"`
	CheckingLimit    string `envconfig:"CHECKING_LIMIT" default:"500" validate:"required,numeric"`
	MaxWithdrawals   int    `envconfig:"CHECKING_MAX_WITHDRAWALS" default:"3" validate:"gte=0"`
	OverdraftPolicy  string `envconfig:"OVERDRAFT_POLICY" default:"block" validate:"oneof=block allow"`
	WithdrawalWindow string `envconfig:"WITHDRAWAL_WINDOW" default:"lifetime" validate:"oneof=lifetime calendar_day"`
}

// CurrencyCode returns the configured currency.
func (b *Bank) CurrencyCode() money.Code {
	return money.Code(b.Currency)
}

// Limit parses the per-withdrawal limit of checking accounts.
func (b *Bank) Limit() (money.Money, error) {
	m, err := money.Parse(b.CheckingLimit, b.CurrencyCode())
	if err != nil {
		return money.Money{}, fmt.Errorf("BANK_CHECKING_LIMIT: %w", err)
	}
	return m, nil
}

// Overdraft returns the configured overdraft policy.
func (b *Bank) Overdraft() account.OverdraftPolicy {
	return account.OverdraftPolicy(b.OverdraftPolicy)
}

// Window returns the configured withdrawal window.
func (b *Bank) Window() account.Window {
	return account.Window(b.WithdrawalWindow)
}

type App struct {
	Env  string `envconfig:"APP_ENV" default:"development"`
	Log  *Log   `envconfig:"LOG"`
	Bank *Bank  `envconfig:"BANK"`
}

// DefaultBank returns the rules used when no configuration was loaded.
func DefaultBank() *Bank {
	return &Bank{
		Branch:           account.DefaultBranch,
		Currency:         string(money.DefaultCode),
		CheckingLimit:    account.DefaultLimit,
		MaxWithdrawals:   account.DefaultMaxWithdrawals,
		OverdraftPolicy:  string(account.OverdraftBlock),
		WithdrawalWindow: string(account.WindowLifetime),
	}
}
