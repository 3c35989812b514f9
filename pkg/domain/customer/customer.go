// Package customer models bank customers: who they are and which accounts
// they own.
package customer

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidCustomer is returned when registration data fails validation.
	ErrInvalidCustomer = errors.New("invalid customer")
	// ErrAccountMissing is returned when a customer has not opened any account yet.
	ErrAccountMissing = errors.New("customer has no account")
	// ErrNotFound is returned when no customer has the given id.
	ErrNotFound = errors.New("customer not found")
	// ErrDuplicate is returned when registering an id that is already taken.
	ErrDuplicate = errors.New("customer already registered")
)

var validate = validator.New()

// Registration is the data collected when a customer signs up.
type Registration struct {
	ID        string `validate:"required,max=32"`
	Name      string `validate:"required,max=120"`
	BirthDate string `validate:"max=40"`
	Address   string `validate:"max=200"`
}

// Customer is identified by a tax id and owns an ordered list of accounts.
// Accounts are referenced by number; the bank keeps the account objects.
type Customer struct {
	ID        string
	Name      string
	BirthDate string
	Address   string
	CreatedAt time.Time
	accounts  []int
}

// New validates the registration and returns a customer with no accounts.
func New(r Registration) (*Customer, error) {
	r.ID = strings.TrimSpace(r.ID)
	r.Name = strings.TrimSpace(r.Name)
	r.BirthDate = strings.TrimSpace(r.BirthDate)
	r.Address = strings.TrimSpace(r.Address)
	if err := validate.Struct(r); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCustomer, err)
	}
	return &Customer{
		ID:        r.ID,
		Name:      r.Name,
		BirthDate: r.BirthDate,
		Address:   r.Address,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// AddAccount appends an account number to the customer's accounts.
func (c *Customer) AddAccount(number int) {
	c.accounts = append(c.accounts, number)
}

// Accounts returns the customer's account numbers in opening order.
func (c *Customer) Accounts() []int {
	out := make([]int, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// PrimaryAccount returns the first account the customer opened.
// Deposits, withdrawals and statements always use it.
func (c *Customer) PrimaryAccount() (int, error) {
	if len(c.accounts) == 0 {
		return 0, ErrAccountMissing
	}
	return c.accounts[0], nil
}

// RouteTransaction applies tx to target. Ownership is not checked.
func (c *Customer) RouteTransaction(target account.Target, tx account.Transaction) (account.Outcome, error) {
	return tx.Apply(target)
}
