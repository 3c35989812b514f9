// Package bank provides the operations of the bank: registering customers,
// opening checking accounts, moving money and reading statements.
//
// Every operation runs under one lock, so the service can be shared between
// goroutines. Domain events are emitted after the lock is released; handlers
// may call back into the service.
package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/banksim/pkg/config"
	"github.com/amirasaad/banksim/pkg/domain"
	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/amirasaad/banksim/pkg/domain/customer"
	"github.com/amirasaad/banksim/pkg/domain/events"
	"github.com/amirasaad/banksim/pkg/dto"
	"github.com/amirasaad/banksim/pkg/eventbus"
	"github.com/amirasaad/banksim/pkg/money"
	"github.com/amirasaad/banksim/pkg/registry"
)

// ErrAccountNotRegistered means a customer refers to an account number the
// bank does not know. It indicates a bug, not a user error.
var ErrAccountNotRegistered = errors.New("account not registered")

// Service is the bank: the customer and account registries plus the rules
// applied to new accounts.
type Service struct {
	mu        sync.Mutex
	customers *registry.Table[string, *customer.Customer]
	accounts  *registry.Table[int, account.Target]
	cfg       *config.Bank
	limit     money.Money
	bus       eventbus.Bus
	logger    *slog.Logger
	clock     func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock sets the time source for history entries and events.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) { s.clock = clock }
}

// NewService creates a bank with no customers. Missing dependencies fall
// back to the default rules, slog.Default and a bus that drops events.
func NewService(deps config.Deps, opts ...Option) (*Service, error) {
	cfg := config.DefaultBank()
	if deps.Config != nil && deps.Config.Bank != nil {
		cfg = deps.Config.Bank
	}
	limit, err := cfg.Limit()
	if err != nil {
		return nil, err
	}
	if limit.IsNegative() {
		return nil, fmt.Errorf("invalid bank rules: negative checking limit %s", limit)
	}
	if !cfg.Overdraft().IsValid() || !cfg.Window().IsValid() {
		return nil, fmt.Errorf("invalid bank rules: overdraft %q, window %q", cfg.OverdraftPolicy, cfg.WithdrawalWindow)
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bus := deps.EventBus
	if bus == nil {
		bus = discardBus{}
	}
	s := &Service{
		customers: registry.New[string, *customer.Customer](),
		accounts:  registry.New[int, account.Target](),
		cfg:       cfg,
		limit:     limit,
		bus:       bus,
		logger:    logger.With("service", "bank"),
		clock:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Currency returns the currency all accounts are held in.
func (s *Service) Currency() money.Code {
	return s.cfg.CurrencyCode()
}

// RegisterCustomer validates r and adds a customer with no accounts.
func (s *Service) RegisterCustomer(ctx context.Context, r customer.Registration) (*dto.CustomerRead, error) {
	logger := s.logger.With("op", "register_customer", "customer", r.ID)
	c, err := customer.New(r)
	if err != nil {
		logger.Warn("registration rejected", "error", err)
		return nil, err
	}
	c.CreatedAt = s.clock().UTC()

	s.mu.Lock()
	if err := s.customers.Register(c.ID, c); err != nil {
		s.mu.Unlock()
		err = fmt.Errorf("%w: %s", customer.ErrDuplicate, c.ID)
		logger.Warn("registration rejected", "error", err)
		return nil, err
	}
	read := customerRead(c)
	s.mu.Unlock()

	logger.Info("customer registered")
	s.emit(ctx, events.CustomerRegistered{
		Meta:       events.NewMeta(s.clock()),
		CustomerID: c.ID,
		Name:       c.Name,
	})
	return &read, nil
}

// OpenCheckingAccount opens a checking account for an existing customer.
// Account numbers are assigned sequentially starting at 1.
func (s *Service) OpenCheckingAccount(ctx context.Context, customerID string) (*dto.AccountRead, error) {
	logger := s.logger.With("op", "open_checking_account", "customer", customerID)

	s.mu.Lock()
	c, ok := s.customers.Get(customerID)
	if !ok {
		s.mu.Unlock()
		err := fmt.Errorf("%w: %s", customer.ErrNotFound, customerID)
		logger.Warn("account not opened", "error", err)
		return nil, err
	}
	acc, err := account.New(s.nextAccountNumber(), c.ID).
		WithBranch(s.cfg.Branch).
		WithCurrency(s.cfg.CurrencyCode()).
		WithOverdraftPolicy(s.cfg.Overdraft()).
		WithClock(s.clock).
		WithLimit(s.limit).
		WithMaxWithdrawals(s.cfg.MaxWithdrawals).
		WithWindow(s.cfg.Window()).
		BuildChecking()
	if err == nil {
		err = s.accounts.Register(acc.Number(), acc)
	}
	if err != nil {
		s.mu.Unlock()
		logger.Error("account not opened", "error", err)
		return nil, err
	}
	c.AddAccount(acc.Number())
	read := s.accountRead(acc)
	s.mu.Unlock()

	logger.Info("checking account opened", "account", acc.Number())
	s.emit(ctx, events.AccountOpened{
		Meta:           events.NewMeta(s.clock()),
		CustomerID:     c.ID,
		Number:         acc.Number(),
		Branch:         acc.Branch(),
		Limit:          acc.Limit(),
		MaxWithdrawals: acc.MaxWithdrawals(),
	})
	return &read, nil
}

// Deposit adds amount to the customer's first account.
func (s *Service) Deposit(ctx context.Context, customerID string, amount money.Money) (*dto.Receipt, error) {
	return s.transact(ctx, customerID, account.NewDeposit(amount))
}

// Withdraw removes amount from the customer's first account.
func (s *Service) Withdraw(ctx context.Context, customerID string, amount money.Money) (*dto.Receipt, error) {
	return s.transact(ctx, customerID, account.NewWithdrawal(amount))
}

func (s *Service) transact(ctx context.Context, customerID string, tx account.Transaction) (*dto.Receipt, error) {
	logger := s.logger.With(
		"op", string(tx.Kind()),
		"customer", customerID,
		"amount", tx.Amount().String(),
	)
	receipt, evs, err := s.apply(customerID, tx)
	s.emit(ctx, evs...)
	if err != nil {
		logger.Warn("transaction rejected", "kind", domain.KindOf(err), "error", err)
		return nil, err
	}
	logger.Info("transaction applied",
		"account", receipt.AccountNumber,
		"balance", receipt.Balance.String(),
		"overdrawn", receipt.Overdrawn,
	)
	return receipt, nil
}

// apply checks, in order, that the customer exists, that the amount is
// positive and that the customer has an account, then routes tx to the
// first account. It returns the events to emit in every case.
func (s *Service) apply(customerID string, tx account.Transaction) (*dto.Receipt, []eventbus.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reject := func(number int, err error) (*dto.Receipt, []eventbus.Event, error) {
		return nil, []eventbus.Event{events.TransactionRejected{
			Meta:          events.NewMeta(s.clock()),
			CustomerID:    customerID,
			AccountNumber: number,
			Operation:     string(tx.Kind()),
			Kind:          domain.KindOf(err),
			Reason:        err.Error(),
		}}, err
	}

	c, ok := s.customers.Get(customerID)
	if !ok {
		return reject(0, fmt.Errorf("%w: %s", customer.ErrNotFound, customerID))
	}
	if !tx.Amount().IsPositive() {
		return reject(0, fmt.Errorf("%w: %s must be greater than zero", account.ErrInvalidAmount, tx.Amount().Format()))
	}
	number, err := c.PrimaryAccount()
	if err != nil {
		return reject(0, fmt.Errorf("%w: %s", err, customerID))
	}
	target, ok := s.accounts.Get(number)
	if !ok {
		return reject(number, fmt.Errorf("%w: %d", ErrAccountNotRegistered, number))
	}

	out, err := c.RouteTransaction(target, tx)
	if err != nil {
		return reject(number, err)
	}

	receipt := &dto.Receipt{
		CustomerID:    c.ID,
		AccountNumber: number,
		Transaction:   transactionRead(out.Entry),
		Balance:       out.Balance,
		Overdrawn:     out.Overdrawn,
	}
	meta := events.NewMeta(out.Entry.Timestamp)
	var evs []eventbus.Event
	switch tx.Kind() {
	case account.KindDeposit:
		evs = append(evs, events.DepositApplied{
			Meta: meta, CustomerID: c.ID, AccountNumber: number, Amount: tx.Amount(), Balance: out.Balance,
		})
	case account.KindWithdrawal:
		evs = append(evs, events.WithdrawalApplied{
			Meta: meta, CustomerID: c.ID, AccountNumber: number, Amount: tx.Amount(), Balance: out.Balance,
		})
	}
	if out.Overdrawn {
		evs = append(evs, events.AccountOverdrawn{
			Meta:          events.NewMeta(out.Entry.Timestamp),
			CustomerID:    c.ID,
			AccountNumber: number,
			Amount:        tx.Amount(),
			Balance:       out.Balance,
		})
	}
	return receipt, evs, nil
}

// Statement returns the history and balance of the customer's first account.
func (s *Service) Statement(ctx context.Context, customerID string) (*dto.Statement, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.customers.Get(customerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", customer.ErrNotFound, customerID)
	}
	number, err := c.PrimaryAccount()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, customerID)
	}
	target, ok := s.accounts.Get(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrAccountNotRegistered, number)
	}

	entries := target.History().Entries()
	st := &dto.Statement{
		CustomerID:    c.ID,
		HolderName:    c.Name,
		AccountNumber: number,
		Branch:        target.Branch(),
		Entries:       make([]dto.TransactionRead, 0, len(entries)),
		Balance:       target.Balance(),
	}
	for _, e := range entries {
		st.Entries = append(st.Entries, transactionRead(e))
	}
	return st, nil
}

// ListCustomers returns all customers in registration order.
func (s *Service) ListCustomers(ctx context.Context) []dto.CustomerRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.customers.Values()
	out := make([]dto.CustomerRead, 0, len(all))
	for _, c := range all {
		out = append(out, customerRead(c))
	}
	return out
}

// ListAccounts returns all accounts in opening order.
func (s *Service) ListAccounts(ctx context.Context) []dto.AccountRead {
	s.mu.Lock()
	defer s.mu.Unlock()
	all := s.accounts.Values()
	out := make([]dto.AccountRead, 0, len(all))
	for _, a := range all {
		out = append(out, s.accountRead(a))
	}
	return out
}

// FindCustomer looks a customer up by id.
func (s *Service) FindCustomer(id string) (dto.CustomerRead, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.customers.Get(id)
	if !ok {
		return dto.CustomerRead{}, false
	}
	return customerRead(c), true
}

// NextAccountNumber returns the number the next opened account will get.
func (s *Service) NextAccountNumber() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextAccountNumber()
}

func (s *Service) nextAccountNumber() int {
	return s.accounts.Count() + 1
}

func (s *Service) emit(ctx context.Context, evs ...eventbus.Event) {
	for _, e := range evs {
		if err := s.bus.Emit(ctx, e); err != nil {
			s.logger.Error("event handler failed", "type", e.Type(), "error", err)
		}
	}
}

func (s *Service) accountRead(a account.Target) dto.AccountRead {
	read := dto.AccountRead{
		Number:     a.Number(),
		Branch:     a.Branch(),
		Type:       a.Type(),
		CustomerID: a.CustomerID(),
		Balance:    a.Balance(),
	}
	if c, ok := s.customers.Get(a.CustomerID()); ok {
		read.HolderName = c.Name
	}
	if chk, ok := a.(*account.Checking); ok {
		limit := chk.Limit()
		read.Limit = &limit
		read.MaxWithdrawals = chk.MaxWithdrawals()
		read.Withdrawals = chk.Withdrawals()
	}
	return read
}

func customerRead(c *customer.Customer) dto.CustomerRead {
	return dto.CustomerRead{
		ID:        c.ID,
		Name:      c.Name,
		BirthDate: c.BirthDate,
		Address:   c.Address,
		Accounts:  len(c.Accounts()),
		CreatedAt: c.CreatedAt,
	}
}

func transactionRead(e account.Entry) dto.TransactionRead {
	return dto.TransactionRead{
		ID:        e.ID,
		Kind:      e.Kind,
		Amount:    e.Amount,
		Timestamp: e.Timestamp,
	}
}

type discardBus struct{}

func (discardBus) Register(string, eventbus.HandlerFunc) {}
func (discardBus) Emit(context.Context, eventbus.Event) error { return nil }
