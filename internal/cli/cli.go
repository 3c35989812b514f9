// Package cli implements the interactive text menu of the bank.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/amirasaad/banksim/pkg/domain"
	"github.com/amirasaad/banksim/pkg/domain/customer"
	"github.com/amirasaad/banksim/pkg/dto"
	"github.com/amirasaad/banksim/pkg/money"
	"github.com/fatih/color"
)

// Bank is what the menu needs from the bank service.
type Bank interface {
	Currency() money.Code
	RegisterCustomer(ctx context.Context, r customer.Registration) (*dto.CustomerRead, error)
	OpenCheckingAccount(ctx context.Context, customerID string) (*dto.AccountRead, error)
	Deposit(ctx context.Context, customerID string, amount money.Money) (*dto.Receipt, error)
	Withdraw(ctx context.Context, customerID string, amount money.Money) (*dto.Receipt, error)
	Statement(ctx context.Context, customerID string) (*dto.Statement, error)
	ListCustomers(ctx context.Context) []dto.CustomerRead
	ListAccounts(ctx context.Context) []dto.AccountRead
	FindCustomer(id string) (dto.CustomerRead, bool)
}

const (
	timestampLayout = "02-01-2006 15:04:05"
	separator       = "-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-=-"
)

const menu = `
======= BANKSIM =======
Welcome! Which operation
would you like to do?

1. Deposit
2. Withdraw
3. Statement
4. New customer
5. New checking account
6. List customers
7. List accounts
8. Quit
=======================`

// Menu reads options and answers from in and writes everything to out.
type Menu struct {
	bank    Bank
	in      *bufio.Scanner
	lines   chan line
	start   sync.Once
	out     io.Writer
	logger  *slog.Logger
	success *color.Color
	failure *color.Color
	warning *color.Color
	title   *color.Color
}

// New creates a menu. Colors are only written when colorize is set.
// Failed operations are always reported; call Subscribe to also print
// successful registrations, openings, deposits and withdrawals.
func New(bank Bank, in io.Reader, out io.Writer, colorize bool, logger *slog.Logger) *Menu {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Menu{
		bank:    bank,
		in:      bufio.NewScanner(in),
		lines:   make(chan line),
		out:     out,
		logger:  logger.With("component", "menu"),
		success: color.New(color.FgGreen, color.Bold),
		failure: color.New(color.FgRed, color.Bold),
		warning: color.New(color.FgYellow),
		title:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{m.success, m.failure, m.warning, m.title} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return m
}

// Run shows the menu until the user quits, the input ends or ctx is done.
// Failed operations are reported and the loop goes on.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.title.Fprintln(m.out, menu)
		option, err := m.readLine(ctx)
		if err != nil {
			return ignoreEOF(err)
		}
		m.logger.Debug("option selected", "option", option)

		switch option {
		case "1":
			err = m.deposit(ctx)
		case "2":
			err = m.withdraw(ctx)
		case "3":
			err = m.statement(ctx)
		case "4":
			err = m.registerCustomer(ctx)
		case "5":
			err = m.openCheckingAccount(ctx)
		case "6":
			m.listCustomers(ctx)
		case "7":
			m.listAccounts(ctx)
		case "8":
			m.success.Fprintln(m.out, "*** Thank you for banking with us, see you next time! ***")
			return nil
		default:
			m.fail("Invalid option, please choose again!")
		}
		if err != nil {
			return ignoreEOF(err)
		}
	}
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

type line struct {
	text string
	err  error
}

// scan feeds input lines to m.lines. It runs on its own goroutine because
// a read from the terminal cannot be interrupted.
func (m *Menu) scan() {
	defer close(m.lines)
	for m.in.Scan() {
		m.lines <- line{text: m.in.Text()}
	}
	if err := m.in.Err(); err != nil {
		m.lines <- line{err: err}
	}
}

// readLine waits for the next input line or for ctx to be done, whichever
// comes first. Input that arrives together with the cancellation is dropped.
func (m *Menu) readLine(ctx context.Context) (string, error) {
	m.start.Do(func() { go m.scan() })
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case l, ok := <-m.lines:
		if !ok {
			return "", io.EOF
		}
		if l.err != nil {
			return "", l.err
		}
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return strings.TrimSpace(l.text), nil
	}
}

func (m *Menu) prompt(ctx context.Context, label string) (string, error) {
	fmt.Fprintf(m.out, "%s => ", label)
	return m.readLine(ctx)
}

func (m *Menu) fail(msg string) {
	m.failure.Fprintf(m.out, "[ERROR] >> %s\n", msg)
}

// report prints the message for a failed operation.
func (m *Menu) report(err error) {
	m.fail(Describe(err))
}

// Describe returns the message shown to a user for err.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	if msg := describeKind(domain.KindOf(err)); msg != "" {
		return msg
	}
	return err.Error()
}

// describeKind returns "" for kinds without a fixed message.
func describeKind(kind domain.ErrorKind) string {
	switch kind {
	case domain.KindInvalidAmount:
		return "The amount entered is invalid."
	case domain.KindInsufficientFunds:
		return "You do not have enough balance for this withdrawal."
	case domain.KindLimitExceeded:
		return "The withdrawal amount exceeds your limit."
	case domain.KindDailyLimitReached:
		return "The daily withdrawal limit has been reached."
	case domain.KindCustomerNotFound:
		return "No customer was found with the given id."
	case domain.KindDuplicateCustomer:
		return "A customer with the given id already exists."
	case domain.KindAccountMissing:
		return "The customer does not have an account yet."
	default:
		return ""
	}
}

// customerFor asks for a customer id and checks it exists before any other
// question is asked.
func (m *Menu) customerFor(ctx context.Context) (string, bool, error) {
	id, err := m.prompt(ctx, "Customer id")
	if err != nil {
		return "", false, err
	}
	if _, ok := m.bank.FindCustomer(id); !ok {
		m.report(customer.ErrNotFound)
		return id, false, nil
	}
	return id, true, nil
}

func (m *Menu) amount(ctx context.Context, label string) (money.Money, bool, error) {
	text, err := m.prompt(ctx, label)
	if err != nil {
		return money.Money{}, false, err
	}
	amount, err := money.Parse(text, m.bank.Currency())
	if err != nil {
		m.logger.Debug("amount rejected", "input", text, "error", err)
		m.report(err)
		return money.Money{}, false, nil
	}
	return amount, true, nil
}

// Successful deposits and withdrawals are printed by the event handlers
// registered with Subscribe.
func (m *Menu) deposit(ctx context.Context) error {
	id, ok, err := m.customerFor(ctx)
	if err != nil || !ok {
		return err
	}
	amount, ok, err := m.amount(ctx, "Deposit amount")
	if err != nil || !ok {
		return err
	}
	if _, err := m.bank.Deposit(ctx, id, amount); err != nil {
		m.report(err)
	}
	return nil
}

func (m *Menu) withdraw(ctx context.Context) error {
	id, ok, err := m.customerFor(ctx)
	if err != nil || !ok {
		return err
	}
	amount, ok, err := m.amount(ctx, "Withdrawal amount")
	if err != nil || !ok {
		return err
	}
	if _, err := m.bank.Withdraw(ctx, id, amount); err != nil {
		m.report(err)
	}
	return nil
}

func (m *Menu) statement(ctx context.Context) error {
	id, ok, err := m.customerFor(ctx)
	if err != nil || !ok {
		return err
	}
	st, err := m.bank.Statement(ctx, id)
	if err != nil {
		m.report(err)
		return nil
	}
	m.title.Fprintln(m.out, "\n============= STATEMENT =============")
	if len(st.Entries) == 0 {
		fmt.Fprintln(m.out, "N/A")
	}
	for _, e := range st.Entries {
		fmt.Fprintf(m.out, "%s: %s (%s)\n", e.Kind, e.Amount, e.Timestamp.Format(timestampLayout))
	}
	fmt.Fprintf(m.out, "BALANCE: %s\n", st.Balance)
	m.title.Fprintln(m.out, "=====================================")
	return nil
}

func (m *Menu) registerCustomer(ctx context.Context) error {
	id, err := m.prompt(ctx, "Customer id")
	if err != nil {
		return err
	}
	if _, exists := m.bank.FindCustomer(id); exists {
		m.report(customer.ErrDuplicate)
		return nil
	}
	name, err := m.prompt(ctx, "Full name")
	if err != nil {
		return err
	}
	birth, err := m.prompt(ctx, "Birth date (dd/mm/yyyy)")
	if err != nil {
		return err
	}
	address, err := m.prompt(ctx, "Address (street, number - district - city/state)")
	if err != nil {
		return err
	}
	if _, err := m.bank.RegisterCustomer(ctx, customer.Registration{
		ID:        id,
		Name:      name,
		BirthDate: birth,
		Address:   address,
	}); err != nil {
		m.report(err)
	}
	return nil
}

func (m *Menu) openCheckingAccount(ctx context.Context) error {
	id, err := m.prompt(ctx, "Customer id")
	if err != nil {
		return err
	}
	if _, err := m.bank.OpenCheckingAccount(ctx, id); err != nil {
		m.report(err)
	}
	return nil
}

func (m *Menu) listCustomers(ctx context.Context) {
	m.title.Fprintln(m.out, "\n====== REGISTERED CUSTOMERS ======")
	customers := m.bank.ListCustomers(ctx)
	if len(customers) == 0 {
		fmt.Fprintln(m.out, "N/A")
	}
	for _, c := range customers {
		fmt.Fprintln(m.out, separator)
		fmt.Fprintf(m.out, "Name: %s\nId: %s\nBirth date: %s\nAddress: %s\nLinked accounts: %d\n",
			c.Name, c.ID, c.BirthDate, c.Address, c.Accounts)
		fmt.Fprintln(m.out, separator)
	}
	m.title.Fprintln(m.out, strings.Repeat("=", 34))
}

func (m *Menu) listAccounts(ctx context.Context) {
	m.title.Fprintln(m.out, "\n====== REGISTERED ACCOUNTS ======")
	accounts := m.bank.ListAccounts(ctx)
	if len(accounts) == 0 {
		fmt.Fprintln(m.out, "N/A")
	}
	for _, a := range accounts {
		fmt.Fprintln(m.out, separator)
		fmt.Fprintf(m.out, "Branch: %s\nAccount: %d\nHolder: %s\nBalance: %s\n",
			a.Branch, a.Number, a.HolderName, a.Balance)
		fmt.Fprintln(m.out, separator)
	}
	m.title.Fprintln(m.out, strings.Repeat("=", 33))
}
