package bank_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	infra_eventbus "github.com/amirasaad/banksim/infra/eventbus"
	"github.com/amirasaad/banksim/pkg/config"
	"github.com/amirasaad/banksim/pkg/domain"
	"github.com/amirasaad/banksim/pkg/domain/account"
	"github.com/amirasaad/banksim/pkg/domain/customer"
	"github.com/amirasaad/banksim/pkg/domain/events"
	"github.com/amirasaad/banksim/pkg/eventbus"
	"github.com/amirasaad/banksim/pkg/money"
	"github.com/amirasaad/banksim/pkg/service/bank"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
	os.Exit(m.Run())
}

var fixedNow = time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC)

func newService(t *testing.T, mutate ...func(*config.Bank)) (*bank.Service, *infra_eventbus.MemoryEventBus) {
	t.Helper()
	cfg := config.DefaultBank()
	for _, m := range mutate {
		m(cfg)
	}
	bus := infra_eventbus.NewWithMemory(slog.Default(), infra_eventbus.WithRecording())
	svc, err := bank.NewService(config.Deps{
		EventBus: bus,
		Logger:   slog.Default(),
		Config:   &config.App{Bank: cfg},
	}, bank.WithClock(func() time.Time { return fixedNow }))
	require.NoError(t, err)
	return svc, bus
}

func brl(text string) money.Money {
	return money.MustParse(text, money.BRL)
}

func withAccount(t *testing.T, svc *bank.Service, id string) {
	t.Helper()
	_, err := svc.RegisterCustomer(context.Background(), customer.Registration{ID: id, Name: "Maria " + id})
	require.NoError(t, err)
	_, err = svc.OpenCheckingAccount(context.Background(), id)
	require.NoError(t, err)
}

func TestNewService_Defaults(t *testing.T) {
	svc, err := bank.NewService(config.Deps{})
	require.NoError(t, err)
	assert.Equal(t, money.BRL, svc.Currency())
	assert.Equal(t, 1, svc.NextAccountNumber())
}

func TestNewService_InvalidRules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Bank)
	}{
		{"limit", func(b *config.Bank) { b.CheckingLimit = "abc" }},
		{"negative limit", func(b *config.Bank) { b.CheckingLimit = "-5" }},
		{"overdraft", func(b *config.Bank) { b.OverdraftPolicy = "sometimes" }},
		{"window", func(b *config.Bank) { b.WithdrawalWindow = "weekly" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultBank()
			tt.mutate(cfg)
			_, err := bank.NewService(config.Deps{Config: &config.App{Bank: cfg}})
			assert.Error(t, err)
		})
	}
}

func TestRegisterCustomer(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	c, err := svc.RegisterCustomer(ctx, customer.Registration{
		ID: " 111 ", Name: "Maria", BirthDate: "01/02/1990", Address: "Rua A",
	})
	require.NoError(t, err)
	assert.Equal(t, "111", c.ID)
	assert.Equal(t, "Maria", c.Name)
	assert.Zero(t, c.Accounts)
	assert.Equal(t, fixedNow, c.CreatedAt)

	_, err = svc.RegisterCustomer(ctx, customer.Registration{ID: "111", Name: "Other"})
	assert.ErrorIs(t, err, customer.ErrDuplicate)
	assert.Equal(t, domain.KindDuplicateCustomer, domain.KindOf(err))

	found, ok := svc.FindCustomer("111")
	require.True(t, ok)
	assert.Equal(t, "Maria", found.Name, "a duplicate must not replace the first customer")

	_, err = svc.RegisterCustomer(ctx, customer.Registration{ID: "222"})
	assert.ErrorIs(t, err, customer.ErrInvalidCustomer)

	published := bus.Published()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventTypeCustomerRegistered.String(), published[0].Type())
}

func TestOpenCheckingAccount(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	_, err := svc.OpenCheckingAccount(ctx, "404")
	assert.ErrorIs(t, err, customer.ErrNotFound)
	assert.Equal(t, 1, svc.NextAccountNumber())

	_, err = svc.RegisterCustomer(ctx, customer.Registration{ID: "111", Name: "Maria"})
	require.NoError(t, err)
	_, err = svc.RegisterCustomer(ctx, customer.Registration{ID: "222", Name: "Joao"})
	require.NoError(t, err)

	first, err := svc.OpenCheckingAccount(ctx, "111")
	require.NoError(t, err)
	second, err := svc.OpenCheckingAccount(ctx, "222")
	require.NoError(t, err)
	third, err := svc.OpenCheckingAccount(ctx, "111")
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, []int{first.Number, second.Number, third.Number})
	assert.Equal(t, "7777", first.Branch)
	assert.Equal(t, "checking", first.Type)
	assert.Equal(t, "Maria", first.HolderName)
	require.NotNil(t, first.Limit)
	assert.Equal(t, "500.00", first.Limit.Format())
	assert.Equal(t, 3, first.MaxWithdrawals)
	assert.True(t, first.Balance.IsZero())

	c, ok := svc.FindCustomer("111")
	require.True(t, ok)
	assert.Equal(t, 2, c.Accounts)

	opened := 0
	for _, e := range bus.Published() {
		if ev, ok := e.(events.AccountOpened); ok {
			opened++
			assert.Equal(t, opened, ev.Number)
		}
	}
	assert.Equal(t, 3, opened)
}

func TestOpenCheckingAccount_ConfiguredRules(t *testing.T) {
	svc, _ := newService(t, func(b *config.Bank) {
		b.Branch = "0001"
		b.CheckingLimit = "1000"
		b.MaxWithdrawals = 5
	})
	withAccount(t, svc, "111")

	accounts := svc.ListAccounts(context.Background())
	require.Len(t, accounts, 1)
	assert.Equal(t, "0001", accounts[0].Branch)
	assert.Equal(t, "1000.00", accounts[0].Limit.Format())
	assert.Equal(t, 5, accounts[0].MaxWithdrawals)
}

func TestTransact_CheckOrder(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	_, err := svc.RegisterCustomer(ctx, customer.Registration{ID: "111", Name: "Maria"})
	require.NoError(t, err)

	tests := []struct {
		name     string
		customer string
		amount   money.Money
		want     domain.ErrorKind
	}{
		{"unknown customer wins over bad amount", "404", brl("0"), domain.KindCustomerNotFound},
		{"bad amount wins over missing account", "111", brl("-1"), domain.KindInvalidAmount},
		{"zero amount", "111", brl("0"), domain.KindInvalidAmount},
		{"missing account", "111", brl("10"), domain.KindAccountMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Deposit(ctx, tt.customer, tt.amount)
			assert.Equal(t, tt.want, domain.KindOf(err))
			_, err = svc.Withdraw(ctx, tt.customer, tt.amount)
			assert.Equal(t, tt.want, domain.KindOf(err))
		})
	}
}

func TestMenuScenario(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	withAccount(t, svc, "111")

	r, err := svc.Deposit(ctx, "111", brl("200"))
	require.NoError(t, err)
	assert.Equal(t, "200.00", r.Balance.Format())

	r, err = svc.Withdraw(ctx, "111", brl("100"))
	require.NoError(t, err)
	assert.Equal(t, "100.00", r.Balance.Format())
	assert.Equal(t, account.KindWithdrawal, r.Transaction.Kind)

	_, err = svc.Withdraw(ctx, "111", brl("600"))
	assert.ErrorIs(t, err, account.ErrLimitExceeded)
	assert.Equal(t, domain.KindLimitExceeded, domain.NewResult(err).Kind)

	st, err := svc.Statement(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, 1, st.AccountNumber)
	assert.Equal(t, "Maria 111", st.HolderName)
	require.Len(t, st.Entries, 2)
	assert.Equal(t, account.KindDeposit, st.Entries[0].Kind)
	assert.Equal(t, "200.00", st.Entries[0].Amount.Format())
	assert.Equal(t, account.KindWithdrawal, st.Entries[1].Kind)
	assert.Equal(t, "100.00", st.Entries[1].Amount.Format())
	assert.Equal(t, fixedNow, st.Entries[1].Timestamp)
	assert.Equal(t, "100.00", st.Balance.Format())

	var types []string
	for _, e := range bus.Published() {
		types = append(types, e.Type())
	}
	assert.Equal(t, []string{
		events.EventTypeCustomerRegistered.String(),
		events.EventTypeAccountOpened.String(),
		events.EventTypeDepositApplied.String(),
		events.EventTypeWithdrawalApplied.String(),
		events.EventTypeTransactionRejected.String(),
	}, types)

	rejected, ok := bus.Published()[4].(events.TransactionRejected)
	require.True(t, ok)
	assert.Equal(t, 1, rejected.AccountNumber)
	assert.Equal(t, string(account.KindWithdrawal), rejected.Operation)
	assert.Equal(t, domain.KindLimitExceeded, rejected.Kind)
}

func TestWithdraw_Rules(t *testing.T) {
	ctx := context.Background()

	t.Run("insufficient funds leaves the balance", func(t *testing.T) {
		svc, _ := newService(t)
		withAccount(t, svc, "111")
		_, err := svc.Deposit(ctx, "111", brl("50"))
		require.NoError(t, err)

		_, err = svc.Withdraw(ctx, "111", brl("80"))
		assert.ErrorIs(t, err, account.ErrInsufficientFunds)
		st, err := svc.Statement(ctx, "111")
		require.NoError(t, err)
		assert.Equal(t, "50.00", st.Balance.Format())
		assert.Len(t, st.Entries, 1)
	})

	t.Run("fourth withdrawal is refused", func(t *testing.T) {
		svc, _ := newService(t)
		withAccount(t, svc, "111")
		_, err := svc.Deposit(ctx, "111", brl("1000"))
		require.NoError(t, err)
		for i := 0; i < 3; i++ {
			_, err := svc.Withdraw(ctx, "111", brl("10"))
			require.NoError(t, err)
		}
		_, err = svc.Withdraw(ctx, "111", brl("10"))
		assert.ErrorIs(t, err, account.ErrDailyLimitReached)

		accounts := svc.ListAccounts(ctx)
		require.Len(t, accounts, 1)
		assert.Equal(t, "970.00", accounts[0].Balance.Format())
		assert.Equal(t, 3, accounts[0].Withdrawals)
	})

	t.Run("overdraft allowed emits overdrawn", func(t *testing.T) {
		svc, bus := newService(t, func(b *config.Bank) { b.OverdraftPolicy = "allow" })
		withAccount(t, svc, "111")
		bus.ClearPublished()

		r, err := svc.Withdraw(ctx, "111", brl("100"))
		require.NoError(t, err)
		assert.True(t, r.Overdrawn)
		assert.Equal(t, "-100.00", r.Balance.Format())

		published := bus.Published()
		require.Len(t, published, 2)
		assert.IsType(t, events.WithdrawalApplied{}, published[0])
		overdrawn, ok := published[1].(events.AccountOverdrawn)
		require.True(t, ok)
		assert.Equal(t, "-100.00", overdrawn.Balance.Format())
	})

	t.Run("amount in another currency", func(t *testing.T) {
		svc, _ := newService(t)
		withAccount(t, svc, "111")
		_, err := svc.Deposit(ctx, "111", money.MustParse("10", money.USD))
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
	})
}

func TestDeposit_OverflowIsRejected(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	withAccount(t, svc, "111")

	_, err := svc.Deposit(ctx, "111", brl("92233720368547758.07"))
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, "111", brl("1"))
	assert.ErrorIs(t, err, money.ErrOverflow)
	assert.Equal(t, domain.KindInvalidAmount, domain.KindOf(err))

	st, err := svc.Statement(ctx, "111")
	require.NoError(t, err)
	assert.Equal(t, "92233720368547758.07", st.Balance.Format())
	assert.Len(t, st.Entries, 1)
}

func TestTransact_UsesFirstAccount(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	withAccount(t, svc, "111")
	_, err := svc.OpenCheckingAccount(ctx, "111")
	require.NoError(t, err)

	r, err := svc.Deposit(ctx, "111", brl("25"))
	require.NoError(t, err)
	assert.Equal(t, 1, r.AccountNumber)

	accounts := svc.ListAccounts(ctx)
	require.Len(t, accounts, 2)
	assert.Equal(t, "25.00", accounts[0].Balance.Format())
	assert.True(t, accounts[1].Balance.IsZero())
}

func TestStatement_Errors(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.Statement(ctx, "404")
	assert.ErrorIs(t, err, customer.ErrNotFound)

	_, err = svc.RegisterCustomer(ctx, customer.Registration{ID: "111", Name: "Maria"})
	require.NoError(t, err)
	_, err = svc.Statement(ctx, "111")
	assert.ErrorIs(t, err, customer.ErrAccountMissing)

	_, err = svc.OpenCheckingAccount(ctx, "111")
	require.NoError(t, err)
	st, err := svc.Statement(ctx, "111")
	require.NoError(t, err)
	assert.Empty(t, st.Entries)
	assert.True(t, st.Balance.IsZero())

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = svc.Statement(canceled, "111")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestListings(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	assert.Empty(t, svc.ListCustomers(ctx))
	assert.Empty(t, svc.ListAccounts(ctx))

	for _, id := range []string{"333", "111", "222"} {
		_, err := svc.RegisterCustomer(ctx, customer.Registration{ID: id, Name: "C" + id})
		require.NoError(t, err)
	}
	_, err := svc.OpenCheckingAccount(ctx, "222")
	require.NoError(t, err)

	var ids []string
	for _, c := range svc.ListCustomers(ctx) {
		ids = append(ids, c.ID)
	}
	assert.Equal(t, []string{"333", "111", "222"}, ids)

	accounts := svc.ListAccounts(ctx)
	require.Len(t, accounts, 1)
	assert.Equal(t, "222", accounts[0].CustomerID)
	assert.Equal(t, "C222", accounts[0].HolderName)
}

func TestHandlersMayCallBack(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()

	var balance string
	bus.Register(events.EventTypeDepositApplied.String(), func(ctx context.Context, e eventbus.Event) error {
		st, err := svc.Statement(ctx, e.(events.DepositApplied).CustomerID)
		if err != nil {
			return err
		}
		balance = st.Balance.Format()
		return nil
	})
	withAccount(t, svc, "111")

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, err := svc.Deposit(ctx, "111", brl("12.34"))
		assert.NoError(t, err)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("deposit deadlocked while a handler read the statement")
	}
	assert.Equal(t, "12.34", balance)
}

func TestConcurrentDeposits(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	withAccount(t, svc, "111")

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Deposit(ctx, "111", brl("1.01"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	st, err := svc.Statement(ctx, "111")
	require.NoError(t, err)
	assert.Len(t, st.Entries, 50)
	assert.Equal(t, "50.50", st.Balance.Format())
}
