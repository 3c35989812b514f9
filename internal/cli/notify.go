package cli

import (
	"context"

	"github.com/amirasaad/banksim/pkg/domain/events"
	"github.com/amirasaad/banksim/pkg/eventbus"
)

// Subscribe registers the handlers that print successful bank operations
// as they happen. Failures are reported by the menu itself.
func (m *Menu) Subscribe(bus eventbus.Bus) {
	bus.Register(events.EventTypeCustomerRegistered.String(), m.onCustomerRegistered)
	bus.Register(events.EventTypeAccountOpened.String(), m.onAccountOpened)
	bus.Register(events.EventTypeDepositApplied.String(), m.onDepositApplied)
	bus.Register(events.EventTypeWithdrawalApplied.String(), m.onWithdrawalApplied)
	bus.Register(events.EventTypeAccountOverdrawn.String(), m.onAccountOverdrawn)
}

func (m *Menu) onCustomerRegistered(_ context.Context, e eventbus.Event) error {
	ev, ok := e.(events.CustomerRegistered)
	if !ok {
		return nil
	}
	m.success.Fprintf(m.out, "*** Customer %s registered successfully! ***\n", ev.CustomerID)
	return nil
}

func (m *Menu) onAccountOpened(_ context.Context, e eventbus.Event) error {
	ev, ok := e.(events.AccountOpened)
	if !ok {
		return nil
	}
	m.success.Fprintf(m.out, "*** Checking account %d registered successfully! ***\n", ev.Number)
	return nil
}

func (m *Menu) onDepositApplied(_ context.Context, e eventbus.Event) error {
	ev, ok := e.(events.DepositApplied)
	if !ok {
		return nil
	}
	m.success.Fprintf(m.out, "[SUCCESS] >> Deposit of %s completed!\n", ev.Amount)
	return nil
}

func (m *Menu) onWithdrawalApplied(_ context.Context, e eventbus.Event) error {
	ev, ok := e.(events.WithdrawalApplied)
	if !ok {
		return nil
	}
	m.success.Fprintf(m.out, "[SUCCESS] >> Withdrawal of %s completed!\n", ev.Amount)
	return nil
}

func (m *Menu) onAccountOverdrawn(_ context.Context, e eventbus.Event) error {
	ev, ok := e.(events.AccountOverdrawn)
	if !ok {
		return nil
	}
	m.warning.Fprintf(m.out, "[WARNING] >> Account %d is overdrawn, balance %s.\n", ev.AccountNumber, ev.Balance)
	return nil
}
