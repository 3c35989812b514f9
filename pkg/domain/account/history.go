package account

import (
	"time"

	"github.com/amirasaad/banksim/pkg/money"
	"github.com/google/uuid"
)

// Kind tags a transaction and the history entry it leaves behind.
type Kind string

const (
	KindDeposit    Kind = "Deposit"
	KindWithdrawal Kind = "Withdrawal"
)

// Entry is one applied transaction as recorded in an account history.
type Entry struct {
	ID        uuid.UUID
	Kind      Kind
	Amount    money.Money
	Timestamp time.Time
}

// History is the append-only log of applied transactions of one account.
// Entries are kept in insertion order, which is also chronological order.
type History struct {
	entries []Entry
}

// add is only reachable through Transaction.Apply, after the balance changed.
func (h *History) add(kind Kind, amount money.Money, at time.Time) Entry {
	e := Entry{ID: uuid.New(), Kind: kind, Amount: amount, Timestamp: at}
	h.entries = append(h.entries, e)
	return e
}

// Entries returns a copy of the recorded entries.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.entries))
	copy(out, h.entries)
	return out
}

// Len returns the number of recorded entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Count returns how many entries of the given kind were recorded.
func (h *History) Count(kind Kind) int {
	n := 0
	for _, e := range h.entries {
		if e.Kind == kind {
			n++
		}
	}
	return n
}

// CountSince is like Count but ignores entries recorded before t.
func (h *History) CountSince(kind Kind, t time.Time) int {
	n := 0
	for _, e := range h.entries {
		if e.Kind == kind && !e.Timestamp.Before(t) {
			n++
		}
	}
	return n
}
