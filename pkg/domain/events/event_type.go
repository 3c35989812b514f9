package events

// EventType represents the type of an event in the system.
type EventType string

// Event type constants
const (
	EventTypeCustomerRegistered  EventType = "Customer.Registered"
	EventTypeAccountOpened       EventType = "Account.Opened"
	EventTypeDepositApplied      EventType = "Deposit.Applied"
	EventTypeWithdrawalApplied   EventType = "Withdrawal.Applied"
	EventTypeAccountOverdrawn    EventType = "Account.Overdrawn"
	EventTypeTransactionRejected EventType = "Transaction.Rejected"
)

// String returns the event type name.
func (t EventType) String() string { return string(t) }
