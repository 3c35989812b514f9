package dto

import "time"

// CustomerRead is a read-only view of a registered customer for listings.
type CustomerRead struct {
	ID        string
	Name      string
	BirthDate string
	Address   string
	Accounts  int // number of accounts opened
	CreatedAt time.Time
}
