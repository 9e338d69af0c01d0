package models

import "github.com/shopspring/decimal"

// ExpenseRecord is an expense exactly as it was entered.
// Replaying records in order reproduces every participant's tallies.
type ExpenseRecord struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	// SessionID is the session the expense was logged in.
	SessionID string

	// Name is the label of the purchase (e.g., "Lunch").
	Name string

	// Price is the total amount paid. Always positive.
	Price decimal.Decimal

	// Participants are the names sharing the cost equally.
	Participants []string

	// Payer is the name of the participant who paid the full price.
	Payer string

	// CreatedAt is the Unix timestamp when the expense was logged.
	CreatedAt int64
}
