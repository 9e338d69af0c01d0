package models

// Session is one group's ledger: a roster plus the expenses logged against it.
type Session struct {
	// ID is the unique identifier for the session (UUID format).
	ID string

	// Name is a display label (e.g., "Lisbon trip"). May be empty.
	Name string

	// CreatedAt is the Unix timestamp when the session was created.
	CreatedAt int64
}
