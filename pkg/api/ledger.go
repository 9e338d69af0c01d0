// Package api defines the messages of the tricount.v1.LedgerService.
//
// Messages are plain structs carried as JSON. Amounts are decimal strings
// ("12.50") so no precision is lost on the wire.
package api

// Session is a group's ledger.
type Session struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"created_at"`
}

// Participant is a roster member with their current tallies.
type Participant struct {
	Name     string `json:"name"`
	Paid     string `json:"paid"`
	Consumed string `json:"consumed"`
	Balance  string `json:"balance"`
	// Summary is a display line, e.g. "Alice: paid=20.00 €, consumed=10.00 €, balance=10.00 €".
	Summary string `json:"summary"`
}

// Expense is a logged purchase.
type Expense struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	Payer        string   `json:"payer"`
	Participants []string `json:"participants"`
	Share        string   `json:"share"`
	CreatedAt    int64    `json:"created_at"`
	// Summary is a display line, e.g. "Lunch: 20.00 € paid by Alice, split between 2 people: Alice, Bob".
	Summary string `json:"summary"`
}

// Transfer is one settling payment.
type Transfer struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

type CreateSessionRequest struct {
	Name string `json:"name"`
}

type CreateSessionResponse struct {
	Session *Session `json:"session"`
}

type ListSessionsRequest struct{}

type ListSessionsResponse struct {
	Sessions []*Session `json:"sessions"`
}

type AddParticipantRequest struct {
	SessionID string `json:"session_id"`
	Name      string `json:"name"`
}

type AddParticipantResponse struct {
	Participant *Participant `json:"participant"`
}

type ListParticipantsRequest struct {
	SessionID string `json:"session_id"`
}

type ListParticipantsResponse struct {
	Participants []*Participant `json:"participants"`
}

type AddExpenseRequest struct {
	SessionID    string   `json:"session_id"`
	Name         string   `json:"name"`
	Price        string   `json:"price"`
	Participants []string `json:"participants"`
	Payer        string   `json:"payer"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListExpensesRequest struct {
	SessionID string `json:"session_id"`
}

type ListExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type GetSettlementRequest struct {
	SessionID string `json:"session_id"`
}

type GetSettlementResponse struct {
	Balances  []*Participant `json:"balances"`
	Transfers []*Transfer    `json:"transfers"`
	// Instructions render each transfer, e.g. "Bob pays 10.00 € to Alice".
	Instructions []string `json:"instructions"`
	// Settled is true when no transfer is needed.
	Settled bool `json:"settled"`
}
