// Package ledger holds the balance-accounting model of one session: a roster
// of participants and the ordered list of expenses that moved their tallies.
//
// A Ledger is not safe for concurrent use. Callers owning several sessions
// keep one Ledger per session.
package ledger

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/calculator"
	"github.com/mmynk/tricount/internal/models"
)

var (
	// ErrInvalidInput is wrapped by every rejection below.
	ErrInvalidInput = errors.New("invalid input")

	ErrEmptyName            = fmt.Errorf("%w: name must not be empty", ErrInvalidInput)
	ErrDuplicateParticipant = fmt.Errorf("%w: participant already exists", ErrInvalidInput)
	ErrNonPositivePrice     = fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	ErrNoParticipants       = fmt.Errorf("%w: at least one participant is required", ErrInvalidInput)
	ErrUnknownParticipant   = fmt.Errorf("%w: participant not in group", ErrInvalidInput)
	ErrUnknownPayer         = fmt.Errorf("%w: payer not in group", ErrInvalidInput)
)

// Ledger is the in-memory roster and expense list of one session.
type Ledger struct {
	participants []*Participant
	byName       map[string]*Participant
	expenses     []*Expense
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{byName: make(map[string]*Participant)}
}

// AddParticipant adds a person to the roster.
// The name is trimmed and must be non-empty and not already taken.
func (l *Ledger) AddParticipant(name string) (*Participant, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if _, exists := l.byName[name]; exists {
		return nil, fmt.Errorf("%w: %s", ErrDuplicateParticipant, name)
	}

	p := newParticipant(name)
	l.participants = append(l.participants, p)
	l.byName[name] = p
	return p, nil
}

// AddExpense logs a purchase of price paid by payerName and shared equally by
// participantNames. Names are trimmed like roster names. Invalid input is
// rejected and leaves every tally untouched.
func (l *Ledger) AddExpense(name string, price decimal.Decimal, participantNames []string, payerName string) (*Expense, error) {
	participantNames = trimAll(participantNames)
	payerName = strings.TrimSpace(payerName)

	if err := l.validateExpense(name, price, participantNames, payerName); err != nil {
		return nil, err
	}

	e := newExpense(strings.TrimSpace(name), price, l.participants, participantNames, payerName)
	l.expenses = append(l.expenses, e)
	return e, nil
}

func (l *Ledger) validateExpense(name string, price decimal.Decimal, participantNames []string, payerName string) error {
	if strings.TrimSpace(name) == "" {
		return ErrEmptyName
	}
	if !price.IsPositive() {
		return fmt.Errorf("%w: got %s", ErrNonPositivePrice, price)
	}
	if len(participantNames) == 0 {
		return ErrNoParticipants
	}
	for _, n := range participantNames {
		if _, ok := l.byName[n]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownParticipant, n)
		}
	}
	if _, ok := l.byName[payerName]; !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPayer, payerName)
	}
	return nil
}

func trimAll(names []string) []string {
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = strings.TrimSpace(n)
	}
	return out
}

// Participants returns the roster in the order people were added.
func (l *Ledger) Participants() []*Participant {
	out := make([]*Participant, len(l.participants))
	copy(out, l.participants)
	return out
}

// Participant looks a roster member up by name.
func (l *Ledger) Participant(name string) (*Participant, bool) {
	p, ok := l.byName[name]
	return p, ok
}

// Expenses returns the logged expenses in insertion order.
func (l *Ledger) Expenses() []*Expense {
	out := make([]*Expense, len(l.expenses))
	copy(out, l.expenses)
	return out
}

// Balances returns every participant's net balance in roster order.
func (l *Ledger) Balances() []calculator.Balance {
	return balancesOf(l.participants)
}

// Transfers returns the simplified payments that settle the ledger.
func (l *Ledger) Transfers() []calculator.Transfer {
	return calculator.SimplifyDebts(l.Balances())
}

// Settlement returns the payment instructions that settle the ledger.
func (l *Ledger) Settlement() []string {
	return Settle(l.participants)
}

// Settle returns the payment instructions that zero out the given
// participants' balances, e.g. "Bob pays 10.00 € to Alice".
func Settle(participants []*Participant) []string {
	return calculator.Instructions(calculator.SimplifyDebts(balancesOf(participants)))
}

func balancesOf(participants []*Participant) []calculator.Balance {
	out := make([]calculator.Balance, len(participants))
	for i, p := range participants {
		out[i] = calculator.Balance{Name: p.name, Amount: p.Balance()}
	}
	return out
}

// Replay rebuilds a ledger from a stored roster and expense records, in order.
func Replay(participants []string, expenses []*models.ExpenseRecord) (*Ledger, error) {
	l := New()
	for _, name := range participants {
		if _, err := l.AddParticipant(name); err != nil {
			return nil, fmt.Errorf("failed to replay participant %q: %w", name, err)
		}
	}
	for _, rec := range expenses {
		if _, err := l.AddExpense(rec.Name, rec.Price, rec.Participants, rec.Payer); err != nil {
			return nil, fmt.Errorf("failed to replay expense %s: %w", rec.ID, err)
		}
	}
	return l, nil
}
