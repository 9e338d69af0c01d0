package ledger

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/calculator"
	"github.com/mmynk/tricount/internal/money"
)

// Expense is a logged purchase. It is immutable once built.
type Expense struct {
	name    string
	price   decimal.Decimal
	payer   string
	roster  []string        // roster snapshot at creation, in roster order
	members map[string]bool // roster name -> shares this expense
	share   decimal.Decimal
	persons int
}

// newExpense splits price over the marked members of roster and records the
// payment. It performs no validation:
//   - with nobody marked the share is zero and no consumed tally moves
//   - a payer name missing from roster credits nobody
//
// Tallies are updated exactly once, here.
func newExpense(name string, price decimal.Decimal, roster []*Participant, participantNames []string, payerName string) *Expense {
	names := make([]string, len(roster))
	for i, p := range roster {
		names[i] = p.name
	}

	members := calculator.Membership(names, participantNames)
	persons := calculator.CountMarked(members)
	share := calculator.Share(price, persons)

	for _, p := range roster {
		if members[p.name] {
			p.consumed = p.consumed.Add(share)
		}
	}
	for _, p := range roster {
		if p.name == payerName {
			p.paid = p.paid.Add(price)
			break
		}
	}

	return &Expense{
		name:    name,
		price:   price,
		payer:   payerName,
		roster:  names,
		members: members,
		share:   share,
		persons: persons,
	}
}

// Name returns the expense label.
func (e *Expense) Name() string { return e.name }

// Price returns the total amount paid.
func (e *Expense) Price() decimal.Decimal { return e.price }

// Payer returns the name of the participant who paid.
func (e *Expense) Payer() string { return e.payer }

// Share returns what each sharing participant consumed.
func (e *Expense) Share() decimal.Decimal { return e.share }

// Persons returns how many participants share the expense.
func (e *Expense) Persons() int { return e.persons }

// Includes reports whether name shares the expense.
func (e *Expense) Includes(name string) bool { return e.members[name] }

// Participants returns the names sharing this expense, in roster order.
func (e *Expense) Participants() []string {
	out := make([]string, 0, e.persons)
	for _, name := range e.roster {
		if e.members[name] {
			out = append(out, name)
		}
	}
	return out
}

func (e *Expense) String() string {
	return fmt.Sprintf("%s: %s paid by %s, split between %d people: %s",
		e.name, money.Format(e.price), e.payer, e.persons, strings.Join(e.Participants(), ", "))
}
