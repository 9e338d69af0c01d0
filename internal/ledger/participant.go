package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/money"
)

// Participant is one member of the group with running tallies of what they
// paid and what they consumed. Tallies only change when an Expense is built.
type Participant struct {
	name     string
	paid     decimal.Decimal
	consumed decimal.Decimal
}

func newParticipant(name string) *Participant {
	return &Participant{name: name, paid: decimal.Zero, consumed: decimal.Zero}
}

// Name returns the participant's unique name.
func (p *Participant) Name() string { return p.name }

// Paid returns the total amount this participant paid.
func (p *Participant) Paid() decimal.Decimal { return p.paid }

// Consumed returns the total amount of shares charged to this participant.
func (p *Participant) Consumed() decimal.Decimal { return p.consumed }

// Balance is paid minus consumed: positive when owed money, negative when owing.
func (p *Participant) Balance() decimal.Decimal {
	return p.paid.Sub(p.consumed)
}

func (p *Participant) String() string {
	return fmt.Sprintf("%s: paid=%s, consumed=%s, balance=%s",
		p.name, money.Format(p.paid), money.Format(p.consumed), money.Format(p.Balance()))
}
