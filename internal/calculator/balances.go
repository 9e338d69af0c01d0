package calculator

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/money"
)

// Balance is one person's net position.
type Balance struct {
	Name   string
	Amount decimal.Decimal // Positive = owed money, Negative = owes money
}

// Transfer is a single settling payment.
type Transfer struct {
	From   string // Person who owes
	To     string // Person who is owed
	Amount decimal.Decimal
}

// String renders the payment instruction, e.g. "Bob pays 10.00 € to Alice".
func (t Transfer) String() string {
	return fmt.Sprintf("%s pays %s to %s", t.From, money.Format(t.Amount), t.To)
}

// SimplifyDebts produces the payments that bring every balance back to zero.
//
// Algorithm:
// - Creditors (amount > 0) and debtors (amount < 0, as positive debt) are
//   collected; only balances that are exactly zero are left out
// - Both lists are sorted by amount, largest first; ties keep input order
// - The current largest debtor pays the current largest creditor
//   min(debt, credit); whichever side reaches zero is passed over
// - Stops as soon as either list runs out
//
// Amounts are exact decimals, so every step zeroes at least one side and the
// loop needs no tolerance. Remainders are never skipped: a run of sub-cent
// debts still reaches its creditor. At most creditors+debtors-1 transfers
// are produced.
func SimplifyDebts(balances []Balance) []Transfer {
	var creditors, debtors []Balance
	for _, b := range balances {
		switch b.Amount.Sign() {
		case 1:
			creditors = append(creditors, b)
		case -1:
			debtors = append(debtors, Balance{Name: b.Name, Amount: b.Amount.Neg()})
		}
	}

	sortDescending(creditors)
	sortDescending(debtors)

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		debtor := &debtors[i]
		creditor := &creditors[j]

		amount := decimal.Min(debtor.Amount, creditor.Amount)
		transfers = append(transfers, Transfer{
			From:   debtor.Name,
			To:     creditor.Name,
			Amount: amount,
		})

		debtor.Amount = debtor.Amount.Sub(amount)
		creditor.Amount = creditor.Amount.Sub(amount)

		if debtor.Amount.IsZero() {
			i++
		}
		if creditor.Amount.IsZero() {
			j++
		}
	}

	return transfers
}

// Instructions renders each transfer as a payment instruction.
func Instructions(transfers []Transfer) []string {
	out := make([]string, len(transfers))
	for i, t := range transfers {
		out[i] = t.String()
	}
	return out
}

func sortDescending(balances []Balance) {
	sort.SliceStable(balances, func(a, b int) bool {
		return balances[a].Amount.GreaterThan(balances[b].Amount)
	})
}
