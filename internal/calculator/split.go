package calculator

import (
	"github.com/shopspring/decimal"
)

// Membership marks, for every name on the roster, whether that person shares the expense.
// Names that are not on the roster are ignored; a name listed twice counts once.
func Membership(roster []string, participantNames []string) map[string]bool {
	selected := make(map[string]struct{}, len(participantNames))
	for _, name := range participantNames {
		selected[name] = struct{}{}
	}

	marked := make(map[string]bool, len(roster))
	for _, name := range roster {
		_, ok := selected[name]
		marked[name] = ok
	}
	return marked
}

// CountMarked returns the number of roster members marked as sharing the expense.
func CountMarked(marked map[string]bool) int {
	n := 0
	for _, in := range marked {
		if in {
			n++
		}
	}
	return n
}

// Share computes the equal per-person share of price.
// With nobody to charge the share is zero.
func Share(price decimal.Decimal, persons int) decimal.Decimal {
	if persons <= 0 {
		return decimal.Zero
	}
	return price.Div(decimal.NewFromInt(int64(persons)))
}
