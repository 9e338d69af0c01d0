package ledger

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/models"
	"github.com/mmynk/tricount/internal/money"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func mustLedger(t *testing.T, names ...string) *Ledger {
	t.Helper()
	l := New()
	for _, n := range names {
		if _, err := l.AddParticipant(n); err != nil {
			t.Fatalf("AddParticipant(%q) failed: %v", n, err)
		}
	}
	return l
}

func mustExpense(t *testing.T, l *Ledger, name, price string, participants []string, payer string) *Expense {
	t.Helper()
	e, err := l.AddExpense(name, d(price), participants, payer)
	if err != nil {
		t.Fatalf("AddExpense(%q) failed: %v", name, err)
	}
	return e
}

func assertAmount(t *testing.T, label string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(d(want)) {
		t.Errorf("%s = %s, want %s", label, got, want)
	}
}

func assertInstructions(t *testing.T, got, want []string) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("Settlement() = %q, want %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("instruction %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestAddParticipant(t *testing.T) {
	l := New()

	p, err := l.AddParticipant("  Alice ")
	if err != nil {
		t.Fatalf("AddParticipant failed: %v", err)
	}
	if p.Name() != "Alice" {
		t.Errorf("Name() = %q, want trimmed %q", p.Name(), "Alice")
	}
	if !p.Paid().IsZero() || !p.Consumed().IsZero() || !p.Balance().IsZero() {
		t.Errorf("new participant should start at zero: %s", p)
	}

	if _, err := l.AddParticipant("Alice"); !errors.Is(err, ErrDuplicateParticipant) {
		t.Errorf("duplicate name error = %v, want ErrDuplicateParticipant", err)
	}
	if _, err := l.AddParticipant("   "); !errors.Is(err, ErrEmptyName) {
		t.Errorf("blank name error = %v, want ErrEmptyName", err)
	}
	if _, err := l.AddParticipant(""); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("empty name error = %v, want ErrInvalidInput", err)
	}

	if got := len(l.Participants()); got != 1 {
		t.Errorf("roster has %d participants, want 1", got)
	}
	if _, ok := l.Participant("Alice"); !ok {
		t.Error("Participant(Alice) not found")
	}
}

func TestScenarioLunch(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob")
	e := mustExpense(t, l, "Lunch", "20.00", []string{"Alice", "Bob"}, "Alice")

	alice, _ := l.Participant("Alice")
	bob, _ := l.Participant("Bob")

	assertAmount(t, "Alice.Consumed", alice.Consumed(), "10")
	assertAmount(t, "Alice.Paid", alice.Paid(), "20")
	assertAmount(t, "Alice.Balance", alice.Balance(), "10")
	assertAmount(t, "Bob.Consumed", bob.Consumed(), "10")
	assertAmount(t, "Bob.Paid", bob.Paid(), "0")
	assertAmount(t, "Bob.Balance", bob.Balance(), "-10")

	assertAmount(t, "Share", e.Share(), "10")
	if e.Persons() != 2 {
		t.Errorf("Persons() = %d, want 2", e.Persons())
	}

	assertInstructions(t, l.Settlement(), []string{"Bob pays 10.00 € to Alice"})
}

// TestScenarioDinnerAndTaxi runs the three-person scenario through the
// expense algorithm. Dinner (30, all three, paid by A) leaves A at +20 and
// B, C at -10. Taxi (15, B and C, paid by B) moves B to -2.5 and C to -17.5.
func TestScenarioDinnerAndTaxi(t *testing.T) {
	l := mustLedger(t, "A", "B", "C")
	mustExpense(t, l, "Dinner", "30", []string{"A", "B", "C"}, "A")
	mustExpense(t, l, "Taxi", "15", []string{"B", "C"}, "B")

	want := map[string]string{"A": "20", "B": "-2.5", "C": "-17.5"}
	for name, balance := range want {
		p, _ := l.Participant(name)
		assertAmount(t, name+".Balance", p.Balance(), balance)
	}

	assertInstructions(t, l.Settlement(), []string{
		"C pays 17.50 € to A",
		"B pays 2.50 € to A",
	})
}

func TestAddExpense_Rejections(t *testing.T) {
	tests := []struct {
		name         string
		label        string
		price        string
		participants []string
		payer        string
		wantErr      error
	}{
		{name: "empty label", label: " ", price: "10", participants: []string{"Alice"}, payer: "Alice", wantErr: ErrEmptyName},
		{name: "zero price", label: "Coffee", price: "0", participants: []string{"Alice"}, payer: "Alice", wantErr: ErrNonPositivePrice},
		{name: "negative price", label: "Coffee", price: "-4", participants: []string{"Alice"}, payer: "Alice", wantErr: ErrNonPositivePrice},
		{name: "no participants", label: "Coffee", price: "4", participants: nil, payer: "Alice", wantErr: ErrNoParticipants},
		{name: "participant outside roster", label: "Coffee", price: "4", participants: []string{"Alice", "Mallory"}, payer: "Alice", wantErr: ErrUnknownParticipant},
		{name: "payer outside roster", label: "Coffee", price: "4", participants: []string{"Alice"}, payer: "Mallory", wantErr: ErrUnknownPayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := mustLedger(t, "Alice", "Bob")

			_, err := l.AddExpense(tt.label, d(tt.price), tt.participants, tt.payer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("AddExpense() error = %v, want %v", err, tt.wantErr)
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("error %v should wrap ErrInvalidInput", err)
			}

			if n := len(l.Expenses()); n != 0 {
				t.Errorf("rejected expense was recorded: %d expenses", n)
			}
			for _, p := range l.Participants() {
				if !p.Paid().IsZero() || !p.Consumed().IsZero() {
					t.Errorf("rejected expense moved tallies: %s", p)
				}
			}
		})
	}
}

func TestAddExpense_TrimsNames(t *testing.T) {
	l := mustLedger(t, " Alice", "Bob ")
	e := mustExpense(t, l, " Lunch ", "20", []string{" Alice ", "Bob\t"}, " Bob ")

	if e.Name() != "Lunch" || e.Payer() != "Bob" {
		t.Errorf("expense = %q paid by %q, want trimmed names", e.Name(), e.Payer())
	}
	if got := e.Participants(); len(got) != 2 || got[0] != "Alice" || got[1] != "Bob" {
		t.Errorf("Participants() = %q, want [Alice Bob]", got)
	}

	assertInstructions(t, l.Settlement(), []string{"Alice pays 10.00 € to Bob"})
}

// TestSettlement_SubCentShares splits a few cents over many people so every
// debt is below half a cent. Each debt still has to reach the payer.
func TestSettlement_SubCentShares(t *testing.T) {
	names := []string{"P0", "P1", "P2", "P3", "P4", "P5", "P6", "P7", "P8", "P9"}
	l := mustLedger(t, names...)
	mustExpense(t, l, "Gum", "0.04", names, "P0")

	p0, _ := l.Participant("P0")
	assertAmount(t, "P0.Balance", p0.Balance(), "0.036")

	rest := make(map[string]decimal.Decimal)
	for _, b := range l.Balances() {
		rest[b.Name] = b.Amount
	}
	transfers := l.Transfers()
	if len(transfers) != len(names)-1 {
		t.Fatalf("got %d transfers, want %d", len(transfers), len(names)-1)
	}
	for _, tr := range transfers {
		if tr.To != "P0" {
			t.Errorf("transfer %v should go to P0", tr)
		}
		rest[tr.From] = rest[tr.From].Add(tr.Amount)
		rest[tr.To] = rest[tr.To].Sub(tr.Amount)
	}
	for name, r := range rest {
		if !r.IsZero() {
			t.Errorf("%s left with %s after settlement", name, r)
		}
	}
}

func TestNewExpense_Degenerate(t *testing.T) {
	t.Run("empty participant set charges nobody", func(t *testing.T) {
		roster := []*Participant{newParticipant("Alice"), newParticipant("Bob")}
		e := newExpense("Ghost", d("12"), roster, nil, "Alice")

		assertAmount(t, "Share", e.Share(), "0")
		if e.Persons() != 0 {
			t.Errorf("Persons() = %d, want 0", e.Persons())
		}
		for _, p := range roster {
			if !p.Consumed().IsZero() {
				t.Errorf("%s consumed %s, want 0", p.Name(), p.Consumed())
			}
		}
		assertAmount(t, "Alice.Paid", roster[0].Paid(), "12")
	})

	t.Run("unknown payer credits nobody", func(t *testing.T) {
		roster := []*Participant{newParticipant("Alice"), newParticipant("Bob")}
		newExpense("Snacks", d("8"), roster, []string{"Alice", "Bob"}, "Mallory")

		for _, p := range roster {
			if !p.Paid().IsZero() {
				t.Errorf("%s paid %s, want 0", p.Name(), p.Paid())
			}
			assertAmount(t, p.Name()+".Consumed", p.Consumed(), "4")
		}
	})
}

func TestExpense_Snapshot(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob", "Charlie")
	e := mustExpense(t, l, "Museum", "27", []string{"Charlie", "Alice", "Alice"}, "Bob")

	if got := e.Participants(); len(got) != 2 || got[0] != "Alice" || got[1] != "Charlie" {
		t.Errorf("Participants() = %v, want [Alice Charlie] in roster order", got)
	}
	if e.Includes("Bob") {
		t.Error("Bob did not share the expense")
	}
	assertAmount(t, "Share", e.Share(), "13.5")

	// Joining later does not change an existing expense.
	if _, err := l.AddParticipant("Dana"); err != nil {
		t.Fatal(err)
	}
	if e.Includes("Dana") || e.Persons() != 2 {
		t.Errorf("expense changed after roster grew: %s", e)
	}

	want := "Museum: 27.00 € paid by Bob, split between 2 people: Alice, Charlie"
	if got := e.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParticipant_String(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob")
	mustExpense(t, l, "Lunch", "20", []string{"Alice", "Bob"}, "Alice")

	alice, _ := l.Participant("Alice")
	want := "Alice: paid=20.00 €, consumed=10.00 €, balance=10.00 €"
	if got := alice.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestBalanceIsIdempotent(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob", "Charlie")
	mustExpense(t, l, "Pizza", "10", []string{"Alice", "Bob", "Charlie"}, "Alice")

	for _, p := range l.Participants() {
		first, second := p.Balance(), p.Balance()
		if !first.Equal(second) {
			t.Errorf("%s balance changed between reads: %s then %s", p.Name(), first, second)
		}
	}
}

func TestConservation(t *testing.T) {
	l := mustLedger(t, "A", "B", "C", "D")
	mustExpense(t, l, "Groceries", "47.31", []string{"A", "B", "C", "D"}, "A")
	mustExpense(t, l, "Fuel", "60", []string{"B", "C", "D"}, "C")
	mustExpense(t, l, "Tickets", "10", []string{"A", "B", "D"}, "D")
	mustExpense(t, l, "Coffee", "3.10", []string{"B"}, "A")

	sum := decimal.Zero
	for _, p := range l.Participants() {
		sum = sum.Add(p.Balance())
	}
	if !money.IsZero(sum) {
		t.Errorf("sum of balances = %s, want ~0", sum)
	}

	// Applying the settlement zeroes everyone.
	rest := make(map[string]decimal.Decimal)
	for _, b := range l.Balances() {
		rest[b.Name] = b.Amount
	}
	transfers := l.Transfers()
	for _, tr := range transfers {
		rest[tr.From] = rest[tr.From].Add(tr.Amount)
		rest[tr.To] = rest[tr.To].Sub(tr.Amount)
	}
	for name, r := range rest {
		if !money.IsZero(r) {
			t.Errorf("%s left with %s after settlement", name, r)
		}
	}
	if len(transfers) > len(l.Participants())-1 {
		t.Errorf("%d transfers for %d participants", len(transfers), len(l.Participants()))
	}
}

func TestSettlement_AllSettled(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob")
	if got := l.Settlement(); len(got) != 0 {
		t.Errorf("empty ledger settlement = %q, want none", got)
	}

	mustExpense(t, l, "Lunch", "20", []string{"Alice", "Bob"}, "Alice")
	mustExpense(t, l, "Dinner", "20", []string{"Alice", "Bob"}, "Bob")
	if got := l.Settlement(); len(got) != 0 {
		t.Errorf("balanced ledger settlement = %q, want none", got)
	}
}

func TestSettle(t *testing.T) {
	l := mustLedger(t, "Alice", "Bob")
	mustExpense(t, l, "Lunch", "20", []string{"Alice", "Bob"}, "Alice")

	assertInstructions(t, Settle(l.Participants()), []string{"Bob pays 10.00 € to Alice"})
	assertInstructions(t, Settle(nil), []string{})
}

func TestReplay(t *testing.T) {
	records := []*models.ExpenseRecord{
		{ID: "e1", Name: "Dinner", Price: d("30"), Participants: []string{"A", "B", "C"}, Payer: "A"},
		{ID: "e2", Name: "Taxi", Price: d("15"), Participants: []string{"B", "C"}, Payer: "B"},
	}

	l, err := Replay([]string{"A", "B", "C"}, records)
	if err != nil {
		t.Fatalf("Replay failed: %v", err)
	}
	if n := len(l.Expenses()); n != 2 {
		t.Fatalf("replayed %d expenses, want 2", n)
	}
	if l.Expenses()[0].Name() != "Dinner" || l.Expenses()[1].Name() != "Taxi" {
		t.Error("replay did not keep insertion order")
	}
	c, _ := l.Participant("C")
	assertAmount(t, "C.Balance", c.Balance(), "-17.5")

	bad := []*models.ExpenseRecord{{ID: "e3", Name: "Boat", Price: d("9"), Participants: []string{"Z"}, Payer: "A"}}
	if _, err := Replay([]string{"A"}, bad); !errors.Is(err, ErrUnknownParticipant) {
		t.Errorf("Replay with unknown participant error = %v", err)
	}
}
