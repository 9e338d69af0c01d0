// Package storagetest holds behaviour checks shared by every storage.Store backend.
package storagetest

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/models"
	"github.com/mmynk/tricount/internal/storage"
)

// Run exercises a Store implementation. newStore must return an empty store;
// Run closes it when the test ends.
func Run(t *testing.T, newStore func(t *testing.T) storage.Store) {
	ctx := context.Background()

	open := func(t *testing.T) storage.Store {
		t.Helper()
		store := newStore(t)
		t.Cleanup(func() { store.Close() })
		return store
	}

	t.Run("CreateSession generates ID and timestamp", func(t *testing.T) {
		store := open(t)

		session := &models.Session{Name: "Lisbon trip"}
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatalf("CreateSession failed: %v", err)
		}
		if session.ID == "" {
			t.Error("Expected session ID to be generated")
		}
		if session.CreatedAt == 0 {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetSession(ctx, session.ID)
		if err != nil {
			t.Fatalf("GetSession failed: %v", err)
		}
		if got.ID != session.ID || got.Name != session.Name || got.CreatedAt != session.CreatedAt {
			t.Errorf("GetSession = %+v, want %+v", got, session)
		}
	})

	t.Run("CreateSession rejects a reused ID", func(t *testing.T) {
		store := open(t)

		if err := store.CreateSession(ctx, &models.Session{ID: "fixed"}); err != nil {
			t.Fatal(err)
		}
		err := store.CreateSession(ctx, &models.Session{ID: "fixed"})
		if !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("CreateSession error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("GetSession returns ErrNotFound", func(t *testing.T) {
		store := open(t)

		_, err := store.GetSession(ctx, "nonexistent-id")
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("GetSession error = %v, want ErrNotFound", err)
		}
	})

	t.Run("ListSessions keeps creation order", func(t *testing.T) {
		store := open(t)

		for _, name := range []string{"first", "second", "third"} {
			if err := store.CreateSession(ctx, &models.Session{Name: name}); err != nil {
				t.Fatalf("CreateSession failed: %v", err)
			}
		}
		sessions, err := store.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions failed: %v", err)
		}
		if len(sessions) != 3 {
			t.Fatalf("got %d sessions, want 3", len(sessions))
		}
		for i, want := range []string{"first", "second", "third"} {
			if sessions[i].Name != want {
				t.Errorf("session %d = %q, want %q", i, sessions[i].Name, want)
			}
		}
	})

	t.Run("roster keeps insertion order and rejects duplicates", func(t *testing.T) {
		store := open(t)
		session := &models.Session{}
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatal(err)
		}

		for _, name := range []string{"Charlie", "Alice", "Bob"} {
			if err := store.AddParticipant(ctx, session.ID, name); err != nil {
				t.Fatalf("AddParticipant(%s) failed: %v", name, err)
			}
		}
		if err := store.AddParticipant(ctx, session.ID, "Alice"); !errors.Is(err, storage.ErrDuplicate) {
			t.Errorf("duplicate AddParticipant error = %v, want ErrDuplicate", err)
		}

		names, err := store.ListParticipants(ctx, session.ID)
		if err != nil {
			t.Fatalf("ListParticipants failed: %v", err)
		}
		want := []string{"Charlie", "Alice", "Bob"}
		if len(names) != len(want) {
			t.Fatalf("ListParticipants = %v, want %v", names, want)
		}
		for i := range want {
			if names[i] != want[i] {
				t.Errorf("participant %d = %q, want %q", i, names[i], want[i])
			}
		}
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		store := open(t)
		a, b := &models.Session{}, &models.Session{}
		if err := store.CreateSession(ctx, a); err != nil {
			t.Fatal(err)
		}
		if err := store.CreateSession(ctx, b); err != nil {
			t.Fatal(err)
		}

		if err := store.AddParticipant(ctx, a.ID, "Alice"); err != nil {
			t.Fatal(err)
		}
		if err := store.AddParticipant(ctx, b.ID, "Alice"); err != nil {
			t.Errorf("same name in another session should be allowed: %v", err)
		}
		if err := store.AddExpense(ctx, &models.ExpenseRecord{
			SessionID: a.ID, Name: "Lunch", Price: decimal.NewFromInt(20),
			Participants: []string{"Alice"}, Payer: "Alice",
		}); err != nil {
			t.Fatal(err)
		}

		expenses, err := store.ListExpenses(ctx, b.ID)
		if err != nil {
			t.Fatal(err)
		}
		if len(expenses) != 0 {
			t.Errorf("session b sees %d expenses of session a", len(expenses))
		}
	})

	t.Run("expenses round-trip in insertion order", func(t *testing.T) {
		store := open(t)
		session := &models.Session{}
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatal(err)
		}

		records := []*models.ExpenseRecord{
			{SessionID: session.ID, Name: "Dinner", Price: decimal.RequireFromString("30.00"), Participants: []string{"A", "B", "C"}, Payer: "A"},
			{SessionID: session.ID, Name: "Taxi", Price: decimal.RequireFromString("15.5"), Participants: []string{"C", "B"}, Payer: "B"},
			{SessionID: session.ID, Name: "Tip", Price: decimal.RequireFromString("3.3333333333333333"), Participants: []string{"A"}, Payer: "C"},
		}
		for _, rec := range records {
			if err := store.AddExpense(ctx, rec); err != nil {
				t.Fatalf("AddExpense(%s) failed: %v", rec.Name, err)
			}
			if rec.ID == "" || rec.CreatedAt == 0 {
				t.Errorf("AddExpense(%s) did not populate ID/CreatedAt", rec.Name)
			}
		}

		got, err := store.ListExpenses(ctx, session.ID)
		if err != nil {
			t.Fatalf("ListExpenses failed: %v", err)
		}
		if len(got) != len(records) {
			t.Fatalf("got %d expenses, want %d", len(got), len(records))
		}
		for i, want := range records {
			g := got[i]
			if g.ID != want.ID || g.Name != want.Name || g.Payer != want.Payer || g.SessionID != session.ID {
				t.Errorf("expense %d = %+v, want %+v", i, g, want)
			}
			if !g.Price.Equal(want.Price) {
				t.Errorf("expense %d price = %s, want %s", i, g.Price, want.Price)
			}
			if len(g.Participants) != len(want.Participants) {
				t.Fatalf("expense %d participants = %v, want %v", i, g.Participants, want.Participants)
			}
			for k := range want.Participants {
				if g.Participants[k] != want.Participants[k] {
					t.Errorf("expense %d participant %d = %q, want %q", i, k, g.Participants[k], want.Participants[k])
				}
			}
		}
	})

	t.Run("returned records are copies", func(t *testing.T) {
		store := open(t)
		session := &models.Session{}
		if err := store.CreateSession(ctx, session); err != nil {
			t.Fatal(err)
		}
		if err := store.AddExpense(ctx, &models.ExpenseRecord{
			SessionID: session.ID, Name: "Lunch", Price: decimal.NewFromInt(20),
			Participants: []string{"Alice", "Bob"}, Payer: "Alice",
		}); err != nil {
			t.Fatal(err)
		}

		first, _ := store.ListExpenses(ctx, session.ID)
		first[0].Participants[0] = "Mallory"

		second, _ := store.ListExpenses(ctx, session.ID)
		if second[0].Participants[0] != "Alice" {
			t.Error("mutating a listed record changed the stored one")
		}
	})

	t.Run("unknown session", func(t *testing.T) {
		store := open(t)

		if err := store.AddParticipant(ctx, "missing", "Alice"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AddParticipant error = %v, want ErrNotFound", err)
		}
		if _, err := store.ListParticipants(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("ListParticipants error = %v, want ErrNotFound", err)
		}
		err := store.AddExpense(ctx, &models.ExpenseRecord{SessionID: "missing", Name: "x", Price: decimal.NewFromInt(1)})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("AddExpense error = %v, want ErrNotFound", err)
		}
		if _, err := store.ListExpenses(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("ListExpenses error = %v, want ErrNotFound", err)
		}
	})
}
