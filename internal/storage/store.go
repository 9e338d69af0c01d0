// Package storage provides abstractions for session storage.
//
// Backends keep sessions for the life of the process only; nothing is
// written to disk.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/tricount/internal/models"
)

var (
	// ErrNotFound is returned when a session does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicate is returned when a participant name is already on a session's roster.
	ErrDuplicate = errors.New("already exists")
)

// Store defines the interface for session storage operations.
// This abstraction allows swapping storage backends without changing the
// service layer.
type Store interface {
	// CreateSession persists a new session.
	// The session.ID and session.CreatedAt fields are populated by the store when empty.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by its ID.
	// Returns an error wrapping ErrNotFound if the session does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// ListSessions returns all sessions, oldest first.
	ListSessions(ctx context.Context) ([]*models.Session, error)

	// AddParticipant appends a name to the session's roster.
	// Returns an error wrapping ErrDuplicate if the name is taken.
	AddParticipant(ctx context.Context, sessionID, name string) error

	// ListParticipants returns the session's roster in insertion order.
	ListParticipants(ctx context.Context, sessionID string) ([]string, error)

	// AddExpense appends an expense record to its session.
	// The expense.ID and expense.CreatedAt fields are populated by the store when empty.
	AddExpense(ctx context.Context, expense *models.ExpenseRecord) error

	// ListExpenses returns the session's expenses in insertion order.
	ListExpenses(ctx context.Context, sessionID string) ([]*models.ExpenseRecord, error)

	// Close releases any resources held by the store.
	Close() error
}
