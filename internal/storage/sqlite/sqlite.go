// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
//
// The database lives in memory and is dropped when the store is closed.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"modernc.org/sqlite" // Pure Go SQLite driver (no CGO)
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/mmynk/tricount/internal/models"
	"github.com/mmynk/tricount/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using an in-memory SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// New opens a private in-memory database and runs migrations.
func New() (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Every connection to ":memory:" is a separate database; keep exactly one.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	ctx := context.Background()

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection, discarding all sessions.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession persists a new session.
func (s *SQLiteStore) CreateSession(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.New().String()
	}
	if session.CreatedAt == 0 {
		session.CreatedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sessions (id, name, created_at) VALUES (?, ?, ?)",
		session.ID, session.Name, session.CreatedAt,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("session %s: %w", session.ID, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert session: %w", err)
	}
	return nil
}

// GetSession retrieves a session by ID.
func (s *SQLiteStore) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	session := &models.Session{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM sessions WHERE id = ?",
		sessionID,
	).Scan(&session.ID, &session.Name, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return session, nil
}

// ListSessions returns all sessions, oldest first.
func (s *SQLiteStore) ListSessions(ctx context.Context) ([]*models.Session, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM sessions ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []*models.Session
	for rows.Next() {
		session := &models.Session{}
		if err := rows.Scan(&session.ID, &session.Name, &session.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}
	return sessions, nil
}

// AddParticipant appends a name to a session's roster.
func (s *SQLiteStore) AddParticipant(ctx context.Context, sessionID, name string) error {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO participants (session_id, name) VALUES (?, ?)",
		sessionID, name,
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("participant %s: %w", name, storage.ErrDuplicate)
	}
	if err != nil {
		return fmt.Errorf("failed to insert participant: %w", err)
	}
	return nil
}

// ListParticipants returns a session's roster in insertion order.
func (s *SQLiteStore) ListParticipants(ctx context.Context, sessionID string) ([]string, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM participants WHERE session_id = ? ORDER BY seq",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get participants: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan participant: %w", err)
		}
		names = append(names, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate participants: %w", err)
	}
	return names, nil
}

// AddExpense persists an expense record and its participant list.
func (s *SQLiteStore) AddExpense(ctx context.Context, expense *models.ExpenseRecord) error {
	if err := s.ensureSession(ctx, expense.SessionID); err != nil {
		return err
	}
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO expenses (id, session_id, name, price, payer, created_at) VALUES (?, ?, ?, ?, ?, ?)",
		expense.ID, expense.SessionID, expense.Name, expense.Price.String(), expense.Payer, expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, name := range expense.Participants {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_participants (expense_id, position, name) VALUES (?, ?, ?)",
			expense.ID, i, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert expense participant: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpenses returns a session's expenses in insertion order.
// Participant lists are loaded with a single join, so no query is
// issued while another result set is still open.
func (s *SQLiteStore) ListExpenses(ctx context.Context, sessionID string) ([]*models.ExpenseRecord, error) {
	if err := s.ensureSession(ctx, sessionID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.name, e.price, e.payer, e.created_at, ep.name
		FROM expenses e
		LEFT JOIN expense_participants ep ON ep.expense_id = e.id
		WHERE e.session_id = ?
		ORDER BY e.seq, ep.position`,
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expenses: %w", err)
	}
	defer rows.Close()

	expenses := []*models.ExpenseRecord{}
	var current *models.ExpenseRecord
	for rows.Next() {
		var (
			rec         models.ExpenseRecord
			participant sql.NullString
		)
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Price, &rec.Payer, &rec.CreatedAt, &participant); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if current == nil || current.ID != rec.ID {
			rec.SessionID = sessionID
			current = &rec
			expenses = append(expenses, current)
		}
		if participant.Valid {
			current.Participants = append(current.Participants, participant.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *SQLiteStore) ensureSession(ctx context.Context, sessionID string) error {
	var exists int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM sessions WHERE id = ?", sessionID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check session existence: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
