// Package memory provides a map-backed implementation of the storage.Store interface.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/tricount/internal/models"
	"github.com/mmynk/tricount/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

type session struct {
	meta         models.Session
	participants []string
	names        map[string]struct{}
	expenses     []*models.ExpenseRecord
}

// Store keeps sessions in process memory.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*session
	order    []string
}

// New creates an empty Store.
func New() *Store {
	return &Store{sessions: make(map[string]*session)}
}

// Close drops every session.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = make(map[string]*session)
	s.order = nil
	return nil
}

// CreateSession stores a new session.
func (s *Store) CreateSession(ctx context.Context, sess *models.Session) error {
	if sess.ID == "" {
		sess.ID = uuid.New().String()
	}
	if sess.CreatedAt == 0 {
		sess.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.sessions[sess.ID]; exists {
		return fmt.Errorf("session %s: %w", sess.ID, storage.ErrDuplicate)
	}
	s.sessions[sess.ID] = &session{meta: *sess, names: make(map[string]struct{})}
	s.order = append(s.order, sess.ID)
	return nil
}

// GetSession retrieves a session by ID.
func (s *Store) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	meta := sess.meta
	return &meta, nil
}

// ListSessions returns all sessions in creation order.
func (s *Store) ListSessions(ctx context.Context) ([]*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Session, 0, len(s.order))
	for _, id := range s.order {
		meta := s.sessions[id].meta
		out = append(out, &meta)
	}
	return out, nil
}

// AddParticipant appends a name to a session's roster.
func (s *Store) AddParticipant(ctx context.Context, sessionID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	if _, taken := sess.names[name]; taken {
		return fmt.Errorf("participant %s: %w", name, storage.ErrDuplicate)
	}
	sess.names[name] = struct{}{}
	sess.participants = append(sess.participants, name)
	return nil
}

// ListParticipants returns a session's roster in insertion order.
func (s *Store) ListParticipants(ctx context.Context, sessionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	out := make([]string, len(sess.participants))
	copy(out, sess.participants)
	return out, nil
}

// AddExpense appends an expense record to its session.
func (s *Store) AddExpense(ctx context.Context, expense *models.ExpenseRecord) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[expense.SessionID]
	if !ok {
		return fmt.Errorf("session %s: %w", expense.SessionID, storage.ErrNotFound)
	}
	sess.expenses = append(sess.expenses, cloneExpense(expense))
	return nil
}

// ListExpenses returns a session's expenses in insertion order.
func (s *Store) ListExpenses(ctx context.Context, sessionID string) ([]*models.ExpenseRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", sessionID, storage.ErrNotFound)
	}
	out := make([]*models.ExpenseRecord, len(sess.expenses))
	for i, e := range sess.expenses {
		out[i] = cloneExpense(e)
	}
	return out, nil
}

func cloneExpense(e *models.ExpenseRecord) *models.ExpenseRecord {
	c := *e
	c.Participants = append([]string(nil), e.Participants...)
	return &c
}
