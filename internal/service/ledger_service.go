package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/mmynk/tricount/internal/calculator"
	"github.com/mmynk/tricount/internal/ledger"
	"github.com/mmynk/tricount/internal/metrics"
	"github.com/mmynk/tricount/internal/models"
	"github.com/mmynk/tricount/internal/money"
	"github.com/mmynk/tricount/internal/storage"
	"github.com/mmynk/tricount/pkg/api"
	"github.com/mmynk/tricount/pkg/api/apiconnect"
)

var errMissingSessionID = fmt.Errorf("%w: session_id required", ledger.ErrInvalidInput)

// Ensure LedgerService implements the Connect handler interface
var _ apiconnect.LedgerServiceHandler = (*LedgerService)(nil)

// LedgerService implements the Connect LedgerService.
//
// Every call rebuilds the session's ledger from its stored roster and
// expense records, so sessions never share state.
type LedgerService struct {
	store   storage.Store
	metrics *metrics.Metrics
}

// NewLedgerService creates a new LedgerService with the given storage backend.
func NewLedgerService(store storage.Store, m *metrics.Metrics) *LedgerService {
	return &LedgerService{store: store, metrics: m}
}

// CreateSession opens a new, empty session.
func (s *LedgerService) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	slog.Info("CreateSession request received", "name", req.Msg.Name)

	session := &models.Session{Name: strings.TrimSpace(req.Msg.Name)}
	if err := s.store.CreateSession(ctx, session); err != nil {
		slog.Error("CreateSession failed", "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Sessions.Inc()

	slog.Info("Session created", "session_id", session.ID)

	return connect.NewResponse(&api.CreateSessionResponse{
		Session: toAPISession(session),
	}), nil
}

// ListSessions returns every session, oldest first.
func (s *LedgerService) ListSessions(ctx context.Context, req *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error) {
	slog.Info("ListSessions request received")

	sessions, err := s.store.ListSessions(ctx)
	if err != nil {
		slog.Error("ListSessions failed", "error", err)
		return nil, toConnectError(err)
	}

	out := make([]*api.Session, len(sessions))
	for i, session := range sessions {
		out[i] = toAPISession(session)
	}

	slog.Info("ListSessions successful", "count", len(sessions))

	return connect.NewResponse(&api.ListSessionsResponse{Sessions: out}), nil
}

// AddParticipant adds a person to a session's roster with zero tallies.
func (s *LedgerService) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	sessionID := req.Msg.SessionID
	slog.Info("AddParticipant request received", "session_id", sessionID, "name", req.Msg.Name)

	l, _, err := s.load(ctx, sessionID)
	if err != nil {
		slog.Error("AddParticipant failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	p, err := l.AddParticipant(req.Msg.Name)
	if err != nil {
		slog.Warn("AddParticipant rejected", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	if err := s.store.AddParticipant(ctx, sessionID, p.Name()); err != nil {
		slog.Error("AddParticipant failed to persist", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Participants.Inc()

	slog.Info("Participant added", "session_id", sessionID, "name", p.Name())

	return connect.NewResponse(&api.AddParticipantResponse{
		Participant: toAPIParticipant(p),
	}), nil
}

// ListParticipants returns the roster with each person's current tallies.
func (s *LedgerService) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	sessionID := req.Msg.SessionID
	slog.Info("ListParticipants request received", "session_id", sessionID)

	l, _, err := s.load(ctx, sessionID)
	if err != nil {
		slog.Error("ListParticipants failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	participants := toAPIParticipants(l.Participants())

	slog.Info("ListParticipants successful", "session_id", sessionID, "count", len(participants))

	return connect.NewResponse(&api.ListParticipantsResponse{Participants: participants}), nil
}

// AddExpense logs a purchase and updates the tallies of everyone involved.
func (s *LedgerService) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	msg := req.Msg
	slog.Info("AddExpense request received",
		"session_id", msg.SessionID,
		"name", msg.Name,
		"price", msg.Price,
		"payer", msg.Payer,
		"participants_count", len(msg.Participants),
	)

	price, err := money.Parse(msg.Price)
	if err != nil {
		s.metrics.RejectedExpenses.WithLabelValues(rejectionReason(err)).Inc()
		slog.Warn("AddExpense rejected", "session_id", msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	l, _, err := s.load(ctx, msg.SessionID)
	if err != nil {
		slog.Error("AddExpense failed", "session_id", msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	expense, err := l.AddExpense(msg.Name, price, msg.Participants, msg.Payer)
	if err != nil {
		s.metrics.RejectedExpenses.WithLabelValues(rejectionReason(err)).Inc()
		slog.Warn("AddExpense rejected", "session_id", msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}

	record := &models.ExpenseRecord{
		SessionID:    msg.SessionID,
		Name:         expense.Name(),
		Price:        expense.Price(),
		Participants: expense.Participants(),
		Payer:        expense.Payer(),
	}
	if err := s.store.AddExpense(ctx, record); err != nil {
		slog.Error("AddExpense failed to persist", "session_id", msg.SessionID, "error", err)
		return nil, toConnectError(err)
	}
	s.metrics.Expenses.Inc()

	slog.Info("Expense added",
		"session_id", msg.SessionID,
		"expense_id", record.ID,
		"share", expense.Share().StringFixed(2),
	)

	return connect.NewResponse(&api.AddExpenseResponse{
		Expense: toAPIExpense(record, expense),
	}), nil
}

// ListExpenses returns the session's expenses in the order they were logged.
func (s *LedgerService) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	sessionID := req.Msg.SessionID
	slog.Info("ListExpenses request received", "session_id", sessionID)

	l, records, err := s.load(ctx, sessionID)
	if err != nil {
		slog.Error("ListExpenses failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	// Replay keeps records and ledger expenses index-aligned.
	expenses := l.Expenses()
	out := make([]*api.Expense, len(records))
	for i, record := range records {
		out[i] = toAPIExpense(record, expenses[i])
	}

	slog.Info("ListExpenses successful", "session_id", sessionID, "count", len(out))

	return connect.NewResponse(&api.ListExpensesResponse{Expenses: out}), nil
}

// GetSettlement computes the balances and the payments that settle them.
func (s *LedgerService) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	sessionID := req.Msg.SessionID
	slog.Info("GetSettlement request received", "session_id", sessionID)

	l, _, err := s.load(ctx, sessionID)
	if err != nil {
		slog.Error("GetSettlement failed", "session_id", sessionID, "error", err)
		return nil, toConnectError(err)
	}

	transfers := l.Transfers()
	s.metrics.SettlementTransfers.Observe(float64(len(transfers)))

	out := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		out[i] = &api.Transfer{From: t.From, To: t.To, Amount: amount(t.Amount)}
	}

	slog.Info("GetSettlement successful", "session_id", sessionID, "transfers", len(transfers))

	return connect.NewResponse(&api.GetSettlementResponse{
		Balances:     toAPIParticipants(l.Participants()),
		Transfers:    out,
		Instructions: calculator.Instructions(transfers),
		Settled:      len(transfers) == 0,
	}), nil
}

// load replays a session's stored inputs into a fresh ledger.
func (s *LedgerService) load(ctx context.Context, sessionID string) (*ledger.Ledger, []*models.ExpenseRecord, error) {
	if sessionID == "" {
		return nil, nil, errMissingSessionID
	}

	participants, err := s.store.ListParticipants(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}
	records, err := s.store.ListExpenses(ctx, sessionID)
	if err != nil {
		return nil, nil, err
	}

	l, err := ledger.Replay(participants, records)
	if err != nil {
		// Stored inputs were validated on the way in.
		return nil, nil, fmt.Errorf("session %s is corrupt: %v", sessionID, err)
	}
	return l, records, nil
}

// toConnectError maps domain and storage errors onto Connect codes.
func toConnectError(err error) *connect.Error {
	switch {
	case errors.Is(err, ledger.ErrDuplicateParticipant), errors.Is(err, storage.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrInvalidInput), errors.Is(err, money.ErrInvalidAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// rejectionReason labels a rejected expense for the metrics.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, money.ErrInvalidAmount):
		return "invalid_price"
	case errors.Is(err, ledger.ErrEmptyName):
		return "empty_name"
	case errors.Is(err, ledger.ErrNonPositivePrice):
		return "non_positive_price"
	case errors.Is(err, ledger.ErrNoParticipants):
		return "no_participants"
	case errors.Is(err, ledger.ErrUnknownParticipant):
		return "unknown_participant"
	case errors.Is(err, ledger.ErrUnknownPayer):
		return "unknown_payer"
	default:
		return "other"
	}
}

// amount renders a derived amount with cent precision.
func amount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toAPISession(session *models.Session) *api.Session {
	return &api.Session{
		ID:        session.ID,
		Name:      session.Name,
		CreatedAt: session.CreatedAt,
	}
}

func toAPIParticipant(p *ledger.Participant) *api.Participant {
	return &api.Participant{
		Name:     p.Name(),
		Paid:     amount(p.Paid()),
		Consumed: amount(p.Consumed()),
		Balance:  amount(p.Balance()),
		Summary:  p.String(),
	}
}

func toAPIParticipants(participants []*ledger.Participant) []*api.Participant {
	out := make([]*api.Participant, len(participants))
	for i, p := range participants {
		out[i] = toAPIParticipant(p)
	}
	return out
}

func toAPIExpense(record *models.ExpenseRecord, e *ledger.Expense) *api.Expense {
	return &api.Expense{
		ID:           record.ID,
		Name:         record.Name,
		Price:        record.Price.String(),
		Payer:        record.Payer,
		Participants: record.Participants,
		Share:        amount(e.Share()),
		CreatedAt:    record.CreatedAt,
		Summary:      e.String(),
	}
}
