// Package apiconnect wires the tricount.v1.LedgerService messages to Connect
// handlers and clients.
package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/tricount/pkg/api"
)

// LedgerServiceName is the fully-qualified name of the LedgerService.
const LedgerServiceName = "tricount.v1.LedgerService"

// Procedure paths, used both to route requests and to label metrics.
const (
	LedgerServiceCreateSessionProcedure    = "/tricount.v1.LedgerService/CreateSession"
	LedgerServiceListSessionsProcedure     = "/tricount.v1.LedgerService/ListSessions"
	LedgerServiceAddParticipantProcedure   = "/tricount.v1.LedgerService/AddParticipant"
	LedgerServiceListParticipantsProcedure = "/tricount.v1.LedgerService/ListParticipants"
	LedgerServiceAddExpenseProcedure       = "/tricount.v1.LedgerService/AddExpense"
	LedgerServiceListExpensesProcedure     = "/tricount.v1.LedgerService/ListExpenses"
	LedgerServiceGetSettlementProcedure    = "/tricount.v1.LedgerService/GetSettlement"
)

// LedgerServiceHandler is implemented by the server side of the service.
type LedgerServiceHandler interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	ListSessions(context.Context, *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for the service and returns
// the path prefix to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	routes := map[string]http.Handler{
		LedgerServiceCreateSessionProcedure:    connect.NewUnaryHandler(LedgerServiceCreateSessionProcedure, svc.CreateSession, opts...),
		LedgerServiceListSessionsProcedure:     connect.NewUnaryHandler(LedgerServiceListSessionsProcedure, svc.ListSessions, opts...),
		LedgerServiceAddParticipantProcedure:   connect.NewUnaryHandler(LedgerServiceAddParticipantProcedure, svc.AddParticipant, opts...),
		LedgerServiceListParticipantsProcedure: connect.NewUnaryHandler(LedgerServiceListParticipantsProcedure, svc.ListParticipants, opts...),
		LedgerServiceAddExpenseProcedure:       connect.NewUnaryHandler(LedgerServiceAddExpenseProcedure, svc.AddExpense, opts...),
		LedgerServiceListExpensesProcedure:     connect.NewUnaryHandler(LedgerServiceListExpensesProcedure, svc.ListExpenses, opts...),
		LedgerServiceGetSettlementProcedure:    connect.NewUnaryHandler(LedgerServiceGetSettlementProcedure, svc.GetSettlement, opts...),
	}

	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// LedgerServiceClient is a client for the service.
type LedgerServiceClient interface {
	CreateSession(context.Context, *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error)
	ListSessions(context.Context, *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error)
	AddParticipant(context.Context, *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error)
	ListParticipants(context.Context, *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error)
	AddExpense(context.Context, *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error)
	ListExpenses(context.Context, *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error)
	GetSettlement(context.Context, *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error)
}

// NewLedgerServiceClient constructs a client for the service at baseURL
// (e.g. http://localhost:8080).
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(api.JSONCodec{})}, opts...)

	return &ledgerServiceClient{
		createSession:    connect.NewClient[api.CreateSessionRequest, api.CreateSessionResponse](httpClient, baseURL+LedgerServiceCreateSessionProcedure, opts...),
		listSessions:     connect.NewClient[api.ListSessionsRequest, api.ListSessionsResponse](httpClient, baseURL+LedgerServiceListSessionsProcedure, opts...),
		addParticipant:   connect.NewClient[api.AddParticipantRequest, api.AddParticipantResponse](httpClient, baseURL+LedgerServiceAddParticipantProcedure, opts...),
		listParticipants: connect.NewClient[api.ListParticipantsRequest, api.ListParticipantsResponse](httpClient, baseURL+LedgerServiceListParticipantsProcedure, opts...),
		addExpense:       connect.NewClient[api.AddExpenseRequest, api.AddExpenseResponse](httpClient, baseURL+LedgerServiceAddExpenseProcedure, opts...),
		listExpenses:     connect.NewClient[api.ListExpensesRequest, api.ListExpensesResponse](httpClient, baseURL+LedgerServiceListExpensesProcedure, opts...),
		getSettlement:    connect.NewClient[api.GetSettlementRequest, api.GetSettlementResponse](httpClient, baseURL+LedgerServiceGetSettlementProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createSession    *connect.Client[api.CreateSessionRequest, api.CreateSessionResponse]
	listSessions     *connect.Client[api.ListSessionsRequest, api.ListSessionsResponse]
	addParticipant   *connect.Client[api.AddParticipantRequest, api.AddParticipantResponse]
	listParticipants *connect.Client[api.ListParticipantsRequest, api.ListParticipantsResponse]
	addExpense       *connect.Client[api.AddExpenseRequest, api.AddExpenseResponse]
	listExpenses     *connect.Client[api.ListExpensesRequest, api.ListExpensesResponse]
	getSettlement    *connect.Client[api.GetSettlementRequest, api.GetSettlementResponse]
}

func (c *ledgerServiceClient) CreateSession(ctx context.Context, req *connect.Request[api.CreateSessionRequest]) (*connect.Response[api.CreateSessionResponse], error) {
	return c.createSession.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListSessions(ctx context.Context, req *connect.Request[api.ListSessionsRequest]) (*connect.Response[api.ListSessionsResponse], error) {
	return c.listSessions.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddParticipant(ctx context.Context, req *connect.Request[api.AddParticipantRequest]) (*connect.Response[api.AddParticipantResponse], error) {
	return c.addParticipant.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListParticipants(ctx context.Context, req *connect.Request[api.ListParticipantsRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	return c.listParticipants.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) AddExpense(ctx context.Context, req *connect.Request[api.AddExpenseRequest]) (*connect.Response[api.AddExpenseResponse], error) {
	return c.addExpense.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListExpenses(ctx context.Context, req *connect.Request[api.ListExpensesRequest]) (*connect.Response[api.ListExpensesResponse], error) {
	return c.listExpenses.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetSettlement(ctx context.Context, req *connect.Request[api.GetSettlementRequest]) (*connect.Response[api.GetSettlementResponse], error) {
	return c.getSettlement.CallUnary(ctx, req)
}
