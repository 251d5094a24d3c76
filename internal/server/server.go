// Package server exposes the REST API. Routes live under /api/v1 and, apart
// from login, registration, the client portal, and the health probe, require
// a bearer token.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/gorilla/mux"

	"tushle/internal/auth"
	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/notifications"
	"tushle/internal/reports"
	"tushle/internal/services/groq"
	"tushle/internal/store"
	"tushle/internal/trending"
)

// Server owns the HTTP listener and its dependencies.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.Store
	tokens     *auth.Tokens
	notifier   notifications.Service
	aggregator *trending.Aggregator
	reports    *reports.Generator
	llm        *groq.Client

	listener net.Listener
	server   *http.Server
}

// New wires the server. All dependencies are required except the LLM client,
// which may be unconfigured; endpoints then serve deterministic fallbacks.
func New(cfg *config.Config, st *store.Store, logger *slog.Logger, notifier notifications.Service, aggregator *trending.Aggregator, generator *reports.Generator, llm *groq.Client) *Server {
	srv := &Server{
		cfg:        cfg,
		logger:     logging.WithComponent(logger, "api"),
		store:      st,
		tokens:     auth.NewTokens(cfg.Server.JWTSecret, time.Duration(cfg.Server.TokenTTLMinutes)*time.Minute),
		notifier:   notifier,
		aggregator: aggregator,
		reports:    generator,
		llm:        llm,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler returns the full route tree, used directly by tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	root := mux.NewRouter()
	root.Use(s.corsMiddleware)
	root.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, http.StatusNotFound, "not found")
	})

	api := root.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	// Unauthenticated surface.
	api.HandleFunc("/auth/register", s.handleRegister).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", s.handleLogin).Methods(http.MethodPost)
	api.HandleFunc("/portal/submissions", s.handlePortalSubmit).Methods(http.MethodPost)

	// Everything else requires a token.
	authed := api.NewRoute().Subrouter()
	authed.Use(s.authMiddleware)

	authed.HandleFunc("/auth/me", s.handleMe).Methods(http.MethodGet)

	authed.HandleFunc("/users", s.requireAdmin(s.handleListUsers)).Methods(http.MethodGet)
	authed.HandleFunc("/users/employees", s.handleListEmployees).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", s.handleGetUser).Methods(http.MethodGet)
	authed.HandleFunc("/users/{id}", s.requireAdmin(s.handleUpdateUser)).Methods(http.MethodPut)
	authed.HandleFunc("/users/{id}", s.requireAdmin(s.handleDeactivateUser)).Methods(http.MethodDelete)

	authed.HandleFunc("/clients", s.handleListClients).Methods(http.MethodGet)
	authed.HandleFunc("/clients", s.handleCreateClient).Methods(http.MethodPost)
	authed.HandleFunc("/clients/stats", s.handleClientStats).Methods(http.MethodGet)
	authed.HandleFunc("/clients/{id}", s.handleGetClient).Methods(http.MethodGet)
	authed.HandleFunc("/clients/{id}", s.handleUpdateClient).Methods(http.MethodPut)
	authed.HandleFunc("/clients/{id}", s.requireAdmin(s.handleDeleteClient)).Methods(http.MethodDelete)
	authed.HandleFunc("/clients/{id}/submissions", s.handleListSubmissions).Methods(http.MethodGet)
	authed.HandleFunc("/portal/submissions/{id}/status", s.handleUpdateSubmissionStatus).Methods(http.MethodPut)

	authed.HandleFunc("/invoices", s.handleListInvoices).Methods(http.MethodGet)
	authed.HandleFunc("/invoices", s.handleCreateInvoice).Methods(http.MethodPost)
	authed.HandleFunc("/invoices/stats", s.handleInvoiceStats).Methods(http.MethodGet)
	authed.HandleFunc("/invoices/overdue/send-reminders", s.handleSendOverdueReminders).Methods(http.MethodPost)
	authed.HandleFunc("/invoices/{id}", s.handleGetInvoice).Methods(http.MethodGet)
	authed.HandleFunc("/invoices/{id}", s.handleUpdateInvoice).Methods(http.MethodPut)
	authed.HandleFunc("/invoices/{id}/send", s.handleSendInvoice).Methods(http.MethodPost)
	authed.HandleFunc("/invoices/{id}/pay", s.handlePayInvoice).Methods(http.MethodPost)

	authed.HandleFunc("/leads", s.handleListLeads).Methods(http.MethodGet)
	authed.HandleFunc("/leads", s.handleCreateLead).Methods(http.MethodPost)
	authed.HandleFunc("/leads/stats", s.handleLeadStats).Methods(http.MethodGet)
	authed.HandleFunc("/leads/{id}", s.handleGetLead).Methods(http.MethodGet)
	authed.HandleFunc("/leads/{id}", s.handleUpdateLead).Methods(http.MethodPut)
	authed.HandleFunc("/leads/{id}/convert", s.handleConvertLead).Methods(http.MethodPost)

	authed.HandleFunc("/tasks", s.handleListTasks).Methods(http.MethodGet)
	authed.HandleFunc("/tasks", s.handleCreateTask).Methods(http.MethodPost)
	authed.HandleFunc("/tasks/stats", s.handleTaskStats).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}", s.handleGetTask).Methods(http.MethodGet)
	authed.HandleFunc("/tasks/{id}", s.handleUpdateTask).Methods(http.MethodPut)
	authed.HandleFunc("/tasks/{id}", s.handleDeleteTask).Methods(http.MethodDelete)

	authed.HandleFunc("/meetings", s.handleListMeetings).Methods(http.MethodGet)
	authed.HandleFunc("/meetings", s.handleCreateMeeting).Methods(http.MethodPost)
	authed.HandleFunc("/meetings/upcoming", s.handleUpcomingMeetings).Methods(http.MethodGet)
	authed.HandleFunc("/meetings/{id}", s.handleGetMeeting).Methods(http.MethodGet)
	authed.HandleFunc("/meetings/{id}", s.handleUpdateMeeting).Methods(http.MethodPut)
	authed.HandleFunc("/meetings/{id}", s.handleDeleteMeeting).Methods(http.MethodDelete)

	authed.HandleFunc("/dashboard", s.handleDashboard).Methods(http.MethodGet)
	authed.HandleFunc("/analytics/revenue", s.handleRevenueAnalytics).Methods(http.MethodGet)
	authed.HandleFunc("/analytics/lead-sources", s.handleLeadSources).Methods(http.MethodGet)

	authed.HandleFunc("/performance", s.handleListPerformance).Methods(http.MethodGet)
	authed.HandleFunc("/performance/{employee_id}", s.handleEmployeePerformance).Methods(http.MethodGet)

	authed.HandleFunc("/trending", s.handleTrending).Methods(http.MethodGet)
	authed.HandleFunc("/trending/refresh", s.handleTrendingRefresh).Methods(http.MethodPost)
	authed.HandleFunc("/trending/sources", s.handleTrendingSources).Methods(http.MethodGet)

	authed.HandleFunc("/content/posts", s.handleListContent).Methods(http.MethodGet)
	authed.HandleFunc("/content/posts", s.handleCreateContent).Methods(http.MethodPost)
	authed.HandleFunc("/content/posts/{id}", s.handleUpdateContent).Methods(http.MethodPut)

	authed.HandleFunc("/ai/scripts", s.handleListScripts).Methods(http.MethodGet)
	authed.HandleFunc("/ai/scripts", s.handleGenerateScript).Methods(http.MethodPost)
	authed.HandleFunc("/ai/keywords", s.handleExtractKeywords).Methods(http.MethodPost)
	authed.HandleFunc("/ai/analyze", s.handleAnalyzeTopic).Methods(http.MethodPost)

	authed.HandleFunc("/reports", s.handleListReports).Methods(http.MethodGet)
	authed.HandleFunc("/reports/business", s.handleBusinessReport).Methods(http.MethodPost)
	authed.HandleFunc("/reports/trending", s.handleTrendingReport).Methods(http.MethodPost)
	authed.HandleFunc("/reports/{id}/download", s.handleDownloadReport).Methods(http.MethodGet)

	authed.HandleFunc("/notifications/test", s.handleTestNotification).Methods(http.MethodPost)

	return root
}

// Start binds the listener and serves until ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Server.Bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down gracefully.
func (s *Server) Stop() {
	if s.server != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

// Addr reports the bound address, empty before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"service": "tushle",
	})
}

func trimLower(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
