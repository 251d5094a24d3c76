package server

import (
	"net/http"
	"time"

	"tushle/internal/logging"
	"tushle/internal/store"
)

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := s.store.ListActiveEmployees(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"employees": employees})
}

func (s *Server) handleClientStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountClientsByStatus(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"by_status": counts})
}

func (s *Server) handleLeadStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountLeadsByStatus(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"by_status": counts})
}

func (s *Server) handleTaskStats(w http.ResponseWriter, r *http.Request) {
	counts, err := s.store.CountTasksByStatus(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"by_status": counts})
}

func (s *Server) handleInvoiceStats(w http.ResponseWriter, r *http.Request) {
	summary, err := s.store.SummarizeRevenue(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleUpcomingMeetings(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	filter := store.MeetingFilter{
		Status: store.MeetingScheduled,
		From:   now,
		To:     now.AddDate(0, 0, 7),
	}
	meetings, err := s.store.ListMeetings(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"meetings": meetings})
}

// handleSendOverdueReminders flips past-due sent invoices to overdue and
// pushes a reminder per invoice. The background scan does the same on a
// schedule; this endpoint exists for on-demand runs.
func (s *Server) handleSendOverdueReminders(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.store.ListOverdueCandidates(r.Context(), time.Now())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	flipped := 0
	for _, invoice := range candidates {
		if err := s.store.MarkInvoiceOverdue(r.Context(), invoice.ID); err != nil {
			s.logger.Warn("mark overdue failed",
				logging.String("invoice", invoice.InvoiceNumber),
				logging.Error(err))
			continue
		}
		flipped++
		clientName := s.clientName(r, invoice.ClientID)
		if err := s.notifier.NotifyInvoiceOverdue(r.Context(), invoice.InvoiceNumber, clientName, invoice.AmountCents); err != nil {
			s.logger.Warn("overdue notification failed", "error", err)
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"checked": len(candidates),
		"overdue": flipped,
	})
}
