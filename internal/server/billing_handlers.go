package server

import (
	"net/http"
	"strings"

	"tushle/internal/store"
)

type invoiceRequest struct {
	ClientID    int64   `json:"client_id"`
	AmountCents int64   `json:"amount_cents"`
	DueDate     *string `json:"due_date"`
	Description string  `json:"description"`
}

func (s *Server) handleListInvoices(w http.ResponseWriter, r *http.Request) {
	filter := store.InvoiceFilter{
		Status:   store.InvoiceStatus(trimLower(r.URL.Query().Get("status"))),
		ClientID: queryInt64(r, "client_id"),
		UserID:   queryInt64(r, "user_id"),
	}
	invoices, err := s.store.ListInvoices(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"invoices": invoices})
}

func (s *Server) handleCreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ClientID == 0 {
		s.writeError(w, http.StatusBadRequest, "client_id required")
		return
	}
	if req.AmountCents <= 0 {
		s.writeError(w, http.StatusBadRequest, "amount_cents must be positive")
		return
	}
	if _, err := s.store.GetClient(r.Context(), req.ClientID); err != nil {
		s.writeStoreError(w, err)
		return
	}
	dueDate, err := parseDate(req.DueDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid due_date")
		return
	}
	me := currentUser(r.Context())
	invoice := &store.Invoice{
		ClientID:    req.ClientID,
		UserID:      me.ID,
		AmountCents: req.AmountCents,
		DueDate:     dueDate,
		Description: strings.TrimSpace(req.Description),
	}
	if err := s.store.CreateInvoice(r.Context(), invoice); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, invoice)
}

func (s *Server) handleGetInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := s.store.GetInvoice(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) handleUpdateInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := s.store.GetInvoice(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req invoiceRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.AmountCents > 0 {
		invoice.AmountCents = req.AmountCents
	}
	if req.Description != "" {
		invoice.Description = strings.TrimSpace(req.Description)
	}
	if req.DueDate != nil {
		dueDate, err := parseDate(req.DueDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid due_date")
			return
		}
		invoice.DueDate = dueDate
	}
	if err := s.store.UpdateInvoice(r.Context(), invoice); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) handleSendInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := s.store.MarkInvoiceSent(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	clientName := s.clientName(r, invoice.ClientID)
	if err := s.notifier.NotifyInvoiceSent(r.Context(), invoice.InvoiceNumber, clientName, invoice.AmountCents); err != nil {
		s.logger.Warn("invoice notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) handlePayInvoice(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	invoice, err := s.store.MarkInvoicePaid(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	clientName := s.clientName(r, invoice.ClientID)
	if err := s.notifier.NotifyInvoicePaid(r.Context(), invoice.InvoiceNumber, clientName, invoice.AmountCents); err != nil {
		s.logger.Warn("invoice notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusOK, invoice)
}

func (s *Server) clientName(r *http.Request, clientID int64) string {
	client, err := s.store.GetClient(r.Context(), clientID)
	if err != nil {
		return ""
	}
	return client.Name
}
