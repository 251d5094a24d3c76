package server

import (
	"net/http"
	"strings"
	"time"

	"tushle/internal/store"
)

// Clients.

type clientRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Company         string `json:"company"`
	Status          string `json:"status"`
	OnboardingStage string `json:"onboarding_stage"`
	OwnerID         int64  `json:"owner_id"`
}

func (s *Server) handleListClients(w http.ResponseWriter, r *http.Request) {
	filter := store.ClientFilter{
		Status:  store.ClientStatus(trimLower(r.URL.Query().Get("status"))),
		OwnerID: queryInt64(r, "owner_id"),
	}
	clients, err := s.store.ListClients(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"clients": clients})
}

func (s *Server) handleCreateClient(w http.ResponseWriter, r *http.Request) {
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name required")
		return
	}
	ownerID := req.OwnerID
	if ownerID == 0 {
		ownerID = currentUser(r.Context()).ID
	}
	client := &store.Client{
		Name:            strings.TrimSpace(req.Name),
		Email:           trimLower(req.Email),
		Phone:           strings.TrimSpace(req.Phone),
		Company:         strings.TrimSpace(req.Company),
		Status:          store.ClientStatus(trimLower(req.Status)),
		OnboardingStage: trimLower(req.OnboardingStage),
		OwnerID:         ownerID,
	}
	if client.Status == "" {
		client.Status = store.ClientPending
	}
	if err := s.store.CreateClient(r.Context(), client); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, client)
}

func (s *Server) handleGetClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleUpdateClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	client, err := s.store.GetClient(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req clientRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != "" {
		client.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		client.Email = trimLower(req.Email)
	}
	if req.Phone != "" {
		client.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Company != "" {
		client.Company = strings.TrimSpace(req.Company)
	}
	if req.Status != "" {
		client.Status = store.ClientStatus(trimLower(req.Status))
	}
	if req.OnboardingStage != "" {
		client.OnboardingStage = trimLower(req.OnboardingStage)
	}
	if req.OwnerID != 0 {
		client.OwnerID = req.OwnerID
	}
	if err := s.store.UpdateClient(r.Context(), client); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, client)
}

func (s *Server) handleDeleteClient(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.store.DeleteClient(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Client portal.

type portalSubmitRequest struct {
	ClientID               int64  `json:"client_id"`
	ProjectRequirements    string `json:"project_requirements"`
	BudgetRange            string `json:"budget_range"`
	Timeline               string `json:"timeline"`
	AdditionalInfo         string `json:"additional_info"`
	PreferredContactMethod string `json:"preferred_contact_method"`
	UrgencyLevel           string `json:"urgency_level"`
}

func (s *Server) handlePortalSubmit(w http.ResponseWriter, r *http.Request) {
	var req portalSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ClientID == 0 || strings.TrimSpace(req.ProjectRequirements) == "" {
		s.writeError(w, http.StatusBadRequest, "client_id and project_requirements required")
		return
	}
	client, err := s.store.GetClient(r.Context(), req.ClientID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	sub := &store.PortalSubmission{
		ClientID:               client.ID,
		ProjectRequirements:    strings.TrimSpace(req.ProjectRequirements),
		BudgetRange:            strings.TrimSpace(req.BudgetRange),
		Timeline:               strings.TrimSpace(req.Timeline),
		AdditionalInfo:         strings.TrimSpace(req.AdditionalInfo),
		PreferredContactMethod: trimLower(req.PreferredContactMethod),
		UrgencyLevel:           trimLower(req.UrgencyLevel),
	}
	if sub.PreferredContactMethod == "" {
		sub.PreferredContactMethod = "email"
	}
	if sub.UrgencyLevel == "" {
		sub.UrgencyLevel = "medium"
	}
	if err := s.store.CreatePortalSubmission(r.Context(), sub); err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.notifier.NotifyPortalSubmission(r.Context(), client.Name, sub.UrgencyLevel); err != nil {
		s.logger.Warn("portal notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusCreated, sub)
}

func (s *Server) handleListSubmissions(w http.ResponseWriter, r *http.Request) {
	clientID, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	subs, err := s.store.ListPortalSubmissions(r.Context(), clientID, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"submissions": subs})
}

func (s *Server) handleUpdateSubmissionStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	status := trimLower(req.Status)
	switch status {
	case "new", "reviewing", "quoted", "accepted", "declined":
	default:
		s.writeError(w, http.StatusBadRequest, "unknown submission status")
		return
	}
	if err := s.store.UpdatePortalSubmissionStatus(r.Context(), id, status); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": status})
}

// Leads.

type leadRequest struct {
	Name                string  `json:"name"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	Company             string  `json:"company"`
	Source              string  `json:"source"`
	Status              string  `json:"status"`
	Priority            string  `json:"priority"`
	AssignedToID        *int64  `json:"assigned_to_id"`
	EstimatedValueCents int64   `json:"estimated_value_cents"`
	Notes               string  `json:"notes"`
	NextFollowUpDate    *string `json:"next_follow_up_date"`
}

func (s *Server) handleListLeads(w http.ResponseWriter, r *http.Request) {
	filter := store.LeadFilter{
		Status:       store.LeadStatus(trimLower(r.URL.Query().Get("status"))),
		Priority:     store.Priority(trimLower(r.URL.Query().Get("priority"))),
		AssignedToID: queryInt64(r, "assigned_to_id"),
	}
	leads, err := s.store.ListLeads(r.Context(), filter, queryPage(r))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"leads": leads})
}

func parseDate(value *string) (*store.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, strings.TrimSpace(*value))
	if err != nil {
		parsed, err = time.Parse("2006-01-02", strings.TrimSpace(*value))
		if err != nil {
			return nil, err
		}
	}
	t := store.NewTime(parsed)
	return &t, nil
}

func (s *Server) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		s.writeError(w, http.StatusBadRequest, "name required")
		return
	}
	followUp, err := parseDate(req.NextFollowUpDate)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid next_follow_up_date")
		return
	}
	me := currentUser(r.Context())
	lead := &store.Lead{
		Name:                strings.TrimSpace(req.Name),
		Email:               trimLower(req.Email),
		Phone:               strings.TrimSpace(req.Phone),
		Company:             strings.TrimSpace(req.Company),
		Source:              trimLower(req.Source),
		Status:              store.LeadStatus(trimLower(req.Status)),
		Priority:            store.Priority(trimLower(req.Priority)),
		AssignedToID:        req.AssignedToID,
		CreatedByID:         &me.ID,
		EstimatedValueCents: req.EstimatedValueCents,
		Notes:               strings.TrimSpace(req.Notes),
		NextFollowUpDate:    followUp,
	}
	if err := s.store.CreateLead(r.Context(), lead); err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.notifier.NotifyNewLead(r.Context(), lead.Name, lead.Source); err != nil {
		s.logger.Warn("lead notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusCreated, lead)
}

func (s *Server) handleGetLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := s.store.GetLead(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleUpdateLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	lead, err := s.store.GetLead(r.Context(), id)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	var req leadRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name != "" {
		lead.Name = strings.TrimSpace(req.Name)
	}
	if req.Email != "" {
		lead.Email = trimLower(req.Email)
	}
	if req.Phone != "" {
		lead.Phone = strings.TrimSpace(req.Phone)
	}
	if req.Company != "" {
		lead.Company = strings.TrimSpace(req.Company)
	}
	if req.Source != "" {
		lead.Source = trimLower(req.Source)
	}
	if req.Status != "" {
		newStatus := store.LeadStatus(trimLower(req.Status))
		if newStatus != lead.Status && newStatus == store.LeadContacted {
			now := store.Now()
			lead.LastContactDate = &now
		}
		lead.Status = newStatus
	}
	if req.Priority != "" {
		lead.Priority = store.Priority(trimLower(req.Priority))
	}
	if req.AssignedToID != nil {
		lead.AssignedToID = req.AssignedToID
	}
	if req.EstimatedValueCents != 0 {
		lead.EstimatedValueCents = req.EstimatedValueCents
	}
	if req.Notes != "" {
		lead.Notes = strings.TrimSpace(req.Notes)
	}
	if req.NextFollowUpDate != nil {
		followUp, err := parseDate(req.NextFollowUpDate)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, "invalid next_follow_up_date")
			return
		}
		lead.NextFollowUpDate = followUp
	}
	if err := s.store.UpdateLead(r.Context(), lead); err != nil {
		s.writeStoreError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, lead)
}

func (s *Server) handleConvertLead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	me := currentUser(r.Context())
	client, err := s.store.ConvertLead(r.Context(), id, me.ID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if err := s.notifier.NotifyLeadConverted(r.Context(), client.Name, client.Company); err != nil {
		s.logger.Warn("conversion notification failed", "error", err)
	}
	s.writeJSON(w, http.StatusCreated, client)
}
