package store

import (
	"context"
	"fmt"
)

// CreateLead inserts a prospect.
func (s *Store) CreateLead(ctx context.Context, lead *Lead) error {
	if lead.Status == "" {
		lead.Status = LeadNew
	}
	if !lead.Status.Valid() {
		return fmt.Errorf("%w: lead status %q", ErrInvalidStatus, lead.Status)
	}
	if lead.Priority == "" {
		lead.Priority = PriorityMedium
	}
	if !lead.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidStatus, lead.Priority)
	}
	now := Now()
	lead.CreatedAt = now
	lead.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO leads (name, email, phone, company, source, status, priority, assigned_to_id, created_by_id, estimated_value_cents, notes, last_contact_date, next_follow_up_date, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		lead.Name, lead.Email, lead.Phone, lead.Company, lead.Source, lead.Status,
		lead.Priority, lead.AssignedToID, lead.CreatedByID, lead.EstimatedValueCents,
		lead.Notes, lead.LastContactDate, lead.NextFollowUpDate, lead.CreatedAt, lead.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create lead: %w", err)
	}
	lead.ID = id
	return nil
}

// GetLead loads a lead by id.
func (s *Store) GetLead(ctx context.Context, id int64) (*Lead, error) {
	var lead Lead
	if err := s.get(ctx, &lead, "SELECT * FROM leads WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &lead, nil
}

// LeadFilter narrows ListLeads.
type LeadFilter struct {
	Status       LeadStatus
	Priority     Priority
	AssignedToID int64
}

// ListLeads returns leads matching the filter, newest first.
func (s *Store) ListLeads(ctx context.Context, filter LeadFilter, page Page) ([]Lead, error) {
	page = page.normalize()
	query := "SELECT * FROM leads WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.Priority != "" {
		query += " AND priority = ?"
		args = append(args, filter.Priority)
	}
	if filter.AssignedToID != 0 {
		query += " AND assigned_to_id = ?"
		args = append(args, filter.AssignedToID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	leads := []Lead{}
	if err := s.list(ctx, &leads, query, args...); err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	return leads, nil
}

// UpdateLead saves mutable lead fields.
func (s *Store) UpdateLead(ctx context.Context, lead *Lead) error {
	if !lead.Status.Valid() {
		return fmt.Errorf("%w: lead status %q", ErrInvalidStatus, lead.Status)
	}
	if !lead.Priority.Valid() {
		return fmt.Errorf("%w: priority %q", ErrInvalidStatus, lead.Priority)
	}
	lead.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE leads SET name = ?, email = ?, phone = ?, company = ?, source = ?, status = ?, priority = ?, assigned_to_id = ?, estimated_value_cents = ?, notes = ?, last_contact_date = ?, next_follow_up_date = ?, updated_at = ?
		WHERE id = ?`,
		lead.Name, lead.Email, lead.Phone, lead.Company, lead.Source, lead.Status,
		lead.Priority, lead.AssignedToID, lead.EstimatedValueCents, lead.Notes,
		lead.LastContactDate, lead.NextFollowUpDate, lead.UpdatedAt, lead.ID)
	if err != nil {
		return fmt.Errorf("update lead: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ConvertLead turns a closed_won lead into an active client owned by the
// converting user. The lead moves to converted so it cannot convert twice.
func (s *Store) ConvertLead(ctx context.Context, leadID, ownerID int64) (*Client, error) {
	lead, err := s.GetLead(ctx, leadID)
	if err != nil {
		return nil, err
	}
	if lead.Status != LeadClosedWon {
		return nil, fmt.Errorf("%w: lead must be closed_won to convert, got %q", ErrInvalidStatus, lead.Status)
	}

	client := &Client{
		Name:    lead.Name,
		Email:   lead.Email,
		Phone:   lead.Phone,
		Company: lead.Company,
		Status:  ClientActive,
		OwnerID: ownerID,
	}
	if err := s.CreateClient(ctx, client); err != nil {
		return nil, err
	}

	lead.Status = LeadConverted
	if err := s.UpdateLead(ctx, lead); err != nil {
		return nil, err
	}
	return client, nil
}

// CountLeadsByStatus groups lead totals by status.
func (s *Store) CountLeadsByStatus(ctx context.Context) (map[LeadStatus]int, error) {
	rows := []struct {
		Status LeadStatus `db:"status"`
		Count  int        `db:"count"`
	}{}
	err := s.list(ctx, &rows, "SELECT status, COUNT(1) AS count FROM leads GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count leads: %w", err)
	}
	counts := make(map[LeadStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
