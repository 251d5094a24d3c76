package store

import (
	"context"
	"fmt"
)

// CreateClient inserts a client record.
func (s *Store) CreateClient(ctx context.Context, client *Client) error {
	if client.Status == "" {
		client.Status = ClientPending
	}
	if !client.Status.Valid() {
		return fmt.Errorf("%w: client status %q", ErrInvalidStatus, client.Status)
	}
	if client.OnboardingStage == "" {
		client.OnboardingStage = "initial"
	}
	now := Now()
	client.CreatedAt = now
	client.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO clients (name, email, phone, company, status, onboarding_stage, owner_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		client.Name, client.Email, client.Phone, client.Company, client.Status,
		client.OnboardingStage, client.OwnerID, client.CreatedAt, client.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create client: %w", err)
	}
	client.ID = id
	return nil
}

// GetClient loads a client by id.
func (s *Store) GetClient(ctx context.Context, id int64) (*Client, error) {
	var client Client
	if err := s.get(ctx, &client, "SELECT * FROM clients WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &client, nil
}

// ClientFilter narrows ListClients.
type ClientFilter struct {
	Status  ClientStatus
	OwnerID int64
}

// ListClients returns clients matching the filter, newest first.
func (s *Store) ListClients(ctx context.Context, filter ClientFilter, page Page) ([]Client, error) {
	page = page.normalize()
	query := "SELECT * FROM clients WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.OwnerID != 0 {
		query += " AND owner_id = ?"
		args = append(args, filter.OwnerID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	clients := []Client{}
	if err := s.list(ctx, &clients, query, args...); err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	return clients, nil
}

// UpdateClient saves mutable client fields.
func (s *Store) UpdateClient(ctx context.Context, client *Client) error {
	if !client.Status.Valid() {
		return fmt.Errorf("%w: client status %q", ErrInvalidStatus, client.Status)
	}
	client.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE clients SET name = ?, email = ?, phone = ?, company = ?, status = ?, onboarding_stage = ?, owner_id = ?, updated_at = ?
		WHERE id = ?`,
		client.Name, client.Email, client.Phone, client.Company, client.Status,
		client.OnboardingStage, client.OwnerID, client.UpdatedAt, client.ID)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteClient removes a client record.
func (s *Store) DeleteClient(ctx context.Context, id int64) error {
	affected, err := s.exec(ctx, "DELETE FROM clients WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountClientsByStatus groups client totals by status for the dashboard.
func (s *Store) CountClientsByStatus(ctx context.Context) (map[ClientStatus]int, error) {
	rows := []struct {
		Status ClientStatus `db:"status"`
		Count  int          `db:"count"`
	}{}
	err := s.list(ctx, &rows, "SELECT status, COUNT(1) AS count FROM clients GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count clients: %w", err)
	}
	counts := make(map[ClientStatus]int, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

// CreatePortalSubmission records a project request from the client portal.
func (s *Store) CreatePortalSubmission(ctx context.Context, sub *PortalSubmission) error {
	if sub.Status == "" {
		sub.Status = "new"
	}
	now := Now()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO portal_submissions (client_id, project_requirements, budget_range, timeline, additional_info, preferred_contact_method, urgency_level, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		sub.ClientID, sub.ProjectRequirements, sub.BudgetRange, sub.Timeline,
		sub.AdditionalInfo, sub.PreferredContactMethod, sub.UrgencyLevel, sub.Status,
		sub.CreatedAt, sub.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create portal submission: %w", err)
	}
	sub.ID = id
	return nil
}

// ListPortalSubmissions returns submissions for one client, newest first.
func (s *Store) ListPortalSubmissions(ctx context.Context, clientID int64, page Page) ([]PortalSubmission, error) {
	page = page.normalize()
	subs := []PortalSubmission{}
	err := s.list(ctx, &subs, `
		SELECT * FROM portal_submissions WHERE client_id = ?
		ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`,
		clientID, page.Limit, page.Offset)
	if err != nil {
		return nil, fmt.Errorf("list portal submissions: %w", err)
	}
	return subs, nil
}

// UpdatePortalSubmissionStatus moves a submission through triage.
func (s *Store) UpdatePortalSubmissionStatus(ctx context.Context, id int64, status string) error {
	affected, err := s.exec(ctx,
		"UPDATE portal_submissions SET status = ?, updated_at = ? WHERE id = ?", status, Now(), id)
	if err != nil {
		return fmt.Errorf("update portal submission: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
