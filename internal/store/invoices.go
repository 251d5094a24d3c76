package store

import (
	"context"
	"fmt"
	"time"
)

// NextInvoiceNumber produces the next INV-YYYY-NNNN number for the given
// year by counting existing invoices in that year.
func (s *Store) NextInvoiceNumber(ctx context.Context, year int) (string, error) {
	var count int
	err := s.get(ctx,
		&count, "SELECT COUNT(1) FROM invoices WHERE invoice_number LIKE ?",
		fmt.Sprintf("INV-%04d-%%", year))
	if err != nil {
		return "", fmt.Errorf("count invoices: %w", err)
	}
	return fmt.Sprintf("INV-%04d-%04d", year, count+1), nil
}

// CreateInvoice inserts an invoice, assigning the next invoice number when
// none was provided.
func (s *Store) CreateInvoice(ctx context.Context, invoice *Invoice) error {
	if invoice.Status == "" {
		invoice.Status = InvoiceDraft
	}
	if !invoice.Status.Valid() {
		return fmt.Errorf("%w: invoice status %q", ErrInvalidStatus, invoice.Status)
	}
	if invoice.InvoiceNumber == "" {
		number, err := s.NextInvoiceNumber(ctx, time.Now().UTC().Year())
		if err != nil {
			return err
		}
		invoice.InvoiceNumber = number
	}
	now := Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	id, err := s.insert(ctx, `
		INSERT INTO invoices (invoice_number, client_id, user_id, amount_cents, status, due_date, paid_date, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		invoice.InvoiceNumber, invoice.ClientID, invoice.UserID, invoice.AmountCents,
		invoice.Status, invoice.DueDate, invoice.PaidDate, invoice.Description,
		invoice.CreatedAt, invoice.UpdatedAt)
	if err != nil {
		if isDuplicate(err) {
			return fmt.Errorf("%w: invoice number %s", ErrDuplicate, invoice.InvoiceNumber)
		}
		return fmt.Errorf("create invoice: %w", err)
	}
	invoice.ID = id
	return nil
}

// GetInvoice loads an invoice by id.
func (s *Store) GetInvoice(ctx context.Context, id int64) (*Invoice, error) {
	var invoice Invoice
	if err := s.get(ctx, &invoice, "SELECT * FROM invoices WHERE id = ?", id); err != nil {
		return nil, notFound(err)
	}
	return &invoice, nil
}

// InvoiceFilter narrows ListInvoices.
type InvoiceFilter struct {
	Status   InvoiceStatus
	ClientID int64
	UserID   int64
}

// ListInvoices returns invoices matching the filter, newest first.
func (s *Store) ListInvoices(ctx context.Context, filter InvoiceFilter, page Page) ([]Invoice, error) {
	page = page.normalize()
	query := "SELECT * FROM invoices WHERE 1=1"
	args := []any{}
	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.ClientID != 0 {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if filter.UserID != 0 {
		query += " AND user_id = ?"
		args = append(args, filter.UserID)
	}
	query += " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	invoices := []Invoice{}
	if err := s.list(ctx, &invoices, query, args...); err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// UpdateInvoice saves mutable invoice fields.
func (s *Store) UpdateInvoice(ctx context.Context, invoice *Invoice) error {
	if !invoice.Status.Valid() {
		return fmt.Errorf("%w: invoice status %q", ErrInvalidStatus, invoice.Status)
	}
	invoice.UpdatedAt = Now()
	affected, err := s.exec(ctx, `
		UPDATE invoices SET amount_cents = ?, status = ?, due_date = ?, paid_date = ?, description = ?, updated_at = ?
		WHERE id = ?`,
		invoice.AmountCents, invoice.Status, invoice.DueDate, invoice.PaidDate,
		invoice.Description, invoice.UpdatedAt, invoice.ID)
	if err != nil {
		return fmt.Errorf("update invoice: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkInvoiceSent moves a draft invoice to sent.
func (s *Store) MarkInvoiceSent(ctx context.Context, id int64) (*Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != InvoiceDraft {
		return nil, fmt.Errorf("%w: cannot send invoice in status %q", ErrInvalidStatus, invoice.Status)
	}
	invoice.Status = InvoiceSent
	if err := s.UpdateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// MarkInvoicePaid records payment on a sent or overdue invoice.
func (s *Store) MarkInvoicePaid(ctx context.Context, id int64) (*Invoice, error) {
	invoice, err := s.GetInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	if invoice.Status != InvoiceSent && invoice.Status != InvoiceOverdue {
		return nil, fmt.Errorf("%w: cannot pay invoice in status %q", ErrInvalidStatus, invoice.Status)
	}
	invoice.Status = InvoicePaid
	paid := Now()
	invoice.PaidDate = &paid
	if err := s.UpdateInvoice(ctx, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// ListOverdueCandidates returns sent invoices whose due date has passed.
func (s *Store) ListOverdueCandidates(ctx context.Context, now time.Time) ([]Invoice, error) {
	invoices := []Invoice{}
	err := s.list(ctx, &invoices, `
		SELECT * FROM invoices
		WHERE status = ? AND due_date IS NOT NULL AND due_date < ?
		ORDER BY due_date`,
		InvoiceSent, NewTime(now))
	if err != nil {
		return nil, fmt.Errorf("list overdue candidates: %w", err)
	}
	return invoices, nil
}

// MarkInvoiceOverdue flips a sent invoice to overdue. Used by the periodic
// scan rather than handlers.
func (s *Store) MarkInvoiceOverdue(ctx context.Context, id int64) error {
	affected, err := s.exec(ctx,
		"UPDATE invoices SET status = ?, updated_at = ? WHERE id = ? AND status = ?",
		InvoiceOverdue, Now(), id, InvoiceSent)
	if err != nil {
		return fmt.Errorf("mark invoice overdue: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// RevenueSummary aggregates invoice totals for dashboards and reports.
type RevenueSummary struct {
	TotalCents       int64 `db:"total_cents" json:"total_cents"`
	PaidCents        int64 `db:"paid_cents" json:"paid_cents"`
	OutstandingCents int64 `db:"outstanding_cents" json:"outstanding_cents"`
	OverdueCents     int64 `db:"overdue_cents" json:"overdue_cents"`
	InvoiceCount     int   `db:"invoice_count" json:"invoice_count"`
}

// SummarizeRevenue computes revenue totals across all invoices.
func (s *Store) SummarizeRevenue(ctx context.Context) (*RevenueSummary, error) {
	var summary RevenueSummary
	err := s.get(ctx, &summary, `
		SELECT
			COALESCE(SUM(CASE WHEN status != 'cancelled' THEN amount_cents ELSE 0 END), 0) AS total_cents,
			COALESCE(SUM(CASE WHEN status = 'paid' THEN amount_cents ELSE 0 END), 0) AS paid_cents,
			COALESCE(SUM(CASE WHEN status IN ('sent', 'overdue') THEN amount_cents ELSE 0 END), 0) AS outstanding_cents,
			COALESCE(SUM(CASE WHEN status = 'overdue' THEN amount_cents ELSE 0 END), 0) AS overdue_cents,
			COUNT(1) AS invoice_count
		FROM invoices`)
	if err != nil {
		return nil, fmt.Errorf("summarize revenue: %w", err)
	}
	return &summary, nil
}
