package store

import (
	"context"
	"fmt"
	"time"
)

// LeadStats summarizes one employee's pipeline over a period.
type LeadStats struct {
	Assigned            int
	Contacted           int
	Qualified           int
	Converted           int
	EstimatedValueCents int64
	ConvertedValueCents int64
}

// LeadStatsForEmployee aggregates lead counts for one assignee. Contacted and
// qualified include every stage past them in the pipeline.
func (s *Store) LeadStatsForEmployee(ctx context.Context, employeeID int64, start, end time.Time) (*LeadStats, error) {
	row := struct {
		Assigned       int   `db:"assigned"`
		Contacted      int   `db:"contacted"`
		Qualified      int   `db:"qualified"`
		Converted      int   `db:"converted"`
		EstimatedCents int64 `db:"estimated_cents"`
		ConvertedCents int64 `db:"converted_cents"`
	}{}
	err := s.get(ctx, &row, `
		SELECT
			COUNT(1) AS assigned,
			COALESCE(SUM(CASE WHEN status != 'new' THEN 1 ELSE 0 END), 0) AS contacted,
			COALESCE(SUM(CASE WHEN status IN ('qualified', 'proposal', 'closed_won', 'converted') THEN 1 ELSE 0 END), 0) AS qualified,
			COALESCE(SUM(CASE WHEN status IN ('closed_won', 'converted') THEN 1 ELSE 0 END), 0) AS converted,
			COALESCE(SUM(estimated_value_cents), 0) AS estimated_cents,
			COALESCE(SUM(CASE WHEN status IN ('closed_won', 'converted') THEN estimated_value_cents ELSE 0 END), 0) AS converted_cents
		FROM leads
		WHERE assigned_to_id = ? AND created_at >= ? AND created_at < ?`,
		employeeID, NewTime(start), NewTime(end))
	if err != nil {
		return nil, fmt.Errorf("lead stats: %w", err)
	}
	return &LeadStats{
		Assigned:            row.Assigned,
		Contacted:           row.Contacted,
		Qualified:           row.Qualified,
		Converted:           row.Converted,
		EstimatedValueCents: row.EstimatedCents,
		ConvertedValueCents: row.ConvertedCents,
	}, nil
}

// CountClientsManaged reports how many clients an employee owns.
func (s *Store) CountClientsManaged(ctx context.Context, employeeID int64) (int, error) {
	var count int
	err := s.get(ctx, &count, "SELECT COUNT(1) FROM clients WHERE owner_id = ?", employeeID)
	if err != nil {
		return 0, fmt.Errorf("count managed clients: %w", err)
	}
	return count, nil
}

// CreatePerformanceSnapshot stores a computed monthly snapshot.
func (s *Store) CreatePerformanceSnapshot(ctx context.Context, snap *EmployeePerformance) error {
	snap.CreatedAt = Now()
	id, err := s.insert(ctx, `
		INSERT INTO employee_performance (employee_id, period_start, period_end, total_tasks_assigned, tasks_completed, tasks_overdue, avg_task_completion_hours, total_estimated_hours, total_actual_hours, leads_assigned, leads_contacted, leads_qualified, leads_converted, total_estimated_deal_cents, total_actual_deal_cents, meetings_scheduled, meetings_completed, meetings_no_show, clients_managed, performance_score, rating, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id`,
		snap.EmployeeID, snap.PeriodStart, snap.PeriodEnd, snap.TotalTasksAssigned,
		snap.TasksCompleted, snap.TasksOverdue, snap.AvgTaskCompletionHours,
		snap.TotalEstimatedHours, snap.TotalActualHours, snap.LeadsAssigned,
		snap.LeadsContacted, snap.LeadsQualified, snap.LeadsConverted,
		snap.TotalEstimatedDealCents, snap.TotalActualDealCents, snap.MeetingsScheduled,
		snap.MeetingsCompleted, snap.MeetingsNoShow, snap.ClientsManaged,
		snap.PerformanceScore, snap.Rating, snap.CreatedAt)
	if err != nil {
		return fmt.Errorf("create performance snapshot: %w", err)
	}
	snap.ID = id
	return nil
}

// ListPerformanceSnapshots returns snapshots for one employee, newest period
// first. A zero employeeID returns snapshots for everyone.
func (s *Store) ListPerformanceSnapshots(ctx context.Context, employeeID int64, page Page) ([]EmployeePerformance, error) {
	page = page.normalize()
	query := "SELECT * FROM employee_performance WHERE 1=1"
	args := []any{}
	if employeeID != 0 {
		query += " AND employee_id = ?"
		args = append(args, employeeID)
	}
	query += " ORDER BY period_start DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, page.Limit, page.Offset)

	snaps := []EmployeePerformance{}
	if err := s.list(ctx, &snaps, query, args...); err != nil {
		return nil, fmt.Errorf("list performance snapshots: %w", err)
	}
	return snaps, nil
}

// HasPerformanceSnapshot reports whether a snapshot already exists for the
// employee and period start, so the monthly job stays idempotent.
func (s *Store) HasPerformanceSnapshot(ctx context.Context, employeeID int64, periodStart time.Time) (bool, error) {
	var count int
	err := s.get(ctx, &count,
		"SELECT COUNT(1) FROM employee_performance WHERE employee_id = ? AND period_start = ?",
		employeeID, NewTime(periodStart))
	if err != nil {
		return false, fmt.Errorf("check performance snapshot: %w", err)
	}
	return count > 0, nil
}
