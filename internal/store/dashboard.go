package store

import (
	"context"
	"fmt"
	"time"
)

// DashboardStats is the aggregate snapshot behind the dashboard endpoint.
type DashboardStats struct {
	Clients          map[ClientStatus]int  `json:"clients"`
	Leads            map[LeadStatus]int    `json:"leads"`
	Tasks            map[TaskStatus]int    `json:"tasks"`
	Revenue          *RevenueSummary       `json:"revenue"`
	UpcomingMeetings []Meeting             `json:"upcoming_meetings"`
	RecentLeads      []Lead                `json:"recent_leads"`
}

// DashboardSnapshot gathers the counts and short lists the dashboard shows.
func (s *Store) DashboardSnapshot(ctx context.Context, now time.Time) (*DashboardStats, error) {
	clients, err := s.CountClientsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	leads, err := s.CountLeadsByStatus(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := s.CountTasksByStatus(ctx)
	if err != nil {
		return nil, err
	}
	revenue, err := s.SummarizeRevenue(ctx)
	if err != nil {
		return nil, err
	}
	upcoming, err := s.ListMeetings(ctx, MeetingFilter{
		Status: MeetingScheduled,
		From:   now,
		To:     now.Add(7 * 24 * time.Hour),
	}, Page{Limit: 5})
	if err != nil {
		return nil, err
	}
	recent, err := s.ListLeads(ctx, LeadFilter{}, Page{Limit: 5})
	if err != nil {
		return nil, err
	}
	return &DashboardStats{
		Clients:          clients,
		Leads:            leads,
		Tasks:            tasks,
		Revenue:          revenue,
		UpcomingMeetings: upcoming,
		RecentLeads:      recent,
	}, nil
}

// MonthlyRevenuePoint is one month of paid revenue for analytics charts.
type MonthlyRevenuePoint struct {
	Month     string `db:"month" json:"month"`
	PaidCents int64  `db:"paid_cents" json:"paid_cents"`
	Count     int    `db:"count" json:"count"`
}

// MonthlyRevenue groups paid invoices by payment month. The month expression
// differs per backend, so the query is selected by driver.
func (s *Store) MonthlyRevenue(ctx context.Context, months int) ([]MonthlyRevenuePoint, error) {
	if months <= 0 {
		months = 12
	}
	monthExpr := "strftime('%Y-%m', paid_date)"
	if s.driver == "postgres" {
		monthExpr = "to_char(paid_date, 'YYYY-MM')"
	}
	points := []MonthlyRevenuePoint{}
	query := fmt.Sprintf(`
		SELECT %s AS month, COALESCE(SUM(amount_cents), 0) AS paid_cents, COUNT(1) AS count
		FROM invoices
		WHERE status = 'paid' AND paid_date IS NOT NULL
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?`, monthExpr)
	if err := s.list(ctx, &points, query, months); err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return points, nil
}

// LeadSourceCount is one source's share of the pipeline.
type LeadSourceCount struct {
	Source    string `db:"source" json:"source"`
	Count     int    `db:"count" json:"count"`
	Converted int    `db:"converted" json:"converted"`
}

// LeadSources groups leads by source with conversion counts.
func (s *Store) LeadSources(ctx context.Context) ([]LeadSourceCount, error) {
	sources := []LeadSourceCount{}
	err := s.list(ctx, &sources, `
		SELECT
			source,
			COUNT(1) AS count,
			COALESCE(SUM(CASE WHEN status IN ('closed_won', 'converted') THEN 1 ELSE 0 END), 0) AS converted
		FROM leads
		GROUP BY source
		ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("lead sources: %w", err)
	}
	return sources, nil
}
