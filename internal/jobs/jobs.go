// Package jobs runs the periodic background work: overdue invoice scans,
// trending cache refreshes, and monthly performance snapshots. A file lock
// keeps two daemons from running the same jobs against one data directory.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/notifications"
	"tushle/internal/performance"
	"tushle/internal/store"
	"tushle/internal/trending"
)

// Manager owns the scheduler loop.
type Manager struct {
	cfg        *config.Config
	store      *store.Store
	logger     *slog.Logger
	notifier   notifications.Service
	aggregator *trending.Aggregator
	lock       *flock.Flock

	lastOverdueScan     time.Time
	lastTrendingRefresh time.Time
}

// NewManager wires the scheduler.
func NewManager(cfg *config.Config, st *store.Store, logger *slog.Logger, notifier notifications.Service, aggregator *trending.Aggregator) *Manager {
	return &Manager{
		cfg:        cfg,
		store:      st,
		logger:     logging.WithComponent(logger, "jobs"),
		notifier:   notifier,
		aggregator: aggregator,
	}
}

// Acquire takes the single-instance lock. Callers must Release it.
func (m *Manager) Acquire() error {
	lockPath := filepath.Join(m.cfg.DataDir, "tushle.lock")
	m.lock = flock.New(lockPath)
	locked, err := m.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire job lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another instance holds %s", lockPath)
	}
	return nil
}

// Release drops the single-instance lock.
func (m *Manager) Release() {
	if m.lock != nil {
		_ = m.lock.Unlock()
		m.lock = nil
	}
}

// Run executes the scheduler loop until the context is canceled.
func (m *Manager) Run(ctx context.Context) error {
	poll := time.Duration(m.cfg.Jobs.PollInterval) * time.Second
	if poll <= 0 {
		poll = time.Minute
	}
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	m.logger.Info("job scheduler started", logging.Duration("poll_interval", poll))
	m.tick(ctx, time.Now())
	for {
		select {
		case <-ctx.Done():
			m.logger.Info("job scheduler stopped")
			return ctx.Err()
		case now := <-ticker.C:
			m.tick(ctx, now)
		}
	}
}

func (m *Manager) tick(ctx context.Context, now time.Time) {
	overdueEvery := time.Duration(m.cfg.Jobs.OverdueScanInterval) * time.Second
	if overdueEvery <= 0 {
		overdueEvery = time.Hour
	}
	if now.Sub(m.lastOverdueScan) >= overdueEvery {
		m.lastOverdueScan = now
		if _, err := m.ScanOverdueInvoices(ctx, now); err != nil {
			m.logger.Error("overdue scan failed", logging.Error(err))
			_ = m.notifier.NotifyError(ctx, err, "overdue invoice scan")
		}
	}

	refreshEvery := time.Duration(m.cfg.Jobs.TrendingRefreshHours) * time.Hour
	if refreshEvery <= 0 {
		refreshEvery = 6 * time.Hour
	}
	if now.Sub(m.lastTrendingRefresh) >= refreshEvery {
		m.lastTrendingRefresh = now
		if err := m.RefreshTrending(ctx); err != nil {
			m.logger.Error("trending refresh failed", logging.Error(err))
			_ = m.notifier.NotifyError(ctx, err, "trending refresh")
		}
	}

	if now.Day() == m.cfg.Jobs.PerformanceDayOfMonth {
		if _, err := m.SnapshotPerformance(ctx, now); err != nil {
			m.logger.Error("performance snapshots failed", logging.Error(err))
			_ = m.notifier.NotifyError(ctx, err, "performance snapshots")
		}
	}
}

// ScanOverdueInvoices flips past-due sent invoices to overdue and sends one
// reminder per invoice. Returns how many invoices were flipped.
func (m *Manager) ScanOverdueInvoices(ctx context.Context, now time.Time) (int, error) {
	candidates, err := m.store.ListOverdueCandidates(ctx, now)
	if err != nil {
		return 0, err
	}
	flipped := 0
	for _, invoice := range candidates {
		if err := m.store.MarkInvoiceOverdue(ctx, invoice.ID); err != nil {
			m.logger.Warn("mark overdue failed",
				logging.Int64("invoice_id", invoice.ID),
				logging.Error(err))
			continue
		}
		flipped++
		clientName := ""
		if client, err := m.store.GetClient(ctx, invoice.ClientID); err == nil {
			clientName = client.Name
		}
		if err := m.notifier.NotifyInvoiceOverdue(ctx, invoice.InvoiceNumber, clientName, invoice.AmountCents); err != nil {
			m.logger.Warn("overdue notification failed",
				logging.String("invoice", invoice.InvoiceNumber),
				logging.Error(err))
		}
	}
	if flipped > 0 {
		m.logger.Info("overdue scan complete", logging.Int("flipped", flipped))
	}
	return flipped, nil
}

// RefreshTrending re-runs aggregation for every configured feed field.
func (m *Manager) RefreshTrending(ctx context.Context) error {
	fields := make([]string, 0, len(m.cfg.Trending.Feeds))
	for field := range m.cfg.Trending.Feeds {
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		fields = []string{"technology"}
	}
	for _, field := range fields {
		if _, err := m.aggregator.Refresh(ctx, field); err != nil {
			return fmt.Errorf("refresh %s: %w", field, err)
		}
	}
	return nil
}

// SnapshotPerformance computes last month's snapshot for every active
// employee that does not have one yet. Returns how many were written.
func (m *Manager) SnapshotPerformance(ctx context.Context, now time.Time) (int, error) {
	periodEnd := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	periodStart := periodEnd.AddDate(0, -1, 0)

	employees, err := m.store.ListActiveEmployees(ctx)
	if err != nil {
		return 0, err
	}

	written := 0
	for _, employee := range employees {
		exists, err := m.store.HasPerformanceSnapshot(ctx, employee.ID, periodStart)
		if err != nil {
			return written, err
		}
		if exists {
			continue
		}

		taskStats, err := m.store.TaskStatsForEmployee(ctx, employee.ID, periodStart, periodEnd)
		if err != nil {
			return written, err
		}
		leadStats, err := m.store.LeadStatsForEmployee(ctx, employee.ID, periodStart, periodEnd)
		if err != nil {
			return written, err
		}
		meetingStats, err := m.store.MeetingStatsForEmployee(ctx, employee.ID, periodStart, periodEnd)
		if err != nil {
			return written, err
		}
		clientsManaged, err := m.store.CountClientsManaged(ctx, employee.ID)
		if err != nil {
			return written, err
		}

		score := performance.Score(performance.Inputs{
			TasksAssigned:     taskStats.Assigned,
			TasksCompleted:    taskStats.Completed,
			TasksOverdue:      taskStats.Overdue,
			LeadsAssigned:     leadStats.Assigned,
			LeadsConverted:    leadStats.Converted,
			MeetingsScheduled: meetingStats.Scheduled,
			MeetingsCompleted: meetingStats.Completed,
			EstimatedHours:    taskStats.TotalEstimatedHours,
			ActualHours:       taskStats.TotalActualHours,
		})

		avgCompletion := 0.0
		if taskStats.Completed > 0 {
			avgCompletion = taskStats.TotalActualHours / float64(taskStats.Completed)
		}

		snap := &store.EmployeePerformance{
			EmployeeID:              employee.ID,
			PeriodStart:             store.NewTime(periodStart),
			PeriodEnd:               store.NewTime(periodEnd),
			TotalTasksAssigned:      taskStats.Assigned,
			TasksCompleted:          taskStats.Completed,
			TasksOverdue:            taskStats.Overdue,
			AvgTaskCompletionHours:  avgCompletion,
			TotalEstimatedHours:     taskStats.TotalEstimatedHours,
			TotalActualHours:        taskStats.TotalActualHours,
			LeadsAssigned:           leadStats.Assigned,
			LeadsContacted:          leadStats.Contacted,
			LeadsQualified:          leadStats.Qualified,
			LeadsConverted:          leadStats.Converted,
			TotalEstimatedDealCents: leadStats.EstimatedValueCents,
			TotalActualDealCents:    leadStats.ConvertedValueCents,
			MeetingsScheduled:       meetingStats.Scheduled,
			MeetingsCompleted:       meetingStats.Completed,
			MeetingsNoShow:          meetingStats.NoShow,
			ClientsManaged:          clientsManaged,
			PerformanceScore:        score,
			Rating:                  performance.Rating(score),
		}
		if err := m.store.CreatePerformanceSnapshot(ctx, snap); err != nil {
			return written, err
		}
		written++
	}

	if written > 0 {
		period := periodStart.Format("2006-01")
		m.logger.Info("performance snapshots written",
			logging.Int("employees", written),
			logging.String("period", period))
		_ = m.notifier.NotifyPerformanceSnapshots(ctx, written, period)
	}
	return written, nil
}
