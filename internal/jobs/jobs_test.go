package jobs

import (
	"context"
	"testing"
	"time"

	"tushle/internal/logging"
	"tushle/internal/notifications"
	"tushle/internal/store"
	"tushle/internal/testsupport"
	"tushle/internal/trending"
)

func newManager(t *testing.T) (*Manager, *store.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Trending.Sources = []string{"linkedin"}
	st := testsupport.MustOpenStore(t, cfg)
	agg := trending.NewAggregator(cfg, logging.NewNop())
	mgr := NewManager(cfg, st, logging.NewNop(), notifications.NewService(cfg), agg)
	return mgr, st
}

func TestScanOverdueInvoices(t *testing.T) {
	mgr, st := newManager(t)
	ctx := context.Background()

	user := &store.User{Email: "u@example.com", HashedPassword: "x", Role: store.RoleEmployee, IsActive: true}
	if err := st.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	client := &store.Client{Name: "Acme", Email: "a@example.com", Status: store.ClientActive, OwnerID: user.ID}
	if err := st.CreateClient(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}

	pastDue := store.NewTime(time.Now().Add(-72 * time.Hour))
	invoice := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 90000, DueDate: &pastDue}
	if err := st.CreateInvoice(ctx, invoice); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if _, err := st.MarkInvoiceSent(ctx, invoice.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	// Draft invoices with past due dates must not flip.
	draft := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 100, DueDate: &pastDue}
	if err := st.CreateInvoice(ctx, draft); err != nil {
		t.Fatalf("create draft: %v", err)
	}

	flipped, err := mgr.ScanOverdueInvoices(ctx, time.Now())
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if flipped != 1 {
		t.Fatalf("flipped = %d, want 1", flipped)
	}

	got, err := st.GetInvoice(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if got.Status != store.InvoiceOverdue {
		t.Fatalf("status = %q, want overdue", got.Status)
	}

	// A second scan finds nothing.
	flipped, err = mgr.ScanOverdueInvoices(ctx, time.Now())
	if err != nil {
		t.Fatalf("second scan: %v", err)
	}
	if flipped != 0 {
		t.Fatalf("second scan flipped = %d, want 0", flipped)
	}
}

func TestSnapshotPerformanceIdempotent(t *testing.T) {
	mgr, st := newManager(t)
	ctx := context.Background()

	user := &store.User{Email: "emp@example.com", HashedPassword: "x", Role: store.RoleEmployee, IsActive: true}
	if err := st.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	now := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	written, err := mgr.SnapshotPerformance(ctx, now)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if written != 1 {
		t.Fatalf("written = %d, want 1", written)
	}

	written, err = mgr.SnapshotPerformance(ctx, now)
	if err != nil {
		t.Fatalf("second snapshot: %v", err)
	}
	if written != 0 {
		t.Fatalf("second run written = %d, want 0", written)
	}

	snaps, err := st.ListPerformanceSnapshots(ctx, user.ID, store.Page{})
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("snapshots = %d, want 1", len(snaps))
	}
	if snaps[0].Rating == "" {
		t.Fatal("expected rating to be set")
	}
	if got := snaps[0].PeriodStart.Format("2006-01"); got != "2026-07" {
		t.Fatalf("period = %q, want 2026-07", got)
	}
}

func TestAcquireReleaseLock(t *testing.T) {
	mgr, _ := newManager(t)
	if err := mgr.Acquire(); err != nil {
		t.Fatalf("acquire: %v", err)
	}
	defer mgr.Release()

	second := NewManager(mgr.cfg, mgr.store, logging.NewNop(), notifications.NewService(mgr.cfg), mgr.aggregator)
	if err := second.Acquire(); err == nil {
		second.Release()
		t.Fatal("expected second acquire to fail while lock held")
	}
}

func TestRefreshTrendingSeedsCaches(t *testing.T) {
	mgr, _ := newManager(t)
	if err := mgr.RefreshTrending(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
}
