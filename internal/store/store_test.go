package store_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"tushle/internal/store"
	"tushle/internal/testsupport"
)

func newStore(t *testing.T) *store.Store {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	return testsupport.MustOpenStore(t, cfg)
}

func seedUser(t *testing.T, st *store.Store, email string) *store.User {
	t.Helper()
	user := &store.User{
		Email:          email,
		HashedPassword: "x",
		FullName:       "Test User",
		Role:           store.RoleEmployee,
		IsActive:       true,
	}
	if err := st.CreateUser(context.Background(), user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedClient(t *testing.T, st *store.Store, ownerID int64) *store.Client {
	t.Helper()
	client := &store.Client{
		Name:    "Acme",
		Email:   "billing@acme.test",
		Status:  store.ClientActive,
		OwnerID: ownerID,
	}
	if err := st.CreateClient(context.Background(), client); err != nil {
		t.Fatalf("seed client: %v", err)
	}
	return client
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	st := newStore(t)
	seedUser(t, st, "dup@example.com")

	err := st.CreateUser(context.Background(), &store.User{
		Email:          "dup@example.com",
		HashedPassword: "x",
		Role:           store.RoleEmployee,
	})
	if !errors.Is(err, store.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}
}

func TestGetUserNotFound(t *testing.T) {
	st := newStore(t)
	if _, err := st.GetUser(context.Background(), 9999); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestInvoiceNumberSequence(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "inv@example.com")
	client := seedClient(t, st, user.ID)

	year := time.Now().UTC().Year()
	first := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 10000}
	if err := st.CreateInvoice(ctx, first); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	second := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 20000}
	if err := st.CreateInvoice(ctx, second); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	if got, want := first.InvoiceNumber, fmt.Sprintf("INV-%04d-0001", year); got != want {
		t.Fatalf("first invoice number = %q, want %q", got, want)
	}
	if got, want := second.InvoiceNumber, fmt.Sprintf("INV-%04d-0002", year); got != want {
		t.Fatalf("second invoice number = %q, want %q", got, want)
	}
}

func TestInvoiceLifecycle(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "life@example.com")
	client := seedClient(t, st, user.ID)

	due := store.NewTime(time.Now().Add(-48 * time.Hour))
	invoice := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 50000, DueDate: &due}
	if err := st.CreateInvoice(ctx, invoice); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	// Draft invoices cannot be paid.
	if _, err := st.MarkInvoicePaid(ctx, invoice.ID); !errors.Is(err, store.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus paying draft, got %v", err)
	}

	if _, err := st.MarkInvoiceSent(ctx, invoice.ID); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	candidates, err := st.ListOverdueCandidates(ctx, time.Now())
	if err != nil {
		t.Fatalf("list overdue: %v", err)
	}
	if len(candidates) != 1 || candidates[0].ID != invoice.ID {
		t.Fatalf("expected one overdue candidate, got %d", len(candidates))
	}
	if err := st.MarkInvoiceOverdue(ctx, invoice.ID); err != nil {
		t.Fatalf("mark overdue: %v", err)
	}

	paid, err := st.MarkInvoicePaid(ctx, invoice.ID)
	if err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if paid.Status != store.InvoicePaid || paid.PaidDate == nil {
		t.Fatalf("unexpected paid invoice: %+v", paid)
	}
}

func TestConvertLead(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "sales@example.com")

	lead := &store.Lead{
		Name:                "Big Fish",
		Email:               "fish@pond.test",
		Company:             "Pond Inc",
		Status:              store.LeadNew,
		AssignedToID:        &user.ID,
		EstimatedValueCents: 250000,
	}
	if err := st.CreateLead(ctx, lead); err != nil {
		t.Fatalf("create lead: %v", err)
	}

	// Only closed_won leads convert.
	if _, err := st.ConvertLead(ctx, lead.ID, user.ID); !errors.Is(err, store.ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}

	lead.Status = store.LeadClosedWon
	if err := st.UpdateLead(ctx, lead); err != nil {
		t.Fatalf("update lead: %v", err)
	}

	client, err := st.ConvertLead(ctx, lead.ID, user.ID)
	if err != nil {
		t.Fatalf("convert lead: %v", err)
	}
	if client.Status != store.ClientActive {
		t.Fatalf("converted client status = %q, want active", client.Status)
	}
	if client.Name != lead.Name || client.Email != lead.Email {
		t.Fatalf("client contact details not carried over: %+v", client)
	}

	got, err := st.GetLead(ctx, lead.ID)
	if err != nil {
		t.Fatalf("get lead: %v", err)
	}
	if got.Status != store.LeadConverted {
		t.Fatalf("lead status = %q, want converted", got.Status)
	}
	if _, err := st.ConvertLead(ctx, lead.ID, user.ID); !errors.Is(err, store.ErrInvalidStatus) {
		t.Fatalf("expected second conversion to fail, got %v", err)
	}
}

func TestTaskStatsForEmployee(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "worker@example.com")

	overdue := store.NewTime(time.Now().Add(-24 * time.Hour))
	tasks := []*store.Task{
		{Title: "done", Status: store.TaskCompleted, AssignedToID: &user.ID, EstimatedHours: 2, ActualHours: 3},
		{Title: "late", Status: store.TaskInProgress, AssignedToID: &user.ID, DueDate: &overdue},
		{Title: "open", Status: store.TaskTodo, AssignedToID: &user.ID},
	}
	for _, task := range tasks {
		if err := st.CreateTask(ctx, task); err != nil {
			t.Fatalf("create task %q: %v", task.Title, err)
		}
	}

	start := time.Now().Add(-30 * 24 * time.Hour)
	end := time.Now().Add(time.Hour)
	stats, err := st.TaskStatsForEmployee(ctx, user.ID, start, end)
	if err != nil {
		t.Fatalf("task stats: %v", err)
	}
	if stats.Assigned != 3 || stats.Completed != 1 || stats.Overdue != 1 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestMeetingRejectsInvertedTimes(t *testing.T) {
	st := newStore(t)
	start := store.Now()
	end := store.NewTime(start.Add(-time.Hour))
	err := st.CreateMeeting(context.Background(), &store.Meeting{
		Title:     "backwards",
		StartTime: start,
		EndTime:   end,
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestDashboardSnapshot(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "dash@example.com")
	client := seedClient(t, st, user.ID)

	invoice := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 12300}
	if err := st.CreateInvoice(ctx, invoice); err != nil {
		t.Fatalf("create invoice: %v", err)
	}
	if err := st.CreateLead(ctx, &store.Lead{Name: "L", Email: "l@x.test"}); err != nil {
		t.Fatalf("create lead: %v", err)
	}

	snap, err := st.DashboardSnapshot(ctx, time.Now())
	if err != nil {
		t.Fatalf("dashboard snapshot: %v", err)
	}
	if snap.Clients[store.ClientActive] != 1 {
		t.Fatalf("active clients = %d, want 1", snap.Clients[store.ClientActive])
	}
	if snap.Leads[store.LeadNew] != 1 {
		t.Fatalf("new leads = %d, want 1", snap.Leads[store.LeadNew])
	}
	if snap.Revenue.TotalCents != 12300 {
		t.Fatalf("total revenue = %d, want 12300", snap.Revenue.TotalCents)
	}
	if len(snap.RecentLeads) != 1 {
		t.Fatalf("recent leads = %d, want 1", len(snap.RecentLeads))
	}
}

func TestPerformanceSnapshotIdempotenceCheck(t *testing.T) {
	st := newStore(t)
	ctx := context.Background()
	user := seedUser(t, st, "perf@example.com")

	periodStart := time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC)
	periodEnd := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	exists, err := st.HasPerformanceSnapshot(ctx, user.ID, periodStart)
	if err != nil {
		t.Fatalf("check snapshot: %v", err)
	}
	if exists {
		t.Fatal("expected no snapshot yet")
	}

	snap := &store.EmployeePerformance{
		EmployeeID:       user.ID,
		PeriodStart:      store.NewTime(periodStart),
		PeriodEnd:        store.NewTime(periodEnd),
		PerformanceScore: 87.5,
		Rating:           "good",
	}
	if err := st.CreatePerformanceSnapshot(ctx, snap); err != nil {
		t.Fatalf("create snapshot: %v", err)
	}

	exists, err = st.HasPerformanceSnapshot(ctx, user.ID, periodStart)
	if err != nil {
		t.Fatalf("check snapshot: %v", err)
	}
	if !exists {
		t.Fatal("expected snapshot to exist")
	}
}
