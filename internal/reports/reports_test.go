package reports

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tushle/internal/logging"
	"tushle/internal/store"
	"tushle/internal/testsupport"
	"tushle/internal/trending"
)

func TestFilename(t *testing.T) {
	at := time.Unix(1756100000, 0)
	got := Filename("Business Metrics", "Ana@Example.com", at)
	want := "tushle_ai_report_business_metrics_ana_at_example.com_1756100000.pdf"
	if got != want {
		t.Fatalf("Filename = %q, want %q", got, want)
	}
}

func TestGenerateBusinessReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	user := &store.User{Email: "owner@example.com", HashedPassword: "x", Role: store.RoleAdmin, IsActive: true}
	if err := st.CreateUser(ctx, user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	client := &store.Client{Name: "Acme", Email: "acme@example.com", Status: store.ClientActive, OwnerID: user.ID}
	if err := st.CreateClient(ctx, client); err != nil {
		t.Fatalf("create client: %v", err)
	}
	invoice := &store.Invoice{ClientID: client.ID, UserID: user.ID, AmountCents: 150000}
	if err := st.CreateInvoice(ctx, invoice); err != nil {
		t.Fatalf("create invoice: %v", err)
	}

	gen := NewGenerator(cfg, st, logging.NewNop())
	report, err := gen.GenerateBusinessReport(ctx, user.Email, "1. Follow up faster.")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Status != store.ReportCompleted {
		t.Fatalf("report status = %q", report.Status)
	}
	info, err := os.Stat(report.FilePath)
	if err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("empty pdf")
	}
	if filepath.Dir(report.FilePath) != cfg.Reports.Dir {
		t.Fatalf("pdf outside reports dir: %s", report.FilePath)
	}
	if !strings.Contains(report.DataJSON, "revenue") {
		t.Fatalf("data json missing revenue: %s", report.DataJSON)
	}

	stored, err := st.GetReport(ctx, report.ID)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.Status != store.ReportCompleted || stored.FilePath != report.FilePath {
		t.Fatalf("stored report mismatch: %+v", stored)
	}
}

func TestGenerateTrendingReport(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	st := testsupport.MustOpenStore(t, cfg)

	result := &trending.Result{
		Field: "technology",
		Topics: []trending.Topic{
			{
				Name:               "AI automation wave",
				Source:             "Reddit",
				ComprehensiveScore: 88.4,
				PopularityScore:    90,
				BusinessScore:      75,
				Hashtags:           []string{"#ai", "#automation"},
				MonetizationIdeas:  []string{"Offer consulting services around the topic"},
			},
		},
		Sources:   []string{"reddit"},
		FetchedAt: time.Now(),
	}

	gen := NewGenerator(cfg, st, logging.NewNop())
	report, err := gen.GenerateTrendingReport(context.Background(), result, "owner@example.com")
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if report.Status != store.ReportCompleted {
		t.Fatalf("report status = %q", report.Status)
	}
	if _, err := os.Stat(report.FilePath); err != nil {
		t.Fatalf("stat pdf: %v", err)
	}
	if !strings.Contains(filepath.Base(report.FilePath), "technology") {
		t.Fatalf("filename missing field: %s", report.FilePath)
	}
}
