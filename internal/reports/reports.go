// Package reports renders business PDFs from dashboard metrics and trending
// analysis.
package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/store"
	"tushle/internal/trending"
)

// Generator writes report PDFs and records them in the store.
type Generator struct {
	cfg    *config.Config
	store  *store.Store
	logger *slog.Logger
}

// NewGenerator builds a report generator.
func NewGenerator(cfg *config.Config, st *store.Store, logger *slog.Logger) *Generator {
	return &Generator{
		cfg:    cfg,
		store:  st,
		logger: logging.WithComponent(logger, "reports"),
	}
}

// Filename builds the canonical report filename for a field and user.
func Filename(field, user string, at time.Time) string {
	sanitize := func(s string) string {
		s = strings.ToLower(strings.TrimSpace(s))
		s = strings.ReplaceAll(s, " ", "_")
		s = strings.ReplaceAll(s, "@", "_at_")
		return s
	}
	return fmt.Sprintf("tushle_ai_report_%s_%s_%d.pdf",
		sanitize(field), sanitize(user), at.Unix())
}

// GenerateBusinessReport renders the metrics report and returns the stored
// report row. The row is written up front in generating status and finished
// when the PDF lands on disk.
func (g *Generator) GenerateBusinessReport(ctx context.Context, userEmail, recommendations string) (*store.Report, error) {
	snapshot, err := g.store.DashboardSnapshot(ctx, time.Now())
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}
	revenue, err := g.store.MonthlyRevenue(ctx, 6)
	if err != nil {
		return nil, fmt.Errorf("gather revenue: %w", err)
	}

	report := &store.Report{
		Title:      "Business Performance Report",
		ReportType: "business",
	}
	if err := g.store.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	path := filepath.Join(g.cfg.Reports.Dir, Filename("business", userEmail, now))
	data := map[string]any{
		"clients":         snapshot.Clients,
		"leads":           snapshot.Leads,
		"tasks":           snapshot.Tasks,
		"revenue":         snapshot.Revenue,
		"monthly_revenue": revenue,
		"generated_at":    now.Format(time.RFC3339),
	}

	if err := g.renderBusinessPDF(path, snapshot, revenue, recommendations, now); err != nil {
		_ = g.store.FinishReport(ctx, report.ID, store.ReportFailed, "", "{}")
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		encoded = []byte("{}")
	}
	if err := g.store.FinishReport(ctx, report.ID, store.ReportCompleted, path, string(encoded)); err != nil {
		return nil, err
	}
	report.Status = store.ReportCompleted
	report.FilePath = path
	report.DataJSON = string(encoded)
	g.logger.Info("report generated",
		logging.String("type", "business"),
		logging.String("path", path))
	return report, nil
}

// GenerateTrendingReport renders the ranked topic list for a field.
func (g *Generator) GenerateTrendingReport(ctx context.Context, result *trending.Result, userEmail string) (*store.Report, error) {
	report := &store.Report{
		Title:      fmt.Sprintf("Trending Topics Report: %s", titleCase(result.Field)),
		ReportType: "trending",
	}
	if err := g.store.CreateReport(ctx, report); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	path := filepath.Join(g.cfg.Reports.Dir, Filename(result.Field, userEmail, now))

	if err := g.renderTrendingPDF(path, result, now); err != nil {
		_ = g.store.FinishReport(ctx, report.ID, store.ReportFailed, "", "{}")
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	encoded, err := json.Marshal(result)
	if err != nil {
		encoded = []byte("{}")
	}
	if err := g.store.FinishReport(ctx, report.ID, store.ReportCompleted, path, string(encoded)); err != nil {
		return nil, err
	}
	report.Status = store.ReportCompleted
	report.FilePath = path
	report.DataJSON = string(encoded)
	g.logger.Info("report generated",
		logging.String("type", "trending"),
		logging.String("field", result.Field),
		logging.String("path", path))
	return report, nil
}

func (g *Generator) renderBusinessPDF(path string, snapshot *store.DashboardStats, revenue []store.MonthlyRevenuePoint, recommendations string, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	title(pdf, "Business Performance Report")
	subtitle(pdf, "Generated "+now.Format("January 2, 2006 15:04 MST"))

	heading(pdf, "Revenue")
	row(pdf, "Total invoiced", dollars(snapshot.Revenue.TotalCents))
	row(pdf, "Collected", dollars(snapshot.Revenue.PaidCents))
	row(pdf, "Outstanding", dollars(snapshot.Revenue.OutstandingCents))
	row(pdf, "Overdue", dollars(snapshot.Revenue.OverdueCents))

	heading(pdf, "Monthly Revenue")
	for _, point := range revenue {
		row(pdf, point.Month, fmt.Sprintf("%s across %d invoices", dollars(point.PaidCents), point.Count))
	}
	if len(revenue) == 0 {
		row(pdf, "No paid invoices yet", "")
	}

	heading(pdf, "Pipeline")
	for status, count := range snapshot.Leads {
		row(pdf, "Leads "+string(status), fmt.Sprintf("%d", count))
	}
	for status, count := range snapshot.Clients {
		row(pdf, "Clients "+string(status), fmt.Sprintf("%d", count))
	}

	if recommendations = strings.TrimSpace(recommendations); recommendations != "" {
		heading(pdf, "Recommendations")
		pdf.SetFont("Helvetica", "", 10)
		pdf.MultiCell(0, 5, recommendations, "", "L", false)
	}

	return pdf.OutputFileAndClose(path)
}

func (g *Generator) renderTrendingPDF(path string, result *trending.Result, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	title(pdf, fmt.Sprintf("Trending Topics: %s", titleCase(result.Field)))
	subtitle(pdf, fmt.Sprintf("Generated %s from %d sources",
		now.Format("January 2, 2006 15:04 MST"), len(result.Sources)))

	for i, topic := range result.Topics {
		if i == 15 {
			break
		}
		heading(pdf, fmt.Sprintf("%d. %s", i+1, topic.Name))
		row(pdf, "Source", topic.Source)
		row(pdf, "Score", fmt.Sprintf("%.1f (popularity %.1f, business %.1f)",
			topic.ComprehensiveScore, topic.PopularityScore, topic.BusinessScore))
		if len(topic.Hashtags) > 0 {
			row(pdf, "Hashtags", strings.Join(topic.Hashtags, " "))
		}
		if len(topic.MonetizationIdeas) > 0 {
			row(pdf, "Monetization", strings.Join(topic.MonetizationIdeas, "; "))
		}
	}

	return pdf.OutputFileAndClose(path)
}

func title(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, text, "", 1, "L", false, 0, "")
}

func subtitle(pdf *fpdf.Fpdf, text string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(110, 110, 110)
	pdf.CellFormat(0, 6, text, "", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(2)
}

func heading(pdf *fpdf.Fpdf, text string) {
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
}

func row(pdf *fpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(60, 6, label, "", 0, "L", false, 0, "")
	pdf.MultiCell(0, 6, value, "", "L", false)
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
