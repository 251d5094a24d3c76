package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tushle/internal/config"
)

const userAgent = "Tushle-Go/0.1.0"

// Service defines the notification surface exposed to handlers and jobs.
type Service interface {
	NotifyInvoiceSent(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error
	NotifyInvoicePaid(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error
	NotifyInvoiceOverdue(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error
	NotifyLeadConverted(ctx context.Context, leadName, company string) error
	NotifyNewLead(ctx context.Context, leadName, source string) error
	NotifyReportReady(ctx context.Context, title, filePath string) error
	NotifyPerformanceSnapshots(ctx context.Context, employees int, period string) error
	NotifyPortalSubmission(ctx context.Context, clientName, urgency string) error
	NotifyError(ctx context.Context, err error, context string) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &http.Client{Timeout: timeout}
	return &ntfyService{
		endpoint: topic,
		client:   client,
		invoices: cfg.Notifications.Invoices,
		leads:    cfg.Notifications.Leads,
		reports:  cfg.Notifications.Reports,
		errors:   cfg.Notifications.Errors,
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
	invoices bool
	leads    bool
	reports  bool
	errors   bool
}

func dollars(cents int64) string {
	return fmt.Sprintf("$%.2f", float64(cents)/100)
}

func (n *ntfyService) NotifyInvoiceSent(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error {
	if !n.invoices {
		return nil
	}
	data := payload{
		title:   "Tushle - Invoice Sent",
		message: fmt.Sprintf("Invoice %s sent to %s for %s", invoiceNumber, clientName, dollars(amountCents)),
		tags:    []string{"tushle", "invoice", "sent"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyInvoicePaid(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error {
	if !n.invoices {
		return nil
	}
	data := payload{
		title:   "Tushle - Invoice Paid",
		message: fmt.Sprintf("Invoice %s paid by %s: %s", invoiceNumber, clientName, dollars(amountCents)),
		tags:    []string{"tushle", "invoice", "paid"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyInvoiceOverdue(ctx context.Context, invoiceNumber, clientName string, amountCents int64) error {
	if !n.invoices {
		return nil
	}
	data := payload{
		title:    "Tushle - Invoice Overdue",
		message:  fmt.Sprintf("Invoice %s to %s is overdue (%s). Reminder recommended.", invoiceNumber, clientName, dollars(amountCents)),
		tags:     []string{"tushle", "invoice", "overdue"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyLeadConverted(ctx context.Context, leadName, company string) error {
	if !n.leads {
		return nil
	}
	leadName = strings.TrimSpace(leadName)
	message := fmt.Sprintf("Lead converted to client: %s", leadName)
	if company = strings.TrimSpace(company); company != "" {
		message = fmt.Sprintf("%s (%s)", message, company)
	}
	data := payload{
		title:    "Tushle - Lead Converted",
		message:  message,
		tags:     []string{"tushle", "lead", "converted"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyNewLead(ctx context.Context, leadName, source string) error {
	if !n.leads {
		return nil
	}
	leadName = strings.TrimSpace(leadName)
	source = strings.TrimSpace(source)
	if source == "" {
		source = "unknown"
	}
	data := payload{
		title:   "Tushle - New Lead",
		message: fmt.Sprintf("New lead: %s via %s", leadName, source),
		tags:    []string{"tushle", "lead", "new"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyReportReady(ctx context.Context, title, filePath string) error {
	if !n.reports {
		return nil
	}
	title = strings.TrimSpace(title)
	message := fmt.Sprintf("Report ready: %s", title)
	if filePath = strings.TrimSpace(filePath); filePath != "" {
		message = fmt.Sprintf("%s\nFile: %s", message, filePath)
	}
	data := payload{
		title:   "Tushle - Report Ready",
		message: message,
		tags:    []string{"tushle", "report", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPerformanceSnapshots(ctx context.Context, employees int, period string) error {
	if !n.reports {
		return nil
	}
	data := payload{
		title:   "Tushle - Performance Snapshots",
		message: fmt.Sprintf("Computed performance snapshots for %d employees (%s)", employees, period),
		tags:    []string{"tushle", "performance", "completed"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyPortalSubmission(ctx context.Context, clientName, urgency string) error {
	if !n.leads {
		return nil
	}
	clientName = strings.TrimSpace(clientName)
	urgency = strings.TrimSpace(urgency)
	if urgency == "" {
		urgency = "medium"
	}
	data := payload{
		title:   "Tushle - Portal Submission",
		message: fmt.Sprintf("New project request from %s (urgency: %s)", clientName, urgency),
		tags:    []string{"tushle", "portal", "submission"},
	}
	return n.send(ctx, data)
}

func (n *ntfyService) NotifyError(ctx context.Context, err error, contextLabel string) error {
	if !n.errors {
		return nil
	}
	var builder strings.Builder
	builder.WriteString("Error")
	if contextLabel = strings.TrimSpace(contextLabel); contextLabel != "" {
		builder.WriteString(" with ")
		builder.WriteString(contextLabel)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}

	data := payload{
		title:    "Tushle - Error",
		message:  builder.String(),
		tags:     []string{"tushle", "error", "alert"},
		priority: "high",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	data := payload{
		title:    "Tushle - Test",
		message:  "Notification system test",
		tags:     []string{"tushle", "test"},
		priority: "low",
	}
	return n.send(ctx, data)
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyInvoiceSent(context.Context, string, string, int64) error    { return nil }
func (noopService) NotifyInvoicePaid(context.Context, string, string, int64) error    { return nil }
func (noopService) NotifyInvoiceOverdue(context.Context, string, string, int64) error { return nil }
func (noopService) NotifyLeadConverted(context.Context, string, string) error         { return nil }
func (noopService) NotifyNewLead(context.Context, string, string) error               { return nil }
func (noopService) NotifyReportReady(context.Context, string, string) error           { return nil }
func (noopService) NotifyPerformanceSnapshots(context.Context, int, string) error     { return nil }
func (noopService) NotifyPortalSubmission(context.Context, string, string) error      { return nil }
func (noopService) NotifyError(context.Context, error, string) error                  { return nil }
func (noopService) TestNotification(context.Context) error                            { return nil }
