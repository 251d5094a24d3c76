package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/notifications"
	"tushle/internal/reports"
	"tushle/internal/server"
	"tushle/internal/services/groq"
	"tushle/internal/testsupport"
	"tushle/internal/trending"
)

func newTestHandler(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	cfg.Trending.Sources = []string{"linkedin"}
	st := testsupport.MustOpenStore(t, cfg)

	logger := logging.NewNop()
	notifier := notifications.NewService(cfg)
	aggregator := trending.NewAggregator(cfg, logger, trending.WithCache(trending.NewMemoryCache()))
	generator := reports.NewGenerator(cfg, st, logger)
	llm := groq.NewClient("")

	srv := server.New(cfg, st, logger, notifier, aggregator, generator, llm)
	return srv.Handler(), cfg
}

func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	payload := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("decode response %q: %v", rec.Body.String(), err)
		}
	}
	return rec, payload
}

func register(t *testing.T, handler http.Handler, email string) string {
	t.Helper()
	rec, payload := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     email,
		"password":  "swordfish-42",
		"full_name": "Test Account",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register %s: status %d body %s", email, rec.Code, rec.Body.String())
	}
	token, _ := payload["access_token"].(string)
	if token == "" {
		t.Fatalf("register %s: missing access_token", email)
	}
	return token
}

func TestHealth(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec, payload := doJSON(t, handler, http.MethodGet, "/api/v1/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d", rec.Code)
	}
	if payload["status"] != "ok" {
		t.Fatalf("health payload = %v", payload)
	}
}

func TestAuthRequired(t *testing.T) {
	handler, _ := newTestHandler(t)
	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/dashboard", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated dashboard status = %d, want 401", rec.Code)
	}
	rec, _ = doJSON(t, handler, http.MethodGet, "/api/v1/dashboard", "bogus-token", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad token dashboard status = %d, want 401", rec.Code)
	}
}

func TestRegisterLoginMe(t *testing.T) {
	handler, _ := newTestHandler(t)

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":     "founder@example.com",
		"password":  "swordfish-42",
		"full_name": "Founder",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("register status = %d body %s", rec.Code, rec.Body.String())
	}
	user, _ := payload["user"].(map[string]any)
	if user["role"] != "admin" {
		t.Fatalf("first account role = %v, want admin", user["role"])
	}

	rec, payload = doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "founder@example.com",
		"password": "swordfish-42",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d body %s", rec.Code, rec.Body.String())
	}
	token, _ := payload["access_token"].(string)
	if token == "" {
		t.Fatal("login returned no token")
	}

	rec, payload = doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	if payload["email"] != "founder@example.com" {
		t.Fatalf("me email = %v", payload["email"])
	}
	if _, leaked := payload["hashed_password"]; leaked {
		t.Fatal("password hash leaked in response")
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	handler, _ := newTestHandler(t)
	register(t, handler, "founder@example.com")

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "founder@example.com",
		"password": "wrong-password",
	})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad password status = %d, want 401", rec.Code)
	}
	if payload["error"] != "invalid credentials" {
		t.Fatalf("error = %v", payload["error"])
	}
}

func TestAdminGating(t *testing.T) {
	handler, _ := newTestHandler(t)
	adminToken := register(t, handler, "founder@example.com")
	employeeToken := register(t, handler, "worker@example.com")

	rec, _ := doJSON(t, handler, http.MethodGet, "/api/v1/users", employeeToken, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("employee list users status = %d, want 403", rec.Code)
	}
	rec, payload := doJSON(t, handler, http.MethodGet, "/api/v1/users", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin list users status = %d", rec.Code)
	}
	users, _ := payload["users"].([]any)
	if len(users) != 2 {
		t.Fatalf("user count = %d, want 2", len(users))
	}
}

func TestSelfDeactivationRejected(t *testing.T) {
	handler, _ := newTestHandler(t)
	adminToken := register(t, handler, "founder@example.com")

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/v1/auth/me", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("me status = %d", rec.Code)
	}
	id := int64(payload["id"].(float64))

	rec, _ = doJSON(t, handler, http.MethodDelete, fmt.Sprintf("/api/v1/users/%d", id), adminToken, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("self deactivation status = %d, want 400", rec.Code)
	}
}

func TestInvoiceLifecycleOverHTTP(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, client := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"name":    "Acme Corp",
		"email":   "billing@acme.test",
		"company": "Acme",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client status = %d body %s", rec.Code, rec.Body.String())
	}
	clientID := int64(client["id"].(float64))

	rec, invoice := doJSON(t, handler, http.MethodPost, "/api/v1/invoices", token, map[string]any{
		"client_id":    clientID,
		"amount_cents": 250000,
		"description":  "August retainer",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice status = %d body %s", rec.Code, rec.Body.String())
	}
	if invoice["status"] != "draft" {
		t.Fatalf("new invoice status = %v, want draft", invoice["status"])
	}
	invoiceID := int64(invoice["id"].(float64))

	// Draft invoices cannot be paid.
	rec, _ = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%d/pay", invoiceID), token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("pay draft status = %d, want 400", rec.Code)
	}

	rec, sent := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%d/send", invoiceID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d body %s", rec.Code, rec.Body.String())
	}
	if sent["status"] != "sent" {
		t.Fatalf("sent invoice status = %v", sent["status"])
	}

	rec, paid := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%d/pay", invoiceID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("pay status = %d body %s", rec.Code, rec.Body.String())
	}
	if paid["status"] != "paid" {
		t.Fatalf("paid invoice status = %v", paid["status"])
	}
	if paid["paid_date"] == nil {
		t.Fatal("paid invoice missing paid_date")
	}
}

func TestLeadConversionOverHTTP(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, lead := doJSON(t, handler, http.MethodPost, "/api/v1/leads", token, map[string]any{
		"name":    "Dana Prospect",
		"email":   "dana@prospect.test",
		"company": "Prospect LLC",
		"source":  "linkedin",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create lead status = %d body %s", rec.Code, rec.Body.String())
	}
	leadID := int64(lead["id"].(float64))

	// Conversion requires a won lead.
	rec, _ = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("convert new lead status = %d, want 400", rec.Code)
	}

	rec, _ = doJSON(t, handler, http.MethodPut, fmt.Sprintf("/api/v1/leads/%d", leadID), token, map[string]any{
		"status": "closed_won",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("update lead status = %d body %s", rec.Code, rec.Body.String())
	}

	rec, converted := doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("convert status = %d body %s", rec.Code, rec.Body.String())
	}
	if converted["name"] != "Dana Prospect" {
		t.Fatalf("converted client name = %v", converted["name"])
	}
	if converted["status"] != "active" {
		t.Fatalf("converted client status = %v", converted["status"])
	}

	rec, _ = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/leads/%d/convert", leadID), token, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second convert status = %d, want 400", rec.Code)
	}
}

func TestPortalSubmissionIsPublic(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, client := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"name": "Acme Corp",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client status = %d", rec.Code)
	}
	clientID := int64(client["id"].(float64))

	// No token on the portal route.
	rec, sub := doJSON(t, handler, http.MethodPost, "/api/v1/portal/submissions", "", map[string]any{
		"client_id":            clientID,
		"project_requirements": "Quarterly campaign refresh",
		"budget_range":         "5k-10k",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("portal submit status = %d body %s", rec.Code, rec.Body.String())
	}
	if sub["preferred_contact_method"] != "email" {
		t.Fatalf("default contact method = %v", sub["preferred_contact_method"])
	}

	rec, payload := doJSON(t, handler, http.MethodGet, fmt.Sprintf("/api/v1/clients/%d/submissions", clientID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list submissions status = %d", rec.Code)
	}
	subs, _ := payload["submissions"].([]any)
	if len(subs) != 1 {
		t.Fatalf("submission count = %d, want 1", len(subs))
	}
}

func TestTrendingWithSimulatedSource(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/v1/trending?field=marketing", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("trending status = %d body %s", rec.Code, rec.Body.String())
	}
	if payload["field"] != "marketing" {
		t.Fatalf("trending field = %v", payload["field"])
	}
	topics, _ := payload["topics"].([]any)
	if len(topics) == 0 {
		t.Fatal("trending returned no topics from simulated source")
	}

	rec, payload = doJSON(t, handler, http.MethodGet, "/api/v1/trending/sources", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("sources status = %d", rec.Code)
	}
	simulated, _ := payload["simulated"].([]any)
	if len(simulated) == 0 {
		t.Fatal("no simulated sources listed")
	}
}

func TestScriptGenerationFallsBack(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/v1/ai/scripts", token, map[string]any{
		"topic": "AI automation for small agencies",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("generate script status = %d body %s", rec.Code, rec.Body.String())
	}
	if payload["ai_generated"] != false {
		t.Fatalf("ai_generated = %v, want false without an API key", payload["ai_generated"])
	}
	script, _ := payload["script"].(map[string]any)
	content, _ := script["script_content"].(string)
	if content == "" {
		t.Fatal("fallback script is empty")
	}

	rec, payload = doJSON(t, handler, http.MethodGet, "/api/v1/ai/scripts", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list scripts status = %d", rec.Code)
	}
	scripts, _ := payload["scripts"].([]any)
	if len(scripts) != 1 {
		t.Fatalf("script count = %d, want 1", len(scripts))
	}
}

func TestBusinessReportDownload(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, report := doJSON(t, handler, http.MethodPost, "/api/v1/reports/business", token, nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("business report status = %d body %s", rec.Code, rec.Body.String())
	}
	if report["status"] != "completed" {
		t.Fatalf("report status = %v", report["status"])
	}
	reportID := int64(report["id"].(float64))

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/reports/%d/download", reportID), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	download := httptest.NewRecorder()
	handler.ServeHTTP(download, req)
	if download.Code != http.StatusOK {
		t.Fatalf("download status = %d", download.Code)
	}
	if got := download.Header().Get("Content-Type"); got != "application/pdf" {
		t.Fatalf("download content type = %q", got)
	}
	if !bytes.HasPrefix(download.Body.Bytes(), []byte("%PDF")) {
		t.Fatal("download body is not a PDF")
	}
}

func TestOverdueReminderEndpoint(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, client := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"name": "Acme Corp",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client status = %d", rec.Code)
	}
	clientID := int64(client["id"].(float64))

	rec, invoice := doJSON(t, handler, http.MethodPost, "/api/v1/invoices", token, map[string]any{
		"client_id":    clientID,
		"amount_cents": 50000,
		"due_date":     "2020-01-01",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create invoice status = %d body %s", rec.Code, rec.Body.String())
	}
	invoiceID := int64(invoice["id"].(float64))
	rec, _ = doJSON(t, handler, http.MethodPost, fmt.Sprintf("/api/v1/invoices/%d/send", invoiceID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("send status = %d", rec.Code)
	}

	rec, payload := doJSON(t, handler, http.MethodPost, "/api/v1/invoices/overdue/send-reminders", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("reminders status = %d body %s", rec.Code, rec.Body.String())
	}
	if payload["overdue"] != float64(1) {
		t.Fatalf("overdue count = %v, want 1", payload["overdue"])
	}

	// A second run finds nothing left in sent status.
	rec, payload = doJSON(t, handler, http.MethodPost, "/api/v1/invoices/overdue/send-reminders", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("second reminders status = %d", rec.Code)
	}
	if payload["overdue"] != float64(0) {
		t.Fatalf("second overdue count = %v, want 0", payload["overdue"])
	}
}

func TestStatsEndpoints(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"name": "Acme Corp",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create client status = %d", rec.Code)
	}

	rec, payload := doJSON(t, handler, http.MethodGet, "/api/v1/clients/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("client stats status = %d", rec.Code)
	}
	byStatus, _ := payload["by_status"].(map[string]any)
	if byStatus["pending"] != float64(1) {
		t.Fatalf("pending clients = %v, want 1", byStatus["pending"])
	}

	rec, payload = doJSON(t, handler, http.MethodGet, "/api/v1/invoices/stats", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("invoice stats status = %d", rec.Code)
	}
	if _, ok := payload["total_cents"]; !ok {
		t.Fatalf("invoice stats payload missing totals: %v", payload)
	}
}

func TestUnknownBodyFieldRejected(t *testing.T) {
	handler, _ := newTestHandler(t)
	token := register(t, handler, "founder@example.com")

	rec, _ := doJSON(t, handler, http.MethodPost, "/api/v1/clients", token, map[string]any{
		"name":       "Acme Corp",
		"unexpected": true,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", rec.Code)
	}
}
