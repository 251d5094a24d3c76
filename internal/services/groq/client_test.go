package groq

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var request chatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			t.Errorf("decode request: %v", err)
		}
		response := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(response)
	}))
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient("")
	if _, err := client.Complete(context.Background(), "", "hello", 0); !errors.Is(err, ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
}

func TestExtractKeywords(t *testing.T) {
	server := newTestServer(t, "ai marketing, automation, Growth ")
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	keywords, err := client.ExtractKeywords(context.Background(), "some campaign brief")
	if err != nil {
		t.Fatalf("extract keywords: %v", err)
	}
	want := []string{"ai marketing", "automation", "growth"}
	if len(keywords) != len(want) {
		t.Fatalf("got %d keywords, want %d: %v", len(keywords), len(want), keywords)
	}
	for i := range want {
		if keywords[i] != want[i] {
			t.Fatalf("keyword[%d] = %q, want %q", i, keywords[i], want[i])
		}
	}
}

func TestCompleteAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "rate limited"},
		})
	}))
	defer server.Close()

	client := NewClient("test-key", WithBaseURL(server.URL))
	_, err := client.Complete(context.Background(), "", "hello", 0)
	if err == nil || !strings.Contains(err.Error(), "rate limited") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestFallbackKeywords(t *testing.T) {
	keywords := FallbackKeywords("The Best AI Marketing tools for small agencies, marketing made easy!")
	if len(keywords) == 0 {
		t.Fatal("expected keywords")
	}
	seen := map[string]bool{}
	for _, kw := range keywords {
		if seen[kw] {
			t.Fatalf("duplicate keyword %q", kw)
		}
		seen[kw] = true
		if len(kw) < 4 {
			t.Fatalf("keyword %q too short", kw)
		}
	}
	if !seen["marketing"] {
		t.Fatalf("expected marketing in %v", keywords)
	}
}

func TestFallbackScriptNamesTopic(t *testing.T) {
	script := FallbackScript("AI Automation", "energetic", 60)
	if !strings.Contains(script, "AI Automation") {
		t.Fatal("script does not mention topic")
	}
	for _, section := range []string{"HOOK", "BODY", "CALL TO ACTION"} {
		if !strings.Contains(script, section) {
			t.Fatalf("script missing %s section", section)
		}
	}
}
