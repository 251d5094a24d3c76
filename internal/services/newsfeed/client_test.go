package newsfeed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

const rssFixture = `<?xml version="1.0"?>
<rss version="2.0"><channel>
<title>Example News</title>
<item><title>Markets rally</title><link>https://example.com/1</link><pubDate>Mon, 24 Aug 2026 10:00:00 +0000</pubDate></item>
<item><title>Rates hold steady</title><link>https://example.com/2</link></item>
</channel></rss>`

const atomFixture = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
<title>Example Blog</title>
<entry><title>Shipping fast</title><link href="https://example.com/a"/><updated>2026-08-24T10:00:00Z</updated></entry>
</feed>`

func TestFetchRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	items, err := NewClient().Fetch(context.Background(), server.URL, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].Title != "Markets rally" || items[0].Source != "Example News" {
		t.Fatalf("unexpected item: %+v", items[0])
	}
	if items[0].Published.IsZero() {
		t.Fatal("expected parsed pubDate")
	}
}

func TestFetchAtom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(atomFixture))
	}))
	defer server.Close()

	items, err := NewClient().Fetch(context.Background(), server.URL, 10)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 || items[0].Link != "https://example.com/a" {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestFetchLimit(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rssFixture))
	}))
	defer server.Close()

	items, err := NewClient().Fetch(context.Background(), server.URL, 1)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1", len(items))
	}
}
