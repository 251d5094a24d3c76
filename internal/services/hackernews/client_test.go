package hackernews

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTopStories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/topstories.json":
			_, _ = w.Write([]byte(`[1, 2, 3]`))
		case "/item/1.json":
			_, _ = w.Write([]byte(`{"id":1,"title":"Go 1.25 released","score":512,"descendants":200,"type":"story","url":"https://go.dev"}`))
		case "/item/2.json":
			_, _ = w.Write([]byte(`{"id":2,"title":"A comment","type":"comment"}`))
		case "/item/3.json":
			_, _ = w.Write([]byte(`{"id":3,"title":"Ask HN: anything","score":40,"descendants":10,"type":"story"}`))
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	stories, err := client.TopStories(context.Background(), 10)
	if err != nil {
		t.Fatalf("top stories: %v", err)
	}
	if len(stories) != 2 {
		t.Fatalf("got %d stories, want 2 (comments skipped)", len(stories))
	}
	if stories[0].Title != "Go 1.25 released" || stories[0].Score != 512 {
		t.Fatalf("unexpected story: %+v", stories[0])
	}
	if stories[1].URL != "https://news.ycombinator.com/item?id=3" {
		t.Fatalf("expected discussion link fallback, got %q", stories[1].URL)
	}
}
