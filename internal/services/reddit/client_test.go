package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHot(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/r/technology/hot.json" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"children":[
			{"data":{"title":"Chips everywhere","score":1200,"num_comments":340,"permalink":"/r/technology/1"}},
			{"data":{"title":"","score":5,"num_comments":1,"permalink":"/r/technology/2"}}
		]}}`))
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL))
	posts, err := client.Hot(context.Background(), "r/technology", 10)
	if err != nil {
		t.Fatalf("hot: %v", err)
	}
	if len(posts) != 1 {
		t.Fatalf("got %d posts, want 1 (empty titles skipped)", len(posts))
	}
	post := posts[0]
	if post.Title != "Chips everywhere" || post.Score != 1200 || post.NumComments != 340 {
		t.Fatalf("unexpected post: %+v", post)
	}
	if post.Subreddit != "technology" {
		t.Fatalf("subreddit = %q", post.Subreddit)
	}
}

func TestHotRequiresSubreddit(t *testing.T) {
	if _, err := NewClient().Hot(context.Background(), "  ", 10); err == nil {
		t.Fatal("expected error for empty subreddit")
	}
}
