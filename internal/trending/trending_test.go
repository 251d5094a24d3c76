package trending

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/services/hackernews"
	"tushle/internal/services/newsfeed"
	"tushle/internal/services/reddit"
)

func TestBusinessPotential(t *testing.T) {
	base := businessPotential("pictures of clouds at sunset")
	high := businessPotential("AI automation startup lands funding")
	if high <= base {
		t.Fatalf("expected keyword-heavy topic to outscore base: %v <= %v", high, base)
	}
	if got := businessPotential("ai ai ai automation saas startup marketing ecommerce revenue growth"); got != 100 {
		t.Fatalf("expected cap at 100, got %v", got)
	}
}

func TestContainsWordBoundaries(t *testing.T) {
	if containsWord("maintain your chair", "ai") {
		t.Fatal("matched ai inside maintain/chair")
	}
	if !containsWord("the ai revolution", "ai") {
		t.Fatal("failed to match standalone ai")
	}
}

func TestDailySeedStableWithinDay(t *testing.T) {
	day := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	later := day.Add(8 * time.Hour)
	if dailySeed("topic", day) != dailySeed("topic", later) {
		t.Fatal("seed changed within the same day")
	}
	nextDay := day.Add(24 * time.Hour)
	if dailySeed("topic", day) == dailySeed("topic", nextDay) {
		t.Fatal("seed did not change across days")
	}
}

func TestSimulateTopicsDeterministic(t *testing.T) {
	now := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
	first := simulateTopics("linkedin", "marketing", now)
	second := simulateTopics("linkedin", "marketing", now)
	if len(first) == 0 {
		t.Fatal("expected simulated topics")
	}
	for i := range first {
		if first[i].Name != second[i].Name || first[i].PopularityScore != second[i].PopularityScore {
			t.Fatalf("simulation not deterministic at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestScoreTopicAppliesSourceBoost(t *testing.T) {
	now := time.Now()
	plain := Topic{Name: "quarterly planning checklist", Source: "Reddit", PopularityScore: 50}
	boosted := Topic{Name: "quarterly planning checklist", Source: "LinkedIn", PopularityScore: 50}
	scoreTopic(&plain, now)
	scoreTopic(&boosted, now)
	if boosted.ComprehensiveScore <= plain.ComprehensiveScore {
		t.Fatalf("expected LinkedIn boost: %v <= %v", boosted.ComprehensiveScore, plain.ComprehensiveScore)
	}
	if len(plain.Keywords) == 0 || len(plain.Hashtags) == 0 || len(plain.MonetizationIdeas) == 0 {
		t.Fatalf("expected derived lists: %+v", plain)
	}
}

func newTestAggregator(t *testing.T, sources []string) *Aggregator {
	t.Helper()
	redditServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":{"children":[{"data":{"title":"AI marketing automation wave","score":900,"num_comments":120,"permalink":"/r/x/1"}}]}}`))
	}))
	t.Cleanup(redditServer.Close)
	hnServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/topstories.json" {
			_, _ = w.Write([]byte(`[7]`))
			return
		}
		_, _ = w.Write([]byte(`{"id":7,"title":"SaaS growth playbook","score":300,"descendants":80,"type":"story","url":"https://example.com"}`))
	}))
	t.Cleanup(hnServer.Close)
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Biz</title><item><title>Funding round closes</title><link>https://example.com/n</link></item></channel></rss>`))
	}))
	t.Cleanup(feedServer.Close)

	cfg := config.Default()
	cfg.Trending.Sources = sources
	cfg.Trending.Feeds = map[string][]string{"technology": {feedServer.URL}}

	return NewAggregator(&cfg, logging.NewNop(),
		WithRedditClient(reddit.NewClient(reddit.WithBaseURL(redditServer.URL))),
		WithHackerNewsClient(hackernews.NewClient(hackernews.WithBaseURL(hnServer.URL))),
		WithNewsfeedClient(newsfeed.NewClient()),
	)
}

func TestRefreshAggregatesSources(t *testing.T) {
	agg := newTestAggregator(t, []string{"reddit", "hackernews", "news", "linkedin"})
	result, err := agg.Refresh(context.Background(), "technology")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(result.Sources) != 4 {
		t.Fatalf("sources = %v, want 4", result.Sources)
	}
	if len(result.Topics) == 0 {
		t.Fatal("expected topics")
	}
	for i := 1; i < len(result.Topics); i++ {
		if result.Topics[i].ComprehensiveScore > result.Topics[i-1].ComprehensiveScore {
			t.Fatalf("topics not sorted at %d", i)
		}
	}
	for _, topic := range result.Topics {
		if topic.ID == "" || topic.ComprehensiveScore == 0 {
			t.Fatalf("unscored topic: %+v", topic)
		}
	}
}

func TestRefreshCapsTopics(t *testing.T) {
	agg := newTestAggregator(t, []string{"twitter", "instagram", "tiktok", "youtube", "linkedin", "quora", "pinterest"})
	agg.cfg.Trending.MaxTopics = 5
	result, err := agg.Refresh(context.Background(), "marketing")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if len(result.Topics) != 5 {
		t.Fatalf("topics = %d, want 5", len(result.Topics))
	}
}

func TestTrendingServesFromCache(t *testing.T) {
	agg := newTestAggregator(t, []string{"linkedin"})
	first, err := agg.Trending(context.Background(), "business")
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	second, err := agg.Trending(context.Background(), "business")
	if err != nil {
		t.Fatalf("trending: %v", err)
	}
	if first != second {
		t.Fatal("expected cached result pointer on second call")
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	cache := NewMemoryCacheTTL(time.Millisecond)
	cache.Set(context.Background(), "x", &Result{Field: "x"})
	time.Sleep(5 * time.Millisecond)
	if _, ok := cache.Get(context.Background(), "x"); ok {
		t.Fatal("expected entry to expire")
	}
}
