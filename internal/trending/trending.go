// Package trending aggregates topic signals from live feeds and simulated
// platform data, scores them for business potential, and caches the ranked
// result.
package trending

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"tushle/internal/config"
	"tushle/internal/logging"
	"tushle/internal/services/hackernews"
	"tushle/internal/services/newsfeed"
	"tushle/internal/services/reddit"
)

// Topic is one ranked trending subject.
type Topic struct {
	ID                 string   `json:"id"`
	Name               string   `json:"name"`
	Source             string   `json:"source"`
	Category           string   `json:"category"`
	URL                string   `json:"url,omitempty"`
	PopularityScore    float64  `json:"popularity_score"`
	BusinessScore      float64  `json:"business_score"`
	ComprehensiveScore float64  `json:"comprehensive_score"`
	Keywords           []string `json:"keywords"`
	Hashtags           []string `json:"hashtags"`
	MonetizationIdeas  []string `json:"monetization_ideas"`
	FetchedAt          string   `json:"fetched_at"`
}

// Result is a full aggregation run.
type Result struct {
	Field     string    `json:"field"`
	Topics    []Topic   `json:"topics"`
	Sources   []string  `json:"sources"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Aggregator fans out to every configured source and merges the results.
type Aggregator struct {
	cfg    *config.Config
	logger *slog.Logger
	cache  Cache

	reddit *reddit.Client
	hn     *hackernews.Client
	news   *newsfeed.Client
}

// Option customizes the aggregator, mostly for tests.
type Option func(*Aggregator)

// WithRedditClient overrides the Reddit client.
func WithRedditClient(client *reddit.Client) Option {
	return func(a *Aggregator) { a.reddit = client }
}

// WithHackerNewsClient overrides the Hacker News client.
func WithHackerNewsClient(client *hackernews.Client) Option {
	return func(a *Aggregator) { a.hn = client }
}

// WithNewsfeedClient overrides the feed client.
func WithNewsfeedClient(client *newsfeed.Client) Option {
	return func(a *Aggregator) { a.news = client }
}

// WithCache overrides the result cache.
func WithCache(cache Cache) Option {
	return func(a *Aggregator) { a.cache = cache }
}

// NewAggregator builds an aggregator from config.
func NewAggregator(cfg *config.Config, logger *slog.Logger, opts ...Option) *Aggregator {
	agg := &Aggregator{
		cfg:    cfg,
		logger: logging.WithComponent(logger, "trending"),
		reddit: reddit.NewClient(),
		hn:     hackernews.NewClient(),
		news:   newsfeed.NewClient(),
	}
	for _, opt := range opts {
		opt(agg)
	}
	if agg.cache == nil {
		agg.cache = NewMemoryCache()
	}
	return agg
}

// simulatedSources have no public API worth scraping, so their topics are
// generated deterministically from a daily seed instead.
var simulatedSources = map[string]bool{
	"twitter":   true,
	"instagram": true,
	"tiktok":    true,
	"youtube":   true,
	"linkedin":  true,
	"quora":     true,
	"pinterest": true,
}

// Trending returns the ranked topic list for a field, serving from cache
// when a fresh run exists.
func (a *Aggregator) Trending(ctx context.Context, field string) (*Result, error) {
	field = normalizeField(field)
	if cached, ok := a.cache.Get(ctx, field); ok {
		return cached, nil
	}
	return a.Refresh(ctx, field)
}

// Refresh runs a full aggregation for a field and stores it in the cache.
func (a *Aggregator) Refresh(ctx context.Context, field string) (*Result, error) {
	field = normalizeField(field)
	now := time.Now().UTC()

	var (
		mu     sync.Mutex
		topics []Topic
		used   []string
	)
	add := func(source string, fetched []Topic) {
		mu.Lock()
		defer mu.Unlock()
		topics = append(topics, fetched...)
		used = append(used, source)
	}

	var wg sync.WaitGroup
	for _, source := range a.cfg.Trending.Sources {
		source := strings.ToLower(strings.TrimSpace(source))
		wg.Add(1)
		go func() {
			defer wg.Done()
			fetched, err := a.fetchSource(ctx, source, field, now)
			if err != nil {
				a.logger.Warn("source fetch failed",
					logging.String("source", source),
					logging.Error(err))
				return
			}
			add(source, fetched)
		}()
	}
	wg.Wait()

	for i := range topics {
		scoreTopic(&topics[i], now)
	}
	sort.SliceStable(topics, func(i, j int) bool {
		return topics[i].ComprehensiveScore > topics[j].ComprehensiveScore
	})
	max := a.cfg.Trending.MaxTopics
	if max <= 0 {
		max = 35
	}
	if len(topics) > max {
		topics = topics[:max]
	}
	sort.Strings(used)

	result := &Result{
		Field:     field,
		Topics:    topics,
		Sources:   used,
		FetchedAt: now,
	}
	a.cache.Set(ctx, field, result)
	a.logger.Info("trending refresh complete",
		logging.String("field", field),
		logging.Int("topics", len(topics)),
		logging.Int("sources", len(used)))
	return result, nil
}

func (a *Aggregator) fetchSource(ctx context.Context, source, field string, now time.Time) ([]Topic, error) {
	ctx, cancel := context.WithTimeout(ctx, a.requestTimeout())
	defer cancel()

	switch {
	case source == "reddit":
		return a.fetchReddit(ctx, field, now)
	case source == "hackernews":
		return a.fetchHackerNews(ctx, field, now)
	case source == "news":
		return a.fetchNews(ctx, field, now)
	case simulatedSources[source]:
		return simulateTopics(source, field, now), nil
	default:
		return nil, nil
	}
}

func (a *Aggregator) requestTimeout() time.Duration {
	timeout := time.Duration(a.cfg.Trending.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return timeout
}

// fieldSubreddits maps business fields to the subreddits mined for them.
var fieldSubreddits = map[string][]string{
	"technology": {"technology", "programming", "artificial"},
	"business":   {"business", "entrepreneur", "startups"},
	"marketing":  {"marketing", "socialmedia", "digital_marketing"},
}

func (a *Aggregator) fetchReddit(ctx context.Context, field string, now time.Time) ([]Topic, error) {
	subs, ok := fieldSubreddits[field]
	if !ok {
		subs = fieldSubreddits["technology"]
	}
	topics := []Topic{}
	for _, sub := range subs {
		posts, err := a.reddit.Hot(ctx, sub, 10)
		if err != nil {
			if len(topics) > 0 {
				break
			}
			return nil, err
		}
		for _, post := range posts {
			topics = append(topics, Topic{
				ID:              uuid.NewString(),
				Name:            post.Title,
				Source:          "Reddit",
				Category:        field,
				URL:             post.Permalink,
				PopularityScore: popularityFromEngagement(post.Score, post.NumComments),
				FetchedAt:       now.Format(time.RFC3339),
			})
		}
	}
	return topics, nil
}

func (a *Aggregator) fetchHackerNews(ctx context.Context, field string, now time.Time) ([]Topic, error) {
	stories, err := a.hn.TopStories(ctx, 15)
	if err != nil {
		return nil, err
	}
	topics := make([]Topic, 0, len(stories))
	for _, story := range stories {
		topics = append(topics, Topic{
			ID:              uuid.NewString(),
			Name:            story.Title,
			Source:          "Hacker News",
			Category:        field,
			URL:             story.URL,
			PopularityScore: popularityFromEngagement(story.Score, story.Comments),
			FetchedAt:       now.Format(time.RFC3339),
		})
	}
	return topics, nil
}

func (a *Aggregator) fetchNews(ctx context.Context, field string, now time.Time) ([]Topic, error) {
	feeds := a.cfg.Trending.Feeds[field]
	if len(feeds) == 0 {
		for _, urls := range a.cfg.Trending.Feeds {
			feeds = urls
			break
		}
	}
	topics := []Topic{}
	var lastErr error
	for _, feedURL := range feeds {
		items, err := a.news.Fetch(ctx, feedURL, 10)
		if err != nil {
			lastErr = err
			continue
		}
		for _, item := range items {
			topics = append(topics, Topic{
				ID:              uuid.NewString(),
				Name:            item.Title,
				Source:          "News",
				Category:        field,
				URL:             item.Link,
				PopularityScore: popularityFromRecency(item.Published, now),
				FetchedAt:       now.Format(time.RFC3339),
			})
		}
	}
	if len(topics) == 0 && lastErr != nil {
		return nil, lastErr
	}
	return topics, nil
}

func normalizeField(field string) string {
	field = strings.ToLower(strings.TrimSpace(field))
	if field == "" {
		return "technology"
	}
	return field
}
