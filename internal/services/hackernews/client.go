// Package hackernews fetches top stories from the public Firebase API.
package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://hacker-news.firebaseio.com/v0"
	defaultHTTPTimeout = 10 * time.Second
)

// Story is one front-page item.
type Story struct {
	ID       int64
	Title    string
	Score    int
	Comments int
	URL      string
}

// Client reads the public item API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the default API base (useful for tests/mocks).
func WithBaseURL(base string) Option {
	return func(c *Client) {
		base = strings.TrimSpace(base)
		if base != "" {
			c.baseURL = strings.TrimRight(base, "/")
		}
	}
}

// NewClient constructs a Hacker News client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// TopStories returns up to limit current front-page stories. Items are
// fetched one by one; a single bad item is skipped rather than failing the
// whole batch.
func (c *Client) TopStories(ctx context.Context, limit int) ([]Story, error) {
	if limit <= 0 || limit > 50 {
		limit = 15
	}

	var ids []int64
	if err := c.getJSON(ctx, "/topstories.json", &ids); err != nil {
		return nil, fmt.Errorf("hackernews: top story ids: %w", err)
	}
	if len(ids) > limit {
		ids = ids[:limit]
	}

	stories := make([]Story, 0, len(ids))
	for _, id := range ids {
		var item struct {
			ID          int64  `json:"id"`
			Title       string `json:"title"`
			Score       int    `json:"score"`
			Descendants int    `json:"descendants"`
			URL         string `json:"url"`
			Type        string `json:"type"`
		}
		if err := c.getJSON(ctx, fmt.Sprintf("/item/%d.json", id), &item); err != nil {
			continue
		}
		if item.Type != "story" || strings.TrimSpace(item.Title) == "" {
			continue
		}
		link := item.URL
		if link == "" {
			link = fmt.Sprintf("https://news.ycombinator.com/item?id=%d", item.ID)
		}
		stories = append(stories, Story{
			ID:       item.ID,
			Title:    strings.TrimSpace(item.Title),
			Score:    item.Score,
			Comments: item.Descendants,
			URL:      link,
		})
	}
	return stories, nil
}

func (c *Client) getJSON(ctx context.Context, path string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return json.NewDecoder(resp.Body).Decode(dest)
}
