// Package reddit fetches hot posts from public subreddit listings.
package reddit

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultBaseURL     = "https://www.reddit.com"
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "tushle/1.0 (trend aggregation)"
)

// Post is one hot submission.
type Post struct {
	Title       string
	Score       int
	NumComments int
	Permalink   string
	Subreddit   string
}

// Client reads the public JSON listings, no OAuth involved.
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

// NewClient constructs a Reddit listing client.
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

// Hot returns up to limit hot posts from one subreddit.
func (c *Client) Hot(ctx context.Context, subreddit string, limit int) ([]Post, error) {
	subreddit = strings.TrimSpace(strings.TrimPrefix(subreddit, "r/"))
	if subreddit == "" {
		return nil, fmt.Errorf("reddit: subreddit required")
	}
	if limit <= 0 || limit > 100 {
		limit = 25
	}

	endpoint := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", c.baseURL, url.PathEscape(subreddit), limit)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("reddit: request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reddit: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("reddit: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var listing struct {
		Data struct {
			Children []struct {
				Data struct {
					Title       string `json:"title"`
					Score       int    `json:"score"`
					NumComments int    `json:"num_comments"`
					Permalink   string `json:"permalink"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		return nil, fmt.Errorf("reddit: decode listing: %w", err)
	}

	posts := make([]Post, 0, len(listing.Data.Children))
	for _, child := range listing.Data.Children {
		title := strings.TrimSpace(child.Data.Title)
		if title == "" {
			continue
		}
		posts = append(posts, Post{
			Title:       title,
			Score:       child.Data.Score,
			NumComments: child.Data.NumComments,
			Permalink:   "https://www.reddit.com" + child.Data.Permalink,
			Subreddit:   subreddit,
		})
	}
	return posts, nil
}
