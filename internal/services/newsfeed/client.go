// Package newsfeed pulls headlines from RSS and Atom feeds.
package newsfeed

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHTTPTimeout = 10 * time.Second
	userAgent          = "tushle/1.0 (trend aggregation)"
)

// Item is one headline.
type Item struct {
	Title     string
	Link      string
	Source    string
	Published time.Time
}

// Client fetches and parses feeds.
type Client struct {
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

// NewClient constructs a feed client.
func NewClient(opts ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Fetch downloads one feed URL and returns up to limit items. Both RSS 2.0
// and Atom documents are accepted.
func (c *Client) Fetch(ctx context.Context, feedURL string, limit int) ([]Item, error) {
	feedURL = strings.TrimSpace(feedURL)
	if feedURL == "" {
		return nil, fmt.Errorf("newsfeed: feed url required")
	}
	if limit <= 0 || limit > 50 {
		limit = 10
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("newsfeed: request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("newsfeed: request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("newsfeed: http %d from %s", resp.StatusCode, feedURL)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return nil, fmt.Errorf("newsfeed: read body: %w", err)
	}

	items, err := parse(body)
	if err != nil {
		return nil, fmt.Errorf("newsfeed: parse %s: %w", feedURL, err)
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

type rssDocument struct {
	XMLName xml.Name `xml:"rss"`
	Channel struct {
		Title string `xml:"title"`
		Items []struct {
			Title   string `xml:"title"`
			Link    string `xml:"link"`
			PubDate string `xml:"pubDate"`
		} `xml:"item"`
	} `xml:"channel"`
}

type atomDocument struct {
	XMLName xml.Name `xml:"feed"`
	Title   string   `xml:"title"`
	Entries []struct {
		Title string `xml:"title"`
		Link  struct {
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Updated string `xml:"updated"`
	} `xml:"entry"`
}

func parse(body []byte) ([]Item, error) {
	var rss rssDocument
	if err := xml.Unmarshal(body, &rss); err == nil && len(rss.Channel.Items) > 0 {
		items := make([]Item, 0, len(rss.Channel.Items))
		for _, entry := range rss.Channel.Items {
			title := strings.TrimSpace(entry.Title)
			if title == "" {
				continue
			}
			items = append(items, Item{
				Title:     title,
				Link:      strings.TrimSpace(entry.Link),
				Source:    strings.TrimSpace(rss.Channel.Title),
				Published: parseDate(entry.PubDate),
			})
		}
		return items, nil
	}

	var atom atomDocument
	if err := xml.Unmarshal(body, &atom); err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(atom.Entries))
	for _, entry := range atom.Entries {
		title := strings.TrimSpace(entry.Title)
		if title == "" {
			continue
		}
		items = append(items, Item{
			Title:     title,
			Link:      strings.TrimSpace(entry.Link.Href),
			Source:    strings.TrimSpace(atom.Title),
			Published: parseDate(entry.Updated),
		})
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("no items found")
	}
	return items, nil
}

func parseDate(value string) time.Time {
	value = strings.TrimSpace(value)
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339, time.RFC822Z, time.RFC822} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
