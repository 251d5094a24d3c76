package groq

import (
	"context"
	"fmt"
	"strings"
)

// ExtractKeywords returns lowercase keywords for the given text.
func (c *Client) ExtractKeywords(ctx context.Context, text string) ([]string, error) {
	content, err := c.Complete(ctx, KeywordExtractionPrompt, text, 200)
	if err != nil {
		return nil, err
	}
	parts := strings.Split(content, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.ToLower(strings.TrimSpace(part))
		if part != "" {
			keywords = append(keywords, part)
		}
	}
	if len(keywords) == 0 {
		return nil, fmt.Errorf("groq: no keywords in %q", content)
	}
	if len(keywords) > 10 {
		keywords = keywords[:10]
	}
	return keywords, nil
}

// AnalyzeTopic returns a short business readout for a trending topic.
func (c *Client) AnalyzeTopic(ctx context.Context, topic string) (string, error) {
	return c.Complete(ctx, TopicAnalysisPrompt, topic, 300)
}

// Recommendations returns next-step advice for a metrics summary.
func (c *Client) Recommendations(ctx context.Context, metricsSummary string) (string, error) {
	return c.Complete(ctx, RecommendationPrompt, metricsSummary, 400)
}

// GenerateScript writes a video script for the topic.
func (c *Client) GenerateScript(ctx context.Context, topic, style string, durationSeconds int) (string, error) {
	prompt := fmt.Sprintf("Topic: %s\nStyle: %s\nTarget duration: %d seconds", topic, style, durationSeconds)
	return c.Complete(ctx, ScriptGenerationPrompt, prompt, 1200)
}

// Deterministic fallbacks used when the API is unconfigured or failing, so
// every endpoint still answers.

// FallbackKeywords derives keywords by splitting the text itself.
func FallbackKeywords(text string) []string {
	seen := map[string]bool{}
	keywords := []string{}
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?:;\"'()[]")
		if len(word) < 4 || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

// FallbackAnalysis produces a generic readout naming the topic.
func FallbackAnalysis(topic string) string {
	return fmt.Sprintf("%s is drawing sustained attention across social and "+
		"search channels. Agencies can capitalize by producing timely content, "+
		"positioning service packages around it, and reaching out to clients "+
		"in affected industries.", strings.TrimSpace(topic))
}

// FallbackRecommendations produces generic advice.
func FallbackRecommendations() string {
	return "1. Follow up with every lead within 24 hours to lift conversion.\n" +
		"2. Review overdue invoices weekly and send reminders immediately.\n" +
		"3. Publish at least three pieces of trending content per week to grow reach."
}

// FallbackScript produces a skeleton script for the topic.
func FallbackScript(topic, style string, durationSeconds int) string {
	topic = strings.TrimSpace(topic)
	return fmt.Sprintf(
		"HOOK\nStop scrolling: %s is changing the game right now.\n\n"+
			"BODY\nHere is what you need to know about %s and why it matters "+
			"today. Break it down into three quick points your audience can "+
			"act on immediately. Keep the energy %s throughout.\n\n"+
			"CALL TO ACTION\nFollow for more insights on %s, and drop a "+
			"comment with your take. (target length: %d seconds)",
		topic, topic, style, topic, durationSeconds)
}
