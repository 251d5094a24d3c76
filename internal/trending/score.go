package trending

import (
	"crypto/md5"
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"time"
)

// Keyword groups used to judge how exploitable a topic is for an agency.
var (
	highValueKeywords = []string{
		"ai", "automation", "saas", "startup", "marketing", "ecommerce",
		"monetization", "revenue", "growth", "funding", "acquisition",
		"crypto", "fintech", "advertising", "subscription",
	}
	mediumValueKeywords = []string{
		"software", "platform", "cloud", "data", "analytics", "mobile",
		"social", "video", "content", "brand", "product", "launch",
		"investment", "market",
	}
)

// sourceBoosts weight platforms where agency content converts better.
var sourceBoosts = map[string]float64{
	"linkedin": 1.2,
	"youtube":  1.2,
	"github":   1.2,
	"news":     1.1,
	"medium":   1.1,
	"dev.to":   1.1,
}

// scoreTopic fills in business and comprehensive scores plus the derived
// keyword, hashtag, and monetization lists.
func scoreTopic(topic *Topic, now time.Time) {
	if topic.PopularityScore < 0 {
		topic.PopularityScore = 0
	}
	if topic.PopularityScore > 100 {
		topic.PopularityScore = 100
	}

	topic.BusinessScore = businessPotential(topic.Name)
	if len(topic.Keywords) == 0 {
		topic.Keywords = extractKeywords(topic.Name)
	}
	if len(topic.Hashtags) == 0 {
		topic.Hashtags = buildHashtags(topic.Keywords)
	}
	if len(topic.MonetizationIdeas) == 0 {
		topic.MonetizationIdeas = monetizationIdeas(topic.BusinessScore)
	}

	// Deterministic jitter keeps equal-signal topics from tying while
	// staying stable within a day.
	jitter := float64(dailySeed(topic.Name, now)) / 1000 * 100

	score := topic.PopularityScore*0.4 + topic.BusinessScore*0.3 + jitter*0.3
	if boost, ok := sourceBoosts[strings.ToLower(topic.Source)]; ok {
		score *= boost
	}
	if score > 100 {
		score = 100
	}
	topic.ComprehensiveScore = math.Round(score*100) / 100
}

// businessPotential scores 0-100 from keyword hits in the topic name.
func businessPotential(name string) float64 {
	lower := strings.ToLower(name)
	score := 30.0
	for _, kw := range highValueKeywords {
		if containsWord(lower, kw) {
			score += 15
		}
	}
	for _, kw := range mediumValueKeywords {
		if containsWord(lower, kw) {
			score += 7
		}
	}
	if score > 100 {
		score = 100
	}
	return score
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		pos := strings.Index(text[idx:], word)
		if pos < 0 {
			return false
		}
		pos += idx
		before := pos == 0 || !isWordChar(text[pos-1])
		afterIdx := pos + len(word)
		after := afterIdx >= len(text) || !isWordChar(text[afterIdx])
		if before && after {
			return true
		}
		idx = pos + len(word)
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"this": true, "that": true, "your": true, "into": true, "will": true,
	"have": true, "what": true, "how": true, "why": true, "are": true,
}

// extractKeywords keeps the distinctive words of a topic name.
func extractKeywords(name string) []string {
	keywords := []string{}
	seen := map[string]bool{}
	for _, word := range strings.Fields(strings.ToLower(name)) {
		word = strings.Trim(word, ".,!?:;\"'()[]#")
		if len(word) < 3 || stopwords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == 8 {
			break
		}
	}
	return keywords
}

// buildHashtags turns keywords into camel-free hashtags.
func buildHashtags(keywords []string) []string {
	hashtags := make([]string, 0, len(keywords)+1)
	for _, kw := range keywords {
		cleaned := strings.ReplaceAll(kw, " ", "")
		cleaned = strings.ReplaceAll(cleaned, "-", "")
		if cleaned == "" {
			continue
		}
		hashtags = append(hashtags, "#"+cleaned)
		if len(hashtags) == 5 {
			break
		}
	}
	hashtags = append(hashtags, "#trending")
	return hashtags
}

// monetizationIdeas suggests angles proportional to business potential.
func monetizationIdeas(businessScore float64) []string {
	ideas := []string{
		"Create educational content and tutorials",
		"Offer consulting services around the topic",
	}
	if businessScore >= 60 {
		ideas = append(ideas,
			"Build a productized service package",
			"Run targeted ad campaigns for affected industries")
	}
	if businessScore >= 80 {
		ideas = append(ideas, "Develop a paid course or premium newsletter")
	}
	return ideas
}

// popularityFromEngagement maps votes and comments onto a 0-100 scale with
// diminishing returns.
func popularityFromEngagement(score, comments int) float64 {
	raw := float64(score) + 2*float64(comments)
	if raw <= 0 {
		return 0
	}
	popularity := math.Log10(raw+1) * 25
	if popularity > 100 {
		popularity = 100
	}
	return math.Round(popularity*100) / 100
}

// popularityFromRecency favors fresher headlines.
func popularityFromRecency(published, now time.Time) float64 {
	if published.IsZero() {
		return 50
	}
	age := now.Sub(published)
	if age < 0 {
		age = 0
	}
	hours := age.Hours()
	popularity := 100 - hours*2
	if popularity < 10 {
		popularity = 10
	}
	return math.Round(popularity*100) / 100
}

// dailySeed hashes a label with the current date so simulated output changes
// once per day but stays stable within it.
func dailySeed(label string, now time.Time) int {
	sum := md5.Sum([]byte(fmt.Sprintf("%s:%s", now.Format("2006-01-02"), label)))
	return int(binary.BigEndian.Uint32(sum[:4]) % 1000)
}
