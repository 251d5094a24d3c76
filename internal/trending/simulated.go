package trending

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Topic templates per simulated platform. The daily seed picks and scores a
// rotating subset so the output looks alive without hitting any API.
var simulatedTemplates = map[string][]string{
	"twitter": {
		"%s automation tools everyone is sharing",
		"The %s debate taking over timelines",
		"Why %s threads are going viral",
		"%s predictions for next quarter",
		"Hot take: %s is overrated",
	},
	"instagram": {
		"%s aesthetic content trends",
		"Behind the scenes of %s brands",
		"%s reels formats with high reach",
		"Creator economy meets %s",
	},
	"tiktok": {
		"%s explained in 60 seconds",
		"%s hacks nobody tells you",
		"Day in the life: %s edition",
		"%s sounds creators are using",
	},
	"youtube": {
		"%s deep dive documentaries",
		"%s tutorials pulling big watch time",
		"Reacting to %s news",
		"%s case study breakdowns",
	},
	"linkedin": {
		"How %s is reshaping hiring",
		"%s thought leadership posts",
		"Lessons from scaling a %s team",
		"%s ROI numbers leaders are quoting",
	},
	"quora": {
		"What should beginners know about %s?",
		"Is %s worth the investment?",
		"How do professionals use %s daily?",
	},
	"pinterest": {
		"%s inspiration boards",
		"%s infographic ideas",
		"Visual guides to %s",
	},
}

// simulateTopics generates a stable-for-the-day topic list for one platform.
func simulateTopics(source, field string, now time.Time) []Topic {
	templates := simulatedTemplates[source]
	if len(templates) == 0 {
		return nil
	}
	title := cases.Title(language.English)
	fieldLabel := title.String(field)

	topics := make([]Topic, 0, len(templates))
	for i, template := range templates {
		name := fmt.Sprintf(template, fieldLabel)
		seed := dailySeed(fmt.Sprintf("%s:%d", source, i), now)
		topics = append(topics, Topic{
			ID:              uuid.NewString(),
			Name:            name,
			Source:          title.String(source),
			Category:        field,
			PopularityScore: 40 + float64(seed%60),
			FetchedAt:       now.Format(time.RFC3339),
		})
	}
	return topics
}

// SimulatedSourceNames lists the platforms served by simulation, for
// documentation endpoints.
func SimulatedSourceNames() []string {
	names := make([]string, 0, len(simulatedTemplates))
	for name := range simulatedTemplates {
		names = append(names, name)
	}
	return names
}

// IsSimulated reports whether a source name is simulated rather than live.
func IsSimulated(source string) bool {
	return simulatedSources[strings.ToLower(strings.TrimSpace(source))]
}
