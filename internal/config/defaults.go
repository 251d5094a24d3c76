package config

const (
	defaultDataDir         = "~/.local/share/tushle"
	defaultReportsDir      = "~/.local/share/tushle/reports"
	defaultBind            = "127.0.0.1:8420"
	defaultTokenTTLMinutes = 60 * 24 * 8
	defaultDatabaseDriver  = "sqlite"
	defaultLogFormat       = "console"
	defaultLogLevel        = "info"
	defaultLLMBaseURL      = "https://api.groq.com/openai/v1"
	defaultLLMModel        = "llama-3.1-8b-instant"
	defaultLLMTimeout      = 15
	defaultCacheTTLMinutes = 60
	defaultRequestTimeout  = 10
	defaultMaxTopics       = 35
	defaultPollInterval    = 30
	defaultOverdueScan     = 3600
	defaultTrendingRefresh = 24
	defaultPerformanceDay  = 1
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://localhost:3001",
	"http://localhost:3002",
}

var defaultTrendingSources = []string{"reddit", "hackernews", "news"}

func defaultFeeds() map[string][]string {
	return map[string][]string{
		"technology": {
			"https://techcrunch.com/feed/",
			"https://www.wired.com/feed/rss",
			"https://arstechnica.com/rss/",
		},
		"business": {
			"https://feeds.fortune.com/fortune/headlines",
			"https://feeds.feedburner.com/entrepreneur/latest",
		},
		"marketing": {
			"https://feeds.feedburner.com/MarketingLand",
			"https://feeds.searchengineland.com/searchengineland",
		},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		DataDir: defaultDataDir,
		Server: Server{
			Bind:            defaultBind,
			CORSOrigins:     append([]string(nil), defaultCORSOrigins...),
			TokenTTLMinutes: defaultTokenTTLMinutes,
		},
		Database: Database{
			Driver: defaultDatabaseDriver,
		},
		Redis: Redis{
			CacheTTLMinutes: defaultCacheTTLMinutes,
		},
		Trending: Trending{
			Sources:        append([]string(nil), defaultTrendingSources...),
			Feeds:          defaultFeeds(),
			RequestTimeout: defaultRequestTimeout,
			MaxTopics:      defaultMaxTopics,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeout,
		},
		Reports: Reports{
			Dir: defaultReportsDir,
		},
		Notifications: Notifications{
			RequestTimeout: defaultRequestTimeout,
			Invoices:       true,
			Leads:          true,
			Reports:        true,
			Errors:         true,
		},
		Jobs: Jobs{
			PollInterval:          defaultPollInterval,
			OverdueScanInterval:   defaultOverdueScan,
			TrendingRefreshHours:  defaultTrendingRefresh,
			PerformanceDayOfMonth: defaultPerformanceDay,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
