package config

import (
	"fmt"
	"net"
	"strings"
)

var validDrivers = map[string]struct{}{
	"sqlite":   {},
	"postgres": {},
}

var validLogFormats = map[string]struct{}{
	"console": {},
	"json":    {},
}

// normalize expands user paths and fills derived values before validation.
func (c *Config) normalize() error {
	var err error
	if c.DataDir, err = ExpandPath(c.DataDir); err != nil {
		return fmt.Errorf("data_dir: %w", err)
	}
	if c.Reports.Dir, err = ExpandPath(c.Reports.Dir); err != nil {
		return fmt.Errorf("reports.dir: %w", err)
	}
	if strings.TrimSpace(c.Database.Path) != "" {
		if c.Database.Path, err = ExpandPath(c.Database.Path); err != nil {
			return fmt.Errorf("database.path: %w", err)
		}
	}
	c.Database.Driver = strings.ToLower(strings.TrimSpace(c.Database.Driver))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Server.TokenTTLMinutes <= 0 {
		c.Server.TokenTTLMinutes = defaultTokenTTLMinutes
	}
	if c.Trending.MaxTopics <= 0 {
		c.Trending.MaxTopics = defaultMaxTopics
	}
	if c.Jobs.PollInterval <= 0 {
		c.Jobs.PollInterval = defaultPollInterval
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c *Config) Validate() error {
	if _, _, err := net.SplitHostPort(c.Server.Bind); err != nil {
		return fmt.Errorf("server.bind %q: %w", c.Server.Bind, err)
	}
	if _, ok := validDrivers[c.Database.Driver]; !ok {
		return fmt.Errorf("database.driver: unsupported value %q (want sqlite or postgres)", c.Database.Driver)
	}
	if c.Database.Driver == "postgres" && strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required for the postgres driver")
	}
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format: unsupported value %q (want console or json)", c.Logging.Format)
	}
	for _, source := range c.Trending.Sources {
		if !knownTrendingSource(source) {
			return fmt.Errorf("trending.sources: unknown source %q", source)
		}
	}
	return nil
}

var trendingSources = map[string]struct{}{
	"reddit":     {},
	"hackernews": {},
	"news":       {},
	"twitter":    {},
	"instagram":  {},
	"tiktok":     {},
	"youtube":    {},
	"linkedin":   {},
	"quora":      {},
	"pinterest":  {},
}

func knownTrendingSource(name string) bool {
	_, ok := trendingSources[strings.ToLower(strings.TrimSpace(name))]
	return ok
}
