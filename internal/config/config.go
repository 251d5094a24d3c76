package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Server contains HTTP API configuration.
type Server struct {
	Bind            string   `toml:"bind"`
	CORSOrigins     []string `toml:"cors_origins"`
	JWTSecret       string   `toml:"jwt_secret"`
	TokenTTLMinutes int      `toml:"token_ttl_minutes"`
}

// Database selects the backing store.
type Database struct {
	// Driver is "sqlite" or "postgres".
	Driver string `toml:"driver"`
	// Path is the sqlite database file. Ignored for postgres.
	Path string `toml:"path"`
	// DSN is the postgres connection string. Ignored for sqlite.
	DSN string `toml:"dsn"`
}

// Redis configures the optional trending cache backend.
type Redis struct {
	Addr            string `toml:"addr"`
	Password        string `toml:"password"`
	DB              int    `toml:"db"`
	CacheTTLMinutes int    `toml:"cache_ttl_minutes"`
}

// Trending configures the topic aggregation engine.
type Trending struct {
	Sources        []string            `toml:"sources"`
	Feeds          map[string][]string `toml:"feeds"`
	RequestTimeout int                 `toml:"request_timeout"`
	MaxTopics      int                 `toml:"max_topics"`
}

// LLM contains Groq chat-completion settings shared by AI features.
type LLM struct {
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Reports configures PDF report output.
type Reports struct {
	Dir string `toml:"dir"`
}

// Notifications contains ntfy push notification settings.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
	Invoices       bool   `toml:"invoices"`
	Leads          bool   `toml:"leads"`
	Reports        bool   `toml:"reports"`
	Errors         bool   `toml:"errors"`
}

// Jobs contains background scheduler intervals.
type Jobs struct {
	PollInterval          int `toml:"poll_interval"`
	OverdueScanInterval   int `toml:"overdue_scan_interval"`
	TrendingRefreshHours  int `toml:"trending_refresh_hours"`
	PerformanceDayOfMonth int `toml:"performance_day_of_month"`
}

// Logging contains log output configuration.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for Tushle.
//
// Sections by subsystem:
//   - Server: API bind address, CORS, JWT signing
//   - Database: sqlite or postgres selection
//   - Redis: trending result cache
//   - Trending: enabled sources and RSS feeds
//   - LLM: Groq connection settings for AI features
//   - Reports: PDF output directory
//   - Notifications: ntfy push settings
//   - Jobs: background scheduler timing
//   - Logging: format and level
type Config struct {
	Server        Server        `toml:"server"`
	Database      Database      `toml:"database"`
	Redis         Redis         `toml:"redis"`
	Trending      Trending      `toml:"trending"`
	LLM           LLM           `toml:"llm"`
	Reports       Reports       `toml:"reports"`
	Notifications Notifications `toml:"notifications"`
	Jobs          Jobs          `toml:"jobs"`
	Logging       Logging       `toml:"logging"`

	// DataDir holds the sqlite database, lock files, and logs.
	DataDir string `toml:"data_dir"`
}

// DefaultConfigPath returns the preferred location of the config file.
func DefaultConfigPath() string {
	return "~/.config/tushle/config.toml"
}

// Load reads configuration from path (or the default location when path is
// empty), applies defaults, overlays environment variables, and validates the
// result. The returned bool reports whether a config file was found.
func Load(path string) (*Config, bool, error) {
	cfg := Default()

	resolved, err := resolveConfigPath(path)
	if err != nil {
		return nil, false, err
	}

	found := false
	data, err := os.ReadFile(resolved)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return nil, false, fmt.Errorf("parse config %s: %w", resolved, err)
		}
		found = true
	case errors.Is(err, fs.ErrNotExist):
		if strings.TrimSpace(path) != "" {
			return nil, false, fmt.Errorf("config file %s not found", resolved)
		}
	default:
		return nil, false, fmt.Errorf("read config %s: %w", resolved, err)
	}

	// .env is optional; ignore a missing file but surface parse errors.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, false, fmt.Errorf("load .env: %w", err)
	}
	cfg.applyEnv()

	if err := cfg.normalize(); err != nil {
		return nil, false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, false, err
	}
	return &cfg, found, nil
}

// applyEnv overlays secrets from the environment. Environment values win over
// file values so deployments can keep credentials out of the config file.
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("TUSHLE_JWT_SECRET")); v != "" {
		c.Server.JWTSecret = v
	}
	if v := strings.TrimSpace(os.Getenv("GROQ_API_KEY")); v != "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("DATABASE_URL")); v != "" {
		c.Database.Driver = "postgres"
		c.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_URL")); v != "" {
		c.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("NTFY_TOPIC")); v != "" {
		c.Notifications.NtfyTopic = v
	}
}

// EnsureDirectories creates the directories the application writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.DataDir, c.Reports.Dir}
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the sqlite file location inside the data directory.
func (c *Config) DatabasePath() string {
	if strings.TrimSpace(c.Database.Path) != "" {
		return c.Database.Path
	}
	return filepath.Join(c.DataDir, "tushle.db")
}

// WriteSample writes the embedded sample configuration to path.
func WriteSample(path string) error {
	resolved, err := ExpandPath(path)
	if err != nil {
		return err
	}
	if _, err := os.Stat(resolved); err == nil {
		return fmt.Errorf("config file %s already exists", resolved)
	}
	if err := os.MkdirAll(filepath.Dir(resolved), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(resolved, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

// ExpandPath resolves ~ prefixes against the current user's home directory.
func ExpandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", errors.New("path is empty")
	}
	if trimmed == "~" || strings.HasPrefix(trimmed, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if trimmed == "~" {
			return home, nil
		}
		return filepath.Join(home, trimmed[2:]), nil
	}
	return filepath.Abs(trimmed)
}

func resolveConfigPath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		path = DefaultConfigPath()
	}
	return ExpandPath(path)
}
