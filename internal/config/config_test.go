package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingDefaultFallsBackToDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TUSHLE_JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "")

	cfg, found, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if found {
		t.Fatal("expected no config file to be found")
	}
	if cfg.Server.Bind != defaultBind {
		t.Fatalf("unexpected bind: %q", cfg.Server.Bind)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected driver: %q", cfg.Database.Driver)
	}
}

func TestLoadExplicitMissingPathErrors(t *testing.T) {
	if _, _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoadParsesFileAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
data_dir = "` + dir + `"

[server]
bind = "127.0.0.1:9000"
jwt_secret = "file-secret"

[reports]
dir = "` + dir + `"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TUSHLE_JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "")

	cfg, found, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !found {
		t.Fatal("expected config file to be found")
	}
	if cfg.Server.Bind != "127.0.0.1:9000" {
		t.Fatalf("bind not read from file: %q", cfg.Server.Bind)
	}
	if cfg.Server.JWTSecret != "env-secret" {
		t.Fatalf("environment should override file secret, got %q", cfg.Server.JWTSecret)
	}
}

func TestValidateRejectsBadDriver(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "oracle"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported database driver")
	}
}

func TestValidateRequiresPostgresDSN(t *testing.T) {
	cfg := Default()
	cfg.Database.Driver = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for postgres driver without dsn")
	}
}

func TestValidateRejectsUnknownTrendingSource(t *testing.T) {
	cfg := Default()
	cfg.Trending.Sources = append(cfg.Trending.Sources, "myspace")
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown trending source")
	}
}

func TestWriteSampleRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	if err := WriteSample(path); err == nil {
		t.Fatal("expected error when sample config already exists")
	}
}
