// Package testsupport provides helpers shared by package tests.
package testsupport

import (
	"testing"

	"tushle/internal/config"
	"tushle/internal/store"
)

// NewConfig returns a config pointed at temp directories with a throwaway
// SQLite database, suitable for any test that needs persistence.
func NewConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Reports.Dir = t.TempDir()
	cfg.Database.Driver = "sqlite"
	cfg.Server.JWTSecret = "test-secret"
	return &cfg
}

// MustOpenStore opens a store against the test config and closes it when the
// test finishes.
func MustOpenStore(t *testing.T, cfg *config.Config) *store.Store {
	t.Helper()
	st, err := store.Open(cfg)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		if err := st.Close(); err != nil {
			t.Errorf("close store: %v", err)
		}
	})
	return st
}
