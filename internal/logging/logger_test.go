package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tushle/internal/config"
)

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestNewFromConfigWritesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.Logging.Format = "json"

	logger, err := NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig: %v", err)
	}
	logger.Info("hello", String("k", "v"))

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, "tushle.log"))
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"hello"`) {
		t.Fatalf("log file missing entry: %s", data)
	}
}

func TestWithComponentNilBase(t *testing.T) {
	logger := WithComponent(nil, "test")
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	logger.Info("ignored")
}
