package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCommandShowsHelp(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs([]string{"--help"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("help: %v", err)
	}
	for _, want := range []string{"serve", "config", "user", "invoice", "trending", "report"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("help output missing %q", want)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out.String(), "tushle") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	target := filepath.Join(t.TempDir(), "config.toml")
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "init", "--path", target})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out.String(), target) {
		t.Errorf("init output %q does not mention %q", out.String(), target)
	}
}

func TestRenderTablePadsShortRows(t *testing.T) {
	rendered := renderTable(
		[]string{"A", "B"},
		[][]string{{"only"}},
		nil,
	)
	if !strings.Contains(rendered, "only") {
		t.Fatalf("rendered table missing row: %s", rendered)
	}
}
