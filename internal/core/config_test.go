package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avierra/taskwell/pkg/models"
)

func TestLoadConfig_MissingFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := NewConfigLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != ":8080" {
		t.Fatalf("expected default http addr, got %q", cfg.HTTPAddr)
	}
	if cfg.DefaultPriority != "" {
		t.Fatalf("expected unset default priority, got %q", cfg.DefaultPriority)
	}
	if cfg.EventLogPath != filepath.Join(dir, "events.jsonl") {
		t.Fatalf("unexpected event log path %q", cfg.EventLogPath)
	}
}

func TestLoadConfig_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	content := `defaults:
  priority: high
  category: Work
http:
  addr: ":9090"
alerts:
  max_open_tasks: 5
`
	if err := os.WriteFile(filepath.Join(dir, ".taskwellrc.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := NewConfigLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DefaultPriority != models.PriorityHigh {
		t.Fatalf("expected high default priority, got %q", cfg.DefaultPriority)
	}
	if cfg.DefaultCategory != "Work" {
		t.Fatalf("expected Work default category, got %q", cfg.DefaultCategory)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Fatalf("expected :9090, got %q", cfg.HTTPAddr)
	}
	if cfg.MaxOpenTasks != 5 {
		t.Fatalf("expected max open tasks 5, got %d", cfg.MaxOpenTasks)
	}
}

func TestLoadConfig_InvalidPriority(t *testing.T) {
	dir := t.TempDir()
	content := "defaults:\n  priority: urgent\n"
	if err := os.WriteFile(filepath.Join(dir, ".taskwellrc.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	if _, err := NewConfigLoader(dir).Load(); err == nil {
		t.Fatal("expected error for invalid default priority")
	}
}
