package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/avierra/taskwell/internal/cli"
)

func TestResolveBasePath_HomeSet(t *testing.T) {
	tmpDir := t.TempDir()
	t.Setenv("TASKWELL_HOME", tmpDir)

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q", got, tmpDir)
	}
}

func TestResolveBasePath_FindsConfig(t *testing.T) {
	tmpDir := t.TempDir()
	subDir := filepath.Join(tmpDir, "sub", "nested")
	if err := os.MkdirAll(subDir, 0o755); err != nil {
		t.Fatal(err)
	}

	configPath := filepath.Join(tmpDir, ".taskwellrc.yaml")
	if err := os.WriteFile(configPath, []byte("http:\n  addr: :9090\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(subDir); err != nil {
		t.Fatal(err)
	}

	os.Unsetenv("TASKWELL_HOME")

	got := ResolveBasePath()
	if got != tmpDir {
		t.Errorf("ResolveBasePath() = %q, want %q (should find .taskwellrc.yaml in parent)", got, tmpDir)
	}
}

func TestResolveBasePath_FallbackToCwd(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	defer func() { _ = os.Chdir(origDir) }()
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatal(err)
	}

	os.Unsetenv("TASKWELL_HOME")

	got := ResolveBasePath()
	// Resolve symlinks: t.TempDir may sit behind /private or similar.
	wantResolved, _ := filepath.EvalSymlinks(tmpDir)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("ResolveBasePath() = %q, want %q (should fall back to cwd)", got, tmpDir)
	}
}

func TestNewApp_Success(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app == nil {
		t.Fatal("NewApp() returned nil app")
	}

	if app.Store == nil {
		t.Error("expected task store to be initialized")
	}
	if app.Config == nil {
		t.Fatal("expected config to be initialized")
	}
	if app.Config.HTTPAddr != ":8080" {
		t.Errorf("expected default HTTP addr :8080, got %q", app.Config.HTTPAddr)
	}
	if app.EventLog == nil {
		t.Error("expected event log to be initialized")
	}
	if app.AlertEngine == nil {
		t.Error("expected alert engine to be initialized")
	}
	if app.MetricsCalc == nil {
		t.Error("expected metrics calculator to be initialized")
	}
}

func TestNewApp_WiresCLIVars(t *testing.T) {
	tmpDir := t.TempDir()
	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}

	if cli.BasePath != tmpDir {
		t.Errorf("cli.BasePath = %q, want %q", cli.BasePath, tmpDir)
	}
	if cli.Store != app.Store {
		t.Error("cli.Store not wired to app store")
	}
	if cli.Config != app.Config {
		t.Error("cli.Config not wired to app config")
	}
	if cli.EventLog != app.EventLog {
		t.Error("cli.EventLog not wired to app event log")
	}
}

func TestNewApp_ConfigOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	config := `http:
  addr: ":9191"
alerts:
  max_open_tasks: 5
`
	if err := os.WriteFile(filepath.Join(tmpDir, ".taskwellrc.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	if app.Config.HTTPAddr != ":9191" {
		t.Errorf("expected HTTP addr :9191, got %q", app.Config.HTTPAddr)
	}
	if app.Config.MaxOpenTasks != 5 {
		t.Errorf("expected max open tasks 5, got %d", app.Config.MaxOpenTasks)
	}
}

func TestNewApp_EventLogFailureDisablesObservability(t *testing.T) {
	tmpDir := t.TempDir()
	config := "events:\n  path: " + filepath.Join(tmpDir, "no", "such", "dir", "events.jsonl") + "\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".taskwellrc.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	app, err := NewApp(tmpDir)
	if err != nil {
		t.Fatalf("NewApp() error = %v (event log failure should be non-fatal)", err)
	}
	if app.EventLog != nil {
		t.Error("expected event log to be disabled")
	}
	if app.AlertEngine != nil || app.MetricsCalc != nil {
		t.Error("expected alert engine and metrics calculator to be disabled")
	}
	if app.Store == nil {
		t.Error("expected task store to still be initialized")
	}
}

func TestNewApp_InvalidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	config := "defaults:\n  priority: urgent\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".taskwellrc.yaml"), []byte(config), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := NewApp(tmpDir); err == nil {
		t.Fatal("expected error for invalid default priority")
	}
}
