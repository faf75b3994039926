// Package internal provides the App struct that wires all components of
// taskwell together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/avierra/taskwell/internal/cli"
	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/store"
)

// App holds all service dependencies for taskwell.
type App struct {
	BasePath string

	Config *core.Config
	Store  *store.Store

	// Observability
	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components of taskwell. basePath is the
// directory holding .taskwellrc.yaml and the event log (typically the
// directory named by TASKWELL_HOME, or the current directory).
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	cfg, err := core.NewConfigLoader(basePath).Load()
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	app.Config = cfg

	// --- Task store ---
	app.Store = store.New()

	// --- Observability ---
	app.EventLog, err = observability.NewJSONLEventLog(cfg.EventLogPath)
	if err != nil {
		// Non-fatal: disable observability if log can't be created.
		fmt.Fprintf(os.Stderr, "Warning: event log disabled (%v); metrics and alerts will be empty\n", err)
		app.EventLog = nil
	}
	if app.EventLog != nil {
		thresholds := observability.DefaultAlertThresholds()
		if cfg.MaxOpenTasks > 0 {
			thresholds.MaxOpenTasks = cfg.MaxOpenTasks
		}
		app.AlertEngine = observability.NewAlertEngine(thresholds)
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Config = app.Config
	cli.Store = app.Store
	cli.EventLog = app.EventLog
	cli.AlertEngine = app.AlertEngine
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// ResolveBasePath determines the taskwell base directory. TASKWELL_HOME
// takes precedence; otherwise the directory tree is walked upward looking
// for a .taskwellrc.yaml, falling back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv("TASKWELL_HOME"); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, ".taskwellrc.yaml")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
