package cli

import (
	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/store"
)

// Service instances, set during app initialization in app.go.
var (
	BasePath string
	Config   *core.Config
	Store    *store.Store

	EventLog    observability.EventLog
	AlertEngine observability.AlertEngine
	MetricsCalc observability.MetricsCalculator
)
