package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/store"
)

// mockDashboardMetrics implements observability.MetricsCalculator.
type mockDashboardMetrics struct {
	metrics *observability.Metrics
	err     error
}

func (m *mockDashboardMetrics) Calculate(_ time.Time) (*observability.Metrics, error) {
	return m.metrics, m.err
}

func TestDashboardModel_Init(t *testing.T) {
	m := newDashboardModel()

	if m.activePanel != panelTasks {
		t.Errorf("expected activePanel = %d, got %d", panelTasks, m.activePanel)
	}
	if !m.loading {
		t.Error("expected loading = true on init")
	}
	if m.urgencyCounts == nil {
		t.Error("expected urgencyCounts to be initialized")
	}

	// Init should return a command (loadData).
	if cmd := m.Init(); cmd == nil {
		t.Error("expected Init to return a non-nil command")
	}
}

func TestDashboardModel_PanelCycling(t *testing.T) {
	m := newDashboardModel()

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(dashboardModel)
	if m.activePanel != panelMetrics {
		t.Errorf("expected panelMetrics after tab, got %d", m.activePanel)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyShiftTab})
	m = next.(dashboardModel)
	if m.activePanel != panelTasks {
		t.Errorf("expected panelTasks after shift+tab, got %d", m.activePanel)
	}
}

func TestDashboardModel_QuitKeys(t *testing.T) {
	m := newDashboardModel()

	for _, key := range []string{"q", "esc", "ctrl+c"} {
		var msg tea.KeyMsg
		switch key {
		case "q":
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "ctrl+c":
			msg = tea.KeyMsg{Type: tea.KeyCtrlC}
		}
		_, cmd := m.Update(msg)
		if cmd == nil {
			t.Errorf("expected quit command for key %q", key)
		}
	}
}

func TestDashboardModel_DataLoaded(t *testing.T) {
	m := newDashboardModel()

	next, _ := m.Update(dataLoadedMsg{
		urgencyCounts: map[string]int{"overdue": 2, "future": 1},
		metrics:       &metricsSnapshot{tasksCreated: 3, eventCount: 5},
		alerts:        []alertSnapshot{{severity: "high", message: "2 task(s) overdue"}},
	})
	m = next.(dashboardModel)

	if m.loading {
		t.Error("expected loading = false after data load")
	}
	if m.urgencyCounts["overdue"] != 2 {
		t.Errorf("expected 2 overdue, got %d", m.urgencyCounts["overdue"])
	}

	tasks := m.renderTasksPanel()
	if !strings.Contains(tasks, "overdue") || !strings.Contains(tasks, "Total: 3") {
		t.Errorf("unexpected tasks panel:\n%s", tasks)
	}

	metrics := m.renderMetricsPanel()
	if !strings.Contains(metrics, "Created") {
		t.Errorf("unexpected metrics panel:\n%s", metrics)
	}

	alerts := m.renderAlertsPanel()
	if !strings.Contains(alerts, "2 task(s) overdue") {
		t.Errorf("unexpected alerts panel:\n%s", alerts)
	}
}

func TestDashboardModel_DataLoadError(t *testing.T) {
	m := newDashboardModel()
	m.width = 80

	next, _ := m.Update(dataLoadedMsg{err: errors.New("boom")})
	m = next.(dashboardModel)

	view := m.View()
	if !strings.Contains(view, "Error: boom") {
		t.Errorf("expected error in view, got:\n%s", view)
	}
}

func TestLoadData(t *testing.T) {
	origStore := Store
	origMetrics := MetricsCalc
	origAlerts := AlertEngine
	defer func() {
		Store = origStore
		MetricsCalc = origMetrics
		AlertEngine = origAlerts
	}()

	Store = store.New()
	MetricsCalc = &mockDashboardMetrics{metrics: &observability.Metrics{TasksCreated: 4, EventCount: 9}}
	AlertEngine = observability.NewAlertEngine(observability.DefaultAlertThresholds())

	msg := loadData()
	result, ok := msg.(dataLoadedMsg)
	if !ok {
		t.Fatalf("expected dataLoadedMsg, got %T", msg)
	}
	if result.err != nil {
		t.Fatalf("unexpected error: %v", result.err)
	}
	if result.metrics == nil || result.metrics.tasksCreated != 4 {
		t.Errorf("unexpected metrics snapshot: %+v", result.metrics)
	}
	if len(result.alerts) != 0 {
		t.Errorf("expected no alerts for empty store, got %d", len(result.alerts))
	}
}
