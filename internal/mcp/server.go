// Package mcp provides an MCP (Model Context Protocol) server that exposes
// taskwell operations as MCP tools for AI assistants.
package mcp

import (
	"context"
	"fmt"
	"time"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/query"
	"github.com/avierra/taskwell/internal/store"
	"github.com/avierra/taskwell/pkg/models"
)

// Server wraps the task store and observability services and exposes them
// as MCP tools over stdio.
type Server struct {
	server      *gomcp.Server
	store       *store.Store
	eventLog    observability.EventLog
	metricsCalc observability.MetricsCalculator
	alertEngine observability.AlertEngine
	now         func() time.Time
}

// NewServer creates a new MCP server around the given task store. eventLog,
// metricsCalc, and alertEngine may be nil if observability is disabled.
func NewServer(taskStore *store.Store, eventLog observability.EventLog, metricsCalc observability.MetricsCalculator, alertEngine observability.AlertEngine, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{
		store:       taskStore,
		eventLog:    eventLog,
		metricsCalc: metricsCalc,
		alertEngine: alertEngine,
		now:         time.Now,
	}

	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "taskwell", Version: version},
		nil,
	)

	s.registerTools()

	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type addTaskInput struct {
	Title       string `json:"title" jsonschema:"required,the task title (1-200 characters)"`
	Description string `json:"description,omitempty" jsonschema:"optional free-form description (up to 1000 characters)"`
	Priority    string `json:"priority,omitempty" jsonschema:"task priority (high, medium, low)"`
	Category    string `json:"category,omitempty" jsonschema:"category label (letters, digits, spaces, hyphens, underscores)"`
	DueAt       string `json:"due_at,omitempty" jsonschema:"due date, e.g. 2026-04-01 or 2026-04-01 17:00 (must be in the future)"`
	Recurrence  string `json:"recurrence,omitempty" jsonschema:"recurrence rule (daily, weekly, monthly); requires due_at"`
}

type taskOutput struct {
	ID          int    `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed"`
	Priority    string `json:"priority,omitempty"`
	Category    string `json:"category,omitempty"`
	DueAt       string `json:"due_at,omitempty"`
	Recurrence  string `json:"recurrence,omitempty"`
	Urgency     string `json:"urgency"`
}

type getTaskInput struct {
	TaskID int `json:"task_id" jsonschema:"required,the numeric task identifier"`
}

type listTasksInput struct {
	Search    string `json:"search,omitempty" jsonschema:"case-insensitive substring to match against title and description"`
	Completed *bool  `json:"completed,omitempty" jsonschema:"filter by completion state"`
	Priority  string `json:"priority,omitempty" jsonschema:"filter by priority (high, medium, low)"`
	Category  string `json:"category,omitempty" jsonschema:"filter by exact category"`
	Sort      string `json:"sort,omitempty" jsonschema:"sort key (id, priority, due, title, category). Defaults to id."`
}

type listTasksOutput struct {
	Tasks []taskOutput `json:"tasks"`
	Count int          `json:"count"`
}

type searchTasksInput struct {
	Query string `json:"query" jsonschema:"required,case-insensitive substring to match against title and description"`
}

type updateTaskInput struct {
	TaskID      int     `json:"task_id" jsonschema:"required,the numeric task identifier"`
	Title       *string `json:"title,omitempty" jsonschema:"new title"`
	Description *string `json:"description,omitempty" jsonschema:"new description"`
	Priority    *string `json:"priority,omitempty" jsonschema:"new priority (high, medium, low)"`
	Category    *string `json:"category,omitempty" jsonschema:"new category"`
	DueAt       *string `json:"due_at,omitempty" jsonschema:"new due date"`
	Recurrence  *string `json:"recurrence,omitempty" jsonschema:"new recurrence rule (daily, weekly, monthly)"`
}

type completeTaskInput struct {
	TaskID    int  `json:"task_id" jsonschema:"required,the numeric task identifier"`
	Completed bool `json:"completed" jsonschema:"true to complete the task, false to reopen it"`
}

type completeTaskOutput struct {
	Task      taskOutput  `json:"task"`
	Successor *taskOutput `json:"successor,omitempty"`
}

type deleteTaskInput struct {
	TaskID int `json:"task_id" jsonschema:"required,the numeric task identifier"`
}

type deleteTaskOutput struct {
	Message string `json:"message"`
}

type getMetricsInput struct {
	Since string `json:"since,omitempty" jsonschema:"time window for metrics (e.g. 7d, 30d, 24h). Defaults to 7d."`
}

type metricsOutput struct {
	TasksCreated     int            `json:"tasks_created"`
	TasksCompleted   int            `json:"tasks_completed"`
	TasksReopened    int            `json:"tasks_reopened"`
	TasksRegenerated int            `json:"tasks_regenerated"`
	TasksDeleted     int            `json:"tasks_deleted"`
	ByPriority       map[string]int `json:"by_priority"`
	ByCategory       map[string]int `json:"by_category"`
	EventCount       int            `json:"event_count"`
	OldestEvent      string         `json:"oldest_event,omitempty"`
	NewestEvent      string         `json:"newest_event,omitempty"`
}

type getAlertsInput struct{}

type alertOutput struct {
	Condition   string `json:"condition"`
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	TriggeredAt string `json:"triggered_at"`
}

type getAlertsOutput struct {
	Alerts []alertOutput `json:"alerts"`
	Count  int           `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "add_task",
		Description: "Create a new task. Title is required; priority, category, due date, and recurrence are optional.",
	}, s.handleAddTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_task",
		Description: "Get task details by numeric ID, including its computed urgency.",
	}, s.handleGetTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_tasks",
		Description: "List tasks with optional search text, completion/priority/category filters, and a sort key.",
	}, s.handleListTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "search_tasks",
		Description: "Search tasks by keyword across titles and descriptions.",
	}, s.handleSearchTasks)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "update_task",
		Description: "Update one or more fields of a task. Omitted fields are left unchanged.",
	}, s.handleUpdateTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "complete_task",
		Description: "Mark a task complete or reopen it. Completing a recurring task also returns the regenerated successor.",
	}, s.handleCompleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "delete_task",
		Description: "Delete a task by numeric ID.",
	}, s.handleDeleteTask)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_metrics",
		Description: "Get aggregated metrics from the event log: task counts by operation, priority, and category.",
	}, s.handleGetMetrics)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_alerts",
		Description: "Evaluate and return active alerts (overdue tasks, tasks due today, open-task count).",
	}, s.handleGetAlerts)
}

// --- Tool handlers ---

func (s *Server) handleAddTask(_ context.Context, _ *gomcp.CallToolRequest, input addTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	if input.Title == "" {
		return errorResult("title is required"), taskOutput{}, nil
	}

	fields := core.Fields{Title: &input.Title}
	if input.Description != "" {
		fields.Description = &input.Description
	}
	if input.Priority != "" {
		fields.Priority = &input.Priority
	}
	if input.Category != "" {
		fields.Category = &input.Category
	}
	if input.DueAt != "" {
		fields.DueAt = &input.DueAt
	}
	if input.Recurrence != "" {
		fields.Recurrence = &input.Recurrence
	}

	now := s.now()
	task, err := s.store.Create(fields, now)
	if err != nil {
		return errorResult(fmt.Sprintf("creating task: %s", err)), taskOutput{}, nil
	}

	s.record(observability.EventTaskCreated, task, now)
	return nil, s.taskToOutput(task, now), nil
}

func (s *Server) handleGetTask(_ context.Context, _ *gomcp.CallToolRequest, input getTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	task, err := s.store.Get(input.TaskID)
	if err != nil {
		return errorResult(err.Error()), taskOutput{}, nil
	}
	return nil, s.taskToOutput(task, s.now()), nil
}

func (s *Server) handleListTasks(_ context.Context, _ *gomcp.CallToolRequest, input listTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	now := s.now()
	tasks := s.store.List()

	tasks = query.Search(tasks, input.Search)

	filter := query.Filter{Completed: input.Completed}
	if input.Priority != "" {
		priority, err := core.NormalizePriority(input.Priority)
		if err != nil {
			return errorResult(err.Error()), listTasksOutput{}, nil
		}
		filter.Priority = &priority
	}
	if input.Category != "" {
		filter.Category = &input.Category
	}
	tasks = query.Apply(tasks, filter)

	sortKey := query.SortKey(input.Sort)
	if input.Sort == "" {
		sortKey = query.SortByID
	}
	tasks = query.Sort(tasks, sortKey)

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, task := range tasks {
		out.Tasks[i] = s.taskToOutput(task, now)
	}
	return nil, out, nil
}

func (s *Server) handleSearchTasks(_ context.Context, _ *gomcp.CallToolRequest, input searchTasksInput) (*gomcp.CallToolResult, listTasksOutput, error) {
	if input.Query == "" {
		return errorResult("query is required"), listTasksOutput{}, nil
	}

	now := s.now()
	tasks := query.Search(s.store.List(), input.Query)

	out := listTasksOutput{
		Tasks: make([]taskOutput, len(tasks)),
		Count: len(tasks),
	}
	for i, task := range tasks {
		out.Tasks[i] = s.taskToOutput(task, now)
	}
	return nil, out, nil
}

func (s *Server) handleUpdateTask(_ context.Context, _ *gomcp.CallToolRequest, input updateTaskInput) (*gomcp.CallToolResult, taskOutput, error) {
	fields := core.Fields{
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Category:    input.Category,
		DueAt:       input.DueAt,
		Recurrence:  input.Recurrence,
	}

	now := s.now()
	task, err := s.store.Update(input.TaskID, fields, now)
	if err != nil {
		return errorResult(fmt.Sprintf("updating task %d: %s", input.TaskID, err)), taskOutput{}, nil
	}

	s.record(observability.EventTaskUpdated, task, now)
	return nil, s.taskToOutput(task, now), nil
}

func (s *Server) handleCompleteTask(_ context.Context, _ *gomcp.CallToolRequest, input completeTaskInput) (*gomcp.CallToolResult, completeTaskOutput, error) {
	now := s.now()
	result, err := s.store.Complete(input.TaskID, input.Completed, now)
	if err != nil {
		return errorResult(fmt.Sprintf("completing task %d: %s", input.TaskID, err)), completeTaskOutput{}, nil
	}

	if input.Completed {
		s.record(observability.EventTaskCompleted, result.Task, now)
	} else {
		s.record(observability.EventTaskReopened, result.Task, now)
	}

	out := completeTaskOutput{Task: s.taskToOutput(result.Task, now)}
	if result.Successor != nil {
		s.record(observability.EventTaskRegenerated, *result.Successor, now)
		successor := s.taskToOutput(*result.Successor, now)
		out.Successor = &successor
	}
	return nil, out, nil
}

func (s *Server) handleDeleteTask(_ context.Context, _ *gomcp.CallToolRequest, input deleteTaskInput) (*gomcp.CallToolResult, deleteTaskOutput, error) {
	task, err := s.store.Get(input.TaskID)
	if err != nil {
		return errorResult(err.Error()), deleteTaskOutput{}, nil
	}
	if err := s.store.Delete(input.TaskID); err != nil {
		return errorResult(err.Error()), deleteTaskOutput{}, nil
	}

	s.record(observability.EventTaskDeleted, task, s.now())
	return nil, deleteTaskOutput{Message: fmt.Sprintf("task %d deleted", input.TaskID)}, nil
}

func (s *Server) handleGetMetrics(_ context.Context, _ *gomcp.CallToolRequest, input getMetricsInput) (*gomcp.CallToolResult, metricsOutput, error) {
	if s.metricsCalc == nil {
		return errorResult("metrics calculator not available (observability may be disabled)"), emptyMetricsOutput(), nil
	}

	sinceStr := input.Since
	if sinceStr == "" {
		sinceStr = "7d"
	}

	sinceTime, err := parseSince(sinceStr, s.now())
	if err != nil {
		return errorResult(fmt.Sprintf("parsing since duration: %s", err)), emptyMetricsOutput(), nil
	}

	metrics, err := s.metricsCalc.Calculate(sinceTime)
	if err != nil {
		return errorResult(fmt.Sprintf("calculating metrics: %s", err)), emptyMetricsOutput(), nil
	}

	out := metricsOutput{
		TasksCreated:     metrics.TasksCreated,
		TasksCompleted:   metrics.TasksCompleted,
		TasksReopened:    metrics.TasksReopened,
		TasksRegenerated: metrics.TasksRegenerated,
		TasksDeleted:     metrics.TasksDeleted,
		ByPriority:       metrics.ByPriority,
		ByCategory:       metrics.ByCategory,
		EventCount:       metrics.EventCount,
	}
	if metrics.OldestEvent != nil {
		out.OldestEvent = metrics.OldestEvent.Format(time.RFC3339)
	}
	if metrics.NewestEvent != nil {
		out.NewestEvent = metrics.NewestEvent.Format(time.RFC3339)
	}

	return nil, out, nil
}

func (s *Server) handleGetAlerts(_ context.Context, _ *gomcp.CallToolRequest, _ getAlertsInput) (*gomcp.CallToolResult, getAlertsOutput, error) {
	if s.alertEngine == nil {
		return errorResult("alert engine not available (observability may be disabled)"), getAlertsOutput{}, nil
	}

	alerts := s.alertEngine.Evaluate(s.store.List(), s.now())

	out := getAlertsOutput{
		Alerts: make([]alertOutput, len(alerts)),
		Count:  len(alerts),
	}
	for i, a := range alerts {
		out.Alerts[i] = alertOutput{
			Condition:   a.Condition,
			Severity:    string(a.Severity),
			Message:     a.Message,
			TriggeredAt: a.TriggeredAt.Format(time.RFC3339),
		}
	}

	return nil, out, nil
}

// --- Helpers ---

func (s *Server) taskToOutput(task models.Task, now time.Time) taskOutput {
	out := taskOutput{
		ID:          task.ID,
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		Priority:    string(task.Priority),
		Category:    task.Category,
		Recurrence:  string(task.Recurrence),
		Urgency:     string(core.ClassifyDueDate(task.DueAt, task.Completed, now)),
	}
	if task.DueAt != nil {
		out.DueAt = task.DueAt.Format("2006-01-02 15:04:05")
	}
	return out
}

func (s *Server) record(eventType string, task models.Task, now time.Time) {
	if s.eventLog == nil {
		return
	}
	_ = s.eventLog.Record(observability.Event{
		Time:     now,
		Type:     eventType,
		TaskID:   task.ID,
		Title:    task.Title,
		Priority: string(task.Priority),
		Category: task.Category,
	})
}

func emptyMetricsOutput() metricsOutput {
	return metricsOutput{
		ByPriority: make(map[string]int),
		ByCategory: make(map[string]int),
	}
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseSince parses a human-friendly duration string like "7d", "30d", or
// "24h" into the corresponding time before now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d or h)", string(suffix))
	}
}
