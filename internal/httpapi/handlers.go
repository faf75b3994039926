package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avierra/taskwell/internal/core"
	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/query"
	"github.com/avierra/taskwell/internal/store"
	"github.com/avierra/taskwell/pkg/models"
)

// taskPayload is the JSON body for create and update. Absent members stay
// nil and are not applied, matching the partial-update semantics of the
// store.
type taskPayload struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Priority    *string `json:"priority"`
	Category    *string `json:"category"`
	DueAt       *string `json:"due_at"`
	Recurrence  *string `json:"recurrence"`
}

func (p taskPayload) fields() core.Fields {
	return core.Fields{
		Title:       p.Title,
		Description: p.Description,
		Priority:    p.Priority,
		Category:    p.Category,
		DueAt:       p.DueAt,
		Recurrence:  p.Recurrence,
	}
}

// taskResponse decorates a task with its urgency at request time.
type taskResponse struct {
	models.Task
	Urgency models.Urgency `json:"urgency"`
}

type completePayload struct {
	Completed bool `json:"completed"`
}

func (s *Server) taskResponse(task models.Task, now time.Time) taskResponse {
	return taskResponse{
		Task:    task,
		Urgency: core.ClassifyDueDate(task.DueAt, task.Completed, now),
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "tasks": s.store.Len()})
}

// handleListTasks answers the task query: search, then filter, then sort,
// all over one snapshot and with one request-time clock for consistent
// urgency across the listing.
func (s *Server) handleListTasks(c *gin.Context) {
	now := s.now()
	tasks := s.store.List()

	tasks = query.Search(tasks, c.Query("search"))

	var filter query.Filter
	if raw := c.Query("completed"); raw != "" {
		completed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "completed must be true or false")
			return
		}
		filter.Completed = &completed
	}
	if raw := c.Query("priority"); raw != "" {
		priority, err := core.NormalizePriority(raw)
		if err != nil {
			badRequest(c, err.Error())
			return
		}
		filter.Priority = &priority
	}
	if raw := c.Query("category"); raw != "" {
		filter.Category = &raw
	}
	tasks = query.Apply(tasks, filter)

	tasks = query.Sort(tasks, query.SortKey(c.DefaultQuery("sort", string(query.SortByID))))

	out := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		out[i] = s.taskResponse(task, now)
	}
	c.JSON(http.StatusOK, gin.H{"tasks": out, "count": len(out)})
}

func (s *Server) handleCreateTask(c *gin.Context) {
	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	now := s.now()
	task, err := s.store.Create(payload.fields(), now)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	s.record(observability.EventTaskCreated, task, now)
	c.JSON(http.StatusCreated, s.taskResponse(task, now))
}

func (s *Server) handleGetTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.store.Get(id)
	if err != nil {
		notFound(c, err)
		return
	}
	c.JSON(http.StatusOK, s.taskResponse(task, s.now()))
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	now := s.now()
	task, err := s.store.Update(id, payload.fields(), now)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			notFound(c, err)
			return
		}
		badRequest(c, err.Error())
		return
	}

	s.record(observability.EventTaskUpdated, task, now)
	c.JSON(http.StatusOK, s.taskResponse(task, now))
}

func (s *Server) handleDeleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	task, err := s.store.Get(id)
	if err != nil {
		notFound(c, err)
		return
	}
	if err := s.store.Delete(id); err != nil {
		notFound(c, err)
		return
	}

	s.record(observability.EventTaskDeleted, task, s.now())
	c.Status(http.StatusNoContent)
}

func (s *Server) handleCompleteTask(c *gin.Context) {
	id, ok := taskID(c)
	if !ok {
		return
	}

	var payload completePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		badRequest(c, "invalid JSON body")
		return
	}

	now := s.now()
	result, err := s.store.Complete(id, payload.Completed, now)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			notFound(c, err)
			return
		}
		badRequest(c, err.Error())
		return
	}

	if payload.Completed {
		s.record(observability.EventTaskCompleted, result.Task, now)
	} else {
		s.record(observability.EventTaskReopened, result.Task, now)
	}

	response := gin.H{"task": s.taskResponse(result.Task, now)}
	if result.Successor != nil {
		s.record(observability.EventTaskRegenerated, *result.Successor, now)
		response["successor"] = s.taskResponse(*result.Successor, now)
	}
	c.JSON(http.StatusOK, response)
}

// taskID parses the :id path parameter, answering 400 itself on failure.
func taskID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		badRequest(c, "task id must be a positive integer")
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func notFound(c *gin.Context, err error) {
	c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
}

// record appends an event for a completed operation. Recording failures
// do not affect the request outcome.
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
