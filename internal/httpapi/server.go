// Package httpapi exposes the task engine over a JSON HTTP API. It is a
// thin collaborator: every handler resolves the request against the store
// and query packages and translates sentinel errors to HTTP statuses.
package httpapi

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avierra/taskwell/internal/observability"
	"github.com/avierra/taskwell/internal/store"
)

// Server wires the task store and event log behind a gin router.
type Server struct {
	store    *store.Store
	eventLog observability.EventLog
	router   *gin.Engine

	// now supplies the request-time clock; overridable in tests.
	now func() time.Time
}

// NewServer creates a Server around the given store. eventLog may be nil
// to disable event recording.
func NewServer(taskStore *store.Store, eventLog observability.EventLog) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID())

	s := &Server{
		store:    taskStore,
		eventLog: eventLog,
		router:   router,
		now:      time.Now,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.GET("/tasks", s.handleListTasks)
		api.POST("/tasks", s.handleCreateTask)
		api.GET("/tasks/:id", s.handleGetTask)
		api.PUT("/tasks/:id", s.handleUpdateTask)
		api.DELETE("/tasks/:id", s.handleDeleteTask)
		api.POST("/tasks/:id/complete", s.handleCompleteTask)
	}

	return s
}

// Run starts the HTTP server on addr, blocking until it stops.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Router returns the underlying gin engine for testing.
func (s *Server) Router() *gin.Engine {
	return s.router
}
