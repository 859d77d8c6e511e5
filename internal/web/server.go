// Package web exposes the plan document and its live update stream over
// HTTP: a JSON read/write API plus a text/event-stream endpoint.
package web

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/relay"
)

// Engine is the slice of the state manager the handlers need.
// Implementations: state.Manager.
type Engine interface {
	State(ctx context.Context) (plan.Document, error)
	UpdateTask(ctx context.Context, taskID string, progress *int, status *plan.Status) (*plan.Task, error)
}

// Events is the relay surface mutations and stream sessions use.
// Implementations: relay.Relay.
type Events interface {
	PublishUpdate(ctx context.Context, task *plan.Task)
	Subscribe(ctx context.Context) *relay.Stream
}

// Server is the PlanPulse web server.
type Server struct {
	engine Engine
	events Events
	router *gin.Engine
}

// NewServer creates a new web server.
func NewServer(engine Engine, events Events) *Server {
	router := gin.Default()

	s := &Server{
		engine: engine,
		events: events,
		router: router,
	}

	api := router.Group("/api")
	{
		api.GET("/state", s.handleState)
		api.POST("/update-task", s.handleUpdateTask)
		api.GET("/stream", s.handleStream)
	}

	return s
}

// Run starts the web server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Handler exposes the underlying router, for embedding and tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
