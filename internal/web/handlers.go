package web

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/state"
)

// updateTaskRequest is the boundary contract for task mutations: a task id
// plus at least one of progress/status.
type updateTaskRequest struct {
	TaskID   string       `json:"task_id" binding:"required"`
	Progress *int         `json:"progress"`
	Status   *plan.Status `json:"status"`
}

func (s *Server) handleState(c *gin.Context) {
	doc, err := s.engine.State(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, doc)
}

func (s *Server) handleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	if req.Progress == nil && req.Status == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "either progress or status must be provided",
		})
		return
	}
	if req.Progress != nil && (*req.Progress < 0 || *req.Progress > 100) {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   "progress must be between 0 and 100",
		})
		return
	}
	if req.Status != nil && !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error":   fmt.Sprintf("unknown status %q", *req.Status),
		})
		return
	}

	task, err := s.engine.UpdateTask(c.Request.Context(), req.TaskID, req.Progress, req.Status)
	switch {
	case errors.Is(err, state.ErrTaskNotFound):
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   fmt.Sprintf("Task %s not found.", req.TaskID),
		})
		return
	case errors.Is(err, state.ErrContention):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   "High contention: failed to update task after multiple attempts.",
		})
		return
	case err != nil:
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"success": false,
			"error":   err.Error(),
		})
		return
	}

	// The mutation is committed; notifying observers is best-effort and
	// never turns the response into a failure.
	s.events.PublishUpdate(c.Request.Context(), task)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Update acknowledged and processed",
		"data":    task,
	})
}
