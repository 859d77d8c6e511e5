package web

import (
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/planpulse/planpulse/internal/relay"
)

// Server-sent event names on the live stream.
const (
	eventInitialState = "INITIAL_STATE"
	eventTaskUpdate   = "TASK_UPDATE"
	eventHeartbeat    = "HEARTBEAT"
	eventError        = "ERROR"
)

// handleStream runs one stream session: the full document once, then every
// relay event until the client disconnects. Reconnection is the client's
// job; a new session always starts from a fresh snapshot, with no replay of
// events missed in between.
func (s *Server) handleStream(c *gin.Context) {
	sessionID := uuid.NewString()
	ctx := c.Request.Context()

	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	doc, err := s.engine.State(ctx)
	if err != nil {
		log.Printf("Warning: stream %s failed to read initial state: %v", sessionID, err)
		c.SSEvent(eventError, gin.H{"message": fmt.Sprintf("Failed to fetch initial state: %v", err)})
		return
	}

	stream := s.events.Subscribe(ctx)
	initialSent := false
	c.Stream(func(w io.Writer) bool {
		if !initialSent {
			initialSent = true
			c.SSEvent(eventInitialState, doc)
			return true
		}
		select {
		case ev, ok := <-stream.C:
			if !ok {
				// Producer is gone; a broker failure becomes one final
				// error event, plain cancellation just ends the session.
				if serr := stream.Err(); serr != nil {
					c.SSEvent(eventError, gin.H{"message": serr.Error()})
				}
				return false
			}
			switch ev.Type {
			case relay.TypeHeartbeat:
				c.SSEvent(eventHeartbeat, "ping")
			case relay.TypeTaskUpdate:
				c.SSEvent(eventTaskUpdate, ev.Task)
			}
			return true
		case <-ctx.Done():
			return false
		}
	})

	log.Printf("stream session %s closed", sessionID)
}
