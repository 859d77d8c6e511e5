// Package state owns the plan document's shape and invariants. Every write
// goes through the store's optimistic update primitive; no in-process lock
// spans a backend round trip, so any number of processes can share one
// backend safely.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/store"
)

// defaultMaxAttempts bounds the optimistic-update retry loop.
const defaultMaxAttempts = 5

var (
	// ErrTaskNotFound reports an unknown task id. Never retried: the id
	// will not appear by re-running the same request.
	ErrTaskNotFound = errors.New("task not found")

	// ErrContention reports that every optimistic attempt lost to a
	// concurrent writer. A transient condition, not a client error.
	ErrContention = errors.New("high contention: failed to update task after multiple attempts")
)

// Manager performs read-modify-write task mutations against the shared
// document.
type Manager struct {
	store       store.Store
	maxAttempts int
}

// NewManager wraps the given store. maxAttempts <= 0 selects the default
// bound of 5.
func NewManager(st store.Store, maxAttempts int) *Manager {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	return &Manager{store: st, maxAttempts: maxAttempts}
}

// State returns the current document. An empty key is seeded with the
// default plan; undecodable contents are replaced by it (self-healing,
// never surfaced to the caller).
func (m *Manager) State(ctx context.Context) (plan.Document, error) {
	raw, err := m.store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read state: %w", err)
	}
	if raw == nil {
		return m.reseed(ctx)
	}
	var doc plan.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("Warning: stored state is corrupt, resetting to seed: %v", err)
		return m.reseed(ctx)
	}
	return doc, nil
}

// Reset replaces the document with the default seed.
func (m *Manager) Reset(ctx context.Context) error {
	_, err := m.reseed(ctx)
	return err
}

func (m *Manager) reseed(ctx context.Context) (plan.Document, error) {
	doc := plan.DefaultDocument()
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to encode seed: %w", err)
	}
	if err := m.store.Put(ctx, raw); err != nil {
		return nil, fmt.Errorf("failed to seed state: %w", err)
	}
	return doc, nil
}

// UpdateTask applies the requested field writes to one task inside an
// optimistic transaction, retrying the whole read-search-apply cycle on
// write conflicts up to the attempt bound. On success it returns the task
// as committed. progress and status may each be nil; when both are nil the
// call still searches and reports ErrTaskNotFound for unknown ids.
func (m *Manager) UpdateTask(ctx context.Context, taskID string, progress *int, status *plan.Status) (*plan.Task, error) {
	var updated plan.Task
	for attempt := 0; attempt < m.maxAttempts; attempt++ {
		err := m.store.Update(ctx, func(current []byte) ([]byte, error) {
			doc := decodeOrSeed(current)
			task := doc.FindTask(taskID)
			if task == nil {
				return nil, ErrTaskNotFound
			}
			plan.Apply(task, progress, status)
			updated = *task
			return json.Marshal(doc)
		})
		switch {
		case err == nil:
			return &updated, nil
		case errors.Is(err, store.ErrConflict):
			continue
		default:
			return nil, err
		}
	}
	return nil, ErrContention
}

// decodeOrSeed falls back to the default plan when the stored bytes are
// empty or undecodable; committing the surrounding transaction then also
// heals the key.
func decodeOrSeed(raw []byte) plan.Document {
	if len(raw) == 0 {
		return plan.DefaultDocument()
	}
	var doc plan.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		log.Printf("Warning: stored state is corrupt, using default seed: %v", err)
		return plan.DefaultDocument()
	}
	return doc
}
