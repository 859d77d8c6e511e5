package web

import (
	"context"
	"errors"
	"sync"

	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/relay"
	"github.com/planpulse/planpulse/internal/store"
)

// Test errors
var (
	ErrMockState     = errors.New("backend unavailable")
	ErrMockSubscribe = errors.New("mock subscribe error")
)

// MockEngine implements Engine for handler tests.
type MockEngine struct {
	StateFunc      func(ctx context.Context) (plan.Document, error)
	UpdateTaskFunc func(ctx context.Context, taskID string, progress *int, status *plan.Status) (*plan.Task, error)
}

func (m *MockEngine) State(ctx context.Context) (plan.Document, error) {
	if m.StateFunc != nil {
		return m.StateFunc(ctx)
	}
	return plan.DefaultDocument(), nil
}

func (m *MockEngine) UpdateTask(ctx context.Context, taskID string, progress *int, status *plan.Status) (*plan.Task, error) {
	if m.UpdateTaskFunc != nil {
		return m.UpdateTaskFunc(ctx, taskID, progress, status)
	}
	return &plan.Task{ID: taskID}, nil
}

// MockEvents implements Events, recording publishes and handing out streams
// backed by a plain channel.
type MockEvents struct {
	mu        sync.Mutex
	Published []*plan.Task
	stream    chan relay.Event
}

func NewMockEvents() *MockEvents {
	return &MockEvents{stream: make(chan relay.Event, 16)}
}

func (m *MockEvents) PublishUpdate(ctx context.Context, task *plan.Task) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Published = append(m.Published, task)
}

func (m *MockEvents) Subscribe(ctx context.Context) *relay.Stream {
	return &relay.Stream{C: m.stream}
}

func (m *MockEvents) PublishedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Published)
}

// failingBroker implements store.Broker and never accepts a subscription;
// wrapped in a real relay it yields streams that terminate with
// ErrBrokerUnavailable.
type failingBroker struct{}

func (failingBroker) Publish(ctx context.Context, payload []byte) error {
	return nil
}

func (failingBroker) Subscribe(ctx context.Context) (store.Subscription, error) {
	return nil, ErrMockSubscribe
}
