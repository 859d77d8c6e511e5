package store

import (
	"context"
	"sync"
	"time"
)

// subscriberBuffer bounds each subscriber's backlog. Publishes never block:
// a subscriber that stops draining loses events rather than stalling the
// writer.
const subscriberBuffer = 64

// Memory is an in-process Store and Broker for tests and single-process
// runs. Conditional updates use a version counter; the broker fans out over
// buffered channels.
type Memory struct {
	mu      sync.Mutex
	value   []byte
	version uint64

	subMu  sync.Mutex
	nextID int
	subs   map[int]chan []byte
}

// NewMemory returns an empty in-memory backend.
func NewMemory() *Memory {
	return &Memory{subs: make(map[int]chan []byte)}
}

// Get returns a copy of the stored document, or nil when empty.
func (m *Memory) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.value == nil {
		return nil, nil
	}
	return append([]byte(nil), m.value...), nil
}

// Put writes the document unconditionally.
func (m *Memory) Put(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), value...)
	m.version++
	return nil
}

// Update runs fn outside the lock so concurrent writers genuinely race,
// then commits only if the version is unchanged since the read.
func (m *Memory) Update(ctx context.Context, fn UpdateFn) error {
	m.mu.Lock()
	var current []byte
	if m.value != nil {
		current = append([]byte(nil), m.value...)
	}
	version := m.version
	m.mu.Unlock()

	next, err := fn(current)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.version != version {
		return ErrConflict
	}
	m.value = append([]byte(nil), next...)
	m.version++
	return nil
}

// Publish fans the payload out to every subscriber without blocking.
func (m *Memory) Publish(ctx context.Context, payload []byte) error {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	for _, ch := range m.subs {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe registers a new buffered subscriber channel.
func (m *Memory) Subscribe(ctx context.Context) (Subscription, error) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	id := m.nextID
	m.nextID++
	ch := make(chan []byte, subscriberBuffer)
	m.subs[id] = ch
	return &memorySubscription{backend: m, id: id, ch: ch}, nil
}

// Close drops all subscribers and the stored value.
func (m *Memory) Close() error {
	m.subMu.Lock()
	m.subs = make(map[int]chan []byte)
	m.subMu.Unlock()
	m.mu.Lock()
	m.value = nil
	m.mu.Unlock()
	return nil
}

func (m *Memory) unsubscribe(id int) {
	m.subMu.Lock()
	defer m.subMu.Unlock()
	delete(m.subs, id)
}

type memorySubscription struct {
	backend *Memory
	id      int
	ch      chan []byte
}

func (s *memorySubscription) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case payload := <-s.ch:
		return payload, nil
	case <-timer.C:
		return nil, ErrReceiveTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *memorySubscription) Close() error {
	s.backend.unsubscribe(s.id)
	return nil
}
