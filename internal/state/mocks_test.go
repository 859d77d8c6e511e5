package state

import (
	"context"
	"errors"
	"sync"

	"github.com/planpulse/planpulse/internal/store"
)

// Common test errors
var (
	ErrMockBackend = errors.New("mock backend error")
)

// MockStore implements store.Store for testing. The zero value behaves as an
// empty, healthy backend; knobs inject failures and conflicts.
type MockStore struct {
	mu    sync.Mutex
	value []byte

	GetErr          error
	PutErr          error
	UpdateErr       error
	ConflictsBefore int // first N Update calls return ErrConflict

	GetCount    int
	PutCount    int
	UpdateCount int
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) Get(ctx context.Context) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetCount++
	if m.GetErr != nil {
		return nil, m.GetErr
	}
	if m.value == nil {
		return nil, nil
	}
	return append([]byte(nil), m.value...), nil
}

func (m *MockStore) Put(ctx context.Context, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.PutCount++
	if m.PutErr != nil {
		return m.PutErr
	}
	m.value = append([]byte(nil), value...)
	return nil
}

func (m *MockStore) Update(ctx context.Context, fn store.UpdateFn) error {
	m.mu.Lock()
	m.UpdateCount++
	if m.UpdateErr != nil {
		m.mu.Unlock()
		return m.UpdateErr
	}
	if m.ConflictsBefore > 0 {
		m.ConflictsBefore--
		m.mu.Unlock()
		return store.ErrConflict
	}
	current := m.value
	m.mu.Unlock()

	next, err := fn(current)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), next...)
	return nil
}

func (m *MockStore) Close() error { return nil }

// Value returns the current stored bytes.
func (m *MockStore) Value() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]byte(nil), m.value...)
}

// SetValue seeds the stored bytes directly.
func (m *MockStore) SetValue(v []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = append([]byte(nil), v...)
}
