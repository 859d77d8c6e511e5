package relay

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/planpulse/planpulse/internal/store"
)

// Common test errors
var (
	ErrMockPublish   = errors.New("mock publish error")
	ErrMockSubscribe = errors.New("mock subscribe error")
	ErrMockReceive   = errors.New("mock receive error")
)

// MockBroker implements store.Broker for testing. SubscribeErrs scripts the
// outcome of successive Subscribe calls (nil entry = success); once the
// script is exhausted, Subscribe succeeds.
type MockBroker struct {
	mu            sync.Mutex
	PublishErr    error
	SubscribeErrs []error

	PublishCount   int
	SubscribeCount int
	Published      [][]byte

	subs []*MockSubscription
}

func NewMockBroker() *MockBroker {
	return &MockBroker{}
}

func (b *MockBroker) Publish(ctx context.Context, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.PublishCount++
	if b.PublishErr != nil {
		return b.PublishErr
	}
	b.Published = append(b.Published, payload)
	for _, sub := range b.subs {
		if !sub.closed {
			select {
			case sub.ch <- payload:
			default:
			}
		}
	}
	return nil
}

func (b *MockBroker) Subscribe(ctx context.Context) (store.Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SubscribeCount++
	if len(b.SubscribeErrs) > 0 {
		err := b.SubscribeErrs[0]
		b.SubscribeErrs = b.SubscribeErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	sub := &MockSubscription{broker: b, ch: make(chan []byte, 16), errs: make(chan error, 16)}
	b.subs = append(b.subs, sub)
	return sub, nil
}

// OpenSubscriptions counts subscriptions not yet closed.
func (b *MockBroker) OpenSubscriptions() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	var n int
	for _, sub := range b.subs {
		if !sub.closed {
			n++
		}
	}
	return n
}

// LastSubscription returns the most recent subscription, or nil.
func (b *MockBroker) LastSubscription() *MockSubscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if len(b.subs) == 0 {
		return nil
	}
	return b.subs[len(b.subs)-1]
}

// MockSubscription implements store.Subscription. Receive drains injected
// errors first, then payloads, then times out.
type MockSubscription struct {
	broker *MockBroker
	ch     chan []byte
	errs   chan error
	closed bool
}

func (s *MockSubscription) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	select {
	case err := <-s.errs:
		return nil, err
	default:
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case err := <-s.errs:
		return nil, err
	case payload := <-s.ch:
		return payload, nil
	case <-timer.C:
		return nil, store.ErrReceiveTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *MockSubscription) Close() error {
	s.broker.mu.Lock()
	defer s.broker.mu.Unlock()
	s.closed = true
	return nil
}

// InjectError queues a receive error, simulating a connection drop.
func (s *MockSubscription) InjectError(err error) {
	s.errs <- err
}
