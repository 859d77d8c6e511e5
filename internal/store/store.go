// Package store defines the backend contracts for the shared plan document
// and its update channel, with Redis, SQLite, and in-memory implementations.
//
// The document lives under a single well-known key, so one conditional write
// covers the whole tree: cross-task consistency is trivial at the cost of
// contention scaling with the total write rate.
package store

import (
	"context"
	"errors"
	"time"
)

// Well-known backend locations.
const (
	DefaultKey     = "planpulse:state"
	DefaultChannel = "planpulse:updates"
)

var (
	// ErrConflict reports that a conditional update lost to a concurrent
	// writer. Callers may retry the whole read-compute-commit cycle.
	ErrConflict = errors.New("store: concurrent modification")

	// ErrReceiveTimeout reports that no message arrived within the wait
	// window. The subscription itself is still healthy.
	ErrReceiveTimeout = errors.New("store: receive timed out")
)

// UpdateFn computes the next document value from the current one. current is
// nil when the key is empty. Any error returned by fn aborts the cycle
// without writing and is returned to the caller unchanged.
type UpdateFn func(current []byte) ([]byte, error)

// Store holds one serialized document under one well-known key.
type Store interface {
	// Get returns the raw document, or nil if the key is empty.
	Get(ctx context.Context) ([]byte, error)

	// Put writes the document unconditionally.
	Put(ctx context.Context, value []byte) error

	// Update runs one optimistic read-compute-commit cycle. It returns
	// ErrConflict if another writer touched the key between read and
	// commit. Retrying is the caller's decision.
	Update(ctx context.Context, fn UpdateFn) error

	Close() error
}

// Broker carries serialized event envelopes over one named channel.
// Delivery is at-most-once per subscription; there is no replay.
type Broker interface {
	Publish(ctx context.Context, payload []byte) error
	Subscribe(ctx context.Context) (Subscription, error)
}

// Subscription is one consumer's registration on the broker channel.
type Subscription interface {
	// Receive waits up to timeout for the next payload, returning
	// ErrReceiveTimeout when none arrived in time.
	Receive(ctx context.Context, timeout time.Duration) ([]byte, error)

	// Close releases the registration. Safe to call on any exit path.
	Close() error
}
