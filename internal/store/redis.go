package store

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis backs both Store and Broker with a Redis server: the document lives
// under a single key and update envelopes flow over one Pub/Sub channel.
// Conflict detection rides on WATCH, so the design is safe across multiple
// server processes, not just multiple goroutines.
type Redis struct {
	client  *redis.Client
	key     string
	channel string
}

// NewRedis connects to the given redis:// URL. key and channel fall back to
// the package defaults when empty.
func NewRedis(url, key, channel string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	if key == "" {
		key = DefaultKey
	}
	if channel == "" {
		channel = DefaultChannel
	}
	return &Redis{client: redis.NewClient(opts), key: key, channel: channel}, nil
}

// Get returns the raw document, or nil when the key is empty.
func (r *Redis) Get(ctx context.Context) ([]byte, error) {
	val, err := r.client.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

// Put writes the document unconditionally.
func (r *Redis) Put(ctx context.Context, value []byte) error {
	return r.client.Set(ctx, r.key, value, 0).Err()
}

// Update runs one WATCH/MULTI cycle: the commit only lands if no other
// writer touched the key after the read. redis.TxFailedErr maps to
// ErrConflict; everything else surfaces as-is.
func (r *Redis) Update(ctx context.Context, fn UpdateFn) error {
	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, r.key).Bytes()
		if errors.Is(err, redis.Nil) {
			current = nil
		} else if err != nil {
			return err
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key, next, 0)
			return nil
		})
		return err
	}, r.key)
	if errors.Is(err, redis.TxFailedErr) {
		return ErrConflict
	}
	return err
}

// Publish fires one envelope at the update channel.
func (r *Redis) Publish(ctx context.Context, payload []byte) error {
	return r.client.Publish(ctx, r.channel, payload).Err()
}

// Subscribe registers on the update channel. The subscription is confirmed
// on the wire before returning, so a dead broker fails here rather than on
// the first Receive.
func (r *Redis) Subscribe(ctx context.Context) (Subscription, error) {
	ps := r.client.Subscribe(ctx, r.channel)
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, err
	}
	return &redisSubscription{ps: ps}, nil
}

// Close releases the client's connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

type redisSubscription struct {
	ps *redis.PubSub
}

func (s *redisSubscription) Receive(ctx context.Context, timeout time.Duration) ([]byte, error) {
	msg, err := s.ps.ReceiveTimeout(ctx, timeout)
	if err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return nil, ErrReceiveTimeout
		}
		return nil, err
	}
	if m, ok := msg.(*redis.Message); ok {
		return []byte(m.Payload), nil
	}
	// Subscription acknowledgements and pongs carry no event; report them
	// as an empty window so the caller's heartbeat logic takes over.
	return nil, ErrReceiveTimeout
}

func (s *redisSubscription) Close() error {
	return s.ps.Close()
}
