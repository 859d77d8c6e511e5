// Package relay is the pub/sub layer between the write path and stream
// sessions: it publishes one envelope per committed mutation and exposes
// live subscriptions that interleave real events with heartbeats.
package relay

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/planpulse/planpulse/internal/plan"
	"github.com/planpulse/planpulse/internal/store"
)

// Envelope is the wire form carried on the broker channel.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Event types yielded to stream consumers.
const (
	TypeTaskUpdate = "TASK_UPDATE"
	TypeHeartbeat  = "HEARTBEAT"
)

// Event is one item on a subscription stream: a task update or a synthetic
// heartbeat.
type Event struct {
	Type string
	Task *plan.Task
}

const (
	defaultReceiveTimeout  = 15 * time.Second
	defaultResubscribeWait = 5 * time.Second
	streamBuffer           = 16
)

// ErrBrokerUnavailable ends a stream when the subscription cannot be
// established, or re-established after a drop, within the retry-once policy.
var ErrBrokerUnavailable = errors.New("relay: cannot establish broker subscription")

// Relay decouples mutation notifications from the write path.
type Relay struct {
	broker          store.Broker
	receiveTimeout  time.Duration
	resubscribeWait time.Duration
}

// New wraps the given broker with the default timeouts: a 15s receive wait
// before emitting a heartbeat and a 5s pause before the second subscribe
// attempt.
func New(b store.Broker) *Relay {
	return NewWithTimeouts(b, defaultReceiveTimeout, defaultResubscribeWait)
}

// NewWithTimeouts wraps the given broker with explicit timeouts.
func NewWithTimeouts(b store.Broker, receiveTimeout, resubscribeWait time.Duration) *Relay {
	return &Relay{broker: b, receiveTimeout: receiveTimeout, resubscribeWait: resubscribeWait}
}

// PublishUpdate announces a committed task mutation. Failures are logged
// and swallowed: the write already succeeded and must not be reported as
// failed because the notification layer hiccuped.
func (r *Relay) PublishUpdate(ctx context.Context, task *plan.Task) {
	payload, err := json.Marshal(task)
	if err != nil {
		log.Printf("Warning: failed to encode update event: %v", err)
		return
	}
	env, err := json.Marshal(Envelope{Type: TypeTaskUpdate, Payload: payload})
	if err != nil {
		log.Printf("Warning: failed to encode update envelope: %v", err)
		return
	}
	if err := r.broker.Publish(ctx, env); err != nil {
		log.Printf("Warning: failed to publish update event: %v", err)
	}
}

// Stream is a live event sequence. Read C until it closes, then check Err
// for the terminal condition: nil after plain cancellation,
// ErrBrokerUnavailable when the subscription could not be kept alive.
type Stream struct {
	C   <-chan Event
	err error
}

// Err reports the terminal error. Only valid after C has closed.
func (s *Stream) Err() error {
	return s.err
}

// Subscribe opens a fresh subscription on the broker channel. The producer
// goroutine yields every recognized update, emits a heartbeat whenever the
// receive wait times out, and re-establishes the subscription (one immediate
// attempt, then one more after a fixed wait) when the connection drops.
// Cancelling ctx ends the stream; the broker registration is released on
// every exit path.
func (r *Relay) Subscribe(ctx context.Context) *Stream {
	ch := make(chan Event, streamBuffer)
	s := &Stream{C: ch}
	go r.run(ctx, ch, s)
	return s
}

func (r *Relay) run(ctx context.Context, ch chan<- Event, s *Stream) {
	defer close(ch)

	var sub store.Subscription
	defer func() {
		if sub != nil {
			if err := sub.Close(); err != nil {
				log.Printf("Warning: failed to close subscription: %v", err)
			}
		}
	}()

	var err error
	sub, err = r.subscribeWithRetry(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.err = ErrBrokerUnavailable
		}
		return
	}

	for {
		payload, err := sub.Receive(ctx, r.receiveTimeout)
		switch {
		case err == nil:
			ev, ok := decodeEvent(payload)
			if !ok {
				continue
			}
			if !send(ctx, ch, ev) {
				return
			}
		case errors.Is(err, store.ErrReceiveTimeout):
			if !send(ctx, ch, Event{Type: TypeHeartbeat}) {
				return
			}
		case ctx.Err() != nil:
			return
		default:
			log.Printf("Warning: subscription receive failed: %v; resubscribing", err)
			if cerr := sub.Close(); cerr != nil {
				log.Printf("Warning: failed to close dropped subscription: %v", cerr)
			}
			sub, err = r.subscribeWithRetry(ctx)
			if err != nil {
				if ctx.Err() == nil {
					s.err = ErrBrokerUnavailable
				}
				return
			}
		}
	}
}

// subscribeWithRetry applies the retry-once policy: one immediate attempt,
// then one more after the configured wait.
func (r *Relay) subscribeWithRetry(ctx context.Context) (store.Subscription, error) {
	sub, err := r.broker.Subscribe(ctx)
	if err == nil {
		return sub, nil
	}
	log.Printf("Warning: broker subscribe failed: %v; retrying once", err)
	timer := time.NewTimer(r.resubscribeWait)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return r.broker.Subscribe(ctx)
}

func send(ctx context.Context, ch chan<- Event, ev Event) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}

// decodeEvent parses a broker envelope. Unrecognized or malformed payloads
// are dropped, not fatal.
func decodeEvent(payload []byte) (Event, bool) {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		log.Printf("Warning: dropping undecodable event: %v", err)
		return Event{}, false
	}
	if env.Type != TypeTaskUpdate {
		return Event{}, false
	}
	var task plan.Task
	if err := json.Unmarshal(env.Payload, &task); err != nil {
		log.Printf("Warning: dropping malformed task update: %v", err)
		return Event{}, false
	}
	return Event{Type: TypeTaskUpdate, Task: &task}, true
}
