package store

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_GetPut(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	t.Run("Given an empty store When Get Then nil is returned", func(t *testing.T) {
		raw, err := m.Get(ctx)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if raw != nil {
			t.Errorf("expected nil, got %q", raw)
		}
	})

	t.Run("Given a Put value When Get Then the value round-trips", func(t *testing.T) {
		if err := m.Put(ctx, []byte(`{"a":1}`)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		raw, err := m.Get(ctx)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if string(raw) != `{"a":1}` {
			t.Errorf("unexpected value: %q", raw)
		}
	})
}

func TestMemory_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("Given no concurrent writer When Update Then the new value commits", func(t *testing.T) {
		m := NewMemory()
		err := m.Update(ctx, func(current []byte) ([]byte, error) {
			if current != nil {
				t.Errorf("expected nil current on empty store, got %q", current)
			}
			return []byte("v1"), nil
		})
		if err != nil {
			t.Fatalf("Update failed: %v", err)
		}
		raw, _ := m.Get(ctx)
		if string(raw) != "v1" {
			t.Errorf("unexpected value: %q", raw)
		}
	})

	t.Run("Given a concurrent write between read and commit Then ErrConflict", func(t *testing.T) {
		m := NewMemory()
		if err := m.Put(ctx, []byte("v1")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		err := m.Update(ctx, func(current []byte) ([]byte, error) {
			// Another writer sneaks in while we compute.
			if err := m.Put(ctx, []byte("other")); err != nil {
				t.Fatalf("concurrent Put failed: %v", err)
			}
			return []byte("mine"), nil
		})

		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		raw, _ := m.Get(ctx)
		if string(raw) != "other" {
			t.Errorf("losing write should not land, value is %q", raw)
		}
	})

	t.Run("Given fn returns an error Then nothing is written", func(t *testing.T) {
		m := NewMemory()
		if err := m.Put(ctx, []byte("v1")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		sentinel := errors.New("abort")
		err := m.Update(ctx, func(current []byte) ([]byte, error) {
			return nil, sentinel
		})

		if !errors.Is(err, sentinel) {
			t.Fatalf("expected fn error back, got %v", err)
		}
		raw, _ := m.Get(ctx)
		if string(raw) != "v1" {
			t.Errorf("aborted update mutated the store: %q", raw)
		}
	})
}

func TestMemory_PubSub(t *testing.T) {
	ctx := context.Background()

	t.Run("Given a subscriber When Publish Then the payload is received", func(t *testing.T) {
		m := NewMemory()
		sub, err := m.Subscribe(ctx)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer sub.Close()

		if err := m.Publish(ctx, []byte("hello")); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		payload, err := sub.Receive(ctx, time.Second)
		if err != nil {
			t.Fatalf("Receive failed: %v", err)
		}
		if string(payload) != "hello" {
			t.Errorf("unexpected payload: %q", payload)
		}
	})

	t.Run("Given no messages When Receive times out Then ErrReceiveTimeout", func(t *testing.T) {
		m := NewMemory()
		sub, err := m.Subscribe(ctx)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer sub.Close()

		_, err = sub.Receive(ctx, 10*time.Millisecond)
		if !errors.Is(err, ErrReceiveTimeout) {
			t.Fatalf("expected ErrReceiveTimeout, got %v", err)
		}
	})

	t.Run("Given a cancelled context When Receive Then the context error surfaces", func(t *testing.T) {
		m := NewMemory()
		sub, err := m.Subscribe(ctx)
		if err != nil {
			t.Fatalf("Subscribe failed: %v", err)
		}
		defer sub.Close()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err = sub.Receive(cctx, time.Second)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Given two subscribers When Publish Then both receive independently", func(t *testing.T) {
		m := NewMemory()
		a, _ := m.Subscribe(ctx)
		defer a.Close()
		b, _ := m.Subscribe(ctx)
		defer b.Close()

		if err := m.Publish(ctx, []byte("fanout")); err != nil {
			t.Fatalf("Publish failed: %v", err)
		}

		for name, sub := range map[string]Subscription{"a": a, "b": b} {
			payload, err := sub.Receive(ctx, time.Second)
			if err != nil {
				t.Fatalf("subscriber %s Receive failed: %v", name, err)
			}
			if string(payload) != "fanout" {
				t.Errorf("subscriber %s got %q", name, payload)
			}
		}
	})

	t.Run("Given a closed subscription When Publish Then delivery stops without blocking", func(t *testing.T) {
		m := NewMemory()
		sub, _ := m.Subscribe(ctx)
		if err := sub.Close(); err != nil {
			t.Fatalf("Close failed: %v", err)
		}

		// Must not block or panic even with no listeners.
		for i := 0; i < subscriberBuffer+10; i++ {
			if err := m.Publish(ctx, []byte("x")); err != nil {
				t.Fatalf("Publish failed: %v", err)
			}
		}
	})

	t.Run("Given a full subscriber buffer When Publish Then events drop instead of stalling", func(t *testing.T) {
		m := NewMemory()
		sub, _ := m.Subscribe(ctx)
		defer sub.Close()

		done := make(chan struct{})
		go func() {
			defer close(done)
			for i := 0; i < subscriberBuffer*2; i++ {
				_ = m.Publish(ctx, []byte("burst"))
			}
		}()

		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("publish blocked on a slow subscriber")
		}
	})
}
