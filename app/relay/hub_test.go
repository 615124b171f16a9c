package relay

import (
	"errors"
	"fmt"
	"sync"
	"testing"
)

type fakeSubscriberConn struct {
	mu       sync.Mutex
	messages [][]byte
	writeErr error
	closed   bool
}

func (c *fakeSubscriberConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.writeErr != nil {
		return c.writeErr
	}
	c.messages = append(c.messages, append([]byte(nil), data...))
	return nil
}

func (c *fakeSubscriberConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func (c *fakeSubscriberConn) received() [][]byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([][]byte, len(c.messages))
	copy(out, c.messages)
	return out
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	hub := NewHub()
	conns := []*fakeSubscriberConn{{}, {}, {}}
	for _, conn := range conns {
		hub.Add(conn)
	}

	payload := []byte(`{"type":"payment_received","paymentHash":"abc","amountSat":500}`)
	hub.Broadcast(payload)

	for i, conn := range conns {
		got := conn.received()
		if len(got) != 1 {
			t.Fatalf("subscriber %d: expected 1 message, got %d", i, len(got))
		}
		if string(got[0]) != string(payload) {
			t.Fatalf("subscriber %d: unexpected payload: %s", i, got[0])
		}
	}
}

func TestBroadcastPreservesPerSubscriberOrder(t *testing.T) {
	hub := NewHub()
	conn := &fakeSubscriberConn{}
	hub.Add(conn)

	const count = 50
	for i := 0; i < count; i++ {
		hub.Broadcast([]byte(fmt.Sprintf(`{"type":"payment_received","amountSat":%d}`, i)))
	}

	got := conn.received()
	if len(got) != count {
		t.Fatalf("expected %d messages, got %d", count, len(got))
	}
	for i, msg := range got {
		want := fmt.Sprintf(`{"type":"payment_received","amountSat":%d}`, i)
		if string(msg) != want {
			t.Fatalf("message %d out of order: got %s want %s", i, msg, want)
		}
	}
}

func TestBroadcastIsolatesFailedSubscriber(t *testing.T) {
	hub := NewHub()
	healthy := &fakeSubscriberConn{}
	broken := &fakeSubscriberConn{writeErr: errors.New("connection reset")}
	hub.Add(healthy)
	hub.Add(broken)

	hub.Broadcast([]byte(`{"type":"payment_received"}`))

	if got := healthy.received(); len(got) != 1 {
		t.Fatalf("healthy subscriber should receive the event, got %d messages", len(got))
	}
	if hub.Len() != 1 {
		t.Fatalf("failed subscriber should be removed, hub has %d subscribers", hub.Len())
	}
	if !broken.closed {
		t.Fatal("failed subscriber connection should be closed")
	}

	hub.Broadcast([]byte(`{"type":"payment_received"}`))
	if got := healthy.received(); len(got) != 2 {
		t.Fatalf("healthy subscriber should keep receiving, got %d messages", len(got))
	}
}

func TestRemoveIsIdempotent(t *testing.T) {
	hub := NewHub()
	conn := &fakeSubscriberConn{}
	sub := hub.Add(conn)

	hub.Remove(sub)
	hub.Remove(sub)

	if hub.Len() != 0 {
		t.Fatalf("expected empty hub, got %d subscribers", hub.Len())
	}
}

func TestRemovedSubscriberGetsNoFurtherEvents(t *testing.T) {
	hub := NewHub()
	conn := &fakeSubscriberConn{}
	sub := hub.Add(conn)

	hub.Broadcast([]byte(`{"type":"payment_received"}`))
	hub.Remove(sub)

	for i := 0; i < 10; i++ {
		hub.Broadcast([]byte(`{"type":"payment_received"}`))
	}

	if got := conn.received(); len(got) != 1 {
		t.Fatalf("expected only the pre-removal message, got %d", len(got))
	}
}

func TestLateSubscriberSeesNoBacklog(t *testing.T) {
	hub := NewHub()
	hub.Broadcast([]byte(`{"type":"payment_received"}`))

	late := &fakeSubscriberConn{}
	hub.Add(late)

	if got := late.received(); len(got) != 0 {
		t.Fatalf("late subscriber should receive nothing, got %d messages", len(got))
	}
}
