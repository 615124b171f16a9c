package controller

import (
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/lnwatch/phoenixd-dash/app/relay"
)

func newRelayTestServer(t *testing.T) (*httptest.Server, *relay.Hub) {
	t.Helper()

	hub := relay.NewHub()
	e := echo.New()
	e.GET("/ws", NewRelayController(hub).Subscribe)

	server := httptest.NewServer(e)
	t.Cleanup(server.Close)
	return server, hub
}

func dialRelay(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func waitForSubscribers(t *testing.T, hub *relay.Hub, want int) {
	t.Helper()

	deadline := time.Now().Add(time.Second)
	for hub.Len() != want {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d subscribers, got %d", want, hub.Len())
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestSubscribeReceivesBroadcasts(t *testing.T) {
	server, hub := newRelayTestServer(t)
	conn := dialRelay(t, server)
	waitForSubscribers(t, hub, 1)

	payload := []byte(`{"type":"payment_received","paymentHash":"abc","amountSat":500}`)
	hub.Broadcast(payload)

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	msgType, got, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if msgType != websocket.TextMessage {
		t.Fatalf("unexpected message type: %d", msgType)
	}
	if string(got) != string(payload) {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestClosedSubscriberIsDeregistered(t *testing.T) {
	server, hub := newRelayTestServer(t)
	conn := dialRelay(t, server)
	waitForSubscribers(t, hub, 1)

	_ = conn.Close()
	waitForSubscribers(t, hub, 0)

	// A broadcast into an empty hub must be a harmless no-op.
	hub.Broadcast([]byte(`{"type":"payment_received"}`))
}

func TestEachSubscriberGetsEveryEvent(t *testing.T) {
	server, hub := newRelayTestServer(t)
	first := dialRelay(t, server)
	second := dialRelay(t, server)
	waitForSubscribers(t, hub, 2)

	payload := []byte(`{"type":"payment_received","paymentHash":"abc"}`)
	hub.Broadcast(payload)

	for _, conn := range []*websocket.Conn{first, second} {
		_ = conn.SetReadDeadline(time.Now().Add(time.Second))
		_, got, err := conn.ReadMessage()
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if string(got) != string(payload) {
			t.Fatalf("unexpected payload: %s", got)
		}
	}
}

func TestInboundFramesAreIgnored(t *testing.T) {
	server, hub := newRelayTestServer(t)
	conn := dialRelay(t, server)
	waitForSubscribers(t, hub, 1)

	if err := conn.WriteMessage(websocket.TextMessage, []byte("ping from client")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	hub.Broadcast([]byte(`{"type":"payment_received"}`))

	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err != nil {
		t.Fatalf("subscriber must survive sending frames: %v", err)
	}
}
