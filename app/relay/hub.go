package relay

import (
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
)

// SubscriberConn is the write side of one downstream connection.
type SubscriberConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Subscriber struct {
	ID   string
	conn SubscriberConn
}

// Hub tracks open subscriber connections and fans broadcast events out to
// them. The set is mutated only through Add and Remove; Broadcast iterates a
// snapshot taken under the lock.
type Hub struct {
	logger logrus.FieldLogger

	mu          sync.Mutex
	subscribers map[string]*Subscriber
}

func NewHub() *Hub {
	return &Hub{
		logger:      factory.NewModuleLogger("relay-hub"),
		subscribers: map[string]*Subscriber{},
	}
}

func (h *Hub) Add(conn SubscriberConn) *Subscriber {
	sub := &Subscriber{ID: uuid.NewString(), conn: conn}

	h.mu.Lock()
	h.subscribers[sub.ID] = sub
	count := len(h.subscribers)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"subscriber_id": sub.ID,
		"subscribers":   count,
	}).Info("WebSocket client connected")

	return sub
}

// Remove deregisters a subscriber. Removing one that is already gone is a
// no-op, close and error paths may both end up here.
func (h *Hub) Remove(sub *Subscriber) {
	h.mu.Lock()
	_, ok := h.subscribers[sub.ID]
	delete(h.subscribers, sub.ID)
	count := len(h.subscribers)
	h.mu.Unlock()

	if ok {
		h.logger.WithFields(logrus.Fields{
			"subscriber_id": sub.ID,
			"subscribers":   count,
		}).Info("WebSocket client disconnected")
	}
}

func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Broadcast sends the serialized event to every open subscriber. A failed
// send drops that subscriber and never affects the others or the caller.
func (h *Hub) Broadcast(payload []byte) {
	h.mu.Lock()
	snapshot := make([]*Subscriber, 0, len(h.subscribers))
	for _, sub := range h.subscribers {
		snapshot = append(snapshot, sub)
	}
	h.mu.Unlock()

	for _, sub := range snapshot {
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.logger.WithError(err).WithField("subscriber_id", sub.ID).Warn("Dropping subscriber after failed send")
			h.Remove(sub)
			_ = sub.conn.Close()
		}
	}
}
