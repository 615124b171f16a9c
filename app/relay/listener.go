package relay

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
)

const defaultReconnectDelay = 5 * time.Second

// Dialer opens one upstream event-stream connection.
type Dialer interface {
	Dial(ctx context.Context, url string, header http.Header) (UpstreamConn, error)
}

// UpstreamConn is the read side of the upstream connection.
type UpstreamConn interface {
	ReadMessage() (int, []byte, error)
	Close() error
}

type websocketDialer struct{}

func (websocketDialer) Dial(ctx context.Context, url string, header http.Header) (UpstreamConn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, header)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}

type eventRecorder interface {
	Record(ctx context.Context, event *PaymentEvent)
}

type ListenerConfig struct {
	URL            string
	AuthHeader     string
	ReconnectDelay time.Duration
}

// Listener maintains the single logical connection to phoenixd's websocket,
// decodes each notification and hands it to the hub and the recorder. It
// survives any disconnect by retrying after a fixed delay, forever.
type Listener struct {
	cfg      ListenerConfig
	hub      *Hub
	recorder eventRecorder
	dialer   Dialer
	logger   logrus.FieldLogger

	mu     sync.Mutex
	active bool
	conn   UpstreamConn

	done chan struct{}
}

func NewListener(cfg ListenerConfig, hub *Hub, recorder *Recorder) *Listener {
	if cfg.ReconnectDelay <= 0 {
		cfg.ReconnectDelay = defaultReconnectDelay
	}
	var rec eventRecorder
	if recorder != nil {
		rec = recorder
	}
	return &Listener{
		cfg:      cfg,
		hub:      hub,
		recorder: rec,
		dialer:   websocketDialer{},
		logger:   factory.NewModuleLogger("relay-listener"),
		done:     make(chan struct{}),
	}
}

// Connect starts the connection loop. Calling it again while a connection or
// an attempt is in flight is a no-op, there is never a second upstream
// subscription.
func (l *Listener) Connect() {
	l.mu.Lock()
	if l.active {
		l.mu.Unlock()
		return
	}
	l.active = true
	l.mu.Unlock()

	go l.run()
}

// Close stops the connection loop. In-flight recorder writes are left to
// finish on their own.
func (l *Listener) Close() {
	l.mu.Lock()
	select {
	case <-l.done:
	default:
		close(l.done)
	}
	conn := l.conn
	l.conn = nil
	l.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
}

func (l *Listener) run() {
	for {
		if l.stopped() {
			return
		}

		l.logger.Info("Connecting to phoenixd websocket")
		header := http.Header{}
		header.Set("Authorization", l.cfg.AuthHeader)

		conn, err := l.dialer.Dial(context.Background(), l.cfg.URL, header)
		if err != nil {
			l.logger.WithError(err).Error("Failed to connect to phoenixd websocket")
			if !l.sleep(l.cfg.ReconnectDelay) {
				return
			}
			continue
		}

		l.setConn(conn)
		l.logger.Info("Connected to phoenixd websocket")

		l.readLoop(conn)
		l.setConn(nil)
		_ = conn.Close()

		if l.stopped() {
			return
		}
		l.logger.WithField("delay", l.cfg.ReconnectDelay.String()).Info("Disconnected from phoenixd websocket, reconnecting")
		if !l.sleep(l.cfg.ReconnectDelay) {
			return
		}
	}
}

func (l *Listener) readLoop(conn UpstreamConn) {
	for {
		_, payload, err := conn.ReadMessage()
		if err != nil {
			if !l.stopped() {
				l.logger.WithError(err).Warn("Phoenixd websocket read error")
			}
			return
		}
		l.dispatch(payload)
	}
}

func (l *Listener) dispatch(payload []byte) {
	event, err := DecodePaymentEvent(payload)
	if err != nil {
		l.logger.WithError(err).Warn("Discarding malformed phoenixd event")
		return
	}

	l.logger.WithField("type", event.Type).Debug("Received phoenixd event")

	// Subscribers first, unconditionally. Persistence must never delay or
	// fail delivery.
	l.hub.Broadcast(event.Raw)

	if l.recorder != nil && event.IsPaymentReceived() {
		go l.recorder.Record(context.Background(), event)
	}
}

func (l *Listener) setConn(conn UpstreamConn) {
	l.mu.Lock()
	l.conn = conn
	l.mu.Unlock()
}

func (l *Listener) stopped() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

func (l *Listener) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-l.done:
		return false
	case <-timer.C:
		return true
	}
}
