package controller

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/lnwatch/phoenixd-dash/app/factory"
	"github.com/lnwatch/phoenixd-dash/app/relay"
)

// RelayController is the subscriber gateway: it upgrades browser connections
// and registers them with the hub until they close or error.
type RelayController struct {
	hub      *relay.Hub
	upgrader websocket.Upgrader
	logger   logrus.FieldLogger
}

func NewRelayController(hub *relay.Hub) *RelayController {
	return &RelayController{
		hub: hub,
		upgrader: websocket.Upgrader{
			// Local-network trust boundary, same as the CORS policy.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		logger: factory.NewModuleLogger("relay-controller"),
	}
}

func (c *RelayController) Subscribe(ctx echo.Context) error {
	conn, err := c.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		c.logger.WithError(err).Warn("WebSocket upgrade failed")
		return nil
	}

	sub := c.hub.Add(conn)
	go c.drain(conn, sub)
	return nil
}

// drain discards inbound frames; its only job is to notice the close or error
// that ends the connection and deregister the subscriber.
func (c *RelayController) drain(conn *websocket.Conn, sub *relay.Subscriber) {
	defer func() {
		c.hub.Remove(sub)
		_ = conn.Close()
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
