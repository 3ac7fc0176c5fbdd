package ws

import (
	"net/http"

	"go.uber.org/zap"
	"nhooyr.io/websocket"
)

// ServeWS upgrades to WebSocket and attaches the connection to the feed
// hub. The feed is public; no token required to watch.
func ServeWS(hub *Hub, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true, // Allow any origin (dev mode)
		})
		if err != nil {
			logger.Warn("ws accept error", zap.Error(err))
			return
		}

		client := NewClient(hub, conn, logger)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
