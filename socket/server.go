package socket

import (
	"log/slog"

	socketio "github.com/googollee/go-socket.io"
)

// MatchedEvent is emitted to a date's room when a pair forms
const MatchedEvent = "matched"

// Hub wraps the socket.io server; clients join the room named after a date
type Hub struct {
	Server *socketio.Server
}

// NewHub initializes the socket.io server and its handlers
func NewHub() *Hub {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(c socketio.Conn) error {
		slog.Info("✅ socket connected", "id", c.ID())
		return nil
	})

	// Clients send the date they are waiting on, e.g. "2024-03-01"
	server.OnEvent("/", "join", func(c socketio.Conn, date string) {
		if date == "" {
			slog.Warn("❌ socket join without date", "id", c.ID())
			return
		}
		c.Join(date)
		slog.Info("👥 socket joined date room", "id", c.ID(), "date", date)
	})

	server.OnError("/", func(c socketio.Conn, err error) {
		slog.Warn("socket error", "error", err)
	})

	server.OnDisconnect("/", func(c socketio.Conn, reason string) {
		slog.Info("❌ socket disconnected", "id", c.ID(), "reason", reason)
	})

	return &Hub{Server: server}
}

// NotifyMatched broadcasts payload to everyone waiting on date
func (h *Hub) NotifyMatched(date string, payload interface{}) {
	if !h.Server.BroadcastToRoom("/", date, MatchedEvent, payload) {
		slog.Debug("no matched broadcast delivered", "date", date)
	}
}
