package ws

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"wingsim/internal/sim"
)

// Hub accepts WebSocket clients, routes their input into the simulation
// bridge and broadcasts simulation state back out.
type Hub struct {
	upgrader  websocket.Upgrader
	bridge    *sim.Bridge
	log       zerolog.Logger
	clients   map[*SafeWriter]bool
	clientsMu sync.Mutex
}

// NewHub builds a hub over the given bridge. Origin checks are disabled;
// the server fronts a local game client, not a public API.
func NewHub(bridge *sim.Bridge, log zerolog.Logger) *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		bridge:  bridge,
		log:     log,
		clients: make(map[*SafeWriter]bool),
	}
}

// ClientCount reports the number of connected clients.
func (h *Hub) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}

// HandleWS upgrades the request and runs the connection's read loop until
// the client disconnects.
func (h *Hub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("websocket upgrade failed")
		return
	}

	writer := NewSafeWriter(conn)

	h.clientsMu.Lock()
	h.clients[writer] = true
	h.clientsMu.Unlock()

	h.log.Info().Str("remote", r.RemoteAddr).Msg("client connected")

	if err := writer.WriteJSON(NewInfoMessage("connected")); err != nil {
		h.log.Warn().Err(err).Msg("greeting failed")
	}

	defer func() {
		h.clientsMu.Lock()
		delete(h.clients, writer)
		h.clientsMu.Unlock()
		writer.Close()
		h.log.Info().Str("remote", r.RemoteAddr).Msg("client disconnected")
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Msg("read error")
			}
			return
		}

		msg, err := ParseMessage(data)
		if err != nil {
			h.log.Warn().Err(err).Msg("dropping message")
			continue
		}

		switch m := msg.(type) {
		case *PingMessage:
			if err := writer.WriteJSON(NewPongMessage(m.ClientTime)); err != nil {
				h.log.Warn().Err(err).Msg("pong failed")
			}
		case *ControlsMessage:
			h.bridge.PushControls(m.Controls)
		}
	}
}

// Broadcast sends one message to every connected client. Send failures are
// logged and left for the client's own read loop to clean up.
func (h *Hub) Broadcast(msg interface{}) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			h.log.Warn().Err(err).Msg("broadcast write failed")
		}
	}
}
