package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// SafeWriter serializes writes to a WebSocket connection. gorilla permits
// only one concurrent writer per connection and we write from both the read
// loop (pong) and the sync loop (broadcast).
type SafeWriter struct {
	conn  *websocket.Conn
	mutex sync.Mutex
}

// NewSafeWriter wraps a connection.
func NewSafeWriter(conn *websocket.Conn) *SafeWriter {
	return &SafeWriter{conn: conn}
}

// WriteJSON sends v as a JSON text frame.
func (w *SafeWriter) WriteJSON(v interface{}) error {
	w.mutex.Lock()
	defer w.mutex.Unlock()
	return w.conn.WriteJSON(v)
}

// Close closes the underlying connection.
func (w *SafeWriter) Close() error {
	return w.conn.Close()
}
