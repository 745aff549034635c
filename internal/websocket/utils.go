package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeDeadline = 10 * time.Second

	// readDeadline bounds how long a test screen may go silent. The app
	// pings every 30 seconds while a session is on screen, so five minutes
	// of silence means the device is gone.
	readDeadline = 5 * time.Minute
)

// WriteTyped sends one typed event payload over the connection.
func WriteTyped(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return conn.WriteJSON(v)
}

// WriteError sends an ErrorResponse over the connection.
func WriteError(conn *websocket.Conn, errMsg string) error {
	return WriteTyped(conn, ErrorResponse{
		Event: EventError,
		Error: errMsg,
	})
}

// ReadJSON decodes the next client action, arming the idle deadline.
func ReadJSON(conn *websocket.Conn, v interface{}) error {
	_ = conn.SetReadDeadline(time.Now().Add(readDeadline))
	return conn.ReadJSON(v)
}
