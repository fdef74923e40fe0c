package main

import (
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"go.mkw.dev/clipfeed/internal/protocol"
)

// clientTimeout bounds one-shot CLI interactions with the relay.
const clientTimeout = 10 * time.Second

// dialRelay opens a WebSocket connection to the relay for a one-shot command.
func dialRelay(url string) (*websocket.Conn, error) {
	d := websocket.Dialer{HandshakeTimeout: clientTimeout}
	conn, _, err := d.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return conn, nil
}

// awaitSync reads until the full-sync greeting arrives, skipping frames of
// any other type.
func awaitSync(conn *websocket.Conn) ([]protocol.Item, error) {
	_ = conn.SetReadDeadline(time.Now().Add(clientTimeout))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return nil, fmt.Errorf("awaiting sync: %w", err)
		}
		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			continue
		}
		if msg.Type == protocol.TypeSync {
			return msg.Items, nil
		}
	}
}

// awaitEcho reads until the relay broadcasts the add for our own submission,
// confirming it was appended. Other traffic is skipped.
func awaitEcho(conn *websocket.Conn, sub protocol.Submission) (protocol.Item, error) {
	_ = conn.SetReadDeadline(time.Now().Add(clientTimeout))
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return protocol.Item{}, fmt.Errorf("awaiting echo: %w", err)
		}
		msg, err := protocol.DecodeMessage(data)
		if err != nil {
			continue
		}
		if msg.Type == protocol.TypeAdd && msg.Item != nil &&
			msg.Item.Kind == sub.Kind && msg.Item.Data == sub.Data {
			return *msg.Item, nil
		}
	}
}
