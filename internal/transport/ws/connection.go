package ws

import (
	"checkin/internal/live"
	"encoding/json"
	"errors"
	"sync"
)

var errConnectionClosed = errors.New("connection closed")

// Message is the WebSocket envelope format
type Message struct {
	Type    live.MessageType `json:"type"`
	Payload json.RawMessage  `json:"payload"`
}

// Connection represents a WebSocket connection. The viewer is the only
// writer to send and closes it when it stops.
type Connection struct {
	Role live.Role

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newConnection(role live.Role) *Connection {
	return &Connection{
		Role: role,
		send: make(chan []byte, 256),
		done: make(chan struct{}),
	}
}

// Send implements live.Sink. It blocks while the write buffer is full and
// fails once the socket is gone.
func (c *Connection) Send(msgType live.MessageType, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	msg, err := json.Marshal(&Message{Type: msgType, Payload: data})
	if err != nil {
		return err
	}

	select {
	case c.send <- msg:
		return nil
	case <-c.done:
		return errConnectionClosed
	}
}

// markClosed is called by the write pump when the socket stops accepting writes
func (c *Connection) markClosed() {
	c.closeOnce.Do(func() { close(c.done) })
}
