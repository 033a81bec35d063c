package socket

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"teamboard-api/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	// timeout for writing a frame to the peer
	writeWait = 10 * time.Second

	// time allowed to read the next pong from the peer
	pongWait = 60 * time.Second

	// must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// maximum inbound frame size in bytes
	maxMessageSize = 8192

	defaultSendBuffer = 64
)

// Conn is one authenticated socket connection
type Conn struct {
	id      string
	ws      *websocket.Conn
	session *session.Session
	send    chan []byte
	logger  *logrus.Entry

	mu     sync.RWMutex
	closed bool
}

// NewConn wraps an upgraded websocket. ws may be nil for connections that are
// only driven through their send queue.
func NewConn(ws *websocket.Conn, s *session.Session, sendBuffer int, log *logrus.Entry) *Conn {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	id := uuid.NewString()
	c := &Conn{
		id:      id,
		ws:      ws,
		session: s,
		send:    make(chan []byte, sendBuffer),
	}
	c.logger = log.WithFields(logrus.Fields{
		"socket_id": id,
		"user_id":   c.UserID(),
	})
	return c
}

// ID returns the socket id
func (c *Conn) ID() string {
	return c.id
}

// Session returns the session established by the handshake
func (c *Conn) Session() *session.Session {
	return c.session
}

// UserID returns the authenticated user's id
func (c *Conn) UserID() string {
	if c.session == nil || c.session.User == nil {
		return ""
	}
	return c.session.User.ID
}

// Closed reports whether the send queue has been shut
func (c *Conn) Closed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

// Emit queues an event for the write pump without blocking
func (c *Conn) Emit(event string, data any, ack string) error {
	payload, err := json.Marshal(Outbound{Event: event, Data: data, Ack: ack})
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrConnectionClosed
	}

	select {
	case c.send <- payload:
		return nil
	default:
		c.logger.WithField("event", event).Warn("Send queue full, dropping event")
		return ErrSendQueueFull
	}
}

// Close shuts the send queue; the write pump then closes the websocket
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.send)
}

// readPump delivers inbound frames to handle until the peer goes away
func (c *Conn) readPump(handle func([]byte)) {
	c.ws.SetReadLimit(maxMessageSize)

	if err := c.ws.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.logger.WithError(err).Error("Failed to set read deadline")
		return
	}

	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).Info("Socket closed unexpectedly")
			}
			return
		}
		handle(message)
	}
}

// writePump drains the send queue and keeps the connection alive with pings
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.ws.Close(); err != nil {
			c.logger.WithError(err).Debug("Socket close error")
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.WithError(err).Debug("Socket write failed")
				return
			}

		case <-ticker.C:
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
