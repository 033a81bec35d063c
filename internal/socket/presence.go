package socket

import (
	"sync"

	"teamboard-api/internal/metrics"

	"github.com/sirupsen/logrus"
)

// Presence tracks the single room a connection is in
type Presence struct {
	hub    *Hub
	conn   *Conn
	logger *logrus.Entry

	mu   sync.Mutex
	room string
}

// NewPresence creates a tracker for conn that is not in any room yet
func NewPresence(hub *Hub, conn *Conn) *Presence {
	return &Presence{
		hub:    hub,
		conn:   conn,
		logger: conn.logger,
	}
}

// Room returns the current room id, empty when not in a room
func (p *Presence) Room() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.room
}

// Join moves the connection into roomID, leaving its previous room first.
// Joining the current room again does nothing.
func (p *Presence) Join(roomID string) error {
	if !ValidRoomID(roomID) {
		p.logger.WithField("room_id", roomID).Debug("Room join rejected: invalid id")
		return ErrInvalidRoomID
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if roomID == p.room {
		p.logger.WithField("room_id", roomID).Debug("Already in room, ignoring join")
		return nil
	}

	t, err := p.hub.move(p.conn, p.room, roomID)
	if err != nil {
		p.logger.WithError(err).WithField("room_id", roomID).Debug("Room join rejected")
		return err
	}

	if t.from != "" {
		p.announceLeft(t.from, t.leftPeers)
	}
	p.room = roomID

	for _, peer := range t.joinPeers {
		_ = peer.Emit(EventRoomUserJoined, UserJoinedPayload{RoomID: roomID, User: t.member}, "")
	}
	_ = p.conn.Emit(EventRoomUsers, RoomUsersPayload{RoomID: roomID, Users: t.occupants}, "")

	metrics.RoomEvents.WithLabelValues("join").Inc()
	p.logger.WithFields(logrus.Fields{
		"room_id":   roomID,
		"occupants": len(t.occupants),
	}).Info("Joined room")
	return nil
}

// Leave removes the connection from its room; a no-op when not in one
func (p *Presence) Leave() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.leaveLocked()
}

// Disconnect releases the room and the registry entry, then closes the connection
func (p *Presence) Disconnect() {
	p.mu.Lock()
	if err := p.leaveLocked(); err != nil {
		p.logger.WithError(err).Warn("Failed to leave room on disconnect")
	}
	p.mu.Unlock()

	p.hub.Unregister(p.conn)
	p.conn.Close()
}

func (p *Presence) leaveLocked() error {
	if p.room == "" {
		return nil
	}

	t, err := p.hub.move(p.conn, p.room, "")
	if err != nil {
		return err
	}
	p.announceLeft(t.from, t.leftPeers)
	p.room = ""
	return nil
}

func (p *Presence) announceLeft(roomID string, peers []*Conn) {
	payload := UserLeftPayload{RoomID: roomID, UserID: p.conn.UserID(), SocketID: p.conn.ID()}
	for _, peer := range peers {
		_ = peer.Emit(EventRoomUserLeft, payload, "")
	}
	metrics.RoomEvents.WithLabelValues("leave").Inc()
	p.logger.WithField("room_id", roomID).Info("Left room")
}
