package socket

import (
	"regexp"
	"sort"
	"sync"
	"time"

	"teamboard-api/internal/logger"

	"github.com/sirupsen/logrus"
)

const defaultMaxRoomSize = 50

var roomIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9:_-]{0,63}$`)

// HubOptions configures room limits
type HubOptions struct {
	MaxRoomSize int
}

// Hub is the connection registry and room index shared by all socket handlers.
// It is constructed once and passed to the handlers that need it.
type Hub struct {
	mu          sync.RWMutex
	conns       map[string]*Conn
	rooms       map[string]map[string]membership
	maxRoomSize int
	logger      *logger.Logger
	now         func() time.Time
}

// transition is the result of a membership change, used to fan out events
type transition struct {
	from      string
	to        string
	leftPeers []*Conn
	joinPeers []*Conn
	member    Occupant
	occupants []Occupant
}

// NewHub creates an empty registry
func NewHub(opts HubOptions, log *logger.Logger) *Hub {
	if opts.MaxRoomSize <= 0 {
		opts.MaxRoomSize = defaultMaxRoomSize
	}
	return &Hub{
		conns:       make(map[string]*Conn),
		rooms:       make(map[string]map[string]membership),
		maxRoomSize: opts.MaxRoomSize,
		logger:      log,
		now:         time.Now,
	}
}

// ValidRoomID reports whether id can name a room
func ValidRoomID(id string) bool {
	return roomIDPattern.MatchString(id)
}

// Register adds a connection to the registry
func (h *Hub) Register(c *Conn) {
	h.mu.Lock()
	h.conns[c.ID()] = c
	total := len(h.conns)
	h.mu.Unlock()

	h.logger.WithFields(logrus.Fields{
		"socket_id":   c.ID(),
		"user_id":     c.UserID(),
		"connections": total,
	}).Debug("Socket registered")
}

// Unregister removes a connection from the registry. Room memberships are
// released by the connection's Presence before this is called.
func (h *Hub) Unregister(c *Conn) {
	h.mu.Lock()
	delete(h.conns, c.ID())
	h.mu.Unlock()
}

// Connections returns the number of registered connections
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Occupants lists the members of a room ordered by join time
func (h *Hub) Occupants(roomID string) []Occupant {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.occupantsLocked(roomID)
}

// Rooms returns the number of non-empty rooms
func (h *Hub) Rooms() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms)
}

// Shutdown closes every registered connection
func (h *Hub) Shutdown() {
	h.mu.RLock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.RUnlock()

	for _, c := range conns {
		c.Close()
	}
	h.logger.Infof("Closed %d socket connections", len(conns))
}

// move atomically takes c out of room from and into room to. Either side may
// be empty. On error nothing changes.
func (h *Hub) move(c *Conn, from, to string) (transition, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	t := transition{from: from, to: to}

	if to != "" {
		if !ValidRoomID(to) {
			return transition{}, ErrInvalidRoomID
		}
		if _, ok := h.conns[c.ID()]; !ok {
			return transition{}, ErrNotRegistered
		}
		if c.Closed() {
			return transition{}, ErrConnectionClosed
		}
		if room := h.rooms[to]; len(room) >= h.maxRoomSize {
			if _, member := room[c.ID()]; !member {
				return transition{}, ErrRoomFull
			}
		}
	}

	if from != "" {
		if room, ok := h.rooms[from]; ok {
			delete(room, c.ID())
			for _, m := range room {
				t.leftPeers = append(t.leftPeers, m.conn)
			}
			if len(room) == 0 {
				delete(h.rooms, from)
			}
		}
	}

	if to != "" {
		room, ok := h.rooms[to]
		if !ok {
			room = make(map[string]membership)
			h.rooms[to] = room
		}
		for id, m := range room {
			if id != c.ID() {
				t.joinPeers = append(t.joinPeers, m.conn)
			}
		}
		m := membership{conn: c, joinedAt: h.now()}
		room[c.ID()] = m
		t.member = m.occupant()
		t.occupants = h.occupantsLocked(to)
	}

	return t, nil
}

func (h *Hub) occupantsLocked(roomID string) []Occupant {
	room := h.rooms[roomID]
	out := make([]Occupant, 0, len(room))
	for _, m := range room {
		out = append(out, m.occupant())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].JoinedAt != out[j].JoinedAt {
			return out[i].JoinedAt < out[j].JoinedAt
		}
		return out[i].SocketID < out[j].SocketID
	})
	return out
}
