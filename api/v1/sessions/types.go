package session

import (
	"teamboard-api/internal/logger"
	"teamboard-api/internal/socket"
)

// Presence is the read side of the socket connection registry
type Presence interface {
	Occupants(roomID string) []socket.Occupant
	Connections() int
	Rooms() int
}

// Handler handles session-related requests
type Handler struct {
	presence Presence
	logger   *logger.Logger
}
