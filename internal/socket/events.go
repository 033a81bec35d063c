package socket

import (
	"encoding/json"
	"time"
)

// Client to server events
const (
	EventRoomJoin  = "room:join"
	EventRoomLeave = "room:leave"
)

// Server to client events
const (
	EventRoomUsers      = "room:users"
	EventRoomUserJoined = "room:user:joined"
	EventRoomUserLeft   = "room:user:left"
	EventAck            = "ack"
	EventError          = "error"
)

// Inbound is a frame sent by the client. Ack, when set, is echoed back on the reply.
type Inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
	Ack   string          `json:"ack,omitempty"`
}

// Outbound is a frame written to the client
type Outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
	Ack   string `json:"ack,omitempty"`
}

// AckPayload answers room:join and room:leave
type AckPayload struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// JoinRequest is the payload of room:join
type JoinRequest struct {
	RoomID string `json:"roomId"`
}

// Occupant describes one membership as seen by other room members
type Occupant struct {
	SocketID    string `json:"socketId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName,omitempty"`
	Avatar      string `json:"avatar,omitempty"`
	JoinedAt    int64  `json:"joinedAt"`
}

// RoomUsersPayload is sent to a joiner with everyone currently in the room
type RoomUsersPayload struct {
	RoomID string     `json:"roomId"`
	Users  []Occupant `json:"users"`
}

// UserJoinedPayload is broadcast to the other occupants on join
type UserJoinedPayload struct {
	RoomID string   `json:"roomId"`
	User   Occupant `json:"user"`
}

// UserLeftPayload is broadcast to the remaining occupants on leave or disconnect
type UserLeftPayload struct {
	RoomID   string `json:"roomId"`
	UserID   string `json:"userId"`
	SocketID string `json:"socketId"`
}

// membership is the in-memory record of one connection in one room
type membership struct {
	conn     *Conn
	joinedAt time.Time
}

func (m membership) occupant() Occupant {
	o := Occupant{
		SocketID: m.conn.ID(),
		UserID:   m.conn.UserID(),
		JoinedAt: m.joinedAt.UnixMilli(),
	}
	if s := m.conn.Session(); s != nil && s.User != nil {
		o.DisplayName = s.User.DisplayName
		o.Avatar = s.User.Avatar
	}
	return o
}
