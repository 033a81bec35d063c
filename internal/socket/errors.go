package socket

import "errors"

var (
	ErrInvalidRoomID    = errors.New("invalid room id")
	ErrRoomFull         = errors.New("room is full")
	ErrConnectionClosed = errors.New("connection closed")
	ErrNotRegistered    = errors.New("connection not registered")
	ErrSendQueueFull    = errors.New("send queue full")
	ErrUnknownEvent     = errors.New("unknown event")
)
