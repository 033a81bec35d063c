package config

// SocketConfig holds WebSocket connection and room limits
type SocketConfig struct {
	MaxRoomSize int
	SendBuffer  int
}

// LoadSocketConfig loads socket configuration from environment variables
func LoadSocketConfig() *SocketConfig {
	return &SocketConfig{
		MaxRoomSize: getEnvAsInt("SOCKET_MAX_ROOM_SIZE", 50),
		SendBuffer:  getEnvAsInt("SOCKET_SEND_BUFFER", 64),
	}
}
