package gateway

import "time"

// WebSocket protocol constants
const (
	// Request identifiers
	WSJoinRoom  = 1001 // Join a conversation room
	WSSendMsg   = 1003 // Send message
	WSPullMsg   = 1005 // Pull messages after a watermark
	WSGetUnread = 1006 // Get conversation max/read seq

	// Response identifiers
	WSReceiveMessage = 2001 // Server push message
	WSKickOnlineMsg  = 2002 // Kick user offline
)

// Timeout constants
const (
	// WriteWait is time allowed to write a message to the peer
	WriteWait = 10 * time.Second

	// PongWait is time allowed to read the next pong message from the peer
	PongWait = 30 * time.Second

	// PingPeriod is period between pings. Must be less than PongWait
	PingPeriod = (PongWait * 9) / 10

	// MaxMessageSize is maximum message size allowed from peer
	MaxMessageSize = 51200
)

// Query parameter keys
const (
	QueryToken  = "token"
	QuerySendId = "send_id"
)
