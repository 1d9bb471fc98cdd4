// Package proto defines the wire format of the platform's push channel.
package proto

import (
	"encoding/json"
	"time"
)

// Inbound is the envelope for commands sent to the socket server.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	// InboundTypeJoinRoom subscribes this client to a dispute room.
	InboundTypeJoinRoom = "join-dispute-room"
	// InboundTypeLeaveRoom unsubscribes this client from a dispute room.
	InboundTypeLeaveRoom = "leave-dispute-room"

	// EventDisputeMessage notifies joined clients of a newly created message.
	EventDisputeMessage = "disputeMessage"
)

// RoomData carries the room a join/leave command targets. Joins also carry
// the bearer credential; the socket server checks it per room.
type RoomData struct {
	Room  string `json:"room"`
	Token string `json:"token,omitempty"`
}

// Outbound is the envelope for events received from the socket server.
type Outbound struct {
	Type  string          `json:"type"`
	Event string          `json:"event,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
	Error *Error          `json:"error,omitempty"`
}

// DisputeMessage is the payload of a disputeMessage event. Field names
// match the platform API.
type DisputeMessage struct {
	ID        string    `json:"_id"`
	DisputeID string    `json:"disputeId"`
	UserID    string    `json:"userId,omitempty"`
	UserRole  string    `json:"userRole"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// Error describes a protocol-level error from the socket server.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
