package chat

import (
	"errors"
	"fmt"
)

// Error codes for synchronizer errors.
const (
	ErrCodeEmptyBody    = "empty_body"
	ErrCodeRoomInactive = "room_inactive"
	ErrCodeFetchFailed  = "fetch_failed"
	ErrCodeSendFailed   = "send_failed"
	ErrCodeChannel      = "channel_error"
)

// ErrStaleResponse marks a snapshot or send response that resolved after
// the active room changed. Discarded quietly, never shown to the operator.
var ErrStaleResponse = errors.New("stale response for inactive room")

// ValidationError rejects a send before any network call. The operator
// corrects the input and resubmits.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// FetchError wraps a failed snapshot load. The store is left untouched;
// reopening the dispute retries manually.
type FetchError struct {
	RoomID string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch history for dispute %s: %v", e.RoomID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// SendError wraps a failed persist call. Nothing was merged; the compose
// input stays populated for a manual retry.
type SendError struct {
	RoomID string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("send message to dispute %s: %v", e.RoomID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// ChannelError wraps a push transport failure. Non-fatal: store contents
// are preserved and a reconnect rejoins the active room.
type ChannelError struct {
	Op  string
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("push channel %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error { return e.Err }
