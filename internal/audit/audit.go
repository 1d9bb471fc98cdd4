// Package audit records the operator's own actions locally. Chat content
// is never persisted; only what the operator did, when, and to what.
package audit

import (
	"context"
	"time"
)

// Action identifies what the operator did.
type Action string

const (
	ActionLogin           Action = "LOGIN"
	ActionLogout          Action = "LOGOUT"
	ActionChatOpened      Action = "CHAT_OPENED"
	ActionChatClosed      Action = "CHAT_CLOSED"
	ActionMessageSent     Action = "MESSAGE_SENT"
	ActionDisputeResolved Action = "DISPUTE_RESOLVED"
	ActionWithdrawalPaid  Action = "WITHDRAWAL_PAID"
)

// Entry is one recorded operator action.
type Entry struct {
	ID        int64
	Action    Action
	Subject   string // what it targeted: dispute id, withdrawal reference, ...
	Detail    string
	CreatedAt time.Time
}

// Recorder persists the action trail.
type Recorder interface {
	// Record appends an action to the trail.
	Record(ctx context.Context, action Action, subject, detail string) error

	// Recent returns up to limit entries, newest first.
	Recent(ctx context.Context, limit int) ([]Entry, error)

	// Close closes the underlying storage.
	Close() error
}
