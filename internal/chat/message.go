// Package chat implements the dispute chat synchronizer: a single
// deduplicated message list per active dispute room, fed by three
// at-least-once producers (history snapshot, optimistic send echo,
// push events) that may arrive in any order.
package chat

import (
	"strings"
	"time"
)

// Role identifies the sending principal of a message.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleBuyer  Role = "Buyer"
	RoleSeller Role = "Seller"
)

// Message is the domain model for a dispute chat message. Identity is
// the server-assigned ID; SentAt is display-only and never used for
// dedup or ordering.
type Message struct {
	ID         string
	RoomID     string
	AuthorID   string // empty for system/admin-authored messages
	AuthorRole Role
	Body       string
	SentAt     time.Time
}

// Valid reports whether a message carries the fields the store relies on.
// Used at the push ingestion boundary to reject malformed events.
func (m Message) Valid() bool {
	return m.ID != "" && m.RoomID != "" && strings.TrimSpace(m.Body) != ""
}
