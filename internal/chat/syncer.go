package chat

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Channel is the push-channel collaborator: room interest management on
// the persistent event connection.
type Channel interface {
	Join(ctx context.Context, roomID string) error
	Leave(ctx context.Context, roomID string) error
}

// History is the REST collaborator for the authoritative message snapshot.
type History interface {
	Messages(ctx context.Context, roomID string) ([]Message, error)
}

// Poster is the REST collaborator that persists a new message and returns
// the created message with its server-assigned ID and timestamp.
type Poster interface {
	Post(ctx context.Context, roomID, body string) (Message, error)
}

// Syncer owns the active-room subscription and reconciles all three
// producers into one Store. At most one room is active at a time; the
// leave for the previous room is issued before the join for the next.
//
// Every network result is guarded by an activation epoch: a snapshot or
// send response that resolves after the room changed is discarded with
// ErrStaleResponse instead of corrupting the visible list.
type Syncer struct {
	channel Channel
	history History
	poster  Poster
	store   *Store
	log     *zerolog.Logger

	// OnInserted, when set, is called for each message a push event
	// inserts into the active room. The view uses it to render live.
	OnInserted func(Message)

	mu         sync.Mutex
	activeRoom string
	epoch      uint64
}

// NewSyncer wires the synchronizer to its collaborators.
func NewSyncer(channel Channel, history History, poster Poster, logger *zerolog.Logger) *Syncer {
	return &Syncer{
		channel: channel,
		history: history,
		poster:  poster,
		store:   NewStore(),
		log:     logger,
	}
}

// Store exposes the canonical message list for rendering.
func (s *Syncer) Store() *Store {
	return s.store
}

// ActiveRoom returns the currently active room ID, empty if none.
func (s *Syncer) ActiveRoom() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeRoom
}

// Activate makes roomID the active room: leave the previous room, clear
// the store, join the new room on the channel, then load the snapshot.
// Reopening the already-active room re-joins and re-fetches, which is the
// manual retry path after a failed load or a dropped connection.
func (s *Syncer) Activate(ctx context.Context, roomID string) error {
	s.mu.Lock()
	previous := s.activeRoom
	s.activeRoom = roomID
	s.epoch++
	epoch := s.epoch
	s.mu.Unlock()

	if previous != "" && previous != roomID {
		if err := s.channel.Leave(ctx, previous); err != nil {
			// Interest in the old room is already gone locally; the event
			// filter in HandleEvent keeps its messages out regardless.
			s.log.Warn().Err(err).Str("room", previous).Msg("leave previous room")
		}
	}

	s.store.Clear()

	if err := s.channel.Join(ctx, roomID); err != nil {
		return &ChannelError{Op: "join", Err: err}
	}

	return s.loadSnapshot(ctx, roomID, epoch)
}

// Deactivate closes the active room: leave on the channel and clear the
// store. No-op when no room is active.
func (s *Syncer) Deactivate(ctx context.Context) error {
	s.mu.Lock()
	previous := s.activeRoom
	s.activeRoom = ""
	s.epoch++
	s.mu.Unlock()

	if previous == "" {
		return nil
	}

	s.store.Clear()

	if err := s.channel.Leave(ctx, previous); err != nil {
		return &ChannelError{Op: "leave", Err: err}
	}
	return nil
}

func (s *Syncer) loadSnapshot(ctx context.Context, roomID string, epoch uint64) error {
	messages, err := s.history.Messages(ctx, roomID)
	if err != nil {
		return &FetchError{RoomID: roomID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// Room changed while the fetch was in flight; the payload belongs
		// to a superseded activation.
		s.log.Debug().Str("room", roomID).Msg("discarding stale snapshot")
		return ErrStaleResponse
	}

	s.store.ReplaceAll(messages)
	return nil
}

// Send validates and persists an operator message, then merges the
// server-returned message immediately so the send feels instant. The push
// echo of the same ID is later absorbed as a duplicate.
func (s *Syncer) Send(ctx context.Context, roomID, body string) (Message, error) {
	if strings.TrimSpace(body) == "" {
		return Message{}, &ValidationError{Code: ErrCodeEmptyBody, Message: "message body is empty"}
	}

	s.mu.Lock()
	if roomID == "" || roomID != s.activeRoom {
		s.mu.Unlock()
		return Message{}, &ValidationError{Code: ErrCodeRoomInactive, Message: "dispute room is not active"}
	}
	epoch := s.epoch
	s.mu.Unlock()

	msg, err := s.poster.Post(ctx, roomID, body)
	if err != nil {
		return Message{}, &SendError{RoomID: roomID, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.epoch != epoch {
		// The message was persisted, but the operator has moved on; do not
		// merge it against whatever room is visible now.
		s.log.Debug().Str("room", roomID).Str("id", msg.ID).Msg("discarding send echo after room switch")
		return Message{}, ErrStaleResponse
	}

	s.store.Merge(msg)
	return msg, nil
}

// HandleEvent reconciles a push event. Messages for the active room merge
// into the store; anything else is dropped without touching shared state.
// Dedup against the optimistic echo is the store's identity check, the
// ingestor trusts it.
func (s *Syncer) HandleEvent(msg Message) MergeResult {
	if !msg.Valid() {
		s.log.Warn().Str("id", msg.ID).Str("room", msg.RoomID).Msg("dropping malformed push event")
		return MergeDuplicate
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.activeRoom == "" || msg.RoomID != s.activeRoom {
		s.log.Debug().Str("room", msg.RoomID).Str("active", s.activeRoom).Msg("dropping event for inactive room")
		return MergeDuplicate
	}

	result := s.store.Merge(msg)
	if result == MergeInserted && s.OnInserted != nil {
		s.OnInserted(msg)
	}
	return result
}

// HandleConnect re-establishes interest in the active room after the
// transport reconnects. Without an active room it does nothing.
func (s *Syncer) HandleConnect(ctx context.Context) error {
	s.mu.Lock()
	room := s.activeRoom
	s.mu.Unlock()

	if room == "" {
		return nil
	}
	if err := s.channel.Join(ctx, room); err != nil {
		return &ChannelError{Op: "rejoin", Err: err}
	}
	s.log.Debug().Str("room", room).Msg("rejoined active room after reconnect")
	return nil
}

// HandleChannelError surfaces a transport failure as a passive notice.
// Active-room state and store contents are preserved; a reconnect will
// rejoin and a manual reopen re-fetches history.
func (s *Syncer) HandleChannelError(err error) {
	s.log.Warn().Err(err).Msg("push channel error")
}
