package chat

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/escrowdesk/escrowdesk/internal/log"
)

type fakeChannel struct {
	mu       sync.Mutex
	calls    []string
	joinErr  error
	leaveErr error
}

func (c *fakeChannel) Join(_ context.Context, room string) error {
	c.record("join:" + room)
	return c.joinErr
}

func (c *fakeChannel) Leave(_ context.Context, room string) error {
	c.record("leave:" + room)
	return c.leaveErr
}

func (c *fakeChannel) record(call string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *fakeChannel) callList() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.calls))
	copy(out, c.calls)
	return out
}

type fakeHistory struct {
	byRoom map[string][]Message
	err    error
	// onFetch runs while the snapshot request is "in flight", before the
	// response resolves. Used to race a room switch against the fetch.
	onFetch func(roomID string)
}

func (h *fakeHistory) Messages(_ context.Context, roomID string) ([]Message, error) {
	if h.onFetch != nil {
		h.onFetch(roomID)
	}
	if h.err != nil {
		return nil, h.err
	}
	return h.byRoom[roomID], nil
}

type fakePoster struct {
	next   Message
	err    error
	onPost func()
}

func (p *fakePoster) Post(_ context.Context, roomID, body string) (Message, error) {
	if p.onPost != nil {
		p.onPost()
	}
	if p.err != nil {
		return Message{}, p.err
	}
	if p.next.ID != "" {
		return p.next, nil
	}
	return Message{ID: "generated", RoomID: roomID, AuthorRole: RoleAdmin, Body: body}, nil
}

func newTestSyncer(channel *fakeChannel, history *fakeHistory, poster *fakePoster) *Syncer {
	if channel == nil {
		channel = &fakeChannel{}
	}
	if history == nil {
		history = &fakeHistory{byRoom: map[string][]Message{}}
	}
	if poster == nil {
		poster = &fakePoster{}
	}
	return NewSyncer(channel, history, poster, log.Nop())
}

func TestActivateLoadsSnapshot(t *testing.T) {
	history := &fakeHistory{byRoom: map[string][]Message{
		"d1": {msg("m1", "d1", "hello"), msg("m2", "d1", "world")},
	}}
	s := newTestSyncer(nil, history, nil)

	if err := s.Activate(context.Background(), "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if s.ActiveRoom() != "d1" {
		t.Fatalf("expected active room d1, got %q", s.ActiveRoom())
	}
	if s.Store().Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", s.Store().Len())
	}
}

func TestActivateLeaveBeforeJoin(t *testing.T) {
	channel := &fakeChannel{}
	s := newTestSyncer(channel, nil, nil)

	ctx := context.Background()
	if err := s.Activate(ctx, "a"); err != nil {
		t.Fatalf("activate a: %v", err)
	}
	if err := s.Activate(ctx, "b"); err != nil {
		t.Fatalf("activate b: %v", err)
	}

	want := []string{"join:a", "leave:a", "join:b"}
	got := channel.callList()
	if len(got) != len(want) {
		t.Fatalf("expected calls %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("call %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}

func TestDeactivateLeavesAndClears(t *testing.T) {
	channel := &fakeChannel{}
	history := &fakeHistory{byRoom: map[string][]Message{"d1": {msg("m1", "d1", "hi")}}}
	s := newTestSyncer(channel, history, nil)

	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := s.Deactivate(ctx); err != nil {
		t.Fatalf("deactivate: %v", err)
	}

	if s.ActiveRoom() != "" {
		t.Fatalf("expected no active room, got %q", s.ActiveRoom())
	}
	if s.Store().Len() != 0 {
		t.Fatalf("expected empty store, got %d", s.Store().Len())
	}
	got := channel.callList()
	if got[len(got)-1] != "leave:d1" {
		t.Fatalf("expected final leave:d1, got %v", got)
	}

	// Deactivating again is a no-op.
	if err := s.Deactivate(ctx); err != nil {
		t.Fatalf("second deactivate: %v", err)
	}
}

func TestStaleSnapshotDiscarded(t *testing.T) {
	ctx := context.Background()
	channel := &fakeChannel{}
	history := &fakeHistory{byRoom: map[string][]Message{
		"room1": {msg("a1", "room1", "old"), msg("a2", "room1", "older")},
		"room2": {msg("b1", "room2", "fresh")},
	}}
	s := newTestSyncer(channel, history, nil)

	// While room1's snapshot is in flight, the operator switches to room2.
	switched := false
	history.onFetch = func(roomID string) {
		if roomID == "room1" && !switched {
			switched = true
			if err := s.Activate(ctx, "room2"); err != nil {
				t.Errorf("activate room2: %v", err)
			}
		}
	}

	err := s.Activate(ctx, "room1")
	if !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected ErrStaleResponse for room1 snapshot, got %v", err)
	}

	// room2's own snapshot is what the store shows, untouched by room1's
	// late payload.
	got := s.Store().Messages()
	if len(got) != 1 || got[0].ID != "b1" {
		t.Fatalf("room2 store corrupted by stale snapshot: %+v", got)
	}
	if s.ActiveRoom() != "room2" {
		t.Fatalf("expected active room room2, got %q", s.ActiveRoom())
	}
}

func TestFetchErrorLeavesStoreUntouched(t *testing.T) {
	history := &fakeHistory{err: errors.New("boom")}
	s := newTestSyncer(nil, history, nil)

	err := s.Activate(context.Background(), "d1")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("store must stay empty on fetch failure, got %d", s.Store().Len())
	}
	// The room stays active so a manual reopen can retry.
	if s.ActiveRoom() != "d1" {
		t.Fatalf("expected active room d1, got %q", s.ActiveRoom())
	}
}

func TestSendThenEchoMergesOnce(t *testing.T) {
	poster := &fakePoster{next: msg("m3", "d1", "hello")}
	s := newTestSyncer(nil, nil, poster)

	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	sent, err := s.Send(ctx, "d1", "hello")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if sent.ID != "m3" {
		t.Fatalf("expected server id m3, got %q", sent.ID)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("expected optimistic merge, got %d messages", s.Store().Len())
	}

	// The push echo of the same message arrives later.
	if res := s.HandleEvent(msg("m3", "d1", "hello")); res != MergeDuplicate {
		t.Fatalf("expected duplicate merge for echo, got %v", res)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("echo double-rendered: %d messages", s.Store().Len())
	}
}

func TestEchoBeforeSendResponseMergesOnce(t *testing.T) {
	poster := &fakePoster{next: msg("m3", "d1", "hello")}
	s := newTestSyncer(nil, nil, poster)

	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	// Push echo wins the race with the send response.
	poster.onPost = func() {
		if res := s.HandleEvent(msg("m3", "d1", "hello")); res != MergeInserted {
			t.Errorf("expected push echo to insert, got %v", res)
		}
	}

	if _, err := s.Send(ctx, "d1", "hello"); err != nil {
		t.Fatalf("send: %v", err)
	}
	if s.Store().Len() != 1 {
		t.Fatalf("expected exactly one visible entry, got %d", s.Store().Len())
	}
}

func TestSendValidation(t *testing.T) {
	s := newTestSyncer(nil, nil, nil)
	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	tests := []struct {
		name string
		room string
		body string
		code string
	}{
		{name: "empty body", room: "d1", body: "   ", code: ErrCodeEmptyBody},
		{name: "inactive room", room: "d2", body: "hello", code: ErrCodeRoomInactive},
		{name: "no room", room: "", body: "hello", code: ErrCodeRoomInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Send(ctx, tt.room, tt.body)
			var vErr *ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if vErr.Code != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, vErr.Code)
			}
		})
	}
	if s.Store().Len() != 0 {
		t.Fatalf("rejected sends must not touch the store, got %d", s.Store().Len())
	}
}

func TestSendFailureMergesNothing(t *testing.T) {
	poster := &fakePoster{err: errors.New("persist failed")}
	s := newTestSyncer(nil, nil, poster)

	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	_, err := s.Send(ctx, "d1", "hello")
	var sendErr *SendError
	if !errors.As(err, &sendErr) {
		t.Fatalf("expected SendError, got %v", err)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("failed send must not merge, got %d messages", s.Store().Len())
	}
}

func TestSendResponseAfterRoomSwitchDiscarded(t *testing.T) {
	ctx := context.Background()
	poster := &fakePoster{next: msg("m3", "d1", "hello")}
	s := newTestSyncer(nil, nil, poster)

	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	poster.onPost = func() {
		if err := s.Activate(ctx, "d2"); err != nil {
			t.Errorf("activate d2: %v", err)
		}
	}

	_, err := s.Send(ctx, "d1", "hello")
	if !errors.Is(err, ErrStaleResponse) {
		t.Fatalf("expected ErrStaleResponse, got %v", err)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("stale send echo merged into the wrong room: %d messages", s.Store().Len())
	}
}

func TestRoomIsolation(t *testing.T) {
	s := newTestSyncer(nil, nil, nil)
	ctx := context.Background()
	if err := s.Activate(ctx, "r1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if res := s.HandleEvent(msg("x1", "r2", "other room")); res != MergeDuplicate {
		t.Fatalf("event for inactive room must be dropped, got %v", res)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("cross-room bleed: %d messages", s.Store().Len())
	}
}

func TestMalformedEventDropped(t *testing.T) {
	s := newTestSyncer(nil, nil, nil)
	ctx := context.Background()
	if err := s.Activate(ctx, "r1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if res := s.HandleEvent(Message{RoomID: "r1", Body: "no id"}); res != MergeDuplicate {
		t.Fatalf("malformed event must be dropped, got %v", res)
	}
	if res := s.HandleEvent(Message{ID: "m1", RoomID: "r1", Body: "  "}); res != MergeDuplicate {
		t.Fatalf("blank body event must be dropped, got %v", res)
	}
	if s.Store().Len() != 0 {
		t.Fatalf("malformed events merged: %d messages", s.Store().Len())
	}
}

func TestOnInsertedFiresForPushOnly(t *testing.T) {
	poster := &fakePoster{next: msg("m1", "d1", "mine")}
	s := newTestSyncer(nil, nil, poster)

	var notified []string
	s.OnInserted = func(m Message) { notified = append(notified, m.ID) }

	ctx := context.Background()
	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}

	if _, err := s.Send(ctx, "d1", "mine"); err != nil {
		t.Fatalf("send: %v", err)
	}
	s.HandleEvent(msg("m1", "d1", "mine")) // duplicate echo
	s.HandleEvent(msg("m2", "d1", "theirs"))

	if len(notified) != 1 || notified[0] != "m2" {
		t.Fatalf("expected notification for m2 only, got %v", notified)
	}
}

func TestHandleConnectRejoinsActiveRoom(t *testing.T) {
	channel := &fakeChannel{}
	s := newTestSyncer(channel, nil, nil)

	ctx := context.Background()
	if err := s.HandleConnect(ctx); err != nil {
		t.Fatalf("connect with no active room: %v", err)
	}
	if len(channel.callList()) != 0 {
		t.Fatalf("no join expected without an active room, got %v", channel.callList())
	}

	if err := s.Activate(ctx, "d1"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if err := s.HandleConnect(ctx); err != nil {
		t.Fatalf("reconnect: %v", err)
	}

	got := channel.callList()
	if got[len(got)-1] != "join:d1" {
		t.Fatalf("expected rejoin of d1, got %v", got)
	}
}

func TestJoinFailureSurfacesChannelError(t *testing.T) {
	channel := &fakeChannel{joinErr: errors.New("socket down")}
	s := newTestSyncer(channel, nil, nil)

	err := s.Activate(context.Background(), "d1")
	var chanErr *ChannelError
	if !errors.As(err, &chanErr) {
		t.Fatalf("expected ChannelError, got %v", err)
	}
	// Active room sticks so the operator can compose once reconnected.
	if s.ActiveRoom() != "d1" {
		t.Fatalf("expected active room preserved, got %q", s.ActiveRoom())
	}
}
