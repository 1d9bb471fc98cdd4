package chat

import "sync"

// MergeResult reports what Merge did with a candidate message.
type MergeResult int

const (
	// MergeInserted means the candidate was appended to the list.
	MergeInserted MergeResult = iota
	// MergeDuplicate means a message with the same ID already exists.
	MergeDuplicate
)

// Store holds the ordered, deduplicated message list for the active room.
// It is the only shared mutable state of the synchronizer; every producer
// goes through Merge/ReplaceAll/Clear, so the unique-ID invariant holds by
// construction. Display order is arrival order; no re-sorting on insert.
type Store struct {
	mu   sync.Mutex
	byID map[string]struct{}
	list []Message
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{byID: make(map[string]struct{})}
}

// Merge appends candidate unless a message with the same ID is already
// present, in which case it is a no-op reporting MergeDuplicate.
func (s *Store) Merge(candidate Message) MergeResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[candidate.ID]; exists {
		return MergeDuplicate
	}
	s.byID[candidate.ID] = struct{}{}
	s.list = append(s.list, candidate)
	return MergeInserted
}

// ReplaceAll establishes the authoritative history for a newly activated
// room. The snapshot wins on order and content, but entries already in the
// store that the snapshot does not contain (a push that raced ahead of the
// snapshot response) are kept, re-appended in their original arrival order.
func (s *Store) ReplaceAll(messages []Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.list
	s.list = make([]Message, 0, len(messages))
	s.byID = make(map[string]struct{}, len(messages))

	for _, m := range messages {
		if _, exists := s.byID[m.ID]; exists {
			continue
		}
		s.byID[m.ID] = struct{}{}
		s.list = append(s.list, m)
	}
	for _, m := range previous {
		if _, exists := s.byID[m.ID]; exists {
			continue
		}
		s.byID[m.ID] = struct{}{}
		s.list = append(s.list, m)
	}
}

// Clear empties the store. Invoked when the active room changes or closes.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.byID = make(map[string]struct{})
	s.list = nil
}

// Messages returns a copy of the current list in display order.
func (s *Store) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Message, len(s.list))
	copy(out, s.list)
	return out
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.list)
}
