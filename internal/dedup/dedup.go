package dedup

import "sync"

// SeenSet tracks item identifiers already delivered to a consumer so the
// same listing is never surfaced twice in one process lifetime. It is
// constructed once and handed to whatever performs delivery; it is not
// persisted, the store keeps its own record across restarts.
type SeenSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

func NewSeenSet() *SeenSet {
	return &SeenSet{seen: make(map[string]struct{})}
}

// ShouldDeliver reports whether the id has not been delivered yet.
func (s *SeenSet) ShouldDeliver(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.seen[id]
	return !exists
}

// MarkDelivered records the id. Once marked, ShouldDeliver returns false
// for the rest of the process lifetime.
func (s *SeenSet) MarkDelivered(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seen[id] = struct{}{}
}

// Count returns the number of delivered ids.
func (s *SeenSet) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
