package memory

import (
	"context"
	"sync"

	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
)

// InMemoryStore keeps audit trails per claim. Test and dev use only.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.ClaimID][]audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.ClaimID][]audit.Event)}
}

func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = make(map[id.ClaimID][]audit.Event)
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.ClaimID] = append(s.events[event.ClaimID], event)
	return nil
}

func (s *InMemoryStore) ListByClaim(_ context.Context, claimID id.ClaimID) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trail := s.events[claimID]
	out := make([]audit.Event, 0, len(trail))
	// Newest first, matching the postgres store.
	for i := len(trail) - 1; i >= 0; i-- {
		out = append(out, trail[i])
	}
	return out, nil
}

func (s *InMemoryStore) ListRecent(_ context.Context, limit int) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []audit.Event
	for _, trail := range s.events {
		all = append(all, trail...)
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}
