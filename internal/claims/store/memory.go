package store

import (
	"context"
	"sync"

	"byggekrav/internal/claims/models"
	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/sentinel"
)

// Memory keeps claims and event logs in maps guarded by one RWMutex. It
// intentionally favors clarity over performance and is the implementation of
// record for unit tests.
type Memory struct {
	mu     sync.RWMutex
	claims map[id.ClaimID]models.Claim
	events map[id.ClaimID][]models.ClaimEvent
	refs   map[string]bool // projectID/reference uniqueness
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		claims: make(map[id.ClaimID]models.Claim),
		events: make(map[id.ClaimID][]models.ClaimEvent),
		refs:   make(map[string]bool),
	}
}

func refKey(projectID id.ProjectID, reference string) string {
	return projectID.String() + "/" + reference
}

func (s *Memory) CreateClaim(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.ID]; ok {
		return sentinel.ErrConflict
	}
	if claim.Reference != "" {
		key := refKey(claim.ProjectID, claim.Reference)
		if s.refs[key] {
			return sentinel.ErrConflict
		}
		s.refs[key] = true
	}
	s.claims[claim.ID] = *claim
	return nil
}

func (s *Memory) GetClaim(_ context.Context, claimID id.ClaimID) (*models.Claim, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	claim, ok := s.claims[claimID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &claim, nil
}

func (s *Memory) UpdateClaim(_ context.Context, claim *models.Claim) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[claim.ID]; !ok {
		return sentinel.ErrNotFound
	}
	s.claims[claim.ID] = *claim
	return nil
}

func (s *Memory) AppendEvent(_ context.Context, event *models.ClaimEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.claims[event.ClaimID]; !ok {
		return sentinel.ErrNotFound
	}
	log := s.events[event.ClaimID]
	if event.Seq != len(log)+1 {
		return sentinel.ErrSequenceConflict
	}
	s.events[event.ClaimID] = append(log, *event)
	return nil
}

func (s *Memory) ListEvents(_ context.Context, claimID id.ClaimID) ([]models.ClaimEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	log, ok := s.events[claimID]
	if !ok {
		if _, exists := s.claims[claimID]; !exists {
			return nil, sentinel.ErrNotFound
		}
		return nil, nil
	}
	out := make([]models.ClaimEvent, len(log))
	copy(out, log)
	return out, nil
}
