package store

import (
	"context"
	"sort"
	"sync"

	"muster/internal/verification/models"
	id "muster/pkg/domain"
)

// InMemoryVerificationStore keeps verification events in a slice per
// roll call, guarded by a RWMutex.
type InMemoryVerificationStore struct {
	mu     sync.RWMutex
	byRoll map[id.RollCallID][]models.Verification
}

// NewMemory creates an empty in-memory verification store.
func NewMemory() *InMemoryVerificationStore {
	return &InMemoryVerificationStore{byRoll: make(map[id.RollCallID][]models.Verification)}
}

// Seed replaces the store contents. Intended for wiring and tests.
func (s *InMemoryVerificationStore) Seed(verifications []models.Verification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRoll = make(map[id.RollCallID][]models.Verification)
	for _, v := range verifications {
		s.byRoll[v.RollCallID] = append(s.byRoll[v.RollCallID], v)
	}
}

// Put appends a single verification event.
func (s *InMemoryVerificationStore) Put(v models.Verification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byRoll[v.RollCallID] = append(s.byRoll[v.RollCallID], v)
}

// ByRollCalls returns all events of the given roll calls, ordered by
// timestamp then id.
func (s *InMemoryVerificationStore) ByRollCalls(_ context.Context, ids []id.RollCallID) ([]models.Verification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Verification
	for _, rcID := range ids {
		out = append(out, s.byRoll[rcID]...)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Timestamp.Equal(out[j].Timestamp) {
			return out[i].Timestamp.Before(out[j].Timestamp)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out, nil
}
