package store

import (
	"context"
	"sort"
	"sync"

	"muster/internal/rollcall/models"
	id "muster/pkg/domain"
)

// InMemoryRollCallStore keeps roll calls in a map guarded by a RWMutex.
type InMemoryRollCallStore struct {
	mu        sync.RWMutex
	rollCalls map[id.RollCallID]models.RollCall
}

// NewMemory creates an empty in-memory roll call store.
func NewMemory() *InMemoryRollCallStore {
	return &InMemoryRollCallStore{rollCalls: make(map[id.RollCallID]models.RollCall)}
}

// Seed replaces the store contents. Intended for wiring and tests.
func (s *InMemoryRollCallStore) Seed(rollCalls []models.RollCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollCalls = make(map[id.RollCallID]models.RollCall, len(rollCalls))
	for _, rc := range rollCalls {
		s.rollCalls[rc.ID] = rc
	}
}

// Put inserts or replaces a single roll call.
func (s *InMemoryRollCallStore) Put(rc models.RollCall) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rollCalls[rc.ID] = rc
}

// ByIDs returns the known roll calls among ids, ordered by id. Unknown
// ids are skipped.
func (s *InMemoryRollCallStore) ByIDs(_ context.Context, ids []id.RollCallID) ([]models.RollCall, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.RollCall
	for _, rcID := range ids {
		if rc, ok := s.rollCalls[rcID]; ok {
			out = append(out, rc)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}
