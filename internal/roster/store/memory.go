package store

import (
	"context"
	"sort"
	"sync"

	"muster/internal/roster/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// InMemoryInmateStore keeps the inmate roster in a map guarded by a
// RWMutex.
type InMemoryInmateStore struct {
	mu      sync.RWMutex
	inmates map[id.InmateID]models.Inmate
}

// NewMemory creates an empty in-memory inmate store.
func NewMemory() *InMemoryInmateStore {
	return &InMemoryInmateStore{inmates: make(map[id.InmateID]models.Inmate)}
}

// Seed replaces the store contents. Intended for wiring and tests.
func (s *InMemoryInmateStore) Seed(inmates []models.Inmate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inmates = make(map[id.InmateID]models.Inmate, len(inmates))
	for _, inm := range inmates {
		s.inmates[inm.ID] = inm
	}
}

// Put inserts or replaces a single inmate.
func (s *InMemoryInmateStore) Put(inm models.Inmate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inmates[inm.ID] = inm
}

// ActiveInmates lists inmates not marked inactive, ordered by id for
// deterministic downstream output.
func (s *InMemoryInmateStore) ActiveInmates(_ context.Context) ([]models.Inmate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Inmate
	for _, inm := range s.inmates {
		if inm.Active {
			out = append(out, inm)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

// HomeCellOf returns the static home cell assignment.
func (s *InMemoryInmateStore) HomeCellOf(_ context.Context, inmateID id.InmateID) (*id.LocationID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inm, ok := s.inmates[inmateID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "inmate %s not found", inmateID)
	}
	return inm.HomeCellID, nil
}

// Exists reports whether the inmate id is known.
func (s *InMemoryInmateStore) Exists(_ context.Context, inmateID id.InmateID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.inmates[inmateID]
	return ok, nil
}
