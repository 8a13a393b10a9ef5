// Package store holds the location store implementations. The memory
// store backs tests and the DB-disabled development mode; postgres is
// the production path.
package store

import (
	"context"
	"sync"

	"muster/internal/hierarchy/models"
	id "muster/pkg/domain"
)

// InMemoryLocationStore keeps locations in a map guarded by a RWMutex.
type InMemoryLocationStore struct {
	mu        sync.RWMutex
	locations map[id.LocationID]models.Location
}

// NewMemory creates an empty in-memory location store.
func NewMemory() *InMemoryLocationStore {
	return &InMemoryLocationStore{locations: make(map[id.LocationID]models.Location)}
}

// Seed replaces the store contents. Intended for wiring and tests.
func (s *InMemoryLocationStore) Seed(locations []models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations = make(map[id.LocationID]models.Location, len(locations))
	for _, loc := range locations {
		s.locations[loc.ID] = loc
	}
}

// Put inserts or replaces a single location.
func (s *InMemoryLocationStore) Put(loc models.Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.locations[loc.ID] = loc
}

// All returns every location.
func (s *InMemoryLocationStore) All(_ context.Context) ([]models.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Location, 0, len(s.locations))
	for _, loc := range s.locations {
		out = append(out, loc)
	}
	return out, nil
}
