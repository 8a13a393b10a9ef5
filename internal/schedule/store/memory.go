package store

import (
	"context"
	"sort"
	"sync"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// InMemoryEntryStore keeps schedule entries in a map guarded by a
// RWMutex. Used by tests and the DB-disabled development mode.
type InMemoryEntryStore struct {
	mu      sync.RWMutex
	entries map[id.ScheduleEntryID]models.Entry
}

// NewMemory creates an empty in-memory entry store.
func NewMemory() *InMemoryEntryStore {
	return &InMemoryEntryStore{entries: make(map[id.ScheduleEntryID]models.Entry)}
}

// Seed replaces the store contents. Intended for wiring and tests.
func (s *InMemoryEntryStore) Seed(entries []models.Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[id.ScheduleEntryID]models.Entry, len(entries))
	for _, entry := range entries {
		s.entries[entry.ID] = entry
	}
}

// ByInmate returns the inmate's entries sorted by day then start time.
func (s *InMemoryEntryStore) ByInmate(_ context.Context, inmateID id.InmateID) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Entry
	for _, entry := range s.entries {
		if entry.InmateID == inmateID {
			out = append(out, entry)
		}
	}
	sortEntries(out)
	return out, nil
}

// ByLocation returns entries at a location, optionally filtered to one
// weekday.
func (s *InMemoryEntryStore) ByLocation(_ context.Context, locationID id.LocationID, day *models.Weekday) ([]models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Entry
	for _, entry := range s.entries {
		if entry.LocationID != locationID {
			continue
		}
		if day != nil && entry.Day != *day {
			continue
		}
		out = append(out, entry)
	}
	sortEntries(out)
	return out, nil
}

// Get returns a single entry by id.
func (s *InMemoryEntryStore) Get(_ context.Context, entryID id.ScheduleEntryID) (*models.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[entryID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "schedule entry %s not found", entryID)
	}
	return &entry, nil
}

// Create inserts a new entry.
func (s *InMemoryEntryStore) Create(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; exists {
		return dErrors.Newf(dErrors.CodeConflict, "schedule entry %s already exists", entry.ID)
	}
	s.entries[entry.ID] = *entry
	return nil
}

// Update replaces an existing entry.
func (s *InMemoryEntryStore) Update(_ context.Context, entry *models.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entry.ID]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "schedule entry %s not found", entry.ID)
	}
	s.entries[entry.ID] = *entry
	return nil
}

// Delete removes an entry. Hard delete: the model has no soft-delete.
func (s *InMemoryEntryStore) Delete(_ context.Context, entryID id.ScheduleEntryID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.entries[entryID]; !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "schedule entry %s not found", entryID)
	}
	delete(s.entries, entryID)
	return nil
}

func sortEntries(entries []models.Entry) {
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Day != entries[j].Day {
			return entries[i].Day < entries[j].Day
		}
		if entries[i].Start != entries[j].Start {
			return entries[i].Start < entries[j].Start
		}
		return entries[i].ID.String() < entries[j].ID.String()
	})
}
