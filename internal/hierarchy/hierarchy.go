// Package hierarchy provides the in-memory snapshot of the facility
// location tree that each aggregation request walks. Snapshots are
// immutable once built, so concurrent builds need no locking.
package hierarchy

import (
	"context"
	"sort"

	"muster/internal/hierarchy/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// Store is the read interface over persisted locations.
type Store interface {
	All(ctx context.Context) ([]models.Location, error)
}

// Forest is a snapshot of the location tree. The parent relation is
// expected to form a forest; nodes whose parent id does not exist are
// tolerated as additional roots rather than rejected.
type Forest struct {
	byID     map[id.LocationID]models.Location
	children map[id.LocationID][]id.LocationID
	roots    []id.LocationID
}

// NewForest builds a snapshot from a flat location list.
func NewForest(locations []models.Location) *Forest {
	f := &Forest{
		byID:     make(map[id.LocationID]models.Location, len(locations)),
		children: make(map[id.LocationID][]id.LocationID),
	}
	for _, loc := range locations {
		f.byID[loc.ID] = loc
	}
	for _, loc := range locations {
		if loc.ParentID == nil {
			f.roots = append(f.roots, loc.ID)
			continue
		}
		if _, ok := f.byID[*loc.ParentID]; !ok {
			// Orphaned parent reference: treat the subtree as its own root.
			f.roots = append(f.roots, loc.ID)
			continue
		}
		f.children[*loc.ParentID] = append(f.children[*loc.ParentID], loc.ID)
	}

	f.sortIDs(f.roots)
	for _, ids := range f.children {
		f.sortIDs(ids)
	}
	return f
}

// sortIDs orders sibling lists by name then id so tree output is
// deterministic across builds.
func (f *Forest) sortIDs(ids []id.LocationID) {
	sort.Slice(ids, func(i, j int) bool {
		a, b := f.byID[ids[i]], f.byID[ids[j]]
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID.String() < b.ID.String()
	})
}

// Len returns the number of locations in the snapshot.
func (f *Forest) Len() int { return len(f.byID) }

// Get returns the location for the given id.
func (f *Forest) Get(locID id.LocationID) (models.Location, error) {
	loc, ok := f.byID[locID]
	if !ok {
		return models.Location{}, dErrors.Newf(dErrors.CodeNotFound, "location %s not found", locID)
	}
	return loc, nil
}

// Contains reports whether the id exists in the snapshot.
func (f *Forest) Contains(locID id.LocationID) bool {
	_, ok := f.byID[locID]
	return ok
}

// Roots returns the facility roots, including orphaned subtrees.
func (f *Forest) Roots() []models.Location {
	return f.resolve(f.roots)
}

// Children returns the ordered child locations of a node.
func (f *Forest) Children(locID id.LocationID) ([]models.Location, error) {
	if _, ok := f.byID[locID]; !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "location %s not found", locID)
	}
	return f.resolve(f.children[locID]), nil
}

// Ancestors returns the chain from the node itself up to its root. A
// malformed parent cycle terminates the walk instead of looping.
func (f *Forest) Ancestors(locID id.LocationID) ([]models.Location, error) {
	loc, ok := f.byID[locID]
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "location %s not found", locID)
	}

	chain := []models.Location{loc}
	seen := map[id.LocationID]bool{locID: true}
	for loc.ParentID != nil {
		parent, ok := f.byID[*loc.ParentID]
		if !ok || seen[parent.ID] {
			break
		}
		chain = append(chain, parent)
		seen[parent.ID] = true
		loc = parent
	}
	return chain, nil
}

// Leaves returns the most granular occupiable units: nodes with no
// children.
func (f *Forest) Leaves() []models.Location {
	var leaves []id.LocationID
	for locID := range f.byID {
		if len(f.children[locID]) == 0 {
			leaves = append(leaves, locID)
		}
	}
	f.sortIDs(leaves)
	return f.resolve(leaves)
}

// ValidIDs returns the id set for occupancy validation.
func (f *Forest) ValidIDs() map[id.LocationID]bool {
	ids := make(map[id.LocationID]bool, len(f.byID))
	for locID := range f.byID {
		ids[locID] = true
	}
	return ids
}

func (f *Forest) resolve(ids []id.LocationID) []models.Location {
	out := make([]models.Location, 0, len(ids))
	for _, locID := range ids {
		out = append(out, f.byID[locID])
	}
	return out
}

// Load reads the full location set and builds a snapshot.
func Load(ctx context.Context, store Store) (*Forest, error) {
	locations, err := store.All(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load locations")
	}
	return NewForest(locations), nil
}
