package hierarchy

import (
	"context"

	id "muster/pkg/domain"
)

// Provider serves forest views built from a location source, typically a
// SnapshotCache over the backing store.
type Provider struct {
	source Store
}

func NewProvider(source Store) *Provider {
	return &Provider{source: source}
}

// Forest builds a fresh forest from the current location snapshot.
func (p *Provider) Forest(ctx context.Context) (*Forest, error) {
	return Load(ctx, p.source)
}

// ValidIDs returns the set of location ids in the current snapshot.
func (p *Provider) ValidIDs(ctx context.Context) (map[id.LocationID]bool, error) {
	forest, err := p.Forest(ctx)
	if err != nil {
		return nil, err
	}
	return forest.ValidIDs(), nil
}

// Contains reports whether the location exists in the current snapshot.
func (p *Provider) Contains(ctx context.Context, locationID id.LocationID) (bool, error) {
	forest, err := p.Forest(ctx)
	if err != nil {
		return false, err
	}
	return forest.Contains(locationID), nil
}
