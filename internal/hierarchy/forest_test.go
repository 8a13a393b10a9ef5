package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"muster/internal/hierarchy/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

func loc(name string, t models.LocationType, parent *id.LocationID) models.Location {
	return models.Location{ID: id.NewLocationID(), Name: name, Type: t, ParentID: parent}
}

func TestForestStructure(t *testing.T) {
	facility := loc("HMP Northfield", models.TypeFacility, nil)
	wingA := loc("A Wing", models.TypeWing, &facility.ID)
	wingB := loc("B Wing", models.TypeWing, &facility.ID)
	landing := loc("A1 Landing", models.TypeLanding, &wingA.ID)
	cell1 := loc("A1-01", models.TypeCell, &landing.ID)
	cell2 := loc("A1-02", models.TypeCell, &landing.ID)

	f := NewForest([]models.Location{cell2, wingB, facility, landing, cell1, wingA})

	t.Run("roots", func(t *testing.T) {
		roots := f.Roots()
		require.Len(t, roots, 1)
		assert.Equal(t, facility.ID, roots[0].ID)
	})

	t.Run("children are ordered by name", func(t *testing.T) {
		kids, err := f.Children(facility.ID)
		require.NoError(t, err)
		require.Len(t, kids, 2)
		assert.Equal(t, "A Wing", kids[0].Name)
		assert.Equal(t, "B Wing", kids[1].Name)

		cells, err := f.Children(landing.ID)
		require.NoError(t, err)
		require.Len(t, cells, 2)
		assert.Equal(t, "A1-01", cells[0].Name)
	})

	t.Run("ancestors walk node to root", func(t *testing.T) {
		chain, err := f.Ancestors(cell1.ID)
		require.NoError(t, err)
		require.Len(t, chain, 4)
		assert.Equal(t, cell1.ID, chain[0].ID)
		assert.Equal(t, landing.ID, chain[1].ID)
		assert.Equal(t, wingA.ID, chain[2].ID)
		assert.Equal(t, facility.ID, chain[3].ID)
	})

	t.Run("leaves are childless nodes", func(t *testing.T) {
		leaves := f.Leaves()
		names := make([]string, 0, len(leaves))
		for _, l := range leaves {
			names = append(names, l.Name)
		}
		// B Wing has no children so it counts as a leaf in this snapshot.
		assert.Equal(t, []string{"A1-01", "A1-02", "B Wing"}, names)
	})

	t.Run("unknown id returns not found", func(t *testing.T) {
		_, err := f.Children(id.NewLocationID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))

		_, err = f.Ancestors(id.NewLocationID())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func TestForestToleratesOrphans(t *testing.T) {
	missingParent := id.NewLocationID()
	facility := loc("HMP Northfield", models.TypeFacility, nil)
	orphan := loc("Detached Annex", models.TypeWing, &missingParent)
	orphanCell := loc("X-01", models.TypeCell, &orphan.ID)

	f := NewForest([]models.Location{facility, orphan, orphanCell})

	roots := f.Roots()
	require.Len(t, roots, 2, "orphaned subtree becomes an additional root")

	chain, err := f.Ancestors(orphanCell.ID)
	require.NoError(t, err)
	assert.Equal(t, orphan.ID, chain[len(chain)-1].ID, "orphan terminates its own ancestor chain")
}

func TestForestEmpty(t *testing.T) {
	f := NewForest(nil)
	assert.Zero(t, f.Len())
	assert.Empty(t, f.Roots())
	assert.Empty(t, f.Leaves())
}
