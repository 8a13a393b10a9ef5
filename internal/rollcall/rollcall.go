// Package rollcall loads roll call sweeps for status aggregation.
package rollcall

import (
	"context"

	"muster/internal/rollcall/models"
	id "muster/pkg/domain"
)

// Store loads roll calls by id. Unknown ids are simply absent from the
// result; the caller decides whether that matters.
type Store interface {
	ByIDs(ctx context.Context, ids []id.RollCallID) ([]models.RollCall, error)
}
