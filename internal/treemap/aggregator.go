package treemap

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"muster/internal/hierarchy"
	hmodels "muster/internal/hierarchy/models"
	"muster/internal/occupancy"
	"muster/internal/platform/metrics"
	rcmodels "muster/internal/rollcall/models"
	rostermodels "muster/internal/roster/models"
	"muster/internal/verification"
	vmodels "muster/internal/verification/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// syntheticRootID names the wrapper node used when the hierarchy has
// multiple facility roots or nothing survived pruning.
const syntheticRootID = "all-prisons"

// ForestProvider supplies a hierarchy snapshot per build.
type ForestProvider interface {
	Forest(ctx context.Context) (*hierarchy.Forest, error)
}

// StrategyPicker selects the occupancy strategy for a mode.
type StrategyPicker interface {
	ForMode(mode occupancy.Mode) (occupancy.Strategy, error)
}

// RollCallSource loads the selected roll calls.
type RollCallSource interface {
	ByIDs(ctx context.Context, ids []id.RollCallID) ([]rcmodels.RollCall, error)
}

// VerificationSource loads verification events for the selected roll
// calls.
type VerificationSource interface {
	ByRollCalls(ctx context.Context, ids []id.RollCallID) ([]vmodels.Verification, error)
}

// Roster supplies inmate names for node detail rows.
type Roster interface {
	ActiveInmates(ctx context.Context) ([]rostermodels.Inmate, error)
}

// BuildRequest selects what one tree build shows. An empty RollCallIDs
// set is the management overview: occupied nodes are forced grey and no
// verification data is consulted.
type BuildRequest struct {
	RollCallIDs  []id.RollCallID
	Timestamp    time.Time
	IncludeEmpty bool
	Mode         occupancy.Mode
}

// Aggregator builds status trees. It is stateless across builds; each
// call loads its own snapshot, so concurrent builds need no locking.
type Aggregator struct {
	forests       ForestProvider
	strategies    StrategyPicker
	rollCalls     RollCallSource
	verifications VerificationSource
	roster        Roster
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func NewAggregator(
	forests ForestProvider,
	strategies StrategyPicker,
	rollCalls RollCallSource,
	verifications VerificationSource,
	roster Roster,
	m *metrics.Metrics,
	logger *slog.Logger,
) *Aggregator {
	return &Aggregator{
		forests:       forests,
		strategies:    strategies,
		rollCalls:     rollCalls,
		verifications: verifications,
		roster:        roster,
		metrics:       m,
		logger:        logger,
	}
}

// Build computes the full status tree for the request. The hierarchy
// snapshot, occupancy placement, verification index and roster are
// loaded in parallel, then joined by a single bottom-up pass.
func (a *Aggregator) Build(ctx context.Context, req BuildRequest) (*Node, error) {
	start := time.Now()

	strategy, err := a.strategies.ForMode(req.Mode)
	if err != nil {
		return nil, err
	}

	var (
		forest    *hierarchy.Forest
		placement occupancy.Placement
		idx       *verification.Index
		names     map[id.InmateID]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		forest, err = a.forests.Forest(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		placement, err = strategy.Resolve(gctx, req.Timestamp)
		return err
	})
	g.Go(func() error {
		var err error
		idx, err = a.loadIndex(gctx, req.RollCallIDs)
		return err
	})
	g.Go(func() error {
		inmates, err := a.roster.ActiveInmates(gctx)
		if err != nil {
			return err
		}
		names = make(map[id.InmateID]string, len(inmates))
		for _, inm := range inmates {
			names[inm.ID] = inm.Name
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	build := &treeBuild{
		forest:       forest,
		placement:    placement,
		index:        idx,
		names:        names,
		hasRollCalls: len(req.RollCallIDs) > 0,
		includeEmpty: req.IncludeEmpty,
	}
	root, err := build.run(ctx)
	if err != nil {
		return nil, err
	}

	a.metrics.TreemapBuilds.WithLabelValues(string(req.Mode)).Inc()
	a.metrics.TreemapBuildDuration.Observe(time.Since(start).Seconds())
	a.metrics.TreemapNodes.Set(float64(root.Size()))
	a.logger.InfoContext(ctx, "treemap built",
		"mode", string(req.Mode),
		"roll_calls", len(req.RollCallIDs),
		"nodes", root.Size(),
		"occupants", root.Value,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return root, nil
}

// loadIndex loads the selected roll calls and their verifications.
// Unknown roll call ids are omitted with a warning rather than failing
// the build; a missing record must not blank the whole dashboard.
func (a *Aggregator) loadIndex(ctx context.Context, ids []id.RollCallID) (*verification.Index, error) {
	if len(ids) == 0 {
		return verification.NewIndex(nil, nil), nil
	}
	rollCalls, err := a.rollCalls.ByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(rollCalls) < len(ids) {
		a.logger.WarnContext(ctx, "some selected roll calls do not exist, omitting",
			"requested", len(ids), "found", len(rollCalls))
	}
	verifications, err := a.verifications.ByRollCalls(ctx, ids)
	if err != nil {
		return nil, err
	}
	return verification.NewIndex(rollCalls, verifications), nil
}

// treeBuild is the per-request state of one bottom-up pass.
type treeBuild struct {
	forest       *hierarchy.Forest
	placement    occupancy.Placement
	index        *verification.Index
	names        map[id.InmateID]string
	hasRollCalls bool
	includeEmpty bool
}

type frame struct {
	loc      hmodels.Location
	expanded bool
}

// run walks every root post-order with an explicit stack, checking for
// cancellation between node computations so a huge hierarchy cannot pin
// a dead request.
func (b *treeBuild) run(ctx context.Context) (*Node, error) {
	roots := b.forest.Roots()

	built := make(map[id.LocationID]*Node, b.forest.Len())
	stack := make([]frame, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, frame{loc: roots[i]})
	}

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeTimeout, "tree build cancelled")
		}

		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if !f.expanded {
			stack = append(stack, frame{loc: f.loc, expanded: true})
			children, err := b.forest.Children(f.loc.ID)
			if err != nil {
				return nil, err
			}
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, frame{loc: children[i]})
			}
			continue
		}

		children, err := b.forest.Children(f.loc.ID)
		if err != nil {
			return nil, err
		}
		built[f.loc.ID] = b.buildNode(f.loc, children, built)
	}

	return b.wrapRoots(roots, built), nil
}

// buildNode assembles one node from its already-built children and its
// direct occupants. Returns nil when the node prunes away.
func (b *treeBuild) buildNode(loc hmodels.Location, children []hmodels.Location, built map[id.LocationID]*Node) *Node {
	node := &Node{
		ID:     loc.ID.String(),
		Name:   loc.Name,
		Type:   string(loc.Type),
		Status: StatusGreen,
	}

	var statuses []Status
	for _, child := range children {
		cn := built[child.ID]
		if cn == nil {
			continue
		}
		node.Children = append(node.Children, cn)
		node.Value += cn.Value
		node.Metadata.InmateCount += cn.Metadata.InmateCount
		node.Metadata.VerifiedCount += cn.Metadata.VerifiedCount
		node.Metadata.FailedCount += cn.Metadata.FailedCount
		statuses = append(statuses, cn.Status)
	}

	if occupants := b.placement[loc.ID]; len(occupants) > 0 {
		selfStatus, selfMeta := b.evalOccupants(loc.ID, occupants)
		node.Value += len(occupants)
		node.Metadata.InmateCount += selfMeta.InmateCount
		node.Metadata.VerifiedCount += selfMeta.VerifiedCount
		node.Metadata.FailedCount += selfMeta.FailedCount
		node.Metadata.ScheduledTime = selfMeta.ScheduledTime
		node.Metadata.ActualTime = selfMeta.ActualTime
		node.Metadata.Inmates = selfMeta.Inmates
		statuses = append(statuses, selfStatus)
	}

	for _, s := range statuses {
		node.Status = moreSevere(node.Status, s)
	}

	if !b.includeEmpty && node.Value == 0 {
		return nil
	}
	return node
}

// evalOccupants applies the leaf precedence rules to one occupied
// location: grey when no selected roll call covers it, amber while the
// covering sweep is unfinished, then red or green by confirmation once
// the stop completed.
func (b *treeBuild) evalOccupants(locID id.LocationID, occupants []id.InmateID) (Status, Metadata) {
	meta := Metadata{InmateCount: len(occupants)}

	if !b.hasRollCalls {
		for _, inmateID := range occupants {
			meta.Inmates = append(meta.Inmates, InmateDetail{
				InmateID: inmateID.String(),
				Name:     b.names[inmateID],
				Status:   string(vmodels.StatusPending),
			})
		}
		return StatusGrey, meta
	}

	cov := b.index.CoverageOf(locID)
	meta.ScheduledTime = cov.ScheduledAt
	meta.ActualTime = cov.ActualAt

	for _, inmateID := range occupants {
		detail := InmateDetail{
			InmateID: inmateID.String(),
			Name:     b.names[inmateID],
			Status:   string(vmodels.StatusPending),
		}
		result := b.index.StatusOf(locID, inmateID)
		if result != nil {
			detail.Status = string(result.Status)
			detail.Confidence = result.Confidence
			t := result.Timestamp
			detail.VerifiedAt = &t
		}
		if result != nil && result.Status.Positive() {
			meta.VerifiedCount++
		} else if cov.Settled {
			meta.FailedCount++
		}
		meta.Inmates = append(meta.Inmates, detail)
	}

	switch {
	case !cov.Covered:
		return StatusGrey, meta
	case !cov.Settled:
		return StatusAmber, meta
	case meta.FailedCount > 0:
		return StatusRed, meta
	default:
		return StatusGreen, meta
	}
}

// wrapRoots produces the single output root: the facility node itself
// for a single-root hierarchy, a synthetic "All Prisons" wrapper for
// multiple facilities, and an empty green wrapper when nothing
// survived.
func (b *treeBuild) wrapRoots(roots []hmodels.Location, built map[id.LocationID]*Node) *Node {
	if len(roots) == 1 {
		if node := built[roots[0].ID]; node != nil {
			return node
		}
		return &Node{
			ID:     roots[0].ID.String(),
			Name:   roots[0].Name,
			Type:   string(roots[0].Type),
			Status: StatusGreen,
		}
	}

	wrapper := &Node{
		ID:     syntheticRootID,
		Name:   "All Prisons",
		Type:   "root",
		Status: StatusGreen,
	}
	for _, root := range roots {
		node := built[root.ID]
		if node == nil {
			continue
		}
		wrapper.Children = append(wrapper.Children, node)
		wrapper.Value += node.Value
		wrapper.Metadata.InmateCount += node.Metadata.InmateCount
		wrapper.Metadata.VerifiedCount += node.Metadata.VerifiedCount
		wrapper.Metadata.FailedCount += node.Metadata.FailedCount
		wrapper.Status = moreSevere(wrapper.Status, node.Status)
	}
	return wrapper
}
