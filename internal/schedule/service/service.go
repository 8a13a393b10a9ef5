// Package service owns the schedule write path: validation, referential
// checks and the conflict gate sit here, in front of the entry store.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"muster/internal/platform/metrics"
	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// EntryStore is the persistence surface the service writes through.
type EntryStore interface {
	ByInmate(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error)
	Get(ctx context.Context, entryID id.ScheduleEntryID) (*models.Entry, error)
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, entryID id.ScheduleEntryID) error
}

// ConflictFinder reports existing entries overlapping a candidate window.
type ConflictFinder interface {
	FindConflicts(ctx context.Context, inmateID id.InmateID, day models.Weekday, start, end models.ClockTime, excludeID *id.ScheduleEntryID) ([]models.Entry, error)
}

// Roster answers whether an inmate is known.
type Roster interface {
	Exists(ctx context.Context, inmateID id.InmateID) (bool, error)
}

// Locations answers whether a location exists in the hierarchy.
type Locations interface {
	Contains(ctx context.Context, locationID id.LocationID) (bool, error)
}

// ConflictError carries the entries that block a schedule write so
// transports can show the caller exactly what to reschedule.
type ConflictError struct {
	Conflicts []models.Entry
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("schedule window overlaps %d existing entries", len(e.Conflicts))
}

// BatchResult summarizes a bulk apply.
type BatchResult struct {
	Applied int
	Skipped int
}

// Service guards schedule mutations. Writes for the same inmate are
// serialized so the conflict check and the store write act as one step.
type Service struct {
	entries  EntryStore
	detector ConflictFinder
	roster   Roster
	places   Locations
	metrics  *metrics.Metrics
	logger   *slog.Logger

	mu          sync.Mutex
	inmateLocks map[id.InmateID]*sync.Mutex
}

func New(entries EntryStore, detector ConflictFinder, roster Roster, places Locations, m *metrics.Metrics, logger *slog.Logger) *Service {
	return &Service{
		entries:     entries,
		detector:    detector,
		roster:      roster,
		places:      places,
		metrics:     m,
		logger:      logger,
		inmateLocks: make(map[id.InmateID]*sync.Mutex),
	}
}

// Create validates, checks references and conflicts, then persists the
// entry. A zero entry ID is assigned. Overlaps within the same entry
// class come back as CodeConflict wrapping a ConflictError.
func (s *Service) Create(ctx context.Context, entry *models.Entry) error {
	if entry.ID.IsNil() {
		entry.ID = id.NewScheduleEntryID()
	}
	if err := s.admit(ctx, entry); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("create", "rejected").Inc()
		return err
	}

	unlock := s.lockInmate(entry.InmateID)
	defer unlock()

	if err := s.checkConflicts(ctx, entry, nil); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("create", "conflict").Inc()
		return err
	}
	if err := s.entries.Create(ctx, entry); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("create", "error").Inc()
		return err
	}
	s.metrics.ScheduleWrites.WithLabelValues("create", "ok").Inc()
	return nil
}

// Update replaces an existing entry under the same guards as Create.
// The entry being updated is excluded from the conflict scan.
func (s *Service) Update(ctx context.Context, entry *models.Entry) error {
	if _, err := s.entries.Get(ctx, entry.ID); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("update", "rejected").Inc()
		return err
	}
	if err := s.admit(ctx, entry); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("update", "rejected").Inc()
		return err
	}

	unlock := s.lockInmate(entry.InmateID)
	defer unlock()

	if err := s.checkConflicts(ctx, entry, &entry.ID); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("update", "conflict").Inc()
		return err
	}
	if err := s.entries.Update(ctx, entry); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("update", "error").Inc()
		return err
	}
	s.metrics.ScheduleWrites.WithLabelValues("update", "ok").Inc()
	return nil
}

// Delete removes an entry.
func (s *Service) Delete(ctx context.Context, entryID id.ScheduleEntryID) error {
	if err := s.entries.Delete(ctx, entryID); err != nil {
		s.metrics.ScheduleWrites.WithLabelValues("delete", "error").Inc()
		return err
	}
	s.metrics.ScheduleWrites.WithLabelValues("delete", "ok").Inc()
	return nil
}

// Get returns a single entry.
func (s *Service) Get(ctx context.Context, entryID id.ScheduleEntryID) (*models.Entry, error) {
	return s.entries.Get(ctx, entryID)
}

// List returns all entries of an inmate, ordered by day then start.
func (s *Service) List(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error) {
	return s.entries.ByInmate(ctx, inmateID)
}

// ApplySyncBatch applies a bulk feed entry-by-entry. Validation and
// conflict rejects are logged and skipped so one bad row cannot stall
// the feed; storage failures abort the batch.
func (s *Service) ApplySyncBatch(ctx context.Context, source string, batch []models.Entry) (BatchResult, error) {
	s.metrics.SyncBatches.Inc()

	var result BatchResult
	for i := range batch {
		entry := batch[i]
		if entry.Source == "" {
			entry.Source = source
		}
		err := s.Create(ctx, &entry)
		switch {
		case err == nil:
			result.Applied++
		case dErrors.HasCode(err, dErrors.CodeConflict),
			dErrors.HasCode(err, dErrors.CodeValidation),
			dErrors.HasCode(err, dErrors.CodeNotFound):
			result.Skipped++
			s.logger.WarnContext(ctx, "skipping sync entry",
				"source", source,
				"inmate_id", entry.InmateID.String(),
				"error", err.Error(),
			)
		default:
			return result, err
		}
	}
	s.metrics.SyncEntriesApplied.Add(float64(result.Applied))
	return result, nil
}

// admit runs the checks that do not need the inmate lock: shape
// validation plus inmate and location existence, both fatal at write
// time.
func (s *Service) admit(ctx context.Context, entry *models.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	known, err := s.roster.Exists(ctx, entry.InmateID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check inmate")
	}
	if !known {
		return dErrors.Newf(dErrors.CodeNotFound, "inmate %s not found", entry.InmateID)
	}

	present, err := s.places.Contains(ctx, entry.LocationID)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "check location")
	}
	if !present {
		return dErrors.Newf(dErrors.CodeNotFound, "location %s not found", entry.LocationID)
	}
	return nil
}

func (s *Service) checkConflicts(ctx context.Context, entry *models.Entry, excludeID *id.ScheduleEntryID) error {
	overlaps, err := s.detector.FindConflicts(ctx, entry.InmateID, entry.Day, entry.Start, entry.End, excludeID)
	if err != nil {
		return err
	}

	var blocking []models.Entry
	for _, other := range overlaps {
		if sameClassConflict(*entry, other) {
			blocking = append(blocking, other)
		}
	}
	if len(blocking) == 0 {
		return nil
	}

	s.metrics.ScheduleConflicts.Inc()
	return dErrors.Wrap(
		&ConflictError{Conflicts: blocking},
		dErrors.CodeConflict,
		"schedule entry overlaps existing entries",
	)
}

// sameClassConflict decides whether two overlapping windows actually
// violate the no-overlap rule. Recurring entries conflict with
// recurring entries outright. A one-off may shadow a recurring entry
// (that is the override mechanism), so mixed classes never conflict.
// Two one-offs conflict only when their windows land on the same
// calendar date, which for overnight entries means comparing the dated
// head and tail spans.
func sameClassConflict(candidate, other models.Entry) bool {
	if candidate.Recurring != other.Recurring {
		return false
	}
	if candidate.Recurring {
		return true
	}
	return oneOffDatesOverlap(candidate, other)
}

type datedSpan struct {
	date       models.Date
	start, end models.ClockTime
}

func oneOffDatesOverlap(a, b models.Entry) bool {
	if a.EffectiveDate == nil || b.EffectiveDate == nil {
		return false
	}
	for _, sa := range datedSpans(a) {
		for _, sb := range datedSpans(b) {
			if sa.date == sb.date && sa.start < sb.end && sa.end > sb.start {
				return true
			}
		}
	}
	return false
}

func datedSpans(e models.Entry) []datedSpan {
	spans := e.Spans()
	out := make([]datedSpan, 0, len(spans))
	for _, span := range spans {
		date := *e.EffectiveDate
		if span.Day != e.Day {
			date = date.AddDays(1)
		}
		out = append(out, datedSpan{date: date, start: span.Start, end: span.End})
	}
	return out
}

// lockInmate serializes check-then-write sequences per inmate. Locks
// are retained for the process lifetime; the roster is small enough
// that this never matters.
func (s *Service) lockInmate(inmateID id.InmateID) func() {
	s.mu.Lock()
	l, ok := s.inmateLocks[inmateID]
	if !ok {
		l = &sync.Mutex{}
		s.inmateLocks[inmateID] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}
