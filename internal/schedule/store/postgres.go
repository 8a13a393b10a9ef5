package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"muster/internal/schedule/models"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// PostgresEntryStore persists schedule entries in PostgreSQL. Times are
// stored as minute-of-day smallints so SQL never compares "HH:MM"
// strings.
type PostgresEntryStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed entry store.
func NewPostgres(db *sql.DB) *PostgresEntryStore {
	return &PostgresEntryStore{db: db}
}

const entryColumns = `entry_id, inmate_id, location_id, day_of_week, start_minute, end_minute,
	activity_type, is_recurring, effective_date, source`

// ByInmate returns the inmate's entries sorted by day then start time.
func (s *PostgresEntryStore) ByInmate(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		WHERE inmate_id = $1
		ORDER BY day_of_week, start_minute, entry_id
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(inmateID))
	if err != nil {
		return nil, fmt.Errorf("list entries by inmate: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ByLocation returns entries at a location, optionally filtered to one
// weekday.
func (s *PostgresEntryStore) ByLocation(ctx context.Context, locationID id.LocationID, day *models.Weekday) ([]models.Entry, error) {
	query := `
		SELECT ` + entryColumns + `
		FROM schedule_entries
		WHERE location_id = $1 AND ($2::smallint IS NULL OR day_of_week = $2)
		ORDER BY day_of_week, start_minute, entry_id
	`
	var dayArg sql.NullInt16
	if day != nil {
		dayArg = sql.NullInt16{Int16: int16(*day), Valid: true}
	}
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(locationID), dayArg)
	if err != nil {
		return nil, fmt.Errorf("list entries by location: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Get returns a single entry by id.
func (s *PostgresEntryStore) Get(ctx context.Context, entryID id.ScheduleEntryID) (*models.Entry, error) {
	query := `SELECT ` + entryColumns + ` FROM schedule_entries WHERE entry_id = $1`
	row := s.db.QueryRowContext(ctx, query, uuid.UUID(entryID))
	entry, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "schedule entry %s not found", entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// Create inserts a new entry.
func (s *PostgresEntryStore) Create(ctx context.Context, entry *models.Entry) error {
	query := `
		INSERT INTO schedule_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query, entryArgs(entry)...)
	if err != nil {
		return fmt.Errorf("create entry: %w", err)
	}
	return nil
}

// Update replaces an existing entry.
func (s *PostgresEntryStore) Update(ctx context.Context, entry *models.Entry) error {
	query := `
		UPDATE schedule_entries SET
			inmate_id = $2, location_id = $3, day_of_week = $4, start_minute = $5,
			end_minute = $6, activity_type = $7, is_recurring = $8, effective_date = $9,
			source = $10
		WHERE entry_id = $1
	`
	res, err := s.db.ExecContext(ctx, query, entryArgs(entry)...)
	if err != nil {
		return fmt.Errorf("update entry: %w", err)
	}
	return requireRow(res, entry.ID)
}

// Delete removes an entry. Hard delete: the model has no soft-delete.
func (s *PostgresEntryStore) Delete(ctx context.Context, entryID id.ScheduleEntryID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM schedule_entries WHERE entry_id = $1`, uuid.UUID(entryID))
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	return requireRow(res, entryID)
}

func requireRow(res sql.Result, entryID id.ScheduleEntryID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return dErrors.Newf(dErrors.CodeNotFound, "schedule entry %s not found", entryID)
	}
	return nil
}

func entryArgs(entry *models.Entry) []any {
	var effective sql.NullTime
	if entry.EffectiveDate != nil {
		d := *entry.EffectiveDate
		effective = sql.NullTime{
			Time:  time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC),
			Valid: true,
		}
	}
	return []any{
		uuid.UUID(entry.ID),
		uuid.UUID(entry.InmateID),
		uuid.UUID(entry.LocationID),
		int16(entry.Day),
		int(entry.Start),
		int(entry.End),
		string(entry.Activity),
		entry.Recurring,
		effective,
		entry.Source,
	}
}

func scanEntries(rows *sql.Rows) ([]models.Entry, error) {
	var entries []models.Entry
	for rows.Next() {
		entry, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func scanEntry(scan func(...any) error) (*models.Entry, error) {
	var (
		entry               models.Entry
		entryID, inmID, loc uuid.UUID
		day                 int16
		start, end          int
		activity            string
		effective           sql.NullTime
	)
	err := scan(&entryID, &inmID, &loc, &day, &start, &end, &activity, &entry.Recurring, &effective, &entry.Source)
	if err != nil {
		return nil, err
	}
	entry.ID = id.ScheduleEntryID(entryID)
	entry.InmateID = id.InmateID(inmID)
	entry.LocationID = id.LocationID(loc)
	entry.Day = models.Weekday(day)
	entry.Start = models.ClockTime(start)
	entry.End = models.ClockTime(end)
	entry.Activity = models.ActivityType(activity)
	if effective.Valid {
		date := models.DateOf(effective.Time)
		entry.EffectiveDate = &date
	}
	return &entry, nil
}
