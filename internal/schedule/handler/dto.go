package handler

import (
	"muster/internal/schedule/models"
	id "muster/pkg/domain"
)

// EntryRequest is the write-path wire shape for a schedule entry.
type EntryRequest struct {
	InmateID      string `json:"inmate_id"`
	LocationID    string `json:"location_id"`
	Day           int    `json:"day_of_week"`
	Start         string `json:"start_time"`
	End           string `json:"end_time"`
	Activity      string `json:"activity_type"`
	Recurring     bool   `json:"is_recurring"`
	EffectiveDate string `json:"effective_date,omitempty"`
	Source        string `json:"source,omitempty"`
}

// ToEntry parses the request into a domain entry. Shape validation
// beyond parsing is the service's job.
func (r EntryRequest) ToEntry() (models.Entry, error) {
	inmateID, err := id.ParseInmateID(r.InmateID)
	if err != nil {
		return models.Entry{}, err
	}
	locationID, err := id.ParseLocationID(r.LocationID)
	if err != nil {
		return models.Entry{}, err
	}
	start, err := models.ParseClock(r.Start)
	if err != nil {
		return models.Entry{}, err
	}
	end, err := models.ParseClock(r.End)
	if err != nil {
		return models.Entry{}, err
	}

	entry := models.Entry{
		InmateID:   inmateID,
		LocationID: locationID,
		Day:        models.Weekday(r.Day),
		Start:      start,
		End:        end,
		Activity:   models.ActivityType(r.Activity),
		Recurring:  r.Recurring,
		Source:     r.Source,
	}
	if r.EffectiveDate != "" {
		date, err := models.ParseDate(r.EffectiveDate)
		if err != nil {
			return models.Entry{}, err
		}
		entry.EffectiveDate = &date
	}
	return entry, nil
}

// EntryResponse is the read-path wire shape.
type EntryResponse struct {
	ID            string `json:"id"`
	InmateID      string `json:"inmate_id"`
	LocationID    string `json:"location_id"`
	Day           int    `json:"day_of_week"`
	Start         string `json:"start_time"`
	End           string `json:"end_time"`
	Activity      string `json:"activity_type"`
	Recurring     bool   `json:"is_recurring"`
	EffectiveDate string `json:"effective_date,omitempty"`
	Source        string `json:"source,omitempty"`
}

func FromEntry(e models.Entry) EntryResponse {
	resp := EntryResponse{
		ID:         e.ID.String(),
		InmateID:   e.InmateID.String(),
		LocationID: e.LocationID.String(),
		Day:        int(e.Day),
		Start:      e.Start.String(),
		End:        e.End.String(),
		Activity:   string(e.Activity),
		Recurring:  e.Recurring,
		Source:     e.Source,
	}
	if e.EffectiveDate != nil {
		resp.EffectiveDate = e.EffectiveDate.String()
	}
	return resp
}

func FromEntries(entries []models.Entry) []EntryResponse {
	out := make([]EntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, FromEntry(e))
	}
	return out
}

// ImportResponse reports the outcome of a bulk import.
type ImportResponse struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
}
