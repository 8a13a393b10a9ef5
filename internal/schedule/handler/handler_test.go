package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/xuri/excelize/v2"

	"muster/internal/platform/metrics"
	"muster/internal/schedule/conflict"
	"muster/internal/schedule/service"
	"muster/internal/schedule/store"
	id "muster/pkg/domain"
)

type staticRoster struct{ known map[id.InmateID]bool }

func (s *staticRoster) Exists(_ context.Context, inmateID id.InmateID) (bool, error) {
	return s.known[inmateID], nil
}

type staticLocations struct{ known map[id.LocationID]bool }

func (s *staticLocations) Contains(_ context.Context, locationID id.LocationID) (bool, error) {
	return s.known[locationID], nil
}

func newScheduleRouter(t *testing.T) (chi.Router, id.InmateID, id.LocationID) {
	t.Helper()
	entries := store.NewMemory()
	inmate := id.NewInmateID()
	location := id.NewLocationID()

	svc := service.New(
		entries,
		conflict.New(entries),
		&staticRoster{known: map[id.InmateID]bool{inmate: true}},
		&staticLocations{known: map[id.LocationID]bool{location: true}},
		metrics.NewForTest(),
		slog.Default(),
	)

	router := chi.NewRouter()
	New(svc, slog.Default()).Register(router)
	return router, inmate, location
}

func entryPayload(inmate id.InmateID, location id.LocationID, start, end string) map[string]any {
	return map[string]any{
		"inmate_id":     inmate.String(),
		"location_id":   location.String(),
		"day_of_week":   0,
		"start_time":    start,
		"end_time":      end,
		"activity_type": "work",
		"is_recurring":  true,
	}
}

func postEntry(t *testing.T, router chi.Router, payload map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	body, _ := json.Marshal(payload)
	req := httptest.NewRequest(http.MethodPost, "/schedule/entries/", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndListEntries(t *testing.T) {
	router, inmate, location := newScheduleRouter(t)

	rec := postEntry(t, router, entryPayload(inmate, location, "08:00", "09:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating entry, got %d: %s", rec.Code, rec.Body.String())
	}

	var created EntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("expected id in create response")
	}

	listReq := httptest.NewRequest(http.MethodGet, "/schedule/entries/?inmate_id="+inmate.String(), nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	if listRec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing entries, got %d", listRec.Code)
	}

	var listed []EntryResponse
	if err := json.NewDecoder(listRec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != created.ID {
		t.Fatalf("expected the created entry in the list, got %+v", listed)
	}
}

func TestCreateConflictReturns409WithDetails(t *testing.T) {
	router, inmate, location := newScheduleRouter(t)

	if rec := postEntry(t, router, entryPayload(inmate, location, "08:00", "12:00")); rec.Code != http.StatusCreated {
		t.Fatalf("expected 201 creating first entry, got %d", rec.Code)
	}

	rec := postEntry(t, router, entryPayload(inmate, location, "10:00", "14:00"))
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 on overlap, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error   string `json:"error"`
		Details struct {
			ConflictingEntries []EntryResponse `json:"conflicting_entries"`
		} `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode conflict body: %v", err)
	}
	if body.Error != "conflict" {
		t.Fatalf("expected conflict error code, got %q", body.Error)
	}
	if len(body.Details.ConflictingEntries) != 1 {
		t.Fatalf("expected the blocking entry in details, got %+v", body.Details)
	}
	if body.Details.ConflictingEntries[0].Start != "08:00" {
		t.Fatalf("unexpected blocking entry: %+v", body.Details.ConflictingEntries[0])
	}
}

func TestUpdateAndDeleteEntry(t *testing.T) {
	router, inmate, location := newScheduleRouter(t)

	rec := postEntry(t, router, entryPayload(inmate, location, "08:00", "09:00"))
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var created EntryResponse
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}

	update := entryPayload(inmate, location, "08:00", "10:00")
	body, _ := json.Marshal(update)
	putReq := httptest.NewRequest(http.MethodPut, "/schedule/entries/"+created.ID, bytes.NewReader(body))
	putReq.Header.Set("Content-Type", "application/json")
	putRec := httptest.NewRecorder()
	router.ServeHTTP(putRec, putReq)
	if putRec.Code != http.StatusOK {
		t.Fatalf("expected 200 updating entry, got %d: %s", putRec.Code, putRec.Body.String())
	}

	delReq := httptest.NewRequest(http.MethodDelete, "/schedule/entries/"+created.ID, nil)
	delRec := httptest.NewRecorder()
	router.ServeHTTP(delRec, delReq)
	if delRec.Code != http.StatusNoContent {
		t.Fatalf("expected 204 deleting entry, got %d", delRec.Code)
	}

	getReq := httptest.NewRequest(http.MethodGet, "/schedule/entries/"+created.ID, nil)
	getRec := httptest.NewRecorder()
	router.ServeHTTP(getRec, getReq)
	if getRec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", getRec.Code)
	}
}

func TestCreateBadPayload(t *testing.T) {
	router, _, _ := newScheduleRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/schedule/entries/", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 on bad payload, got %d", rec.Code)
	}
}

func TestImportXLSX(t *testing.T) {
	router, inmate, location := newScheduleRouter(t)

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	header := []any{"inmate_id", "location_id", "day_of_week", "start_time", "end_time", "activity_type", "is_recurring", "effective_date"}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatalf("failed to write header: %v", err)
	}
	rows := [][]any{
		{inmate.String(), location.String(), "0", "08:00", "09:00", "work", "true", ""},
		{inmate.String(), location.String(), "0", "08:30", "10:00", "education", "true", ""},
		{"bogus", location.String(), "0", "11:00", "12:00", "work", "true", ""},
		{inmate.String(), location.String(), "2", "14:00", "15:00", "exercise", "true", ""},
	}
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%d", i+2), &r); err != nil {
			t.Fatalf("failed to write row %d: %v", i, err)
		}
	}
	workbook, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("failed to serialize workbook: %v", err)
	}

	var form bytes.Buffer
	mw := multipart.NewWriter(&form)
	part, err := mw.CreateFormFile("file", "schedule.xlsx")
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(workbook.Bytes()); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := mw.WriteField("source", "prison-sys-b"); err != nil {
		t.Fatalf("failed to write source field: %v", err)
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/schedule/entries/import", &form)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 importing sheet, got %d: %s", rec.Code, rec.Body.String())
	}

	var result ImportResponse
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode import response: %v", err)
	}
	// Row two overlaps row one and row three has a bad inmate id.
	if result.Applied != 2 || result.Skipped != 2 {
		t.Fatalf("expected 2 applied / 2 skipped, got %+v", result)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/schedule/entries/?inmate_id="+inmate.String(), nil)
	listRec := httptest.NewRecorder()
	router.ServeHTTP(listRec, listReq)
	var listed []EntryResponse
	if err := json.NewDecoder(listRec.Body).Decode(&listed); err != nil {
		t.Fatalf("failed to decode list response: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 imported entries, got %d", len(listed))
	}
	if listed[0].Source != "prison-sys-b" {
		t.Fatalf("expected import source on entries, got %q", listed[0].Source)
	}
}
