package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"muster/internal/schedule/models"
	"muster/internal/transport/http/shared"
	dErrors "muster/pkg/domain-errors"
)

const maxImportSize = 10 << 20 // 10MB

// importColumns maps sheet headers to row positions. Headers are
// matched case-insensitively against these names.
var importColumns = []string{
	"inmate_id", "location_id", "day_of_week", "start_time",
	"end_time", "activity_type", "is_recurring", "effective_date",
}

// HandleImport handles POST /schedule/entries/import: a multipart xlsx
// upload whose rows are applied as a bulk batch. Rows that fail to
// parse are skipped and reported in the skipped count.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseMultipartForm(maxImportSize); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "parse multipart form"))
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "missing file field"))
		return
	}
	defer file.Close()

	source := r.FormValue("source")
	if source == "" {
		source = "xlsx-import"
	}

	f, err := excelize.OpenReader(file)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "open workbook"))
		return
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		shared.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "workbook has no sheets"))
		return
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "read sheet rows"))
		return
	}
	if len(rows) < 2 {
		shared.WriteJSON(w, http.StatusOK, ImportResponse{})
		return
	}

	columns, err := mapColumns(rows[0])
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	var entries []models.Entry
	badRows := 0
	for i := 1; i < len(rows); i++ {
		entry, err := rowToEntry(rows[i], columns)
		if err != nil {
			badRows++
			h.logger.WarnContext(ctx, "skipping unparseable import row",
				"sheet", sheet, "row", i+1, "error", err.Error())
			continue
		}
		entry.Source = source
		entries = append(entries, entry)
	}

	result, err := h.service.ApplySyncBatch(ctx, source, entries)
	if err != nil {
		h.logger.ErrorContext(ctx, "schedule import aborted",
			"source", source, "applied", result.Applied, "error", err.Error())
		shared.WriteError(w, err)
		return
	}
	h.logger.InfoContext(ctx, "schedule import applied",
		"source", source, "applied", result.Applied, "skipped", result.Skipped+badRows)
	shared.WriteJSON(w, http.StatusOK, ImportResponse{
		Applied: result.Applied,
		Skipped: result.Skipped + badRows,
	})
}

func mapColumns(header []string) (map[string]int, error) {
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"inmate_id", "location_id", "day_of_week", "start_time", "end_time", "activity_type"} {
		if _, ok := columns[required]; !ok {
			return nil, dErrors.Newf(dErrors.CodeBadRequest, "missing column %q", required)
		}
	}
	return columns, nil
}

func rowToEntry(row []string, columns map[string]int) (models.Entry, error) {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	day, err := strconv.Atoi(cell("day_of_week"))
	if err != nil {
		return models.Entry{}, dErrors.Newf(dErrors.CodeValidation, "invalid day_of_week %q", cell("day_of_week"))
	}
	recurring := true
	if raw := cell("is_recurring"); raw != "" {
		recurring, err = strconv.ParseBool(raw)
		if err != nil {
			return models.Entry{}, dErrors.Newf(dErrors.CodeValidation, "invalid is_recurring %q", raw)
		}
	}

	req := EntryRequest{
		InmateID:      cell("inmate_id"),
		LocationID:    cell("location_id"),
		Day:           day,
		Start:         cell("start_time"),
		End:           cell("end_time"),
		Activity:      cell("activity_type"),
		Recurring:     recurring,
		EffectiveDate: cell("effective_date"),
	}
	return req.ToEntry()
}
