// Package handler exposes schedule entry CRUD and bulk import over
// HTTP.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"muster/internal/schedule/models"
	"muster/internal/schedule/service"
	"muster/internal/transport/http/shared"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// Service defines the schedule operations the handler needs.
type Service interface {
	Create(ctx context.Context, entry *models.Entry) error
	Update(ctx context.Context, entry *models.Entry) error
	Delete(ctx context.Context, entryID id.ScheduleEntryID) error
	Get(ctx context.Context, entryID id.ScheduleEntryID) (*models.Entry, error)
	List(ctx context.Context, inmateID id.InmateID) ([]models.Entry, error)
	ApplySyncBatch(ctx context.Context, source string, batch []models.Entry) (service.BatchResult, error)
}

// Handler wires schedule endpoints to the schedule service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a schedule handler.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts schedule endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/schedule/entries", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Post("/import", h.HandleImport)
		r.Get("/{entryID}", h.HandleGet)
		r.Put("/{entryID}", h.HandleUpdate)
		r.Delete("/{entryID}", h.HandleDelete)
	})
}

// HandleCreate handles POST /schedule/entries.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry, err := req.ToEntry()
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	if err := h.service.Create(ctx, &entry); err != nil {
		h.writeWriteError(ctx, w, "create", err)
		return
	}
	shared.WriteJSON(w, http.StatusCreated, FromEntry(entry))
}

// HandleUpdate handles PUT /schedule/entries/{entryID}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	entryID, err := id.ParseScheduleEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	req, ok := decodeEntry(w, r)
	if !ok {
		return
	}
	entry, err := req.ToEntry()
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entry.ID = entryID

	if err := h.service.Update(ctx, &entry); err != nil {
		h.writeWriteError(ctx, w, "update", err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FromEntry(entry))
}

// HandleDelete handles DELETE /schedule/entries/{entryID}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	entryID, err := id.ParseScheduleEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), entryID); err != nil {
		shared.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleGet handles GET /schedule/entries/{entryID}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	entryID, err := id.ParseScheduleEntryID(chi.URLParam(r, "entryID"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entry, err := h.service.Get(r.Context(), entryID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FromEntry(*entry))
}

// HandleList handles GET /schedule/entries?inmate_id=.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	inmateID, err := id.ParseInmateID(r.URL.Query().Get("inmate_id"))
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	entries, err := h.service.List(r.Context(), inmateID)
	if err != nil {
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, FromEntries(entries))
}

func decodeEntry(w http.ResponseWriter, r *http.Request) (EntryRequest, bool) {
	var req EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, dErrors.Wrap(err, dErrors.CodeBadRequest, "decode request body"))
		return EntryRequest{}, false
	}
	return req, true
}

// writeWriteError maps service failures onto the wire. Conflict rejects
// get a 409 carrying the blocking entries so the caller can reschedule.
func (h *Handler) writeWriteError(ctx context.Context, w http.ResponseWriter, op string, err error) {
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		shared.WriteErrorDetails(w, err, map[string]any{
			"conflicting_entries": FromEntries(ce.Conflicts),
		})
		return
	}
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, "schedule write failed", "op", op, "error", err.Error())
	}
	shared.WriteError(w, err)
}
