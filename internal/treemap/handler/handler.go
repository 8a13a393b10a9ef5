// Package handler exposes the status tree over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"muster/internal/occupancy"
	"muster/internal/transport/http/shared"
	"muster/internal/treemap"
	id "muster/pkg/domain"
	dErrors "muster/pkg/domain-errors"
)

// timestampLayouts are accepted for the required timestamp parameter.
// The first is the local-naive form the dashboards send.
var timestampLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC3339,
}

// Builder is the aggregator surface the handler drives.
type Builder interface {
	Build(ctx context.Context, req treemap.BuildRequest) (*treemap.Node, error)
}

// Handler serves treemap builds.
type Handler struct {
	builder Builder
	logger  *slog.Logger
}

// New constructs a treemap handler.
func New(builder Builder, logger *slog.Logger) *Handler {
	return &Handler{builder: builder, logger: logger}
}

// Register mounts treemap endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Get("/treemap", h.HandleBuild)
}

// HandleBuild handles GET /treemap?timestamp=&rollcall_ids=&include_empty=&occupancy_mode=.
func (h *Handler) HandleBuild(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := parseBuildRequest(r)
	if err != nil {
		shared.WriteError(w, err)
		return
	}

	root, err := h.builder.Build(ctx, req)
	if err != nil {
		if dErrors.CodeOf(err) == dErrors.CodeInternal {
			h.logger.ErrorContext(ctx, "treemap build failed",
				"mode", string(req.Mode), "error", err.Error())
		}
		shared.WriteError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, root)
}

func parseBuildRequest(r *http.Request) (treemap.BuildRequest, error) {
	q := r.URL.Query()

	ts, err := parseTimestamp(q.Get("timestamp"))
	if err != nil {
		return treemap.BuildRequest{}, err
	}
	mode, err := occupancy.ParseMode(q.Get("occupancy_mode"))
	if err != nil {
		return treemap.BuildRequest{}, err
	}

	includeEmpty := false
	if raw := q.Get("include_empty"); raw != "" {
		includeEmpty, err = strconv.ParseBool(raw)
		if err != nil {
			return treemap.BuildRequest{}, dErrors.Newf(dErrors.CodeValidation, "invalid include_empty %q", raw)
		}
	}

	var rollCallIDs []id.RollCallID
	if raw := q.Get("rollcall_ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			rcID, err := id.ParseRollCallID(strings.TrimSpace(part))
			if err != nil {
				return treemap.BuildRequest{}, err
			}
			rollCallIDs = append(rollCallIDs, rcID)
		}
	}

	return treemap.BuildRequest{
		RollCallIDs:  rollCallIDs,
		Timestamp:    ts,
		IncludeEmpty: includeEmpty,
		Mode:         mode,
	}, nil
}

func parseTimestamp(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, dErrors.New(dErrors.CodeValidation, "timestamp is required")
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, dErrors.Newf(dErrors.CodeValidation, "invalid timestamp %q, want ISO-8601", raw)
}
