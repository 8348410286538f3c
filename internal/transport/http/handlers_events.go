package httptransport

import (
	"context"
	"net/http"
	"strconv"

	"authchain/internal/eventlog"
	id "authchain/pkg/domain"
	dErrors "authchain/pkg/domain-errors"
	"authchain/pkg/platform/httputil"
)

// EventReader is the read surface of the event log.
type EventReader interface {
	List(ctx context.Context, limit int) ([]eventlog.Event, error)
	ListByProduct(ctx context.Context, code id.ProductCode) ([]eventlog.Event, error)
}

func (h *Handler) handleListEvents(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be a non-negative integer"))
			return
		}
		limit = parsed
	}

	events, err := h.events.List(r.Context(), limit)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}

func (h *Handler) handleListProductEvents(w http.ResponseWriter, r *http.Request) {
	code, err := codeParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	events, err := h.events.ListByProduct(r.Context(), code)
	if err != nil {
		httputil.WriteError(w, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list events"))
		return
	}
	httputil.WriteJSON(w, http.StatusOK, map[string]any{"events": events})
}
