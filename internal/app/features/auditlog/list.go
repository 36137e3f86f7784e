// internal/app/features/auditlog/list.go
package auditlog

import (
	"errors"
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listResponse struct {
	Items []audit.Event `json:"items"`
	Total int64         `json:"total"`
	Range paging.Range  `json:"range"`
}

// ServeList handles GET /monitoring/audit. Failed events are the inactive
// rows; inactive=false hides them.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log list")
	defer cancel()

	filterText, showInactive := paging.ParseFilter(r)
	offset, limit := paging.ParseWindow(r)

	page := h.provider.FetchPage(ctx, filterText, showInactive, paging.ParseSort(r), offset, limit)
	jsonio.Write(w, http.StatusOK, listResponse{
		Items: page.Content,
		Total: page.TotalElements,
		Range: paging.ComputeRange(offset, limit, len(page.Content), page.TotalElements),
	})
}

// ServeCount handles GET /monitoring/audit/count.
func (h *Handler) ServeCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "audit log count")
	defer cancel()

	filterText, showInactive := paging.ParseFilter(r)
	jsonio.Write(w, http.StatusOK, map[string]int64{"total": h.provider.CountMatching(ctx, filterText, showInactive)})
}

// ServeEvent handles GET /monitoring/audit/{id}.
func (h *Handler) ServeEvent(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		jsonio.Error(w, http.StatusBadRequest, "bad id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "audit event get")
	defer cancel()

	e, err := h.Events.Get(ctx, id)
	switch {
	case errors.Is(err, audit.ErrNotFound):
		jsonio.Error(w, http.StatusNotFound, "not found")
	case err != nil:
		h.Log.Error("audit event get failed", zap.Error(err))
		jsonio.Error(w, http.StatusInternalServerError, "database error")
	default:
		jsonio.Write(w, http.StatusOK, e)
	}
}
