// internal/app/features/crud/list.go
package crud

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
)

// listResponse is one grid window.
type listResponse[T any] struct {
	Items []T          `json:"items"`
	Total int64        `json:"total"`
	Range paging.Range `json:"range"`
}

// ServeList handles GET / and returns one window of rows.
//
// Query: q, inactive, offset, limit, sort=prop,asc;prop2,desc.
// Service failures yield an empty window, never an error status.
func (h *Handler[T]) ServeList(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, h.cfg.Entity+" list")
	defer cancel()

	filterText, showInactive := paging.ParseFilter(r)
	offset, limit := paging.ParseWindow(r)
	sort := paging.ParseSort(r)

	page := h.provider.FetchPage(ctx, filterText, showInactive, sort, offset, limit)
	jsonio.Write(w, http.StatusOK, listResponse[T]{
		Items: page.Content,
		Total: page.TotalElements,
		Range: paging.ComputeRange(offset, limit, len(page.Content), page.TotalElements),
	})
}

// ServeCount handles GET /count.
func (h *Handler[T]) ServeCount(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, h.cfg.Entity+" count")
	defer cancel()

	filterText, showInactive := paging.ParseFilter(r)
	n := h.provider.CountMatching(ctx, filterText, showInactive)
	jsonio.Write(w, http.StatusOK, map[string]int64{"total": n})
}
