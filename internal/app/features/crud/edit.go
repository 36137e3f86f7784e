// internal/app/features/crud/edit.go
package crud

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// readFailureStatus maps a failed read to a status: unreachable services
// are 503, anything else the service rejected is 502.
func readFailureStatus(msg string) int {
	if msg == paging.CannotConnect {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}

// ServeGet handles GET /{id}.
func (h *Handler[T]) ServeGet(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, h.cfg.Entity+" get")
	defer cancel()

	res := h.cfg.Service.Get(ctx, id)
	if !res.Success {
		h.Log.Warn("get failed", zap.Int64("id", id), zap.String("message", res.Message))
		jsonio.Error(w, readFailureStatus(res.Message), res.Message)
		return
	}
	item, found := res.Value()
	if !found {
		jsonio.Error(w, http.StatusNotFound, h.cfg.Entity+" not found")
		return
	}
	jsonio.Write(w, http.StatusOK, item)
}

// HandleSave handles POST / with the entity as the JSON body. A new entity
// has no id. On failure nothing changes locally and the service message is
// returned with 422.
func (h *Handler[T]) HandleSave(w http.ResponseWriter, r *http.Request) {
	var item T
	if err := jsonio.Decode(w, r, &item); err != nil {
		jsonio.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if h.cfg.Normalize != nil {
		h.cfg.Normalize(&item)
	}
	if v := inputval.Validate(item); v.HasErrors() {
		jsonio.Write(w, http.StatusUnprocessableEntity, validationBody{Error: v.First(), Fields: v.Errors})
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, h.cfg.Entity+" save")
	defer cancel()

	res := h.cfg.Service.Save(ctx, item)
	saved, ok := res.Value()
	if !ok {
		msg := res.Message
		if msg == "" {
			msg = "save returned no data"
		}
		h.Log.Warn("save failed", zap.String("label", item.Label()), zap.String("message", msg))
		h.Audit.SaveFailed(ctx, r, h.target(item), msg)
		jsonio.Error(w, http.StatusUnprocessableEntity, msg)
		return
	}

	h.Audit.EntitySaved(ctx, r, h.target(saved))
	jsonio.Write(w, http.StatusOK, saved)
}

// HandleDelete handles POST /{id}/delete.
func (h *Handler[T]) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, h.cfg.Entity+" delete")
	defer cancel()

	target := h.targetByID(id)
	res := h.cfg.Service.Delete(ctx, id)
	if !res.Success {
		h.Log.Warn("delete failed", zap.Int64("id", id), zap.String("message", res.Message))
		h.Audit.EntityDeleted(ctx, r, target, res.Message)
		jsonio.Error(w, http.StatusUnprocessableEntity, res.Message)
		return
	}
	if deleted, _ := res.Value(); !deleted {
		jsonio.Error(w, http.StatusNotFound, h.cfg.Entity+" not found")
		return
	}

	h.Audit.EntityDeleted(ctx, r, target, "")
	jsonio.Write(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *Handler[T]) targetByID(id int64) auditlog.Target {
	return auditlog.Target{Service: h.cfg.Backend, Entity: h.cfg.Entity, EntityID: &id}
}

type validationBody struct {
	Error  string                `json:"error"`
	Fields []inputval.FieldError `json:"fields"`
}
