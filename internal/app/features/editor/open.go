// internal/app/features/editor/open.go
package editor

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// openResponse describes a freshly opened edit.
type openResponse struct {
	EditID  string               `json:"editId"`
	Message models.Message       `json:"message"`
	Rows    []models.Translation `json:"rows"`
}

// HandleOpen handles POST /{id}/edit: load the message and seed its rows.
func (h *Handler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonio.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, "message load")
	res := h.Messages.Get(ctx, id)
	cancel()

	if !res.Success {
		h.Log.Warn("message load failed", zap.Int64("id", id), zap.String("message", res.Message))
		status := http.StatusBadGateway
		if res.Message == paging.CannotConnect {
			status = http.StatusServiceUnavailable
		}
		jsonio.Error(w, status, res.Message)
		return
	}
	msg, found := res.Value()
	if !found {
		jsonio.Error(w, http.StatusNotFound, "message not found")
		return
	}
	h.open(w, r, msg)
}

// HandleNew handles POST /new: open an edit for a message not yet saved.
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	h.open(w, r, models.Message{Active: true})
}

func (h *Handler) open(w http.ResponseWriter, r *http.Request, msg models.Message) {
	editID := uuid.NewString()
	h.access(w, r, "editor open", func(st *uisession.State) outcome {
		e := newEdit(msg)
		st.PutEdit(editKeyPrefix+editID, e)
		return outcome{status: http.StatusCreated, body: openResponse{
			EditID:  editID,
			Message: e.header,
			Rows:    snapshot(e.rows.Values()),
		}}
	})
}
