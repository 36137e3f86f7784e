// internal/app/features/editor/commit.go
package editor

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// headerInput is the commit body: the message fields edited next to the rows.
type headerInput struct {
	Key         string `json:"key"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// HandleCommit handles POST /edits/{editId}/commit. The message is saved
// with every row; rows added in this edit go out without an id so the
// service assigns one. On failure the edit stays open.
func (h *Handler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	var in headerInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		jsonio.Error(w, http.StatusBadRequest, err.Error())
		return
	}

	s, ok := uisession.FromRequest(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "editor commit")
	defer cancel()

	var (
		msg   models.Message
		found bool
	)
	err := s.Access(ctx, func(st *uisession.State) {
		e, ok := editOf(st, editID)
		if !ok {
			return
		}
		found = true
		msg = e.header
		rows := e.rows.Values()
		msg.Translations = models.CloneTranslations(rows)
		for i, t := range rows {
			if e.rows.IsNew(t) {
				msg.Translations[i].ID = nil
			}
		}
	})
	if err != nil {
		h.writeAccessError(w, "editor commit", err)
		return
	}
	if !found {
		jsonio.Error(w, http.StatusNotFound, errNoEdit)
		return
	}

	msg.Key = normalize.Key(in.Key)
	msg.Description = normalize.Name(in.Description)
	msg.Active = in.Active
	if v := inputval.Validate(msg); v.HasErrors() {
		jsonio.Error(w, http.StatusUnprocessableEntity, v.First())
		return
	}

	target := auditlog.Target{Service: "i18n", Entity: "message", EntityID: msg.ID, Label: msg.Key}
	res := h.Messages.Save(ctx, msg)
	saved, ok := res.Value()
	if !ok {
		reason := res.Message
		if reason == "" {
			reason = "save returned no data"
		}
		h.Log.Warn("message commit failed", zap.String("key", msg.Key), zap.String("message", reason))
		h.Audit.RowsCommitted(ctx, r, target, len(msg.Translations), reason)
		jsonio.Error(w, http.StatusUnprocessableEntity, reason)
		return
	}

	if err := s.Access(ctx, func(st *uisession.State) { st.DropEdit(editKeyPrefix + editID) }); err != nil {
		h.Log.Warn("edit not dropped after commit", zap.String("edit_id", editID), zap.Error(err))
	}
	target.EntityID = saved.ID
	h.Audit.RowsCommitted(ctx, r, target, len(saved.Translations), "")
	jsonio.Write(w, http.StatusOK, saved)
}

// HandleCancel handles POST /edits/{editId}/cancel and discards the rows.
func (h *Handler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	h.access(w, r, "editor cancel", func(st *uisession.State) outcome {
		if _, ok := editOf(st, editID); !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		st.DropEdit(editKeyPrefix + editID)
		return outcome{status: http.StatusNoContent}
	})
}
