// internal/app/features/editor/grants.go
package editor

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/memstore"
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const grantKeyPrefix = "role-grants:"

// GrantsHandler edits the permission list of one role. Permissions carry
// no identity of their own, so rows are keyed by temporary ids until the
// whole list goes back to the security service with the role.
type GrantsHandler struct {
	Roles remote.Service[models.Role]
	Audit *auditlog.Logger
	Log   *zap.Logger
}

// NewGrantsHandler constructs the role permissions editor.
func NewGrantsHandler(roles remote.Service[models.Role], audit *auditlog.Logger, logger *zap.Logger) *GrantsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GrantsHandler{Roles: roles, Audit: audit, Log: logger}
}

type grantEdit struct {
	role models.Role
	rows *memstore.FreeBackend[string]
}

func newGrantEdit(role models.Role) *grantEdit {
	rows := memstore.NewFree(strings.Compare)
	rows.SetValues(slices.Clone(role.Permissions))
	role.Permissions = nil
	return &grantEdit{role: role, rows: rows}
}

// taken reports whether a row other than except already grants perm.
func (e *grantEdit) taken(perm string, except int64) bool {
	for _, row := range e.rows.Rows() {
		if row.TempID != except && row.Item == perm {
			return true
		}
	}
	return false
}

func grantEditOf(st *uisession.State, editID string) (*grantEdit, bool) {
	v, ok := st.Edit(grantKeyPrefix + editID)
	if !ok {
		return nil, false
	}
	e, ok := v.(*grantEdit)
	return e, ok
}

var grantFields = map[string]memstore.Compare[string]{
	"permission": strings.Compare,
}

type grantInput struct {
	Permission string `json:"permission" validate:"required,permission" label:"Permission"`
}

func readGrant(w http.ResponseWriter, r *http.Request) (string, bool) {
	var in grantInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		jsonio.Error(w, http.StatusBadRequest, err.Error())
		return "", false
	}
	in.Permission = strings.ToLower(strings.TrimSpace(in.Permission))
	if v := inputval.Validate(in); v.HasErrors() {
		jsonio.Error(w, http.StatusUnprocessableEntity, v.First())
		return "", false
	}
	return in.Permission, true
}

type grantsResponse struct {
	EditID string                 `json:"editId,omitempty"`
	Role   *models.Role           `json:"role,omitempty"`
	Items  []memstore.Row[string] `json:"items"`
	Total  int                    `json:"total"`
}

// HandleOpen handles POST /{id}/permissions: load the role and seed one row
// per permission.
func (h *GrantsHandler) HandleOpen(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		jsonio.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, "role load")
	res := h.Roles.Get(ctx, id)
	cancel()

	if !res.Success {
		h.Log.Warn("role load failed", zap.Int64("id", id), zap.String("message", res.Message))
		status := http.StatusBadGateway
		if res.Message == paging.CannotConnect {
			status = http.StatusServiceUnavailable
		}
		jsonio.Error(w, status, res.Message)
		return
	}
	role, found := res.Value()
	if !found {
		jsonio.Error(w, http.StatusNotFound, "role not found")
		return
	}

	editID := uuid.NewString()
	access(w, r, h.Log, "grants open", func(st *uisession.State) outcome {
		e := newGrantEdit(role)
		st.PutEdit(grantKeyPrefix+editID, e)
		rows := e.rows.Rows()
		return outcome{status: http.StatusCreated, body: grantsResponse{
			EditID: editID,
			Role:   &e.role,
			Items:  rows,
			Total:  len(rows),
		}}
	})
}

// ServeRows handles GET /permission-edits/{editId}/rows.
//
// Query: q (substring of the permission), offset, limit, sort.
func (h *GrantsHandler) ServeRows(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	q := normalize.QueryParam(r.URL.Query().Get("q"))
	offset, limit := paging.ParseWindow(r)
	compare := memstore.SortBy(paging.ParseSort(r), grantFields)

	access(w, r, h.Log, "grants rows", func(st *uisession.State) outcome {
		e, ok := grantEditOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		e.rows.SetFilter(memstore.ContainsFold(func(p string) string { return p }, q))
		return outcome{status: http.StatusOK, body: grantsResponse{
			Items: e.rows.Fetch(compare, offset, limit),
			Total: e.rows.Size(),
		}}
	})
}

// HandleAdd handles POST /permission-edits/{editId}/rows.
func (h *GrantsHandler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	perm, ok := readGrant(w, r)
	if !ok {
		return
	}

	access(w, r, h.Log, "grants add", func(st *uisession.State) outcome {
		e, ok := grantEditOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		if e.taken(perm, 0) {
			return fail(http.StatusUnprocessableEntity, "The role already grants "+perm+".")
		}
		id := e.rows.Persist(perm)
		return outcome{status: http.StatusCreated, body: memstore.Row[string]{TempID: id, Item: perm}}
	})
}

// HandleUpdate handles POST /permission-edits/{editId}/rows/{rowId}.
func (h *GrantsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	id, ok := rowID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid row id")
		return
	}
	perm, ok := readGrant(w, r)
	if !ok {
		return
	}

	access(w, r, h.Log, "grants update", func(st *uisession.State) outcome {
		e, ok := grantEditOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		if _, found := e.rows.Get(id); !found {
			return fail(http.StatusNotFound, "row not found")
		}
		if e.taken(perm, id) {
			return fail(http.StatusUnprocessableEntity, "The role already grants "+perm+".")
		}
		e.rows.Update(id, perm)
		return outcome{status: http.StatusOK, body: memstore.Row[string]{TempID: id, Item: perm}}
	})
}

// HandleDeleteRow handles POST /permission-edits/{editId}/rows/{rowId}/delete.
// The row leaves the working set only; the role is untouched until commit.
func (h *GrantsHandler) HandleDeleteRow(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	id, ok := rowID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid row id")
		return
	}

	access(w, r, h.Log, "grants delete", func(st *uisession.State) outcome {
		e, ok := grantEditOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		if !e.rows.Delete(id) {
			return fail(http.StatusNotFound, "row not found")
		}
		return outcome{status: http.StatusNoContent}
	})
}

// HandleCommit handles POST /permission-edits/{editId}/commit. The role is
// saved with the rows as its permission list. On failure the edit stays
// open.
func (h *GrantsHandler) HandleCommit(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	s, ok := uisession.FromRequest(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "grants commit")
	defer cancel()

	var (
		role  models.Role
		found bool
	)
	err := s.Access(ctx, func(st *uisession.State) {
		e, ok := grantEditOf(st, editID)
		if !ok {
			return
		}
		found = true
		role = e.role
		role.Permissions = e.rows.Values()
	})
	if err != nil {
		writeAccessError(w, h.Log, "grants commit", err)
		return
	}
	if !found {
		jsonio.Error(w, http.StatusNotFound, errNoEdit)
		return
	}
	if v := inputval.Validate(role); v.HasErrors() {
		jsonio.Error(w, http.StatusUnprocessableEntity, v.First())
		return
	}

	target := auditlog.Target{Service: "security", Entity: "role", EntityID: role.ID, Label: role.Name}
	res := h.Roles.Save(ctx, role)
	saved, ok := res.Value()
	if !ok {
		reason := res.Message
		if reason == "" {
			reason = "save returned no data"
		}
		h.Log.Warn("role permissions commit failed", zap.String("role", role.Name), zap.String("message", reason))
		h.Audit.RowsCommitted(ctx, r, target, len(role.Permissions), reason)
		jsonio.Error(w, http.StatusUnprocessableEntity, reason)
		return
	}

	if err := s.Access(ctx, func(st *uisession.State) { st.DropEdit(grantKeyPrefix + editID) }); err != nil {
		h.Log.Warn("grant edit not dropped after commit", zap.String("edit_id", editID), zap.Error(err))
	}
	h.Audit.RowsCommitted(ctx, r, target, len(saved.Permissions), "")
	jsonio.Write(w, http.StatusOK, saved)
}

// HandleCancel handles POST /permission-edits/{editId}/cancel.
func (h *GrantsHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	access(w, r, h.Log, "grants cancel", func(st *uisession.State) outcome {
		if _, ok := grantEditOf(st, editID); !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		st.DropEdit(grantKeyPrefix + editID)
		return outcome{status: http.StatusNoContent}
	})
}
