// internal/app/features/editor/rows.go
package editor

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/memstore"
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// rowInput is the body of add and update.
type rowInput struct {
	Locale string `json:"locale" validate:"required,locale" label:"Locale"`
	Text   string `json:"text" validate:"required" label:"Text"`
}

type rowsResponse struct {
	Items []models.Translation `json:"items"`
	Total int                  `json:"total"`
	// Pending counts rows added since the edit was opened.
	Pending int `json:"pending"`
}

func readRow(w http.ResponseWriter, r *http.Request) (rowInput, bool) {
	var in rowInput
	if err := jsonio.Decode(w, r, &in); err != nil {
		jsonio.Error(w, http.StatusBadRequest, err.Error())
		return in, false
	}
	in.Locale = normalize.Locale(in.Locale)
	if v := inputval.Validate(in); v.HasErrors() {
		jsonio.Error(w, http.StatusUnprocessableEntity, v.First())
		return in, false
	}
	return in, true
}

func rowID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "rowId"), 10, 64)
	return id, err == nil
}

const errNoEdit = "edit not found"

// ServeRows handles GET /edits/{editId}/rows.
//
// Query: q (matches locale or text), offset, limit, sort.
func (h *Handler) ServeRows(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	q := normalize.QueryParam(r.URL.Query().Get("q"))
	offset, limit := paging.ParseWindow(r)
	compare := memstore.SortBy(paging.ParseSort(r), rowFields)

	h.access(w, r, "editor rows", func(st *uisession.State) outcome {
		e, ok := editOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		e.rows.SetFilter(memstore.ContainsFold(func(t *models.Translation) string {
			return t.Locale + " " + t.Text
		}, q))
		items := e.rows.Fetch(compare, offset, limit)
		return outcome{status: http.StatusOK, body: rowsResponse{
			Items:   snapshot(items),
			Total:   e.rows.Size(),
			Pending: len(e.rows.Added()),
		}}
	})
}

// HandleAdd handles POST /edits/{editId}/rows.
func (h *Handler) HandleAdd(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	in, ok := readRow(w, r)
	if !ok {
		return
	}

	h.access(w, r, "editor add", func(st *uisession.State) outcome {
		e, ok := editOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		if e.localeTaken(in.Locale, nil) {
			return fail(http.StatusUnprocessableEntity, "A translation for "+in.Locale+" already exists.")
		}
		t := &models.Translation{Locale: in.Locale, Text: in.Text}
		e.rows.Persist(t)
		return outcome{status: http.StatusCreated, body: snapshot([]*models.Translation{t})[0]}
	})
}

// HandleUpdate handles POST /edits/{editId}/rows/{rowId}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	id, ok := rowID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid row id")
		return
	}
	in, ok := readRow(w, r)
	if !ok {
		return
	}

	h.access(w, r, "editor update", func(st *uisession.State) outcome {
		e, ok := editOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		t, found := e.rows.Find(id)
		if !found {
			return fail(http.StatusNotFound, "row not found")
		}
		if e.localeTaken(in.Locale, t) {
			return fail(http.StatusUnprocessableEntity, "A translation for "+in.Locale+" already exists.")
		}
		t.Locale, t.Text = in.Locale, in.Text
		return outcome{status: http.StatusOK, body: snapshot([]*models.Translation{t})[0]}
	})
}

// HandleDeleteRow handles POST /edits/{editId}/rows/{rowId}/delete.
func (h *Handler) HandleDeleteRow(w http.ResponseWriter, r *http.Request) {
	editID := chi.URLParam(r, "editId")
	id, ok := rowID(r)
	if !ok {
		jsonio.Error(w, http.StatusBadRequest, "invalid row id")
		return
	}

	h.access(w, r, "editor delete", func(st *uisession.State) outcome {
		e, ok := editOf(st, editID)
		if !ok {
			return fail(http.StatusNotFound, errNoEdit)
		}
		t, found := e.rows.Find(id)
		if !found || !e.rows.Delete(t) {
			return fail(http.StatusNotFound, "row not found")
		}
		return outcome{status: http.StatusNoContent}
	})
}
