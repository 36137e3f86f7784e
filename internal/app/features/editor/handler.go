// internal/app/features/editor/handler.go
package editor

import (
	"cmp"
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/memstore"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"go.uber.org/zap"
)

// editKeyPrefix namespaces message edits among a session's open edits.
const editKeyPrefix = "message:"

// Handler edits the translations of one message at a time per edit id.
// Row changes stay in the UI session until commit sends the whole message
// back to the i18n service.
type Handler struct {
	Messages remote.Service[models.Message]
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs the translations editor.
func NewHandler(messages remote.Service[models.Message], audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Messages: messages, Audit: audit, Log: logger}
}

// edit is one open message edit. It lives in uisession.State and is only
// touched from inside Access closures.
type edit struct {
	header models.Message
	rows   *memstore.Backend[*models.Translation]
}

func newEdit(m models.Message) *edit {
	rows := memstore.New[*models.Translation](byLocale)
	rows.SetValues(models.CloneTranslations(m.Translations))
	m.Translations = nil
	return &edit{header: m, rows: rows}
}

func byLocale(a, b *models.Translation) int { return cmp.Compare(a.Locale, b.Locale) }

var rowFields = map[string]memstore.Compare[*models.Translation]{
	"locale": byLocale,
	"text":   func(a, b *models.Translation) int { return cmp.Compare(a.Text, b.Text) },
	"id": func(a, b *models.Translation) int {
		return cmp.Compare(idOf(a), idOf(b))
	},
}

func idOf(t *models.Translation) int64 {
	if t.ID == nil {
		return 0
	}
	return *t.ID
}

// snapshot copies rows so they can leave the session goroutine.
func snapshot(ts []*models.Translation) []models.Translation {
	out := make([]models.Translation, 0, len(ts))
	for _, t := range models.CloneTranslations(ts) {
		out = append(out, *t)
	}
	return out
}

// localeTaken reports whether another row already uses locale.
func (e *edit) localeTaken(locale string, except *models.Translation) bool {
	for _, t := range e.rows.Values() {
		if t != except && strings.EqualFold(t.Locale, locale) {
			return true
		}
	}
	return false
}

// outcome is what an Access closure hands back to the handler.
type outcome struct {
	status int
	body   any
}

func fail(status int, msg string) outcome {
	return outcome{status: status, body: jsonio.ErrorBody{Error: msg}}
}

func (h *Handler) access(w http.ResponseWriter, r *http.Request, op string, fn func(st *uisession.State) outcome) {
	access(w, r, h.Log, op, fn)
}

func (h *Handler) writeAccessError(w http.ResponseWriter, op string, err error) {
	writeAccessError(w, h.Log, op, err)
}

// access runs fn on the caller's UI session and writes its outcome.
func access(w http.ResponseWriter, r *http.Request, log *zap.Logger, op string, fn func(st *uisession.State) outcome) {
	s, ok := uisession.FromRequest(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), log, op)
	defer cancel()

	var out outcome
	if err := s.Access(ctx, func(st *uisession.State) { out = fn(st) }); err != nil {
		writeAccessError(w, log, op, err)
		return
	}
	if out.status == http.StatusNoContent {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	jsonio.Write(w, out.status, out.body)
}

func writeAccessError(w http.ResponseWriter, log *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, uisession.ErrSessionClosed):
		jsonio.Error(w, http.StatusGone, "ui session closed")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		jsonio.Error(w, http.StatusServiceUnavailable, "ui session busy")
	default:
		log.Error("editor access failed", zap.String("op", op), zap.Error(err))
		jsonio.Error(w, http.StatusInternalServerError, "internal error")
	}
}

func editOf(st *uisession.State, editID string) (*edit, bool) {
	v, ok := st.Edit(editKeyPrefix + editID)
	if !ok {
		return nil, false
	}
	e, ok := v.(*edit)
	return e, ok
}
