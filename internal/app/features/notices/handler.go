// internal/app/features/notices/handler.go
package notices

import (
	"errors"
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Handler hands queued footer notices to the page that polls for them.
type Handler struct {
	Log *zap.Logger
}

func NewHandler(logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Log: logger}
}

// ServeNotices handles GET /notices. Each notice is returned once.
func (h *Handler) ServeNotices(w http.ResponseWriter, r *http.Request) {
	s, ok := uisession.FromRequest(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "notices drain")
	defer cancel()

	var out []uisession.Notice
	if err := s.Access(ctx, func(st *uisession.State) { out = st.DrainNotices() }); err != nil {
		if errors.Is(err, uisession.ErrSessionClosed) {
			jsonio.Error(w, http.StatusGone, "ui session closed")
			return
		}
		jsonio.Error(w, http.StatusServiceUnavailable, "ui session busy")
		return
	}
	if out == nil {
		out = []uisession.Notice{}
	}
	jsonio.Write(w, http.StatusOK, map[string]any{"notices": out})
}

// Routes returns a subrouter mounted under /notices.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeNotices)
	return r
}
