// internal/app/features/mainmenu/handler.go
package mainmenu

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"go.uber.org/zap"
)

// Handler serves the side-bar menu of the signed-in user.
type Handler struct {
	Builder *menu.Builder
	Audit   *auditlog.Logger
	Log     *zap.Logger
}

// NewHandler constructs the menu handler.
func NewHandler(b *menu.Builder, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{Builder: b, Audit: audit, Log: logger}
}

// Rebuild builds a fresh menu for u and installs it in s, replacing the
// previous one. It returns the number of entries.
func (h *Handler) Rebuild(ctx context.Context, s *uisession.Session, u *auth.SessionUser) (int, error) {
	mu := authz.MenuUser(u)
	data := h.Builder.Build(mu, authz.ForUser(u))
	err := s.Access(ctx, func(st *uisession.State) {
		st.User = mu
		st.Menu = data
	})
	if err != nil {
		return 0, err
	}
	return data.Len(), nil
}

type menuResponse struct {
	User  string      `json:"user"`
	Nodes []menu.Node `json:"nodes"`
}

// ServeMenu handles GET /menu. A session without a built menu (for example
// one reopened after a restart) is built on first use.
func (h *Handler) ServeMenu(w http.ResponseWriter, r *http.Request) {
	u, s, ok := h.caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "menu")
	defer cancel()

	var nodes []menu.Node
	empty := false
	if err := s.Access(ctx, func(st *uisession.State) {
		if st.Menu == nil || st.Menu.Len() == 0 {
			empty = true
			return
		}
		nodes = st.Menu.Nodes()
	}); err != nil {
		h.writeAccessError(w, err)
		return
	}

	if empty {
		if _, err := h.Rebuild(ctx, s, u); err != nil {
			h.writeAccessError(w, err)
			return
		}
		if err := s.Access(ctx, func(st *uisession.State) { nodes = st.Menu.Nodes() }); err != nil {
			h.writeAccessError(w, err)
			return
		}
	}

	if nodes == nil {
		nodes = []menu.Node{}
	}
	jsonio.Write(w, http.StatusOK, menuResponse{User: u.Name, Nodes: nodes})
}

// HandleRebuild handles POST /menu/rebuild.
func (h *Handler) HandleRebuild(w http.ResponseWriter, r *http.Request) {
	u, s, ok := h.caller(w, r)
	if !ok {
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "menu rebuild")
	defer cancel()

	n, err := h.Rebuild(ctx, s, u)
	if err != nil {
		h.writeAccessError(w, err)
		return
	}
	h.Audit.MenuRebuilt(ctx, r, n)

	var nodes []menu.Node
	if err := s.Access(ctx, func(st *uisession.State) { nodes = st.Menu.Nodes() }); err != nil {
		h.writeAccessError(w, err)
		return
	}
	if nodes == nil {
		nodes = []menu.Node{}
	}
	jsonio.Write(w, http.StatusOK, menuResponse{User: u.Name, Nodes: nodes})
}

func (h *Handler) caller(w http.ResponseWriter, r *http.Request) (*auth.SessionUser, *uisession.Session, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "unauthorized")
		return nil, nil, false
	}
	s, ok := uisession.FromRequest(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return nil, nil, false
	}
	return u, s, true
}

func (h *Handler) writeAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, uisession.ErrSessionClosed) {
		jsonio.Error(w, http.StatusGone, "ui session closed")
		return
	}
	h.Log.Warn("menu access failed", zap.Error(err))
	jsonio.Error(w, http.StatusServiceUnavailable, "ui session busy")
}
