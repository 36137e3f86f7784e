// internal/app/features/heartbeat/handler.go
package heartbeat

import (
	"context"
	"errors"
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"go.uber.org/zap"
)

// MenuRebuilder installs a fresh menu in a UI session.
type MenuRebuilder interface {
	Rebuild(ctx context.Context, s *uisession.Session, u *auth.SessionUser) (int, error)
}

// Handler handles heartbeat requests that keep a UI session alive.
type Handler struct {
	Menu MenuRebuilder
	Log  *zap.Logger
}

// NewHandler creates a new heartbeat handler.
func NewHandler(mb MenuRebuilder, logger *zap.Logger) *Handler {
	return &Handler{
		Menu: mb,
		Log:  logger,
	}
}

type heartbeatResponse struct {
	SessionID      string `json:"sessionId"`
	PendingNotices int    `json:"pendingNotices"`
	MenuEntries    int    `json:"menuEntries"`
	Restored       bool   `json:"restored"`
}

// ServeHeartbeat handles POST /heartbeat.
// Submitting work to the session refreshes its idle clock. A session that
// was expired and reopened by the middleware comes back with an empty menu,
// which is rebuilt here.
func (h *Handler) ServeHeartbeat(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	s, hasSession := uisession.FromRequest(r)
	if !ok || !hasSession {
		jsonio.Error(w, http.StatusUnauthorized, "no ui session")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "heartbeat")
	defer cancel()

	var resp heartbeatResponse
	err := s.Access(ctx, func(st *uisession.State) {
		resp.PendingNotices = st.PendingNotices()
		resp.MenuEntries = st.Menu.Len()
	})
	if err != nil {
		h.writeAccessError(w, err)
		return
	}
	resp.SessionID = s.ID()

	if resp.MenuEntries == 0 && h.Menu != nil {
		n, err := h.Menu.Rebuild(ctx, s, u)
		if err != nil {
			h.writeAccessError(w, err)
			return
		}
		resp.MenuEntries = n
		resp.Restored = true
		h.Log.Info("ui session restored by heartbeat",
			zap.String("user_id", u.ID),
			zap.String("session_id", s.ID()))
	}

	jsonio.Write(w, http.StatusOK, resp)
}

func (h *Handler) writeAccessError(w http.ResponseWriter, err error) {
	if errors.Is(err, uisession.ErrSessionClosed) {
		jsonio.Error(w, http.StatusGone, "ui session closed")
		return
	}
	h.Log.Warn("heartbeat failed", zap.Error(err))
	jsonio.Error(w, http.StatusServiceUnavailable, "ui session busy")
}
