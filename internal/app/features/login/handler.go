// internal/app/features/login/handler.go
package login

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/urlutil"
	"go.uber.org/zap"
)

// Authenticator checks credentials against the security service.
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) paging.Result[models.User]
}

// PermissionExpander resolves role names to permissions.
type PermissionExpander interface {
	Permissions(ctx context.Context, roleNames []string, extra ...string) []string
}

// MenuRebuilder installs a fresh menu in a UI session.
type MenuRebuilder interface {
	Rebuild(ctx context.Context, s *uisession.Session, u *auth.SessionUser) (int, error)
}

// Throttle limits login attempts. Check records an attempt.
type Throttle interface {
	Check(r *http.Request, username string) (bool, string)
	Succeeded(username string)
}

type Handler struct {
	Auth       Authenticator
	Roles      PermissionExpander
	SessionMgr *auth.SessionManager
	Sessions   *uisession.Registry
	Menu       MenuRebuilder
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	// Limiter is optional; nil disables throttling.
	Limiter Throttle
}

func NewHandler(
	authn Authenticator,
	roles PermissionExpander,
	sessionMgr *auth.SessionManager,
	sessions *uisession.Registry,
	mb MenuRebuilder,
	audit *auditlog.Logger,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Auth:       authn,
		Roles:      roles,
		SessionMgr: sessionMgr,
		Sessions:   sessions,
		Menu:       mb,
		AuditLog:   audit,
		Log:        logger,
	}
}

type loginResponse struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Locale      string   `json:"locale"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
	MenuEntries int      `json:"menuEntries"`
	Redirect    string   `json:"redirect"`
}

// HandleLoginPost handles POST /login. It accepts a form or query with
// username, password and an optional return path. Browsers are redirected;
// API callers get the signed-in user as JSON.
func (h *Handler) HandleLoginPost(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		jsonio.Error(w, http.StatusBadRequest, "bad request")
		return
	}
	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	returnURL := strings.TrimSpace(r.FormValue("return"))

	if username == "" || password == "" {
		jsonio.Error(w, http.StatusBadRequest, "Username and password are required.")
		return
	}

	if h.Limiter != nil {
		if ok, reason := h.Limiter.Check(r, username); !ok {
			h.AuditLog.LoginFailed(r.Context(), r, username, "rate limited")
			jsonio.Error(w, http.StatusTooManyRequests, reason)
			return
		}
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Remote(), h.Log, "authenticate")
	defer cancel()

	res := h.Auth.Authenticate(ctx, username, password)
	if !res.Success || res.Data == nil {
		if res.Message == paging.CannotConnect {
			h.Log.Warn("login: security service unreachable", zap.String("username", username))
			h.AuditLog.LoginFailed(ctx, r, username, "security service unreachable")
			jsonio.Error(w, http.StatusServiceUnavailable, paging.CannotConnect)
			return
		}
		reason := res.Message
		if reason == "" {
			reason = "invalid credentials"
		}
		h.AuditLog.LoginFailed(ctx, r, username, reason)
		jsonio.Error(w, http.StatusUnauthorized, "Invalid username or password.")
		return
	}
	u := res.Data
	if !u.Active {
		h.AuditLog.LoginFailed(ctx, r, username, "account disabled")
		jsonio.Error(w, http.StatusForbidden, "This account is disabled.")
		return
	}

	// A second login from the same browser replaces the old UI session.
	if prev, ok := auth.CurrentUser(r); ok && prev.UISessionID != "" {
		h.Sessions.Remove(prev.UISessionID)
	}

	var id string
	if u.ID != nil {
		id = strconv.FormatInt(*u.ID, 10)
	}
	name := u.FullName
	if name == "" {
		name = u.Username
	}
	su := &auth.SessionUser{
		ID:          id,
		Name:        name,
		Username:    u.Username,
		Locale:      normalize.Locale(u.Locale),
		Roles:       u.Roles,
		Permissions: h.Roles.Permissions(ctx, u.Roles, u.Permissions...),
	}

	s := h.Sessions.Create(menu.User{ID: su.ID, Name: su.Name, Locale: su.Locale})
	su.UISessionID = s.ID()

	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Sessions.Remove(s.ID())
		h.Log.Error("login: save session", zap.Error(err))
		jsonio.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	entries, err := h.Menu.Rebuild(ctx, s, su)
	if err != nil {
		// The menu is rebuilt lazily on the first GET /menu.
		h.Log.Warn("login: menu build failed", zap.String("user_id", su.ID), zap.Error(err))
	}

	if h.Limiter != nil {
		h.Limiter.Succeeded(username)
	}
	h.AuditLog.LoginSuccess(ctx, r, su.ID, su.Username)

	dest := urlutil.SafeReturn(returnURL, "", "/")
	if wantsHTML(r) {
		http.Redirect(w, r, dest, http.StatusSeeOther)
		return
	}
	jsonio.Write(w, http.StatusOK, loginResponse{
		ID:          su.ID,
		Name:        su.Name,
		Username:    su.Username,
		Locale:      su.Locale,
		Roles:       nonNil(su.Roles),
		Permissions: nonNil(su.Permissions),
		MenuEntries: entries,
		Redirect:    dest,
	})
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func wantsHTML(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "text/html")
}
