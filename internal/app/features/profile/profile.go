// internal/app/features/profile/profile.go
package profile

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"go.uber.org/zap"
)

type profileData struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Username    string   `json:"username"`
	Locale      string   `json:"locale"`
	Roles       []string `json:"roles"`
	Permissions []string `json:"permissions"`
}

type localeInput struct {
	Locale string `validate:"required,locale" label:"Locale"`
}

// ServeProfile returns the signed-in user as held by the login cookie.
func (h *Handler) ServeProfile(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	jsonio.Write(w, http.StatusOK, profileData{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Locale:      u.Locale,
		Roles:       orEmpty(u.Roles),
		Permissions: orEmpty(u.Permissions),
	})
}

// HandleLocale handles POST /locale. The new locale is written to the
// cookie and the menu is rebuilt so its titles follow the switch.
func (h *Handler) HandleLocale(w http.ResponseWriter, r *http.Request) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		jsonio.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if err := r.ParseForm(); err != nil {
		jsonio.Error(w, http.StatusBadRequest, "bad request")
		return
	}

	in := localeInput{Locale: normalize.Locale(r.FormValue("locale"))}
	if res := inputval.Validate(in); res.HasErrors() {
		jsonio.Error(w, http.StatusUnprocessableEntity, res.First())
		return
	}

	prev := u.Locale
	if err := h.SessionMgr.UpdateLocale(w, r, in.Locale); err != nil {
		h.Log.Error("locale: save session", zap.Error(err))
		jsonio.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	updated := *u
	updated.Locale = in.Locale

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "locale menu rebuild")
	defer cancel()

	entries := 0
	if s, ok := uisession.FromRequest(r); ok {
		n, err := h.Menu.Rebuild(ctx, s, &updated)
		if err != nil {
			h.Log.Warn("locale: menu rebuild failed", zap.String("user_id", u.ID), zap.Error(err))
		}
		entries = n
	}

	if prev != in.Locale {
		h.AuditLog.LocaleChanged(ctx, r, prev, in.Locale)
	}

	jsonio.Write(w, http.StatusOK, map[string]any{
		"locale":      in.Locale,
		"menuEntries": entries,
	})
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
