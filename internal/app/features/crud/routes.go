// internal/app/features/crud/routes.go
package crud

import (
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts a screen under the path where this router is mounted
// (for example "/i18n/messages").
//
// Reads need "<section>.read"; writes need "<section>.write". Each extra
// registers further routes on the signed-in router and applies its own
// permission checks.
func Routes[T Entity](h *Handler[T], sm *auth.SessionManager, extras ...func(chi.Router)) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)

	for _, extra := range extras {
		extra(r)
	}

	r.Group(func(rr chi.Router) {
		rr.Use(authz.Require(authz.Perm(h.cfg.Section, authz.LevelRead)))
		rr.Get("/", h.ServeList)
		rr.Get("/count", h.ServeCount)
		rr.Get("/{id}", h.ServeGet)
	})

	if !h.cfg.ReadOnly {
		r.Group(func(wr chi.Router) {
			wr.Use(authz.Require(authz.Perm(h.cfg.Section, authz.LevelWrite)))
			wr.Post("/", h.HandleSave)
			wr.Post("/{id}/delete", h.HandleDelete)
		})
	}

	return r
}
