// internal/app/features/editor/routes.go
package editor

import (
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Register adds the editor routes to the messages router (mounted at
// "/i18n/messages"). Every route needs i18n write access.
func Register(h *Handler) func(chi.Router) {
	return func(r chi.Router) {
		r.Group(func(er chi.Router) {
			er.Use(authz.Require(authz.Perm("i18n", authz.LevelWrite)))

			er.Post("/new", h.HandleNew)
			er.Post("/{id}/edit", h.HandleOpen)

			er.Route("/edits/{editId}", func(ed chi.Router) {
				ed.Get("/rows", h.ServeRows)
				ed.Post("/rows", h.HandleAdd)
				ed.Post("/rows/{rowId}", h.HandleUpdate)
				ed.Post("/rows/{rowId}/delete", h.HandleDeleteRow)
				ed.Post("/commit", h.HandleCommit)
				ed.Post("/cancel", h.HandleCancel)
			})
		})
	}
}

// RegisterGrants adds the role permissions editor to the roles router
// (mounted at "/security/roles"). Every route needs security write access.
func RegisterGrants(h *GrantsHandler) func(chi.Router) {
	return func(r chi.Router) {
		r.Group(func(gr chi.Router) {
			gr.Use(authz.Require(authz.Perm("security", authz.LevelWrite)))

			gr.Post("/{id}/permissions", h.HandleOpen)

			gr.Route("/permission-edits/{editId}", func(ed chi.Router) {
				ed.Get("/rows", h.ServeRows)
				ed.Post("/rows", h.HandleAdd)
				ed.Post("/rows/{rowId}", h.HandleUpdate)
				ed.Post("/rows/{rowId}/delete", h.HandleDeleteRow)
				ed.Post("/commit", h.HandleCommit)
				ed.Post("/cancel", h.HandleCancel)
			})
		})
	}
}
