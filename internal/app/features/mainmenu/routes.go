// internal/app/features/mainmenu/routes.go
package mainmenu

import (
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

// Routes returns a subrouter mounted under /menu.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.Get("/", h.ServeMenu)
	r.Post("/rebuild", h.HandleRebuild)
	return r
}
