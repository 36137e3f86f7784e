// internal/app/features/status/routes.go
package status

import (
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes returns the /monitoring/services subrouter.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Use(sm.RequireSignedIn)
	r.With(authz.Require("monitoring.read")).Get("/", h.ServeStatus)
	r.With(authz.Require("monitoring.write")).Post("/{name}/reset", h.HandleReset)
	return r
}
