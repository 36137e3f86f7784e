// internal/app/features/auditlog/routes.go
package auditlog

import (
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/go-chi/chi/v5"
)

// Routes mounts all audit log routes under the path where this
// router is mounted (typically "/monitoring/audit" from bootstrap).
//
// Access requires the monitoring read permission.
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Use(authz.Require("monitoring.read"))

		pr.Get("/", h.ServeList)
		pr.Get("/count", h.ServeCount)
		pr.Get("/categories", h.ServeCategories)
		pr.Get("/{id}", h.ServeEvent)
	})

	return r
}
