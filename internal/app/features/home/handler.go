package home

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"go.uber.org/zap"
)

// Handler holds dependencies needed to serve the landing document.
type Handler struct {
	Name string
	Log  *zap.Logger
}

func NewHandler(name string, logger *zap.Logger) *Handler {
	return &Handler{
		Name: name,
		Log:  logger,
	}
}

type landing struct {
	App      string            `json:"app"`
	SignedIn bool              `json:"signedIn"`
	User     string            `json:"user,omitempty"`
	Locale   string            `json:"locale,omitempty"`
	Links    map[string]string `json:"links"`
}

/*─────────────────────────────────────────────────────────────────────────────*
| GET / – landing                                                             |
*─────────────────────────────────────────────────────────────────────────────*/

// ServeRoot tells a client where to go next: the login form when signed out,
// the menu and profile when signed in.
func (h *Handler) ServeRoot(w http.ResponseWriter, r *http.Request) {
	data := landing{App: h.Name, Links: map[string]string{"health": "/health"}}

	if u, ok := auth.CurrentUser(r); ok {
		data.SignedIn = true
		data.User = u.Name
		data.Locale = u.Locale
		data.Links["menu"] = "/menu"
		data.Links["notices"] = "/notices"
		data.Links["profile"] = "/profile"
		data.Links["logout"] = "/logout"
	} else {
		data.Links["login"] = "/login"
	}

	jsonio.Write(w, http.StatusOK, data)
}
