// internal/app/features/auditlog/types.go
package auditlog

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
)

// categoryOption represents a category for the filter dropdown.
type categoryOption struct {
	Value      string   `json:"value"`
	Label      string   `json:"label"`
	EventTypes []string `json:"eventTypes"`
}

// allCategories returns the categories and their event types.
func allCategories() []categoryOption {
	return []categoryOption{
		{Value: audit.CategoryAuth, Label: "Authentication", EventTypes: eventTypesForCategory(audit.CategoryAuth)},
		{Value: audit.CategoryAdmin, Label: "Administration", EventTypes: eventTypesForCategory(audit.CategoryAdmin)},
	}
}

// eventTypesForCategory returns the event types for a given category.
// If category is empty, returns all event types.
func eventTypesForCategory(category string) []string {
	authEvents := []string{
		audit.EventLoginSuccess,
		audit.EventLoginFailed,
		audit.EventLogout,
		audit.EventLocaleChange,
	}
	adminEvents := []string{
		audit.EventEntitySaved,
		audit.EventEntityDeleted,
		audit.EventRowsCommitted,
		audit.EventMenuRebuilt,
	}

	switch category {
	case audit.CategoryAuth:
		return authEvents
	case audit.CategoryAdmin:
		return adminEvents
	case "":
		all := make([]string, 0, len(authEvents)+len(adminEvents))
		all = append(all, authEvents...)
		return append(all, adminEvents...)
	default:
		return nil
	}
}

// ServeCategories handles GET /monitoring/audit/categories.
func (h *Handler) ServeCategories(w http.ResponseWriter, r *http.Request) {
	jsonio.Write(w, http.StatusOK, allCategories())
}
