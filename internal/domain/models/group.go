// internal/domain/models/group.go
package models

// Group bundles users and grants them roles.
type Group struct {
	ID          *int64   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required,max=100" label:"Name"`
	Description string   `json:"description,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Active      bool     `json:"active"`
}

func (g Group) EntityID() *int64 { return g.ID }
func (g Group) Label() string    { return g.Name }

// Role is a named set of permissions.
type Role struct {
	ID          *int64   `json:"id,omitempty"`
	Name        string   `json:"name" validate:"required,max=100" label:"Name"`
	Description string   `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	Active      bool     `json:"active"`
}

func (r Role) EntityID() *int64 { return r.ID }
func (r Role) Label() string    { return r.Name }
