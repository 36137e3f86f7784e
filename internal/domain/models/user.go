// internal/domain/models/user.go
package models

// User is a console or platform account managed by the security service.
//
// NOTE:
//   - Roles and Groups hold names, not ids.
//   - Permissions is only filled in by Authenticate and is the effective
//     set after role expansion.
type User struct {
	ID          *int64   `json:"id,omitempty"`
	Username    string   `json:"username" validate:"required,max=64" label:"Username"`
	FullName    string   `json:"fullName" validate:"max=200" label:"Full name"`
	Email       string   `json:"email" validate:"required,email" label:"Email"`
	Locale      string   `json:"locale,omitempty" validate:"omitempty,locale" label:"Locale"`
	Active      bool     `json:"active"`
	Roles       []string `json:"roles,omitempty"`
	Groups      []string `json:"groups,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

func (u User) EntityID() *int64 { return u.ID }
func (u User) Label() string    { return u.Username }

// DirectoryUser is an account found in the external directory. Directory
// lookups require a filter of at least three characters.
type DirectoryUser struct {
	ID       *int64 `json:"id,omitempty"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Source   string `json:"source"`
}

func (d DirectoryUser) EntityID() *int64 { return d.ID }
func (d DirectoryUser) Label() string    { return d.Username }

// Credentials is the Authenticate request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
