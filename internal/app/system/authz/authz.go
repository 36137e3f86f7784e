// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
)

// RoleAdmin is granted every permission.
const RoleAdmin = "admin"

// Permission levels. A permission is "<section>.<level>", for example
// "i18n.read" or "security.write".
const (
	LevelRead  = "read"
	LevelWrite = "write"
)

// Perm builds the permission string for a section and level.
func Perm(section, level string) string { return section + "." + level }

// ViewPermission returns the permission that opens a view. Views are named
// "<section>.<screen>" and need read access to their section.
func ViewPermission(view string) string {
	section, _, _ := strings.Cut(view, ".")
	return Perm(section, LevelRead)
}

// Checker answers permission questions for one user. It implements
// menu.AccessChecker.
type Checker struct {
	admin bool
	perms map[string]bool
}

// ForUser returns the checker of u. A nil user is granted nothing.
func ForUser(u *auth.SessionUser) Checker {
	c := Checker{perms: map[string]bool{}}
	if u == nil {
		return c
	}
	c.admin = u.HasRole(RoleAdmin)
	for _, p := range u.Permissions {
		c.perms[p] = true
	}
	return c
}

// Can reports whether the user holds perm. Write access implies read.
func (c Checker) Can(perm string) bool {
	if c.admin || c.perms[perm] {
		return true
	}
	if section, level, ok := strings.Cut(perm, "."); ok && level == LevelRead {
		return c.perms[Perm(section, LevelWrite)]
	}
	return false
}

// IsAccessGranted implements menu.AccessChecker.
func (c Checker) IsAccessGranted(view string) bool {
	return c.Can(ViewPermission(view))
}

var _ menu.AccessChecker = Checker{}

// FromRequest returns the checker of the signed-in user.
func FromRequest(r *http.Request) Checker {
	u, _ := auth.CurrentUser(r)
	return ForUser(u)
}

// CanRead reports whether the current user may read section.
func CanRead(r *http.Request, section string) bool {
	return FromRequest(r).Can(Perm(section, LevelRead))
}

// CanWrite reports whether the current user may change section.
func CanWrite(r *http.Request, section string) bool {
	return FromRequest(r).Can(Perm(section, LevelWrite))
}

// MenuUser is the menu builder's view of u.
func MenuUser(u *auth.SessionUser) menu.User {
	if u == nil {
		return menu.User{}
	}
	return menu.User{ID: u.ID, Name: u.Name, Locale: u.Locale}
}

// Require allows the request through only when the signed-in user holds
// perm under Checker.Can rules. Anonymous requests get 401.
func Require(perm string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := auth.CurrentUser(r)
			if !ok {
				jsonio.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if !ForUser(u).Can(perm) {
				jsonio.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
