// internal/app/system/authz/roles.go
package authz

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/patrickmn/go-cache"
)

// RoleExpander resolves role names to permissions through the security
// service. Resolved roles are cached for ttl; lookups that fail are not.
type RoleExpander struct {
	roles remote.Service[models.Role]
	cache *cache.Cache
}

// NewRoleExpander returns an expander over the roles service.
func NewRoleExpander(roles remote.Service[models.Role], ttl time.Duration) *RoleExpander {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &RoleExpander{roles: roles, cache: cache.New(ttl, 2*ttl)}
}

// Permissions returns the sorted union of the permissions of roleNames and
// extra. Unknown roles contribute nothing.
func (e *RoleExpander) Permissions(ctx context.Context, roleNames []string, extra ...string) []string {
	set := make(map[string]struct{})
	for _, p := range extra {
		set[p] = struct{}{}
	}
	for _, name := range roleNames {
		for _, p := range e.lookup(ctx, name) {
			set[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Forget drops every cached role, for example after a role was edited.
func (e *RoleExpander) Forget() { e.cache.Flush() }

func (e *RoleExpander) lookup(ctx context.Context, name string) []string {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return nil
	}
	if v, ok := e.cache.Get(key); ok {
		return v.([]string)
	}

	q := paging.NewQuery(paging.Ptr(name), paging.Ptr(false), []paging.SortOrder{paging.Asc("name")}, 0, 50)
	page, ok := e.roles.Find(ctx, q).Value()
	if !ok {
		return nil
	}
	perms := []string{}
	for _, r := range page.Content {
		if strings.EqualFold(r.Name, name) {
			perms = append(perms, r.Permissions...)
			break
		}
	}
	e.cache.SetDefault(key, perms)
	return perms
}
