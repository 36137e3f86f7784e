// internal/app/bootstrap/normalize.go
package bootstrap

import (
	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/adminhub/internal/domain/models"
)

// Per-screen normalizers run before validation on every save.

func normalizeMessage(m *models.Message) {
	m.Key = normalize.Key(m.Key)
	m.Description = normalize.Name(m.Description)
	for _, t := range m.Translations {
		if t != nil {
			t.Locale = normalize.Locale(t.Locale)
		}
	}
}

func normalizeCountry(c *models.Country) {
	c.Code = normalize.CountryCode(c.Code)
	c.Name = normalize.Name(c.Name)
}

func normalizeMailTemplate(t *models.MailTemplate) {
	t.Name = normalize.Key(t.Name)
	t.Locale = normalize.Locale(t.Locale)
	t.Subject = normalize.Name(t.Subject)
}

func normalizeSmsTemplate(t *models.SmsTemplate) {
	t.Name = normalize.Key(t.Name)
	t.Locale = normalize.Locale(t.Locale)
}

func normalizeUser(u *models.User) {
	u.Username = normalize.Key(u.Username)
	u.FullName = normalize.Name(u.FullName)
	u.Email = normalize.Email(u.Email)
	u.Locale = normalize.Locale(u.Locale)
	u.Roles = normalizeRoles(u.Roles)
	// Effective permissions are computed by the security service.
	u.Permissions = nil
}

func normalizeRole(r *models.Role) {
	r.Name = normalize.Role(r.Name)
	r.Description = normalize.Name(r.Description)
}

func normalizeGroup(g *models.Group) {
	g.Name = normalize.Name(g.Name)
	g.Description = normalize.Name(g.Description)
	g.Roles = normalizeRoles(g.Roles)
}

// normalizeRoles canonicalizes role names, dropping blanks and duplicates.
func normalizeRoles(in []string) []string {
	if len(in) == 0 {
		return in
	}
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, r := range in {
		r = normalize.Role(r)
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	return out
}
