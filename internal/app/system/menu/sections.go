// internal/app/system/menu/sections.go
package menu

// Top-level section keys. Extensions address these with Builder.Extend.
const (
	SectionI18n          = "i18n"
	SectionReference     = "reference"
	SectionNotifications = "notifications"
	SectionSecurity      = "security"
	SectionMonitoring    = "monitoring"
)

// View targets. Each names one screen; authz maps them to permissions.
const (
	ViewMessages       = "i18n.messages"
	ViewCountries      = "reference.countries"
	ViewMailTemplates  = "notifications.mail"
	ViewSmsTemplates   = "notifications.sms"
	ViewUsers          = "security.users"
	ViewDirectoryUsers = "security.directory"
	ViewRoles          = "security.roles"
	ViewGroups         = "security.groups"
	ViewServiceStatus  = "monitoring.services"
	ViewMetrics        = "monitoring.metrics"
	ViewAuditLog       = "monitoring.audit"
)

// DefaultSections returns the console's built-in sections.
func DefaultSections() []Item {
	return []Item{
		{
			PageKey: SectionI18n, Title: "Internationalization", Icon: "globe",
			Children: []Item{
				{PageKey: "i18n-messages", Title: "Messages", Icon: "comment", Target: ViewMessages, Path: "/i18n/messages"},
			},
		},
		{
			PageKey: SectionReference, Title: "Reference data", Icon: "book",
			Children: []Item{
				{PageKey: "reference-countries", Title: "Countries", Icon: "flag", Target: ViewCountries, Path: "/reference/countries"},
			},
		},
		{
			PageKey: SectionNotifications, Title: "Notifications", Icon: "bell",
			Children: []Item{
				{PageKey: "notifications-mail", Title: "Mail templates", Icon: "envelope", Target: ViewMailTemplates, Path: "/notifications/mail"},
				{PageKey: "notifications-sms", Title: "SMS templates", Icon: "mobile", Target: ViewSmsTemplates, Path: "/notifications/sms"},
			},
		},
		{
			PageKey: SectionSecurity, Title: "Security", Icon: "lock",
			Children: []Item{
				{PageKey: "security-users", Title: "Users", Icon: "user", Target: ViewUsers, Path: "/security/users"},
				{PageKey: "security-directory", Title: "Directory lookup", Icon: "address-book", Target: ViewDirectoryUsers, Path: "/security/directory"},
				{PageKey: "security-roles", Title: "Roles", Icon: "key", Target: ViewRoles, Path: "/security/roles"},
				{PageKey: "security-groups", Title: "Groups", Icon: "users", Target: ViewGroups, Path: "/security/groups"},
			},
		},
		{
			PageKey: SectionMonitoring, Title: "Monitoring", Icon: "heartbeat",
			Children: []Item{
				{
					PageKey: "monitoring-dashboards", Title: "Dashboards", Icon: "dashboard",
					Children: []Item{
						{PageKey: "monitoring-services", Title: "Service status", Icon: "server", Target: ViewServiceStatus, Path: "/monitoring/services"},
						{PageKey: "monitoring-metrics", Title: "Metrics", Icon: "line-chart", Target: ViewMetrics, Path: "/metrics"},
					},
				},
				{PageKey: "monitoring-audit", Title: "Audit log", Icon: "history", Target: ViewAuditLog, Path: "/monitoring/audit"},
			},
		},
	}
}
