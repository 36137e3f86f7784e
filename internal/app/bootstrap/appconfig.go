// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). They represent *app-level*
// configuration, not WAFFLE core configuration.
//
// WAFFLE's CoreConfig handles framework-level settings like ports, TLS,
// logging level and request limits. AppConfig carries everything specific
// to the console: its own database, the login cookie, the platform service
// endpoints it administers, and the resilience settings used to call them.
type AppConfig struct {
	// MongoDB connection configuration (the console's own audit store)
	MongoURI         string // MongoDB connection string (e.g., mongodb://localhost:27017)
	MongoDatabase    string // Database name within MongoDB
	MongoMaxPoolSize uint64 // Maximum connections in pool (default: 100)
	MongoMinPoolSize uint64 // Minimum connections to keep warm (default: 10)

	// Session management configuration
	SessionKey    string        // Secret key for signing session cookies (must be strong in production)
	SessionName   string        // Cookie name for sessions (default: adminhub-session)
	SessionDomain string        // Cookie domain (blank means current host)
	SessionMaxAge time.Duration // Login cookie lifetime

	// Platform service endpoints. A blank URL serves that backend from the
	// fallback stubs only.
	I18nServiceURL         string
	NotificationServiceURL string
	SecurityServiceURL     string
	ReferenceServiceURL    string

	// Remote call resilience
	RemoteTimeout           time.Duration // Per-attempt HTTP timeout
	RemoteRetries           int           // Retries for idempotent reads
	BreakerFailureThreshold int           // Consecutive unreachable results that open a breaker
	BreakerOpenTimeout      time.Duration // Time an open breaker waits before probing
	RoleCacheTTL            time.Duration // Role -> permission cache lifetime

	// Login throttling (0 disables a check)
	LoginIPLimit   int // Attempts per client IP per minute
	LoginUserLimit int // Attempts per username per five minutes

	// UI sessions and menu
	MenuExtensionsFile   string        // Optional YAML file with extra menu items
	FooterNoticeInterval time.Duration // How often footer notices are pushed
	UISessionIdleTimeout time.Duration // Idle UI sessions are closed after this

	// Screens
	DirectoryAllowEmptyFilter bool // Let the directory lookup list everything on a blank filter

	// Audit logging
	AuditLogAuth  string // 'all', 'db', 'log' or 'off'
	AuditLogAdmin string // 'all', 'db', 'log' or 'off'
}
