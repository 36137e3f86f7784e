// internal/app/bootstrap/config.go
package bootstrap

import (
	"fmt"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/inputval"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

// appConfigKeys defines the configuration keys for AdminHub.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: ADMINHUB_MONGO_URI, ADMINHUB_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "adminhub", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size (default: 100)"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size (default: 10)"},
	{Name: "session_key", Default: "dev-only-change-me-please-0123456789ABCDEF", Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "adminhub-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "12h", Desc: "Login cookie lifetime (e.g., 12h, 30m)"},

	// Platform services
	{Name: "i18n_service_url", Default: "", Desc: "Base URL of the i18n service (blank uses the fallback)"},
	{Name: "notification_service_url", Default: "", Desc: "Base URL of the notification service"},
	{Name: "security_service_url", Default: "", Desc: "Base URL of the security service"},
	{Name: "reference_service_url", Default: "", Desc: "Base URL of the reference data service"},

	// Remote call resilience
	{Name: "remote_timeout", Default: "5s", Desc: "Per-attempt timeout for platform service calls"},
	{Name: "remote_retries", Default: 2, Desc: "Retries for find/count/get calls"},
	{Name: "breaker_failure_threshold", Default: 5, Desc: "Consecutive unreachable results that open a circuit breaker"},
	{Name: "breaker_open_timeout", Default: "30s", Desc: "How long an open breaker waits before a probe"},
	{Name: "role_cache_ttl", Default: "5m", Desc: "Lifetime of cached role permissions"},

	// Login throttling
	{Name: "login_ip_limit", Default: 10, Desc: "Login attempts per client IP per minute (0 disables)"},
	{Name: "login_user_limit", Default: 5, Desc: "Login attempts per username per five minutes (0 disables)"},

	// UI sessions and menu
	{Name: "menu_extensions_file", Default: "", Desc: "Optional YAML file with extra menu items"},
	{Name: "footer_notice_interval", Default: "30s", Desc: "Interval between footer notice pushes"},
	{Name: "ui_session_idle_timeout", Default: "2h", Desc: "Idle UI sessions are closed after this"},

	// Screens
	{Name: "directory_allow_empty_filter", Default: false, Desc: "Let directory lookups run with a blank filter"},

	// Audit logging settings
	{Name: "audit_log_auth", Default: "all", Desc: "Auth event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, ADMINHUB_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "ADMINHUB", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 12*time.Hour),

		// Platform services
		I18nServiceURL:         appValues.String("i18n_service_url"),
		NotificationServiceURL: appValues.String("notification_service_url"),
		SecurityServiceURL:     appValues.String("security_service_url"),
		ReferenceServiceURL:    appValues.String("reference_service_url"),

		// Remote call resilience
		RemoteTimeout:           appValues.Duration("remote_timeout", 5*time.Second),
		RemoteRetries:           appValues.Int("remote_retries"),
		BreakerFailureThreshold: appValues.Int("breaker_failure_threshold"),
		BreakerOpenTimeout:      appValues.Duration("breaker_open_timeout", 30*time.Second),
		RoleCacheTTL:            appValues.Duration("role_cache_ttl", 5*time.Minute),

		// Login throttling
		LoginIPLimit:   appValues.Int("login_ip_limit"),
		LoginUserLimit: appValues.Int("login_user_limit"),

		// UI sessions and menu
		MenuExtensionsFile:   appValues.String("menu_extensions_file"),
		FooterNoticeInterval: appValues.Duration("footer_notice_interval", 30*time.Second),
		UISessionIdleTimeout: appValues.Duration("ui_session_idle_timeout", 2*time.Hour),

		DirectoryAllowEmptyFilter: appValues.Bool("directory_allow_empty_filter"),

		// Audit logging
		AuditLogAuth:  appValues.String("audit_log_auth"),
		AuditLogAdmin: appValues.String("audit_log_admin"),
	}

	return coreCfg, appCfg, nil
}

// ValidateConfig performs app-specific config validation.
//
// AdminHub validates the MongoDB URI and every configured service URL to
// catch configuration errors early, before anything is dialed.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	return validateAppConfig(appCfg)
}

// validateAppConfig holds the checks that do not need the WAFFLE layer.
func validateAppConfig(appCfg AppConfig) error {
	for name, raw := range map[string]string{
		"i18n_service_url":         appCfg.I18nServiceURL,
		"notification_service_url": appCfg.NotificationServiceURL,
		"security_service_url":     appCfg.SecurityServiceURL,
		"reference_service_url":    appCfg.ReferenceServiceURL,
	} {
		if raw == "" {
			continue
		}
		if !inputval.IsValidHTTPURL(raw) {
			return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
		}
	}

	for name, v := range map[string]string{
		"audit_log_auth":  appCfg.AuditLogAuth,
		"audit_log_admin": appCfg.AuditLogAdmin,
	} {
		switch v {
		case "all", "db", "log", "off":
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", name, v)
		}
	}

	if appCfg.BreakerFailureThreshold < 1 {
		return fmt.Errorf("breaker_failure_threshold must be at least 1")
	}
	if appCfg.RemoteRetries < 0 {
		return fmt.Errorf("remote_retries must not be negative")
	}
	return nil
}
