// internal/app/bootstrap/routes.go
package bootstrap

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	auditlogfeature "github.com/dalemusser/adminhub/internal/app/features/auditlog"
	"github.com/dalemusser/adminhub/internal/app/features/crud"
	"github.com/dalemusser/adminhub/internal/app/features/editor"
	errorsfeature "github.com/dalemusser/adminhub/internal/app/features/errors"
	healthfeature "github.com/dalemusser/adminhub/internal/app/features/health"
	heartbeatfeature "github.com/dalemusser/adminhub/internal/app/features/heartbeat"
	homefeature "github.com/dalemusser/adminhub/internal/app/features/home"
	loginfeature "github.com/dalemusser/adminhub/internal/app/features/login"
	logoutfeature "github.com/dalemusser/adminhub/internal/app/features/logout"
	"github.com/dalemusser/adminhub/internal/app/features/mainmenu"
	noticesfeature "github.com/dalemusser/adminhub/internal/app/features/notices"
	profilefeature "github.com/dalemusser/adminhub/internal/app/features/profile"
	statusfeature "github.com/dalemusser/adminhub/internal/app/features/status"
	"github.com/dalemusser/adminhub/internal/app/store/services"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/ratelimit"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// AdminHub applies the login cookie and UI session middleware, then mounts
// the public endpoints, the per-session endpoints (menu, notices, profile)
// and one master/detail screen per administered collection.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	rt := current
	if rt == nil {
		return nil, fmt.Errorf("BuildHandler called before Startup")
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, appCfg.SessionMaxAge, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	errorsHandler := errorsfeature.NewHandler()

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in,
	// then attaches that login's UI session.
	r.Use(sessionMgr.LoadSessionUser)
	r.Use(rt.sessions.Middleware(identify))

	r.NotFound(errorsHandler.NotFound)
	r.MethodNotAllowed(errorsHandler.MethodNotAllowed)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.AdminHubMongoClient, rt.services.Breakers(), logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	statusHandler := statusfeature.NewHandler(rt.services.Breakers(), rt.sessions, rt.registry,
		configGroups(coreCfg, appCfg), rt.started, logger)
	r.Handle("/metrics", statusHandler.ServeMetrics())

	homeHandler := homefeature.NewHandler(appName, logger)
	r.Mount("/", homefeature.Routes(homeHandler))

	// Authentication
	loginHandler := loginfeature.NewHandler(rt.services.Security, rt.roles, sessionMgr, rt.sessions, rt.menu, rt.audit, logger)
	loginHandler.Limiter = ratelimit.NewLoginLimiter(appCfg.LoginIPLimit, time.Minute, appCfg.LoginUserLimit, 5*time.Minute)
	r.Mount("/login", loginfeature.Routes(loginHandler))

	logoutHandler := logoutfeature.NewHandler(sessionMgr, rt.sessions, rt.audit, logger)
	r.Mount("/logout", logoutfeature.Routes(logoutHandler, sessionMgr))

	// Error pages
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/unauthorized", errorsHandler.Unauthorized)

	// Per-session endpoints
	profileHandler := profilefeature.NewHandler(sessionMgr, rt.menu, rt.audit, logger)
	r.Mount("/profile", profilefeature.Routes(profileHandler, sessionMgr))
	r.With(sessionMgr.RequireSignedIn).Post("/locale", profileHandler.HandleLocale)

	r.Mount("/menu", mainmenu.Routes(rt.menu, sessionMgr))
	r.Mount("/notices", noticesfeature.Routes(noticesfeature.NewHandler(logger), sessionMgr))
	r.Mount("/heartbeat", heartbeatfeature.Routes(heartbeatfeature.NewHandler(rt.menu, logger), sessionMgr))

	// Monitoring
	r.Mount("/monitoring/services", statusfeature.Routes(statusHandler, sessionMgr))
	if rt.events != nil {
		auditHandler := auditlogfeature.NewHandler(rt.events, logger)
		r.Mount("/monitoring/audit", auditlogfeature.Routes(auditHandler, sessionMgr))
	}

	mountScreens(r, rt.services, appCfg, sessionMgr, rt, logger)

	return r, nil
}

// mountScreens mounts one master/detail screen per administered collection.
func mountScreens(r chi.Router, set *services.Set, appCfg AppConfig, sm *auth.SessionManager, rt *runtime, logger *zap.Logger) {
	byName := []paging.SortOrder{paging.Asc("name")}

	// Internationalization
	messages := crud.NewHandler(crud.Config[models.Message]{
		Backend: services.BackendI18n, Entity: "message", Section: menu.SectionI18n,
		Service: set.Messages, DefaultSort: []paging.SortOrder{paging.Asc("key")},
		Normalize: normalizeMessage,
	}, rt.audit, logger)
	editorHandler := editor.NewHandler(set.Messages, rt.audit, logger)
	r.Mount("/i18n/messages", crud.Routes(messages, sm, editor.Register(editorHandler)))

	// Reference data
	countries := crud.NewHandler(crud.Config[models.Country]{
		Backend: services.BackendReference, Entity: "country", Section: menu.SectionReference,
		Service: set.Countries, DefaultSort: []paging.SortOrder{paging.Asc("code")},
		Normalize: normalizeCountry,
	}, rt.audit, logger)
	r.Mount("/reference/countries", crud.Routes(countries, sm))

	// Notifications
	mail := crud.NewHandler(crud.Config[models.MailTemplate]{
		Backend: services.BackendNotification, Entity: "mail-template", Section: menu.SectionNotifications,
		Service: set.MailTemplates, DefaultSort: byName,
		Normalize: normalizeMailTemplate,
	}, rt.audit, logger)
	r.Mount("/notifications/mail", crud.Routes(mail, sm))

	sms := crud.NewHandler(crud.Config[models.SmsTemplate]{
		Backend: services.BackendNotification, Entity: "sms-template", Section: menu.SectionNotifications,
		Service: set.SmsTemplates, DefaultSort: byName,
		Normalize: normalizeSmsTemplate,
	}, rt.audit, logger)
	r.Mount("/notifications/sms", crud.Routes(sms, sm))

	// Security
	users := crud.NewHandler(crud.Config[models.User]{
		Backend: services.BackendSecurity, Entity: "user", Section: menu.SectionSecurity,
		Service: set.Users, DefaultSort: []paging.SortOrder{paging.Asc("username")},
		Normalize: normalizeUser,
	}, rt.audit, logger)
	r.Mount("/security/users", crud.Routes(users, sm))

	directory := crud.NewHandler(crud.Config[models.DirectoryUser]{
		Backend: services.BackendSecurity, Entity: "directory-user", Section: menu.SectionSecurity,
		Service: set.DirectoryUsers, DefaultSort: []paging.SortOrder{paging.Asc("username")},
		GuardShortFilter: true, AllowEmptyFilter: appCfg.DirectoryAllowEmptyFilter,
		ReadOnly: true,
	}, rt.audit, logger)
	r.Mount("/security/directory", crud.Routes(directory, sm))

	roles := crud.NewHandler(crud.Config[models.Role]{
		Backend: services.BackendSecurity, Entity: "role", Section: menu.SectionSecurity,
		Service: set.Roles, DefaultSort: byName,
		Normalize: normalizeRole,
	}, rt.audit, logger)
	grants := editor.NewGrantsHandler(set.Roles, rt.audit, logger)
	// Saved roles change what other logins expand to.
	r.Mount("/security/roles", crud.Routes(roles, sm, forgetRolesOnWrite(rt.roles), editor.RegisterGrants(grants)))

	groups := crud.NewHandler(crud.Config[models.Group]{
		Backend: services.BackendSecurity, Entity: "group", Section: menu.SectionSecurity,
		Service: set.Groups, DefaultSort: byName,
		Normalize: normalizeGroup,
	}, rt.audit, logger)
	r.Mount("/security/groups", crud.Routes(groups, sm))
}

// forgetRolesOnWrite flushes the role cache after any write to the roles screen.
func forgetRolesOnWrite(roles *authz.RoleExpander) func(chi.Router) {
	return func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req)
				if req.Method != http.MethodGet {
					roles.Forget()
				}
			})
		})
	}
}

// identify maps the signed-in user to its UI session.
var identify uisession.Identify = func(r *http.Request) (string, menu.User, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok || u.UISessionID == "" {
		return "", menu.User{}, false
	}
	return u.UISessionID, authz.MenuUser(u), true
}

// configGroups lists the non-secret settings shown on the status screen.
func configGroups(coreCfg *config.CoreConfig, appCfg AppConfig) []statusfeature.ConfigGroup {
	orFallback := func(s string) string {
		if s == "" {
			return "(fallback)"
		}
		return s
	}
	return []statusfeature.ConfigGroup{
		{Name: "Server", Items: []statusfeature.ConfigItem{
			{Name: "env", Value: coreCfg.Env},
			{Name: "mongo_database", Value: appCfg.MongoDatabase},
			{Name: "session_max_age", Value: appCfg.SessionMaxAge.String()},
		}},
		{Name: "Services", Items: []statusfeature.ConfigItem{
			{Name: services.BackendI18n, Value: orFallback(appCfg.I18nServiceURL)},
			{Name: services.BackendNotification, Value: orFallback(appCfg.NotificationServiceURL)},
			{Name: services.BackendSecurity, Value: orFallback(appCfg.SecurityServiceURL)},
			{Name: services.BackendReference, Value: orFallback(appCfg.ReferenceServiceURL)},
		}},
		{Name: "Resilience", Items: []statusfeature.ConfigItem{
			{Name: "remote_timeout", Value: appCfg.RemoteTimeout.String()},
			{Name: "remote_retries", Value: strconv.Itoa(appCfg.RemoteRetries)},
			{Name: "breaker_failure_threshold", Value: strconv.Itoa(appCfg.BreakerFailureThreshold)},
			{Name: "breaker_open_timeout", Value: appCfg.BreakerOpenTimeout.String()},
		}},
		{Name: "UI", Items: []statusfeature.ConfigItem{
			{Name: "footer_notice_interval", Value: appCfg.FooterNoticeInterval.String()},
			{Name: "ui_session_idle_timeout", Value: appCfg.UISessionIdleTimeout.String()},
			{Name: "menu_extensions_file", Value: appCfg.MenuExtensionsFile},
		}},
	}
}
