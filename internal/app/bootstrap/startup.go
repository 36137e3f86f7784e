// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/dalemusser/adminhub/internal/app/features/mainmenu"
	"github.com/dalemusser/adminhub/internal/app/features/status"
	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/store/services"
	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/authz"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/app/system/timeouts"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// runtime holds the process-wide objects built in Startup and used by
// BuildHandler and Shutdown.
type runtime struct {
	started  time.Time
	registry *prometheus.Registry
	services *services.Set
	sessions *uisession.Registry
	roles    *authz.RoleExpander
	menu     *mainmenu.Handler
	events   *audit.Store
	audit    *auditlog.Logger
	notifier *workers.Notifier
}

var current *runtime

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built. It wires
// the service stubs, the UI session registry, the menu builder and the
// footer notice worker.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if n := timeouts.ConfigureFromEnv(); n > 0 {
		logger.Info("timeouts overridden from environment", zap.Int("count", n))
	}
	timeouts.Configure(timeouts.Config{Remote: appCfg.RemoteTimeout})

	rt, err := newRuntime(appCfg, deps, logger)
	if err != nil {
		return err
	}
	rt.notifier.Start()
	current = rt

	logger.Info("adminhub started",
		zap.Int("backends", len(rt.services.Breakers())),
		zap.String("menu_extensions", appCfg.MenuExtensionsFile))
	return nil
}

func newRuntime(appCfg AppConfig, deps DBDeps, logger *zap.Logger) (*runtime, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	metrics := remote.NewMetrics(reg)
	set := services.New(services.Config{
		I18nURL:         appCfg.I18nServiceURL,
		NotificationURL: appCfg.NotificationServiceURL,
		SecurityURL:     appCfg.SecurityServiceURL,
		ReferenceURL:    appCfg.ReferenceServiceURL,
		Timeout:         appCfg.RemoteTimeout,
		Retries:         uint64(appCfg.RemoteRetries),
		Breaker: remote.BreakerConfig{
			FailureThreshold: appCfg.BreakerFailureThreshold,
			OpenTimeout:      appCfg.BreakerOpenTimeout,
		},
	}, metrics, logger)

	builder := menu.NewBuilder(menu.DefaultSections()...)
	if appCfg.MenuExtensionsFile != "" {
		exts, err := menu.LoadExtensions(appCfg.MenuExtensionsFile)
		if err != nil {
			return nil, fmt.Errorf("menu extensions: %w", err)
		}
		menu.Apply(builder, exts)
		logger.Info("menu extensions loaded", zap.Int("count", len(exts)))
	}

	var events *audit.Store
	if deps.AdminHubMongoDatabase != nil {
		events = audit.New(deps.AdminHubMongoDatabase)
	}
	auditLogger := auditlog.New(events, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	sessions := uisession.NewRegistry(logger)
	status.RegisterCollectors(reg, sessions)

	breakers := set.Breakers()
	notifier := workers.NewNotifier(sessions, breakerNotices(breakers), logger,
		appCfg.FooterNoticeInterval, appCfg.UISessionIdleTimeout)

	return &runtime{
		started:  time.Now(),
		registry: reg,
		services: set,
		sessions: sessions,
		roles:    authz.NewRoleExpander(set.Roles, appCfg.RoleCacheTTL),
		menu:     mainmenu.NewHandler(builder, auditLogger, logger),
		events:   events,
		audit:    auditLogger,
		notifier: notifier,
	}, nil
}

// breakerNotices reports every backend whose breaker is not closed.
func breakerNotices(breakers []*remote.Breaker) workers.NoticeSource {
	return func(now time.Time) []string {
		var out []string
		for _, b := range breakers {
			switch b.State() {
			case remote.BreakerOpen:
				out = append(out, fmt.Sprintf("The %s service is unavailable; changes cannot be saved.", b.Name()))
			case remote.BreakerHalfOpen:
				out = append(out, fmt.Sprintf("The %s service is recovering.", b.Name()))
			}
		}
		return out
	}
}
