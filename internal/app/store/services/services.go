// Package services binds the console to the platform services it
// administers. Each backend (i18n, notification, security, reference) gets
// one HTTP client and one circuit breaker shared by its resources; a
// backend without a configured URL is served by the fallback stubs only.
package services

import (
	"context"
	"net/http"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"go.uber.org/zap"
)

// Backend names, used for breakers, metrics and health output.
const (
	BackendI18n         = "i18n"
	BackendNotification = "notification"
	BackendSecurity     = "security"
	BackendReference    = "reference"
)

// Config holds the service endpoints and the resilience settings.
type Config struct {
	I18nURL         string
	NotificationURL string
	SecurityURL     string
	ReferenceURL    string

	Timeout time.Duration
	Retries uint64
	Breaker remote.BreakerConfig
}

// Set is the collection of typed service stubs used by the features.
type Set struct {
	Messages       remote.Service[models.Message]
	MailTemplates  remote.Service[models.MailTemplate]
	SmsTemplates   remote.Service[models.SmsTemplate]
	Users          remote.Service[models.User]
	DirectoryUsers remote.Service[models.DirectoryUser]
	Roles          remote.Service[models.Role]
	Groups         remote.Service[models.Group]
	Countries      remote.Service[models.Country]

	Security *Security

	breakers []*remote.Breaker
}

type backend struct {
	name    string
	client  *remote.Client
	breaker *remote.Breaker
}

// New builds the service set.
func New(cfg Config, metrics *remote.Metrics, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Set{}

	mk := func(name, url string) *backend {
		b := &backend{name: name, breaker: remote.NewBreaker(name, cfg.Breaker)}
		if url != "" {
			b.client = remote.NewClient(url,
				remote.WithTimeout(cfg.Timeout),
				remote.WithRetries(cfg.Retries),
				remote.WithLogger(logger.With(zap.String("service", name))))
		} else {
			logger.Warn("service url not configured; using fallback", zap.String("service", name))
		}
		s.breakers = append(s.breakers, b.breaker)
		return b
	}

	i18n := mk(BackendI18n, cfg.I18nURL)
	notif := mk(BackendNotification, cfg.NotificationURL)
	sec := mk(BackendSecurity, cfg.SecurityURL)
	ref := mk(BackendReference, cfg.ReferenceURL)

	s.Messages = bind[models.Message](i18n, "messages", metrics, logger)
	s.MailTemplates = SanitizeMail(bind[models.MailTemplate](notif, "mail-templates", metrics, logger))
	s.SmsTemplates = bind[models.SmsTemplate](notif, "sms-templates", metrics, logger)
	s.Users = bind[models.User](sec, "users", metrics, logger)
	s.DirectoryUsers = bind[models.DirectoryUser](sec, "directory-users", metrics, logger)
	s.Roles = bind[models.Role](sec, "roles", metrics, logger)
	s.Groups = bind[models.Group](sec, "groups", metrics, logger)
	s.Countries = bind[models.Country](ref, "countries", metrics, logger)
	s.Security = &Security{client: sec.client, breaker: sec.breaker, metrics: metrics, log: logger}

	return s
}

// Breakers returns one breaker per backend, in a stable order.
func (s *Set) Breakers() []*remote.Breaker {
	return append([]*remote.Breaker(nil), s.breakers...)
}

func bind[T any](b *backend, resource string, metrics *remote.Metrics, logger *zap.Logger) remote.Service[T] {
	var primary remote.Service[T] = remote.FallbackService[T]{}
	if b.client != nil {
		primary = remote.NewHTTPService[T](b.client, resource, logger)
	}
	return remote.NewGuarded[T](b.name, primary, nil, b.breaker, metrics, logger)
}

// Security is the authentication endpoint of the security service.
type Security struct {
	client  *remote.Client
	breaker *remote.Breaker
	metrics *remote.Metrics
	log     *zap.Logger
}

// Authenticate checks credentials and returns the user with its effective
// permissions. A rejected login is a failed Result carrying the reason.
func (s *Security) Authenticate(ctx context.Context, username, password string) paging.Result[models.User] {
	if s == nil || s.client == nil {
		return paging.Unreachable[models.User]()
	}
	creds := models.Credentials{Username: username, Password: password}
	return remote.Guard(s.breaker, s.metrics, BackendSecurity, "authenticate", func() paging.Result[models.User] {
		return remote.Call[models.User](ctx, s.client, s.log, http.MethodPost, "/auth/authenticate", creds, false)
	})
}
