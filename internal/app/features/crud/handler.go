// internal/app/features/crud/handler.go
package crud

import (
	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/dataprovider"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"go.uber.org/zap"
)

// Entity is the row contract of a master/detail screen.
type Entity interface {
	EntityID() *int64
	Label() string
}

// Config describes one screen bound to one remote collection.
type Config[T Entity] struct {
	// Backend and Entity name the collection in audit events and logs,
	// e.g. "i18n" and "message".
	Backend string
	Entity  string

	// Section is the permission section guarding the routes.
	Section string

	Service     remote.Service[T]
	DefaultSort []paging.SortOrder

	// GuardShortFilter turns on the external-directory guard.
	GuardShortFilter bool
	AllowEmptyFilter bool

	// ReadOnly screens only mount the read routes.
	ReadOnly bool

	// Normalize, when set, canonicalizes an item before validation.
	Normalize func(*T)
}

// Handler serves the grid and form endpoints of one screen.
type Handler[T Entity] struct {
	cfg      Config[T]
	provider *dataprovider.Provider[T]
	Audit    *auditlog.Logger
	Log      *zap.Logger
}

// NewHandler constructs a screen handler over cfg.Service.
func NewHandler[T Entity](cfg Config[T], audit *auditlog.Logger, logger *zap.Logger) *Handler[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("backend", cfg.Backend), zap.String("entity", cfg.Entity))
	p := dataprovider.New[T](cfg.Service.Find, cfg.Service.Count, dataprovider.Options[T]{
		Name:             cfg.Backend + "." + cfg.Entity,
		DefaultSort:      cfg.DefaultSort,
		GuardShortFilter: cfg.GuardShortFilter,
		AllowEmptyFilter: cfg.AllowEmptyFilter,
	}, logger)
	return &Handler[T]{cfg: cfg, provider: p, Audit: audit, Log: logger}
}

// Provider exposes the grid's data provider.
func (h *Handler[T]) Provider() *dataprovider.Provider[T] { return h.provider }

func (h *Handler[T]) target(item T) auditlog.Target {
	return auditlog.Target{Service: h.cfg.Backend, Entity: h.cfg.Entity, EntityID: item.EntityID(), Label: item.Label()}
}
