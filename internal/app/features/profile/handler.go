// internal/app/features/profile/handler.go
package profile

import (
	"context"

	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"go.uber.org/zap"
)

// MenuRebuilder installs a fresh menu in a UI session.
type MenuRebuilder interface {
	Rebuild(ctx context.Context, s *uisession.Session, u *auth.SessionUser) (int, error)
}

// Handler owns the signed-in user's profile and locale handlers.
type Handler struct {
	SessionMgr *auth.SessionManager
	Menu       MenuRebuilder
	AuditLog   *auditlog.Logger
	Log        *zap.Logger
}

// NewHandler constructs a Handler.
func NewHandler(sessionMgr *auth.SessionManager, mb MenuRebuilder, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		SessionMgr: sessionMgr,
		Menu:       mb,
		AuditLog:   audit,
		Log:        logger,
	}
}
