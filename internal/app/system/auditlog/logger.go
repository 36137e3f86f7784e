// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// Config holds audit logging configuration.
type Config struct {
	// Auth controls logging for authentication events (login, logout, locale).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Auth string
	// Admin controls logging for console writes (saves, deletes, editor commits).
	// Values: "all" (MongoDB + zap), "db" (MongoDB only), "log" (zap only), "off" (disabled)
	Admin string
}

// Logger provides convenience methods for logging audit events.
// It logs to both MongoDB (via audit.Store) and structured logs (via zap).
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger. store may be nil when only zap output is wanted.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{
		store:  store,
		zapLog: zapLog,
		config: config,
	}
}

// Target identifies the entity an admin event touched.
type Target struct {
	Service  string
	Entity   string
	EntityID *int64
	Label    string
}

func (t Target) id() string {
	if t.EntityID == nil {
		return ""
	}
	return strconv.FormatInt(*t.EntityID, 10)
}

// getClientIP extracts the client IP from the request.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For header first (for reverse proxies)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return xff
	}
	// Check X-Real-IP header
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	// Fall back to RemoteAddr
	return r.RemoteAddr
}

// logToZap logs the event to zap with consistent structure.
func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
		zap.String("ip", event.IP),
	}

	if event.Actor != "" {
		fields = append(fields, zap.String("actor", event.Actor))
	}
	if event.Service != "" {
		fields = append(fields, zap.String("service", event.Service))
	}
	if event.Entity != "" {
		fields = append(fields, zap.String("entity", event.Entity))
	}
	if event.EntityID != "" {
		fields = append(fields, zap.String("entity_id", event.EntityID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event based on configuration.
// If the logger is nil, this is a no-op (allows tests to use nil audit logger).
// Logging destination is controlled by config: "all", "db", "log", or "off".
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	var setting string
	switch event.Category {
	case audit.CategoryAuth:
		setting = l.config.Auth
	case audit.CategoryAdmin:
		setting = l.config.Admin
	default:
		setting = "all"
	}

	if setting == "off" {
		return
	}

	if setting == "all" || setting == "log" {
		l.logToZap(event)
	}

	if (setting == "all" || setting == "db") && l.store != nil {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType),
			)
		}
	}
}

// base fills the request context fields and the signed-in actor, if any.
func base(r *http.Request, category, eventType string) audit.Event {
	e := audit.Event{
		Category:  category,
		EventType: eventType,
		IP:        getClientIP(r),
		UserAgent: r.UserAgent(),
		Success:   true,
	}
	if u, ok := auth.CurrentUser(r); ok {
		e.ActorID = u.ID
		e.Actor = u.Username
	}
	return e
}

// --- Authentication Events ---

// LoginSuccess logs a successful login. The user is not yet in the request
// context, so the identity is passed explicitly.
func (l *Logger) LoginSuccess(ctx context.Context, r *http.Request, userID, username string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginSuccess)
	e.ActorID = userID
	e.Actor = username
	l.Log(ctx, e)
}

// LoginFailed logs a rejected or failed login attempt.
func (l *Logger) LoginFailed(ctx context.Context, r *http.Request, username, reason string) {
	e := base(r, audit.CategoryAuth, audit.EventLoginFailed)
	e.Actor = username
	e.Success = false
	e.FailureReason = reason
	l.Log(ctx, e)
}

// Logout logs a user logout.
func (l *Logger) Logout(ctx context.Context, r *http.Request) {
	l.Log(ctx, base(r, audit.CategoryAuth, audit.EventLogout))
}

// LocaleChanged logs a locale switch.
func (l *Logger) LocaleChanged(ctx context.Context, r *http.Request, from, to string) {
	e := base(r, audit.CategoryAuth, audit.EventLocaleChange)
	e.Details = map[string]string{"from": from, "to": to}
	l.Log(ctx, e)
}

// --- Admin Events ---

func (l *Logger) admin(r *http.Request, eventType string, t Target) audit.Event {
	e := base(r, audit.CategoryAdmin, eventType)
	e.Service = t.Service
	e.Entity = t.Entity
	e.EntityID = t.id()
	e.Label = t.Label
	return e
}

// EntitySaved logs a successful save.
func (l *Logger) EntitySaved(ctx context.Context, r *http.Request, t Target) {
	l.Log(ctx, l.admin(r, audit.EventEntitySaved, t))
}

// SaveFailed logs a save the service rejected or could not receive.
func (l *Logger) SaveFailed(ctx context.Context, r *http.Request, t Target, reason string) {
	e := l.admin(r, audit.EventEntitySaved, t)
	e.Success = false
	e.FailureReason = reason
	l.Log(ctx, e)
}

// EntityDeleted logs a delete; reason is empty on success.
func (l *Logger) EntityDeleted(ctx context.Context, r *http.Request, t Target, reason string) {
	e := l.admin(r, audit.EventEntityDeleted, t)
	if reason != "" {
		e.Success = false
		e.FailureReason = reason
	}
	l.Log(ctx, e)
}

// RowsCommitted logs an editor commit of a parent and its detail rows.
func (l *Logger) RowsCommitted(ctx context.Context, r *http.Request, t Target, rows int, reason string) {
	e := l.admin(r, audit.EventRowsCommitted, t)
	e.Details = map[string]string{"rows": strconv.Itoa(rows)}
	if reason != "" {
		e.Success = false
		e.FailureReason = reason
	}
	l.Log(ctx, e)
}

// MenuRebuilt logs an explicit menu rebuild.
func (l *Logger) MenuRebuilt(ctx context.Context, r *http.Request, entries int) {
	e := base(r, audit.CategoryAdmin, audit.EventMenuRebuilt)
	e.Details = map[string]string{"entries": strconv.Itoa(entries)}
	l.Log(ctx, e)
}
