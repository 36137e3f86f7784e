// internal/app/system/uisession/registry.go
package uisession

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Registry tracks the live sessions by id.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	log      *zap.Logger
	now      func() time.Time
}

// NewRegistry returns an empty registry.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{
		sessions: make(map[string]*Session),
		log:      logger,
		now:      time.Now,
	}
}

// Create opens a session with a fresh uuid.
func (reg *Registry) Create(user menu.User) *Session {
	return reg.Ensure(uuid.NewString(), user)
}

// Ensure returns the session stored under id, opening it when absent (for
// example after a restart, when the cookie outlives the process).
func (reg *Registry) Ensure(id string, user menu.User) *Session {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if s, ok := reg.sessions[id]; ok {
		return s
	}
	s := newSession(id, user, reg.now)
	reg.sessions[id] = s
	reg.log.Debug("ui session opened", zap.String("session_id", id), zap.String("user_id", user.ID))
	return s
}

// Get looks up a session.
func (reg *Registry) Get(id string) (*Session, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	s, ok := reg.sessions[id]
	return s, ok
}

// Remove closes and forgets a session.
func (reg *Registry) Remove(id string) {
	reg.mu.Lock()
	s, ok := reg.sessions[id]
	delete(reg.sessions, id)
	reg.mu.Unlock()
	if ok {
		s.Close()
		reg.log.Debug("ui session closed", zap.String("session_id", id))
	}
}

// Len returns the number of live sessions.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.sessions)
}

// Sessions returns a snapshot of the live sessions.
func (reg *Registry) Sessions() []*Session {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	out := make([]*Session, 0, len(reg.sessions))
	for _, s := range reg.sessions {
		out = append(out, s)
	}
	return out
}

// Broadcast queues fn on every live session and returns how many accepted
// it. Saturated sessions are skipped.
func (reg *Registry) Broadcast(fn func(*State)) int {
	n := 0
	for _, s := range reg.Sessions() {
		if err := s.AccessAsync(fn); err != nil {
			reg.log.Debug("broadcast skipped session", zap.String("session_id", s.ID()), zap.Error(err))
			continue
		}
		n++
	}
	return n
}

// ExpireIdle closes sessions not seen within maxIdle and returns the count.
func (reg *Registry) ExpireIdle(maxIdle time.Duration) int64 {
	cutoff := reg.now().Add(-maxIdle)
	var stale []string
	for _, s := range reg.Sessions() {
		if s.LastSeen().Before(cutoff) {
			stale = append(stale, s.ID())
		}
	}
	for _, id := range stale {
		reg.Remove(id)
	}
	return int64(len(stale))
}

// CloseAll closes every session. Used on shutdown.
func (reg *Registry) CloseAll() {
	reg.mu.Lock()
	all := reg.sessions
	reg.sessions = make(map[string]*Session)
	reg.mu.Unlock()
	for _, s := range all {
		s.Close()
	}
}

type ctxKey struct{}

// WithSession stores s in the request context.
func WithSession(r *http.Request, s *Session) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), ctxKey{}, s))
}

// FromRequest returns the session attached by WithSession.
func FromRequest(r *http.Request) (*Session, bool) {
	s, ok := r.Context().Value(ctxKey{}).(*Session)
	return s, ok && s != nil
}

// Identify extracts the UI session id and menu user of a request. ok is
// false for anonymous requests.
type Identify func(r *http.Request) (id string, user menu.User, ok bool)

// Middleware attaches the caller's session to the request context, opening
// it when needed. Anonymous requests pass through untouched.
func (reg *Registry) Middleware(identify Identify) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if id, user, ok := identify(r); ok && id != "" {
				r = WithSession(r, reg.Ensure(id, user))
			}
			next.ServeHTTP(w, r)
		})
	}
}
