// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
)

// Limiter counts requests per key in fixed windows. Expired windows are
// evicted by the cache janitor. It is safe for concurrent use.
type Limiter struct {
	counts   *cache.Cache
	limit    int
	duration time.Duration
}

// New creates a limiter allowing limit requests per key every duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		counts:   cache.New(duration, 2*duration),
		limit:    limit,
		duration: duration,
	}
}

// Allow records a request for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	if err := l.counts.Add(key, 1, l.duration); err == nil {
		return true
	}
	n, err := l.counts.IncrementInt(key, 1)
	if err != nil {
		// The window expired between Add and IncrementInt.
		l.counts.Set(key, 1, l.duration)
		return true
	}
	return n <= l.limit
}

// Remaining returns how many requests are left for key in the current window.
func (l *Limiter) Remaining(key string) int {
	v, ok := l.counts.Get(key)
	if !ok {
		return l.limit
	}
	if left := l.limit - v.(int); left > 0 {
		return left
	}
	return 0
}

// Reset clears the window for key.
func (l *Limiter) Reset(key string) {
	l.counts.Delete(key)
}

// ClientIP extracts the client IP from an HTTP request.
// It checks X-Forwarded-For and X-Real-IP headers first (for proxied requests),
// then falls back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles login attempts per client IP and per username.
type LoginLimiter struct {
	byIP   *Limiter
	byUser *Limiter
}

// NewLoginLimiter creates a login limiter. A zero limit disables that check.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration, userLimit int, userWindow time.Duration) *LoginLimiter {
	ll := &LoginLimiter{}
	if ipLimit > 0 {
		ll.byIP = New(ipLimit, ipWindow)
	}
	if userLimit > 0 {
		ll.byUser = New(userLimit, userWindow)
	}
	return ll
}

// Check records an attempt and reports whether it may proceed. reason is
// the message shown when it may not.
func (ll *LoginLimiter) Check(r *http.Request, username string) (bool, string) {
	if ll.byIP != nil && !ll.byIP.Allow(ClientIP(r)) {
		return false, "Too many login attempts. Please wait a minute before trying again."
	}
	if key := userKey(username); ll.byUser != nil && key != "" && !ll.byUser.Allow(key) {
		return false, "Too many login attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// Succeeded clears the username window after a successful login.
func (ll *LoginLimiter) Succeeded(username string) {
	if key := userKey(username); ll.byUser != nil && key != "" {
		ll.byUser.Reset(key)
	}
}

func userKey(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
