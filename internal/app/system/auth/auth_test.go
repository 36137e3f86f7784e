package auth_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"go.uber.org/zap"
)

func newTestSessionManager(t *testing.T) *auth.SessionManager {
	t.Helper()
	sm, err := auth.NewSessionManager(
		"test-session-key-must-be-32-chars-long",
		"test-session",
		"",
		24*time.Hour,
		false,
		zap.NewNop(),
	)
	if err != nil {
		t.Fatalf("failed to create session manager: %v", err)
	}
	return sm
}

func okHandler(called *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if called != nil {
			*called = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func withTestUser(r *http.Request, roles []string, perms ...string) *http.Request {
	return auth.WithTestUser(r, &auth.SessionUser{
		ID:          "42",
		Name:        "Test User",
		Username:    "test",
		Roles:       roles,
		Permissions: perms,
	})
}

func TestNewSessionManager_EmptyKey(t *testing.T) {
	if _, err := auth.NewSessionManager("", "x", "", time.Hour, false, zap.NewNop()); err == nil {
		t.Error("expected error for empty session key")
	}
}

func TestRequireSignedIn_NoUser_RedirectsToLogin(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/protected?x=1", nil)
	req.Header.Set("Accept", "text/html")
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Errorf("expected status %d, got %d", http.StatusSeeOther, rec.Code)
	}
	if loc := rec.Header().Get("Location"); !strings.HasPrefix(loc, "/login?return=") {
		t.Errorf("expected redirect to /login, got %q", loc)
	}
}

func TestRequireSignedIn_NoUser_API_Returns401(t *testing.T) {
	sm := newTestSessionManager(t)

	req := httptest.NewRequest("GET", "/api/thing", nil)
	req.Header.Set("Accept", "application/json")
	rec := httptest.NewRecorder()
	sm.RequireSignedIn(okHandler(nil)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("expected JSON error body, got Content-Type %q", ct)
	}
	if !strings.Contains(rec.Body.String(), `"error":"unauthorized"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestRequireRole(t *testing.T) {
	sm := newTestSessionManager(t)
	handler := sm.RequireRole("admin", "translator")(okHandler(nil))

	tests := []struct {
		name     string
		roles    []string
		accept   string
		expected int
	}{
		{"admin", []string{"admin"}, "", http.StatusOK},
		{"uppercase", []string{"ADMIN"}, "", http.StatusOK},
		{"second of many", []string{"viewer", "translator"}, "", http.StatusOK},
		{"wrong role html", []string{"viewer"}, "text/html", http.StatusSeeOther},
		{"wrong role api", []string{"viewer"}, "application/json", http.StatusForbidden},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/security/users", nil)
			if tc.accept != "" {
				req.Header.Set("Accept", tc.accept)
			}
			req = withTestUser(req, tc.roles)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.expected {
				t.Errorf("expected status %d, got %d", tc.expected, rec.Code)
			}
		})
	}
}

func TestRequirePermission(t *testing.T) {
	sm := newTestSessionManager(t)

	var called bool
	handler := sm.RequirePermission("i18n.write")(okHandler(&called))

	req := withTestUser(httptest.NewRequest("POST", "/i18n/messages", nil), nil, "i18n.read")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden || called {
		t.Errorf("missing permission: status %d, called %v", rec.Code, called)
	}

	req = withTestUser(httptest.NewRequest("POST", "/i18n/messages", nil), nil, "i18n.read", "i18n.write")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || !called {
		t.Errorf("granted permission: status %d, called %v", rec.Code, called)
	}
}

func TestSignInLoadSignOut_RoundTrip(t *testing.T) {
	sm := newTestSessionManager(t)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/login", nil)
	err := sm.SignIn(rec, req, &auth.SessionUser{
		ID:          "7",
		Name:        "Ada Lovelace",
		Username:    "ada",
		Locale:      "en",
		Roles:       []string{"admin"},
		Permissions: []string{"i18n.read", "security.read"},
		UISessionID: "ui-1",
	})
	if err != nil {
		t.Fatalf("SignIn() error = %v", err)
	}
	cookies := rec.Result().Cookies()
	if len(cookies) == 0 {
		t.Fatal("SignIn() set no cookie")
	}

	var got *auth.SessionUser
	load := sm.LoadSessionUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	}))
	req = httptest.NewRequest("GET", "/menu", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	load.ServeHTTP(httptest.NewRecorder(), req)

	if got == nil {
		t.Fatal("LoadSessionUser() found no user")
	}
	if got.Username != "ada" || got.UISessionID != "ui-1" || !got.HasPermission("security.read") || !got.HasRole("ADMIN") {
		t.Errorf("loaded user = %+v", got)
	}

	rec = httptest.NewRecorder()
	if err := sm.SignOut(rec, req); err != nil {
		t.Fatalf("SignOut() error = %v", err)
	}
	expired := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.MaxAge < 0 {
			expired = true
		}
	}
	if !expired {
		t.Error("SignOut() did not expire the cookie")
	}
}

func TestCurrentUser_NoUser(t *testing.T) {
	user, ok := auth.CurrentUser(httptest.NewRequest("GET", "/", nil))
	if ok || user != nil {
		t.Errorf("CurrentUser() = %v, %v", user, ok)
	}
}
