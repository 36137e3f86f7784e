package login_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/features/login"
	"github.com/dalemusser/adminhub/internal/app/features/mainmenu"
	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/menu"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/app/system/ratelimit"
	"github.com/dalemusser/adminhub/internal/app/system/uisession"
	"github.com/dalemusser/adminhub/internal/domain/models"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.uber.org/zap"
)

type fakeAuth struct {
	users       map[string]models.User
	unreachable bool
}

func (f *fakeAuth) Authenticate(_ context.Context, username, password string) paging.Result[models.User] {
	if f.unreachable {
		return paging.Unreachable[models.User]()
	}
	u, ok := f.users[username]
	if !ok || password != "secret" {
		return paging.Fail[models.User]("bad credentials")
	}
	return paging.OK(u)
}

type staticRoles map[string][]string

func (s staticRoles) Permissions(_ context.Context, roles []string, extra ...string) []string {
	out := append([]string(nil), extra...)
	for _, r := range roles {
		out = append(out, s[r]...)
	}
	return out
}

type env struct {
	handler  *login.Handler
	sessions *uisession.Registry
}

func newTestHandler(t *testing.T, authn login.Authenticator) env {
	t.Helper()
	logger := zap.NewNop()
	sm, err := auth.NewSessionManager("test-session-key-must-be-32-chars-long", "test-session", "", time.Hour, false, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	reg := uisession.NewRegistry(logger)
	t.Cleanup(reg.CloseAll)

	mm := mainmenu.NewHandler(menu.NewBuilder(menu.DefaultSections()...), nil, logger)
	roles := staticRoles{"translator": {"i18n.write"}}
	return env{
		handler:  login.NewHandler(authn, roles, sm, reg, mm, nil, logger),
		sessions: reg,
	}
}

func ada() *fakeAuth {
	return &fakeAuth{users: map[string]models.User{
		"ada": {ID: paging.Ptr(int64(7)), Username: "ada", FullName: "Ada Lovelace", Locale: "fr_ca", Active: true, Roles: []string{"translator"}},
		"bob": {ID: paging.Ptr(int64(8)), Username: "bob", Active: false},
	}}
}

func post(form url.Values, accept string) *http.Request {
	req := httptest.NewRequest("POST", "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}
	return req
}

func hasSessionCookie(rec *httptest.ResponseRecorder) bool {
	for _, c := range rec.Result().Cookies() {
		if c.Name == "test-session" && c.Value != "" {
			return true
		}
	}
	return false
}

func TestHandleLoginPost_SuccessJSON(t *testing.T) {
	e := newTestHandler(t, ada())

	rec := httptest.NewRecorder()
	e.handler.HandleLoginPost(rec, post(url.Values{"username": {" ada "}, "password": {"secret"}}, "application/json"))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if !hasSessionCookie(rec) {
		t.Error("expected session cookie to be set")
	}

	var resp struct {
		ID          string   `json:"id"`
		Name        string   `json:"name"`
		Locale      string   `json:"locale"`
		Permissions []string `json:"permissions"`
		MenuEntries int      `json:"menuEntries"`
		Redirect    string   `json:"redirect"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.ID != "7" || resp.Name != "Ada Lovelace" || resp.Locale != "fr-CA" {
		t.Errorf("user = %+v", resp)
	}
	if len(resp.Permissions) != 1 || resp.Permissions[0] != "i18n.write" {
		t.Errorf("permissions = %v", resp.Permissions)
	}
	if resp.MenuEntries == 0 {
		t.Error("menu was not built")
	}
	if resp.Redirect != "/" {
		t.Errorf("redirect = %q", resp.Redirect)
	}
	if e.sessions.Len() != 1 {
		t.Errorf("ui sessions = %d, want 1", e.sessions.Len())
	}
}

func TestHandleLoginPost_BrowserRedirect(t *testing.T) {
	tests := []struct {
		name     string
		ret      string
		expected string
	}{
		{"default", "", "/"},
		{"local return", "/i18n/messages", "/i18n/messages"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestHandler(t, ada())
			form := url.Values{"username": {"ada"}, "password": {"secret"}}
			if tc.ret != "" {
				form.Set("return", tc.ret)
			}
			rec := httptest.NewRecorder()
			e.handler.HandleLoginPost(rec, post(form, "text/html"))

			if rec.Code != http.StatusSeeOther {
				t.Fatalf("status = %d", rec.Code)
			}
			if loc := rec.Header().Get("Location"); loc != tc.expected {
				t.Errorf("Location: got %q, want %q", loc, tc.expected)
			}
		})
	}
}

func TestHandleLoginPost_Failures(t *testing.T) {
	tests := []struct {
		name     string
		authn    *fakeAuth
		form     url.Values
		expected int
	}{
		{"empty username", ada(), url.Values{"password": {"secret"}}, http.StatusBadRequest},
		{"wrong password", ada(), url.Values{"username": {"ada"}, "password": {"nope"}}, http.StatusUnauthorized},
		{"unknown user", ada(), url.Values{"username": {"eve"}, "password": {"secret"}}, http.StatusUnauthorized},
		{"disabled user", ada(), url.Values{"username": {"bob"}, "password": {"secret"}}, http.StatusForbidden},
		{"service down", &fakeAuth{unreachable: true}, url.Values{"username": {"ada"}, "password": {"secret"}}, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := newTestHandler(t, tc.authn)
			rec := httptest.NewRecorder()
			e.handler.HandleLoginPost(rec, post(tc.form, "application/json"))

			if rec.Code != tc.expected {
				t.Errorf("status = %d, want %d", rec.Code, tc.expected)
			}
			if hasSessionCookie(rec) {
				t.Error("session cookie should not be set on failed login")
			}
			if e.sessions.Len() != 0 {
				t.Errorf("ui sessions = %d, want 0", e.sessions.Len())
			}
		})
	}
}

func TestHandleLoginPost_ReplacesPreviousSession(t *testing.T) {
	e := newTestHandler(t, ada())
	old := e.sessions.Create(menu.User{ID: "7"})

	req := post(url.Values{"username": {"ada"}, "password": {"secret"}}, "application/json")
	req = testutil.WithUser(req, testutil.TestUser{ID: "7", Username: "ada", UISessionID: old.ID()})
	rec := httptest.NewRecorder()
	e.handler.HandleLoginPost(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if _, ok := e.sessions.Get(old.ID()); ok {
		t.Error("previous ui session still registered")
	}
	if e.sessions.Len() != 1 {
		t.Errorf("ui sessions = %d, want 1", e.sessions.Len())
	}
}

func TestHandleLoginPost_Throttled(t *testing.T) {
	e := newTestHandler(t, ada())
	e.handler.Limiter = ratelimit.NewLoginLimiter(0, 0, 2, time.Minute)

	wrong := url.Values{"username": {"ada"}, "password": {"nope"}}
	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.handler.HandleLoginPost(rec, post(wrong, "application/json"))
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d status = %d, want 401", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	e.handler.HandleLoginPost(rec, post(url.Values{"username": {"ada"}, "password": {"secret"}}, "application/json"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if e.sessions.Len() != 0 {
		t.Errorf("ui sessions = %d, want 0", e.sessions.Len())
	}
}
