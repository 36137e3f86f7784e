package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
)

// TestUser represents user data for testing HTTP handlers.
type TestUser struct {
	ID          string
	Name        string
	Username    string
	Locale      string
	Roles       []string
	Permissions []string
	UISessionID string
}

// AdminUser returns a TestUser holding the admin role.
func AdminUser() TestUser {
	return TestUser{
		ID:       "1",
		Name:     "Test Admin",
		Username: "admin",
		Locale:   "en",
		Roles:    []string{"admin"},
	}
}

// UserWith returns a TestUser holding exactly perms.
func UserWith(perms ...string) TestUser {
	return TestUser{
		ID:          "2",
		Name:        "Test Operator",
		Username:    "operator",
		Locale:      "en",
		Permissions: perms,
	}
}

// SessionUser converts u to the auth representation.
func (u TestUser) SessionUser() *auth.SessionUser {
	return &auth.SessionUser{
		ID:          u.ID,
		Name:        u.Name,
		Username:    u.Username,
		Locale:      u.Locale,
		Roles:       u.Roles,
		Permissions: u.Permissions,
		UISessionID: u.UISessionID,
	}
}

// WithUser adds a user to the request context for testing authenticated handlers.
// This bypasses the session middleware and injects the user directly.
func WithUser(r *http.Request, user TestUser) *http.Request {
	return auth.WithTestUser(r, user.SessionUser())
}

// NewRequest creates an HTTP request for testing.
func NewRequest(method, target string) *http.Request {
	return httptest.NewRequest(method, target, nil)
}

// NewAuthenticatedRequest creates an HTTP request with a user in context.
func NewAuthenticatedRequest(method, target string, user TestUser) *http.Request {
	return WithUser(httptest.NewRequest(method, target, nil), user)
}

// NewJSONRequest creates a request with a JSON body and a user in context.
func NewJSONRequest(method, target, body string, user TestUser) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return WithUser(req, user)
}

// ResponseRecorder wraps httptest.ResponseRecorder with helper methods.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
}

// NewRecorder creates a new ResponseRecorder.
func NewRecorder() *ResponseRecorder {
	return &ResponseRecorder{httptest.NewRecorder()}
}

// AssertStatus checks the response status code.
func (r *ResponseRecorder) AssertStatus(t interface{ Errorf(string, ...any) }, expected int) {
	if r.Code != expected {
		t.Errorf("status code: got %d, want %d (body %q)", r.Code, expected, r.Body.String())
	}
}

// AssertContains checks if the response body contains the expected string.
func (r *ResponseRecorder) AssertContains(t interface{ Errorf(string, ...any) }, expected string) {
	if !strings.Contains(r.Body.String(), expected) {
		t.Errorf("response body does not contain %q", expected)
	}
}
