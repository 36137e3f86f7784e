// internal/app/features/errors/errors.go
package errors

import (
	"net/http"

	"github.com/dalemusser/adminhub/internal/app/system/auth"
	"github.com/dalemusser/adminhub/internal/app/system/jsonio"
)

// pageData is the body of every error response.
type pageData struct {
	Title      string `json:"title"`
	IsLoggedIn bool   `json:"isLoggedIn"`
	UserName   string `json:"userName,omitempty"`
	Message    string `json:"message"`
	BackURL    string `json:"backUrl"`
}

// Handler is the errors feature handler.
// No DB needed; it only writes JSON.
type Handler struct{}

// NewHandler constructs an errors Handler.
func NewHandler() *Handler {
	return &Handler{}
}

func write(w http.ResponseWriter, r *http.Request, status int, title, msg, back string) {
	data := pageData{Title: title, Message: msg, BackURL: back}
	if u, ok := auth.CurrentUser(r); ok {
		data.IsLoggedIn = true
		data.UserName = u.Name
	}
	jsonio.Write(w, status, data)
}

// Forbidden is the target of permission redirects.
// GET /forbidden
func (h *Handler) Forbidden(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusForbidden, "Access denied", "You don't have permission to view this page.", "/")
}

// Unauthorized asks the caller to sign in.
// GET /unauthorized
func (h *Handler) Unauthorized(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusUnauthorized, "Sign in required", "Please sign in to continue.", "/login")
}

// NotFound is installed as the router's fallback.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusNotFound, "Not found", "The page you requested does not exist.", "/")
}

// MethodNotAllowed is installed as the router's 405 handler.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	write(w, r, http.StatusMethodNotAllowed, "Method not allowed", r.Method+" is not supported here.", "/")
}
