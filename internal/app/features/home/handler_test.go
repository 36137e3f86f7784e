package home_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/adminhub/internal/app/features/home"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.uber.org/zap"
)

type landing struct {
	App      string            `json:"app"`
	SignedIn bool              `json:"signedIn"`
	User     string            `json:"user"`
	Links    map[string]string `json:"links"`
}

func serve(t *testing.T, req *http.Request) landing {
	t.Helper()
	h := home.NewHandler("adminhub", zap.NewNop())
	rec := httptest.NewRecorder()
	h.ServeRoot(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var out landing
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestServeRoot_Unauthenticated(t *testing.T) {
	out := serve(t, httptest.NewRequest(http.MethodGet, "/", nil))

	if out.App != "adminhub" || out.SignedIn {
		t.Errorf("got %+v", out)
	}
	if out.Links["login"] != "/login" {
		t.Errorf("login link = %q", out.Links["login"])
	}
	if _, ok := out.Links["menu"]; ok {
		t.Error("menu link offered to a signed-out client")
	}
}

func TestServeRoot_AuthenticatedUser(t *testing.T) {
	req := testutil.NewAuthenticatedRequest(http.MethodGet, "/", testutil.AdminUser())
	out := serve(t, req)

	if !out.SignedIn || out.User == "" {
		t.Errorf("got %+v", out)
	}
	if out.Links["menu"] != "/menu" || out.Links["logout"] != "/logout" {
		t.Errorf("links = %v", out.Links)
	}
	if _, ok := out.Links["login"]; ok {
		t.Error("login link offered to a signed-in client")
	}
}
