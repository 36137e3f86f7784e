package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/adminhub/internal/app/features/health"
	"github.com/dalemusser/adminhub/internal/app/system/remote"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context, *readpref.ReadPref) error { return f.err }

type healthBody struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Services []struct {
		Name    string `json:"name"`
		Breaker string `json:"breaker"`
	} `json:"services"`
}

func serve(t *testing.T, h *health.Handler) (int, healthBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Serve(rec, httptest.NewRequest("GET", "/health", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type: got %q, want %q", ct, "application/json")
	}
	var body healthBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	return rec.Code, body
}

func TestServe_BreakerStates(t *testing.T) {
	i18n := remote.NewBreaker("i18n", remote.BreakerConfig{FailureThreshold: 1})
	security := remote.NewBreaker("security", remote.BreakerConfig{FailureThreshold: 1})

	h := health.NewHandler(fakePinger{}, []*remote.Breaker{i18n, security}, zap.NewNop())

	code, body := serve(t, h)
	if code != http.StatusOK || body.Status != "ok" || body.Database != "connected" {
		t.Errorf("all closed: code %d, body %+v", code, body)
	}

	security.Failure()
	code, body = serve(t, h)
	if code != http.StatusOK || body.Status != "degraded" {
		t.Errorf("one open: code %d, status %q", code, body.Status)
	}
	if len(body.Services) != 2 || body.Services[1].Name != "security" || body.Services[1].Breaker != "open" {
		t.Errorf("services = %+v", body.Services)
	}
}

func TestServe_DatabaseDown(t *testing.T) {
	h := health.NewHandler(fakePinger{err: errors.New("no reachable servers")}, nil, zap.NewNop())

	code, body := serve(t, h)
	if code != http.StatusServiceUnavailable {
		t.Errorf("expected status %d, got %d", http.StatusServiceUnavailable, code)
	}
	if body.Status != "error" || body.Database != "disconnected" {
		t.Errorf("body = %+v", body)
	}
}

func TestServe_DatabaseConnected(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := health.NewHandler(db.Client(), nil, zap.NewNop())

	code, body := serve(t, h)
	if code != http.StatusOK || body.Status != "ok" {
		t.Errorf("code %d, body %+v", code, body)
	}
}
