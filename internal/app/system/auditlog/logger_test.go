package auditlog_test

import (
	"net/http/httptest"
	"testing"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/auditlog"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func int64p(v int64) *int64 { return &v }

func TestLogger_NilLogger(t *testing.T) {
	// nil logger should be a no-op (not panic)
	var logger *auditlog.Logger
	ctx, cancel := testutil.TestContext()
	defer cancel()
	req := httptest.NewRequest("GET", "/", nil)

	logger.Log(ctx, audit.Event{EventType: "test"})
	logger.LoginSuccess(ctx, req, "1", "ada")
	logger.Logout(ctx, req)
	logger.EntitySaved(ctx, req, auditlog.Target{Service: "i18n", Entity: "message"})
}

func TestLogger_LogOnly(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(nil, zap.New(core), auditlog.Config{Auth: "off", Admin: "log"})

	req := testutil.NewAuthenticatedRequest("POST", "/i18n/messages", testutil.AdminUser())
	logger.LoginSuccess(ctx, req, "1", "admin")
	logger.EntitySaved(ctx, req, auditlog.Target{Service: "i18n", Entity: "message", EntityID: int64p(9), Label: "welcome"})
	logger.SaveFailed(ctx, req, auditlog.Target{Service: "i18n", Entity: "message"}, "duplicate key")

	entries := logs.All()
	if len(entries) != 2 {
		t.Fatalf("got %d log entries, want 2 (auth is off)", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[0].ContextMap()["entity_id"] != "9" {
		t.Errorf("saved entry = %+v", entries[0].ContextMap())
	}
	if entries[1].Level != zapcore.WarnLevel || entries[1].ContextMap()["failure_reason"] != "duplicate key" {
		t.Errorf("failed entry = %+v", entries[1].ContextMap())
	}
	if entries[0].ContextMap()["actor"] != "admin" {
		t.Errorf("actor = %v, want admin", entries[0].ContextMap()["actor"])
	}
}

func TestLogger_Log_ConfigOff(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "off", Admin: "off"})
	req := httptest.NewRequest("POST", "/login", nil)
	logger.LoginSuccess(ctx, req, "1", "ada")
	logger.LoginFailed(ctx, req, "ada", "bad password")

	n, err := store.Count(ctx, paging.CountQuery{ShowInactive: paging.Ptr(true)})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("got %d events, want none when config is 'off'", n)
	}
}

func TestLogger_Log_ConfigDB(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	logger := auditlog.New(store, zap.NewNop(), auditlog.Config{Auth: "db", Admin: "db"})
	req := testutil.NewAuthenticatedRequest("POST", "/i18n/messages/3/commit", testutil.AdminUser())

	logger.LoginFailed(ctx, req, "mallory", "invalid credentials")
	logger.RowsCommitted(ctx, req, auditlog.Target{Service: "i18n", Entity: "message", EntityID: int64p(3), Label: "greeting"}, 4, "")

	active, err := store.Find(ctx, paging.NewQuery(nil, paging.Ptr(false), nil, 0, 10))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(active) != 1 {
		t.Fatalf("got %d successful events, want 1", len(active))
	}
	e := active[0]
	if e.EventType != audit.EventRowsCommitted || e.EntityID != "3" || e.Details["rows"] != "4" || e.Actor != "admin" {
		t.Errorf("committed event = %+v", e)
	}

	all, err := store.Count(ctx, paging.CountQuery{ShowInactive: paging.Ptr(true)})
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if all != 2 {
		t.Errorf("got %d events including failures, want 2", all)
	}
}
