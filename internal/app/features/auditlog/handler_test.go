package auditlog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/features/auditlog"
	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type listBody struct {
	Items []audit.Event `json:"items"`
	Total int64         `json:"total"`
	Range paging.Range  `json:"range"`
}

func decodeList(t *testing.T, rec *testutil.ResponseRecorder) listBody {
	t.Helper()
	var b listBody
	if err := json.Unmarshal(rec.Body.Bytes(), &b); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return b
}

// brokenReader fails every call.
type brokenReader struct{ lastSort []paging.SortOrder }

func (b *brokenReader) Find(_ context.Context, q paging.Query) ([]audit.Event, error) {
	b.lastSort = q.Sort
	return nil, errors.New("connection reset")
}
func (b *brokenReader) Count(context.Context, paging.CountQuery) (int64, error) {
	return 0, errors.New("connection reset")
}
func (b *brokenReader) Get(context.Context, primitive.ObjectID) (audit.Event, error) {
	return audit.Event{}, audit.ErrNotFound
}

func TestServeList_StoreFailureShowsEmptyWindow(t *testing.T) {
	reader := &brokenReader{}
	h := auditlog.NewHandler(reader, zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", "/monitoring/audit", testutil.AdminUser()))
	rec.AssertStatus(t, http.StatusOK)

	body := decodeList(t, rec)
	if len(body.Items) != 0 || body.Total != 0 {
		t.Errorf("body = %+v", body)
	}
	if len(reader.lastSort) != 1 || reader.lastSort[0].Property != "timestamp" || !reader.lastSort[0].IsDescending() {
		t.Errorf("default sort = %+v", reader.lastSort)
	}
}

func TestServeEvent_BadAndMissingID(t *testing.T) {
	h := auditlog.NewHandler(&brokenReader{}, zap.NewNop())

	rec := testutil.NewRecorder()
	h.ServeEvent(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/monitoring/audit/x"), "id", "x"))
	rec.AssertStatus(t, http.StatusBadRequest)

	id := primitive.NewObjectID().Hex()
	rec = testutil.NewRecorder()
	h.ServeEvent(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/monitoring/audit/"+id), "id", id))
	rec.AssertStatus(t, http.StatusNotFound)
}

func TestServeCategories(t *testing.T) {
	h := auditlog.NewHandler(&brokenReader{}, zap.NewNop())
	rec := testutil.NewRecorder()
	h.ServeCategories(rec, testutil.NewRequest("GET", "/monitoring/audit/categories"))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, audit.EventRowsCommitted)
	rec.AssertContains(t, audit.EventLoginFailed)
}

func seed(t *testing.T, store *audit.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Timestamp: base, Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Actor: "alice", Success: true},
		{Timestamp: base.Add(time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventEntitySaved, Actor: "alice", Label: "Greeting", Success: true},
		{Timestamp: base.Add(2 * time.Minute), Category: audit.CategoryAuth, EventType: audit.EventLoginFailed, Actor: "bob", Success: false, FailureReason: "bad credentials"},
		{Timestamp: base.Add(3 * time.Minute), Category: audit.CategoryAdmin, EventType: audit.EventEntityDeleted, Actor: "Alvaro", Label: "Farewell", Success: true},
	}
	for _, e := range events {
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log: %v", err)
		}
	}
}

func TestServeList_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seed(t, store)
	h := auditlog.NewHandler(store, zap.NewNop())

	tests := []struct {
		name      string
		target    string
		wantTotal int64
		wantFirst string
	}{
		{"default shows everything newest first", "/monitoring/audit", 4, "Alvaro"},
		{"inactive=false hides failures", "/monitoring/audit?inactive=false&offset=1", 3, "alice"},
		{"inactive=true shows failures", "/monitoring/audit?inactive=true&offset=1", 4, "bob"},
		{"prefix filter ignores case", "/monitoring/audit?q=al", 3, "Alvaro"},
		{"label prefix", "/monitoring/audit?q=gree", 1, "alice"},
		{"oldest first", "/monitoring/audit?sort=timestamp,asc", 4, "alice"},
		{"window", "/monitoring/audit?offset=1&limit=1", 4, "bob"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := testutil.NewRecorder()
			h.ServeList(rec, testutil.NewAuthenticatedRequest("GET", tc.target, testutil.AdminUser()))
			rec.AssertStatus(t, http.StatusOK)

			body := decodeList(t, rec)
			if body.Total != tc.wantTotal {
				t.Errorf("total = %d, want %d", body.Total, tc.wantTotal)
			}
			if len(body.Items) == 0 || body.Items[0].Actor != tc.wantFirst {
				t.Errorf("first actor = %+v, want %q", body.Items, tc.wantFirst)
			}
		})
	}
}

func TestServeEvent_Mongo(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seed(t, store)
	h := auditlog.NewHandler(store, zap.NewNop())

	ctx, cancel := testutil.TestContext()
	defer cancel()
	rows, err := store.Find(ctx, paging.NewQuery(nil, paging.Ptr(true), nil, 0, 1))
	if err != nil || len(rows) != 1 {
		t.Fatalf("Find: %v, %d rows", err, len(rows))
	}

	id := rows[0].ID.Hex()
	rec := testutil.NewRecorder()
	h.ServeEvent(rec, testutil.WithChiURLParam(testutil.NewRequest("GET", "/monitoring/audit/"+id), "id", id))
	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, id)
}
