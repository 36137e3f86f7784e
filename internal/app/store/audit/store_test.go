package audit_test

import (
	"testing"
	"time"

	"github.com/dalemusser/adminhub/internal/app/store/audit"
	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/adminhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seed(t *testing.T, store *audit.Store) {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []audit.Event{
		{Category: audit.CategoryAuth, EventType: audit.EventLoginSuccess, Actor: "Élodie", Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventEntitySaved, Actor: "elmer", Label: "welcome/fr", Success: true},
		{Category: audit.CategoryAdmin, EventType: audit.EventEntitySaved, Actor: "bob", Label: "FR", Success: false, FailureReason: "code taken"},
		{Category: audit.CategoryAuth, EventType: audit.EventLogout, Actor: "bob", Success: true},
	}
	for i, e := range events {
		e.Timestamp = base.Add(time.Duration(i) * time.Minute)
		if err := store.Log(ctx, e); err != nil {
			t.Fatalf("Log failed: %v", err)
		}
	}
}

func TestStore_FindAndCount_FilterIsFoldedPrefix(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seed(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	q := paging.NewQuery(paging.Ptr("EL"), nil, nil, 0, 10)
	events, err := store.Find(ctx, q)
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// Default order is newest first.
	if events[0].Actor != "elmer" || events[1].Actor != "Élodie" {
		t.Errorf("order = %s, %s", events[0].Actor, events[1].Actor)
	}

	n, err := store.Count(ctx, q.Count())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 2 {
		t.Errorf("Count = %d, want 2", n)
	}
}

func TestStore_ShowInactiveIncludesFailures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seed(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	active, _ := store.Count(ctx, paging.CountQuery{ShowInactive: paging.Ptr(false)})
	all, _ := store.Count(ctx, paging.CountQuery{ShowInactive: paging.Ptr(true)})
	unset, _ := store.Count(ctx, paging.CountQuery{})
	if active != 3 || all != 4 || unset != 4 {
		t.Errorf("active = %d, all = %d, unset = %d; want 3, 4 and 4", active, all, unset)
	}

	events, err := store.Find(ctx, paging.NewQuery(paging.Ptr("fr"), paging.Ptr(true), nil, 0, 10))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(events) != 1 || events[0].FailureReason != "code taken" {
		t.Errorf("events = %+v", events)
	}
}

func TestStore_SortAndWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	seed(t, store)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	sort := []paging.SortOrder{paging.Asc("actor"), paging.Asc("timestamp")}
	events, err := store.Find(ctx, paging.NewQuery(nil, paging.Ptr(true), sort, 1, 2))
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	// bob(saved), bob(logout), elmer, élodie -> window [1,3)
	if events[0].EventType != audit.EventLogout || events[1].Actor != "elmer" {
		t.Errorf("window = %s/%s, %s", events[0].Actor, events[0].EventType, events[1].Actor)
	}

	if _, err := store.Find(ctx, paging.Query{Limit: 0}); err == nil {
		t.Error("expected error for invalid window")
	}
}

func TestStore_Get(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := audit.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	id := primitive.NewObjectID()
	if err := store.Log(ctx, audit.Event{ID: id, Actor: "ada", EventType: audit.EventLogout, Success: true}); err != nil {
		t.Fatalf("Log failed: %v", err)
	}
	got, err := store.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.Actor != "ada" || got.Timestamp.IsZero() {
		t.Errorf("event = %+v", got)
	}
	if _, err := store.Get(ctx, primitive.NewObjectID()); err != audit.ErrNotFound {
		t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
	}
}
