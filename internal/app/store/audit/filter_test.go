package audit

import (
	"testing"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"go.mongodb.org/mongo-driver/bson"
)

func TestFilterDoc(t *testing.T) {
	f := filterDoc(paging.CountQuery{})
	if len(f) != 0 {
		t.Errorf("unset filter = %v, want no constraint", f)
	}

	f = filterDoc(paging.CountQuery{ShowInactive: paging.Ptr(false)})
	if f["success"] != true || len(f) != 1 {
		t.Errorf("active-only filter = %v, want success only", f)
	}

	f = filterDoc(paging.CountQuery{FilterText: paging.Ptr("a.b"), ShowInactive: paging.Ptr(true)})
	if _, ok := f["success"]; ok {
		t.Error("show inactive should drop the success constraint")
	}
	or, ok := f["$or"].(bson.A)
	if !ok || len(or) != 3 {
		t.Fatalf("$or = %v", f["$or"])
	}
	re := or[0].(bson.M)["actor_ci"].(bson.M)["$regex"]
	if re != `^a\.b` {
		t.Errorf("regex = %v, want escaped prefix", re)
	}
}

func TestSortDoc(t *testing.T) {
	d := sortDoc(nil)
	if len(d) != 2 || d[0].Key != "timestamp" || d[0].Value != -1 || d[1].Key != "_id" {
		t.Errorf("default sort = %v", d)
	}

	d = sortDoc([]paging.SortOrder{paging.Asc("actor"), paging.Desc("bogus"), paging.Asc("timestamp")})
	want := bson.D{{Key: "actor_ci", Value: 1}, {Key: "timestamp", Value: 1}, {Key: "_id", Value: -1}}
	if len(d) != len(want) {
		t.Fatalf("sort = %v, want %v", d, want)
	}
	for i := range want {
		if d[i] != want[i] {
			t.Errorf("sort[%d] = %v, want %v", i, d[i], want[i])
		}
	}
}
