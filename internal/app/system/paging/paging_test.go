package paging

import (
	"math"
	"net/http/httptest"
	"testing"
)

func TestParseWindow(t *testing.T) {
	tests := []struct {
		name       string
		target     string
		wantOffset int
		wantLimit  int
	}{
		{"defaults", "/list", 0, PageSize},
		{"explicit", "/list?offset=20&limit=10", 20, 10},
		{"negative offset", "/list?offset=-5&limit=10", 0, 10},
		{"zero limit", "/list?limit=0", 0, PageSize},
		{"garbage", "/list?offset=abc&limit=xyz", 0, PageSize},
		{"limit clamped", "/list?limit=100000", 0, MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			offset, limit := ParseWindow(r)
			if offset != tt.wantOffset || limit != tt.wantLimit {
				t.Errorf("ParseWindow(%q) = (%d, %d), want (%d, %d)",
					tt.target, offset, limit, tt.wantOffset, tt.wantLimit)
			}
		})
	}
}

func TestParseSort(t *testing.T) {
	r := httptest.NewRequest("GET", "/list?sort=code,asc;%20updatedAt,desc;name;bad,sideways;,desc", nil)
	got := ParseSort(r)
	want := []SortOrder{Asc("code"), Desc("updatedAt"), Asc("name")}

	if len(got) != len(want) {
		t.Fatalf("ParseSort() len = %d, want %d (%+v)", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ParseSort()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}

	if got := ParseSort(httptest.NewRequest("GET", "/list", nil)); got != nil {
		t.Errorf("ParseSort(no param) = %+v, want nil", got)
	}
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		target       string
		wantFilter   *string
		wantInactive *bool
	}{
		{"/", nil, nil},
		{"/?q=", Ptr(""), nil},
		{"/?q=%20%20Ada%20", Ptr("Ada"), nil},
		{"/?inactive=true", nil, Ptr(true)},
		{"/?inactive=false&q=x", Ptr("x"), Ptr(false)},
		{"/?inactive=maybe", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			f, in := ParseFilter(httptest.NewRequest("GET", tt.target, nil))
			if (f == nil) != (tt.wantFilter == nil) || (f != nil && *f != *tt.wantFilter) {
				t.Errorf("filter = %v, want %v", f, tt.wantFilter)
			}
			if (in == nil) != (tt.wantInactive == nil) || (in != nil && *in != *tt.wantInactive) {
				t.Errorf("inactive = %v, want %v", in, tt.wantInactive)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		n, offset, limit int
		lo, hi           int
	}{
		{10, 0, 5, 0, 5},
		{10, 5, 5, 5, 10},
		{10, 8, 5, 8, 10},
		{10, 10, 5, 10, 10},
		{10, 50, 5, 10, 10},
		{0, 0, 5, 0, 0},
		{10, -3, 2, 0, 2},
		{3, 1, math.MaxInt, 1, 3},
		{3, math.MaxInt, math.MaxInt, 3, 3},
		{3, math.MaxInt, 1, 3, 3},
	}

	for _, tt := range tests {
		lo, hi := Bounds(tt.n, tt.offset, tt.limit)
		if lo != tt.lo || hi != tt.hi {
			t.Errorf("Bounds(%d, %d, %d) = [%d, %d), want [%d, %d)",
				tt.n, tt.offset, tt.limit, lo, hi, tt.lo, tt.hi)
		}
	}
}

func TestComputeRange(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		limit  int
		shown  int
		total  int64
		want   Range
	}{
		{
			name:  "no results",
			limit: PageSize,
			want:  Range{},
		},
		{
			name:  "first page full",
			limit: 50, shown: 50, total: 120,
			want: Range{Start: 1, End: 50, PrevOffset: 0, NextOffset: 50, HasNext: true},
		},
		{
			name:   "middle page",
			offset: 50, limit: 50, shown: 50, total: 120,
			want: Range{Start: 51, End: 100, PrevOffset: 0, NextOffset: 100, HasPrev: true, HasNext: true},
		},
		{
			name:   "last partial page",
			offset: 100, limit: 50, shown: 20, total: 120,
			want: Range{Start: 101, End: 120, PrevOffset: 50, NextOffset: 120, HasPrev: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeRange(tt.offset, tt.limit, tt.shown, tt.total)
			if got != tt.want {
				t.Errorf("ComputeRange() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestQueryValidate(t *testing.T) {
	if err := NewQuery(nil, nil, nil, 0, 10).Validate(); err != nil {
		t.Errorf("valid query rejected: %v", err)
	}
	if err := NewQuery(nil, nil, nil, 0, 0).Validate(); err == nil {
		t.Error("expected error for zero limit")
	}
	if err := NewQuery(nil, nil, nil, -1, 10).Validate(); err == nil {
		t.Error("expected error for negative offset")
	}
}

func TestQuery_UnsetFilterMeansNoConstraint(t *testing.T) {
	q := NewQuery(nil, nil, nil, 0, 10)
	if q.Filter() != "" || q.ActiveOnly() || q.Count().ActiveOnly() {
		t.Errorf("unset filter should place no constraint, got %q/%v", q.Filter(), q.ActiveOnly())
	}

	q = NewQuery(Ptr("abc"), Ptr(true), nil, 0, 10)
	c := q.Count()
	if c.Filter() != "abc" || c.ActiveOnly() || c.ShowInactive == nil {
		t.Errorf("Count() lost filter: %+v", c)
	}

	if !NewQuery(nil, Ptr(false), nil, 0, 10).Count().ActiveOnly() {
		t.Error("explicit false should restrict to active rows")
	}
}

func TestNewQuery_CopiesSort(t *testing.T) {
	sort := []SortOrder{Asc("a")}
	q := NewQuery(nil, nil, sort, 0, 10)
	sort[0] = Desc("b")
	if q.Sort[0] != Asc("a") {
		t.Errorf("query sort mutated through caller slice: %+v", q.Sort)
	}
}

func TestResultValue(t *testing.T) {
	if _, ok := Fail[int]("boom").Value(); ok {
		t.Error("failed result must not yield a value")
	}

	// Data present on a failed result is still treated as absent.
	v := 7
	if _, ok := (Result[int]{Success: false, Data: &v}).Value(); ok {
		t.Error("failed result with data must not yield a value")
	}

	if _, ok := NotFound[int]().Value(); ok {
		t.Error("not-found result must not yield a value")
	}

	got, ok := OK(42).Value()
	if !ok || got != 42 {
		t.Errorf("OK(42).Value() = (%d, %v), want (42, true)", got, ok)
	}

	u := Unreachable[int]()
	if u.Success || u.Message != CannotConnect {
		t.Errorf("Unreachable() = %+v", u)
	}
}

func TestEmptyPage(t *testing.T) {
	p := EmptyPage[string]()
	if p.Content == nil || len(p.Content) != 0 || p.TotalElements != 0 {
		t.Errorf("EmptyPage() = %+v", p)
	}
	if p := PageOf[string](nil, 3); p.Content == nil {
		t.Error("PageOf(nil) should normalize to an empty slice")
	}
}
