// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/normalize"
	"github.com/dalemusser/waffle/pantry/query"
)

// PageSize is the default number of rows a grid asks for when the request
// does not carry an explicit limit.
const PageSize = 50

// MaxPageSize caps the limit a client may request in one window.
const MaxPageSize = 500

// ParseWindow extracts the zero-based "offset" and "limit" query parameters.
// Missing or invalid values fall back to 0 and PageSize; the limit is clamped
// to MaxPageSize so the returned pair always satisfies Query's invariants.
func ParseWindow(r *http.Request) (offset, limit int) {
	offset = atoiOr(query.Get(r, "offset"), 0)
	if offset < 0 {
		offset = 0
	}
	limit = atoiOr(query.Get(r, "limit"), PageSize)
	if limit < 1 {
		limit = PageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	return offset, limit
}

// ParseFilter reads the "q" and "inactive" query parameters. An absent
// parameter stays nil, which means no constraint. An unparsable "inactive"
// is treated as absent.
func ParseFilter(r *http.Request) (filterText *string, showInactive *bool) {
	vals := r.URL.Query()
	if vals.Has("q") {
		filterText = Ptr(normalize.QueryParam(vals.Get("q")))
	}
	if vals.Has("inactive") {
		if b, err := strconv.ParseBool(vals.Get("inactive")); err == nil {
			showInactive = Ptr(b)
		}
	}
	return filterText, showInactive
}

// ParseSort reads the "sort" query parameter in the form
// "prop,asc;other,desc". Entries without a direction are ascending.
// Unknown directions and blank properties are skipped.
func ParseSort(r *http.Request) []SortOrder {
	raw := query.Get(r, "sort")
	if raw == "" {
		return nil
	}
	var out []SortOrder
	for _, part := range strings.Split(raw, ";") {
		prop, dir, _ := strings.Cut(strings.TrimSpace(part), ",")
		prop = strings.TrimSpace(prop)
		if prop == "" {
			continue
		}
		switch strings.ToLower(strings.TrimSpace(dir)) {
		case "", "asc":
			out = append(out, Asc(prop))
		case "desc":
			out = append(out, Desc(prop))
		}
	}
	return out
}

func atoiOr(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// Bounds returns the half-open slice bounds [lo, hi) of the window
// (offset, limit) over a sequence of n items. The result is always a valid
// slice range, empty when offset is past the end.
func Bounds(n, offset, limit int) (lo, hi int) {
	if offset < 0 {
		offset = 0
	}
	if limit < 0 {
		limit = 0
	}
	lo = min(offset, n)
	hi = lo + min(limit, n-lo)
	return lo, hi
}

// Range holds computed display range values for a paginated grid.
type Range struct {
	Start      int  `json:"start"`      // 1-based start index (0 if no results)
	End        int  `json:"end"`        // 1-based end index (0 if no results)
	PrevOffset int  `json:"prevOffset"` // offset for the previous window
	NextOffset int  `json:"nextOffset"` // offset for the next window
	HasPrev    bool `json:"hasPrev"`
	HasNext    bool `json:"hasNext"`
}

// ComputeRange calculates display range values for a window that started at
// offset, asked for limit rows, received shown rows, out of total matches.
func ComputeRange(offset, limit, shown int, total int64) Range {
	if shown == 0 {
		return Range{PrevOffset: 0, NextOffset: offset, HasPrev: offset > 0}
	}

	prev := offset - limit
	if prev < 0 {
		prev = 0
	}
	next := offset + shown

	return Range{
		Start:      offset + 1,
		End:        offset + shown,
		PrevOffset: prev,
		NextOffset: next,
		HasPrev:    offset > 0,
		HasNext:    int64(next) < total,
	}
}
