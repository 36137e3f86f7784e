// internal/app/system/paging/query.go
package paging

import (
	"fmt"
	"strings"
)

// Direction is the explicit ordering of one sort criterion.
type Direction string

const (
	Ascending  Direction = "ASC"
	Descending Direction = "DESC"
)

// SortOrder is a single (property path, direction) sort criterion.
type SortOrder struct {
	Property  string    `json:"property"`
	Direction Direction `json:"direction"`
}

// Asc and Desc build sort criteria.
func Asc(prop string) SortOrder  { return SortOrder{Property: prop, Direction: Ascending} }
func Desc(prop string) SortOrder { return SortOrder{Property: prop, Direction: Descending} }

// IsDescending reports whether the criterion orders high to low.
func (s SortOrder) IsDescending() bool {
	return strings.EqualFold(string(s.Direction), string(Descending))
}

// Query is the paged, filtered, sorted request envelope sent to a backend
// service. A nil FilterText or ShowInactive means "no constraint", which is
// not the same as an empty filter or false.
type Query struct {
	FilterText   *string     `json:"filterText,omitempty"`
	ShowInactive *bool       `json:"showInactive,omitempty"`
	Offset       int         `json:"offset"`
	Limit        int         `json:"limit"`
	Sort         []SortOrder `json:"sort,omitempty"`
}

// CountQuery is the count variant of Query: filter only, no window or order.
type CountQuery struct {
	FilterText   *string `json:"filterText,omitempty"`
	ShowInactive *bool   `json:"showInactive,omitempty"`
}

// NewQuery builds a Query. Sort criteria are copied so later changes to the
// caller's slice do not leak into an in-flight request.
func NewQuery(filterText *string, showInactive *bool, sort []SortOrder, offset, limit int) Query {
	q := Query{
		FilterText:   filterText,
		ShowInactive: showInactive,
		Offset:       offset,
		Limit:        limit,
	}
	if len(sort) > 0 {
		q.Sort = append([]SortOrder(nil), sort...)
	}
	return q
}

// Validate checks the window invariants.
func (q Query) Validate() error {
	if q.Limit <= 0 {
		return fmt.Errorf("paging: limit must be positive, got %d", q.Limit)
	}
	if q.Offset < 0 {
		return fmt.Errorf("paging: offset must not be negative, got %d", q.Offset)
	}
	return nil
}

// Count returns the CountQuery matching q's filter.
func (q Query) Count() CountQuery {
	return CountQuery{FilterText: q.FilterText, ShowInactive: q.ShowInactive}
}

// Filter returns the filter text, or "" when unset.
func (q Query) Filter() string { return deref(q.FilterText) }

// Filter returns the filter text, or "" when unset.
func (q CountQuery) Filter() string { return deref(q.FilterText) }

// ActiveOnly reports whether inactive rows must be left out. Only an explicit
// false does that; unset places no constraint.
func (q Query) ActiveOnly() bool { return q.ShowInactive != nil && !*q.ShowInactive }

// ActiveOnly reports whether inactive rows must be left out.
func (q CountQuery) ActiveOnly() bool { return q.ShowInactive != nil && !*q.ShowInactive }

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// Ptr returns a pointer to v. Handy for building optional query fields.
func Ptr[T any](v T) *T { return &v }
