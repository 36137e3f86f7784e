// Package memstore holds the client-side working set of an embedded list
// editor: rows nested inside a parent record that the user may add, edit
// and remove freely, and that are only committed when the parent is saved.
//
// Nothing here talks to a server. Identifiers allocated here are local
// placeholders and never authoritative.
package memstore

import (
	"slices"
	"strings"

	"github.com/dalemusser/adminhub/internal/app/system/paging"
	"github.com/dalemusser/waffle/pantry/text"
)

// Identifiable is an entity with a nullable numeric identifier. A nil
// identifier means "not yet persisted". Implementations are pointer types so
// that SetID is visible to the caller and unsaved items compare by reference.
type Identifiable interface {
	comparable
	GetID() *int64
	SetID(id int64)
}

// Compare orders two items: negative when a sorts before b.
type Compare[T any] func(a, b T) int

// Predicate selects items for Fetch and Size.
type Predicate[T any] func(T) bool

// Backend is the working set for entities that carry a server identity.
//
// Membership: two items are the same member when both have identifiers and
// the identifiers are equal; otherwise only when they are the same pointer.
type Backend[T Identifiable] struct {
	items   []T
	compare Compare[T]
	filters []Predicate[T]
	added   map[T]struct{}
	maxID   int64
}

// New returns an empty Backend. compare may be nil for insertion order.
func New[T Identifiable](compare Compare[T]) *Backend[T] {
	return &Backend[T]{compare: compare, added: make(map[T]struct{})}
}

// SetValues replaces the working set wholesale. It is used once, when the
// parent entity is loaded into an editor.
func (b *Backend[T]) SetValues(items []T) {
	b.items = slices.Clone(items)
	b.added = make(map[T]struct{})
	b.maxID = 0
	b.observe()
}

// Values returns the working set, sorted by the configured comparator or in
// insertion order. Filters do not apply.
func (b *Backend[T]) Values() []T {
	out := slices.Clone(b.items)
	if b.compare != nil {
		slices.SortStableFunc(out, b.compare)
	}
	if out == nil {
		out = []T{}
	}
	return out
}

// Persist adds item to the working set. An item without an identifier gets
// one greater than every identifier observed so far and is marked new.
// Persisting an item that is already a member changes nothing.
func (b *Backend[T]) Persist(item T) {
	if item.GetID() == nil {
		b.observe()
		b.maxID++
		item.SetID(b.maxID)
		b.added[item] = struct{}{}
	}
	if b.indexOf(item) >= 0 {
		return
	}
	b.items = append(b.items, item)
}

// Insert appends item as-is, without identifier allocation or duplicate
// checks. It models rows that arrive outside Persist, e.g. copied from
// another record.
func (b *Backend[T]) Insert(item T) {
	b.items = append(b.items, item)
}

// Delete removes one occurrence of item from the working set and reports
// whether anything was removed.
func (b *Backend[T]) Delete(item T) bool {
	i := b.indexOf(item)
	if i < 0 {
		return false
	}
	delete(b.added, b.items[i])
	b.items = slices.Delete(b.items, i, i+1)
	return true
}

// Find returns the member with the given identifier.
func (b *Backend[T]) Find(id int64) (T, bool) {
	for _, it := range b.items {
		if p := it.GetID(); p != nil && *p == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// IsNew reports whether item received its identifier from Persist.
func (b *Backend[T]) IsNew(item T) bool {
	_, ok := b.added[item]
	return ok
}

// Added returns the members created through Persist, in insertion order.
func (b *Backend[T]) Added() []T {
	var out []T
	for _, it := range b.items {
		if _, ok := b.added[it]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Fetch returns the window [offset, offset+limit) of the filtered working
// set sorted by compare (or the default comparator when compare is nil).
// It also refreshes the identifier floor used by Persist.
func (b *Backend[T]) Fetch(compare Compare[T], offset, limit int) []T {
	b.observe()
	if compare == nil {
		compare = b.compare
	}
	return window(b.items, b.filters, compare, offset, limit)
}

// Size returns the number of members passing the filters.
func (b *Backend[T]) Size() int {
	return countMatching(b.items, b.filters)
}

// AddFilter ANDs p with the filters already in place.
func (b *Backend[T]) AddFilter(p Predicate[T]) { b.filters = append(b.filters, p) }

// SetFilter replaces all filters with p. A nil p clears them.
func (b *Backend[T]) SetFilter(p Predicate[T]) {
	b.filters = nil
	if p != nil {
		b.filters = []Predicate[T]{p}
	}
}

// ClearFilters removes every filter.
func (b *Backend[T]) ClearFilters() { b.filters = nil }

// MaxID returns the current identifier floor.
func (b *Backend[T]) MaxID() int64 { return b.maxID }

func (b *Backend[T]) observe() {
	for _, it := range b.items {
		if p := it.GetID(); p != nil && *p > b.maxID {
			b.maxID = *p
		}
	}
}

func (b *Backend[T]) indexOf(item T) int {
	id := item.GetID()
	for i, it := range b.items {
		if it == item {
			return i
		}
		if id != nil {
			if other := it.GetID(); other != nil && *other == *id {
				return i
			}
		}
	}
	return -1
}

// window filters, sorts a copy, and slices out the requested rows.
func window[T any](items []T, filters []Predicate[T], compare Compare[T], offset, limit int) []T {
	sel := make([]T, 0, len(items))
	for _, it := range items {
		if matches(it, filters) {
			sel = append(sel, it)
		}
	}
	if compare != nil {
		slices.SortStableFunc(sel, compare)
	}
	lo, hi := paging.Bounds(len(sel), offset, limit)
	return slices.Clone(sel[lo:hi:hi])
}

func countMatching[T any](items []T, filters []Predicate[T]) int {
	if len(filters) == 0 {
		return len(items)
	}
	n := 0
	for _, it := range items {
		if matches(it, filters) {
			n++
		}
	}
	return n
}

func matches[T any](it T, filters []Predicate[T]) bool {
	for _, f := range filters {
		if !f(it) {
			return false
		}
	}
	return true
}

// ContainsFold builds a predicate matching items whose field contains
// needle, ignoring case and diacritics. A blank needle matches everything.
func ContainsFold[T any](field func(T) string, needle string) Predicate[T] {
	n := text.Fold(needle)
	return func(it T) bool {
		if n == "" {
			return true
		}
		return strings.Contains(text.Fold(field(it)), n)
	}
}

// SortBy composes a comparator from sort orders and per-property
// comparators. Unknown properties are ignored; criteria apply in order.
func SortBy[T any](orders []paging.SortOrder, fields map[string]Compare[T]) Compare[T] {
	var chain []Compare[T]
	for _, o := range orders {
		f, ok := fields[o.Property]
		if !ok {
			continue
		}
		if o.IsDescending() {
			asc := f
			f = func(a, b T) int { return asc(b, a) }
		}
		chain = append(chain, f)
	}
	if len(chain) == 0 {
		return nil
	}
	return func(a, b T) int {
		for _, f := range chain {
			if c := f(a, b); c != 0 {
				return c
			}
		}
		return 0
	}
}
