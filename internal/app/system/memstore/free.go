// internal/app/system/memstore/free.go
package memstore

import "slices"

// Row pairs a free item with the temporary id that keeps it distinguishable
// inside the working set.
type Row[T any] struct {
	TempID int64 `json:"tempId"`
	Item   T     `json:"item"`
}

// FreeBackend is the working set for inner entities that have no server
// identity of their own. Every item is keyed by a temporary id drawn from a
// counter that only moves forward for the lifetime of the backend.
type FreeBackend[T any] struct {
	rows    []Row[T]
	compare Compare[T]
	filters []Predicate[T]
	lastID  int64
}

// NewFree returns an empty FreeBackend. compare may be nil for insertion
// order.
func NewFree[T any](compare Compare[T]) *FreeBackend[T] {
	return &FreeBackend[T]{compare: compare}
}

// SetValues replaces the working set. Each item gets a fresh temporary id;
// ids issued before are never reused.
func (b *FreeBackend[T]) SetValues(items []T) {
	b.rows = make([]Row[T], 0, len(items))
	for _, it := range items {
		b.rows = append(b.rows, Row[T]{TempID: b.next(), Item: it})
	}
}

// Values returns the items, sorted by the configured comparator or in
// insertion order.
func (b *FreeBackend[T]) Values() []T {
	rows := b.sortedRows(b.compare)
	out := make([]T, len(rows))
	for i, r := range rows {
		out[i] = r.Item
	}
	return out
}

// Rows returns every row, in the same order as Values.
func (b *FreeBackend[T]) Rows() []Row[T] {
	return b.sortedRows(b.compare)
}

// Persist adds item under a new temporary id and returns that id.
func (b *FreeBackend[T]) Persist(item T) int64 {
	id := b.next()
	b.rows = append(b.rows, Row[T]{TempID: id, Item: item})
	return id
}

// Update replaces the item stored under tempID.
func (b *FreeBackend[T]) Update(tempID int64, item T) bool {
	for i := range b.rows {
		if b.rows[i].TempID == tempID {
			b.rows[i].Item = item
			return true
		}
	}
	return false
}

// Get returns the item stored under tempID.
func (b *FreeBackend[T]) Get(tempID int64) (T, bool) {
	for _, r := range b.rows {
		if r.TempID == tempID {
			return r.Item, true
		}
	}
	var zero T
	return zero, false
}

// Delete removes the row with tempID.
func (b *FreeBackend[T]) Delete(tempID int64) bool {
	for i, r := range b.rows {
		if r.TempID == tempID {
			b.rows = slices.Delete(b.rows, i, i+1)
			return true
		}
	}
	return false
}

// Fetch returns the window [offset, offset+limit) of the filtered rows,
// ordered by compare or the default comparator.
func (b *FreeBackend[T]) Fetch(compare Compare[T], offset, limit int) []Row[T] {
	if compare == nil {
		compare = b.compare
	}
	var rowCmp Compare[Row[T]]
	if compare != nil {
		rowCmp = func(x, y Row[T]) int { return compare(x.Item, y.Item) }
	}
	return window(b.rows, b.rowFilters(), rowCmp, offset, limit)
}

// Size returns the number of rows passing the filters.
func (b *FreeBackend[T]) Size() int {
	return countMatching(b.rows, b.rowFilters())
}

// AddFilter ANDs p with the filters already in place.
func (b *FreeBackend[T]) AddFilter(p Predicate[T]) { b.filters = append(b.filters, p) }

// SetFilter replaces all filters with p. A nil p clears them.
func (b *FreeBackend[T]) SetFilter(p Predicate[T]) {
	b.filters = nil
	if p != nil {
		b.filters = []Predicate[T]{p}
	}
}

// ClearFilters removes every filter.
func (b *FreeBackend[T]) ClearFilters() { b.filters = nil }

// LastTempID returns the most recently issued temporary id.
func (b *FreeBackend[T]) LastTempID() int64 { return b.lastID }

func (b *FreeBackend[T]) next() int64 {
	b.lastID++
	return b.lastID
}

func (b *FreeBackend[T]) sortedRows(compare Compare[T]) []Row[T] {
	rows := slices.Clone(b.rows)
	if compare != nil {
		slices.SortStableFunc(rows, func(x, y Row[T]) int { return compare(x.Item, y.Item) })
	}
	if rows == nil {
		rows = []Row[T]{}
	}
	return rows
}

func (b *FreeBackend[T]) rowFilters() []Predicate[Row[T]] {
	if len(b.filters) == 0 {
		return nil
	}
	out := make([]Predicate[Row[T]], len(b.filters))
	for i, f := range b.filters {
		out[i] = func(r Row[T]) bool { return f(r.Item) }
	}
	return out
}
