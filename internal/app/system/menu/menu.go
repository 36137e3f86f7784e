// Package menu builds the permission-filtered navigation tree shown in the
// console's side bar.
//
// A Builder holds the candidate sections; Build evaluates every leaf against
// an AccessChecker and produces a Data value that owns the surviving entries.
// Data is never patched: login, logout, locale change and explicit refresh
// all call Build again and replace the previous Data.
package menu

// Entry is one node of the navigation tree.
//
// ParentKey is a non-owning back reference (the parent's PageKey, "" for a
// root). Entries with a Target are navigable leaves and never have children;
// entries without one are grouping nodes.
type Entry struct {
	PageKey       string `json:"key"`
	Title         string `json:"title"`
	Icon          string `json:"icon,omitempty"`
	Target        string `json:"target,omitempty"`
	Path          string `json:"path,omitempty"`
	ParentKey     string `json:"parent,omitempty"`
	HasChildNodes bool   `json:"hasChildren"`
}

// IsLeaf reports whether the entry navigates somewhere.
func (e Entry) IsLeaf() bool { return e.Target != "" }

// Data owns every entry of one build pass and answers tree queries by index
// lookup.
type Data struct {
	entries  []Entry
	index    map[string]int
	children map[string][]int
}

// newData indexes entries in order. Later entries reusing a PageKey are
// dropped so that keys stay unique. Build never emits such duplicates; it
// drops a duplicate's subtree while placing.
func newData(entries []Entry) *Data {
	d := &Data{
		index:    make(map[string]int, len(entries)),
		children: make(map[string][]int),
	}
	for _, e := range entries {
		if _, dup := d.index[e.PageKey]; dup {
			continue
		}
		i := len(d.entries)
		d.entries = append(d.entries, e)
		d.index[e.PageKey] = i
		d.children[e.ParentKey] = append(d.children[e.ParentKey], i)
	}
	return d
}

// Empty returns a Data with no entries.
func Empty() *Data { return newData(nil) }

// Len returns the number of entries.
func (d *Data) Len() int { return len(d.entries) }

// Entries returns all entries in build order.
func (d *Data) Entries() []Entry {
	return append([]Entry(nil), d.entries...)
}

// Roots returns the entries without a parent.
func (d *Data) Roots() []Entry { return d.ChildrenOf("") }

// Children returns the entries attached directly under e, in attachment
// order.
func (d *Data) Children(e Entry) []Entry {
	if e.PageKey == "" {
		return nil
	}
	return d.ChildrenOf(e.PageKey)
}

// ChildrenOf is Children keyed by PageKey. The empty key yields the roots.
func (d *Data) ChildrenOf(key string) []Entry {
	idx := d.children[key]
	out := make([]Entry, 0, len(idx))
	for _, i := range idx {
		out = append(out, d.entries[i])
	}
	return out
}

// Lookup finds an entry by PageKey.
func (d *Data) Lookup(key string) (Entry, bool) {
	i, ok := d.index[key]
	if !ok {
		return Entry{}, false
	}
	return d.entries[i], true
}

// Parent returns the parent of e, if any.
func (d *Data) Parent(e Entry) (Entry, bool) {
	if e.ParentKey == "" {
		return Entry{}, false
	}
	return d.Lookup(e.ParentKey)
}

// FindByTarget returns the first leaf navigating to target.
func (d *Data) FindByTarget(target string) (Entry, bool) {
	for _, e := range d.entries {
		if e.Target == target {
			return e, true
		}
	}
	return Entry{}, false
}

// Node is the nested form of an entry used for JSON responses.
type Node struct {
	Entry
	Children []Node `json:"children,omitempty"`
}

// Nodes returns the whole tree in nested form. It is rendered through Bind,
// so titles and icons come from the same providers a tree widget gets.
func (d *Data) Nodes() []Node {
	var t nodeTree
	Bind(&t, d, nil)
	return t.render(t.roots)
}
