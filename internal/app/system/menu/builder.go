// internal/app/system/menu/builder.go
package menu

import "sync"

// AccessChecker decides whether the current user may open a view. It must
// be a pure predicate.
type AccessChecker interface {
	IsAccessGranted(target string) bool
}

// AccessFunc adapts a function to AccessChecker.
type AccessFunc func(target string) bool

// IsAccessGranted implements AccessChecker.
func (f AccessFunc) IsAccessGranted(target string) bool { return f(target) }

// User is the subset of the signed-in user the builder and contributors see.
type User struct {
	ID     string
	Name   string
	Locale string
}

// Item is a candidate menu node. An Item with a Target is a leaf; one
// without is a group whose Children are evaluated recursively.
type Item struct {
	PageKey  string `yaml:"key"`
	Title    string `yaml:"title"`
	Icon     string `yaml:"icon,omitempty"`
	Target   string `yaml:"target,omitempty"`
	Path     string `yaml:"path,omitempty"`
	Children []Item `yaml:"children,omitempty"`
}

// Contributor adds items to a section at build time.
type Contributor func(user User) []Item

// Builder holds the candidate sections and the extension points hooked
// into them. Configure it at startup; Build is safe for concurrent use.
type Builder struct {
	mu           sync.RWMutex
	sections     []Item
	contributors map[string][]Contributor
	forced       map[string]bool
}

// NewBuilder returns a Builder over the given top-level sections.
func NewBuilder(sections ...Item) *Builder {
	return &Builder{
		sections:     sections,
		contributors: make(map[string][]Contributor),
		forced:       make(map[string]bool),
	}
}

// Extend registers a contributor for the group with the given PageKey. The
// group may be a top-level section or a nested group.
func (b *Builder) Extend(groupKey string, c Contributor) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.contributors[groupKey] = append(b.contributors[groupKey], c)
}

// ForceInclude keeps a group in the tree even when none of its leaves is
// granted.
func (b *Builder) ForceInclude(groupKey string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.forced[groupKey] = true
}

// Build evaluates every candidate against checker and returns the resulting
// tree. A nil checker grants nothing.
func (b *Builder) Build(user User, checker AccessChecker) *Data {
	if checker == nil {
		checker = AccessFunc(func(string) bool { return false })
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	p := &placer{b: b, user: user, checker: checker, claimed: make(map[string]bool)}
	var entries []Entry
	for _, s := range b.sections {
		entries = append(entries, p.place(s, "")...)
	}
	return newData(entries)
}

type placer struct {
	b       *Builder
	user    User
	checker AccessChecker
	// claimed holds the keys of placed entries and of groups being placed.
	claimed map[string]bool
}

// place returns the entries for it and its granted descendants, parent
// first, or nothing when the subtree has no granted leaf and is not forced.
// An item whose key is already claimed is dropped with its whole subtree.
func (p *placer) place(it Item, parent string) []Entry {
	if p.claimed[it.PageKey] {
		return nil
	}
	p.claimed[it.PageKey] = true

	e := Entry{
		PageKey:   it.PageKey,
		Title:     it.Title,
		Icon:      it.Icon,
		Target:    it.Target,
		Path:      it.Path,
		ParentKey: parent,
	}

	if it.Target != "" {
		if !p.checker.IsAccessGranted(it.Target) {
			delete(p.claimed, it.PageKey)
			return nil
		}
		return []Entry{e}
	}

	children := it.Children
	for _, c := range p.b.contributors[it.PageKey] {
		children = append(children[:len(children):len(children)], c(p.user)...)
	}

	var below []Entry
	for _, c := range children {
		sub := p.place(c, it.PageKey)
		if len(sub) > 0 {
			e.HasChildNodes = true
		}
		below = append(below, sub...)
	}

	if len(below) == 0 && !p.b.forced[it.PageKey] {
		delete(p.claimed, it.PageKey)
		return nil
	}
	return append([]Entry{e}, below...)
}
