// internal/app/system/menu/tree.go
package menu

// Tree is the tree widget a Data value is rendered into.
type Tree interface {
	SetItems(roots []Entry, childrenOf func(Entry) []Entry)
	SetItemIconProvider(func(Entry) string)
	SetItemTitleProvider(func(Entry) string)
	OnSelectionChange(func(Entry))
}

// Bind pushes d into t and forwards single-selection changes to onSelect.
// A nil onSelect leaves the widget's selection listener unset.
func Bind(t Tree, d *Data, onSelect func(Entry)) {
	if d == nil {
		d = Empty()
	}
	t.SetItems(d.Roots(), d.Children)
	t.SetItemIconProvider(func(e Entry) string { return e.Icon })
	t.SetItemTitleProvider(func(e Entry) string { return e.Title })
	if onSelect != nil {
		t.OnSelectionChange(onSelect)
	}
}

// nodeTree is the Tree behind Data.Nodes.
type nodeTree struct {
	roots    []Entry
	children func(Entry) []Entry
	icon     func(Entry) string
	title    func(Entry) string
}

func (t *nodeTree) SetItems(roots []Entry, childrenOf func(Entry) []Entry) {
	t.roots, t.children = roots, childrenOf
}
func (t *nodeTree) SetItemIconProvider(fn func(Entry) string)  { t.icon = fn }
func (t *nodeTree) SetItemTitleProvider(fn func(Entry) string) { t.title = fn }
func (t *nodeTree) OnSelectionChange(func(Entry))              {}

func (t *nodeTree) render(entries []Entry) []Node {
	if len(entries) == 0 {
		return nil
	}
	out := make([]Node, 0, len(entries))
	for _, e := range entries {
		kids := t.children(e)
		e.Icon, e.Title = t.icon(e), t.title(e)
		out = append(out, Node{Entry: e, Children: t.render(kids)})
	}
	return out
}
