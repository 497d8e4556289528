package drilldown

import "github.com/dloss/drilldown/internal/bookmark"

// CardState selects which card a level shows.
type CardState int

const (
	CardBrowse CardState = iota
	CardCreate
	CardBlank
)

func (c CardState) String() string {
	switch c {
	case CardCreate:
		return "create"
	case CardBlank:
		return "blank"
	default:
		return "browse"
	}
}

// Item is the per-level state behind one breadcrumb segment.
type Item struct {
	Index     int
	Name      string
	IconClass string
	Bookmark  bookmark.Bookmark
	Card      CardState
	Enabled   bool

	content any
}

// Content is the component injected into the level's create slot, if any.
func (it Item) Content() any { return it.content }

// padItems creates placeholder items up to and including level.
func (m *Machine) padItems(level int) []*Item {
	for len(m.items) <= level {
		m.items = append(m.items, &Item{Index: len(m.items)})
	}
	return m.items
}

func (m *Machine) SetItemName(level int, name string) {
	if level < 0 {
		return
	}
	m.padItems(level)[level].Name = name
}

func (m *Machine) SetItemIconClass(level int, iconClass string) {
	if level < 0 {
		return
	}
	m.padItems(level)[level].IconClass = iconClass
}

func (m *Machine) SetItemBookmark(level int, b bookmark.Bookmark) {
	if level < 0 {
		return
	}
	m.padItems(level)[level].Bookmark = b
}

func (m *Machine) Item(level int) (Item, bool) {
	if level < 0 || level >= len(m.items) {
		return Item{}, false
	}
	return *m.items[level], true
}

func (m *Machine) Items() []Item {
	out := make([]Item, len(m.items))
	for i, it := range m.items {
		out[i] = *it
	}
	return out
}

func (m *Machine) ItemCount() int { return len(m.items) }

// clearCreateContent discards injected create components at level.
func (m *Machine) clearCreateContent(level int) {
	it := m.items[level]
	if it.content == nil {
		return
	}
	it.content = nil
	m.opts.Shell.SetCreateContent(level, nil)
}
