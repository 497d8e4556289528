package drilldown

import "github.com/dloss/drilldown/internal/bookmark"

// Crumb is one breadcrumb button. Each crumb carries everything its handler
// needs; pass it back to FollowCrumb when activated.
type Crumb struct {
	Level     int
	Name      string
	IconClass string
	Bookmark  bookmark.Bookmark
	Home      bool
	// Disabled marks the crumb for the level currently shown.
	Disabled bool
}

// Breadcrumb builds the crumbs for the current level. Construction stops at
// the first level without a name, so a partial trail never has gaps.
func (m *Machine) Breadcrumb() []Crumb {
	if m.current == 0 || len(m.items) == 0 {
		return nil
	}
	home := m.items[0]
	crumbs := []Crumb{{
		Level:     0,
		Name:      m.opts.Title,
		IconClass: home.IconClass,
		Bookmark:  home.Bookmark,
		Home:      true,
	}}
	for i := 1; i <= m.current && i < len(m.items); i++ {
		it := m.items[i]
		if it.Name == "" {
			break
		}
		crumbs = append(crumbs, Crumb{
			Level:     i,
			Name:      it.Name,
			IconClass: it.IconClass,
			Bookmark:  it.Bookmark,
			Disabled:  i == m.current,
		})
	}
	return crumbs
}

// RefreshBreadcrumb re-renders the breadcrumb, or the feature root at level 0.
func (m *Machine) RefreshBreadcrumb() {
	if m.current == 0 {
		m.opts.Shell.ShowRoot()
		return
	}
	m.opts.Shell.ShowBreadcrumb(m.Breadcrumb())
}

// FollowCrumb is the handler of a breadcrumb button.
func (m *Machine) FollowCrumb(c Crumb) {
	if c.Disabled {
		return
	}
	if c.Home {
		m.LoadView(0, nil)
		return
	}
	m.trimSelections(c.Level)
	m.publish(c.Bookmark)
	m.slidePanels(c.Level)
}
