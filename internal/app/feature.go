package app

import (
	"strings"

	"github.com/dloss/drilldown/internal/drilldown"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/detailview"
	"github.com/dloss/drilldown/internal/ui/listview"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// featureView hosts one feature's drilldown. It is the drilldown.Shell of
// that feature's Machine.
type featureView struct {
	app     *Model
	feature resources.Feature
	machine *drilldown.Machine
	policy  *resources.RecordPolicy

	stores  []*resources.Store
	masters []*listview.View
	detail  *detailview.View

	opened bool
	level  int
	card   drilldown.CardState
	crumbs []drilldown.Crumb
	// containerFocus is set when the shown panel had nothing to focus.
	containerFocus bool
	create         map[int]viewstate.View
	wizard         *wizardRun
}

type wizardRun struct {
	def    *resources.Wizard
	recipe string
}

func newFeatureView(m *Model, f resources.Feature) (*featureView, error) {
	fv := &featureView{app: m, feature: f, create: map[int]viewstate.View{}}
	fv.policy = resources.NewRecordPolicy(f, m.dispatch, m.logger)

	machine, err := drilldown.New(drilldown.Options{
		Feature:      f.Path,
		Title:        f.Title,
		Permission:   f.Permission,
		Policy:       fv.policy,
		Shell:        fv,
		History:      m.history,
		Notifier:     m,
		Confirmer:    m,
		Permissions:  m.permissions,
		FeatureReady: func() bool { return m.active == fv },
		Deleted:      func(drilldown.Model) { fv.deleted() },
		Logger:       m.logger,
	})
	if err != nil {
		return nil, err
	}
	fv.machine = machine

	masters := make([]drilldown.Master, 0, len(f.Masters))
	for level, source := range f.Masters {
		store := resources.NewStore(source)
		view := listview.New(level, store)
		view.OnSelect = func(r resources.Record) { fv.selected(level, r) }
		view.SetColumnStore(m.columns)
		switch {
		case level+1 < len(f.Masters):
			view.SetChildHint(f.Masters[level+1].Name() + "s")
		case f.Detail:
			view.SetChildHint("Detail")
		}
		fv.stores = append(fv.stores, store)
		fv.masters = append(fv.masters, view)
		masters = append(masters, view)
	}

	var detail drilldown.Panel
	if f.Detail {
		fv.detail = detailview.New()
		detail = fv.detail
	}
	if err := machine.Initialize(masters, detail); err != nil {
		return nil, err
	}
	return fv, nil
}

// selected runs when a master commits a selection: the next level starts
// loading the children of record, or the detail panel shows it.
func (fv *featureView) selected(level int, record resources.Record) {
	next := level + 1
	if next >= len(fv.stores) {
		if fv.detail != nil {
			fv.detail.SetRecord(record)
		}
		return
	}
	for l := next + 1; l < len(fv.stores); l++ {
		fv.stores[l].Reset()
		fv.masters[l].ClearSelection()
		fv.masters[l].Refresh()
	}
	fv.masters[next].ClearSelection()
	fv.app.load(fv, next, fv.stores[next].Begin(&record))
	fv.masters[next].Refresh()
}

// deleted reloads the stores once a confirmed delete went through. A feature
// that is no longer showing reloads without reselecting.
func (fv *featureView) deleted() {
	fv.app.reload(fv, fv.app.active == fv)
}

// panel returns the view receiving keys, or nil.
func (fv *featureView) panel() viewstate.View {
	if fv.card == drilldown.CardCreate {
		return fv.create[fv.level]
	}
	if fv.level < len(fv.masters) {
		return fv.masters[fv.level]
	}
	if fv.detail != nil && fv.level == len(fv.masters) {
		return fv.detail
	}
	return nil
}

func (fv *featureView) setSize(width, height int) {
	for _, master := range fv.masters {
		master.SetSize(width, height)
	}
	if fv.detail != nil {
		fv.detail.SetSize(width, height)
	}
	for _, content := range fv.create {
		content.SetSize(width, height)
	}
}

func (fv *featureView) kind(level int) string {
	if level >= 0 && level < len(fv.stores) {
		return strings.ToLower(fv.stores[level].Name())
	}
	return "record"
}

func (fv *featureView) ShowLevel(level int, card drilldown.CardState, activated func()) {
	fv.level = level
	fv.card = card
	fv.containerFocus = false
	fv.app.queue(callback(activated))
}

func (fv *featureView) ShowRoot() {
	fv.crumbs = nil
}

func (fv *featureView) ShowBreadcrumb(crumbs []drilldown.Crumb) {
	fv.crumbs = crumbs
}

func (fv *featureView) FocusContainer() {
	fv.containerFocus = true
}

func (fv *featureView) SetCreateContent(level int, content any) {
	view, ok := content.(viewstate.View)
	if !ok {
		delete(fv.create, level)
		return
	}
	view.SetSize(fv.app.width, fv.app.availableHeight())
	fv.create[level] = view
}
