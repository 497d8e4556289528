package drilldown

import (
	"fmt"
	"strconv"

	"github.com/dloss/drilldown/internal/bookmark"
)

// NavigateTo shows the location described by b. The history layer is
// expected to report b as its current bookmark already.
func (m *Machine) NavigateTo(b bookmark.Bookmark) {
	if !m.ready() {
		m.logger.Debug("feature not ready, ignoring navigation", "bookmark", b.Token())
		return
	}
	m.generation++
	gen := m.generation

	ids := b.ModelIDs()
	levels := m.registry.LevelCount()
	if len(ids) == 0 || levels == 0 {
		m.loadView(0, nil, true)
		return
	}
	if len(ids) > levels {
		m.logger.Debug("bookmark deeper than drilldown, truncating", "bookmark", b.Token(), "levels", levels)
		ids = ids[:levels]
	}

	m.logger.Debug("navigate", "bookmark", b.Token(), "generation", gen)
	m.resolve(gen, ids, 0)
}

// resolve walks the identifier chain. Intermediate identifiers are selected
// on their masters so the next level can load; the last one is resolved
// with SelectModelByID.
func (m *Machine) resolve(gen uint64, ids []string, level int) {
	if gen != m.generation {
		m.logger.Debug("dropping stale navigation", "generation", gen, "current", m.generation)
		return
	}
	master := m.registry.Master(level)
	if master == nil {
		return
	}

	store := master.Store()
	if store.IsLoading() || !store.IsLoaded() {
		m.logger.Debug("store not loaded, deferring navigation", "level", level)
		store.OnLoad(func() {
			m.resolve(gen, ids, level)
		})
		return
	}

	id := ids[level]
	if level == len(ids)-1 {
		m.selectModelByID(gen, level, id)
		return
	}

	if store.Count() == 0 {
		return
	}
	model, ok := m.lookup(store, id)
	if !ok {
		m.fallback(gen, level, id, func(found Model) {
			m.descend(gen, ids, level, found)
		})
		return
	}
	m.descend(gen, ids, level, model)
}

func (m *Machine) descend(gen uint64, ids []string, level int, model Model) {
	master := m.registry.Master(level)
	if master == nil {
		return
	}
	if !m.isSelected(master, model) {
		master.Select(model)
		m.modelChanged(level, model)
	}
	m.selected[level] = m.policy.ModelID(model)
	m.resolve(gen, ids, level+1)
}

func (m *Machine) isSelected(master Master, model Model) bool {
	selection := master.Selection()
	return len(selection) == 1 && m.policy.ModelID(selection[0]) == m.policy.ModelID(model)
}

// SelectModelByID selects the model identified by id in the master at level.
func (m *Machine) SelectModelByID(level int, id string) {
	m.selectModelByID(m.generation, level, id)
}

func (m *Machine) selectModelByID(gen uint64, level int, id string) {
	master := m.registry.Master(level)
	if master == nil {
		return
	}
	store := master.Store()
	// An empty store shows nothing, which is correct; a later load reselects.
	if store.Count() == 0 {
		return
	}

	model, ok := m.lookup(store, id)
	if !ok {
		m.fallback(gen, level, id, func(found Model) {
			m.SelectModel(level, found)
		})
		return
	}
	m.SelectModel(level, model)
}

// lookup finds id in store, retrying with id as an integer.
func (m *Machine) lookup(store Store, id string) (Model, bool) {
	index := store.FindBy(func(model Model) bool {
		return m.policy.ModelID(model) == any(id)
	})
	if index < 0 {
		if n, err := strconv.Atoi(id); err == nil {
			index = store.FindBy(func(model Model) bool {
				return m.policy.ModelID(model) == any(n)
			})
		}
	}
	if index < 0 {
		return nil, false
	}
	return store.GetAt(index), true
}

func (m *Machine) fallback(gen uint64, level int, id string, onFound func(Model)) {
	handled := m.policy.ResolveFallback(level, id, func(model Model) {
		if gen != m.generation {
			m.logger.Debug("dropping stale fallback result", "level", level, "id", id)
			return
		}
		if model == nil {
			m.NotFound(level, id)
			return
		}
		onFound(model)
	})
	if !handled {
		m.NotFound(level, id)
	}
}

// NotFound reports an identifier that could not be resolved at level.
func (m *Machine) NotFound(level int, id string) {
	kind := "Record"
	if master := m.registry.Master(level); master != nil {
		if named, ok := master.Store().(interface{ Name() string }); ok && named.Name() != "" {
			kind = named.Name()
		}
	}
	m.logger.Debug("model not found", "level", level, "id", id)
	m.notify(fmt.Sprintf("%s (%s) not found", kind, id), SeverityWarning)
}
