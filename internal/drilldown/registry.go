package drilldown

import "sort"

// Registry holds the master panels of a drilldown and its optional detail
// panel. Levels may be registered in any order but must end up contiguous
// from 0; Validate reports gaps.
type Registry struct {
	masters    map[int]Master
	detail     Panel
	detailOnly bool
	err        error
}

func NewRegistry() *Registry {
	return &Registry{masters: map[int]Master{}}
}

func (r *Registry) RegisterMaster(level int, view Master) error {
	if level < 0 {
		return r.fail(&ConfigurationError{Reason: "negative master level"})
	}
	if view == nil {
		return r.fail(&ConfigurationError{Reason: "nil master view"})
	}
	if r.detailOnly {
		return r.fail(&ConfigurationError{Reason: "masters cannot be combined with a registered detail-only panel"})
	}
	if _, ok := r.masters[level]; ok {
		return r.fail(&RegistryGapError{Level: level, Duplicate: true})
	}
	r.masters[level] = view
	return nil
}

// RegisterDetail registers the panel of a detail-only drilldown.
func (r *Registry) RegisterDetail(view Panel) error {
	if view == nil {
		return r.fail(&ConfigurationError{Reason: "nil detail view"})
	}
	if len(r.masters) > 0 {
		return r.fail(&ConfigurationError{Reason: "detail panel is only valid when no masters are registered"})
	}
	r.detail = view
	r.detailOnly = true
	return nil
}

// setTerminal places the detail panel after the masters.
func (r *Registry) setTerminal(view Panel) {
	r.detail = view
}

func (r *Registry) fail(err error) error {
	if r.err == nil {
		r.err = err
	}
	return err
}

// Validate returns the first registration error or the first gap.
func (r *Registry) Validate() error {
	if r.err != nil {
		return r.err
	}
	if len(r.masters) == 0 && r.detail == nil {
		return &ConfigurationError{Reason: "no masters and no detail registered"}
	}
	levels := make([]int, 0, len(r.masters))
	for level := range r.masters {
		levels = append(levels, level)
	}
	sort.Ints(levels)
	for expected, level := range levels {
		if level != expected {
			return &RegistryGapError{Level: level, Expected: expected}
		}
	}
	return nil
}

// LevelCount is the number of registered masters.
func (r *Registry) LevelCount() int {
	return len(r.masters)
}

func (r *Registry) Master(level int) Master {
	return r.masters[level]
}

func (r *Registry) Detail() Panel {
	return r.detail
}

// ViewAt returns the panel shown at level: a master, or the detail panel in
// the slot after the last master.
func (r *Registry) ViewAt(level int) (Panel, bool) {
	if master, ok := r.masters[level]; ok {
		return master, true
	}
	if r.detail != nil && level == len(r.masters) {
		return r.detail, true
	}
	return nil, false
}

// PanelCount is the number of levels backed by a panel.
func (r *Registry) PanelCount() int {
	if r.detail != nil {
		return len(r.masters) + 1
	}
	return len(r.masters)
}
