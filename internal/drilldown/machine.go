package drilldown

import (
	"fmt"
	"log/slog"

	"github.com/dloss/drilldown/internal/bookmark"
)

type Phase int

const (
	PhaseIdle Phase = iota
	PhaseBrowsing
	PhaseCreating
)

func (p Phase) String() string {
	switch p {
	case PhaseBrowsing:
		return "browsing"
	case PhaseCreating:
		return "creating"
	default:
		return "idle"
	}
}

// State describes which step of the drilldown is showing. Step is the
// create-wizard step and is only meaningful in PhaseCreating.
type State struct {
	Phase Phase
	Level int
	Step  int
}

type Options struct {
	// Feature is the root segment used when the history has no bookmark.
	Feature string
	// Title labels the home crumb.
	Title string
	// Permission prefixes the create/delete permission checks.
	Permission string

	Policy      Policy
	Shell       Shell
	History     History
	Notifier    Notifier
	Confirmer   Confirmer
	Permissions Permissions

	// FeatureReady reports whether the feature view exists. Navigation
	// attempted before that is ignored. nil means always ready.
	FeatureReady func() bool
	// Deleted runs after a confirmed delete succeeded and, when the feature
	// is still showing, the root bookmark was published.
	Deleted func(model Model)

	Logger *slog.Logger
}

type Machine struct {
	opts        Options
	policy      Policy
	logger      *slog.Logger
	registry    *Registry
	initialized bool

	items    []*Item
	current  int
	phase    Phase
	selected map[int]any
	wizard   *wizardState

	// generation is bumped by every NavigateTo; pending continuations
	// compare against it.
	generation uint64
	// slide identifies the latest panel transition.
	slide uint64
}

func New(opts Options) (*Machine, error) {
	if opts.Policy == nil {
		return nil, &ConfigurationError{Reason: "policy is required"}
	}
	if opts.Shell == nil {
		return nil, &ConfigurationError{Reason: "shell is required"}
	}
	if opts.History == nil {
		return nil, &ConfigurationError{Reason: "history is required"}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Machine{
		opts:     opts,
		policy:   opts.Policy,
		logger:   logger.With("feature", opts.Feature),
		registry: NewRegistry(),
		selected: map[int]any{},
	}, nil
}

// Initialize registers masters (one per level) and the optional terminal
// detail panel.
func (m *Machine) Initialize(masters []Master, detail Panel) error {
	registry := NewRegistry()
	for level, master := range masters {
		if err := registry.RegisterMaster(level, master); err != nil {
			return err
		}
	}
	if detail != nil {
		if len(masters) == 0 {
			if err := registry.RegisterDetail(detail); err != nil {
				return err
			}
		} else {
			registry.setTerminal(detail)
		}
	}
	return m.InitializeRegistry(registry)
}

// InitializeRegistry adopts a registry populated by the caller.
func (m *Machine) InitializeRegistry(registry *Registry) error {
	if err := registry.Validate(); err != nil {
		return fmt.Errorf("initialize %q: %w", m.opts.Feature, err)
	}
	m.registry = registry
	// Continuations of the previous registry must not reach the new items.
	m.generation++
	m.slide++
	m.items = nil
	m.padItems(max(registry.PanelCount(), 1) - 1)
	m.current = 0
	m.phase = PhaseIdle
	m.selected = map[int]any{}
	m.wizard = nil
	m.initialized = true
	return nil
}

func (m *Machine) Registry() *Registry { return m.registry }

func (m *Machine) CurrentIndex() int { return m.current }

func (m *Machine) State() State {
	s := State{Phase: m.phase, Level: m.current}
	if m.wizard != nil {
		s.Step = m.wizard.step
	}
	return s
}

// SelectedID returns the identifier selected at level.
func (m *Machine) SelectedID(level int) (any, bool) {
	id, ok := m.selected[level]
	return id, ok
}

func (m *Machine) ready() bool {
	if !m.initialized {
		return false
	}
	return m.opts.FeatureReady == nil || m.opts.FeatureReady()
}

// Activate is called when the feature view becomes active.
func (m *Machine) Activate() {
	m.current = 0
	if m.registry.LevelCount() == 0 {
		m.loadView(0, nil, false)
		return
	}
	m.Reselect()
}

type selectionConfig struct {
	publish bool
}

type SelectionOption func(*selectionConfig)

// WithoutBookmark suppresses publishing the resulting bookmark.
func WithoutBookmark() SelectionOption {
	return func(c *selectionConfig) { c.publish = false }
}

// OnSelection handles a row selected by the user in the master at level.
func (m *Machine) OnSelection(level int, model Model, opts ...SelectionOption) {
	cfg := selectionConfig{publish: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if level+1 != m.current {
		m.loadView(level+1, model, cfg.publish)
		return
	}

	master := m.registry.Master(level)
	if master == nil {
		return
	}
	master.Select(model)
	m.modelChanged(level, model)
	m.selected[level] = m.policy.ModelID(model)
	m.RefreshBreadcrumb()
	if cfg.publish {
		m.publish(m.bookmarkFor(level+1, model))
	}
}

// LoadView shows level, selecting model in the parent master first when given.
func (m *Machine) LoadView(level int, model Model) {
	m.loadView(level, model, true)
}

func (m *Machine) loadView(level int, model Model, publish bool) {
	if !m.ready() {
		m.logger.Debug("feature not ready, ignoring load", "level", level)
		return
	}
	if level < 0 {
		return
	}

	if model != nil && level > 0 {
		if master := m.registry.Master(level - 1); master != nil {
			master.Select(model)
			m.modelChanged(level-1, model)
		}
	}

	m.trimSelections(level)
	if model != nil && level > 0 {
		m.selected[level-1] = m.policy.ModelID(model)
	}

	target := m.bookmarkFor(level, model)
	for i := 0; i <= level; i++ {
		m.SetItemBookmark(i, target.Truncate(i+1))
	}

	m.showChild(level)
	if publish {
		m.publish(target)
	}
}

// SelectModel selects model in the master at level, moving to level+1 first
// when it is not already showing.
func (m *Machine) SelectModel(level int, model Model) {
	if level+1 != m.current {
		m.loadView(level+1, model, true)
		return
	}
	master := m.registry.Master(level)
	if master == nil {
		return
	}
	master.Select(model)
	m.modelChanged(level, model)
	m.selected[level] = m.policy.ModelID(model)
	m.RefreshBreadcrumb()
}

// Reselect restores the selection described by the current bookmark, for
// example after a store reload.
func (m *Machine) Reselect() {
	if m.registry.LevelCount() == 0 {
		return
	}
	m.NavigateTo(m.opts.History.Current())
}

// OnDelete deletes the single row selected in the first master after
// confirmation, then resets the bookmark to the feature root.
func (m *Machine) OnDelete() {
	master := m.registry.Master(0)
	if master == nil {
		return
	}
	selection := master.Selection()
	if len(selection) != 1 {
		return
	}
	deleter, ok := m.policy.(Deleter)
	if !ok {
		m.logger.Warn("delete requested but policy cannot delete")
		return
	}
	if m.opts.Confirmer == nil {
		m.logger.Warn("delete requested without a confirmation layer")
		return
	}

	model := selection[0]
	m.opts.Confirmer.AskConfirmation("Confirm deletion?", m.policy.Describe(model), func() {
		deleter.DeleteModel(model, func(err error) {
			m.deleted(model, err)
		})
	})
}

func (m *Machine) deleted(model Model, err error) {
	if err != nil {
		m.logger.Warn("delete failed", "model", m.policy.ModelID(model), "error", err)
		m.notify(err.Error(), SeverityError)
		return
	}
	if m.ready() {
		m.publish(m.root())
	}
	if m.opts.Deleted != nil {
		m.opts.Deleted(model)
	}
}

func (m *Machine) CanCreate() bool { return m.permitted("create") }
func (m *Machine) CanDelete() bool { return m.permitted("delete") }

func (m *Machine) permitted(action string) bool {
	if m.opts.Permissions == nil || m.opts.Permission == "" {
		return true
	}
	return m.opts.Permissions.IsPermitted(m.opts.Permission + ":" + action)
}

func (m *Machine) notify(text string, severity Severity) {
	if m.opts.Notifier != nil {
		m.opts.Notifier.AddMessage(text, severity)
	}
}

func (m *Machine) publish(b bookmark.Bookmark) {
	if b.IsEmpty() {
		return
	}
	m.opts.History.Bookmark(b)
}

func (m *Machine) root() bookmark.Bookmark {
	if root := m.opts.History.Current().Root(); !root.IsEmpty() {
		return root
	}
	return bookmark.FromSegments([]string{m.opts.Feature})
}

// bookmarkFor builds the bookmark of level: the root segment, the parent
// identifiers already in the current bookmark (capped at the number of
// masters), then model's identifier.
func (m *Machine) bookmarkFor(level int, model Model) bookmark.Bookmark {
	current := m.opts.History.Current()
	segments := m.root().Segments()

	parents := min(level-1, m.registry.LevelCount())
	for i := 0; i < parents; i++ {
		segment, ok := current.Segment(i + 1)
		if !ok {
			id, known := m.selected[i]
			if !known {
				break
			}
			segment = bookmark.EncodeID(id)
		}
		segments = append(segments, segment)
	}

	if model != nil {
		segments = append(segments, bookmark.EncodeID(m.policy.ModelID(model)))
	}
	return bookmark.FromSegments(segments)
}

func (m *Machine) trimSelections(level int) {
	for l := range m.selected {
		if l >= level {
			delete(m.selected, l)
		}
	}
}

// modelChanged refreshes the name and icon of the level revealed by model.
func (m *Machine) modelChanged(level int, model Model) {
	if m.registry.Master(level) == nil {
		return
	}
	m.SetItemName(level+1, m.policy.Describe(model))
	if icons, ok := m.policy.(IconClasser); ok {
		if cls := icons.IconClass(model); cls != "" {
			m.SetItemIconClass(level+1, cls)
		}
	}
}

func (m *Machine) showChild(level int) {
	if level >= len(m.items) {
		m.logger.Debug("no drilldown item at level", "level", level)
		return
	}
	m.wizard = nil
	for i := level; i < len(m.items); i++ {
		m.items[i].Card = CardBrowse
	}
	for i := range m.items {
		m.clearCreateContent(i)
	}
	m.slidePanels(level)
}

func (m *Machine) slidePanels(level int) {
	if level < 0 || level >= len(m.items) {
		return
	}
	m.current = level
	m.phase = PhaseBrowsing
	if it := m.items[level]; it.Card == CardCreate {
		// Revisiting an earlier wizard step resumes it.
		m.wizard = &wizardState{step: level, content: it.content}
		m.phase = PhaseCreating
	}
	m.slide++
	token := m.slide
	m.opts.Shell.ShowLevel(level, m.items[level].Card, func() {
		m.activated(token, level)
	})
}

// activated runs once the shell shows level. Disabling happens only here so
// the panel receiving focus is never disabled mid-transition.
func (m *Machine) activated(token uint64, level int) {
	if token != m.slide || level >= len(m.items) {
		m.logger.Debug("ignoring stale panel activation", "level", level)
		return
	}
	m.RefreshBreadcrumb()
	m.hideAllExceptAndFocus(level)

	for i := level + 1; i < len(m.items); i++ {
		m.clearCreateContent(i)
		m.items[i].Card = CardBrowse
	}
	if m.wizard != nil && m.wizard.step > level {
		m.wizard = nil
		m.phase = PhaseBrowsing
	}
}

func (m *Machine) hideAllExceptAndFocus(index int) {
	for i, it := range m.items {
		active := i == index
		it.Enabled = active
		if panel, ok := m.registry.ViewAt(i); ok {
			panel.SetEnabled(active && it.Card == CardBrowse)
		}
		if panel, ok := it.content.(Panel); ok {
			panel.SetEnabled(active && it.Card == CardCreate)
		}
	}

	focused := false
	it := m.items[index]
	if it.Card == CardCreate {
		if panel, ok := it.content.(Panel); ok {
			focused = panel.Focus()
		}
	} else if panel, ok := m.registry.ViewAt(index); ok {
		focused = panel.Focus()
	}
	if !focused {
		m.opts.Shell.FocusContainer()
	}
}
