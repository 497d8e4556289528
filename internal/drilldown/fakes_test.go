package drilldown

import (
	"errors"
	"testing"

	"github.com/dloss/drilldown/internal/bookmark"
)

type record struct {
	id   any
	name string
}

type fakeStore struct {
	name    string
	models  []Model
	loading bool
	loaded  bool
	loads   int
	onLoad  []func()
}

func loadedStore(name string, models ...Model) *fakeStore {
	return &fakeStore{name: name, models: models, loaded: true}
}

func (s *fakeStore) Name() string    { return s.name }
func (s *fakeStore) IsLoading() bool { return s.loading }
func (s *fakeStore) IsLoaded() bool  { return s.loaded }
func (s *fakeStore) Load()           { s.loads++ }
func (s *fakeStore) Count() int      { return len(s.models) }
func (s *fakeStore) GetAt(i int) Model {
	return s.models[i]
}
func (s *fakeStore) FindBy(fn func(Model) bool) int {
	for i, model := range s.models {
		if fn(model) {
			return i
		}
	}
	return -1
}
func (s *fakeStore) OnLoad(fn func()) { s.onLoad = append(s.onLoad, fn) }

func (s *fakeStore) finish(models ...Model) {
	s.models = models
	s.loading = false
	s.loaded = true
	callbacks := s.onLoad
	s.onLoad = nil
	for _, fn := range callbacks {
		fn()
	}
}

type fakePanel struct {
	enabled bool
	focus   bool
	focused int
}

func (p *fakePanel) SetEnabled(enabled bool) { p.enabled = enabled }
func (p *fakePanel) Enabled() bool           { return p.enabled }
func (p *fakePanel) Focus() bool {
	p.focused++
	return p.focus
}

type fakeMaster struct {
	fakePanel
	store    *fakeStore
	selected []Model
	selects  int
	onSelect func(Model)
}

func newMaster(store *fakeStore) *fakeMaster {
	return &fakeMaster{store: store}
}

func (m *fakeMaster) Store() Store       { return m.store }
func (m *fakeMaster) Selection() []Model { return m.selected }
func (m *fakeMaster) Select(model Model) {
	m.selects++
	m.selected = []Model{model}
	if m.onSelect != nil {
		m.onSelect(model)
	}
}

type showCall struct {
	level int
	card  CardState
}

type fakeShell struct {
	manual     bool
	pending    []func()
	shows      []showCall
	roots      int
	crumbs     []Crumb
	focusCalls int
	content    map[int]any
}

func newShell() *fakeShell {
	return &fakeShell{content: map[int]any{}}
}

func (s *fakeShell) ShowLevel(level int, card CardState, activated func()) {
	s.shows = append(s.shows, showCall{level: level, card: card})
	if s.manual {
		s.pending = append(s.pending, activated)
		return
	}
	activated()
}

func (s *fakeShell) activateAll() {
	pending := s.pending
	s.pending = nil
	for _, fn := range pending {
		fn()
	}
}

func (s *fakeShell) ShowRoot() {
	s.roots++
	s.crumbs = nil
}
func (s *fakeShell) ShowBreadcrumb(crumbs []Crumb) { s.crumbs = crumbs }
func (s *fakeShell) FocusContainer()               { s.focusCalls++ }
func (s *fakeShell) SetCreateContent(level int, content any) {
	if content == nil {
		delete(s.content, level)
		return
	}
	s.content[level] = content
}

type fakeHistory struct {
	current   bookmark.Bookmark
	published []bookmark.Bookmark
}

func (h *fakeHistory) Current() bookmark.Bookmark { return h.current }
func (h *fakeHistory) Bookmark(b bookmark.Bookmark) {
	h.current = b
	h.published = append(h.published, b)
}

func (h *fakeHistory) last(t *testing.T) bookmark.Bookmark {
	t.Helper()
	if len(h.published) == 0 {
		t.Fatal("expected a published bookmark")
	}
	return h.published[len(h.published)-1]
}

type fakePolicy struct {
	fallback  func(level int, id string, found func(Model)) bool
	fallbacks int
	deleted   []Model
	deleteErr error
	// deferDelete holds the outcome until finishDelete is called.
	deferDelete bool
	pending     func()
}

func (p *fakePolicy) Describe(model Model) string { return model.(record).name }
func (p *fakePolicy) ModelID(model Model) any     { return model.(record).id }
func (p *fakePolicy) IconClass(model Model) string {
	return "icon-" + model.(record).name
}
func (p *fakePolicy) ResolveFallback(level int, id string, found func(Model)) bool {
	p.fallbacks++
	if p.fallback == nil {
		return false
	}
	return p.fallback(level, id, found)
}
func (p *fakePolicy) DeleteModel(model Model, done func(error)) {
	finish := func() {
		if p.deleteErr != nil {
			done(p.deleteErr)
			return
		}
		p.deleted = append(p.deleted, model)
		done(nil)
	}
	if p.deferDelete {
		p.pending = finish
		return
	}
	finish()
}

func (p *fakePolicy) finishDelete() {
	finish := p.pending
	p.pending = nil
	finish()
}

type message struct {
	text     string
	severity Severity
}

type fakeNotifier struct{ messages []message }

func (n *fakeNotifier) AddMessage(text string, severity Severity) {
	n.messages = append(n.messages, message{text: text, severity: severity})
}

type fakeConfirmer struct {
	title, message string
	confirm        func()
}

func (c *fakeConfirmer) AskConfirmation(title, message string, onConfirm func()) {
	c.title = title
	c.message = message
	c.confirm = onConfirm
}

type permissionSet map[string]bool

func (p permissionSet) IsPermitted(action string) bool { return p[action] }

type harness struct {
	machine  *Machine
	shell    *fakeShell
	history  *fakeHistory
	policy   *fakePolicy
	notifier *fakeNotifier
	confirm  *fakeConfirmer
	masters  []*fakeMaster
	detail   *fakePanel
	ready    bool
}

func newHarness(t *testing.T, stores ...*fakeStore) *harness {
	t.Helper()
	h := &harness{
		shell:    newShell(),
		history:  &fakeHistory{current: bookmark.FromSegments([]string{"security/users"})},
		policy:   &fakePolicy{},
		notifier: &fakeNotifier{},
		confirm:  &fakeConfirmer{},
		detail:   &fakePanel{},
		ready:    true,
	}
	machine, err := New(Options{
		Feature:      "security/users",
		Title:        "Users",
		Permission:   "nexus:users",
		Policy:       h.policy,
		Shell:        h.shell,
		History:      h.history,
		Notifier:     h.notifier,
		Confirmer:    h.confirm,
		FeatureReady: func() bool { return h.ready },
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	masters := make([]Master, 0, len(stores))
	for _, store := range stores {
		master := newMaster(store)
		h.masters = append(h.masters, master)
		masters = append(masters, master)
	}
	if err := machine.Initialize(masters, h.detail); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.machine = machine
	return h
}

// navigate publishes b through the history layer and navigates to it, as
// browser back/forward would.
func (h *harness) navigate(b bookmark.Bookmark) {
	h.history.current = b
	h.machine.NavigateTo(b)
}

func crumbNames(crumbs []Crumb) []string {
	names := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		names = append(names, c.Name)
	}
	return names
}

var errDeleteFailed = errors.New("delete failed: permission denied")
