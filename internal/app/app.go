// Package app is the terminal console hosting one drilldown per feature.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/bookmark"
	"github.com/dloss/drilldown/internal/columnconfig"
	"github.com/dloss/drilldown/internal/drilldown"
	"github.com/dloss/drilldown/internal/history"
	"github.com/dloss/drilldown/internal/refresh"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/breadcrumb"
	"github.com/dloss/drilldown/internal/ui/columnpicker"
	"github.com/dloss/drilldown/internal/ui/commandbar"
	"github.com/dloss/drilldown/internal/ui/confirmdialog"
	"github.com/dloss/drilldown/internal/ui/helpview"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
	"github.com/dloss/drilldown/internal/ui/wizardview"
)

const footerLines = 3

type Options struct {
	Registry *resources.Registry
	// Catalog receives records created by wizards.
	Catalog     *resources.Catalog
	History     *history.History
	Permissions drilldown.Permissions
	// Start is shown first when the history is empty.
	Start   bookmark.Bookmark
	Refresh <-chan refresh.Event
	Logger  *slog.Logger
	// Clipboard defaults to the system clipboard.
	Clipboard func(text string) error
	// NoticeTTL is how long banner messages stay; 0 keeps them until the
	// next one.
	NoticeTTL time.Duration
}

// Model is the Bubble Tea root model. It implements drilldown.Notifier and
// drilldown.Confirmer for every feature.
type Model struct {
	ctx         context.Context
	logger      *slog.Logger
	registry    *resources.Registry
	catalog     *resources.Catalog
	history     *history.History
	permissions drilldown.Permissions
	start       bookmark.Bookmark
	refresh     <-chan refresh.Event
	clipboard   func(string) error
	noticeTTL   time.Duration

	features []*featureView
	active   *featureView
	columns  *columnconfig.Store

	overlay   viewstate.View
	onConfirm func()
	command   *commandbar.Model
	commandOn bool

	notice  notice
	pending []bubbletea.Cmd
	width   int
	height  int
}

func New(ctx context.Context, opts Options) (*Model, error) {
	if opts.Registry == nil || len(opts.Registry.Features()) == 0 {
		return nil, errors.New("app: no features registered")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	hist := opts.History
	if hist == nil {
		hist = history.New(bookmark.Bookmark{})
	}
	copyFn := opts.Clipboard
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	m := &Model{
		ctx:         ctx,
		logger:      logger,
		registry:    opts.Registry,
		catalog:     opts.Catalog,
		history:     hist,
		permissions: opts.Permissions,
		start:       opts.Start,
		refresh:     opts.Refresh,
		clipboard:   copyFn,
		noticeTTL:   opts.NoticeTTL,
		command:     commandbar.New(),
		columns:     columnconfig.New(),
	}

	var tokens []string
	for _, f := range opts.Registry.Features() {
		fv, err := newFeatureView(m, f)
		if err != nil {
			return nil, fmt.Errorf("feature %s: %w", f.Path, err)
		}
		m.features = append(m.features, fv)
		tokens = append(tokens, f.Path)
	}
	m.command.SetCompletions(tokens)
	hist.Subscribe(func(b bookmark.Bookmark) {
		logger.Debug("bookmark", "token", b.Token())
	})
	return m, nil
}

func (m *Model) Init() bubbletea.Cmd {
	start := m.history.Current()
	if start.IsEmpty() {
		start = m.start
	}
	if start.IsEmpty() {
		start = bookmark.FromSegments([]string{m.features[0].feature.Path})
	}
	if !m.navigate(start, true) {
		m.navigate(bookmark.FromSegments([]string{m.features[0].feature.Path}), true)
	}
	return m.flush(waitForRefresh(m.refresh))
}

func (m *Model) Update(msg bubbletea.Msg) (bubbletea.Model, bubbletea.Cmd) {
	switch msg := msg.(type) {
	case bubbletea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
	case bubbletea.KeyMsg:
		if cmd := m.handleKey(msg); cmd != nil {
			return m, m.flush(cmd)
		}
	case callbackMsg:
		msg.fn()
	case loadedMsg:
		m.loaded(msg)
	case refreshMsg:
		m.refreshed(msg.event)
		m.queue(waitForRefresh(m.refresh))
	case commandbar.SubmitMsg:
		m.gotoToken(msg.Value)
	case clearNoticeMsg:
		if msg.id == m.notice.id {
			m.notice = notice{id: m.notice.id}
			m.resize()
		}
	default:
		if panel := m.focusedPanel(); panel != nil {
			m.apply(panel.Update(msg))
		}
	}
	return m, m.flush()
}

func (m *Model) View() string {
	body := m.body()
	height := m.availableHeight()
	if height > 0 {
		lines := strings.Split(body, "\n")
		if len(lines) > height {
			lines = lines[:height]
		}
		for len(lines) < height {
			lines = append(lines, "")
		}
		body = strings.Join(lines, "\n")
	}

	sections := []string{style.Header.Render(m.header()), body, m.footer()}
	if m.notice.text != "" {
		banner := style.InfoBanner
		switch m.notice.severity {
		case drilldown.SeverityWarning:
			banner = style.Warning
		case drilldown.SeverityError:
			banner = style.ErrorBanner
		}
		sections = append([]string{banner.Render(m.notice.text)}, sections...)
	}
	return strings.Join(sections, "\n")
}

// AddMessage shows text in the banner.
func (m *Model) AddMessage(text string, severity drilldown.Severity) {
	m.notice = notice{id: m.notice.id + 1, text: text, severity: severity}
	m.logger.Log(m.ctx, slogLevel(severity), "notice", "text", text)
	m.queue(clearNoticeAfter(m.noticeTTL, m.notice.id))
	m.resize()
}

// AskConfirmation opens a yes/no dialog; onConfirm runs on yes.
func (m *Model) AskConfirmation(title, message string, onConfirm func()) {
	dialog := confirmdialog.New(title, message)
	dialog.SetSize(m.width, m.availableHeight())
	m.overlay = dialog
	m.onConfirm = onConfirm
}

// Active returns the feature path shown, for tests and the status line.
func (m *Model) Active() string {
	if m.active == nil {
		return ""
	}
	return m.active.feature.Path
}

func (m *Model) handleKey(msg bubbletea.KeyMsg) bubbletea.Cmd {
	if msg.String() == "ctrl+c" {
		return bubbletea.Quit
	}

	if m.commandOn {
		_, cmd, done := m.command.Update(msg)
		if done {
			m.commandOn = false
		}
		m.queue(cmd)
		return nil
	}

	if m.overlay != nil {
		m.overlayKey(msg)
		return nil
	}

	fv := m.active
	panel := m.focusedPanel()
	if panel != nil && viewstate.Suppresses(panel) {
		m.apply(panel.Update(msg))
		return nil
	}

	key := msg.String()
	switch key {
	case "q":
		return bubbletea.Quit
	case "?":
		help := helpview.New()
		help.SetSize(m.width, m.availableHeight())
		m.overlay = help
		return nil
	case ":":
		m.commandOn = true
		m.command.SetSize(m.width)
		return nil
	case "[":
		if b, ok := m.history.Back(); ok {
			m.navigate(b, false)
		}
		return nil
	case "]":
		if b, ok := m.history.Forward(); ok {
			m.navigate(b, false)
		}
		return nil
	case "n":
		m.startWizard(fv)
		return nil
	case "d":
		m.deleteSelected(fv)
		return nil
	case "y":
		m.copyBookmark()
		return nil
	case "r":
		m.reload(fv, true)
		return nil
	}

	if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
		m.followCrumb(fv, int(key[0]-'1'))
		return nil
	}
	if runes := []rune(key); len(runes) == 1 {
		if f, ok := m.registry.FeatureByKey(runes[0]); ok {
			m.navigate(bookmark.FromSegments([]string{f.Path}), true)
			return nil
		}
	}

	if panel == nil {
		if fv != nil && fv.containerFocus && (key == "esc" || key == "left" || key == "h") {
			m.back(fv)
		}
		return nil
	}
	m.apply(panel.Update(msg))
	return nil
}

func (m *Model) overlayKey(msg bubbletea.KeyMsg) {
	update := m.overlay.Update(msg)
	m.queue(update.Cmd)
	switch update.Action {
	case viewstate.Submit:
		if picked, ok := update.Value.(columnpicker.Picked); ok {
			m.closeOverlay()
			m.applyColumns(picked)
			return
		}
		confirm := m.onConfirm
		m.closeOverlay()
		if confirm != nil {
			confirm()
		}
	case viewstate.Cancel:
		m.closeOverlay()
	}
}

func (m *Model) closeOverlay() {
	m.overlay = nil
	m.onConfirm = nil
}

// apply acts on what the focused panel asked for.
func (m *Model) apply(update viewstate.Update) {
	m.queue(update.Cmd)
	fv := m.active
	if fv == nil {
		return
	}
	switch update.Action {
	case viewstate.Select:
		fv.machine.OnSelection(fv.level, update.Value)
	case viewstate.Back:
		m.back(fv)
	case viewstate.Submit:
		m.wizardStep(fv, update.Value)
	case viewstate.Cancel:
		fv.wizard = nil
		fv.machine.LoadView(0, nil)
	case viewstate.Push:
		if view, ok := update.Value.(viewstate.View); ok {
			view.SetSize(m.width, m.availableHeight())
			m.overlay = view
		}
	}
}

// applyColumns stores a column choice and redraws every list of that kind.
func (m *Model) applyColumns(picked columnpicker.Picked) {
	m.columns.Set(picked.Kind, picked.Visible)
	for _, fv := range m.features {
		for _, master := range fv.masters {
			if master.Records().Name() == picked.Kind {
				master.Refresh()
			}
		}
	}
	m.logger.Debug("columns changed", "kind", picked.Kind, "visible", picked.Visible)
}

// navigate shows b in its feature. push records b in the history first;
// history moves (back, forward) already did.
func (m *Model) navigate(b bookmark.Bookmark, push bool) bool {
	fv := m.featureFor(b)
	if fv == nil {
		m.AddMessage(fmt.Sprintf("Unknown feature %q", b.Feature()), drilldown.SeverityWarning)
		return false
	}
	if push {
		m.history.Bookmark(b)
	}
	m.open(fv)
	fv.machine.NavigateTo(b)
	return true
}

func (m *Model) gotoToken(token string) {
	if token == "" {
		return
	}
	m.navigate(bookmark.FromToken(token), true)
}

func (m *Model) featureFor(b bookmark.Bookmark) *featureView {
	f, ok := m.registry.FeatureByPath(b.Feature())
	if !ok {
		return nil
	}
	for _, fv := range m.features {
		if fv.feature.Path == f.Path {
			return fv
		}
	}
	return nil
}

func (m *Model) open(fv *featureView) {
	if m.active != fv {
		m.logger.Debug("switching feature", "feature", fv.feature.Path)
	}
	m.active = fv
	if !fv.opened {
		fv.opened = true
		if len(fv.stores) > 0 {
			m.load(fv, 0, fv.stores[0].Begin(nil))
			fv.masters[0].Refresh()
		}
	}
	m.resize()
}

func (m *Model) back(fv *featureView) {
	level := fv.machine.CurrentIndex()
	if level == 0 {
		return
	}
	for _, crumb := range fv.machine.Breadcrumb() {
		if crumb.Level == level-1 {
			fv.machine.FollowCrumb(crumb)
			return
		}
	}
	fv.machine.LoadView(0, nil)
}

func (m *Model) followCrumb(fv *featureView, index int) {
	if fv == nil {
		return
	}
	crumbs := fv.machine.Breadcrumb()
	if index < len(crumbs) {
		fv.machine.FollowCrumb(crumbs[index])
	}
}

func (m *Model) startWizard(fv *featureView) {
	if fv == nil {
		return
	}
	def := fv.feature.Wizard
	if def == nil || m.catalog == nil {
		m.AddMessage(fv.feature.Title+" cannot be created here", drilldown.SeverityInfo)
		return
	}
	if !fv.machine.CanCreate() {
		m.AddMessage("Permission denied: "+fv.feature.Permission+":create", drilldown.SeverityWarning)
		return
	}
	fv.wizard = &wizardRun{def: def}
	if len(def.Recipes) > 0 {
		fv.machine.SetItemName(1, "Select recipe")
		fv.machine.LoadCreateWizard(1, wizardview.NewPicker("Select recipe", def.Recipes))
		return
	}
	fv.machine.SetItemName(1, "New "+strings.ToLower(def.Kind))
	fv.machine.LoadCreateWizard(1, wizardview.NewForm("New "+strings.ToLower(def.Kind), def.Fields))
}

func (m *Model) wizardStep(fv *featureView, value any) {
	run := fv.wizard
	if run == nil {
		return
	}
	switch v := value.(type) {
	case string:
		run.recipe = v
		step := fv.machine.State().Step + 1
		fv.machine.SetItemName(step, "Create "+v)
		fv.machine.LoadCreateWizard(step, wizardview.NewForm("Create "+v+" "+strings.ToLower(run.def.Kind), run.def.Fields))
	case map[string]string:
		created, err := m.catalog.Create(run.def.Collection, run.def.Build(run.recipe, v))
		if err != nil {
			if form, ok := fv.create[fv.level].(*wizardview.Form); ok {
				form.SetError(err.Error())
			}
			m.logger.Warn("create failed", "feature", fv.feature.Path, "error", err)
			return
		}
		fv.wizard = nil
		m.AddMessage(fmt.Sprintf("Created %s %s", strings.ToLower(run.def.Kind), created.Name), drilldown.SeverityInfo)
		store := fv.stores[0]
		store.OnLoad(func() {
			if m.active == fv {
				fv.machine.LoadView(1, created)
			}
		})
		m.load(fv, 0, store.Refresh())
	}
}

func (m *Model) deleteSelected(fv *featureView) {
	if fv == nil || len(fv.masters) == 0 {
		return
	}
	if fv.machine.CurrentIndex() == 0 || fv.card != drilldown.CardBrowse {
		m.AddMessage("Open a "+fv.kind(0)+" to delete it", drilldown.SeverityInfo)
		return
	}
	if !fv.machine.CanDelete() {
		m.AddMessage("Permission denied: "+fv.feature.Permission+":delete", drilldown.SeverityWarning)
		return
	}
	fv.machine.OnDelete()
}

func (m *Model) copyBookmark() {
	token := m.history.Current().Token()
	if err := m.clipboard(token); err != nil {
		m.AddMessage("Copy failed: "+err.Error(), drilldown.SeverityError)
		return
	}
	m.AddMessage("Copied "+token, drilldown.SeverityInfo)
}

// reload refetches every store that has a parent. With reselect the
// current bookmark is restored once level 0 is back.
func (m *Model) reload(fv *featureView, reselect bool) {
	if fv == nil {
		return
	}
	for level, store := range fv.stores {
		if level > 0 && store.Parent() == nil {
			continue
		}
		if level == 0 && reselect {
			store.OnLoad(func() {
				if m.active == fv {
					fv.machine.Reselect()
				}
			})
		}
		m.load(fv, level, store.Refresh())
		fv.masters[level].Refresh()
	}
}

func (m *Model) refreshed(ev refresh.Event) {
	m.logger.Info("refresh event", "feature", ev.Feature, "bookmark", ev.Bookmark)
	for _, fv := range m.features {
		if fv.opened && ev.Matches(fv.feature.Path) {
			m.reload(fv, ev.Bookmark == "")
		}
	}
	if ev.Bookmark != "" {
		m.gotoToken(ev.Bookmark)
	}
}

func (m *Model) load(fv *featureView, level int, req resources.Request) {
	m.queue(loadCmd(m.ctx, fv.feature.Path, level, req))
}

func (m *Model) loaded(msg loadedMsg) {
	var fv *featureView
	for _, candidate := range m.features {
		if candidate.feature.Path == msg.feature {
			fv = candidate
		}
	}
	if fv == nil || msg.level >= len(fv.stores) {
		return
	}
	if !fv.stores[msg.level].Apply(msg.ticket, msg.records, msg.err) {
		m.logger.Debug("dropping superseded load", "feature", msg.feature, "level", msg.level)
		return
	}
	fv.masters[msg.level].Refresh()
	if msg.err != nil && !errors.Is(msg.err, context.Canceled) {
		m.logger.Warn("load failed", "feature", msg.feature, "level", msg.level, "error", msg.err)
		m.AddMessage(fmt.Sprintf("Loading %ss failed: %v", fv.kind(msg.level), msg.err), drilldown.SeverityError)
	}
}

// dispatch runs fallback lookups and deletes as commands and delivers on the
// UI goroutine.
func (m *Model) dispatch(fetch func(ctx context.Context) (resources.Record, error), deliver func(resources.Record, error)) {
	ctx := m.ctx
	m.queue(func() bubbletea.Msg {
		record, err := fetch(ctx)
		return callbackMsg{fn: func() { deliver(record, err) }}
	})
}

func (m *Model) queue(cmd bubbletea.Cmd) {
	if cmd != nil {
		m.pending = append(m.pending, cmd)
	}
}

func (m *Model) flush(cmds ...bubbletea.Cmd) bubbletea.Cmd {
	cmds = append(cmds, m.pending...)
	m.pending = nil
	return bubbletea.Batch(cmds...)
}

func (m *Model) focusedPanel() viewstate.View {
	if m.active == nil || m.active.containerFocus {
		return nil
	}
	return m.active.panel()
}

func (m *Model) header() string {
	fv := m.active
	if fv == nil {
		return ""
	}
	if len(fv.crumbs) > 0 {
		return breadcrumb.Render(fv.crumbs, m.width)
	}
	tabs := make([]breadcrumb.Tab, 0, len(m.features))
	for _, other := range m.features {
		tabs = append(tabs, breadcrumb.Tab{Key: other.feature.Key, Title: other.feature.Title, Active: other == fv})
	}
	return breadcrumb.Root(fv.feature.Title, tabs, m.width)
}

func (m *Model) body() string {
	if m.overlay != nil {
		return m.overlay.View()
	}
	if m.active == nil {
		return ""
	}
	if panel := m.active.panel(); panel != nil {
		return panel.View()
	}
	return ""
}

func (m *Model) footer() string {
	if m.commandOn {
		return "\n\n" + m.command.View()
	}
	var panelFooter string
	if m.overlay != nil {
		panelFooter = m.overlay.Footer()
	} else if panel := m.focusedPanel(); panel != nil {
		panelFooter = panel.Footer()
	}
	lines := strings.Split(panelFooter, "\n")
	for len(lines) < footerLines-1 {
		lines = append([]string{""}, lines...)
	}
	lines = lines[len(lines)-(footerLines-1):]
	lines = append(lines, style.GlobalFooter(m.width, m.history.CanBack(), m.history.CanForward()))
	return style.Footer.Render(strings.Join(lines, "\n"))
}

func (m *Model) availableHeight() int {
	if m.height == 0 {
		return 0
	}
	extra := 1 + footerLines
	if m.notice.text != "" {
		extra++
	}
	return max(m.height-extra, 1)
}

func (m *Model) resize() {
	if m.width == 0 || m.height == 0 {
		return
	}
	height := m.availableHeight()
	for _, fv := range m.features {
		fv.setSize(m.width, height)
	}
	if m.overlay != nil {
		m.overlay.SetSize(m.width, height)
	}
	m.command.SetSize(m.width)
}

func slogLevel(severity drilldown.Severity) slog.Level {
	switch severity {
	case drilldown.SeverityWarning:
		return slog.LevelWarn
	case drilldown.SeverityError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
