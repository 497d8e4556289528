package drilldown

import (
	"errors"
	"testing"

	"github.com/dloss/drilldown/internal/bookmark"
	"github.com/google/go-cmp/cmp"
)

var (
	alice = record{id: "alice", name: "alice"}
	bob   = record{id: "bob", name: "bob"}
	admin = record{id: "admin", name: "admin"}
	dev   = record{id: "dev", name: "dev"}
)

func TestNavigateToResolvesFirstLevel(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice, bob), loadedStore("Role"))

	target := bookmark.FromSegments([]string{"security/users", "alice"})
	h.navigate(target)

	if got := h.machine.CurrentIndex(); got != 1 {
		t.Fatalf("expected current index 1, got %d", got)
	}
	if diff := cmp.Diff([]string{"Users", "alice"}, crumbNames(h.shell.crumbs)); diff != "" {
		t.Fatalf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
	if got := h.history.last(t); !got.Equal(target) {
		t.Fatalf("expected published %q, got %q", target, got)
	}
	if h.masters[0].selects != 1 {
		t.Fatalf("expected alice selected once in users list, got %d", h.masters[0].selects)
	}
	if state := h.machine.State(); state.Phase != PhaseBrowsing || state.Level != 1 {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestPublishedBookmarkGrowsWithSelectionDepth(t *testing.T) {
	h := newHarness(t,
		loadedStore("User", alice),
		loadedStore("Role", admin),
		loadedStore("Privilege", dev),
	)

	for level, model := range []Model{alice, admin, dev} {
		h.machine.OnSelection(level, model)
		if got := h.history.last(t).Len(); got != level+2 {
			t.Fatalf("after selection at level %d expected %d segments, got %d (%q)",
				level, level+2, got, h.history.last(t))
		}
	}
	if got := h.history.last(t).Token(); got != "security/users:alice:admin:dev" {
		t.Fatalf("unexpected final bookmark %q", got)
	}
}

func TestNavigateToTwiceIsStable(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice, bob), loadedStore("Role"))
	target := bookmark.FromSegments([]string{"security/users", "bob"})

	h.navigate(target)
	firstIndex := h.machine.CurrentIndex()
	firstCrumbs := h.machine.Breadcrumb()

	h.navigate(target)
	if h.machine.CurrentIndex() != firstIndex {
		t.Fatalf("current index changed from %d to %d", firstIndex, h.machine.CurrentIndex())
	}
	if diff := cmp.Diff(firstCrumbs, h.machine.Breadcrumb()); diff != "" {
		t.Fatalf("breadcrumb changed (-first +second):\n%s", diff)
	}
}

func TestBreadcrumbStopsAtUnnamedLevel(t *testing.T) {
	h := newHarness(t, loadedStore("A"), loadedStore("B"), loadedStore("C"))
	h.machine.SetItemName(1, "one")
	h.machine.SetItemName(3, "three")

	h.machine.LoadView(3, nil)

	if h.machine.CurrentIndex() != 3 {
		t.Fatalf("expected index 3, got %d", h.machine.CurrentIndex())
	}
	if diff := cmp.Diff([]string{"Users", "one"}, crumbNames(h.shell.crumbs)); diff != "" {
		t.Fatalf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
	for _, c := range h.shell.crumbs {
		if c.Disabled {
			t.Fatalf("no crumb should be disabled in a truncated trail, got %+v", c)
		}
	}
}

func TestLastCrumbIsDisabled(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role", admin))
	h.machine.OnSelection(0, alice)
	h.machine.OnSelection(1, admin)

	crumbs := h.shell.crumbs
	if len(crumbs) != 3 {
		t.Fatalf("expected 3 crumbs, got %d", len(crumbs))
	}
	if !crumbs[0].Home || crumbs[0].Disabled {
		t.Fatalf("expected enabled home crumb, got %+v", crumbs[0])
	}
	if crumbs[1].Disabled || !crumbs[2].Disabled {
		t.Fatalf("only the last crumb should be disabled: %+v", crumbs)
	}
	if crumbs[1].IconClass != "icon-alice" {
		t.Fatalf("expected icon class from policy, got %q", crumbs[1].IconClass)
	}
	if got := crumbs[1].Bookmark.Token(); got != "security/users:alice" {
		t.Fatalf("unexpected crumb bookmark %q", got)
	}
}

func TestLoadViewEnablesOnlyActiveLevel(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role", admin))

	for _, level := range []int{1, 2, 0} {
		h.machine.LoadView(level, nil)
		enabled := 0
		for _, it := range h.machine.Items() {
			if it.Enabled {
				enabled++
				if it.Index != level {
					t.Fatalf("level %d enabled while %d is active", it.Index, level)
				}
			}
		}
		if enabled != 1 {
			t.Fatalf("expected exactly one enabled level, got %d", enabled)
		}
		panels := []Panel{h.masters[0], h.masters[1], h.detail}
		for i, panel := range panels {
			if panel.Enabled() != (i == level) {
				t.Fatalf("panel %d enabled=%v with active level %d", i, panel.Enabled(), level)
			}
		}
	}
}

func TestDisablingWaitsForActivation(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.LoadView(0, nil)
	h.shell.manual = true

	h.machine.OnSelection(0, alice)
	if !h.masters[0].Enabled() {
		t.Fatal("level 0 disabled before the new panel was activated")
	}
	if h.masters[1].Enabled() {
		t.Fatal("level 1 enabled before activation")
	}

	h.shell.activateAll()
	if h.masters[0].Enabled() || !h.masters[1].Enabled() {
		t.Fatal("expected level 1 to be the only enabled panel after activation")
	}
}

func TestStaleActivationIsIgnored(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.shell.manual = true

	h.machine.LoadView(1, nil)
	h.machine.LoadView(0, nil)
	h.shell.activateAll()

	if !h.masters[0].Enabled() || h.masters[1].Enabled() {
		t.Fatal("the stale activation of level 1 overrode level 0")
	}
}

func TestFocusFallsBackToContainer(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice))
	h.machine.LoadView(0, nil)
	if h.shell.focusCalls != 1 {
		t.Fatalf("expected container focus, got %d calls", h.shell.focusCalls)
	}

	h.detail.focus = true
	h.machine.LoadView(1, nil)
	if h.shell.focusCalls != 1 || h.detail.focused != 1 {
		t.Fatalf("expected focus on the detail field, container=%d detail=%d", h.shell.focusCalls, h.detail.focused)
	}
}

func TestSelectModelByIDOnEmptyStoreIsNoop(t *testing.T) {
	h := newHarness(t, loadedStore("User"))
	h.machine.LoadView(0, nil)

	h.machine.SelectModelByID(0, "alice")

	if h.machine.CurrentIndex() != 0 {
		t.Fatalf("expected index to stay 0, got %d", h.machine.CurrentIndex())
	}
	if h.policy.fallbacks != 0 {
		t.Fatalf("expected no fallback lookup, got %d", h.policy.fallbacks)
	}
	if len(h.notifier.messages) != 0 {
		t.Fatalf("expected no notification, got %+v", h.notifier.messages)
	}
}

func TestSelectModelByIDRetriesIntegerIDs(t *testing.T) {
	task := record{id: 42, name: "nightly"}
	h := newHarness(t, loadedStore("Task", record{id: 7, name: "weekly"}, task))

	h.navigate(bookmark.FromToken("system/tasks:42"))

	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected integer id to resolve, index=%d", h.machine.CurrentIndex())
	}
	if got := h.masters[0].Selection(); len(got) != 1 || got[0] != Model(task) {
		t.Fatalf("unexpected selection %+v", got)
	}
}

func TestMissingIDNotifiesNotFound(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice))

	h.navigate(bookmark.FromToken("security/users:zed"))

	if h.machine.CurrentIndex() != 0 {
		t.Fatalf("expected index 0, got %d", h.machine.CurrentIndex())
	}
	want := []message{{text: "User (zed) not found", severity: SeverityWarning}}
	if diff := cmp.Diff(want, h.notifier.messages, cmp.AllowUnexported(message{})); diff != "" {
		t.Fatalf("messages mismatch (-want +got):\n%s", diff)
	}
}

func TestFallbackResolvesAsynchronously(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	var deliver func(Model)
	h.policy.fallback = func(level int, id string, found func(Model)) bool {
		deliver = found
		return true
	}
	zed := record{id: "zed", name: "zed"}

	h.navigate(bookmark.FromToken("security/users:zed"))
	if deliver == nil {
		t.Fatal("expected fallback to be consulted")
	}
	if h.machine.CurrentIndex() != 0 {
		t.Fatal("navigation should wait for the fallback")
	}

	deliver(zed)
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected fallback result to be selected, index=%d", h.machine.CurrentIndex())
	}
	if len(h.notifier.messages) != 0 {
		t.Fatalf("unexpected notifications %+v", h.notifier.messages)
	}
}

func TestStaleFallbackIsDropped(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice, bob), loadedStore("Role"))
	var deliver func(Model)
	h.policy.fallback = func(level int, id string, found func(Model)) bool {
		deliver = found
		return true
	}

	h.navigate(bookmark.FromToken("security/users:zed"))
	h.navigate(bookmark.FromToken("security/users:bob"))
	deliver(record{id: "zed", name: "zed"})

	if item, _ := h.machine.Item(1); item.Name != "bob" {
		t.Fatalf("stale fallback overwrote the newer navigation: %q", item.Name)
	}
}

func TestNavigationWaitsForStoreLoad(t *testing.T) {
	users := &fakeStore{name: "User", loading: true}
	h := newHarness(t, users, loadedStore("Role"))

	h.navigate(bookmark.FromToken("security/users:alice"))
	if h.machine.CurrentIndex() != 0 {
		t.Fatal("navigation applied before the store loaded")
	}
	if len(users.onLoad) != 1 {
		t.Fatalf("expected one pending continuation, got %d", len(users.onLoad))
	}

	users.finish(alice, bob)
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected continuation to navigate, index=%d", h.machine.CurrentIndex())
	}
}

func TestNavigationDefersForUnloadedStore(t *testing.T) {
	users := &fakeStore{name: "User"}
	h := newHarness(t, users)

	h.navigate(bookmark.FromToken("security/users:alice"))
	if len(users.onLoad) != 1 {
		t.Fatalf("expected navigation to wait for a never-loaded store, got %d continuations", len(users.onLoad))
	}
	if users.loads != 0 {
		t.Fatal("navigation must not trigger loads itself")
	}
}

func TestStaleContinuationDoesNotOverwrite(t *testing.T) {
	users := &fakeStore{name: "User", loading: true}
	h := newHarness(t, users, loadedStore("Role"))

	h.navigate(bookmark.FromToken("security/users:alice"))
	h.navigate(bookmark.FromToken("security/users:bob"))
	users.finish(alice, bob)

	if item, _ := h.machine.Item(1); item.Name != "bob" {
		t.Fatalf("expected the newer navigation to win, got %q", item.Name)
	}
	for _, model := range h.masters[0].selected {
		if model == Model(alice) {
			t.Fatal("stale continuation selected alice")
		}
	}
	if h.masters[0].selects != 1 {
		t.Fatalf("expected one selection, got %d", h.masters[0].selects)
	}
}

func TestNavigateToResolvesIdentifierChain(t *testing.T) {
	roles := loadedStore("Role")
	h := newHarness(t, loadedStore("User", alice, bob), roles)
	h.masters[0].onSelect = func(Model) {
		roles.models = nil
		roles.loading = true
	}

	target := bookmark.FromToken("security/users:alice:admin")
	h.navigate(target)
	if h.machine.CurrentIndex() != 0 {
		t.Fatal("expected navigation to wait for the roles of alice")
	}
	roles.finish(admin, dev)

	if h.machine.CurrentIndex() != 2 {
		t.Fatalf("expected detail level, index=%d", h.machine.CurrentIndex())
	}
	if diff := cmp.Diff([]string{"Users", "alice", "admin"}, crumbNames(h.shell.crumbs)); diff != "" {
		t.Fatalf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
	if got := h.history.last(t); !got.Equal(target) {
		t.Fatalf("expected %q, got %q", target, got)
	}
}

func TestNavigateToTruncatesDeepBookmarks(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice))
	h.navigate(bookmark.FromToken("security/users:alice:extra:more"))
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", h.machine.CurrentIndex())
	}
}

func TestNavigateToRootLoadsHome(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice)
	roots := h.shell.roots

	h.navigate(bookmark.FromToken("security/users"))
	if h.machine.CurrentIndex() != 0 {
		t.Fatalf("expected home, got %d", h.machine.CurrentIndex())
	}
	if h.shell.roots != roots+1 {
		t.Fatal("expected the feature root to be shown")
	}
}

func TestNotReadyIgnoresNavigation(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice))
	h.ready = false

	h.navigate(bookmark.FromToken("security/users:alice"))
	h.machine.LoadView(1, nil)

	if len(h.shell.shows) != 0 {
		t.Fatalf("expected no transitions, got %+v", h.shell.shows)
	}
	if state := h.machine.State(); state.Phase != PhaseIdle {
		t.Fatalf("expected idle state, got %v", state.Phase)
	}
}

func TestOnSelectionAtCurrentLevelRefreshesInPlace(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice, bob), loadedStore("Role"))
	h.machine.OnSelection(0, alice)
	shows := len(h.shell.shows)

	h.machine.OnSelection(0, bob)

	if len(h.shell.shows) != shows {
		t.Fatal("selection at the current level should not slide panels")
	}
	if item, _ := h.machine.Item(1); item.Name != "bob" {
		t.Fatalf("expected crumb name bob, got %q", item.Name)
	}
	if diff := cmp.Diff([]string{"Users", "bob"}, crumbNames(h.shell.crumbs)); diff != "" {
		t.Fatalf("breadcrumb mismatch (-want +got):\n%s", diff)
	}
	if got := h.history.last(t).Token(); got != "security/users:bob" {
		t.Fatalf("unexpected bookmark %q", got)
	}
	if id, _ := h.machine.SelectedID(0); id != "bob" {
		t.Fatalf("expected bob selected at level 0, got %v", id)
	}
}

func TestOnSelectionWithoutBookmark(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice, WithoutBookmark())
	if len(h.history.published) != 0 {
		t.Fatalf("expected no published bookmark, got %v", h.history.published)
	}
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected index 1, got %d", h.machine.CurrentIndex())
	}
}

func TestSelectionsBeyondTargetAreDropped(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role", admin))
	h.machine.OnSelection(0, alice)
	h.machine.OnSelection(1, admin)

	h.machine.LoadView(1, nil)
	if _, ok := h.machine.SelectedID(1); ok {
		t.Fatal("selection at level 1 should be dropped when showing level 1")
	}
	if _, ok := h.machine.SelectedID(0); !ok {
		t.Fatal("selection at level 0 should survive")
	}
}

func TestFollowCrumb(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role", admin))
	h.machine.OnSelection(0, alice)
	h.machine.OnSelection(1, admin)

	crumbs := h.machine.Breadcrumb()
	h.machine.FollowCrumb(crumbs[2])
	if h.machine.CurrentIndex() != 2 {
		t.Fatal("disabled crumb must not navigate")
	}

	h.machine.FollowCrumb(crumbs[1])
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected level 1, got %d", h.machine.CurrentIndex())
	}
	if got := h.history.last(t).Token(); got != "security/users:alice" {
		t.Fatalf("unexpected bookmark %q", got)
	}
	if _, ok := h.machine.SelectedID(0); !ok {
		t.Fatal("selection at level 0 should survive")
	}
	for l := 1; l < 3; l++ {
		if id, ok := h.machine.SelectedID(l); ok {
			t.Fatalf("selection %v at level %d survived a crumb to level 1", id, l)
		}
	}

	h.machine.FollowCrumb(crumbs[0])
	if h.machine.CurrentIndex() != 0 {
		t.Fatalf("expected home, got %d", h.machine.CurrentIndex())
	}
	if got := h.history.last(t).Token(); got != "security/users" {
		t.Fatalf("unexpected bookmark %q", got)
	}
}

func TestReselectUsesCurrentBookmark(t *testing.T) {
	users := loadedStore("User")
	h := newHarness(t, users, loadedStore("Role"))
	h.history.current = bookmark.FromToken("security/users:bob")

	h.machine.Activate()
	if h.machine.CurrentIndex() != 0 {
		t.Fatal("empty store should leave the drilldown at home")
	}

	users.models = []Model{alice, bob}
	h.machine.Reselect()
	if h.machine.CurrentIndex() != 1 {
		t.Fatalf("expected reselect to restore bob, index=%d", h.machine.CurrentIndex())
	}
}

func TestOnDeleteConfirmsAndResetsBookmark(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice)

	h.machine.OnDelete()
	if h.confirm.confirm == nil {
		t.Fatal("expected a confirmation request")
	}
	if h.confirm.title != "Confirm deletion?" || h.confirm.message != "alice" {
		t.Fatalf("unexpected confirmation %q / %q", h.confirm.title, h.confirm.message)
	}
	if len(h.policy.deleted) != 0 {
		t.Fatal("deleted before confirmation")
	}

	h.confirm.confirm()
	if len(h.policy.deleted) != 1 {
		t.Fatalf("expected one deletion, got %d", len(h.policy.deleted))
	}
	if got := h.history.last(t).Token(); got != "security/users" {
		t.Fatalf("expected root bookmark, got %q", got)
	}
}

func TestOnDeleteWaitsForDeletion(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice)
	var deleted []Model
	h.machine.opts.Deleted = func(model Model) { deleted = append(deleted, model) }
	h.policy.deferDelete = true

	h.machine.OnDelete()
	h.confirm.confirm()
	if got := h.history.last(t).Token(); got != "security/users:alice" {
		t.Fatalf("bookmark moved before the delete finished: %q", got)
	}
	if len(deleted) != 0 {
		t.Fatal("Deleted ran before the delete finished")
	}

	h.policy.finishDelete()
	if got := h.history.last(t).Token(); got != "security/users" {
		t.Fatalf("expected root bookmark, got %q", got)
	}
	if diff := cmp.Diff([]Model{alice}, deleted, cmp.AllowUnexported(record{})); diff != "" {
		t.Fatalf("deleted mismatch (-want +got):\n%s", diff)
	}
}

func TestOnDeleteFinishingAfterLeavingKeepsBookmark(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice)
	h.policy.deferDelete = true

	h.machine.OnDelete()
	h.confirm.confirm()
	h.ready = false
	published := len(h.history.published)

	h.policy.finishDelete()
	if len(h.history.published) != published {
		t.Fatal("a delete finishing in the background should not move the bookmark")
	}
	if len(h.policy.deleted) != 1 {
		t.Fatalf("expected one deletion, got %d", len(h.policy.deleted))
	}
}

func TestReinitializeDropsPendingActivation(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role", admin))
	h.shell.manual = true
	h.machine.LoadView(2, nil)

	master := newMaster(loadedStore("Group"))
	if err := h.machine.Initialize([]Master{master}, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	h.shell.activateAll()

	if h.machine.ItemCount() != 1 || h.machine.CurrentIndex() != 0 {
		t.Fatalf("unexpected items=%d current=%d", h.machine.ItemCount(), h.machine.CurrentIndex())
	}
	if master.Enabled() {
		t.Fatal("the old activation should not touch the new panels")
	}
}

func TestReinitializeDropsPendingNavigation(t *testing.T) {
	users := &fakeStore{name: "User", loading: true}
	h := newHarness(t, users, loadedStore("Role"))
	h.navigate(bookmark.FromToken("security/users:alice"))

	// The new level 0 also knows alice, so only the stale token stops the
	// old continuation.
	if err := h.machine.Initialize([]Master{newMaster(loadedStore("Group", alice))}, nil); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	published := len(h.history.published)
	users.finish(alice)

	if h.machine.CurrentIndex() != 0 {
		t.Fatalf("stale navigation moved to level %d", h.machine.CurrentIndex())
	}
	if len(h.history.published) != published {
		t.Fatal("stale navigation published a bookmark")
	}
}

func TestOnDeleteRequiresSingleSelection(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice, bob))
	h.machine.OnDelete()
	if h.confirm.confirm != nil {
		t.Fatal("no selection should not ask for confirmation")
	}

	h.masters[0].selected = []Model{alice, bob}
	h.machine.OnDelete()
	if h.confirm.confirm != nil {
		t.Fatal("multi-selection should not ask for confirmation")
	}
}

func TestOnDeleteFailureKeepsBookmark(t *testing.T) {
	h := newHarness(t, loadedStore("User", alice), loadedStore("Role"))
	h.machine.OnSelection(0, alice)
	published := len(h.history.published)
	h.policy.deleteErr = errDeleteFailed

	h.machine.OnDelete()
	h.confirm.confirm()

	if len(h.history.published) != published {
		t.Fatal("failed delete should not reset the bookmark")
	}
	if len(h.notifier.messages) != 1 || h.notifier.messages[0].severity != SeverityError {
		t.Fatalf("expected an error notification, got %+v", h.notifier.messages)
	}
}

func TestPermissionGatedButtons(t *testing.T) {
	h := newHarness(t, loadedStore("User"))
	if !h.machine.CanCreate() || !h.machine.CanDelete() {
		t.Fatal("without a permission layer every action is allowed")
	}

	h.machine.opts.Permissions = permissionSet{"nexus:users:create": true}
	if !h.machine.CanCreate() {
		t.Fatal("expected create to be permitted")
	}
	if h.machine.CanDelete() {
		t.Fatal("expected delete to be denied")
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Options{})
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestDetailOnlyDrilldownActivates(t *testing.T) {
	shell := newShell()
	history := &fakeHistory{current: bookmark.FromToken("admin/settings")}
	m, err := New(Options{Feature: "admin/settings", Policy: &fakePolicy{}, Shell: shell, History: history})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	detail := &fakePanel{focus: true}
	if err := m.Initialize(nil, detail); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	m.Activate()
	if !detail.Enabled() || detail.focused != 1 {
		t.Fatalf("expected the detail panel to be active and focused: %+v", detail)
	}
	m.Reselect()
	if len(shell.shows) != 1 {
		t.Fatalf("reselect on a detail-only drilldown should not navigate, got %d transitions", len(shell.shows))
	}
}
