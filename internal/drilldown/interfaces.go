// Package drilldown implements the master/detail drilldown state machine and
// its bookmark synchronisation.
//
// A drilldown is a row of levels: one master list per level followed by an
// optional detail panel. Selecting a row in level i reveals level i+1. The
// Machine keeps the active level, the breadcrumb and the published bookmark
// in sync with selections, store reloads and history navigation.
//
// The Machine is single-threaded. Every collaborator callback (store load
// continuations, fallback resolutions, shell activation) must be delivered on
// the same goroutine that drives the Machine.
package drilldown

import "github.com/dloss/drilldown/internal/bookmark"

// Model is an opaque record held by a level's store.
type Model any

// Store is the data behind one master level.
type Store interface {
	IsLoading() bool
	IsLoaded() bool
	Load()
	// FindBy returns the index of the first model matching fn, or -1.
	FindBy(fn func(Model) bool) int
	GetAt(index int) Model
	Count() int
	// OnLoad registers a callback fired once, after the next completed load.
	OnLoad(fn func())
}

// Panel is any view occupying a drilldown level.
type Panel interface {
	SetEnabled(enabled bool)
	Enabled() bool
	// Focus moves focus to the panel's first focusable field. It reports
	// false when the panel has none.
	Focus() bool
}

// Master is a list panel feeding a selection into the next level.
type Master interface {
	Panel
	Store() Store
	// Select highlights model and performs whatever the selection implies
	// (for example loading the next level's store). It is a command, not an
	// event: implementations must not call back into Machine.OnSelection.
	// A store load started here must report IsLoading before Select returns.
	Select(model Model)
	Selection() []Model
}

// Policy supplies the feature-specific behaviour of a drilldown.
type Policy interface {
	// Describe returns the human-readable name used in breadcrumbs.
	Describe(model Model) string
	// ModelID returns the identifier encoded into bookmarks. It must be a
	// comparable value, usually a string or an int.
	ModelID(model Model) any
	// ResolveFallback is asked for identifiers missing from the level's
	// store. It returns false to let the Machine report "not found". When it
	// returns true it may call found later, on the Machine's goroutine.
	ResolveFallback(level int, id string, found func(Model)) bool
}

// IconClasser is an optional Policy extension naming a breadcrumb icon.
type IconClasser interface {
	IconClass(model Model) string
}

// Deleter is an optional Policy extension used by OnDelete. done receives
// the outcome on the Machine's goroutine, possibly after DeleteModel returns.
type Deleter interface {
	DeleteModel(model Model, done func(error))
}

// Shell is the surrounding UI that hosts the drilldown panels.
type Shell interface {
	// ShowLevel slides the drilldown to level showing card. activated must be
	// called once the panel is visually active.
	ShowLevel(level int, card CardState, activated func())
	// ShowRoot shows the feature's home content instead of a breadcrumb.
	ShowRoot()
	ShowBreadcrumb(crumbs []Crumb)
	FocusContainer()
	// SetCreateContent replaces the create slot of level. nil clears it.
	SetCreateContent(level int, content any)
}

// History is the bookmark/URL layer.
type History interface {
	Current() bookmark.Bookmark
	Bookmark(b bookmark.Bookmark)
}

type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "info"
	}
}

type Notifier interface {
	AddMessage(text string, severity Severity)
}

type Confirmer interface {
	AskConfirmation(title, message string, onConfirm func())
}

type Permissions interface {
	IsPermitted(action string) bool
}
