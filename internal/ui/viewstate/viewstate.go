package viewstate

import (
	bubbletea "github.com/charmbracelet/bubbletea"
)

type Action int

const (
	None Action = iota
	// Select carries the highlighted record to the drilldown.
	Select
	// Back asks for the previous drilldown level.
	Back
	// Submit carries a completed wizard step or a confirmed dialog.
	Submit
	Cancel
	// Push opens Value, a View, over the current panel.
	Push
)

func (a Action) String() string {
	switch a {
	case Select:
		return "select"
	case Back:
		return "back"
	case Submit:
		return "submit"
	case Cancel:
		return "cancel"
	case Push:
		return "push"
	default:
		return "none"
	}
}

type Update struct {
	Action Action
	Cmd    bubbletea.Cmd
	// Value is the payload of Select, Submit and Push.
	Value any
}

type View interface {
	Init() bubbletea.Cmd
	Update(msg bubbletea.Msg) Update
	View() string
	Footer() string
	SetSize(width, height int)
}

// GlobalKeySuppresser is implemented by views that are capturing text input.
type GlobalKeySuppresser interface {
	SuppressGlobalKeys() bool
}

// Suppresses reports whether v currently owns every key.
func Suppresses(v View) bool {
	s, ok := v.(GlobalKeySuppresser)
	return ok && s.SuppressGlobalKeys()
}
