// Package confirmdialog is a centered yes/no overlay.
package confirmdialog

import (
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// Dialog asks one question. Submit means confirmed, Cancel means declined.
type Dialog struct {
	title   string
	message string
	yes     bool
	width   int
	height  int
}

func New(title, message string) *Dialog {
	return &Dialog{title: title, message: message}
}

func (d *Dialog) Title() string   { return d.title }
func (d *Dialog) Message() string { return d.message }

func (d *Dialog) SetSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *Dialog) SuppressGlobalKeys() bool { return true }

func (d *Dialog) Init() bubbletea.Cmd { return nil }

func (d *Dialog) Update(msg bubbletea.Msg) viewstate.Update {
	key, ok := msg.(bubbletea.KeyMsg)
	if !ok {
		return viewstate.Update{Action: viewstate.None}
	}
	switch key.String() {
	case "y", "Y":
		return viewstate.Update{Action: viewstate.Submit}
	case "n", "N", "esc", "q":
		return viewstate.Update{Action: viewstate.Cancel}
	case "left", "right", "tab", "h", "l":
		d.yes = !d.yes
	case "enter":
		if d.yes {
			return viewstate.Update{Action: viewstate.Submit}
		}
		return viewstate.Update{Action: viewstate.Cancel}
	}
	return viewstate.Update{Action: viewstate.None}
}

func (d *Dialog) View() string {
	innerWidth := max(min(d.width-4, 52), 24)

	button := func(label string, active bool) string {
		if active {
			return style.SelectedField.Render(" " + label + " ")
		}
		return " " + label + " "
	}
	buttons := button("Yes", d.yes) + "  " + button("No", !d.yes)

	lines := []string{
		style.Header.Render(d.title),
		"",
		lipgloss.NewStyle().Width(innerWidth).Render(d.message),
		strings.Repeat("─", innerWidth),
		lipgloss.PlaceHorizontal(innerWidth, lipgloss.Right, buttons),
	}

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))

	if d.width == 0 || d.height == 0 {
		return box
	}
	return lipgloss.Place(d.width, d.height, lipgloss.Center, lipgloss.Center, box)
}

func (d *Dialog) Footer() string {
	return "\n" + style.ActionFooter([]style.Binding{style.B("y", "confirm"), style.B("n/esc", "cancel")}, d.width)
}
