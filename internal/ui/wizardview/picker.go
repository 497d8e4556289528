// Package wizardview holds the steps of a create wizard: a filterable recipe
// picker and a field form. Both implement drilldown.Panel.
package wizardview

import (
	"strings"
	"unicode"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// Picker chooses a recipe. Enter submits the highlighted recipe as a string.
type Picker struct {
	title   string
	items   []string
	filter  string
	cursor  int
	enabled bool
	width   int
	height  int
}

func NewPicker(title string, items []string) *Picker {
	return &Picker{title: title, items: items}
}

func (p *Picker) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *Picker) SetEnabled(enabled bool) { p.enabled = enabled }
func (p *Picker) Enabled() bool           { return p.enabled }
func (p *Picker) Focus() bool             { return p.enabled && len(p.items) > 0 }

// SuppressGlobalKeys is always true: typed runes filter the recipes.
func (p *Picker) SuppressGlobalKeys() bool { return true }

func (p *Picker) filtered() []string {
	if p.filter == "" {
		return p.items
	}
	lower := strings.ToLower(p.filter)
	var result []string
	for _, item := range p.items {
		if strings.Contains(strings.ToLower(item), lower) {
			result = append(result, item)
		}
	}
	return result
}

func (p *Picker) clampCursor(list []string) {
	if len(list) == 0 {
		p.cursor = 0
		return
	}
	p.cursor = max(0, min(p.cursor, len(list)-1))
}

func (p *Picker) Init() bubbletea.Cmd { return nil }

func (p *Picker) Update(msg bubbletea.Msg) viewstate.Update {
	key, ok := msg.(bubbletea.KeyMsg)
	if !ok || !p.enabled {
		return viewstate.Update{Action: viewstate.None}
	}

	filtered := p.filtered()

	switch key.String() {
	case "esc":
		if p.filter != "" {
			p.filter = ""
			p.cursor = 0
			return viewstate.Update{Action: viewstate.None}
		}
		return viewstate.Update{Action: viewstate.Cancel}
	case "enter":
		if len(filtered) == 0 {
			return viewstate.Update{Action: viewstate.None}
		}
		p.clampCursor(filtered)
		return viewstate.Update{Action: viewstate.Submit, Value: filtered[p.cursor]}
	case "up", "ctrl+p":
		p.cursor--
		p.clampCursor(filtered)
	case "down", "ctrl+n":
		p.cursor++
		p.clampCursor(filtered)
	case "backspace", "ctrl+h":
		runes := []rune(p.filter)
		if len(runes) > 0 {
			p.filter = string(runes[:len(runes)-1])
			p.cursor = 0
		}
	default:
		if key.Type == bubbletea.KeyRunes {
			for _, r := range key.Runes {
				if unicode.IsPrint(r) {
					p.filter += string(r)
					p.cursor = 0
				}
			}
		}
	}
	return viewstate.Update{Action: viewstate.None}
}

func (p *Picker) View() string {
	filtered := p.filtered()
	p.clampCursor(filtered)

	innerWidth := max(min(p.width-6, 48), 20)
	lines := []string{
		style.Header.Render(p.title),
		"> " + p.filter,
		strings.Repeat("─", innerWidth),
	}

	maxItems := max(p.height-6, 1)
	start := 0
	if p.cursor >= maxItems {
		start = p.cursor - maxItems + 1
	}
	end := min(start+maxItems, len(filtered))

	for i := start; i < end; i++ {
		item := filtered[i]
		if len([]rune(item)) > innerWidth-2 {
			item = string([]rune(item)[:innerWidth-3]) + "…"
		}
		if i == p.cursor {
			lines = append(lines, style.SelectedField.Render(" "+item+" "))
		} else {
			lines = append(lines, " "+item)
		}
	}
	if len(filtered) == 0 {
		lines = append(lines, style.Muted.Render("  no matches"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

func (p *Picker) Footer() string {
	actions := []style.Binding{style.B("enter", "choose"), style.B("↑↓", "move"), style.B("type", "filter"), style.B("esc", "cancel")}
	return "\n" + style.ActionFooter(actions, p.width)
}
