// Package columnpicker is the overlay choosing the visible list columns.
package columnpicker

import (
	"strings"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dloss/drilldown/internal/columnconfig"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// Picked is the Submit value: the chosen column IDs of Kind in pool order.
type Picked struct {
	Kind    string
	Visible []string
}

type rowKind int

const (
	rowColumn rowKind = iota
	rowHeader
)

type pickerRow struct {
	kind       rowKind
	headerText string
	col        resources.TableColumn
	checked    bool
	locked     bool // the first column cannot be hidden
}

// Picker is a floating overlay for selecting visible table columns.
type Picker struct {
	kind    string
	rows    []pickerRow
	pool    []resources.TableColumn
	cursor  int
	initial []string
	width   int
	height  int
}

// New creates a column picker for kind. pool holds the source columns,
// labelPool the columns derived from record labels, current the IDs shown
// now.
func New(kind string, pool, labelPool []resources.TableColumn, current []string) *Picker {
	currentSet := make(map[string]bool, len(current))
	for _, id := range current {
		currentSet[id] = true
	}

	rows := []pickerRow{{kind: rowHeader, headerText: "columns"}}
	for i, col := range pool {
		rows = append(rows, pickerRow{
			kind:    rowColumn,
			col:     col,
			checked: i == 0 || currentSet[columnconfig.ID(col)],
			locked:  i == 0,
		})
	}
	if len(labelPool) > 0 {
		rows = append(rows, pickerRow{kind: rowHeader, headerText: "labels"})
		for _, col := range labelPool {
			rows = append(rows, pickerRow{kind: rowColumn, col: col, checked: currentSet[columnconfig.ID(col)]})
		}
	}

	p := &Picker{
		kind:    kind,
		rows:    rows,
		pool:    append(append([]resources.TableColumn(nil), pool...), labelPool...),
		initial: append([]string(nil), current...),
	}
	p.cursor = p.firstSelectable()
	return p
}

func (p *Picker) Kind() string { return p.kind }

func (p *Picker) SetSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *Picker) SuppressGlobalKeys() bool { return true }

func (p *Picker) boxWidth() int {
	w := 36
	if p.width > 0 && w > p.width-4 {
		w = p.width - 4
	}
	return max(w, 24)
}

func (p *Picker) firstSelectable() int {
	for i := range p.rows {
		if p.isSelectable(i) {
			return i
		}
	}
	return 0
}

func (p *Picker) isSelectable(i int) bool {
	if i < 0 || i >= len(p.rows) {
		return false
	}
	return p.rows[i].kind == rowColumn && !p.rows[i].locked
}

func (p *Picker) moveCursor(delta int) {
	for next := p.cursor + delta; next >= 0 && next < len(p.rows); next += delta {
		if p.isSelectable(next) {
			p.cursor = next
			return
		}
	}
}

// Visible returns the checked column IDs in pool order.
func (p *Picker) Visible() []string {
	checked := make(map[string]bool)
	for _, row := range p.rows {
		if row.kind == rowColumn && row.checked {
			checked[columnconfig.ID(row.col)] = true
		}
	}
	var result []string
	for _, col := range p.pool {
		if id := columnconfig.ID(col); checked[id] {
			result = append(result, id)
		}
	}
	return result
}

func (p *Picker) resetToInitial() {
	initial := make(map[string]bool, len(p.initial))
	for _, id := range p.initial {
		initial[id] = true
	}
	for i := range p.rows {
		if p.rows[i].kind == rowColumn {
			p.rows[i].checked = initial[columnconfig.ID(p.rows[i].col)] || p.rows[i].locked
		}
	}
}

func (p *Picker) Init() bubbletea.Cmd { return nil }

func (p *Picker) Update(msg bubbletea.Msg) viewstate.Update {
	key, ok := msg.(bubbletea.KeyMsg)
	if !ok {
		return viewstate.Update{Action: viewstate.None}
	}

	switch key.String() {
	case "esc", "q":
		return viewstate.Update{Action: viewstate.Cancel}
	case "enter":
		return viewstate.Update{Action: viewstate.Submit, Value: Picked{Kind: p.kind, Visible: p.Visible()}}
	case "r":
		p.resetToInitial()
	case "up", "k":
		p.moveCursor(-1)
	case "down", "j":
		p.moveCursor(1)
	case " ", "x":
		if p.isSelectable(p.cursor) {
			p.rows[p.cursor].checked = !p.rows[p.cursor].checked
		}
	}
	return viewstate.Update{Action: viewstate.None}
}

func (p *Picker) View() string {
	innerWidth := p.boxWidth() - 2

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render("  " + strings.ToLower(p.kind) + " columns  "),
		strings.Repeat("─", innerWidth),
	}

	maxItems := max(p.height-8, 3)
	start := 0
	if p.cursor >= maxItems {
		start = p.cursor - maxItems + 1
	}
	end := min(start+maxItems, len(p.rows))

	for i := start; i < end; i++ {
		row := p.rows[i]
		if row.kind == rowHeader {
			fill := max(innerWidth-len(row.headerText)-4, 0)
			lines = append(lines, style.Muted.Render("── "+row.headerText+" "+strings.Repeat("─", fill)))
			continue
		}

		checkbox := "○"
		switch {
		case row.locked:
			checkbox = "•"
		case row.checked:
			checkbox = "✓"
		}
		name := row.col.Name
		if runes := []rune(name); len(runes) > innerWidth-6 {
			name = string(runes[:innerWidth-7]) + "…"
		}
		if row.locked {
			name = style.Muted.Render(name)
		}

		line := "  " + checkbox + " " + name
		if i == p.cursor {
			if pad := innerWidth - lipgloss.Width(line); pad > 0 {
				line += strings.Repeat(" ", pad)
			}
			line = style.SelectedField.Render("▶" + line[1:])
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("241")).
		Width(innerWidth).
		Render(strings.Join(lines, "\n"))
}

func (p *Picker) Footer() string {
	return style.ActionFooter([]style.Binding{
		style.B("space", "toggle"), style.B("enter", "apply"), style.B("r", "reset"), style.B("esc", "cancel"),
	}, p.width)
}
