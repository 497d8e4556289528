// Package detailview shows the record selected on the last master level.
package detailview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// View is the terminal panel of a drilldown. It implements drilldown.Panel.
type View struct {
	record   *resources.Record
	viewport viewport.Model
	enabled  bool
	width    int
	height   int
}

func New() *View {
	return &View{viewport: viewport.New(0, 0)}
}

// SetRecord replaces the shown record.
func (v *View) SetRecord(record resources.Record) {
	v.record = &record
	v.viewport.SetContent(v.render())
	v.viewport.GotoTop()
}

func (v *View) Record() (resources.Record, bool) {
	if v.record == nil {
		return resources.Record{}, false
	}
	return *v.record, true
}

func (v *View) SetEnabled(enabled bool) { v.enabled = enabled }
func (v *View) Enabled() bool           { return v.enabled }

// Focus reports false when there is nothing to scroll.
func (v *View) Focus() bool { return v.enabled && v.record != nil }

func (v *View) Init() bubbletea.Cmd { return nil }

func (v *View) Update(msg bubbletea.Msg) viewstate.Update {
	if !v.enabled {
		return viewstate.Update{Action: viewstate.None}
	}
	if key, ok := msg.(bubbletea.KeyMsg); ok {
		switch key.String() {
		case "esc", "backspace", "h", "left":
			return viewstate.Update{Action: viewstate.Back}
		}
	}
	updated, cmd := v.viewport.Update(msg)
	v.viewport = updated
	return viewstate.Update{Action: viewstate.None, Cmd: cmd}
}

func (v *View) View() string {
	if v.record == nil {
		return style.Muted.Render("  Nothing selected.")
	}
	return v.viewport.View()
}

func (v *View) Footer() string {
	line1 := ""
	if v.record != nil && v.viewport.TotalLineCount() > v.viewport.Height {
		line1 = style.StatusFooter(nil, fmt.Sprintf("%3.f%%", v.viewport.ScrollPercent()*100), v.width)
	}
	actions := []style.Binding{style.B("esc", "back"), style.B("↑↓", "scroll")}
	return line1 + "\n" + style.ActionFooter(actions, v.width)
}

func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height
	if v.record != nil {
		v.viewport.SetContent(v.render())
	}
}

func (v *View) render() string {
	r := v.record
	status := r.Kind + " " + r.Name
	if r.Status != "" {
		status += "  " + style.Status(r.Status)
	}
	if r.Age != "" {
		status += style.Muted.Render("  age " + r.Age)
	}
	sections := []string{style.Header.Render(status)}

	fields := fieldLines(*r)
	labels := r.Labels

	if v.width >= 120 && len(labels) > 0 {
		leftWidth, rightWidth := splitWidths(v.width, 2)
		left := titledSection("FIELDS", fields)
		right := titledSection("LABELS", labels)
		leftCol := lipgloss.NewStyle().Width(leftWidth).Render(strings.Join(left, "\n"))
		rightCol := lipgloss.NewStyle().Width(rightWidth).Render(strings.Join(right, "\n"))
		sections = append(sections, "", lipgloss.JoinHorizontal(lipgloss.Top, leftCol, "  ", rightCol))
		return strings.Join(sections, "\n")
	}

	sections = append(sections, titledSection("FIELDS", fields)...)
	sections = append(sections, titledSection("LABELS", labels)...)
	return strings.Join(compactSections(sections), "\n")
}

func fieldLines(r resources.Record) []string {
	rows := [][2]string{{"ID", fmt.Sprint(r.ID)}}
	if r.Parent != nil {
		rows = append(rows, [2]string{"Parent", fmt.Sprint(r.Parent)})
	}
	for _, f := range r.Fields {
		rows = append(rows, [2]string{f.Name, f.Value})
	}

	nameW := 0
	for _, row := range rows {
		nameW = max(nameW, len([]rune(row[0])))
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, "  "+cell(row[0], nameW)+"  "+row[1])
	}
	return lines
}

func titledSection(title string, lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	section := []string{title}
	return append(section, lines...)
}

func compactSections(lines []string) []string {
	out := make([]string, 0, len(lines)+4)
	for _, line := range lines {
		if line == "" {
			continue
		}
		if len(out) > 0 && (line == "FIELDS" || line == "LABELS") {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return out
}

func splitWidths(totalWidth, gap int) (int, int) {
	left := clamp((totalWidth*62)/100, 60, totalWidth-gap-28)
	return left, totalWidth - left - gap
}

func cell(value string, width int) string {
	runes := []rune(value)
	if len(runes) > width {
		if width <= 1 {
			return "…"
		}
		value = string(runes[:width-1]) + "…"
	}
	if padding := width - len([]rune(value)); padding > 0 {
		return value + strings.Repeat(" ", padding)
	}
	return value
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
