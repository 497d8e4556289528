package listview

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/dloss/drilldown/internal/ui/style"
)

// resetStatus ends a status color without clearing the row background.
const resetStatus = "\x1b[22;39m"

func newTableDelegate(view *View) tableDelegate {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(1)
	delegate.SetSpacing(0)
	delegate.ShowDescription = false
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Background(lipgloss.Color("236")).
		BorderLeft(true).
		BorderStyle(lipgloss.Border{Left: "▌"})
	return tableDelegate{DefaultDelegate: delegate, view: view}
}

// tableDelegate renders a record as one table row. Filter matches are only
// highlighted inside the name column; in find mode the first rune of each
// jump target is underlined instead.
type tableDelegate struct {
	list.DefaultDelegate
	view *View
}

func (d tableDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	it, ok := listItem.(item)
	if !ok || m.Width() <= 0 {
		return
	}

	// A disabled level keeps its cursor but does not show it.
	current := index == m.Index() && d.view.enabled
	rowStyle := d.Styles.NormalTitle
	switch {
	case m.FilterState() == list.Filtering && m.FilterValue() == "":
		rowStyle = d.Styles.DimmedTitle
	case current && m.FilterState() != list.Filtering:
		rowStyle = d.Styles.SelectedTitle
	}

	base := d.Styles.NormalTitle.Inline(true)
	if current {
		base = d.Styles.SelectedTitle.Inline(true)
	}
	highlight, marked := base.Inherit(d.Styles.FilterMatch), d.nameRunes(m, index, it)
	if d.view.findMode && d.view.findTargets[index] {
		highlight, marked = base.Underline(true).Bold(true), []int{0}
	}

	row := it.cells(func(col int, cell string, status bool) string {
		switch {
		case col == 0 && len(marked) > 0:
			return lipgloss.StyleRunes(cell, marked, highlight, base)
		case status && current:
			return style.StatusANSI(cell) + cell + resetStatus
		case status:
			return style.Status(cell)
		}
		return cell
	})
	width := m.Width() - rowStyle.GetPaddingLeft() - rowStyle.GetPaddingRight()
	fmt.Fprint(w, rowStyle.Render(ansi.Truncate(row, width, "…"))) //nolint:errcheck
}

// nameRunes returns the filter matches of index that fall inside the
// record name.
func (d tableDelegate) nameRunes(m list.Model, index int, it item) []int {
	if m.FilterState() != list.Filtering && m.FilterState() != list.FilterApplied {
		return nil
	}
	n := len([]rune(it.data.Name))
	var runes []int
	for _, pos := range m.MatchesForItem(index) {
		if pos >= 0 && pos < n {
			runes = append(runes, pos)
		}
	}
	return runes
}
