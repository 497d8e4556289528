// Package listview renders one master level of a drilldown as a filterable
// table backed by a resources.Store.
package listview

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/paginator"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dloss/drilldown/internal/columnconfig"
	"github.com/dloss/drilldown/internal/drilldown"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/columnpicker"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

const columnSeparator = "  "

type item struct {
	data   resources.Record
	row    []string
	status string
	widths []int
}

func (i item) Title() string {
	return i.cells(func(_ int, cell string, status bool) string {
		if status {
			return style.Status(cell)
		}
		return cell
	})
}

// cells pads every column to its width and joins them. decorate sees each
// padded cell and whether it holds the record's status.
func (i item) cells(decorate func(col int, cell string, status bool) string) string {
	out := make([]string, len(i.row))
	for col, value := range i.row {
		status := col > 0 && i.status != "" && value == i.status
		out[col] = decorate(col, padCell(value, i.widths[col]), status)
	}
	return strings.Join(out, columnSeparator)
}

func (i item) Description() string {
	parts := []string{}
	if i.data.Status != "" {
		parts = append(parts, i.data.Status)
	}
	if i.data.Age != "" {
		parts = append(parts, "age "+i.data.Age)
	}
	return strings.Join(parts, "  ")
}

func (i item) FilterValue() string {
	return i.data.Name
}

// View is a master panel. It implements drilldown.Master.
type View struct {
	level     int
	store     *resources.Store
	list      list.Model
	pool      []resources.TableColumn
	columns   []resources.TableColumn
	colWidths []int
	visible   *columnconfig.Store
	childHint string

	selected *resources.Record
	enabled  bool

	findMode    bool
	findTargets map[int]bool

	// OnSelect runs whenever the drilldown commits a selection on this
	// level, typically to load the next level's store.
	OnSelect func(record resources.Record)
}

func New(level int, store *resources.Store) *View {
	v := &View{
		level: level,
		store: store,
		pool:  tableColumns(store.Source()),
	}
	model := list.New(nil, newTableDelegate(v), 0, 0)
	model.SetShowHelp(false)
	model.SetShowStatusBar(false)
	model.SetShowTitle(false)
	model.DisableQuitKeybindings()
	model.SetFilteringEnabled(true)
	setupFilter(&model)
	model.Paginator.Type = paginator.Arabic
	v.list = model
	v.Refresh()
	return v
}

// SetChildHint names what opening a row reveals, shown in the header.
func (v *View) SetChildHint(hint string) {
	v.childHint = hint
	v.Refresh()
}

// SetColumnStore shares the user's column choices with this view.
func (v *View) SetColumnStore(columns *columnconfig.Store) {
	v.visible = columns
	v.Refresh()
}

func (v *View) Level() int { return v.level }

func (v *View) Store() drilldown.Store { return v.store }

func (v *View) Records() *resources.Store { return v.store }

// Select commits model as this level's selection and moves the cursor to it.
func (v *View) Select(model drilldown.Model) {
	record, ok := resources.AsRecord(model)
	if !ok {
		return
	}
	v.selected = &record
	v.highlight(record.ID)
	if v.OnSelect != nil {
		v.OnSelect(record)
	}
}

func (v *View) Selection() []drilldown.Model {
	if v.selected == nil {
		return nil
	}
	return []drilldown.Model{*v.selected}
}

// ClearSelection forgets the committed selection, for example after the
// parent level changed.
func (v *View) ClearSelection() { v.selected = nil }

// Highlighted returns the record under the cursor.
func (v *View) Highlighted() (resources.Record, bool) {
	if selected, ok := v.list.SelectedItem().(item); ok {
		return selected.data, true
	}
	return resources.Record{}, false
}

func (v *View) SetEnabled(enabled bool) {
	v.enabled = enabled
	if !enabled {
		v.findMode = false
		v.findTargets = nil
	}
}

func (v *View) Enabled() bool { return v.enabled }

func (v *View) Focus() bool { return v.enabled }

func (v *View) Init() bubbletea.Cmd {
	return nil
}

func (v *View) Update(msg bubbletea.Msg) viewstate.Update {
	if !v.enabled {
		return viewstate.Update{Action: viewstate.None}
	}

	if key, ok := msg.(bubbletea.KeyMsg); ok {
		if v.list.SettingFilter() && key.String() != "esc" {
			updated, cmd := v.list.Update(msg)
			v.list = updated
			return viewstate.Update{Action: viewstate.None, Cmd: cmd}
		}

		if v.findMode {
			v.findMode = false
			v.findTargets = nil
			if key.String() == "esc" {
				return viewstate.Update{Action: viewstate.None}
			}
			if r := singleRune(key); r != 0 {
				v.jumpToChar(r)
			}
			return viewstate.Update{Action: viewstate.None}
		}

		switch key.String() {
		case "esc":
			if v.list.SettingFilter() || v.list.IsFiltered() {
				v.list.ResetFilter()
				return viewstate.Update{Action: viewstate.None}
			}
			return viewstate.Update{Action: viewstate.Back}
		case "backspace", "h", "left":
			return viewstate.Update{Action: viewstate.Back}
		case "enter", "l", "right", "o":
			if selected, ok := v.list.SelectedItem().(item); ok {
				return viewstate.Update{Action: viewstate.Select, Value: selected.data}
			}
			return viewstate.Update{Action: viewstate.None}
		case "s":
			v.store.CycleSort()
			v.Refresh()
			return viewstate.Update{Action: viewstate.None}
		case "S":
			v.store.SetSort(v.store.SortMode(), !v.store.Reversed())
			v.Refresh()
			return viewstate.Update{Action: viewstate.None}
		case "c":
			return viewstate.Update{Action: viewstate.Push, Value: v.columnPicker()}
		case "f":
			v.findMode = true
			v.findTargets = v.computeFindTargets()
			return viewstate.Update{Action: viewstate.None}
		}
	}

	updated, cmd := v.list.Update(msg)
	v.list = updated
	return viewstate.Update{Action: viewstate.None, Cmd: cmd}
}

func (v *View) View() string {
	if message := v.bannerMessage(); message != "" && v.store.Count() == 0 {
		return style.Error.Render(message)
	}

	base := v.list.View()
	lines := strings.Split(base, "\n")
	if len(lines) < 2 {
		return base
	}

	// Skip leading blank lines emitted by the list model.
	dataStart := 0
	for dataStart < len(lines) && strings.TrimSpace(lines[dataStart]) == "" {
		dataStart++
	}

	label := strings.ToUpper(v.store.Name())
	if label == "" {
		label = "NAME"
	}
	header := "  " + headerRowWithHint(v.columns, v.colWidths, label, v.childHint)

	// Keep the line budget of the list so the footer does not jump.
	out := make([]string, len(lines))
	out[0] = ""
	out[1] = header
	dst := 2
	hasVisibleItems := len(v.list.VisibleItems()) > 0
	for _, line := range lines[dataStart:] {
		if !hasVisibleItems && strings.TrimSpace(ansi.Strip(line)) == "No items." {
			continue
		}
		if dst >= len(out) {
			break
		}
		out[dst] = line
		dst++
	}
	if !hasVisibleItems {
		msgRow := min(3, len(out)-1)
		out[msgRow] = style.Muted.Render("  " + v.emptyMessage())
	}
	return appendFilterBar(strings.Join(out, "\n"), v.list)
}

func (v *View) Footer() string {
	var indicators []style.Binding
	if mode := v.store.SortMode(); mode != "name" || v.store.Reversed() {
		label := mode
		if v.store.Reversed() {
			label += " desc"
		}
		indicators = append(indicators, style.B("sort", label))
	}
	if v.findMode {
		indicators = append(indicators, style.B("f", "…"))
	}
	if v.list.IsFiltered() {
		indicators = append(indicators, style.B("filter", strings.TrimSpace(v.list.FilterValue())))
	}
	line1 := style.StatusFooter(indicators, v.paginationStatus(), v.list.Width())

	actions := []style.Binding{style.B("enter", "open")}
	if v.level > 0 {
		actions = append(actions, style.B("esc", "back"))
	}
	actions = append(actions, style.B("/", "filter"), style.B("s", "sort"), style.B("f", "find"), style.B("c", "columns"))
	line2 := style.ActionFooter(actions, v.list.Width())
	return line1 + "\n" + line2
}

func (v *View) SetSize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	v.list.SetSize(width, height)
	v.Refresh()
}

func (v *View) SuppressGlobalKeys() bool {
	return v.list.SettingFilter() || v.findMode
}

// Refresh rebuilds the rows from the store and keeps the cursor on the
// committed selection.
func (v *View) Refresh() {
	records := v.store.Records()
	v.columns = v.pool
	if v.visible != nil {
		v.columns = v.visible.Get(v.store.Name(), v.pool)
	}
	rows := make([][]string, len(records))
	for i, record := range records {
		rows[i] = v.row(record)
	}
	firstHeader := strings.ToUpper(v.store.Name())
	if v.childHint != "" {
		firstHeader += " → " + v.childHint
	}
	v.colWidths = columnWidthsForRows(v.columns, rows, v.list.Width()-2, firstHeader)

	items := make([]list.Item, len(records))
	for i, record := range records {
		items[i] = item{data: record, row: rows[i], status: record.Status, widths: v.colWidths}
	}
	v.list.SetItems(items)
	if v.selected != nil {
		v.highlight(v.selected.ID)
	}
}

func (v *View) highlight(id any) {
	if index := v.visibleIndex(id); index >= 0 {
		v.list.Select(index)
		return
	}
	if !v.list.IsFiltered() {
		return
	}
	v.list.ResetFilter()
	if index := v.visibleIndex(id); index >= 0 {
		v.list.Select(index)
	}
}

func (v *View) visibleIndex(id any) int {
	for i, li := range v.list.VisibleItems() {
		if it, ok := li.(item); ok && it.data.ID == id {
			return i
		}
	}
	return -1
}

func (v *View) paginationStatus() string {
	totalVisible := len(v.list.VisibleItems())
	if totalVisible == 0 {
		if v.list.IsFiltered() {
			return fmt.Sprintf("Showing 0 of 0 filtered (%d total)", len(v.list.Items()))
		}
		return "Showing 0 of 0"
	}

	start, end := v.list.Paginator.GetSliceBounds(totalVisible)
	if v.list.IsFiltered() {
		return fmt.Sprintf("Showing %d-%d of %d filtered (%d total)", start+1, end, totalVisible, len(v.list.Items()))
	}
	return fmt.Sprintf("Showing %d-%d of %d", start+1, end, totalVisible)
}

func (v *View) emptyMessage() string {
	name := strings.ToLower(v.store.Name())
	if name == "" {
		name = "record"
	}
	switch {
	case v.store.IsLoading():
		return "Loading " + name + "s…"
	case v.list.IsFiltered():
		return "No " + name + "s match `" + strings.TrimSpace(v.list.FilterValue()) + "`. Press esc to clear."
	default:
		return "No " + name + "s found."
	}
}

func (v *View) bannerMessage() string {
	if err := v.store.Err(); err != nil {
		return "Failed to load " + strings.ToLower(v.store.Name()) + "s: " + err.Error()
	}
	return ""
}

func singleRune(key bubbletea.KeyMsg) rune {
	if key.Type == bubbletea.KeyRunes && len(key.Runes) == 1 {
		return key.Runes[0]
	}
	return 0
}

func (v *View) jumpToChar(r rune) {
	target := unicode.ToLower(r)
	for i, li := range v.list.VisibleItems() {
		if it, ok := li.(item); ok {
			name := strings.TrimSpace(it.data.Name)
			if len(name) > 0 && unicode.ToLower([]rune(name)[0]) == target {
				v.list.Select(i)
				return
			}
		}
	}
}

func (v *View) computeFindTargets() map[int]bool {
	targets := make(map[int]bool)
	seen := make(map[rune]bool)
	for i, li := range v.list.VisibleItems() {
		it, ok := li.(item)
		if !ok {
			continue
		}
		name := strings.TrimSpace(it.data.Name)
		if len(name) == 0 {
			continue
		}
		ch := unicode.ToLower([]rune(name)[0])
		if !seen[ch] {
			seen[ch] = true
			targets[i] = true
		}
	}
	return targets
}

// row renders record in the active columns.
func (v *View) row(record resources.Record) []string {
	full := tableRow(v.store.Source(), record)
	if v.visible == nil {
		return full
	}
	byName := make(map[string]string, len(v.pool))
	for i, col := range v.pool {
		if i < len(full) {
			byName[col.Name] = full[i]
		}
	}
	row := make([]string, 0, len(v.columns))
	for _, col := range v.columns {
		if col.Label != "" {
			row = append(row, columnconfig.LabelValue(record, col.Label))
			continue
		}
		row = append(row, byName[col.Name])
	}
	return row
}

func (v *View) columnPicker() *columnpicker.Picker {
	current := make([]string, 0, len(v.columns))
	for _, col := range v.columns {
		current = append(current, columnconfig.ID(col))
	}
	picker := columnpicker.New(v.store.Name(), v.pool, columnconfig.LabelColumns(v.store.Records()), current)
	picker.SetSize(v.list.Width(), v.list.Height())
	return picker
}

func tableColumns(source resources.Source) []resources.TableColumn {
	if table, ok := source.(resources.TableSource); ok {
		return table.TableColumns()
	}
	return []resources.TableColumn{
		{Name: "NAME", Width: 32},
		{Name: "STATUS", Width: 12},
		{Name: "AGE", Width: 6},
	}
}

func tableRow(source resources.Source, record resources.Record) []string {
	if table, ok := source.(resources.TableSource); ok {
		return table.TableRow(record)
	}
	return []string{record.Name, record.Status, record.Age}
}

func headerRowWithHint(columns []resources.TableColumn, widths []int, firstLabel, childHint string) string {
	headers := make([]string, 0, len(columns))
	for idx, col := range columns {
		width := col.Width
		if idx < len(widths) && widths[idx] > 0 {
			width = widths[idx]
		}
		name := col.Name
		if idx == 0 && strings.EqualFold(strings.TrimSpace(col.Name), "name") {
			label := firstLabel
			if childHint != "" {
				hint := " → " + childHint
				visibleLen := len([]rune(label)) + len([]rune(hint))
				if visibleLen <= width {
					headers = append(headers, label+style.Muted.Render(hint)+strings.Repeat(" ", width-visibleLen))
					continue
				}
			}
			name = label
		}
		headers = append(headers, padCell(name, width))
	}
	return strings.Join(headers, columnSeparator)
}

func padCell(value string, width int) string {
	runes := []rune(strings.TrimSpace(value))
	if len(runes) > width {
		if width <= 1 {
			return "…"
		}
		value = string(runes[:width-1]) + "…"
	} else {
		value = string(runes)
	}

	padding := width - len([]rune(value))
	if padding > 0 {
		return value + strings.Repeat(" ", padding)
	}
	return value
}

func columnWidths(columns []resources.TableColumn) []int {
	widths := make([]int, 0, len(columns))
	for _, col := range columns {
		widths = append(widths, col.Width)
	}
	return widths
}

// columnWidthsForRows sizes columns to their content and shrinks the
// trailing columns first when the table is wider than availableWidth.
func columnWidthsForRows(columns []resources.TableColumn, rows [][]string, availableWidth int, firstHeader string) []int {
	if len(columns) == 0 {
		return nil
	}
	if availableWidth <= 0 {
		return columnWidths(columns)
	}

	widths := make([]int, len(columns))
	for idx, col := range columns {
		headerName := strings.TrimSpace(col.Name)
		if idx == 0 && firstHeader != "" {
			headerName = firstHeader
		}
		width := max(len([]rune(headerName)), 1)
		for _, row := range rows {
			if idx < len(row) {
				width = max(width, len([]rune(strings.TrimSpace(row[idx]))))
			}
		}
		widths[idx] = width
	}

	availableContent := max(availableWidth-(len(columns)-1)*len(columnSeparator), len(columns))
	sum := 0
	for _, width := range widths {
		sum += width
	}
	over := sum - availableContent

	for over > 0 {
		progress := false
		for idx := len(widths) - 1; idx >= 0 && over > 0; idx-- {
			floor := 3
			if idx == 0 {
				floor = 6
			}
			if widths[idx] > floor {
				widths[idx]--
				over--
				progress = true
			}
		}
		if !progress {
			break
		}
	}
	return widths
}
