package listview

import (
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/dloss/drilldown/internal/ui/style"
)

// setupFilter hides the list's own filter line; the prompt is drawn at the
// bottom of the table instead.
func setupFilter(model *list.Model) {
	model.SetShowFilter(false)
	model.FilterInput.Prompt = "/ "
	model.FilterInput.PromptStyle = style.FilterPrompt
	model.FilterInput.TextStyle = lipgloss.NewStyle()
	model.Styles.FilterPrompt = style.FilterPrompt
}

// appendFilterBar puts the filter input on the last line while filtering.
// Only trailing padding is consumed; interior blank lines are content.
func appendFilterBar(view string, l list.Model) string {
	if !l.SettingFilter() {
		return view
	}
	bar := l.FilterInput.View()
	lines := strings.Split(view, "\n")
	if len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines[len(lines)-1] = bar
		return strings.Join(lines, "\n")
	}
	return view + "\n" + bar
}
