package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Binding represents a single key-label pair for the footer.
type Binding struct {
	Key   string
	Label string
}

// B is a shorthand constructor for Binding.
func B(key, label string) Binding {
	return Binding{Key: key, Label: label}
}

// FormatBindings renders a list of bindings with styled keys and muted labels,
// separated by double spaces.
func FormatBindings(bindings []Binding) string {
	parts := make([]string, len(bindings))
	for i, b := range bindings {
		parts[i] = FooterKey.Render(b.Key) + " " + FooterLabel.Render(b.Label)
	}
	return strings.Join(parts, "  ")
}

// FormatFooter renders bindings left-aligned with optional pagination right-aligned.
// If width is 0, no right-alignment is applied.
func FormatFooter(bindings []Binding, pagination string, width int) string {
	left := FormatBindings(bindings)
	if pagination == "" || width == 0 {
		return left
	}
	right := FooterLabel.Render(pagination)
	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 2 {
		return left
	}
	return left + strings.Repeat(" ", gap) + right
}

// ActionFooter renders the panel's own bindings, truncated to width.
func ActionFooter(bindings []Binding, width int) string {
	line := FormatBindings(bindings)
	if width > 0 {
		line = ansi.Truncate(line, width-1, "…")
	}
	return line
}

// StatusFooter renders status indicators left and pagination right.
func StatusFooter(indicators []Binding, pagination string, width int) string {
	return FormatFooter(indicators, pagination, width)
}

// GlobalFooter renders the console-wide navigation line.
func GlobalFooter(width int, canBack, canForward bool) string {
	bindings := []Binding{}
	if canBack {
		bindings = append(bindings, B("[", "back"))
	}
	if canForward {
		bindings = append(bindings, B("]", "forward"))
	}
	bindings = append(bindings,
		B("1-9", "crumb"),
		B(":", "bookmark"),
		B("y", "copy"),
		B("?", "help"),
		B("q", "quit"),
	)
	line := FormatBindings(bindings)
	if width > 0 {
		line = ansi.Truncate(line, width-2, "…")
	}
	return lipgloss.NewStyle().Width(width).Render(line)
}
