// Package breadcrumb renders the drilldown's crumb trail. Crumbs are numbered
// so the number keys can follow them.
package breadcrumb

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/dloss/drilldown/internal/drilldown"
	"github.com/dloss/drilldown/internal/ui/style"
)

const separator = " › "

var icons = map[string]string{
	"user":       "◉",
	"role":       "◆",
	"repository": "▤",
	"task":       "◷",
	"run":        "▸",
	"namespace":  "▢",
	"pod":        "●",
}

// Icon maps an icon class to a glyph; unknown classes have none.
func Icon(class string) string {
	return icons[class]
}

// Render draws crumbs on one line, eliding middle crumbs when wider than
// width. A width of 0 disables elision.
func Render(crumbs []drilldown.Crumb, width int) string {
	if len(crumbs) == 0 {
		return ""
	}
	parts := make([]string, len(crumbs))
	for i, c := range crumbs {
		parts[i] = renderCrumb(i+1, c)
	}

	line := strings.Join(parts, style.CrumbSep.Render(separator))
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}

	// Keep the home crumb and as many trailing crumbs as fit.
	for skip := 1; skip < len(parts)-1; skip++ {
		kept := append([]string{parts[0], style.Muted.Render("…")}, parts[skip+1:]...)
		line = strings.Join(kept, style.CrumbSep.Render(separator))
		if ansi.StringWidth(line) <= width {
			return line
		}
	}
	return ansi.Truncate(line, width, "…")
}

func renderCrumb(number int, c drilldown.Crumb) string {
	label := c.Name
	if glyph := Icon(c.IconClass); glyph != "" {
		label = glyph + " " + label
	}
	key := style.FooterKey.Render(strconv.Itoa(number))
	if c.Disabled {
		return key + " " + style.CrumbCurrent.Render(label)
	}
	return key + " " + style.Crumb.Render(label)
}

// Root renders the home line of a feature: its title followed by the other
// features' hotkeys.
func Root(title string, tabs []Tab, width int) string {
	parts := []string{style.Header.Render(title)}
	for _, tab := range tabs {
		label := string(tab.Key) + " " + tab.Title
		if tab.Active {
			parts = append(parts, style.TabActive.Render(" "+label+" "))
		} else {
			parts = append(parts, style.Tab.Render(" "+label+" "))
		}
	}
	line := strings.Join(parts, "  ")
	if width > 0 {
		line = ansi.Truncate(line, width, "…")
	}
	return line
}

type Tab struct {
	Key    rune
	Title  string
	Active bool
}
