package style

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	Header      = lipgloss.NewStyle().Bold(true)
	Footer      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrorBanner = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	InfoBanner  = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	Muted       = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	Warning     = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	Error       = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	Healthy     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	FooterKey    = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Bold(true)
	FooterLabel  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	FilterPrompt = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))

	Crumb         = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	CrumbCurrent  = lipgloss.NewStyle().Bold(true).Underline(true)
	CrumbSep      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	Tab           = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	TabActive     = lipgloss.NewStyle().Foreground(lipgloss.Color("15")).Background(lipgloss.Color("236")).Bold(true)
	SelectedField = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("250")).Bold(true)
)

type statusClass int

const (
	statusHealthy statusClass = iota
	statusWarning
	statusError
	statusNeutral
)

func classifyStatus(value string) statusClass {
	trimmed := strings.ToLower(strings.TrimSpace(value))
	switch {
	case strings.Contains(trimmed, "crashloop"),
		strings.Contains(trimmed, "error"),
		strings.Contains(trimmed, "fail"),
		strings.Contains(trimmed, "oom"),
		strings.Contains(trimmed, "backoff"),
		strings.Contains(trimmed, "locked"):
		return statusError
	case strings.Contains(trimmed, "pending"),
		strings.Contains(trimmed, "warning"),
		strings.Contains(trimmed, "degraded"),
		strings.Contains(trimmed, "progress"),
		strings.Contains(trimmed, "terminat"),
		strings.Contains(trimmed, "offline"),
		strings.Contains(trimmed, "unknown"):
		return statusWarning
	case strings.Contains(trimmed, "suspend"),
		strings.Contains(trimmed, "disabled"),
		strings.Contains(trimmed, "succeeded"),
		trimmed == "":
		return statusNeutral
	default:
		return statusHealthy
	}
}

// Status colors a status cell by severity.
func Status(value string) string {
	switch classifyStatus(value) {
	case statusError:
		return Error.Render(value)
	case statusWarning:
		return Warning.Render(value)
	case statusNeutral:
		return Muted.Render(value)
	default:
		return Healthy.Render(value)
	}
}

// StatusANSI returns the raw SGR prefix for value. Selected table rows use it
// so the row background survives the reset that lipgloss would emit.
func StatusANSI(value string) string {
	switch classifyStatus(value) {
	case statusError:
		return "\x1b[1;31m"
	case statusWarning:
		return "\x1b[1;33m"
	case statusNeutral:
		return "\x1b[38;5;241m"
	default:
		return "\x1b[92m"
	}
}
