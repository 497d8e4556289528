package wizardview

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

// Form collects the fields of the record being created. Enter on the last
// field submits a map of field name to trimmed value.
type Form struct {
	title   string
	names   []string
	inputs  []textinput.Model
	focus   int
	err     string
	enabled bool
	width   int
}

func NewForm(title string, fields []string) *Form {
	f := &Form{title: title, names: fields}
	for _, name := range fields {
		input := textinput.New()
		input.Prompt = ""
		input.Placeholder = strings.ToLower(name)
		input.CharLimit = 128
		f.inputs = append(f.inputs, input)
	}
	return f
}

func (f *Form) SetEnabled(enabled bool) {
	f.enabled = enabled
	if !enabled {
		for i := range f.inputs {
			f.inputs[i].Blur()
		}
	}
}

func (f *Form) Enabled() bool { return f.enabled }

// Focus focuses the first field.
func (f *Form) Focus() bool {
	if !f.enabled || len(f.inputs) == 0 {
		return false
	}
	f.setFocus(0)
	return true
}

func (f *Form) SuppressGlobalKeys() bool { return true }

// SetError shows a validation or create failure under the form.
func (f *Form) SetError(err string) { f.err = err }

// Values returns the trimmed field values.
func (f *Form) Values() map[string]string {
	values := make(map[string]string, len(f.inputs))
	for i, input := range f.inputs {
		values[f.names[i]] = strings.TrimSpace(input.Value())
	}
	return values
}

func (f *Form) setFocus(index int) {
	f.focus = index
	for i := range f.inputs {
		if i == index {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

func (f *Form) Init() bubbletea.Cmd { return textinput.Blink }

func (f *Form) Update(msg bubbletea.Msg) viewstate.Update {
	if !f.enabled || len(f.inputs) == 0 {
		return viewstate.Update{Action: viewstate.None}
	}

	if key, ok := msg.(bubbletea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return viewstate.Update{Action: viewstate.Cancel}
		case "tab", "down":
			f.setFocus((f.focus + 1) % len(f.inputs))
			return viewstate.Update{Action: viewstate.None}
		case "shift+tab", "up":
			f.setFocus((f.focus + len(f.inputs) - 1) % len(f.inputs))
			return viewstate.Update{Action: viewstate.None}
		case "enter":
			if f.focus < len(f.inputs)-1 {
				f.setFocus(f.focus + 1)
				return viewstate.Update{Action: viewstate.None}
			}
			values := f.Values()
			if values[f.names[0]] == "" {
				f.err = f.names[0] + " is required"
				f.setFocus(0)
				return viewstate.Update{Action: viewstate.None}
			}
			f.err = ""
			return viewstate.Update{Action: viewstate.Submit, Value: values}
		}
	}

	updated, cmd := f.inputs[f.focus].Update(msg)
	f.inputs[f.focus] = updated
	return viewstate.Update{Action: viewstate.None, Cmd: cmd}
}

func (f *Form) View() string {
	labelW := 0
	for _, name := range f.names {
		labelW = max(labelW, len([]rune(name)))
	}

	lines := []string{style.Header.Render(f.title), ""}
	for i, input := range f.inputs {
		label := f.names[i] + strings.Repeat(" ", labelW-len([]rune(f.names[i])))
		if i == f.focus && f.enabled {
			label = style.FooterKey.Render(label)
		} else {
			label = style.Muted.Render(label)
		}
		lines = append(lines, "  "+label+"  "+input.View())
	}
	if f.err != "" {
		lines = append(lines, "", style.Error.Render("  "+f.err))
	}
	return strings.Join(lines, "\n")
}

func (f *Form) Footer() string {
	actions := []style.Binding{style.B("tab", "next field"), style.B("enter", "create"), style.B("esc", "cancel")}
	return "\n" + style.ActionFooter(actions, f.width)
}

func (f *Form) SetSize(width, height int) {
	f.width = width
	for i := range f.inputs {
		f.inputs[i].Width = max(width-len(f.names[i])-8, 10)
	}
}
