package helpview

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/ui/style"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

var helpText = strings.TrimSpace(`
FEATURES
  U                    Users (security/users)
  R                    Repositories (repository/repositories)
  T                    Tasks (system/tasks)
  K                    Namespaces (cluster/namespaces, with -kube)

DRILLDOWN
  enter / right / l    Open selected row
  esc / left / h       Back one level
  1-9                  Follow breadcrumb
  n                    New record (create wizard)
  d                    Delete opened record
  r                    Reload

HISTORY
  [ / ]                Back / forward
  :                    Go to bookmark (tab completes)
  y                    Copy bookmark

TABLE
  / (slash)            Filter
  esc                  Clear filter
  s / S                Sort mode / reverse
  f <char>             Jump to first item by char
  c                    Choose columns
  space / pgup / pgdn  Page up / down

APP
  ?                    This help
  q / ctrl+c           Quit
`)

type View struct {
	viewport viewport.Model
}

func New() *View {
	vp := viewport.New(0, 0)
	vp.SetContent(helpText)
	return &View{viewport: vp}
}

func (v *View) Init() bubbletea.Cmd { return nil }

func (v *View) Update(msg bubbletea.Msg) viewstate.Update {
	if key, ok := msg.(bubbletea.KeyMsg); ok {
		switch key.String() {
		case "esc", "?", "q":
			return viewstate.Update{Action: viewstate.Cancel}
		}
	}
	updated, cmd := v.viewport.Update(msg)
	v.viewport = updated
	return viewstate.Update{Action: viewstate.None, Cmd: cmd}
}

func (v *View) View() string {
	return v.viewport.View()
}

func (v *View) Footer() string {
	return "\n" + style.ActionFooter([]style.Binding{style.B("esc", "close"), style.B("↑↓", "scroll")}, v.viewport.Width)
}

func (v *View) SuppressGlobalKeys() bool { return true }

func (v *View) SetSize(width, height int) {
	if width == 0 || height == 0 {
		return
	}
	v.viewport.Width = width
	v.viewport.Height = height
}
