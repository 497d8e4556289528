package helpview

import (
	"strings"
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

func TestHelpTextReflectsCurrentNavigation(t *testing.T) {
	for _, want := range []string{"[ / ]                Back / forward", "1-9                  Follow breadcrumb", "n                    New record"} {
		if !strings.Contains(helpText, want) {
			t.Fatalf("help text missing %q", want)
		}
	}
	if strings.Contains(helpText, "Namespace picker") {
		t.Fatalf("help text still references removed pickers")
	}
}

func TestEscClosesHelp(t *testing.T) {
	v := New()
	v.SetSize(80, 20)
	if update := v.Update(bubbletea.KeyMsg{Type: bubbletea.KeyEscape}); update.Action != viewstate.Cancel {
		t.Fatalf("expected Cancel, got %v", update.Action)
	}
}
