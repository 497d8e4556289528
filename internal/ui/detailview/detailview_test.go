package detailview

import (
	"strings"
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dloss/drilldown/internal/resources"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

var alice = resources.Record{
	ID: "alice", Name: "alice", Kind: "User", Status: "Active", Age: "90d",
	Labels: []string{"team=platform"},
	Fields: []resources.Field{{Name: "Email", Value: "alice@example.org"}, {Name: "Source", Value: "ldap"}},
}

func TestViewRendersFieldsAndLabels(t *testing.T) {
	v := New()
	v.SetSize(80, 20)
	v.SetRecord(alice)

	rendered := ansi.Strip(v.View())
	for _, want := range []string{"User alice", "Active", "FIELDS", "Email   alice@example.org", "LABELS", "team=platform"} {
		if !strings.Contains(rendered, want) {
			t.Fatalf("detail missing %q:\n%s", want, rendered)
		}
	}
}

func TestWideLayoutPutsLabelsBesideFields(t *testing.T) {
	v := New()
	v.SetSize(140, 20)
	v.SetRecord(alice)

	for _, line := range strings.Split(ansi.Strip(v.View()), "\n") {
		if strings.Contains(line, "FIELDS") {
			if !strings.Contains(line, "LABELS") {
				t.Fatalf("expected side-by-side sections, got %q", line)
			}
			return
		}
	}
	t.Fatal("FIELDS section not rendered")
}

func TestEmptyViewCannotTakeFocus(t *testing.T) {
	v := New()
	v.SetEnabled(true)
	if v.Focus() {
		t.Fatal("expected no focus without a record")
	}
	v.SetRecord(alice)
	if !v.Focus() {
		t.Fatal("expected focus with a record")
	}
}

func TestEscGoesBack(t *testing.T) {
	v := New()
	v.SetRecord(alice)
	v.SetEnabled(true)

	update := v.Update(bubbletea.KeyMsg{Type: bubbletea.KeyEscape})
	if update.Action != viewstate.Back {
		t.Fatalf("expected Back, got %v", update.Action)
	}
}
