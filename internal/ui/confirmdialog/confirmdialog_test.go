package confirmdialog

import (
	"strings"
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/dloss/drilldown/internal/ui/viewstate"
)

func keyRunes(r ...rune) bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: r}
}

func TestYesConfirms(t *testing.T) {
	d := New("Confirm deletion?", "alice")
	if update := d.Update(keyRunes('y')); update.Action != viewstate.Submit {
		t.Fatalf("expected Submit, got %v", update.Action)
	}
}

func TestEnterDefaultsToNo(t *testing.T) {
	d := New("Confirm deletion?", "alice")
	if update := d.Update(bubbletea.KeyMsg{Type: bubbletea.KeyEnter}); update.Action != viewstate.Cancel {
		t.Fatalf("expected Cancel by default, got %v", update.Action)
	}

	d.Update(bubbletea.KeyMsg{Type: bubbletea.KeyTab})
	if update := d.Update(bubbletea.KeyMsg{Type: bubbletea.KeyEnter}); update.Action != viewstate.Submit {
		t.Fatalf("expected Submit after toggling, got %v", update.Action)
	}
}

func TestEscCancels(t *testing.T) {
	d := New("Confirm deletion?", "alice")
	if update := d.Update(bubbletea.KeyMsg{Type: bubbletea.KeyEscape}); update.Action != viewstate.Cancel {
		t.Fatalf("expected Cancel, got %v", update.Action)
	}
}

func TestViewShowsTitleAndMessage(t *testing.T) {
	d := New("Confirm deletion?", "maven-central")
	d.SetSize(80, 20)

	rendered := ansi.Strip(d.View())
	if !strings.Contains(rendered, "Confirm deletion?") || !strings.Contains(rendered, "maven-central") {
		t.Fatalf("dialog missing content:\n%s", rendered)
	}
	if lines := strings.Split(rendered, "\n"); len(lines) != 20 {
		t.Fatalf("expected dialog placed in a 20 line body, got %d", len(lines))
	}
}
