package wizardview

import (
	"testing"

	bubbletea "github.com/charmbracelet/bubbletea"
	"github.com/dloss/drilldown/internal/ui/viewstate"
	"github.com/google/go-cmp/cmp"
)

func keyRunes(r ...rune) bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyRunes, Runes: r}
}

func keyEsc() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyEscape}
}

func keyEnter() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyEnter}
}

func keyDown() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyDown}
}

func keyUp() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyUp}
}

func keyBackspace() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyBackspace}
}

func keyTab() bubbletea.KeyMsg {
	return bubbletea.KeyMsg{Type: bubbletea.KeyTab}
}

func enabledPicker() *Picker {
	p := NewPicker("Select recipe", []string{"maven2 (hosted)", "maven2 (proxy)", "npm (hosted)"})
	p.SetSize(80, 20)
	p.SetEnabled(true)
	return p
}

func TestPickerFilterNarrowsRecipes(t *testing.T) {
	p := enabledPicker()

	p.Update(keyRunes('n', 'p', 'm'))

	if diff := cmp.Diff([]string{"npm (hosted)"}, p.filtered()); diff != "" {
		t.Fatalf("filtered mismatch (-want +got):\n%s", diff)
	}
}

func TestPickerBackspaceRemovesLastFilterChar(t *testing.T) {
	p := enabledPicker()

	p.Update(keyRunes('p', 'r'))
	p.Update(keyBackspace())
	if p.filter != "p" {
		t.Fatalf("expected filter=p after backspace, got %q", p.filter)
	}
}

func TestPickerEnterSubmitsHighlightedRecipe(t *testing.T) {
	p := enabledPicker()

	p.Update(keyDown())
	update := p.Update(keyEnter())

	if update.Action != viewstate.Submit {
		t.Fatalf("expected Submit, got %v", update.Action)
	}
	if update.Value != "maven2 (proxy)" {
		t.Fatalf("expected maven2 (proxy), got %v", update.Value)
	}
}

func TestPickerEscClearsFilterThenCancels(t *testing.T) {
	p := enabledPicker()
	p.Update(keyRunes('x'))

	if update := p.Update(keyEsc()); update.Action != viewstate.None {
		t.Fatalf("expected esc to clear the filter first, got %v", update.Action)
	}
	if update := p.Update(keyEsc()); update.Action != viewstate.Cancel {
		t.Fatalf("expected Cancel, got %v", update.Action)
	}
}

func TestPickerCursorClampsAtListBoundaries(t *testing.T) {
	p := enabledPicker()

	p.Update(keyUp())
	if p.cursor != 0 {
		t.Fatalf("expected cursor=0 after up at start, got %d", p.cursor)
	}
	for range 5 {
		p.Update(keyDown())
	}
	if p.cursor != 2 {
		t.Fatalf("expected cursor=2 after excess down, got %d", p.cursor)
	}
}

func TestPickerIgnoresKeysWhileDisabled(t *testing.T) {
	p := enabledPicker()
	p.SetEnabled(false)

	if update := p.Update(keyEnter()); update.Action != viewstate.None {
		t.Fatalf("expected disabled picker to ignore enter, got %v", update.Action)
	}
}

func TestFormSubmitsTrimmedValues(t *testing.T) {
	f := NewForm("New user", []string{"Name", "Email"})
	f.SetEnabled(true)
	if !f.Focus() {
		t.Fatal("expected form to take focus")
	}

	f.Update(keyRunes([]rune(" dave ")...))
	f.Update(keyEnter())
	f.Update(keyRunes([]rune("dave@example.org")...))
	update := f.Update(keyEnter())

	if update.Action != viewstate.Submit {
		t.Fatalf("expected Submit, got %v", update.Action)
	}
	want := map[string]string{"Name": "dave", "Email": "dave@example.org"}
	if diff := cmp.Diff(want, update.Value); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestFormRequiresFirstField(t *testing.T) {
	f := NewForm("New user", []string{"Name", "Email"})
	f.SetEnabled(true)
	f.Focus()

	f.Update(keyTab())
	update := f.Update(keyEnter())

	if update.Action != viewstate.None {
		t.Fatalf("expected no submit without a name, got %v", update.Action)
	}
	if f.err != "Name is required" {
		t.Fatalf("unexpected error %q", f.err)
	}
	if f.focus != 0 {
		t.Fatalf("expected focus back on the first field, got %d", f.focus)
	}
}

func TestFormEscCancels(t *testing.T) {
	f := NewForm("New user", []string{"Name"})
	f.SetEnabled(true)
	f.Focus()

	if update := f.Update(keyEsc()); update.Action != viewstate.Cancel {
		t.Fatalf("expected Cancel, got %v", update.Action)
	}
}

func TestFormWithoutFieldsCannotFocus(t *testing.T) {
	f := NewForm("Empty", nil)
	f.SetEnabled(true)
	if f.Focus() {
		t.Fatal("expected no focus without fields")
	}
}
