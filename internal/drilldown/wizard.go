package drilldown

import "github.com/dloss/drilldown/internal/bookmark"

type wizardState struct {
	step    int
	content any
}

// LoadCreateWizard shows step level of a create wizard, optionally swapping
// content into that level's create slot. Any later LoadView leaves the
// wizard.
func (m *Machine) LoadCreateWizard(level int, content any) {
	if level < 0 {
		return
	}
	for i := 1; i <= level; i++ {
		m.SetItemBookmark(i, bookmark.Bookmark{})
	}

	items := m.padItems(level)
	if content != nil {
		items[level].content = content
		m.opts.Shell.SetCreateContent(level, content)
	}
	items[level].Card = CardCreate
	m.wizard = &wizardState{step: level, content: items[level].content}

	m.slidePanels(level)
}

// WizardContent returns the component injected for the active wizard step.
func (m *Machine) WizardContent() (any, bool) {
	if m.wizard == nil || m.wizard.content == nil {
		return nil, false
	}
	return m.wizard.content, true
}
