package tui

import "github.com/charmbracelet/bubbles/textarea"

// notesPane is one editable view of the item's notes backed by a textarea.
// It implements the synchronizer's surface contract: a save in any other
// pane replaces this pane's text wholesale.
type notesPane struct {
	area textarea.Model
	open bool
}

func newNotesPane(initial string, height int) *notesPane {
	area := textarea.New()
	area.SetValue(initial)
	area.SetHeight(height)
	area.CharLimit = 0
	return &notesPane{area: area, open: true}
}

func (p *notesPane) Refresh(notes string) {
	p.area.SetValue(notes)
}

func (p *notesPane) Alive() bool { return p.open }
