package composer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/editor"
)

// Update handles incoming messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case StateChangedMsg:
		m.state = m.store.State()
		m.clampCursor()
		if m.editor != nil {
			m.refreshRows()
		}
		return m, waitForChange(m.changes)

	case SavedMsg:
		m.unsaved = false
		m.status = fmt.Sprintf("Saved %s", msg.Document.UpdatedAt.Format("15:04:05"))
		return m, nil

	case ErrorMsg:
		m.showError = true
		m.errorMsg = msg.Message
		return m, nil

	case ClearErrorMsg:
		m.clearError()
		return m, nil
	}

	if m.inputActive {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.viewMode {
	case ViewEdit:
		return m.handleEditKeys(msg)
	case ViewAdd:
		return m.handleAddKeys(msg)
	case ViewConfirm:
		return m.handleConfirmKeys(msg)
	case ViewHelp:
		return m.handleHelpKeys(msg)
	default:
		return m.handleListKeys(msg)
	}
}

func (m Model) handleListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	keys := listKeys
	switch {
	case key.Matches(msg, keys.Quit):
		m.Close()
		return m, tea.Quit

	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.body())-1 {
			m.cursor++
		}

	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		section, ok := m.current()
		if !ok {
			return m, nil
		}
		delta := 1
		if key.Matches(msg, keys.MoveUp) {
			delta = -1
		}
		moved, err := m.reorder.Move(m.ctx, section.ID, delta)
		m.state = m.store.State()
		if err != nil {
			m.fail(err)
			return m, nil
		}
		if moved {
			m.unsaved = true
			m.cursor = max(0, min(m.cursor+delta, len(m.body())-1))
		}

	case key.Matches(msg, keys.Edit):
		return m.openEditor()

	case key.Matches(msg, keys.Add):
		m.addTypes = m.allowedTypes()
		m.addCursor = 0
		if len(m.addTypes) == 0 {
			m.fail(errors.New("this page accepts no section types"))
			return m, nil
		}
		m.viewMode = ViewAdd

	case key.Matches(msg, keys.Delete):
		if section, ok := m.current(); ok {
			m.confirmID = section.ID
			m.viewMode = ViewConfirm
		}

	case key.Matches(msg, keys.NextPage), key.Matches(msg, keys.PrevPage):
		n := len(m.state.Pages)
		if n < 2 {
			return m, nil
		}
		step := 1
		if key.Matches(msg, keys.PrevPage) {
			step = n - 1
		}
		next := m.state.Pages[(m.state.PageIndex+step)%n].Name
		if m.dispatch(builder.SelectPage{Name: next}) {
			m.cursor = 0
		}

	case key.Matches(msg, keys.Preview):
		m.showPreview = !m.showPreview

	case key.Matches(msg, keys.Save):
		if m.saver == nil {
			m.fail(errors.New("saving is not available"))
			return m, nil
		}
		m.status = "Saving…"
		return m, saveCmd(m.saver, m.state)

	case key.Matches(msg, keys.Help):
		m.viewMode = ViewHelp

	case key.Matches(msg, keys.Back):
		m.clearError()
	}
	return m, nil
}

func (m Model) openEditor() (tea.Model, tea.Cmd) {
	section, ok := m.current()
	if !ok {
		return m, nil
	}
	if !m.dispatch(builder.SetSelectedSection{ID: section.ID}) {
		return m, nil
	}
	ed, err := editor.Open(m.store, m.editorOpts...)
	if err != nil {
		m.dispatch(builder.SetSelectedSection{})
		if errors.Is(err, editor.ErrPending) {
			m.status = fmt.Sprintf("%s is still loading", section.Type)
			return m, nil
		}
		m.fail(err)
		return m, nil
	}
	m.editor = ed
	m.fieldCursor = 0
	m.refreshRows()
	m.viewMode = ViewEdit
	m.clearError()
	return m, nil
}

func (m Model) allowedTypes() []string {
	p, ok := m.state.SelectedPage()
	if !ok {
		return nil
	}
	if len(p.AllowedSectionTypes) > 0 {
		return slices.Clone(p.AllowedSectionTypes)
	}
	return p.Types()
}

func (m Model) handleAddKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.addCursor > 0 {
			m.addCursor--
		}
	case "down", "j":
		if m.addCursor < len(m.addTypes)-1 {
			m.addCursor++
		}
	case "enter":
		sectionType := m.addTypes[m.addCursor]
		index := m.cursor + 1
		if len(m.body()) == 0 {
			index = 0
		}
		if m.dispatch(builder.AddSection{Section: page.Section{Type: sectionType}, Index: index}) {
			m.cursor = index
			m.status = fmt.Sprintf("Added %s", sectionType)
		}
		m.viewMode = ViewList
	case "esc", "q":
		m.viewMode = ViewList
	}
	return m, nil
}

func (m Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if m.dispatch(builder.DeleteSection{ID: m.confirmID}) {
			m.status = "Section deleted"
		}
		m.confirmID = ""
		m.viewMode = ViewList
	case "n", "N", "esc":
		m.confirmID = ""
		m.viewMode = ViewList
	}
	return m, nil
}

func (m Model) handleHelpKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "?", "esc", "q":
		m.viewMode = ViewList
	}
	return m, nil
}

func (m Model) handleEditKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.inputActive {
		return m.handleInputKeys(msg)
	}

	keys := editKeys
	r, hasRow := m.currentRow()
	switch {
	case key.Matches(msg, keys.Cancel):
		_, err := m.editor.Cancel(m.ctx)
		return m.closeEditor(err, "Changes discarded")

	case key.Matches(msg, keys.Save):
		_, err := m.editor.Save(m.ctx)
		if err == nil {
			m.unsaved = true
		}
		return m.closeEditor(err, "Section updated")

	case key.Matches(msg, keys.Up):
		if m.fieldCursor > 0 {
			m.fieldCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.fieldCursor < len(m.rows)-1 {
			m.fieldCursor++
		}

	case !hasRow:
		return m, nil

	case key.Matches(msg, keys.Change):
		return m.change(r)

	case key.Matches(msg, keys.Remove):
		if r.item == nil {
			return m, nil
		}
		_ = m.editor.RemoveItem(r.item.array, r.item.index)
		m.refreshRows()

	case key.Matches(msg, keys.MoveUp), key.Matches(msg, keys.MoveDown):
		if r.item == nil {
			return m, nil
		}
		to := r.item.index + 1
		if key.Matches(msg, keys.MoveUp) {
			to = r.item.index - 1
		}
		if to < 0 || to >= r.item.count {
			return m, nil
		}
		_ = m.editor.MoveItem(r.item.array, r.item.index, to)
		m.refreshRows()

	case key.Matches(msg, keys.Swatch):
		if r.control.Kind != schema.KindColor {
			return m, nil
		}
		swatches := m.editor.Swatches(r.control.Path)
		if len(swatches) == 0 {
			return m, nil
		}
		current, _ := r.control.Value.(string)
		next := (slices.Index(swatches, current) + 1) % len(swatches)
		_ = m.editor.PickSwatch(r.control.Path, next)
		m.refreshRows()

	case key.Matches(msg, keys.Pick):
		if r.control.Kind != schema.KindColor {
			return m, nil
		}
		if _, err := m.editor.Eyedrop(m.ctx, r.control.Path); err != nil {
			m.fail(err)
		}
		m.refreshRows()
	}
	return m, nil
}

func (m Model) change(r row) (tea.Model, tea.Cmd) {
	switch r.control.Kind {
	case schema.KindArray:
		_ = m.editor.AddItem(r.control.Path, nil)
		m.refreshRows()
		return m, nil
	case schema.KindBoolean:
		on, _ := r.control.Value.(bool)
		_ = m.editor.Set(r.control.Path, !on)
		m.refreshRows()
		return m, nil
	case schema.KindObject:
		return m, nil
	}

	m.input.SetValue(formatValue(r.control.Value))
	m.input.CursorEnd()
	m.inputActive = true
	return m, m.input.Focus()
}

func (m Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		if r, ok := m.currentRow(); ok {
			// Rejected input stays in the draft's message map and is shown inline.
			_ = m.editor.SetInput(r.control.Path, m.input.Value())
		}
		m.inputActive = false
		m.input.Blur()
		m.refreshRows()
		return m, nil
	case tea.KeyEsc:
		m.inputActive = false
		m.input.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) closeEditor(err error, status string) (tea.Model, tea.Cmd) {
	m.state = m.store.State()
	if err != nil {
		m.fail(err)
		return m, nil
	}
	m.editor = nil
	m.rows = nil
	m.inputActive = false
	m.viewMode = ViewList
	m.status = status
	return m, nil
}
