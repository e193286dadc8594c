package composer

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/editor"
	"github.com/alexisbeaulieu97/storefront/internal/render"
)

// View renders the current model state.
func (m Model) View() string {
	switch m.viewMode {
	case ViewEdit:
		return m.renderEditView()
	case ViewAdd:
		return m.renderAddView()
	case ViewConfirm:
		return m.renderConfirmView()
	case ViewHelp:
		return m.renderHelpView()
	default:
		return m.renderListView()
	}
}

func (m Model) renderListView() string {
	var content strings.Builder
	content.WriteString(m.renderHeader())
	content.WriteString("\n")
	if m.showError {
		content.WriteString(m.renderErrorBanner())
		content.WriteString("\n")
	}

	list := m.renderSectionList()
	if m.showPreview {
		listWidth := max(28, m.width/3)
		preview := m.renderPreview(max(20, m.width-listWidth-6))
		list = lipgloss.JoinHorizontal(lipgloss.Top, lipgloss.NewStyle().Width(listWidth).Render(list), preview)
	}
	content.WriteString(list)
	content.WriteString("\n")
	content.WriteString(m.renderFooter(m.help.View(listKeys)))
	return content.String()
}

func (m Model) renderHeader() string {
	themeName := "no theme"
	if m.state.Theme != nil {
		themeName = m.state.Theme.Name
		if themeName == "" {
			themeName = m.state.Theme.ID
		}
	}
	title := titleStyle.Render("Storefront · " + themeName)
	if m.unsaved {
		title += mutedStyle.Render(" (unsaved)")
	}

	tabs := make([]string, 0, len(m.state.Pages))
	for i, p := range m.state.Pages {
		if i == m.state.PageIndex {
			tabs = append(tabs, activeTabStyle.Render(p.Name))
		} else {
			tabs = append(tabs, tabStyle.Render(p.Name))
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, "  "+strings.Join(tabs, ""))
}

func (m Model) renderSectionList() string {
	body := m.body()
	if len(body) == 0 {
		return itemStyle.Render(mutedStyle.Render("This page has no sections. Press a to add one."))
	}

	lines := make([]string, 0, len(body))
	for i, section := range body {
		label := fmt.Sprintf("%d. %s %s", i+1, section.Name, mutedStyle.Render("("+section.Type+")"))
		if _, err, pending := m.state.Resolution(section.Type); pending {
			label += " " + pendingStyle.Render("…")
		} else if err != nil {
			label += " " + failedStyle.Render("unavailable")
		}
		if i == m.cursor {
			lines = append(lines, selectedItemStyle.Render(label))
		} else {
			lines = append(lines, itemStyle.Render(label))
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderPreview(width int) string {
	frame := render.Render(m.state, render.Options{Width: width, Highlight: true})
	if len(frame.Blocks) == 0 {
		return previewStyle.Render(mutedStyle.Render("Nothing to preview"))
	}
	return previewStyle.Render(frame.String())
}

func (m Model) renderEditView() string {
	var content strings.Builder
	section := m.editor.Section()
	content.WriteString(titleStyle.Render(fmt.Sprintf("Editing %s", section.Name)))
	content.WriteString(mutedStyle.Render(fmt.Sprintf("%s v%s", m.editor.SectionType().Name, m.editor.SectionType().Version)))
	if m.editor.Dirty() {
		content.WriteString(mutedStyle.Render(" (modified)"))
	}
	content.WriteString("\n")
	if m.showError {
		content.WriteString(m.renderErrorBanner())
		content.WriteString("\n")
	}
	if notice := m.editor.Notice(); notice != "" {
		content.WriteString(pendingStyle.Render(notice))
		content.WriteString("\n")
	}

	for i, r := range m.rows {
		if r.depth == 0 && r.group != "" && firstGroupRow(m.rows, i) {
			content.WriteString(groupStyle.Render(r.group))
			content.WriteString("\n")
		}
		content.WriteString(m.renderRow(i, r))
		content.WriteString("\n")
		if r.control.Message != "" {
			content.WriteString(messageStyle.Render(r.control.Message))
			content.WriteString("\n")
		}
	}
	content.WriteString(m.renderFooter(m.help.View(editKeys)))
	return content.String()
}

// firstGroupRow reports whether rows[i] opens a new group run.
func firstGroupRow(rows []row, i int) bool {
	for j := i - 1; j >= 0; j-- {
		if rows[j].depth == 0 {
			return rows[j].group != rows[i].group
		}
	}
	return true
}

func (m Model) renderRow(i int, r row) string {
	indent := strings.Repeat("  ", r.depth)
	c := r.control

	var value string
	switch {
	case m.inputActive && i == m.fieldCursor:
		value = m.input.View()
	case c.Layout == editor.List:
		value = mutedStyle.Render(fmt.Sprintf("%d items", len(c.Items)))
		if f, ok := c.Field.(*schema.ArrayField); ok && f.MaxItems > 0 {
			value = mutedStyle.Render(fmt.Sprintf("%d/%d items", len(c.Items), f.MaxItems))
		}
	case c.Kind == schema.KindColor:
		hex, _ := c.Value.(string)
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  ")
		if hex == "" {
			swatch = mutedStyle.Render("--")
		}
		value = swatch + " " + hex
	default:
		value = formatValue(c.Value)
	}

	label := c.Label
	if r.item != nil && r.depth > 0 && c.Path.String() == r.item.array.Index(r.item.index).String() {
		label = fmt.Sprintf("#%d", r.item.index+1)
	}
	line := fmt.Sprintf("%s%s: %s", indent, label, value)
	if i == m.fieldCursor {
		return selectedItemStyle.Render(line)
	}
	return itemStyle.Render(line)
}

func (m Model) renderAddView() string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("Add section"))
	content.WriteString("\n")
	for i, t := range m.addTypes {
		if i == m.addCursor {
			content.WriteString(selectedItemStyle.Render(t))
		} else {
			content.WriteString(itemStyle.Render(t))
		}
		content.WriteString("\n")
	}
	content.WriteString(m.renderFooter("enter add · esc back"))
	return content.String()
}

func (m Model) renderConfirmView() string {
	name := m.confirmID
	if p, ok := m.state.SelectedPage(); ok {
		if s, found := p.Section(m.confirmID); found {
			name = s.Name
		}
	}
	return confirmStyle.Render(fmt.Sprintf("Delete section %q?\n\n[y] yes   [n] no", name))
}

func (m Model) renderHelpView() string {
	h := m.help
	h.ShowAll = true
	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Keys"),
		h.View(listKeys),
		"",
		titleStyle.Render("Section editor"),
		h.View(editKeys),
	)
}

func (m Model) renderErrorBanner() string {
	return errorBannerStyle.Render("✗ " + m.errorMsg + "  (esc to dismiss)")
}

func (m Model) renderFooter(keys string) string {
	if m.status != "" {
		return statusStyle.Render(m.status) + "\n" + keys
	}
	return keys
}
