package sections

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	placeholderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder()).
				BorderForeground(lipgloss.Color("#cf222e")).
				Foreground(lipgloss.Color("#cf222e")).
				Padding(0, 1)

	pendingStyle = lipgloss.NewStyle().
			Border(lipgloss.HiddenBorder()).
			Foreground(lipgloss.Color("#8c959f")).
			Italic(true).
			Padding(0, 1)
)

// Placeholder draws an inert block in place of a section whose type could not
// be resolved. It never fails, so sibling sections keep rendering.
func Placeholder(sectionType string, cause error) Renderer {
	return RenderFunc(func(ctx RenderContext) (string, error) {
		body := fmt.Sprintf("Unavailable section %q (%s)", sectionType, ctx.Section.Name)
		if cause != nil {
			body += "\n" + cause.Error()
		}
		return boxed(placeholderStyle, ctx.Width).Render(body), nil
	})
}

// Pending draws the loading state of a section whose type is still resolving.
func Pending(sectionType string) Renderer {
	return RenderFunc(func(ctx RenderContext) (string, error) {
		return boxed(pendingStyle, ctx.Width).Render(fmt.Sprintf("Loading %s…", sectionType)), nil
	})
}

func boxed(style lipgloss.Style, width int) lipgloss.Style {
	if width > 4 {
		return style.Width(width - 2)
	}
	return style
}
