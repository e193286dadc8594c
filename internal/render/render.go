// Package render draws the active page of a builder state. Every section is
// drawn on its own: a section whose type is still resolving or failed to
// resolve becomes a placeholder and never stops its siblings from rendering.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

// DefaultWidth is used when the caller passes no width.
const DefaultWidth = 72

// Status is the render outcome of one section.
type Status int

const (
	// Rendered means the section type drew the section.
	Rendered Status = iota
	// Pending means the section type is still resolving.
	Pending
	// Failed means the type could not be resolved or its renderer failed.
	Failed
)

func (s Status) String() string {
	switch s {
	case Pending:
		return "pending"
	case Failed:
		return "failed"
	default:
		return "rendered"
	}
}

// Block is one drawn section.
type Block struct {
	Section  page.Section
	Status   Status
	Output   string
	Err      error
	Selected bool
}

// Frame is a drawn page.
type Frame struct {
	Theme  string
	Page   string
	Width  int
	Blocks []Block
}

// String joins the blocks top to bottom.
func (f Frame) String() string {
	parts := make([]string, len(f.Blocks))
	for i, b := range f.Blocks {
		parts[i] = b.Output
	}
	return strings.Join(parts, "\n")
}

// Count returns how many blocks have status s.
func (f Frame) Count(s Status) int {
	n := 0
	for _, b := range f.Blocks {
		if b.Status == s {
			n++
		}
	}
	return n
}

var selectedStyle = lipgloss.NewStyle().
	Border(lipgloss.ThickBorder(), false, false, false, true).
	BorderForeground(lipgloss.Color("#1f6feb")).
	PaddingLeft(1)

// Options tune a render.
type Options struct {
	Width int
	// Highlight marks the selected section with a left rule.
	Highlight bool
}

// Render draws the active page of state.
func Render(state builder.State, opts Options) Frame {
	width := opts.Width
	if width <= 0 {
		width = DefaultWidth
	}
	frame := Frame{Width: width}
	if state.Theme != nil {
		frame.Theme = state.Theme.ID
	}
	p, ok := state.SelectedPage()
	if !ok {
		return frame
	}
	frame.Page = p.Name

	for _, section := range p.Body {
		selected := opts.Highlight && section.ID == state.SelectedID
		inner := width
		if selected {
			inner = width - 2
		}
		block := Section(state, section, inner)
		if selected {
			block.Output = selectedStyle.Render(block.Output)
			block.Selected = true
		}
		frame.Blocks = append(frame.Blocks, block)
	}
	return frame
}

// Section draws one section against the resolutions and settings of state.
func Section(state builder.State, section page.Section, width int) Block {
	block := Block{Section: section}
	impl, err, pending := state.Resolution(section.Type)

	ctx := sections.RenderContext{Section: section, Width: width}
	switch {
	case pending:
		block.Status = Pending
		block.Output, _ = sections.Pending(section.Type).Render(ctx)
		return block
	case err != nil:
		block.Status = Failed
		block.Err = err
		block.Output, _ = sections.Placeholder(section.Type, err).Render(ctx)
		return block
	}

	ctx.Data = impl.Prepare(section.Data)
	ctx.Style = style.Effective(state.Settings, section.Data)
	out, renderErr := impl.Renderer.Render(ctx)
	if renderErr != nil {
		block.Status = Failed
		block.Err = fmt.Errorf("render %s: %w", section.Type, renderErr)
		block.Output, _ = sections.Placeholder(section.Type, block.Err).Render(ctx)
		return block
	}
	block.Status = Rendered
	block.Output = out
	return block
}
