package builder

import (
	"fmt"
	"slices"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Reduce applies cmd to state. It is a total function: a command that would
// break an invariant is rejected with an *errors.InvariantError (or an
// *errors.ValidationError for malformed settings) and the returned state is
// the input state.
func Reduce(state State, cmd Command) (State, error) {
	switch c := cmd.(type) {
	case SelectTheme:
		return selectTheme(state, c)
	case SelectPage:
		return selectPage(state, c)
	case SetSelectedSection:
		return setSelected(state, c)
	case UpdateSection:
		return updateSection(state, c)
	case AddSection:
		return addSection(state, c)
	case DeleteSection:
		return deleteSection(state, c)
	case ReorderSections:
		return reorder(state, c)
	case UpdateThemeSettings:
		return updateSettings(state, c)
	case ReloadComponents:
		return reloadComponents(state, c), nil
	case ComponentResolved:
		return componentResolved(state, c), nil
	case nil:
		return state, sferrors.NewInvariantError("Dispatch", "nil command")
	default:
		return state, sferrors.NewInvariantError(cmd.CommandName(), fmt.Sprintf("unsupported command %T", cmd))
	}
}

func reject(state State, cmd Command, format string, args ...any) (State, error) {
	return state, sferrors.NewInvariantError(cmd.CommandName(), fmt.Sprintf(format, args...))
}

func selectTheme(state State, c SelectTheme) (State, error) {
	if err := c.Theme.Validate(); err != nil {
		return reject(state, c, "theme %q is invalid: %v", c.Theme.ID, err)
	}
	index := 0
	if c.Page != "" {
		index = c.Theme.PageIndex(c.Page)
		if index < 0 {
			return reject(state, c, "theme %q has no page %q", c.Theme.ID, c.Page)
		}
	}

	theme := c.Theme.Clone()
	next := State{
		Theme:      &theme,
		Pages:      theme.Clone().Pages,
		PageIndex:  index,
		Components: make(map[string]*sections.SectionType),
		Failures:   make(map[string]error),
	}
	if c.Settings != nil {
		settings := *c.Settings
		next.Settings = &settings
	}
	return next, nil
}

func selectPage(state State, c SelectPage) (State, error) {
	if state.Theme == nil {
		return reject(state, c, "no theme selected")
	}
	index := -1
	for i, p := range state.Pages {
		if p.Name == c.Name {
			index = i
			break
		}
	}
	if index < 0 {
		return reject(state, c, "no page %q", c.Name)
	}
	state.PageIndex = index
	state.SelectedID = ""
	return state, nil
}

func setSelected(state State, c SetSelectedSection) (State, error) {
	if c.ID == "" {
		state.SelectedID = ""
		return state, nil
	}
	p, ok := state.SelectedPage()
	if !ok || !p.Has(c.ID) {
		return reject(state, c, "section %q is not on the active page", c.ID)
	}
	state.SelectedID = c.ID
	return state, nil
}

func updateSection(state State, c UpdateSection) (State, error) {
	p, ok := state.SelectedPage()
	if !ok {
		return reject(state, c, "no active page")
	}
	i := p.IndexOf(c.ID)
	if i < 0 {
		return reject(state, c, "section %q is not on the active page", c.ID)
	}

	body := slices.Clone(p.Body)
	body[i].Data = page.CloneData(c.Data)
	if body[i].Data == nil {
		body[i].Data = map[string]any{}
	}
	p.Body = body
	return state.withPage(p), nil
}

func addSection(state State, c AddSection) (State, error) {
	p, ok := state.SelectedPage()
	if !ok {
		return reject(state, c, "no active page")
	}
	section := c.Section.Clone()
	if section.Type == "" {
		return reject(state, c, "section type is required")
	}
	if !p.Allows(section.Type) {
		return reject(state, c, "page %q does not allow section type %q", p.Name, section.Type)
	}
	if section.ID == "" {
		section.ID = uuid.NewString()
	}
	if p.Has(section.ID) {
		return reject(state, c, "section id %q already exists", section.ID)
	}
	if section.Name == "" {
		section.Name = section.Type
	}
	if section.Data == nil {
		section.Data = map[string]any{}
	}

	index := c.Index
	if index < 0 || index > len(p.Body) {
		index = len(p.Body)
	}
	p.Body = slices.Insert(slices.Clone(p.Body), index, section)
	return state.withPage(p), nil
}

func deleteSection(state State, c DeleteSection) (State, error) {
	p, ok := state.SelectedPage()
	if !ok {
		return reject(state, c, "no active page")
	}
	i := p.IndexOf(c.ID)
	if i < 0 {
		return reject(state, c, "section %q is not on the active page", c.ID)
	}
	p.Body = slices.Delete(slices.Clone(p.Body), i, i+1)
	next := state.withPage(p)
	if next.SelectedID == c.ID {
		next.SelectedID = ""
	}
	return next, nil
}

func reorder(state State, c ReorderSections) (State, error) {
	p, ok := state.SelectedPage()
	if !ok {
		return reject(state, c, "no active page")
	}
	if !page.IsPermutation(p.Body, c.Order) {
		return reject(state, c, "order %v is not a permutation of %v", c.Order, p.IDs())
	}
	p.Body = page.Permute(p.Body, c.Order)
	return state.withPage(p), nil
}

func updateSettings(state State, c UpdateThemeSettings) (State, error) {
	if state.Theme == nil {
		return reject(state, c, "no theme selected")
	}
	if err := c.Partial.Validate(); err != nil {
		return state, err
	}
	base := state.EffectiveSettings()
	merged := base.Merge(c.Partial)
	state.Settings = &merged
	return state, nil
}

func reloadComponents(state State, c ReloadComponents) State {
	if state.Theme == nil || state.Theme.ComponentPathPrefix != c.Prefix || state.Mode() != Idle {
		return state
	}
	state.Components = make(map[string]*sections.SectionType)
	state.Failures = make(map[string]error)
	return state
}

// componentResolved applies a finished resolution unless it is stale: the
// theme changed since it started or no section of the type remains on the
// active page.
func componentResolved(state State, c ComponentResolved) State {
	if state.Theme == nil || state.Theme.ComponentPathPrefix != c.Prefix {
		return state
	}
	p, ok := state.SelectedPage()
	if !ok || !p.HasType(c.Type) {
		return state
	}
	return state.withResolution(c.Type, c.SectionType, c.Err)
}
