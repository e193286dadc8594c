// Package builder holds the builder state machine. Every mutation is a Command
// reduced by the pure Reduce function; Store serializes dispatch, publishes
// state changes and drives asynchronous section type resolution.
package builder

import (
	"maps"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

// Mode is the editing state of the builder.
type Mode int

const (
	// Idle means no section is selected.
	Idle Mode = iota
	// Editing means a section is selected for editing.
	Editing
)

func (m Mode) String() string {
	if m == Editing {
		return "editing"
	}
	return "idle"
}

// State is one immutable snapshot of the builder. Reduce never mutates a
// State it receives; sections untouched by a command keep sharing their data
// with the previous snapshot, so callers must treat section data as read-only.
type State struct {
	// Theme is the selected catalog theme. Its pages are the templates the
	// working pages were created from.
	Theme *page.Theme
	// Pages are the working copies of the theme pages.
	Pages     []page.Page
	PageIndex int
	// Settings are the active theme settings; nil means none are loaded and
	// the cascade falls back to built-in defaults.
	Settings *style.Settings
	// Components holds resolved implementations by section type.
	Components map[string]*sections.SectionType
	// Failures holds resolution errors by section type.
	Failures map[string]error
	// SelectedID is the id of the selected section, empty when idle.
	SelectedID string
}

// Mode reports whether a section is selected.
func (s State) Mode() Mode {
	if s.SelectedID == "" {
		return Idle
	}
	return Editing
}

// Prefix returns the component path prefix of the selected theme.
func (s State) Prefix() string {
	if s.Theme == nil {
		return ""
	}
	return s.Theme.ComponentPathPrefix
}

// SelectedPage returns the active working page.
func (s State) SelectedPage() (page.Page, bool) {
	if s.PageIndex < 0 || s.PageIndex >= len(s.Pages) {
		return page.Page{}, false
	}
	return s.Pages[s.PageIndex], true
}

// SelectedSection returns the selected section of the active page.
func (s State) SelectedSection() (page.Section, bool) {
	if s.SelectedID == "" {
		return page.Section{}, false
	}
	p, ok := s.SelectedPage()
	if !ok {
		return page.Section{}, false
	}
	return p.Section(s.SelectedID)
}

// Resolution reports the resolution state of sectionType. pending is true
// while neither an implementation nor a failure has been recorded.
func (s State) Resolution(sectionType string) (impl *sections.SectionType, err error, pending bool) {
	if impl, ok := s.Components[sectionType]; ok {
		return impl, nil, false
	}
	if err, ok := s.Failures[sectionType]; ok {
		return nil, err, false
	}
	return nil, nil, true
}

// Unresolved lists the section types of the active page with no recorded
// resolution, in body order.
func (s State) Unresolved() []string {
	p, ok := s.SelectedPage()
	if !ok {
		return nil
	}
	var out []string
	for _, t := range p.Types() {
		if _, _, pending := s.Resolution(t); pending {
			out = append(out, t)
		}
	}
	return out
}

// EffectiveSettings returns the loaded theme settings or the zero value.
func (s State) EffectiveSettings() style.Settings {
	if s.Settings == nil {
		return style.Settings{}
	}
	return *s.Settings
}

// Snapshot returns the selected theme with its working pages, ready to
// persist. It is a deep copy.
func (s State) Snapshot() (page.Theme, bool) {
	if s.Theme == nil {
		return page.Theme{}, false
	}
	out := *s.Theme
	out.Pages = make([]page.Page, len(s.Pages))
	for i, p := range s.Pages {
		out.Pages[i] = p.Clone()
	}
	return out, true
}

// withPage returns a copy of s whose active page is replaced by p. The other
// pages are shared.
func (s State) withPage(p page.Page) State {
	pages := make([]page.Page, len(s.Pages))
	copy(pages, s.Pages)
	pages[s.PageIndex] = p
	s.Pages = pages
	return s
}

func (s State) withResolution(sectionType string, impl *sections.SectionType, err error) State {
	components := maps.Clone(s.Components)
	if components == nil {
		components = make(map[string]*sections.SectionType)
	}
	failures := maps.Clone(s.Failures)
	if failures == nil {
		failures = make(map[string]error)
	}
	if err != nil {
		failures[sectionType] = err
		delete(components, sectionType)
	} else {
		components[sectionType] = impl
		delete(failures, sectionType)
	}
	s.Components = components
	s.Failures = failures
	return s
}
