package page

import (
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Section is one configurable block in a page body. Data keys are not required
// to match the section type's schema; unknown keys are carried verbatim.
type Section struct {
	ID   string         `json:"id" yaml:"id"`
	Type string         `json:"type" yaml:"type"`
	Name string         `json:"name" yaml:"name"`
	Data map[string]any `json:"data" yaml:"data"`
}

// NewSection returns a section with a fresh identifier.
func NewSection(sectionType, name string, data map[string]any) Section {
	if name == "" {
		name = sectionType
	}
	cloned := CloneData(data)
	if cloned == nil {
		cloned = map[string]any{}
	}
	return Section{
		ID:   uuid.NewString(),
		Type: sectionType,
		Name: name,
		Data: cloned,
	}
}

// Clone returns a deep copy of the section.
func (s Section) Clone() Section {
	s.Data = CloneData(s.Data)
	return s
}

// Page is one navigable storefront page.
type Page struct {
	Name                string    `json:"name" yaml:"name"`
	AllowedSectionTypes []string  `json:"allowedSectionTypes" yaml:"allowedSectionTypes"`
	Body                []Section `json:"body" yaml:"body"`
}

// IndexOf returns the body position of id, or -1.
func (p Page) IndexOf(id string) int {
	for i, section := range p.Body {
		if section.ID == id {
			return i
		}
	}
	return -1
}

// Has reports whether a section with id is part of the body.
func (p Page) Has(id string) bool {
	return p.IndexOf(id) >= 0
}

// Section returns the section with id.
func (p Page) Section(id string) (Section, bool) {
	if i := p.IndexOf(id); i >= 0 {
		return p.Body[i], true
	}
	return Section{}, false
}

// IDs returns the ordered section identifiers of the body.
func (p Page) IDs() []string {
	ids := make([]string, len(p.Body))
	for i, section := range p.Body {
		ids[i] = section.ID
	}
	return ids
}

// HasType reports whether any section of sectionType remains in the body.
func (p Page) HasType(sectionType string) bool {
	for _, section := range p.Body {
		if section.Type == sectionType {
			return true
		}
	}
	return false
}

// Types returns the distinct section types used by the body in first-seen order.
func (p Page) Types() []string {
	seen := make(map[string]struct{}, len(p.Body))
	types := make([]string, 0, len(p.Body))
	for _, section := range p.Body {
		if _, ok := seen[section.Type]; ok {
			continue
		}
		seen[section.Type] = struct{}{}
		types = append(types, section.Type)
	}
	return types
}

// Allows reports whether sectionType may be added to the page. An empty
// allow-list places no constraint on the body.
func (p Page) Allows(sectionType string) bool {
	if len(p.AllowedSectionTypes) == 0 {
		return true
	}
	return slices.Contains(p.AllowedSectionTypes, sectionType)
}

// Clone returns a deep copy of the page.
func (p Page) Clone() Page {
	p.AllowedSectionTypes = slices.Clone(p.AllowedSectionTypes)
	if p.Body != nil {
		body := make([]Section, len(p.Body))
		for i, section := range p.Body {
			body[i] = section.Clone()
		}
		p.Body = body
	}
	return p
}

// Validate checks the body invariants: every section has an id and a type, and
// ids are unique within the page.
func (p Page) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return newValidationError("page name is required", nil)
	}

	seen := make(map[string]struct{}, len(p.Body))
	for i, section := range p.Body {
		if strings.TrimSpace(section.ID) == "" {
			return newValidationError("section id is required", map[string]interface{}{"page": p.Name, "index": i})
		}
		if strings.TrimSpace(section.Type) == "" {
			return newValidationError("section type is required", map[string]interface{}{"page": p.Name, "id": section.ID})
		}
		if _, dup := seen[section.ID]; dup {
			return newDuplicateError(section.ID)
		}
		seen[section.ID] = struct{}{}
	}
	return nil
}

// Theme is a catalog entry: a named visual style whose section implementations
// live under ComponentPathPrefix.
type Theme struct {
	ID                  string `json:"id" yaml:"id"`
	Name                string `json:"name" yaml:"name"`
	Img                 string `json:"img" yaml:"img"`
	ComponentPathPrefix string `json:"componentPathPrefix" yaml:"componentPathPrefix"`
	Pages               []Page `json:"pages" yaml:"pages"`
}

// Page returns the page called name.
func (t Theme) Page(name string) (Page, bool) {
	for _, p := range t.Pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}

// PageIndex returns the position of the page called name, or -1.
func (t Theme) PageIndex(name string) int {
	for i, p := range t.Pages {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy of the theme.
func (t Theme) Clone() Theme {
	if t.Pages != nil {
		pages := make([]Page, len(t.Pages))
		for i, p := range t.Pages {
			pages[i] = p.Clone()
		}
		t.Pages = pages
	}
	return t
}

// Validate checks theme identity and every page.
func (t Theme) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return newValidationError("theme id is required", nil)
	}
	if strings.TrimSpace(t.ComponentPathPrefix) == "" {
		return newValidationError("theme componentPathPrefix is required", map[string]interface{}{"theme": t.ID})
	}
	if len(t.Pages) == 0 {
		return newValidationError("theme must define at least one page", map[string]interface{}{"theme": t.ID})
	}

	names := make(map[string]struct{}, len(t.Pages))
	for _, p := range t.Pages {
		if _, dup := names[p.Name]; dup {
			return newValidationError(fmt.Sprintf("duplicate page name %q", p.Name), map[string]interface{}{"theme": t.ID})
		}
		names[p.Name] = struct{}{}
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// FindPage is Page with a typed not-found error.
func (t Theme) FindPage(name string) (Page, error) {
	if p, ok := t.Page(name); ok {
		return p, nil
	}
	return Page{}, newNotFoundError("page", name)
}
