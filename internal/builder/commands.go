package builder

import (
	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

// Command is one builder mutation.
type Command interface {
	CommandName() string
}

// SelectTheme resets the builder to theme. Settings are the theme's own
// settings (nil for none). Page names the initial page; empty selects the
// first one.
type SelectTheme struct {
	Theme    page.Theme
	Settings *style.Settings
	Page     string
}

// SelectPage switches the active page of the selected theme.
type SelectPage struct {
	Name string
}

// SetSelectedSection selects the section with ID, or deselects when ID is empty.
type SetSelectedSection struct {
	ID string
}

// UpdateSection replaces the data of the section with ID.
type UpdateSection struct {
	ID   string
	Data map[string]any
}

// AddSection inserts Section at Index. An out-of-range Index appends and an
// empty Section.ID is replaced by a fresh one.
type AddSection struct {
	Section page.Section
	Index   int
}

// DeleteSection removes the section with ID.
type DeleteSection struct {
	ID string
}

// ReorderSections rearranges the body to follow Order, a permutation of the
// current section ids.
type ReorderSections struct {
	Order []string
}

// UpdateThemeSettings shallow-merges Partial into the active settings.
type UpdateThemeSettings struct {
	Partial style.Settings
}

// ReloadComponents forgets every resolution of the selected theme so the
// active page resolves again. It is a no-op while a section is being edited or
// when Prefix is not the selected theme's component path prefix.
type ReloadComponents struct {
	Prefix string
}

// ComponentResolved records the outcome of an asynchronous resolution.
type ComponentResolved struct {
	Type        string
	Prefix      string
	SectionType *sections.SectionType
	Err         error
}

func (SelectTheme) CommandName() string         { return "SelectTheme" }
func (SelectPage) CommandName() string          { return "SelectPage" }
func (SetSelectedSection) CommandName() string  { return "SetSelectedSection" }
func (UpdateSection) CommandName() string       { return "UpdateSection" }
func (AddSection) CommandName() string          { return "AddSection" }
func (DeleteSection) CommandName() string       { return "DeleteSection" }
func (ReorderSections) CommandName() string     { return "ReorderSections" }
func (UpdateThemeSettings) CommandName() string { return "UpdateThemeSettings" }
func (ReloadComponents) CommandName() string    { return "ReloadComponents" }
func (ComponentResolved) CommandName() string   { return "ComponentResolved" }
