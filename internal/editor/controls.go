package editor

import (
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
)

// Layout says how a control is placed next to its label.
type Layout int

const (
	// Row puts the label on its own line above the input.
	Row Layout = iota
	// Inline puts a toggle on the same line as its label.
	Inline
	// List renders an expandable list of item editors.
	List
)

// Control is one input of the generated form.
type Control struct {
	Path    Path
	Name    string
	Label   string
	Kind    schema.Kind
	Layout  Layout
	Field   schema.Field
	Value   any
	Message string
	// Items holds one entry per array element; each entry lists the
	// sub-controls of that element.
	Items []Item
}

// Item is one element of an array control.
type Item struct {
	Path     Path
	Index    int
	Controls []Control
}

// ControlGroup is a titled run of controls.
type ControlGroup struct {
	Name     string
	Controls []Control
}

// Groups builds the form: one control per schema field, grouped and ordered
// by the section type's presentation hints. Draft keys without a schema field
// get no control.
func (ed *Editor) Groups() []ControlGroup {
	arranged := ed.sectionType.Schema.Arrange(ed.sectionType.FieldOrder)
	groups := make([]ControlGroup, 0, len(arranged))
	for _, g := range arranged {
		group := ControlGroup{Name: g.Name}
		for _, entry := range g.Entries {
			group.Controls = append(group.Controls, ed.control(Field(entry.Name), entry.Name, entry.Field))
		}
		groups = append(groups, group)
	}
	return groups
}

// Controls flattens Groups.
func (ed *Editor) Controls() []Control {
	var out []Control
	for _, g := range ed.Groups() {
		out = append(out, g.Controls...)
	}
	return out
}

func (ed *Editor) control(p Path, name string, field schema.Field) Control {
	value, _ := ed.Value(p)
	c := Control{
		Path:    p,
		Name:    name,
		Label:   labelFor(name, field),
		Kind:    field.Kind(),
		Field:   field,
		Value:   value,
		Message: ed.Message(p),
	}
	switch f := field.(type) {
	case *schema.BooleanField:
		c.Layout = Inline
	case *schema.ArrayField:
		c.Layout = List
		list, _ := schema.AsList(value)
		for i := range list {
			itemPath := p.Index(i)
			item := Item{Path: itemPath, Index: i}
			if obj, ok := f.Item.(*schema.ObjectField); ok {
				for _, entry := range obj.Fields.Entries(nil) {
					item.Controls = append(item.Controls, ed.control(itemPath.Field(entry.Name), entry.Name, entry.Field))
				}
			} else {
				item.Controls = []Control{ed.control(itemPath, name, f.Item)}
			}
			c.Items = append(c.Items, item)
		}
	}
	return c
}

func labelFor(name string, field schema.Field) string {
	if label := field.Meta().Label; label != "" {
		return label
	}
	return name
}
