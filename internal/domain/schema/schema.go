package schema

import (
	"slices"
	"sort"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
)

// Schema maps data keys of a section to their field descriptions.
type Schema map[string]Field

// Names returns the field names in lexical order.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Defaults builds a data payload holding every field's default value.
func (s Schema) Defaults() map[string]any {
	out := make(map[string]any, len(s))
	for name, field := range s {
		out[name] = field.Default()
	}
	return out
}

// ApplyDefaults returns a deep copy of data where every field missing from it
// takes its default. Keys that the schema does not know are kept as they are.
func (s Schema) ApplyDefaults(data map[string]any) map[string]any {
	out := page.CloneData(data)
	if out == nil {
		out = make(map[string]any, len(s))
	}
	for name, field := range s {
		if _, ok := out[name]; !ok {
			out[name] = field.Default()
		}
	}
	return out
}

// Validate checks every field present in data. Missing fields fall back to
// defaults at render time and unknown keys are ignored.
func (s Schema) Validate(data map[string]any) error {
	return s.validate("", data)
}

func (s Schema) validate(prefix string, data map[string]any) error {
	for _, name := range s.Names() {
		value, ok := data[name]
		if !ok {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if err := s[name].Validate(path, value); err != nil {
			return err
		}
	}
	return nil
}

// Entry is one field placed in the editor layout.
type Entry struct {
	Name  string
	Field Field
}

// Group is a titled run of entries. The ungrouped run has an empty Name.
type Group struct {
	Name    string
	Entries []Entry
}

// Arrange lays the schema out for the editor. Fields named in explicit come
// first in that order; the rest follow by Order then name, with array fields
// after every scalar. Groups appear in the order of their first entry.
func (s Schema) Arrange(explicit []string) []Group {
	placed := make(map[string]struct{}, len(s))
	entries := make([]Entry, 0, len(s))
	for _, name := range explicit {
		field, ok := s[name]
		if !ok {
			continue
		}
		if _, dup := placed[name]; dup {
			continue
		}
		placed[name] = struct{}{}
		entries = append(entries, Entry{Name: name, Field: field})
	}

	rest := make([]Entry, 0, len(s)-len(entries))
	for name, field := range s {
		if _, ok := placed[name]; ok {
			continue
		}
		rest = append(rest, Entry{Name: name, Field: field})
	}
	slices.SortFunc(rest, compareEntries)
	entries = append(entries, rest...)

	var groups []Group
	index := make(map[string]int)
	for _, entry := range entries {
		name := entry.Field.Meta().Group
		i, ok := index[name]
		if !ok {
			i = len(groups)
			index[name] = i
			groups = append(groups, Group{Name: name})
		}
		groups[i].Entries = append(groups[i].Entries, entry)
	}
	return groups
}

// Entries flattens Arrange into one ordered list.
func (s Schema) Entries(explicit []string) []Entry {
	var out []Entry
	for _, group := range s.Arrange(explicit) {
		out = append(out, group.Entries...)
	}
	return out
}

func compareEntries(a, b Entry) int {
	aArray, bArray := a.Field.Kind() == KindArray, b.Field.Kind() == KindArray
	switch {
	case aArray && !bArray:
		return 1
	case !aArray && bArray:
		return -1
	}
	if ao, bo := a.Field.Meta().Order, b.Field.Meta().Order; ao != bo {
		if ao < bo {
			return -1
		}
		return 1
	}
	switch {
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	}
	return 0
}
