package style

import (
	"fmt"
	"sort"

	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Leaf addresses one settable value by its dotted path.
type Leaf struct {
	Path  string
	Color bool
	get   func(*Settings) *string
}

var leaves = []Leaf{
	{Path: "colors.main", Color: true, get: func(s *Settings) *string { return &s.Colors.Main }},
	{Path: "colors.text.primary", Color: true, get: func(s *Settings) *string { return &s.Colors.Text.Primary }},
	{Path: "colors.text.secondary", Color: true, get: func(s *Settings) *string { return &s.Colors.Text.Secondary }},
	{Path: "colors.text.inverted", Color: true, get: func(s *Settings) *string { return &s.Colors.Text.Inverted }},
	{Path: "colors.background.primary", Color: true, get: func(s *Settings) *string { return &s.Colors.Background.Primary }},
	{Path: "colors.background.secondary", Color: true, get: func(s *Settings) *string { return &s.Colors.Background.Secondary }},
	{Path: "colors.buttons.primary.background", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Primary.Background }},
	{Path: "colors.buttons.primary.hover", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Primary.Hover }},
	{Path: "colors.buttons.primary.text", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Primary.Text }},
	{Path: "colors.buttons.secondary.background", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Secondary.Background }},
	{Path: "colors.buttons.secondary.hover", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Secondary.Hover }},
	{Path: "colors.buttons.secondary.text", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Secondary.Text }},
	{Path: "colors.buttons.tertiary.background", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Tertiary.Background }},
	{Path: "colors.buttons.tertiary.hover", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Tertiary.Hover }},
	{Path: "colors.buttons.tertiary.text", Color: true, get: func(s *Settings) *string { return &s.Colors.Buttons.Tertiary.Text }},
	{Path: "fonts.headings", get: func(s *Settings) *string { return &s.Fonts.Headings }},
	{Path: "fonts.body", get: func(s *Settings) *string { return &s.Fonts.Body }},
	{Path: "borderRadius.none", get: func(s *Settings) *string { return &s.BorderRadius.None }},
	{Path: "borderRadius.small", get: func(s *Settings) *string { return &s.BorderRadius.Small }},
	{Path: "borderRadius.medium", get: func(s *Settings) *string { return &s.BorderRadius.Medium }},
	{Path: "borderRadius.large", get: func(s *Settings) *string { return &s.BorderRadius.Large }},
}

// Leaves lists every settable leaf.
func Leaves() []Leaf {
	return append([]Leaf(nil), leaves...)
}

// LeafPaths returns the dotted paths of every leaf, sorted.
func LeafPaths() []string {
	paths := make([]string, len(leaves))
	for i, leaf := range leaves {
		paths[i] = leaf.Path
	}
	sort.Strings(paths)
	return paths
}

func lookupLeaf(path string) (Leaf, bool) {
	for _, leaf := range leaves {
		if leaf.Path == path {
			return leaf, true
		}
	}
	return Leaf{}, false
}

// Get reads the leaf at path.
func (s Settings) Get(path string) (string, error) {
	leaf, ok := lookupLeaf(path)
	if !ok {
		return "", sferrors.NewValidationError(path, "unknown style setting", nil)
	}
	return *leaf.get(&s), nil
}

// Set returns a copy of s with the leaf at path replaced. Colour leaves must
// hold a 6-digit hex value; an empty value clears the leaf.
func (s Settings) Set(path, value string) (Settings, error) {
	leaf, ok := lookupLeaf(path)
	if !ok {
		return s, sferrors.NewValidationError(path, fmt.Sprintf("unknown style setting, expected one of %v", LeafPaths()), nil)
	}
	if leaf.Color && value != "" && !validation.IsHexColor(value) {
		return s, sferrors.NewValidationError(path, fmt.Sprintf("%q is not a 6-digit hex colour like #1a2b3c", value), nil)
	}
	*leaf.get(&s) = value
	return s, nil
}
