// Package style holds theme-wide style settings and the cascade that resolves
// the effective style of one section.
package style

import (
	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// ButtonColors styles one button variant.
type ButtonColors struct {
	Background string `json:"background,omitempty" yaml:"background,omitempty"`
	Hover      string `json:"hover,omitempty" yaml:"hover,omitempty"`
	Text       string `json:"text,omitempty" yaml:"text,omitempty"`
}

// Buttons groups the button variants.
type Buttons struct {
	Primary   ButtonColors `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary ButtonColors `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Tertiary  ButtonColors `json:"tertiary,omitempty" yaml:"tertiary,omitempty"`
}

// TextColors are the foreground colours.
type TextColors struct {
	Primary   string `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
	Inverted  string `json:"inverted,omitempty" yaml:"inverted,omitempty"`
}

// BackgroundColors are the surface colours.
type BackgroundColors struct {
	Primary   string `json:"primary,omitempty" yaml:"primary,omitempty"`
	Secondary string `json:"secondary,omitempty" yaml:"secondary,omitempty"`
}

// Colors is the colour palette.
type Colors struct {
	Main       string           `json:"main,omitempty" yaml:"main,omitempty"`
	Text       TextColors       `json:"text,omitempty" yaml:"text,omitempty"`
	Background BackgroundColors `json:"background,omitempty" yaml:"background,omitempty"`
	Buttons    Buttons          `json:"buttons,omitempty" yaml:"buttons,omitempty"`
}

// Fonts names the font families.
type Fonts struct {
	Headings string `json:"headings,omitempty" yaml:"headings,omitempty"`
	Body     string `json:"body,omitempty" yaml:"body,omitempty"`
}

// BorderRadius holds the corner radius scale, in CSS length syntax.
type BorderRadius struct {
	None   string `json:"none,omitempty" yaml:"none,omitempty"`
	Small  string `json:"small,omitempty" yaml:"small,omitempty"`
	Medium string `json:"medium,omitempty" yaml:"medium,omitempty"`
	Large  string `json:"large,omitempty" yaml:"large,omitempty"`
}

// Settings is the theme-wide style. Every leaf is optional; an empty leaf
// falls through to the next layer of the cascade.
type Settings struct {
	Colors       Colors       `json:"colors,omitempty" yaml:"colors,omitempty"`
	Fonts        Fonts        `json:"fonts,omitempty" yaml:"fonts,omitempty"`
	BorderRadius BorderRadius `json:"borderRadius,omitempty" yaml:"borderRadius,omitempty"`
}

// Defaults returns the built-in style used when neither the theme nor a
// section says otherwise.
func Defaults() Settings {
	return Settings{
		Colors: Colors{
			Main: "#1f6feb",
			Text: TextColors{
				Primary:   "#111111",
				Secondary: "#555555",
				Inverted:  "#ffffff",
			},
			Background: BackgroundColors{
				Primary:   "#ffffff",
				Secondary: "#f5f5f5",
			},
			Buttons: Buttons{
				Primary:   ButtonColors{Background: "#1f6feb", Hover: "#1a5fcc", Text: "#ffffff"},
				Secondary: ButtonColors{Background: "#ffffff", Hover: "#f0f0f0", Text: "#1f6feb"},
				Tertiary:  ButtonColors{Background: "#111111", Hover: "#333333", Text: "#ffffff"},
			},
		},
		Fonts: Fonts{
			Headings: "Inter",
			Body:     "Inter",
		},
		BorderRadius: BorderRadius{
			None:   "0",
			Small:  "4px",
			Medium: "8px",
			Large:  "16px",
		},
	}
}

// Merge returns s with every non-empty top-level group of partial replacing
// the group it names. Groups left empty in partial keep their current value.
func (s Settings) Merge(partial Settings) Settings {
	if partial.Colors != (Colors{}) {
		s.Colors = partial.Colors
	}
	if partial.Fonts != (Fonts{}) {
		s.Fonts = partial.Fonts
	}
	if partial.BorderRadius != (BorderRadius{}) {
		s.BorderRadius = partial.BorderRadius
	}
	return s
}

// Validate checks that every colour set is a 6-digit hex value.
func (s Settings) Validate() error {
	for path, value := range s.colorLeaves() {
		if value == "" {
			continue
		}
		if !validation.IsHexColor(value) {
			return sferrors.NewValidationError(path, "must be a 6-digit hex colour like #1a2b3c", nil)
		}
	}
	return nil
}

func (s Settings) colorLeaves() map[string]string {
	out := make(map[string]string)
	for _, leaf := range Leaves() {
		if leaf.Color {
			out[leaf.Path] = *leaf.get(&s)
		}
	}
	return out
}
