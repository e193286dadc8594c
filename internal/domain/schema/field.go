// Package schema models the editable fields of a section type. Each field kind
// is its own Go type; code that needs per-kind behaviour switches on the
// concrete type and a new kind is added as a new type plus one case per switch.
package schema

import (
	"fmt"
	"math"
	"slices"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// Kind names a field variant.
type Kind string

const (
	KindText     Kind = "text"
	KindNumber   Kind = "number"
	KindColor    Kind = "color"
	KindSlider   Kind = "slider"
	KindTextarea Kind = "textarea"
	KindSelect   Kind = "select"
	KindBoolean  Kind = "boolean"
	KindArray    Kind = "array"
	// KindObject only appears as the item shape of an array (link, link group).
	KindObject Kind = "object"
)

// Common carries the presentation attributes every field shares.
type Common struct {
	Label       string
	Placeholder string
	// Group and Order are presentation hints for the editor.
	Group string
	Order int
}

// Option is one choice of a select field.
type Option struct {
	Value string `yaml:"value" json:"value" validate:"required"`
	Label string `yaml:"label" json:"label"`
}

// Field describes one editable property of a section type.
type Field interface {
	Kind() Kind
	Meta() Common
	// Default returns a fresh copy of the value used when data lacks the field.
	Default() any
	// Validate checks value and reports failures against path.
	Validate(path string, value any) error
	isField()
}

// TextField is a single-line string.
type TextField struct {
	Common
	DefaultValue string
	MaxLength    int
}

func (f *TextField) Kind() Kind   { return KindText }
func (f *TextField) Meta() Common { return f.Common }
func (f *TextField) Default() any { return f.DefaultValue }
func (*TextField) isField()       {}

func (f *TextField) Validate(path string, value any) error {
	return validateString(path, value, f.MaxLength)
}

// TextareaField is a multi-line string.
type TextareaField struct {
	Common
	DefaultValue string
	Rows         int
	MaxLength    int
}

func (f *TextareaField) Kind() Kind   { return KindTextarea }
func (f *TextareaField) Meta() Common { return f.Common }
func (f *TextareaField) Default() any { return f.DefaultValue }
func (*TextareaField) isField()       {}

func (f *TextareaField) Validate(path string, value any) error {
	return validateString(path, value, f.MaxLength)
}

// NumberField is a free numeric input with optional bounds.
type NumberField struct {
	Common
	DefaultValue float64
	Min          *float64
	Max          *float64
	Integer      bool
}

func (f *NumberField) Kind() Kind   { return KindNumber }
func (f *NumberField) Meta() Common { return f.Common }
func (f *NumberField) Default() any { return f.DefaultValue }
func (*NumberField) isField()       {}

func (f *NumberField) Validate(path string, value any) error {
	n, err := finiteNumber(path, value)
	if err != nil {
		return err
	}
	if f.Integer && n != float64(int64(n)) {
		return sferrors.NewValidationError(path, "must be a whole number", nil)
	}
	return validateRange(path, n, f.Min, f.Max)
}

// SliderField is a bounded numeric input.
type SliderField struct {
	Common
	DefaultValue float64
	Min          float64
	Max          float64
	Step         float64
}

func (f *SliderField) Kind() Kind   { return KindSlider }
func (f *SliderField) Meta() Common { return f.Common }
func (f *SliderField) Default() any { return f.DefaultValue }
func (*SliderField) isField()       {}

func (f *SliderField) Validate(path string, value any) error {
	n, err := finiteNumber(path, value)
	if err != nil {
		return err
	}
	return validateRange(path, n, &f.Min, &f.Max)
}

// ColorField holds a "#rrggbb" colour. Swatches feed the picker popover. An
// empty value means unset and lets the style cascade decide.
type ColorField struct {
	Common
	DefaultValue string
	Swatches     []string
}

func (f *ColorField) Kind() Kind   { return KindColor }
func (f *ColorField) Meta() Common { return f.Common }
func (f *ColorField) Default() any { return f.DefaultValue }
func (*ColorField) isField()       {}

func (f *ColorField) Validate(path string, value any) error {
	s, ok := value.(string)
	if !ok {
		return sferrors.NewValidationError(path, "must be a colour string", nil)
	}
	if s != "" && !validation.IsHexColor(s) {
		return sferrors.NewValidationError(path, fmt.Sprintf("%q is not a 6-digit hex colour like #1a2b3c", s), nil)
	}
	return nil
}

// SelectField restricts the value to one of Options.
type SelectField struct {
	Common
	DefaultValue string
	Options      []Option
}

func (f *SelectField) Kind() Kind   { return KindSelect }
func (f *SelectField) Meta() Common { return f.Common }
func (f *SelectField) Default() any { return f.DefaultValue }
func (*SelectField) isField()       {}

func (f *SelectField) Validate(path string, value any) error {
	s, ok := value.(string)
	if !ok {
		return sferrors.NewValidationError(path, "must be one of the listed options", nil)
	}
	if !slices.ContainsFunc(f.Options, func(o Option) bool { return o.Value == s }) {
		return sferrors.NewValidationError(path, fmt.Sprintf("%q is not one of the listed options", s), nil)
	}
	return nil
}

// Values returns the option values in declaration order.
func (f *SelectField) Values() []string {
	values := make([]string, len(f.Options))
	for i, o := range f.Options {
		values[i] = o.Value
	}
	return values
}

// BooleanField is a toggle.
type BooleanField struct {
	Common
	DefaultValue bool
}

func (f *BooleanField) Kind() Kind   { return KindBoolean }
func (f *BooleanField) Meta() Common { return f.Common }
func (f *BooleanField) Default() any { return f.DefaultValue }
func (*BooleanField) isField()       {}

func (f *BooleanField) Validate(path string, value any) error {
	if _, ok := value.(bool); !ok {
		return sferrors.NewValidationError(path, "must be true or false", nil)
	}
	return nil
}

// ArrayField is a repeating list whose elements are described by Item.
type ArrayField struct {
	Common
	Item         Field
	DefaultValue []any
	MaxItems     int
}

func (f *ArrayField) Kind() Kind   { return KindArray }
func (f *ArrayField) Meta() Common { return f.Common }
func (*ArrayField) isField()       {}

func (f *ArrayField) Default() any {
	if f.DefaultValue == nil {
		return []any{}
	}
	return page.CloneValue(f.DefaultValue)
}

func (f *ArrayField) Validate(path string, value any) error {
	list, ok := AsList(value)
	if !ok {
		return sferrors.NewValidationError(path, "must be a list", nil)
	}
	if f.MaxItems > 0 && len(list) > f.MaxItems {
		return sferrors.NewValidationError(path, fmt.Sprintf("holds at most %d items", f.MaxItems), nil)
	}
	for i, item := range list {
		if err := f.Item.Validate(fmt.Sprintf("%s[%d]", path, i), item); err != nil {
			return err
		}
	}
	return nil
}

// NewItem returns the value appended by "add item" when the caller supplies none.
func (f *ArrayField) NewItem() any {
	return f.Item.Default()
}

// ObjectField groups named sub-fields into one array element.
type ObjectField struct {
	Common
	Fields Schema
}

func (f *ObjectField) Kind() Kind   { return KindObject }
func (f *ObjectField) Meta() Common { return f.Common }
func (f *ObjectField) Default() any { return f.Fields.Defaults() }
func (*ObjectField) isField()       {}

func (f *ObjectField) Validate(path string, value any) error {
	m, ok := value.(map[string]any)
	if !ok {
		return sferrors.NewValidationError(path, "must be an object", nil)
	}
	return f.Fields.validate(path, m)
}

func validateString(path string, value any, maxLength int) error {
	s, ok := value.(string)
	if !ok {
		return sferrors.NewValidationError(path, "must be text", nil)
	}
	if maxLength > 0 {
		if err := validation.Instance().Var(s, fmt.Sprintf("max=%d", maxLength)); err != nil {
			return sferrors.NewValidationError(path, fmt.Sprintf("must be at most %d characters", maxLength), err)
		}
	}
	return nil
}

// finiteNumber reads value as a number that JSON can carry.
func finiteNumber(path string, value any) (float64, error) {
	n, ok := ToFloat(value)
	if !ok {
		return 0, sferrors.NewValidationError(path, "must be a number", nil)
	}
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, sferrors.NewValidationError(path, "must be a finite number", nil)
	}
	return n, nil
}

func validateRange(path string, n float64, minimum, maximum *float64) error {
	v := validation.Instance()
	if minimum != nil {
		if err := v.Var(n, fmt.Sprintf("gte=%g", *minimum)); err != nil {
			return sferrors.NewValidationError(path, fmt.Sprintf("must be at least %g", *minimum), err)
		}
	}
	if maximum != nil {
		if err := v.Var(n, fmt.Sprintf("lte=%g", *maximum)); err != nil {
			return sferrors.NewValidationError(path, fmt.Sprintf("must be at most %g", *maximum), err)
		}
	}
	return nil
}
