package schema

import (
	"errors"
	"fmt"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// fieldDoc is the on-disk shape of one field. The kind selects which of the
// optional attributes apply.
type fieldDoc struct {
	Kind        Kind      `yaml:"kind" validate:"required,oneof=text number color slider textarea select boolean array object"`
	Label       string    `yaml:"label"`
	Placeholder string    `yaml:"placeholder"`
	Group       string    `yaml:"group"`
	Order       int       `yaml:"order"`
	Default     any       `yaml:"default"`
	Min         *float64  `yaml:"min"`
	Max         *float64  `yaml:"max"`
	Step        float64   `yaml:"step" validate:"gte=0"`
	Integer     bool      `yaml:"integer"`
	MaxLength   int       `yaml:"maxLength" validate:"gte=0"`
	MaxItems    int       `yaml:"maxItems" validate:"gte=0"`
	Rows        int       `yaml:"rows" validate:"gte=0"`
	Options     []Option  `yaml:"options" validate:"omitempty,dive"`
	Swatches    []string  `yaml:"swatches" validate:"omitempty,dive,hex6"`
	ItemSchema  yaml.Node `yaml:"itemSchema"`
	Fields      yaml.Node `yaml:"fields"`
}

// UnmarshalYAML decodes a mapping of field name to field document.
func (s *Schema) UnmarshalYAML(value *yaml.Node) error {
	out, err := decodeSchema("", value)
	if err != nil {
		return err
	}
	*s = out
	return nil
}

func decodeSchema(prefix string, value *yaml.Node) (Schema, error) {
	if value.Kind != yaml.MappingNode {
		return nil, sferrors.NewValidationError(prefixOr(prefix, "schema"), "must be a mapping of field names", nil)
	}
	out := make(Schema, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		name := value.Content[i].Value
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		if _, dup := out[name]; dup {
			return nil, sferrors.NewValidationError(path, "field declared twice", nil)
		}
		field, err := decodeField(path, value.Content[i+1], false)
		if err != nil {
			return nil, err
		}
		out[name] = field
	}
	return out, nil
}

func decodeField(path string, value *yaml.Node, asItem bool) (Field, error) {
	var doc fieldDoc
	if err := value.Decode(&doc); err != nil {
		return nil, sferrors.NewValidationError(path, "malformed field", err)
	}
	if err := validation.Instance().Struct(doc); err != nil {
		var ve *sferrors.ValidationError
		if errors.As(validation.Convert(err, "kind"), &ve) {
			return nil, sferrors.NewValidationError(path+"."+ve.Field, ve.Message, ve.Err)
		}
		return nil, err
	}
	if doc.Kind == KindObject && !asItem {
		return nil, sferrors.NewValidationError(path+".kind", "object fields may only describe array items", nil)
	}

	common := Common{Label: doc.Label, Placeholder: doc.Placeholder, Group: doc.Group, Order: doc.Order}
	if common.Label == "" {
		common.Label = lastSegment(path)
	}

	var field Field
	switch doc.Kind {
	case KindText:
		field = &TextField{Common: common, DefaultValue: defaultString(doc.Default), MaxLength: doc.MaxLength}
	case KindTextarea:
		field = &TextareaField{Common: common, DefaultValue: defaultString(doc.Default), Rows: doc.Rows, MaxLength: doc.MaxLength}
	case KindNumber:
		if doc.Min != nil && doc.Max != nil && *doc.Min > *doc.Max {
			return nil, sferrors.NewValidationError(path+".min", "must not exceed max", nil)
		}
		n, _ := ToFloat(doc.Default)
		field = &NumberField{Common: common, DefaultValue: n, Min: doc.Min, Max: doc.Max, Integer: doc.Integer}
	case KindSlider:
		if doc.Min == nil || doc.Max == nil {
			return nil, sferrors.NewValidationError(path, "slider fields need min and max", nil)
		}
		if *doc.Min >= *doc.Max {
			return nil, sferrors.NewValidationError(path+".min", "must be below max", nil)
		}
		n, ok := ToFloat(doc.Default)
		if !ok {
			n = *doc.Min
		}
		step := doc.Step
		if step == 0 {
			step = 1
		}
		field = &SliderField{Common: common, DefaultValue: n, Min: *doc.Min, Max: *doc.Max, Step: step}
	case KindColor:
		field = &ColorField{Common: common, DefaultValue: defaultString(doc.Default), Swatches: slices.Clone(doc.Swatches)}
	case KindSelect:
		if len(doc.Options) == 0 {
			return nil, sferrors.NewValidationError(path+".options", "select fields need at least one option", nil)
		}
		def := defaultString(doc.Default)
		if def == "" {
			def = doc.Options[0].Value
		}
		field = &SelectField{Common: common, DefaultValue: def, Options: slices.Clone(doc.Options)}
	case KindBoolean:
		b, _ := doc.Default.(bool)
		field = &BooleanField{Common: common, DefaultValue: b}
	case KindArray:
		if doc.ItemSchema.Kind == 0 {
			return nil, sferrors.NewValidationError(path+".itemSchema", "array fields need an itemSchema", nil)
		}
		item, err := decodeField(path+"[]", &doc.ItemSchema, true)
		if err != nil {
			return nil, err
		}
		if _, nested := item.(*ArrayField); nested {
			return nil, sferrors.NewValidationError(path+".itemSchema", "arrays of arrays are not supported", nil)
		}
		var def []any
		if doc.Default != nil {
			list, ok := AsList(page.CloneValue(doc.Default))
			if !ok {
				return nil, sferrors.NewValidationError(path+".default", "must be a list", nil)
			}
			def = list
		}
		field = &ArrayField{Common: common, Item: item, DefaultValue: def, MaxItems: doc.MaxItems}
	case KindObject:
		if doc.Fields.Kind == 0 {
			return nil, sferrors.NewValidationError(path+".fields", "object fields need sub-fields", nil)
		}
		fields, err := decodeSchema(path, &doc.Fields)
		if err != nil {
			return nil, err
		}
		field = &ObjectField{Common: common, Fields: fields}
	default:
		return nil, sferrors.NewValidationError(path+".kind", fmt.Sprintf("unknown kind %q", doc.Kind), nil)
	}

	if doc.Default != nil {
		if err := field.Validate(path+".default", field.Default()); err != nil {
			return nil, err
		}
	}
	return field, nil
}

func defaultString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

func lastSegment(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '.' {
			return path[i+1:]
		}
	}
	return path
}

func prefixOr(prefix, fallback string) string {
	if prefix == "" {
		return fallback
	}
	return prefix
}
