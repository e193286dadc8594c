package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

const schemaBaseURL = "https://storefront.local/schemas/sections/"

// JSONSchema renders the schema as a draft 2020-12 document. Unknown data keys
// stay allowed so documents carrying extra keys still lint cleanly.
func (s Schema) JSONSchema() map[string]any {
	props := make(map[string]any, len(s))
	for name, field := range s {
		props[name] = fieldJSONSchema(field)
	}
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
}

func fieldJSONSchema(field Field) map[string]any {
	out := map[string]any{}
	if label := field.Meta().Label; label != "" {
		out["title"] = label
	}
	switch f := field.(type) {
	case *TextField:
		out["type"] = "string"
		if f.MaxLength > 0 {
			out["maxLength"] = f.MaxLength
		}
	case *TextareaField:
		out["type"] = "string"
		if f.MaxLength > 0 {
			out["maxLength"] = f.MaxLength
		}
	case *NumberField:
		out["type"] = "number"
		if f.Integer {
			out["type"] = "integer"
		}
		if f.Min != nil {
			out["minimum"] = *f.Min
		}
		if f.Max != nil {
			out["maximum"] = *f.Max
		}
	case *SliderField:
		out["type"] = "number"
		out["minimum"] = f.Min
		out["maximum"] = f.Max
	case *ColorField:
		out["type"] = "string"
		out["pattern"] = "^(#[0-9a-fA-F]{6})?$"
	case *SelectField:
		out["type"] = "string"
		values := make([]any, len(f.Options))
		for i, o := range f.Options {
			values[i] = o.Value
		}
		out["enum"] = values
	case *BooleanField:
		out["type"] = "boolean"
	case *ArrayField:
		out["type"] = "array"
		out["items"] = fieldJSONSchema(f.Item)
		if f.MaxItems > 0 {
			out["maxItems"] = f.MaxItems
		}
	case *ObjectField:
		props := make(map[string]any, len(f.Fields))
		for name, sub := range f.Fields {
			props[name] = fieldJSONSchema(sub)
		}
		out["type"] = "object"
		out["properties"] = props
	}
	return out
}

// Compiled is a schema compiled for document linting.
type Compiled struct {
	name   string
	schema *jsonschema.Schema
}

// Compile compiles s under name, usually the section type.
func Compile(name string, s Schema) (*Compiled, error) {
	doc, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("encode schema for %s: %w", name, err)
	}

	location := schemaBaseURL + url.PathEscape(name) + ".schema.json"
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(location, bytes.NewReader(doc)); err != nil {
		return nil, fmt.Errorf("add schema for %s: %w", name, err)
	}
	compiled, err := compiler.Compile(location)
	if err != nil {
		return nil, fmt.Errorf("compile schema for %s: %w", name, err)
	}
	return &Compiled{name: name, schema: compiled}, nil
}

// Validate lints data. The reported field path uses the same dotted form as
// field validation ("columns[1].links[0].href"). Nil data is an empty object.
func (c *Compiled) Validate(data map[string]any) error {
	if data == nil {
		data = map[string]any{}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return sferrors.NewValidationError("", "data is not JSON encodable", err)
	}
	var doc any
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()
	if err := decoder.Decode(&doc); err != nil {
		return sferrors.NewValidationError("", "data is not JSON encodable", err)
	}

	err = c.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return sferrors.NewValidationError("", err.Error(), err)
	}
	for len(ve.Causes) > 0 {
		ve = ve.Causes[0]
	}
	return sferrors.NewValidationError(pointerToPath(ve.InstanceLocation), ve.Message, err)
}

// pointerToPath turns "/columns/1/links/0/href" into "columns[1].links[0].href".
func pointerToPath(pointer string) string {
	var b strings.Builder
	for _, part := range strings.Split(strings.TrimPrefix(pointer, "/"), "/") {
		if part == "" {
			continue
		}
		if isIndex(part) {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		part = strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~")
		b.WriteString(part)
	}
	return b.String()
}

func isIndex(part string) bool {
	for _, r := range part {
		if r < '0' || r > '9' {
			return false
		}
	}
	return part != ""
}
