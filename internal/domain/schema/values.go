package schema

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/storefront/internal/validation"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// ToFloat reads any numeric data value as float64.
func ToFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// AsList reads a list data value. Typed slices produced by Go callers are
// accepted alongside the []any shape produced by decoders.
func AsList(value any) ([]any, bool) {
	switch v := value.(type) {
	case []any:
		return v, true
	case []map[string]any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case []string:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = item
		}
		return out, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

// ParseInput converts raw text typed into a control into a value for field.
// The result has already passed field validation.
func ParseInput(path string, field Field, raw string) (any, error) {
	var value any
	switch f := field.(type) {
	case *TextField, *TextareaField:
		value = raw
	case *NumberField, *SliderField:
		n, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, sferrors.NewValidationError(path, fmt.Sprintf("%q is not a number", raw), err)
		}
		value = n
	case *ColorField:
		value = NormalizeHex(raw)
	case *SelectField:
		value = strings.TrimSpace(raw)
	case *BooleanField:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, sferrors.NewValidationError(path, fmt.Sprintf("%q is not true or false", raw), err)
		}
		value = b
	case *ArrayField, *ObjectField:
		return nil, sferrors.NewValidationError(path, fmt.Sprintf("%s fields are not edited as text", f.Kind()), nil)
	default:
		return nil, sferrors.NewValidationError(path, "unsupported field", nil)
	}

	if err := field.Validate(path, value); err != nil {
		return nil, err
	}
	return value, nil
}

// NormalizeHex trims raw and adds the leading '#' when six hex digits were
// typed without it. Anything else is returned trimmed for validation to reject.
func NormalizeHex(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "#") && validation.IsHexColor("#"+s) {
		return "#" + s
	}
	return s
}
