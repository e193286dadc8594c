package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

type step struct {
	key   string
	index int
	item  bool
}

// Path addresses a value inside a draft: a field name followed by any mix of
// array indexes and object keys, as in "columns[1].links[0].href".
type Path struct {
	steps []step
}

// Field starts a path at the top-level field name.
func Field(name string) Path {
	return Path{steps: []step{{key: name}}}
}

// Field descends into the object key name.
func (p Path) Field(name string) Path {
	return p.with(step{key: name})
}

// Index descends into element i of an array.
func (p Path) Index(i int) Path {
	return p.with(step{index: i, item: true})
}

func (p Path) with(s step) Path {
	steps := make([]step, len(p.steps), len(p.steps)+1)
	copy(steps, p.steps)
	return Path{steps: append(steps, s)}
}

// IsZero reports whether the path is empty.
func (p Path) IsZero() bool {
	return len(p.steps) == 0
}

func (p Path) String() string {
	var b strings.Builder
	for _, s := range p.steps {
		if s.item {
			fmt.Fprintf(&b, "[%d]", s.index)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.key)
	}
	return b.String()
}

// ParsePath reads the dotted form produced by String.
func ParsePath(raw string) (Path, error) {
	var p Path
	rest := strings.TrimSpace(raw)
	if rest == "" {
		return p, sferrors.NewValidationError(raw, "path is empty", nil)
	}
	for rest != "" {
		switch {
		case rest[0] == '[':
			end := strings.IndexByte(rest, ']')
			if end < 0 {
				return Path{}, sferrors.NewValidationError(raw, "unterminated index", nil)
			}
			i, err := strconv.Atoi(rest[1:end])
			if err != nil || i < 0 {
				return Path{}, sferrors.NewValidationError(raw, fmt.Sprintf("bad index %q", rest[1:end]), err)
			}
			if p.IsZero() {
				return Path{}, sferrors.NewValidationError(raw, "path must start with a field name", nil)
			}
			p = p.Index(i)
			rest = rest[end+1:]
		case rest[0] == '.':
			if p.IsZero() {
				return Path{}, sferrors.NewValidationError(raw, "path must start with a field name", nil)
			}
			rest = rest[1:]
			if rest == "" || rest[0] == '.' || rest[0] == '[' {
				return Path{}, sferrors.NewValidationError(raw, "empty field name", nil)
			}
		default:
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			if end == 0 {
				return Path{}, sferrors.NewValidationError(raw, "empty field name", nil)
			}
			p = p.with(step{key: rest[:end]})
			rest = rest[end:]
		}
	}
	return p, nil
}

// fieldAt resolves the schema field addressed by p.
func fieldAt(s schema.Schema, p Path) (schema.Field, error) {
	if p.IsZero() || p.steps[0].item {
		return nil, sferrors.NewValidationError(p.String(), "path must start with a field name", nil)
	}
	field, ok := s[p.steps[0].key]
	if !ok {
		return nil, sferrors.NewValidationError(p.String(), "no such field", nil)
	}
	for _, st := range p.steps[1:] {
		switch f := field.(type) {
		case *schema.ArrayField:
			if !st.item {
				return nil, sferrors.NewValidationError(p.String(), "list fields are addressed by index", nil)
			}
			field = f.Item
		case *schema.ObjectField:
			if st.item {
				return nil, sferrors.NewValidationError(p.String(), "object fields are addressed by key", nil)
			}
			sub, ok := f.Fields[st.key]
			if !ok {
				return nil, sferrors.NewValidationError(p.String(), "no such field", nil)
			}
			field = sub
		default:
			return nil, sferrors.NewValidationError(p.String(), fmt.Sprintf("%s fields have no children", field.Kind()), nil)
		}
	}
	return field, nil
}

// valueAt reads the draft value addressed by steps.
func valueAt(root map[string]any, steps []step) (any, bool) {
	var current any = root
	for _, st := range steps {
		if st.item {
			list, ok := schema.AsList(current)
			if !ok || st.index < 0 || st.index >= len(list) {
				return nil, false
			}
			current = list[st.index]
			continue
		}
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		if current, ok = m[st.key]; !ok {
			return nil, false
		}
	}
	return current, true
}

// setAt returns a copy of container with the value at steps replaced. Only the
// containers along the path are copied; a failed write leaves container as is.
func setAt(container any, steps []step, value any, path string) (any, error) {
	if len(steps) == 0 {
		return value, nil
	}
	st := steps[0]
	if st.item {
		list, ok := schema.AsList(container)
		if !ok {
			return nil, sferrors.NewValidationError(path, "value is not a list", nil)
		}
		if st.index < 0 || st.index >= len(list) {
			return nil, sferrors.NewValidationError(path, fmt.Sprintf("index %d out of range", st.index), nil)
		}
		child, err := setAt(list[st.index], steps[1:], value, path)
		if err != nil {
			return nil, err
		}
		out := make([]any, len(list))
		copy(out, list)
		out[st.index] = child
		return out, nil
	}

	m, ok := container.(map[string]any)
	if !ok {
		if container != nil {
			return nil, sferrors.NewValidationError(path, "value is not an object", nil)
		}
		m = map[string]any{}
	}
	child, err := setAt(m[st.key], steps[1:], value, path)
	if err != nil {
		return nil, err
	}
	out := make(map[string]any, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[st.key] = child
	return out, nil
}
