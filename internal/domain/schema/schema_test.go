package schema

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

const footerSchemaYAML = `
backgroundColor:
  kind: color
  label: Background
  default: "#111111"
  group: Style
showSocial:
  kind: boolean
  default: true
columns:
  kind: array
  label: Columns
  maxItems: 4
  itemSchema:
    kind: object
    fields:
      title:
        kind: text
        default: Column
      links:
        kind: array
        itemSchema:
          kind: object
          fields:
            label:
              kind: text
            href:
              kind: text
              maxLength: 12
copyright:
  kind: text
  label: Copyright
  order: -1
`

func decodeFooter(t *testing.T) Schema {
	t.Helper()
	var s Schema
	require.NoError(t, yaml.Unmarshal([]byte(footerSchemaYAML), &s))
	return s
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *sferrors.ValidationError
	require.True(t, errors.As(err, &ve), "expected validation error, got %v", err)
	return ve.Field
}

func TestDecodeBuildsVariants(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)
	require.Len(t, s, 4)

	color, ok := s["backgroundColor"].(*ColorField)
	require.True(t, ok)
	assert.Equal(t, "#111111", color.DefaultValue)
	assert.Equal(t, "Style", color.Group)

	columns, ok := s["columns"].(*ArrayField)
	require.True(t, ok)
	assert.Equal(t, 4, columns.MaxItems)

	item, ok := columns.Item.(*ObjectField)
	require.True(t, ok)
	links, ok := item.Fields["links"].(*ArrayField)
	require.True(t, ok)
	assert.IsType(t, &ObjectField{}, links.Item)

	assert.Equal(t, "showSocial", s["showSocial"].Meta().Label)
}

func TestDecodeRejectsBadDocuments(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		doc   string
		field string
	}{
		"unknown kind":         {doc: "a:\n  kind: video\n", field: "a.kind"},
		"missing kind":         {doc: "a:\n  label: A\n", field: "a.kind"},
		"object at top level":  {doc: "a:\n  kind: object\n  fields:\n    b:\n      kind: text\n", field: "a.kind"},
		"array without item":   {doc: "a:\n  kind: array\n", field: "a.itemSchema"},
		"slider without range": {doc: "a:\n  kind: slider\n", field: "a"},
		"select no options":    {doc: "a:\n  kind: select\n", field: "a.options"},
		"bad color default":    {doc: "a:\n  kind: color\n  default: red\n", field: "a.default"},
		"bad swatch":           {doc: "a:\n  kind: color\n  swatches: [\"#fff\"]\n", field: "a.swatches[0]"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			var s Schema
			err := yaml.Unmarshal([]byte(tc.doc), &s)
			require.Error(t, err)
			assert.Equal(t, tc.field, fieldOf(t, err))
		})
	}
}

func TestDefaultsAndApplyDefaults(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)
	defaults := s.Defaults()
	assert.Equal(t, "#111111", defaults["backgroundColor"])
	assert.Equal(t, true, defaults["showSocial"])
	assert.Equal(t, []any{}, defaults["columns"])

	data := map[string]any{"copyright": "ACME", "legacy": 42}
	applied := s.ApplyDefaults(data)
	assert.Equal(t, "ACME", applied["copyright"])
	assert.Equal(t, 42, applied["legacy"])
	assert.Equal(t, "#111111", applied["backgroundColor"])
	_, touched := data["backgroundColor"]
	assert.False(t, touched)

	item := s["columns"].(*ArrayField).NewItem()
	assert.Equal(t, map[string]any{"title": "Column", "links": []any{}}, item)
}

func TestValidateReportsNestedPath(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)
	data := map[string]any{
		"columns": []any{
			map[string]any{"title": "Shop", "links": []any{}},
			map[string]any{"title": "Help", "links": []any{
				map[string]any{"label": "FAQ", "href": "/a-very-long-href"},
			}},
		},
		"unknownKey": struct{}{},
	}
	err := s.Validate(data)
	require.Error(t, err)
	assert.Equal(t, "columns[1].links[0].href", fieldOf(t, err))

	data["columns"] = []any{map[string]any{"title": "Shop"}}
	require.NoError(t, s.Validate(data))

	require.Error(t, s.Validate(map[string]any{"backgroundColor": "#12345"}))
	require.Error(t, s.Validate(map[string]any{"showSocial": "yes"}))
}

func TestNumberAndSliderRanges(t *testing.T) {
	t.Parallel()

	lo, hi := 1.0, 4.0
	number := &NumberField{Min: &lo, Max: &hi, Integer: true}
	require.NoError(t, number.Validate("n", 3))
	require.Error(t, number.Validate("n", 5))
	require.Error(t, number.Validate("n", 2.5))
	require.Error(t, number.Validate("n", "3"))

	slider := &SliderField{Min: 0, Max: 100, Step: 5}
	require.NoError(t, slider.Validate("s", 100.0))
	require.Error(t, slider.Validate("s", -1))
}

func TestNumbersMustBeFinite(t *testing.T) {
	t.Parallel()

	floor := 0.0
	price := &NumberField{Min: &floor}
	unbounded := &NumberField{}
	slider := &SliderField{Min: 0, Max: 100}

	for _, n := range []float64{math.Inf(1), math.Inf(-1), math.NaN()} {
		require.Error(t, price.Validate("price", n))
		require.Error(t, unbounded.Validate("n", n))
		require.Error(t, slider.Validate("s", n))
	}

	for _, raw := range []string{"Inf", "+Inf", "-inf", "NaN"} {
		_, err := ParseInput("price", price, raw)
		require.Error(t, err, raw)
		assert.Equal(t, "price", fieldOf(t, err))
	}

	value, err := ParseInput("price", price, "1e3")
	require.NoError(t, err)
	assert.Equal(t, 1000.0, value)
}

func TestArrangePutsArraysLast(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)
	groups := s.Arrange(nil)
	require.Len(t, groups, 2)

	require.Equal(t, "", groups[0].Name)
	names := make([]string, 0)
	for _, entry := range groups[0].Entries {
		names = append(names, entry.Name)
	}
	assert.Equal(t, []string{"copyright", "showSocial", "columns"}, names)
	assert.Equal(t, "Style", groups[1].Name)
	assert.Equal(t, "backgroundColor", groups[1].Entries[0].Name)
}

func TestArrangeHonoursExplicitOrder(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)
	entries := s.Entries([]string{"columns", "missing", "copyright"})
	require.Len(t, entries, 4)
	assert.Equal(t, "columns", entries[0].Name)
	assert.Equal(t, "copyright", entries[1].Name)
}

func TestParseInput(t *testing.T) {
	t.Parallel()

	s := decodeFooter(t)

	v, err := ParseInput("backgroundColor", s["backgroundColor"], "1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, "#1a2b3c", v)

	_, err = ParseInput("backgroundColor", s["backgroundColor"], "#12")
	require.Error(t, err)
	assert.Equal(t, "backgroundColor", fieldOf(t, err))

	v, err = ParseInput("showSocial", s["showSocial"], "false")
	require.NoError(t, err)
	assert.Equal(t, false, v)

	_, err = ParseInput("columns", s["columns"], "x")
	require.Error(t, err)

	sel := &SelectField{Options: []Option{{Value: "left"}, {Value: "center"}}}
	v, err = ParseInput("align", sel, " center ")
	require.NoError(t, err)
	assert.Equal(t, "center", v)
	_, err = ParseInput("align", sel, "right")
	require.Error(t, err)

	num := &NumberField{}
	v, err = ParseInput("n", num, "2.5")
	require.NoError(t, err)
	assert.Equal(t, 2.5, v)
}

func TestCompiledSchemaLintsDocuments(t *testing.T) {
	t.Parallel()

	compiled, err := Compile("Footer", decodeFooter(t))
	require.NoError(t, err)

	require.NoError(t, compiled.Validate(map[string]any{
		"backgroundColor": "#000000",
		"columns":         []any{map[string]any{"title": "Shop", "links": []any{}}},
		"extra":           "kept",
	}))

	err = compiled.Validate(map[string]any{
		"columns": []any{map[string]any{"links": []any{map[string]any{"href": 7}}}},
	})
	require.Error(t, err)
	assert.Equal(t, "columns[0].links[0].href", fieldOf(t, err))

	err = compiled.Validate(map[string]any{"backgroundColor": "blue"})
	require.Error(t, err)
	assert.Equal(t, "backgroundColor", fieldOf(t, err))

	// Absent data falls back to defaults and is never a lint failure.
	require.NoError(t, compiled.Validate(nil))
	require.NoError(t, compiled.Validate(map[string]any{}))
}

func TestPointerToPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "", pointerToPath(""))
	assert.Equal(t, "title", pointerToPath("/title"))
	assert.Equal(t, "columns[1].links[0].href", pointerToPath("/columns/1/links/0/href"))
}
