package page

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePage() Page {
	return Page{
		Name:                "home",
		AllowedSectionTypes: []string{"Hero", "Footer"},
		Body: []Section{
			{ID: "a", Type: "Hero", Name: "Hero", Data: map[string]any{"title": "Hi"}},
			{ID: "b", Type: "Footer", Name: "Footer", Data: map[string]any{
				"columns": []any{map[string]any{"title": "Shop"}},
			}},
		},
	}
}

func TestPageLookups(t *testing.T) {
	t.Parallel()

	p := samplePage()
	require.Equal(t, 1, p.IndexOf("b"))
	require.Equal(t, -1, p.IndexOf("zzz"))
	require.True(t, p.Has("a"))
	require.Equal(t, []string{"a", "b"}, p.IDs())
	require.Equal(t, []string{"Hero", "Footer"}, p.Types())
	require.True(t, p.HasType("Footer"))
	require.False(t, p.HasType("Banner"))

	section, ok := p.Section("a")
	require.True(t, ok)
	require.Equal(t, "Hi", section.Data["title"])
}

func TestPageAllows(t *testing.T) {
	t.Parallel()

	p := samplePage()
	require.True(t, p.Allows("Hero"))
	require.False(t, p.Allows("Newsletter"))

	p.AllowedSectionTypes = nil
	require.True(t, p.Allows("Newsletter"))
}

func TestPageValidateRejectsDuplicateIDs(t *testing.T) {
	t.Parallel()

	p := samplePage()
	require.NoError(t, p.Validate())

	p.Body = append(p.Body, Section{ID: "a", Type: "Hero"})
	err := p.Validate()
	require.Error(t, err)
	require.True(t, HasCode(err, ErrCodeDuplicate))
}

func TestPageValidateRequiresType(t *testing.T) {
	t.Parallel()

	p := samplePage()
	p.Body[0].Type = ""
	require.True(t, HasCode(p.Validate(), ErrCodeValidation))
}

func TestCloneIsDeep(t *testing.T) {
	t.Parallel()

	p := samplePage()
	clone := p.Clone()

	clone.Body[1].Data["columns"].([]any)[0].(map[string]any)["title"] = "Changed"
	clone.Body[0].Data["title"] = "Changed"

	require.Equal(t, "Hi", p.Body[0].Data["title"])
	require.Equal(t, "Shop", p.Body[1].Data["columns"].([]any)[0].(map[string]any)["title"])
}

func TestCloneValueNormalizesTypedSlices(t *testing.T) {
	t.Parallel()

	out := CloneValue([]map[string]any{{"label": "Home"}})
	list, ok := out.([]any)
	require.True(t, ok)
	require.Equal(t, map[string]any{"label": "Home"}, list[0])

	strs := CloneValue([]string{"x", "y"})
	require.Equal(t, []any{"x", "y"}, strs)
}

func TestIsPermutation(t *testing.T) {
	t.Parallel()

	body := samplePage().Body

	require.True(t, IsPermutation(body, []string{"b", "a"}))
	require.True(t, IsPermutation(body, []string{"a", "b"}))
	require.False(t, IsPermutation(body, []string{"a"}))
	require.False(t, IsPermutation(body, []string{"a", "a"}))
	require.False(t, IsPermutation(body, []string{"a", "c"}))
	require.False(t, IsPermutation(body, []string{"a", "b", "c"}))
}

func TestPermuteKeepsSections(t *testing.T) {
	t.Parallel()

	body := samplePage().Body
	out := Permute(body, []string{"b", "a"})
	require.Equal(t, []Section{body[1], body[0]}, out)
}

func TestNewSectionAssignsID(t *testing.T) {
	t.Parallel()

	data := map[string]any{"title": "Sale"}
	a := NewSection("Hero", "", data)
	b := NewSection("Hero", "Second hero", nil)

	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)
	require.Equal(t, "Hero", a.Name)
	require.Equal(t, "Second hero", b.Name)

	data["title"] = "Changed"
	require.Equal(t, "Sale", a.Data["title"])

	require.NotNil(t, b.Data, "missing data starts as an empty object")
	require.Empty(t, b.Data)
}

func TestThemeValidate(t *testing.T) {
	t.Parallel()

	theme := Theme{ID: "minimal", Name: "Minimal", ComponentPathPrefix: "minimal-theme/sections", Pages: []Page{samplePage()}}
	require.NoError(t, theme.Validate())

	_, err := theme.FindPage("missing")
	require.True(t, HasCode(err, ErrCodeNotFound))

	theme.Pages = append(theme.Pages, samplePage())
	require.Error(t, theme.Validate())

	theme.Pages = nil
	require.Error(t, theme.Validate())
}
