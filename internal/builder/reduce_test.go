package builder

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/style"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

const testPrefix = "minimal-theme/sections"

func testTheme() page.Theme {
	return page.Theme{
		ID:                  "minimal",
		Name:                "Minimal",
		ComponentPathPrefix: testPrefix,
		Pages: []page.Page{
			{
				Name:                "home",
				AllowedSectionTypes: []string{"Hero", "Footer", "Newsletter"},
				Body: []page.Section{
					{ID: "a", Type: "Hero", Name: "Hero", Data: map[string]any{"title": "Welcome"}},
					{ID: "b", Type: "Footer", Name: "Footer", Data: map[string]any{"copyright": "ACME"}},
				},
			},
			{
				Name: "product",
				Body: []page.Section{
					{ID: "p1", Type: "ProductGrid", Name: "Grid", Data: map[string]any{}},
				},
			},
		},
	}
}

func selected(t *testing.T) State {
	t.Helper()
	state, err := Reduce(State{}, SelectTheme{Theme: testTheme()})
	require.NoError(t, err)
	return state
}

func activeBody(t *testing.T, s State) []page.Section {
	t.Helper()
	p, ok := s.SelectedPage()
	require.True(t, ok)
	return p.Body
}

func requireInvariant(t *testing.T, err error) {
	t.Helper()
	var invariant *sferrors.InvariantError
	require.True(t, errors.As(err, &invariant), "expected invariant error, got %v", err)
}

func TestReorderThenUpdateScenario(t *testing.T) {
	t.Parallel()

	state := selected(t)
	before := activeBody(t, state)

	state, err := Reduce(state, ReorderSections{Order: []string{"b", "a"}})
	require.NoError(t, err)
	p, _ := state.SelectedPage()
	require.Equal(t, []string{"b", "a"}, p.IDs())

	state, err = Reduce(state, UpdateSection{ID: "a", Data: map[string]any{"title": "Sale"}})
	require.NoError(t, err)

	p, _ = state.SelectedPage()
	assert.Equal(t, []string{"b", "a"}, p.IDs())
	a, _ := p.Section("a")
	assert.Equal(t, "Sale", a.Data["title"])
	b, _ := p.Section("b")
	assert.Equal(t, before[1], b)
}

func TestSelectThemeResetsSession(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, SetSelectedSection{ID: "a"})
	require.NoError(t, err)
	state = state.withResolution("Hero", &sections.SectionType{}, nil)

	settings := style.Settings{}
	settings.Colors.Main = "#123456"
	other := testTheme()
	other.ID = "bold"
	other.ComponentPathPrefix = "bold-theme/sections"

	state, err = Reduce(state, SelectTheme{Theme: other, Settings: &settings, Page: "product"})
	require.NoError(t, err)
	assert.Equal(t, Idle, state.Mode())
	assert.Empty(t, state.Components)
	assert.Empty(t, state.Failures)
	assert.Equal(t, "bold-theme/sections", state.Prefix())
	p, _ := state.SelectedPage()
	assert.Equal(t, "product", p.Name)
	assert.Equal(t, "#123456", state.EffectiveSettings().Colors.Main)

	settings.Colors.Main = "#000000"
	assert.Equal(t, "#123456", state.Settings.Colors.Main)
}

func TestSelectThemeCopiesPages(t *testing.T) {
	t.Parallel()

	theme := testTheme()
	state, err := Reduce(State{}, SelectTheme{Theme: theme})
	require.NoError(t, err)

	theme.Pages[0].Body[0].Data["title"] = "Mutated"
	body := activeBody(t, state)
	assert.Equal(t, "Welcome", body[0].Data["title"])
	assert.Equal(t, "Welcome", state.Theme.Pages[0].Body[0].Data["title"])
}

func TestSelectThemeRejectsInvalidTheme(t *testing.T) {
	t.Parallel()

	theme := testTheme()
	theme.Pages[0].Body[1].ID = "a"
	state, err := Reduce(State{}, SelectTheme{Theme: theme})
	requireInvariant(t, err)
	assert.Nil(t, state.Theme)

	_, err = Reduce(State{}, SelectTheme{Theme: testTheme(), Page: "missing"})
	requireInvariant(t, err)
}

func TestSelectPage(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, SetSelectedSection{ID: "a"})
	require.NoError(t, err)

	state, err = Reduce(state, SelectPage{Name: "product"})
	require.NoError(t, err)
	assert.Equal(t, Idle, state.Mode())
	assert.Equal(t, []string{"ProductGrid"}, state.Unresolved())

	_, err = Reduce(state, SelectPage{Name: "cart"})
	requireInvariant(t, err)
	_, err = Reduce(State{}, SelectPage{Name: "home"})
	requireInvariant(t, err)
}

func TestSetSelectedSection(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, SetSelectedSection{ID: "b"})
	require.NoError(t, err)
	assert.Equal(t, Editing, state.Mode())
	section, ok := state.SelectedSection()
	require.True(t, ok)
	assert.Equal(t, "Footer", section.Type)

	unchanged, err := Reduce(state, SetSelectedSection{ID: "ghost"})
	requireInvariant(t, err)
	assert.Equal(t, "b", unchanged.SelectedID)

	state, err = Reduce(state, SetSelectedSection{})
	require.NoError(t, err)
	assert.Equal(t, Idle, state.Mode())
}

func TestUpdateSectionClonesData(t *testing.T) {
	t.Parallel()

	state := selected(t)
	data := map[string]any{"title": "Sale", "extra": map[string]any{"kept": true}}
	state, err := Reduce(state, UpdateSection{ID: "a", Data: data})
	require.NoError(t, err)

	data["title"] = "Mutated"
	data["extra"].(map[string]any)["kept"] = false

	a := activeBody(t, state)[0]
	assert.Equal(t, "Sale", a.Data["title"])
	assert.Equal(t, true, a.Data["extra"].(map[string]any)["kept"])

	_, err = Reduce(state, UpdateSection{ID: "ghost", Data: data})
	requireInvariant(t, err)
}

func TestUpdateSectionLeavesPreviousSnapshot(t *testing.T) {
	t.Parallel()

	before := selected(t)
	after, err := Reduce(before, UpdateSection{ID: "a", Data: map[string]any{"title": "Sale"}})
	require.NoError(t, err)

	assert.Equal(t, "Welcome", activeBody(t, before)[0].Data["title"])
	assert.Equal(t, "Sale", activeBody(t, after)[0].Data["title"])
}

func TestAddSection(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, AddSection{Section: page.Section{Type: "Newsletter"}, Index: 1})
	require.NoError(t, err)

	body := activeBody(t, state)
	require.Len(t, body, 3)
	assert.Equal(t, "Newsletter", body[1].Type)
	assert.NotEmpty(t, body[1].ID)
	assert.Equal(t, "Newsletter", body[1].Name)
	assert.NotNil(t, body[1].Data)

	state, err = Reduce(state, AddSection{Section: page.Section{ID: "tail", Type: "Hero"}, Index: 99})
	require.NoError(t, err)
	body = activeBody(t, state)
	assert.Equal(t, "tail", body[len(body)-1].ID)

	_, err = Reduce(state, AddSection{Section: page.Section{ID: "a", Type: "Hero"}})
	requireInvariant(t, err)
	_, err = Reduce(state, AddSection{Section: page.Section{Type: "ProductGrid"}})
	requireInvariant(t, err)
	_, err = Reduce(state, AddSection{Section: page.Section{}})
	requireInvariant(t, err)
}

func TestDeleteSection(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, SetSelectedSection{ID: "a"})
	require.NoError(t, err)

	state, err = Reduce(state, DeleteSection{ID: "b"})
	require.NoError(t, err)
	assert.Equal(t, Editing, state.Mode())

	state, err = Reduce(state, DeleteSection{ID: "a"})
	require.NoError(t, err)
	assert.Equal(t, Idle, state.Mode())
	assert.Empty(t, activeBody(t, state))

	_, err = Reduce(state, DeleteSection{ID: "a"})
	requireInvariant(t, err)
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	t.Parallel()

	state := selected(t)
	for _, order := range [][]string{
		{"a"},
		{"a", "a"},
		{"a", "c"},
		{"a", "b", "c"},
		nil,
	} {
		next, err := Reduce(state, ReorderSections{Order: order})
		requireInvariant(t, err)
		p, _ := next.SelectedPage()
		assert.Equal(t, []string{"a", "b"}, p.IDs())
	}
}

func TestUpdateThemeSettingsMergesGroups(t *testing.T) {
	t.Parallel()

	state := selected(t)

	partial := style.Settings{}
	partial.Colors.Main = "#ff0000"
	state, err := Reduce(state, UpdateThemeSettings{Partial: partial})
	require.NoError(t, err)

	fonts := style.Settings{}
	fonts.Fonts.Body = "Georgia"
	state, err = Reduce(state, UpdateThemeSettings{Partial: fonts})
	require.NoError(t, err)

	got := state.EffectiveSettings()
	assert.Equal(t, "#ff0000", got.Colors.Main)
	assert.Equal(t, "Georgia", got.Fonts.Body)

	bad := style.Settings{}
	bad.Colors.Main = "red"
	unchanged, err := Reduce(state, UpdateThemeSettings{Partial: bad})
	var validation *sferrors.ValidationError
	require.True(t, errors.As(err, &validation))
	assert.Equal(t, "#ff0000", unchanged.EffectiveSettings().Colors.Main)

	_, err = Reduce(State{}, UpdateThemeSettings{Partial: partial})
	requireInvariant(t, err)
}

func TestComponentResolvedRecordsOutcome(t *testing.T) {
	t.Parallel()

	state := selected(t)
	assert.Equal(t, []string{"Hero", "Footer"}, state.Unresolved())

	hero := &sections.SectionType{}
	state, err := Reduce(state, ComponentResolved{Type: "Hero", Prefix: testPrefix, SectionType: hero})
	require.NoError(t, err)
	impl, resErr, pending := state.Resolution("Hero")
	assert.Same(t, hero, impl)
	assert.NoError(t, resErr)
	assert.False(t, pending)

	boom := errors.New("boom")
	state, err = Reduce(state, ComponentResolved{Type: "Footer", Prefix: testPrefix, Err: boom})
	require.NoError(t, err)
	_, resErr, pending = state.Resolution("Footer")
	assert.ErrorIs(t, resErr, boom)
	assert.False(t, pending)
	assert.Empty(t, state.Unresolved())
}

func TestComponentResolvedDiscardsStaleResults(t *testing.T) {
	t.Parallel()

	state := selected(t)

	next, err := Reduce(state, ComponentResolved{Type: "Hero", Prefix: "other-theme/sections", SectionType: &sections.SectionType{}})
	require.NoError(t, err)
	_, _, pending := next.Resolution("Hero")
	assert.True(t, pending)

	state, err = Reduce(state, DeleteSection{ID: "a"})
	require.NoError(t, err)
	next, err = Reduce(state, ComponentResolved{Type: "Hero", Prefix: testPrefix, SectionType: &sections.SectionType{}})
	require.NoError(t, err)
	assert.NotContains(t, next.Components, "Hero")
}

func TestReloadComponentsOnlyWhenIdle(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, ComponentResolved{Type: "Hero", Prefix: testPrefix, SectionType: &sections.SectionType{}})
	require.NoError(t, err)
	state, err = Reduce(state, ComponentResolved{Type: "Footer", Prefix: testPrefix, Err: errors.New("boom")})
	require.NoError(t, err)
	require.Empty(t, state.Unresolved())

	editing, err := Reduce(state, SetSelectedSection{ID: "b"})
	require.NoError(t, err)
	next, err := Reduce(editing, ReloadComponents{Prefix: testPrefix})
	require.NoError(t, err)
	assert.Equal(t, "b", next.SelectedID)
	assert.Empty(t, next.Unresolved(), "an open editor keeps its resolutions")

	next, err = Reduce(state, ReloadComponents{Prefix: "other-theme/sections"})
	require.NoError(t, err)
	assert.Empty(t, next.Unresolved())

	next, err = Reduce(state, ReloadComponents{Prefix: testPrefix})
	require.NoError(t, err)
	assert.Equal(t, []string{"Hero", "Footer"}, next.Unresolved())
	assert.Equal(t, activeBody(t, state), activeBody(t, next))
	assert.Contains(t, state.Components, "Hero", "the previous snapshot is untouched")

	_, err = Reduce(State{}, ReloadComponents{Prefix: testPrefix})
	require.NoError(t, err)
}

func TestSnapshotIsDeepCopy(t *testing.T) {
	t.Parallel()

	state := selected(t)
	state, err := Reduce(state, ReorderSections{Order: []string{"b", "a"}})
	require.NoError(t, err)

	snapshot, ok := state.Snapshot()
	require.True(t, ok)
	assert.Equal(t, []string{"b", "a"}, snapshot.Pages[0].IDs())

	snapshot.Pages[0].Body[0].Data["copyright"] = "Mutated"
	assert.Equal(t, "ACME", activeBody(t, state)[0].Data["copyright"])

	_, ok = State{}.Snapshot()
	assert.False(t, ok)
}

func TestUnsupportedCommand(t *testing.T) {
	t.Parallel()

	_, err := Reduce(State{}, nil)
	requireInvariant(t, err)
}
