package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSectionsListShowsOrderAndStatus(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	home := env.page(t, "home")

	out := env.mustRun(t, "sections", "list")
	assert.Regexp(t, `(?m)^#\s+ID\s+TYPE\s+NAME\s+STATUS$`, out)
	assert.Regexp(t, `(?m)^1\s+`+home.Body[0].ID+`\s+AnnouncementBar\s+Announcement\s+\[OK\] ready$`, out)
	assert.Regexp(t, `(?m)^4\s+`+home.Body[3].ID+`\s+Footer\s+`, out)

	product := env.mustRun(t, "sections", "list", "--page", "product")
	assert.Contains(t, product, "Related")
	assert.NotContains(t, product, "Announcement")
}

func TestSectionsListFlagsUnavailableTypes(t *testing.T) {
	env := newTestEnv(t)
	env.writeClassicTheme(t)
	env.mustRun(t, "init", "--theme", "classic")

	out := env.mustRun(t, "sections", "list")
	assert.Regexp(t, `(?m)^1\s+banner\s+Banner\s+.*\[OK\] ready$`, out)
	assert.Regexp(t, `(?m)^2\s+foot\s+Footer\s+Site footer\s+\[XX\] unavailable$`, out)
}

func TestSectionsShowListsControls(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	hero := env.page(t, "home").Body[1]

	out := env.mustRun(t, "sections", "show", hero.ID)
	assert.Contains(t, out, "Section: "+hero.ID)
	assert.Contains(t, out, "Type:    Hero v")
	assert.Contains(t, out, `title (text): "New season"`)

	_, _, err := env.run(t, "sections", "show", "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sections list")
}

func TestSectionsAddAtPosition(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")

	out := env.mustRun(t, "sections", "add", "Newsletter", "--position", "1", "--name", "Signup")
	assert.Contains(t, out, "Added Newsletter section")
	assert.Contains(t, out, "to page 'home'")

	home := env.page(t, "home")
	assert.Equal(t, []string{"Newsletter", "AnnouncementBar", "Hero", "ProductGrid", "Footer"}, sectionTypes(home))
	assert.Equal(t, "Signup", home.Body[0].Name)
	assert.NotEmpty(t, home.Body[0].ID)
	assert.Contains(t, out, home.Body[0].ID)

	env.mustRun(t, "sections", "add", "AnnouncementBar")
	assert.Equal(t, "AnnouncementBar", sectionTypes(env.page(t, "home"))[5])
}

func TestSectionsAddRejectsDisallowedType(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")

	_, _, err := env.run(t, "sections", "add", "Hero", "--page", "product")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to add section")
	assert.Equal(t, []string{"ProductGrid", "Newsletter", "Footer"}, sectionTypes(env.page(t, "product")))
}

func TestSectionsRemove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	hero := env.page(t, "home").Body[1]

	out := env.mustRun(t, "sections", "rm", hero.ID)
	assert.Contains(t, out, "Removed Hero section 'Hero'")
	assert.Equal(t, []string{"AnnouncementBar", "ProductGrid", "Footer"}, sectionTypes(env.page(t, "home")))

	_, _, err := env.run(t, "sections", "remove", hero.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no section")
}

func TestSectionsMove(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	footer := env.page(t, "home").Body[3]

	out := env.mustRun(t, "sections", "move", footer.ID, "1")
	assert.Contains(t, out, "to position 1 of 4")
	assert.Equal(t, []string{"Footer", "AnnouncementBar", "Hero", "ProductGrid"}, sectionTypes(env.page(t, "home")))

	out = env.mustRun(t, "sections", "move", footer.ID, "1")
	assert.Contains(t, out, "already at position 1")

	_, _, err := env.run(t, "sections", "move", footer.ID, "zero")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position")
}

func TestSectionsSetThroughEditor(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	home := env.page(t, "home")
	hero, footer := home.Body[1], home.Body[3]

	out := env.mustRun(t, "sections", "set", hero.ID, "title=Spring sale", "subtitle=Up to 40% off")
	assert.Contains(t, out, "Updated 2 field(s)")

	updated := env.page(t, "home").Body[1]
	assert.Equal(t, "Spring sale", updated.Data["title"])
	assert.Equal(t, "Up to 40% off", updated.Data["subtitle"])
	assert.Equal(t, "Shop now", updated.Data["buttonLabel"], "untouched fields survive")

	env.mustRun(t, "sections", "set", footer.ID, "columns[1].links[0].href=/help/faq")
	columns := env.page(t, "home").Body[3].Data["columns"].([]any)
	link := columns[1].(map[string]any)["links"].([]any)[0].(map[string]any)
	assert.Equal(t, "/help/faq", link["href"])
	assert.Equal(t, "FAQ", link["label"])

	out = env.mustRun(t, "sections", "set", hero.ID, "title=Spring sale")
	assert.Contains(t, out, "already has these values")
}

func TestSectionsSetRejectsInvalidValues(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	grid := env.page(t, "product").Body[0]
	before, err := env.workspace().Load()
	require.NoError(t, err)

	_, _, err = env.run(t, "sections", "set", grid.ID, "heading=Picks", "columns=12", "--page", "product")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "columns")
	assert.Contains(t, err.Error(), "nothing was changed")

	after := env.load(t)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, "You may also like", env.page(t, "product").Body[0].Data["heading"])

	_, _, err = env.run(t, "sections", "set", grid.ID, "heading")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "field=value")
}

func TestDryRunPrintsDiffWithoutSaving(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")
	hero := env.page(t, "home").Body[1]
	before := env.load(t)

	out := env.mustRun(t, "sections", "set", hero.ID, "title=Changed", "--dry-run")
	assert.Contains(t, out, "(dry run)")
	assert.Regexp(t, `(?m)^\+\s+title: Changed$`, out)
	assert.Regexp(t, `(?m)^-\s+title: New season$`, out)

	after := env.load(t)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
	assert.Equal(t, "New season", env.page(t, "home").Body[1].Data["title"])

	out = env.mustRun(t, "sections", "set", hero.ID, "title=New season", "--dry-run")
	assert.Equal(t, "No changes.\n", out)
}
