package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/themefs"
	"github.com/alexisbeaulieu97/storefront/internal/workspace"
)

func TestInitCreatesWorkspaceFromBundledTheme(t *testing.T) {
	env := newTestEnv(t)

	out := env.mustRun(t, "init")
	assert.Contains(t, out, "Created workspace from theme 'minimal' (Minimal)")
	assert.Contains(t, out, "Page: home")

	doc := env.load(t)
	assert.Equal(t, "minimal", doc.Theme.ID)
	assert.Equal(t, "home", doc.Page)
	require.Len(t, doc.Theme.Pages, 2)
	require.NotNil(t, doc.Settings)
	assert.Equal(t, "#2d2d2d", doc.Settings.Colors.Main)
	assert.False(t, doc.UpdatedAt.IsZero())
}

func TestInitRefusesToOverwrite(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")

	_, _, err := env.run(t, "init", "--page", "product")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace already exists")
	assert.Contains(t, err.Error(), "--force")
	assert.Equal(t, "home", env.load(t).Page)

	env.mustRun(t, "init", "--force", "--page", "product")
	assert.Equal(t, "product", env.load(t).Page)
}

func TestInitUnknownTheme(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "init", "--theme", "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, themefs.ErrThemeNotFound))
	assert.Contains(t, err.Error(), "Failed to init")
	assert.False(t, env.workspace().Exists())
}

func TestInitUnknownPage(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run(t, "init", "--page", "checkout")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checkout")
	assert.False(t, env.workspace().Exists())
}

func TestInitUsesConfiguredTheme(t *testing.T) {
	env := newTestEnv(t)
	env.writeClassicTheme(t)
	env.writeFile(t, "storefront.yaml", "version: \"1.0.0\"\ntheme: classic\n")

	out := env.mustRun(t, "init")
	assert.Contains(t, out, "theme 'classic' (Classic)")
	assert.Equal(t, "classic", env.load(t).Theme.ID)
}

func TestCommandsRequireWorkspace(t *testing.T) {
	env := newTestEnv(t)

	for _, args := range [][]string{
		{"sections", "list"},
		{"pages", "list"},
		{"settings", "list"},
		{"preview"},
		{"lint"},
	} {
		_, _, err := env.run(t, args...)
		require.Error(t, err, "%v", args)
		assert.True(t, errors.Is(err, workspace.ErrNoWorkspace), "%v", args)
		assert.Contains(t, err.Error(), "storefront init", "%v", args)
	}
}
