package main

import (
	"context"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/builder"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	"github.com/alexisbeaulieu97/storefront/internal/sections/builtin"
)

func TestEditRequiresTerminal(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "init")

	_, _, err := env.run(t, "edit")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stdin and stdout must be a terminal")
	assert.Contains(t, err.Error(), "sections")
}

type countingResolver struct {
	inner *sections.Resolver
	calls atomic.Int32
}

func (r *countingResolver) ResolveAsync(ctx context.Context, sectionType, prefix string) <-chan sections.Result {
	r.calls.Add(1)
	return r.inner.ResolveAsync(ctx, sectionType, prefix)
}

func TestReloadOnInvalidateWaitsForIdle(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	resolver := &countingResolver{inner: sections.NewResolver(builtin.NewCatalog())}
	store := builder.NewStore(resolver)
	theme := builtin.MinimalTheme()
	_, err := store.Dispatch(ctx, builder.SelectTheme{Theme: theme})
	require.NoError(t, err)
	store.Wait()
	initial := resolver.calls.Load()
	require.Positive(t, initial)

	reload := reloadOnInvalidate(ctx, store, logging.NewNoOpLogger())
	body := theme.Pages[0].Body
	require.NotEmpty(t, body)
	_, err = store.Dispatch(ctx, builder.SetSelectedSection{ID: body[0].ID})
	require.NoError(t, err)

	reload(theme.ComponentPathPrefix, 1)
	store.Wait()
	state := store.State()
	assert.Equal(t, body[0].ID, state.SelectedID)
	assert.Empty(t, state.Unresolved())
	assert.Equal(t, initial, resolver.calls.Load(), "no reload while editing")

	_, err = store.Dispatch(ctx, builder.SetSelectedSection{})
	require.NoError(t, err)
	reload("other/sections", 1)
	reload(theme.ComponentPathPrefix, 0)
	store.Wait()
	assert.Equal(t, initial, resolver.calls.Load())

	reload(theme.ComponentPathPrefix, 1)
	store.Wait()
	assert.Equal(t, 2*initial, resolver.calls.Load())
	assert.Empty(t, store.State().Unresolved())
}
