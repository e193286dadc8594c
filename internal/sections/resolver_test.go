package sections

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/infrastructure/events"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

const testPrefix = "minimal-theme/sections"

func testType(name string) *SectionType {
	return &SectionType{
		Metadata: Metadata{Name: name, Version: "1.0.0", APIVersion: "^1.0"},
		Renderer: RenderFunc(func(ctx RenderContext) (string, error) { return name, nil }),
		Schema:   schema.Schema{"title": &schema.TextField{DefaultValue: "Hello"}},
	}
}

// countingLoader records how often each key was loaded.
type countingLoader struct {
	mu     sync.Mutex
	calls  map[string]int
	inner  Loader
	gate   chan struct{}
	loaded atomic.Int32
}

func newCountingLoader(inner Loader) *countingLoader {
	return &countingLoader{calls: make(map[string]int), inner: inner}
}

func (l *countingLoader) Load(ctx context.Context, sectionType, prefix string) (*SectionType, error) {
	l.mu.Lock()
	l.calls[prefix+"/"+sectionType]++
	gate := l.gate
	l.mu.Unlock()
	l.loaded.Add(1)
	if gate != nil {
		<-gate
	}
	return l.inner.Load(ctx, sectionType, prefix)
}

func (l *countingLoader) count(sectionType, prefix string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[prefix+"/"+sectionType]
}

func TestCatalogRegisterAndLoad(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, testType("Hero")))
	require.NoError(t, catalog.Register(testPrefix, testType("Footer")))
	require.Error(t, catalog.Register(testPrefix, testType("Hero")))

	got, err := catalog.Load(context.Background(), "Hero", testPrefix)
	require.NoError(t, err)
	assert.Equal(t, "Hero", got.Name)

	_, err = catalog.Load(context.Background(), "Hero", "other-theme/sections")
	require.ErrorIs(t, err, ErrSectionNotFound)

	assert.Equal(t, []string{"Footer", "Hero"}, catalog.Types(testPrefix))
}

func TestCatalogRejectsIncompleteTypes(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	noSchema := testType("Hero")
	noSchema.Schema = nil
	require.Error(t, catalog.Register(testPrefix, noSchema))

	noRenderer := testType("Hero")
	noRenderer.Renderer = nil
	require.Error(t, catalog.Register(testPrefix, noRenderer))

	badVersion := testType("Hero")
	badVersion.Version = "one"
	require.Error(t, catalog.Register(testPrefix, badVersion))
}

func TestChainLoaderFallsThroughOnlyOnNotFound(t *testing.T) {
	t.Parallel()

	first := NewCatalog()
	second := NewCatalog()
	require.NoError(t, second.Register(testPrefix, testType("Footer")))

	chain := ChainLoader{first, second}
	got, err := chain.Load(context.Background(), "Footer", testPrefix)
	require.NoError(t, err)
	assert.Equal(t, "Footer", got.Name)

	broken := LoaderFunc(func(context.Context, string, string) (*SectionType, error) {
		return nil, errors.New("disk on fire")
	})
	_, err = ChainLoader{broken, second}.Load(context.Background(), "Footer", testPrefix)
	require.EqualError(t, err, "disk on fire")

	_, err = chain.Load(context.Background(), "Banner", testPrefix)
	require.ErrorIs(t, err, ErrSectionNotFound)
}

func TestResolverMemoizesPerTypeAndPrefix(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, testType("Footer")))
	loader := newCountingLoader(catalog)
	resolver := NewResolver(loader)

	first, err := resolver.Resolve(context.Background(), "Footer", testPrefix)
	require.NoError(t, err)
	second, err := resolver.Resolve(context.Background(), "Footer", testPrefix)
	require.NoError(t, err)

	require.Same(t, first, second)
	require.Equal(t, 1, loader.count("Footer", testPrefix))
}

func TestResolverSharesInFlightLoads(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, testType("Footer")))
	loader := newCountingLoader(catalog)
	loader.gate = make(chan struct{})
	resolver := NewResolver(loader)

	results := make([]<-chan Result, 5)
	for i := range results {
		results[i] = resolver.ResolveAsync(context.Background(), "Footer", testPrefix)
	}

	require.Eventually(t, func() bool { return loader.loaded.Load() >= 1 }, time.Second, time.Millisecond)
	close(loader.gate)

	for _, ch := range results {
		res := <-ch
		require.NoError(t, res.Err)
		require.Equal(t, "Footer", res.SectionType.Name)
	}
	require.Equal(t, 1, loader.count("Footer", testPrefix))
}

func TestResolverMemoizesFailures(t *testing.T) {
	t.Parallel()

	loader := newCountingLoader(NewCatalog())
	resolver := NewResolver(loader)

	_, err := resolver.Resolve(context.Background(), "Banner", testPrefix)
	require.Error(t, err)

	var resErr *sferrors.ResolutionError
	require.ErrorAs(t, err, &resErr)
	assert.Equal(t, "Banner", resErr.SectionType)
	assert.Equal(t, testPrefix, resErr.PathPrefix)
	require.ErrorIs(t, err, ErrSectionNotFound)

	_, err = resolver.Resolve(context.Background(), "Banner", testPrefix)
	require.Error(t, err)
	require.Equal(t, 1, loader.count("Banner", testPrefix))

	_, cachedErr, ok := resolver.Cached("Banner", testPrefix)
	require.True(t, ok)
	require.Error(t, cachedErr)
}

func TestResolverDoesNotMemoizeCancellation(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, testType("Hero")))
	loader := newCountingLoader(catalog)
	resolver := NewResolver(loader)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := resolver.Resolve(ctx, "Hero", testPrefix)
	require.ErrorIs(t, err, context.Canceled)

	got, err := resolver.Resolve(context.Background(), "Hero", testPrefix)
	require.NoError(t, err)
	require.Equal(t, "Hero", got.Name)
	require.Equal(t, 2, loader.count("Hero", testPrefix))
}

func TestResolverInvalidateReloads(t *testing.T) {
	t.Parallel()

	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, testType("Hero")))
	require.NoError(t, catalog.Register("bold-theme/sections", testType("Hero")))
	loader := newCountingLoader(catalog)

	publisher := events.NewLoggingPublisher(nil)
	var invalidated []string
	_, err := publisher.Subscribe(ports.EventSectionsInvalidated, func(_ context.Context, event ports.DomainEvent) error {
		invalidated = append(invalidated, event.Payload().(map[string]interface{})["path_prefix"].(string))
		return nil
	})
	require.NoError(t, err)

	resolver := NewResolver(loader, WithPublisher(publisher))
	ctx := context.Background()

	_, err = resolver.Resolve(ctx, "Hero", testPrefix)
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, "Hero", "bold-theme/sections")
	require.NoError(t, err)

	require.Equal(t, 1, resolver.Invalidate(ctx, testPrefix))
	require.Equal(t, []string{testPrefix}, invalidated)

	_, err = resolver.Resolve(ctx, "Hero", testPrefix)
	require.NoError(t, err)
	_, err = resolver.Resolve(ctx, "Hero", "bold-theme/sections")
	require.NoError(t, err)

	require.Equal(t, 2, loader.count("Hero", testPrefix))
	require.Equal(t, 1, loader.count("Hero", "bold-theme/sections"))
}

func TestResolverAppliesVersionPolicy(t *testing.T) {
	t.Parallel()

	future := testType("Hero")
	future.APIVersion = "^2.0"
	catalog := NewCatalog()
	require.NoError(t, catalog.Register(testPrefix, future))

	_, err := NewResolver(catalog).Resolve(context.Background(), "Hero", testPrefix)
	require.ErrorIs(t, err, ErrIncompatible)

	got, err := NewResolver(catalog, WithPolicy(PolicyWarn)).Resolve(context.Background(), "Hero", testPrefix)
	require.NoError(t, err)
	require.Same(t, future, got)
}

func TestPlaceholdersNeverFail(t *testing.T) {
	t.Parallel()

	ctx := RenderContext{Section: page.Section{ID: "s1", Type: "Banner", Name: "Promo"}, Width: 40}

	out, err := Placeholder("Banner", errors.New("not found")).Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "Banner")
	assert.Contains(t, out, "not found")

	out, err = Pending("Banner").Render(ctx)
	require.NoError(t, err)
	assert.Contains(t, out, "Loading Banner")
}

func TestPrepareAppliesDefaults(t *testing.T) {
	t.Parallel()

	data := testType("Hero").Prepare(map[string]any{"extra": 1})
	assert.Equal(t, "Hello", data["title"])
	assert.Equal(t, 1, data["extra"])
}
