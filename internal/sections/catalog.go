package sections

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Loader produces the implementation of sectionType for the theme whose
// components live under prefix.
type Loader interface {
	Load(ctx context.Context, sectionType, prefix string) (*SectionType, error)
}

// LoaderFunc adapts a function to Loader.
type LoaderFunc func(ctx context.Context, sectionType, prefix string) (*SectionType, error)

// Load implements Loader.
func (f LoaderFunc) Load(ctx context.Context, sectionType, prefix string) (*SectionType, error) {
	return f(ctx, sectionType, prefix)
}

// Catalog is an in-memory Loader of compiled-in section types.
type Catalog struct {
	mu    sync.RWMutex
	types map[string]*SectionType
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{types: make(map[string]*SectionType)}
}

func catalogKey(prefix, sectionType string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + sectionType
}

// Register adds t under prefix. The type name is t.Name.
func (c *Catalog) Register(prefix string, t *SectionType) error {
	if err := t.Validate(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	key := catalogKey(prefix, t.Name)
	if _, exists := c.types[key]; exists {
		return fmt.Errorf("section type %q already registered under %q", t.Name, prefix)
	}
	c.types[key] = t
	return nil
}

// MustRegister is Register for package initialisation.
func (c *Catalog) MustRegister(prefix string, t *SectionType) {
	if err := c.Register(prefix, t); err != nil {
		panic(err)
	}
}

// Load implements Loader.
func (c *Catalog) Load(ctx context.Context, sectionType, prefix string) (*SectionType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	t, ok := c.types[catalogKey(prefix, sectionType)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, catalogKey(prefix, sectionType))
	}
	return t, nil
}

// Types lists the section types registered under prefix, sorted.
func (c *Catalog) Types(prefix string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	want := strings.TrimSuffix(prefix, "/") + "/"
	var names []string
	for key := range c.types {
		if name, ok := strings.CutPrefix(key, want); ok && !strings.Contains(name, "/") {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// ChainLoader tries each loader in turn and moves on only when a loader has no
// implementation for the type.
type ChainLoader []Loader

// Load implements Loader.
func (c ChainLoader) Load(ctx context.Context, sectionType, prefix string) (*SectionType, error) {
	for _, loader := range c {
		if loader == nil {
			continue
		}
		t, err := loader.Load(ctx, sectionType, prefix)
		if err == nil {
			return t, nil
		}
		if !errors.Is(err, ErrSectionNotFound) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrSectionNotFound, catalogKey(prefix, sectionType))
}
