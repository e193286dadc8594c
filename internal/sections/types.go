// Package sections resolves section type names to their render implementation
// and field schema. Resolution is asynchronous, memoized per (type, prefix)
// and failures degrade to placeholders for the affected section only.
package sections

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	"github.com/alexisbeaulieu97/storefront/internal/style"
)

// EngineAPIVersion is the section contract version implemented by this engine.
// Section types declare the range they support in Metadata.APIVersion.
const EngineAPIVersion = "1.4.0"

// ErrSectionNotFound reports a loader that has no implementation for a type.
var ErrSectionNotFound = errors.New("section type not found")

// ErrIncompatible reports a section type built for another engine API.
var ErrIncompatible = errors.New("section type is incompatible with this engine")

// Policy controls how API version mismatches are handled.
type Policy string

const (
	// PolicyStrict treats an incompatible section type as unresolvable.
	PolicyStrict Policy = "strict"
	// PolicyWarn logs the mismatch and uses the section type anyway.
	PolicyWarn Policy = "warn"
)

// RenderContext is everything a renderer receives for one section.
type RenderContext struct {
	Section page.Section
	// Data is the section data with schema defaults applied.
	Data  map[string]any
	Style style.Settings
	Width int
}

// Renderer draws one section.
type Renderer interface {
	Render(ctx RenderContext) (string, error)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(ctx RenderContext) (string, error)

// Render implements Renderer.
func (f RenderFunc) Render(ctx RenderContext) (string, error) {
	return f(ctx)
}

// Metadata identifies a section type implementation.
type Metadata struct {
	Name        string
	Version     string
	APIVersion  string
	Description string
}

// SectionType is a resolved section implementation.
type SectionType struct {
	Metadata
	Renderer   Renderer
	Schema     schema.Schema
	FieldOrder []string
}

// Validate checks the implementation contract: a renderer and a schema must
// both be present and the version must be semantic.
func (t *SectionType) Validate() error {
	if t == nil {
		return fmt.Errorf("section type is nil")
	}
	if strings.TrimSpace(t.Name) == "" {
		return fmt.Errorf("section type requires a name")
	}
	if t.Renderer == nil {
		return fmt.Errorf("section type %q exports no renderer", t.Name)
	}
	if t.Schema == nil {
		return fmt.Errorf("section type %q exports no schema", t.Name)
	}
	if t.Version != "" {
		if _, err := semver.NewVersion(t.Version); err != nil {
			return fmt.Errorf("section type %q has invalid version %q: %w", t.Name, t.Version, err)
		}
	}
	return nil
}

// Compatible reports whether the declared API range accepts EngineAPIVersion.
// An empty range accepts any engine.
func (t *SectionType) Compatible() error {
	if strings.TrimSpace(t.APIVersion) == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(t.APIVersion)
	if err != nil {
		return fmt.Errorf("section type %q has invalid apiVersion %q: %w", t.Name, t.APIVersion, err)
	}
	engine := semver.MustParse(EngineAPIVersion)
	if !constraint.Check(engine) {
		return fmt.Errorf("%w: %q requires api %s, engine is %s", ErrIncompatible, t.Name, t.APIVersion, EngineAPIVersion)
	}
	return nil
}

// Prepare applies schema defaults to section data.
func (t *SectionType) Prepare(data map[string]any) map[string]any {
	return t.Schema.ApplyDefaults(data)
}
