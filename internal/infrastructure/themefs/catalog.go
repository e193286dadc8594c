// Package themefs reads themes and section definitions from a themes
// directory. Each theme lives in its own directory with a theme.yaml manifest;
// section definitions sit under the theme's componentPathPrefix.
package themefs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/storefront/internal/domain/page"
	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/style"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// ManifestName is the file that marks a theme directory.
const ManifestName = "theme.yaml"

// ErrThemeNotFound reports an unknown theme id.
var ErrThemeNotFound = errors.New("theme not found")

// ThemeBundle is a catalog theme together with its bundled settings.
type ThemeBundle struct {
	Theme    page.Theme
	Settings *style.Settings
	// Path is the manifest location relative to the themes directory.
	Path string
}

type manifest struct {
	page.Theme `yaml:",inline"`
	Settings   *style.Settings `yaml:"settings"`
}

// Catalog lists the themes found one level below a themes directory.
type Catalog struct {
	fsys   fs.FS
	logger ports.Logger
}

// NewCatalog returns a catalog over the themes directory root.
func NewCatalog(root string, logger ports.Logger) *Catalog {
	return NewCatalogFS(os.DirFS(root), logger)
}

// NewCatalogFS is NewCatalog over an arbitrary file system.
func NewCatalogFS(fsys fs.FS, logger ports.Logger) *Catalog {
	if logger == nil {
		logger = logginginfra.NewNoOpLogger()
	}
	return &Catalog{fsys: fsys, logger: logger.With("component", "theme_catalog")}
}

// List decodes every theme manifest, sorted by theme id. A broken manifest
// fails the whole listing so it is never silently hidden.
func (c *Catalog) List(ctx context.Context) ([]ThemeBundle, error) {
	matches, err := doublestar.Glob(c.fsys, "*/"+ManifestName)
	if err != nil {
		return nil, fmt.Errorf("scan themes: %w", err)
	}
	sort.Strings(matches)

	bundles := make([]ThemeBundle, 0, len(matches))
	seen := make(map[string]string, len(matches))
	for _, match := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bundle, err := LoadManifest(c.fsys, match)
		if err != nil {
			return nil, err
		}
		if other, dup := seen[bundle.Theme.ID]; dup {
			return nil, sferrors.NewValidationError("id", fmt.Sprintf("theme %q declared by %s and %s", bundle.Theme.ID, other, match), nil)
		}
		seen[bundle.Theme.ID] = match
		bundles = append(bundles, bundle)
	}

	sort.Slice(bundles, func(i, j int) bool { return bundles[i].Theme.ID < bundles[j].Theme.ID })
	c.logger.Debug(ctx, "themes listed", "count", len(bundles))
	return bundles, nil
}

// Find returns the theme with id.
func (c *Catalog) Find(ctx context.Context, id string) (ThemeBundle, error) {
	bundles, err := c.List(ctx)
	if err != nil {
		return ThemeBundle{}, err
	}
	for _, bundle := range bundles {
		if bundle.Theme.ID == id {
			return bundle, nil
		}
	}
	return ThemeBundle{}, fmt.Errorf("%w: %s", ErrThemeNotFound, id)
}

// LoadManifest decodes and validates the manifest at name. Sections without an
// id receive a fresh one.
func LoadManifest(fsys fs.FS, name string) (ThemeBundle, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return ThemeBundle{}, sferrors.NewParseError(name, 0, err)
	}

	var doc manifest
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return ThemeBundle{}, sferrors.NewParseError(name, extractLine(err), err)
	}
	if doc.ID == "" {
		doc.ID = path.Base(path.Dir(name))
	}
	for p := range doc.Pages {
		for s := range doc.Pages[p].Body {
			section := &doc.Pages[p].Body[s]
			if section.ID == "" {
				section.ID = page.NewSection(section.Type, "", nil).ID
			}
			if section.Name == "" {
				section.Name = section.Type
			}
			if section.Data == nil {
				section.Data = map[string]any{}
			}
		}
	}

	if err := doc.Theme.Validate(); err != nil {
		return ThemeBundle{}, fmt.Errorf("%s: %w", name, err)
	}
	if doc.Settings != nil {
		if err := doc.Settings.Validate(); err != nil {
			return ThemeBundle{}, fmt.Errorf("%s: %w", name, err)
		}
	}

	return ThemeBundle{Theme: doc.Theme, Settings: doc.Settings, Path: name}, nil
}
