package themefs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"text/template"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/alexisbeaulieu97/storefront/internal/domain/schema"
	logginginfra "github.com/alexisbeaulieu97/storefront/internal/infrastructure/logging"
	"github.com/alexisbeaulieu97/storefront/internal/ports"
	"github.com/alexisbeaulieu97/storefront/internal/sections"
	sferrors "github.com/alexisbeaulieu97/storefront/pkg/errors"
)

// DefinitionSuffix names section definition files: <Type>.section.yaml.
const DefinitionSuffix = ".section.yaml"

type definition struct {
	Name        string        `yaml:"name"`
	Version     string        `yaml:"version"`
	APIVersion  string        `yaml:"apiVersion"`
	Description string        `yaml:"description"`
	FieldOrder  []string      `yaml:"fieldOrder"`
	Schema      schema.Schema `yaml:"schema"`
	Template    string        `yaml:"template"`
}

// Loader reads section definitions from <root>/<prefix>/<Type>.section.yaml.
// It implements sections.Loader.
type Loader struct {
	fsys   fs.FS
	logger ports.Logger
}

var _ sections.Loader = (*Loader)(nil)

// NewLoader returns a loader over the themes directory root.
func NewLoader(root string, logger ports.Logger) *Loader {
	return NewLoaderFS(os.DirFS(root), logger)
}

// NewLoaderFS is NewLoader over an arbitrary file system.
func NewLoaderFS(fsys fs.FS, logger ports.Logger) *Loader {
	if logger == nil {
		logger = logginginfra.NewNoOpLogger()
	}
	return &Loader{fsys: fsys, logger: logger.With("component", "section_loader")}
}

// DefinitionPath returns the file that defines sectionType under prefix.
func DefinitionPath(prefix, sectionType string) string {
	return path.Join(strings.Trim(prefix, "/"), sectionType+DefinitionSuffix)
}

// Load implements sections.Loader. A missing definition wraps
// sections.ErrSectionNotFound so chained loaders can fall through.
func (l *Loader) Load(ctx context.Context, sectionType, prefix string) (*sections.SectionType, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if sectionType == "" || strings.ContainsAny(sectionType, `/\`) || strings.Contains(sectionType, "..") {
		return nil, fmt.Errorf("%w: invalid type name %q", sections.ErrSectionNotFound, sectionType)
	}

	name := DefinitionPath(prefix, sectionType)
	data, err := fs.ReadFile(l.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", sections.ErrSectionNotFound, name)
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}

	var def definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, sferrors.NewParseError(name, extractLine(err), err)
	}
	if def.Name == "" {
		def.Name = sectionType
	}
	if def.Name != sectionType {
		return nil, sferrors.NewValidationError("name", fmt.Sprintf("%s declares %q, expected %q", name, def.Name, sectionType), nil)
	}

	t := &sections.SectionType{
		Metadata: sections.Metadata{
			Name:        def.Name,
			Version:     def.Version,
			APIVersion:  def.APIVersion,
			Description: def.Description,
		},
		Schema:     def.Schema,
		FieldOrder: def.FieldOrder,
	}
	if strings.TrimSpace(def.Template) != "" {
		renderer, err := newTemplateRenderer(name, def.Template)
		if err != nil {
			return nil, err
		}
		t.Renderer = renderer
	}

	l.logger.Debug(ctx, "section definition loaded", "section_type", sectionType, "path_prefix", prefix, "path", name)
	return t, nil
}

// Types lists the section types defined directly under prefix, sorted.
func (l *Loader) Types(prefix string) ([]string, error) {
	pattern := path.Join(escapeMeta(strings.Trim(prefix, "/")), "*"+DefinitionSuffix)
	matches, err := doublestar.Glob(l.fsys, pattern)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	names := make([]string, 0, len(matches))
	for _, match := range matches {
		names = append(names, strings.TrimSuffix(path.Base(match), DefinitionSuffix))
	}
	sort.Strings(names)
	return names, nil
}

// escapeMeta quotes the glob metacharacters in a literal path.
func escapeMeta(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\*?[]{}`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

type templateRenderer struct {
	tmpl *template.Template
}

type templateData struct {
	Section any
	Data    map[string]any
	Style   any
	Width   int
}

func newTemplateRenderer(name, text string) (*templateRenderer, error) {
	tmpl, err := template.New(name).Option("missingkey=zero").Funcs(templateFuncs).Parse(text)
	if err != nil {
		return nil, sferrors.NewValidationError("template", fmt.Sprintf("%s: %v", name, err), err)
	}
	return &templateRenderer{tmpl: tmpl}, nil
}

// Render executes the template and paints the result with the section's
// effective background and text colours.
func (r *templateRenderer) Render(ctx sections.RenderContext) (string, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, templateData{
		Section: ctx.Section,
		Data:    ctx.Data,
		Style:   ctx.Style,
		Width:   ctx.Width,
	})
	if err != nil {
		return "", err
	}

	block := lipgloss.NewStyle().
		Background(lipgloss.Color(ctx.Style.Colors.Background.Primary)).
		Foreground(lipgloss.Color(ctx.Style.Colors.Text.Primary)).
		Padding(0, 1)
	if ctx.Width > 2 {
		block = block.Width(ctx.Width)
	}
	return block.Render(strings.TrimRight(buf.String(), "\n")), nil
}

var templateFuncs = template.FuncMap{
	"upper": strings.ToUpper,
	"lower": strings.ToLower,
	"repeat": func(n int, s string) string {
		if n <= 0 {
			return ""
		}
		return strings.Repeat(s, n)
	},
	"default": func(fallback, value any) any {
		if value == nil {
			return fallback
		}
		if s, ok := value.(string); ok && s == "" {
			return fallback
		}
		return value
	},
	"list": func(value any) []any {
		list, _ := schema.AsList(value)
		return list
	},
}
